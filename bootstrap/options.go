package bootstrap

// Options represents command line options
type Options struct {
	Addr        string `short:"a" long:"addr" description:"application listen address" default:"localhost:8080"`
	SessionFile string `short:"s" long:"session" description:"session file, overrides APP_SESSION_FILE"`
	SignIn      bool   `short:"l" long:"signin" description:"run interactive browser sign-in when there is no session"`
	LogLevel    string `short:"v" long:"log-level" description:"log level, overrides APP_LOG_LEVEL"`
}
