package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/jessevdk/go-flags"
	"github.com/viant/authboot/config"
	"github.com/viant/authboot/identity"
	"github.com/viant/authboot/identity/store"
)

// Run parses args, starts the application and serves it until interrupted
func Run(args []string) error {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if options.SessionFile != "" {
		cfg.SessionFile = options.SessionFile
	}
	if options.LogLevel != "" {
		cfg.LogLevel = options.LogLevel
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "authboot",
		Level:  hclog.LevelFromString(cfg.LogLevel),
		Output: os.Stderr,
	})

	identityOptions := []identity.Option{identity.WithLogger(logger.Named("identity"))}
	if cfg.SessionFile != "" {
		sessionStore, err := store.NewFileStore(cfg.SessionFile)
		if err != nil {
			return err
		}
		identityOptions = append(identityOptions, identity.WithStore(sessionStore))
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mounter := &HTTPMounter{Addr: options.Addr}
	sequencer := New(cfg,
		WithLogger(logger),
		WithIdentity(identity.New(identityOptions...)),
		WithMounter(mounter))
	mounter.Handler = NewApp(sequencer)

	if err = sequencer.ConfigureIdentity(); err != nil {
		return err
	}
	if options.SignIn {
		signIn(ctx, sequencer.Identity(), logger)
	}
	if err = sequencer.ConfigureHTTPClient(); err != nil {
		return err
	}
	if _, err = sequencer.Start(ctx); err != nil {
		return err
	}
	logger.Info("serving", "addr", mounter.Address().String())
	return <-mounter.Done()
}

func signIn(ctx context.Context, client *identity.Client, logger hclog.Logger) {
	_, err := client.CurrentSession(ctx)
	if err == nil {
		return
	}
	if !errors.Is(err, identity.ErrNoSession) {
		logger.Warn("current session unavailable", "error", err)
	}
	if _, err = client.SignIn(ctx); err != nil {
		logger.Warn("interactive sign-in failed", "error", err)
	}
}
