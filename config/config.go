package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/viant/authboot/identity"
)

const (
	// RedirectURL is the hosted UI sign-in and sign-out redirect target
	RedirectURL = "http://localhost:8080"
	// TestAPIName is the registered name of the API endpoint
	TestAPIName = "TestApi"
)

// Scopes requested from the hosted UI
var Scopes = []string{"openid", "profile", "test-api/read", "test-api/write"}

// Config represents validated application configuration
type Config struct {
	Region           string `env:"APP_AWS_REGION,required,notEmpty"`
	UserPoolID       string `env:"APP_USER_POOL_ID,required,notEmpty"`
	UserPoolClientID string `env:"APP_USER_POOL_CLIENT_ID,required,notEmpty"`
	HostedUIDomain   string `env:"APP_HOSTED_UI_DOMAIN,required,notEmpty"`
	TestAPIEndpoint  string `env:"APP_TEST_API_ENDPOINT,required,notEmpty"`
	IdentityEndpoint string `env:"APP_IDENTITY_ENDPOINT"`
	LogLevel         string `env:"APP_LOG_LEVEL" envDefault:"info"`
	SessionFile      string `env:"APP_SESSION_FILE"`
}

// Identity returns identity client configuration
func (c *Config) Identity() *identity.Config {
	return &identity.Config{
		Region:              c.Region,
		UserPoolID:          c.UserPoolID,
		UserPoolWebClientID: c.UserPoolClientID,
		Endpoint:            c.IdentityEndpoint,
		OAuth: identity.OAuth{
			Domain:          c.HostedUIDomain,
			Scope:           append([]string{}, Scopes...),
			RedirectSignIn:  RedirectURL,
			RedirectSignOut: RedirectURL,
			ResponseType:    identity.ResponseTypeCode,
		},
	}
}

// Validate checks values that parse but cannot be used, e.g. after command line overrides
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return &ConfigurationError{Err: err}
	}
	return nil
}

func (c *Config) validate() error {
	var result *multierror.Error
	if URL, err := url.Parse(c.TestAPIEndpoint); err != nil || URL.Scheme == "" || URL.Host == "" {
		result = multierror.Append(result, fmt.Errorf("APP_TEST_API_ENDPOINT must be an absolute URL: %q", c.TestAPIEndpoint))
	}
	if strings.ContainsAny(c.HostedUIDomain, " /?#") && !strings.Contains(c.HostedUIDomain, "://") {
		result = multierror.Append(result, fmt.Errorf("APP_HOSTED_UI_DOMAIN must be a host name: %q", c.HostedUIDomain))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result, fmt.Errorf("APP_LOG_LEVEL is not a valid level: %q", c.LogLevel))
	}
	return result.ErrorOrNil()
}

// Load loads configuration from the process environment
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadEnvironment loads configuration from the supplied variables only
func LoadEnvironment(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

func load(options env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, newConfigurationError(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigurationError reports missing or invalid configuration
type ConfigurationError struct {
	Missing []string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required environment variables: " + strings.Join(e.Missing, ", ")
	}
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func newConfigurationError(err error) *ConfigurationError {
	ret := &ConfigurationError{Err: err}
	var aggregate env.AggregateError
	if !errors.As(err, &aggregate) {
		return ret
	}
	seen := map[string]bool{}
	for _, item := range aggregate.Errors {
		var notSet env.EnvVarIsNotSetError
		var empty env.EmptyEnvVarError
		key := ""
		switch {
		case errors.As(item, &notSet):
			key = notSet.Key
		case errors.As(item, &empty):
			key = empty.Key
		}
		if key != "" && !seen[key] {
			seen[key] = true
			ret.Missing = append(ret.Missing, key)
		}
	}
	sort.Strings(ret.Missing)
	return ret
}
