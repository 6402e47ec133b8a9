package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/viant/authboot/apiclient"
	"github.com/viant/authboot/config"
	"github.com/viant/authboot/identity"
	"github.com/viant/authboot/tokenstore"
)

// Sequencer runs one-shot startup: identity, API client, token init, mount
type Sequencer struct {
	config   *config.Config
	identity *identity.Client
	api      *apiclient.Client
	cache    *tokenstore.Cache
	mounter  Mounter
	logger   hclog.Logger
	mux      sync.Mutex
	state    State
}

// State returns startup progress
func (s *Sequencer) State() State {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.state
}

// Identity returns identity client
func (s *Sequencer) Identity() *identity.Client { return s.identity }

// API returns API client
func (s *Sequencer) API() *apiclient.Client { return s.api }

// Cache returns token cache
func (s *Sequencer) Cache() *tokenstore.Cache { return s.cache }

func (s *Sequencer) transition(from, to State) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.state != from {
		return fmt.Errorf("%w: expected %v, was %v", ErrInvalidState, from, s.state)
	}
	s.state = to
	s.logger.Debug("state", "from", from, "to", to)
	return nil
}

// ConfigureIdentity passes pool and hosted UI settings to the identity client
func (s *Sequencer) ConfigureIdentity() error {
	s.mux.Lock()
	state := s.state
	s.mux.Unlock()
	if state != Unconfigured {
		return fmt.Errorf("%w: expected %v, was %v", ErrInvalidState, Unconfigured, state)
	}
	if err := s.identity.Configure(s.config.Identity()); err != nil {
		return err
	}
	return s.transition(Unconfigured, IdentityConfigured)
}

// ConfigureHTTPClient registers the API endpoint with a bearer header taken from the token cache
func (s *Sequencer) ConfigureHTTPClient() error {
	s.mux.Lock()
	state := s.state
	s.mux.Unlock()
	if state != IdentityConfigured {
		return fmt.Errorf("%w: expected %v, was %v", ErrInvalidState, IdentityConfigured, state)
	}
	err := s.api.Configure(&apiclient.Endpoint{
		Name:         config.TestAPIName,
		URL:          s.config.TestAPIEndpoint,
		CustomHeader: apiclient.BearerHeader(s.cache),
	})
	if err != nil {
		return err
	}
	return s.transition(IdentityConfigured, HTTPConfigured)
}

// Start initializes the token cache, then mounts the application root exactly once
// whatever the initialization outcome.
func (s *Sequencer) Start(ctx context.Context) (InitOutcome, error) {
	if err := s.transition(HTTPConfigured, Initializing); err != nil {
		return InitOutcome{}, err
	}
	outcome := InitOutcome{Err: s.cache.Init(ctx)}
	if !outcome.OK() {
		s.logger.Warn("token init failed", "error", outcome.Err)
	}
	if err := s.mounter.Mount(ctx); err != nil {
		return outcome, fmt.Errorf("failed to mount: %w", err)
	}
	if err := s.transition(Initializing, Mounted); err != nil {
		return outcome, err
	}
	s.logger.Info("mounted", "signedIn", outcome.OK())
	return outcome, nil
}

// Run configures collaborators and starts
func (s *Sequencer) Run(ctx context.Context) (InitOutcome, error) {
	if err := s.ConfigureIdentity(); err != nil {
		return InitOutcome{}, fmt.Errorf("failed to configure identity: %w", err)
	}
	if err := s.ConfigureHTTPClient(); err != nil {
		return InitOutcome{}, fmt.Errorf("failed to configure http client: %w", err)
	}
	return s.Start(ctx)
}

// Launch loads configuration and runs a new Sequencer; nothing is configured when loading fails
func Launch(ctx context.Context, load func() (*config.Config, error), options ...Option) (*Sequencer, InitOutcome, error) {
	cfg, err := load()
	if err != nil {
		return nil, InitOutcome{}, err
	}
	ret := New(cfg, options...)
	outcome, err := ret.Run(ctx)
	return ret, outcome, err
}

// New creates a Sequencer
func New(cfg *config.Config, options ...Option) *Sequencer {
	ret := &Sequencer{config: cfg}
	for _, opt := range options {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = hclog.NewNullLogger()
	}
	if ret.identity == nil {
		ret.identity = identity.New(identity.WithLogger(ret.logger.Named("identity")))
	}
	if ret.api == nil {
		ret.api = apiclient.New(apiclient.WithLogger(ret.logger.Named("api")))
	}
	if ret.mounter == nil {
		logger := ret.logger
		ret.mounter = MountFunc(func(ctx context.Context) error {
			logger.Debug("no application root to mount")
			return nil
		})
	}
	ret.cache = tokenstore.New(ret.identity, tokenstore.WithLogger(ret.logger.Named("token")))
	ret.identity.OnSessionRemoved(ret.cache.Invalidate)
	return ret
}
