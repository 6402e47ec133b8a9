package bootstrap

import (
	"github.com/hashicorp/go-hclog"
	"github.com/viant/authboot/apiclient"
	"github.com/viant/authboot/identity"
)

type Option func(*Sequencer)

// WithIdentity sets identity client
func WithIdentity(client *identity.Client) Option {
	return func(s *Sequencer) {
		s.identity = client
	}
}

// WithAPIClient sets API client
func WithAPIClient(client *apiclient.Client) Option {
	return func(s *Sequencer) {
		s.api = client
	}
}

// WithMounter sets application root mounter
func WithMounter(mounter Mounter) Option {
	return func(s *Sequencer) {
		s.mounter = mounter
	}
}

// WithLogger sets logger
func WithLogger(logger hclog.Logger) Option {
	return func(s *Sequencer) {
		s.logger = logger
	}
}
