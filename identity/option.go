package identity

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/viant/authboot/identity/store"
	"github.com/viant/scy/auth/flow"
)

type Option func(*Client)

// WithStore sets session store
func WithStore(store store.Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithAuthFlow sets interactive sign-in flow
func WithAuthFlow(flow flow.AuthFlow) Option {
	return func(c *Client) {
		c.authFlow = flow
	}
}

// WithHTTPClient sets http client used for token and key requests
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets logger
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock sets time source
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}
