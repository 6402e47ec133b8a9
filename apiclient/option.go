package apiclient

import (
	"net/http"

	"github.com/hashicorp/go-hclog"
)

type Option func(*Client)

// WithTransport sets base transport
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithLogger sets logger
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
