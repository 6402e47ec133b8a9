package tokenstore

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

type Option func(*Cache)

// WithLogger sets logger
func WithLogger(logger hclog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithClock sets time source
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}
