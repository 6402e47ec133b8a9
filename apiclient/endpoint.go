package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// HeaderFunc produces headers for a single outgoing request
type HeaderFunc func(ctx context.Context) (http.Header, error)

// Endpoint represents a named API base URL
type Endpoint struct {
	Name         string
	URL          string
	CustomHeader HeaderFunc
}

// Validate checks endpoint name and URL
func (e *Endpoint) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("endpoint name was empty")
	}
	URL, err := url.Parse(e.URL)
	if err != nil {
		return fmt.Errorf("endpoint %v: invalid URL: %w", e.Name, err)
	}
	if URL.Scheme == "" || URL.Host == "" {
		return fmt.Errorf("endpoint %v: URL must be absolute: %q", e.Name, e.URL)
	}
	return nil
}

// TokenSource returns the current bearer token, empty when there is none
type TokenSource interface {
	FetchToken(ctx context.Context) (string, error)
}

// BearerHeader returns a HeaderFunc that sets "Authorization: Bearer <token>".
// No header is produced while the source has no token.
func BearerHeader(source TokenSource) HeaderFunc {
	return func(ctx context.Context) (http.Header, error) {
		token, err := source.FetchToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch token: %w", err)
		}
		header := http.Header{}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
		return header, nil
	}
}
