package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/viant/afs/url"
)

// ErrUnknownEndpoint is returned for endpoint names that were not configured
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// StatusError is returned by JSON helpers for non 2xx responses
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint %v: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Client sends requests to named endpoints
type Client struct {
	mux       sync.RWMutex
	endpoints map[string]*http.Client
	urls      map[string]string
	transport http.RoundTripper
	logger    hclog.Logger
}

// Configure registers endpoints, replacing any previous configuration
func (c *Client) Configure(endpoints ...*Endpoint) error {
	clients := make(map[string]*http.Client, len(endpoints))
	urls := make(map[string]string, len(endpoints))
	for _, endpoint := range endpoints {
		if err := endpoint.Validate(); err != nil {
			return err
		}
		if _, ok := clients[endpoint.Name]; ok {
			return fmt.Errorf("duplicate endpoint: %v", endpoint.Name)
		}
		clients[endpoint.Name] = &http.Client{Transport: &RoundTripper{
			endpoint:  endpoint,
			transport: c.transport,
			logger:    c.logger.With("endpoint", endpoint.Name),
		}}
		urls[endpoint.Name] = endpoint.URL
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	c.endpoints = clients
	c.urls = urls
	return nil
}

// HTTPClient returns http client applying the named endpoint headers
func (c *Client) HTTPClient(name string) (*http.Client, error) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	client, ok := c.endpoints[name]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownEndpoint, name)
	}
	return client, nil
}

// URL returns the named endpoint URL joined with path
func (c *Client) URL(name, path string) (string, error) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	baseURL, ok := c.urls[name]
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrUnknownEndpoint, name)
	}
	if path == "" {
		return baseURL, nil
	}
	return url.Join(baseURL, path), nil
}

// Do sends a request to path relative to the named endpoint with the supplied header.
// A request body without Content-Type is sent as JSON.
func (c *Client) Do(ctx context.Context, name, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	client, err := c.HTTPClient(name)
	if err != nil {
		return nil, err
	}
	URL, err := c.URL(name, path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, body)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return client.Do(req)
}

// Get fetches path and decodes JSON response into out
func (c *Client) Get(ctx context.Context, name, path string, out interface{}) error {
	resp, err := c.Do(ctx, name, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Endpoint: name, StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("endpoint %v: failed to decode response: %w", name, err)
	}
	return nil
}

// New creates a client without endpoints
func New(options ...Option) *Client {
	ret := &Client{
		endpoints: map[string]*http.Client{},
		urls:      map[string]string{},
		transport: cleanhttp.DefaultPooledTransport(),
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
