package apiclient

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

const requestIDHeader = "X-Request-Id"

// RoundTripper applies endpoint headers to every request
type RoundTripper struct {
	endpoint  *Endpoint
	transport http.RoundTripper
	logger    hclog.Logger
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone req to avoid mutating caller headers
	clone := req.Clone(req.Context())
	if r.endpoint.CustomHeader != nil {
		header, err := r.endpoint.CustomHeader(req.Context())
		if err != nil {
			if req.Body != nil {
				_ = req.Body.Close()
			}
			return nil, fmt.Errorf("endpoint %v: custom header: %w", r.endpoint.Name, err)
		}
		for key, values := range header {
			clone.Header.Del(key)
			for _, value := range values {
				clone.Header.Add(key, value)
			}
		}
	}
	if clone.Header.Get(requestIDHeader) == "" {
		clone.Header.Set(requestIDHeader, uuid.NewString())
	}
	r.logger.Trace("request", "method", clone.Method, "url", clone.URL.String(),
		"requestID", clone.Header.Get(requestIDHeader), "authorized", clone.Header.Get("Authorization") != "")
	return r.transport.RoundTrip(clone)
}
