// Package apiclient implements a client for named HTTP API endpoints whose
// requests carry per-request headers.
//
// Each Endpoint registers a base URL and an optional CustomHeader callback.
// The callback runs fresh for every outgoing request through the endpoint's
// http.RoundTripper, so headers such as a bearer token always reflect the
// current state of whatever the callback consults.
package apiclient
