// Package tokenstore holds the process-wide bearer token.
//
// The Cache is the only mediator between "a request needs a token" and "how
// that token is obtained": the HTTP layer fetches from it, the identity layer
// feeds it through Init.
package tokenstore
