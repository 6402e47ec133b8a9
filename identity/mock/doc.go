// Package mock provides an httptest hosted-login identity provider that
// facilitates testing of the identity client and everything built on it.
//
// The provider issues authorization codes, exchanges and refreshes them for
// RS256 signed tokens and publishes its signing key as a JSON Web Key Set.
package mock
