// Package identity implements the hosted-login client for a managed user pool.
//
// A Client is configured once with the pool coordinates and the OAuth
// parameters of the hosted UI. It can then drive an interactive sign-in,
// complete the redirect callback issued by the hosted UI, and report the
// current session. CurrentSession refreshes expired sessions with the refresh
// token and verifies the returned tokens against the pool's JSON Web Key Set.
package identity
