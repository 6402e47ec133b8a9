// Package store defines the session store used by the identity client.
//
// It ships with an in-memory implementation that is sufficient for tests and
// short-lived processes, and a file backed one that lets a signed-in session
// survive process restarts.
package store
