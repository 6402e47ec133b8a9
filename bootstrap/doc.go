// Package bootstrap sequences application startup.
//
// The Sequencer configures the identity client, registers the API endpoint
// whose requests carry the cached bearer token, initializes the token cache
// and finally mounts the application root. Initialization failures are
// logged and never prevent the mount; configuration failures abort before
// any collaborator is touched.
package bootstrap
