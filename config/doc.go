// Package config loads the application configuration from the process
// environment. Every required variable is checked in one pass so that a
// failed start reports all missing keys at once.
package config
