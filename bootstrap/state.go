package bootstrap

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when a startup step runs out of order
var ErrInvalidState = errors.New("invalid startup state")

// State represents startup progress
type State int

const (
	Unconfigured State = iota
	IdentityConfigured
	HTTPConfigured
	Initializing
	Mounted
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case IdentityConfigured:
		return "identityConfigured"
	case HTTPConfigured:
		return "httpConfigured"
	case Initializing:
		return "initializing"
	case Mounted:
		return "mounted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// InitOutcome is the settled result of token cache initialization
type InitOutcome struct {
	Err error
}

// OK returns true when initialization succeeded
func (o InitOutcome) OK() bool { return o.Err == nil }
