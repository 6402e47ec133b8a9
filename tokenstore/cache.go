package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/viant/authboot/identity/store"
)

// ErrTokenInit matches every TokenInitError
var ErrTokenInit = errors.New("token init failed")

// TokenInitError is returned when Init could not obtain a session token
type TokenInitError struct {
	Err error
}

func (e *TokenInitError) Error() string {
	return fmt.Sprintf("%v: %v", ErrTokenInit, e.Err)
}

func (e *TokenInitError) Unwrap() error { return e.Err }

func (e *TokenInitError) Is(target error) bool { return target == ErrTokenInit }

// SessionSource returns the current verified session
type SessionSource interface {
	CurrentSession(ctx context.Context) (*store.Session, error)
}

// Cache holds at most one token
type Cache struct {
	source SessionSource
	logger hclog.Logger
	now    func() time.Time
	mux    sync.RWMutex
	token  string
	expiry time.Time
}

// Init replaces the held token with the current session token
func (c *Cache) Init(ctx context.Context) error {
	session, err := c.source.CurrentSession(ctx)
	if err == nil && (session == nil || session.AccessToken == "") {
		err = errors.New("session has no access token")
	}
	if err != nil {
		c.Invalidate()
		return &TokenInitError{Err: err}
	}
	c.set(session)
	c.logger.Debug("token initialized", "expiry", session.Expiry)
	return nil
}

// FetchToken returns the held token, or an empty string when there is none.
// An expired token is revalidated with the session source first and is
// dropped when revalidation fails. Sources that end sessions on their own
// must call Invalidate (see identity.Client.OnSessionRemoved).
func (c *Cache) FetchToken(ctx context.Context) (string, error) {
	c.mux.RLock()
	token, expiry := c.token, c.expiry
	c.mux.RUnlock()
	if token == "" {
		return "", nil
	}
	if expiry.IsZero() || c.now().Before(expiry) {
		return token, nil
	}
	session, err := c.source.CurrentSession(ctx)
	if err != nil || session == nil || session.AccessToken == "" {
		c.logger.Info("dropping expired token", "error", err)
		c.invalidate(token)
		return "", nil
	}
	c.set(session)
	return session.AccessToken, nil
}

// Invalidate clears the held token
func (c *Cache) Invalidate() {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.token, c.expiry = "", time.Time{}
}

// invalidate clears the held token only if it was not replaced meanwhile
func (c *Cache) invalidate(token string) {
	c.mux.Lock()
	defer c.mux.Unlock()
	if c.token == token {
		c.token, c.expiry = "", time.Time{}
	}
}

func (c *Cache) set(session *store.Session) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.token, c.expiry = session.AccessToken, session.Expiry
}

// New creates an empty cache
func New(source SessionSource, options ...Option) *Cache {
	ret := &Cache{
		source: source,
		logger: hclog.NewNullLogger(),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
