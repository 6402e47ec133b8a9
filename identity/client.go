package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	neturl "net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/viant/afs/url"
	"github.com/viant/authboot/identity/store"
	"github.com/viant/authboot/internal/collection"
	"github.com/viant/scy/auth/flow"
	"golang.org/x/oauth2"
)

var (
	// ErrNotConfigured is returned when the client is used before Configure
	ErrNotConfigured = errors.New("identity client is not configured")
	// ErrNoSession is returned when there is no signed-in session
	ErrNoSession = errors.New("no current session")
	// ErrUnknownState is returned when a callback state was not issued by this client
	ErrUnknownState = errors.New("unknown authorization state")
)

// pendingTTL bounds the time between AuthorizeURL and HandleCallback
const pendingTTL = 10 * time.Minute

type pendingAuthorization struct {
	codeVerifier string
	created      time.Time
}

// Client performs hosted-login flows against a user pool
type Client struct {
	config       *Config
	oauth2Config *oauth2.Config
	verifier     *verifier
	store        store.Store
	authFlow     flow.AuthFlow
	httpClient   *http.Client
	logger       hclog.Logger
	now          func() time.Time
	mux          sync.Mutex
	pending      *collection.SyncMap[string, *pendingAuthorization] // keyed by state
	listeners    []func()
}

// OnSessionRemoved registers fn to run whenever the current session is removed,
// either by SignOut or because it could no longer be refreshed or verified.
func (c *Client) OnSessionRemoved(fn func()) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Client) notifySessionRemoved() {
	c.mux.Lock()
	listeners := append([]func(){}, c.listeners...)
	c.mux.Unlock()
	for _, listener := range listeners {
		listener()
	}
}

// Configure prepares the client for hosted UI redirects
func (c *Client) Configure(config *Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid identity config: %w", err)
	}
	domain := config.DomainURL()
	c.mux.Lock()
	defer c.mux.Unlock()
	c.config = config
	c.oauth2Config = &oauth2.Config{
		ClientID: config.UserPoolWebClientID,
		Endpoint: oauth2.Endpoint{
			AuthURL:   url.Join(domain, "oauth2/authorize"),
			TokenURL:  url.Join(domain, "oauth2/token"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: config.OAuth.RedirectSignIn,
		Scopes:      append([]string{}, config.OAuth.Scope...),
	}
	c.verifier = newVerifier(config, c.store, c.httpClient, c.now)
	c.logger.Debug("configured", "issuer", config.Issuer(), "domain", domain, "scopes", config.OAuth.Scope)
	return nil
}

// Config returns configuration, nil before Configure
func (c *Client) Config() *Config {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.config
}

// OAuth2Config returns oauth2 client configuration, nil before Configure
func (c *Client) OAuth2Config() *oauth2.Config {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.oauth2Config
}

func (c *Client) configured() (*Config, *oauth2.Config, error) {
	c.mux.Lock()
	defer c.mux.Unlock()
	if c.config == nil {
		return nil, nil, ErrNotConfigured
	}
	return c.config, c.oauth2Config, nil
}

// CurrentSession returns the verified current session, refreshing it when expired
func (c *Client) CurrentSession(ctx context.Context) (*store.Session, error) {
	config, oauth2Config, err := c.configured()
	if err != nil {
		return nil, err
	}
	clientID := config.UserPoolWebClientID
	session, ok := c.store.LookupSession(clientID)
	if !ok || session == nil {
		return nil, ErrNoSession
	}
	if session.Expired(c.now()) {
		if session.RefreshToken == "" {
			c.removeSession(clientID)
			return nil, fmt.Errorf("session expired: %w", ErrNoSession)
		}
		refreshed, err := c.refresh(ctx, oauth2Config, session)
		if err != nil {
			c.removeSession(clientID)
			return nil, fmt.Errorf("failed to refresh session: %w", err)
		}
		if err = c.store.AddSession(clientID, refreshed); err != nil {
			return nil, fmt.Errorf("failed to store refreshed session: %w", err)
		}
		c.logger.Debug("session refreshed", "expiry", refreshed.Expiry)
		session = refreshed
	}
	if err = c.verifier.verify(ctx, session); err != nil {
		c.removeSession(clientID)
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	return session, nil
}

func (c *Client) refresh(ctx context.Context, oauth2Config *oauth2.Config, session *store.Session) (*store.Session, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := oauth2Config.TokenSource(ctx, session.Token()).Token()
	if err != nil {
		return nil, err
	}
	refreshed := store.NewSession(token)
	// hosted UI does not rotate refresh tokens
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = session.RefreshToken
	}
	return refreshed, nil
}

// SignIn runs the interactive sign-in flow and stores the resulting session
func (c *Client) SignIn(ctx context.Context) (*store.Session, error) {
	config, oauth2Config, err := c.configured()
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.authFlow.Token(ctx, oauth2Config, flow.WithPKCE(true))
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	return c.addSession(ctx, config, token)
}

// AuthorizeURL returns hosted UI sign-in URL, the issued state is remembered until HandleCallback
func (c *Client) AuthorizeURL() (string, error) {
	config, oauth2Config, err := c.configured()
	if err != nil {
		return "", err
	}
	codeVerifier := flow.GenerateCodeVerifier()
	state := flow.GenerateCodeVerifier()
	URL, err := flow.BuildAuthCodeURL(oauth2Config,
		flow.WithPKCE(true),
		flow.WithState(state),
		flow.WithCodeVerifier(codeVerifier),
		flow.WithRedirectURI(config.OAuth.RedirectSignIn))
	if err != nil {
		return "", fmt.Errorf("failed to build authorize URL: %w", err)
	}
	now := c.now()
	c.pending.DeleteFunc(func(_ string, pending *pendingAuthorization) bool {
		return now.Sub(pending.created) > pendingTTL
	})
	c.pending.Put(state, &pendingAuthorization{codeVerifier: codeVerifier, created: now})
	return URL, nil
}

// HandleCallback exchanges the authorization code delivered to redirectSignIn
func (c *Client) HandleCallback(ctx context.Context, code, state string) (*store.Session, error) {
	config, oauth2Config, err := c.configured()
	if err != nil {
		return nil, err
	}
	pending, ok := c.pending.Take(state)
	if !ok || c.now().Sub(pending.created) > pendingTTL {
		return nil, ErrUnknownState
	}
	codeVerifier := pending.codeVerifier
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := flow.Exchange(ctx, oauth2Config, code,
		flow.WithCodeVerifier(codeVerifier),
		flow.WithRedirectURI(config.OAuth.RedirectSignIn))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if token == nil {
		return nil, fmt.Errorf("failed to exchange authorization code: empty token")
	}
	return c.addSession(ctx, config, token)
}

func (c *Client) addSession(ctx context.Context, config *Config, token *oauth2.Token) (*store.Session, error) {
	session := store.NewSession(token)
	if err := c.verifier.verify(ctx, session); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	if err := c.store.AddSession(config.UserPoolWebClientID, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	c.logger.Info("signed in", "expiry", session.Expiry)
	return session, nil
}

// SignOut removes the current session
func (c *Client) SignOut(ctx context.Context) error {
	config, _, err := c.configured()
	if err != nil {
		return err
	}
	if err = c.store.RemoveSession(config.UserPoolWebClientID); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	c.notifySessionRemoved()
	c.logger.Info("signed out")
	return nil
}

// SignOutURL returns hosted UI logout URL
func (c *Client) SignOutURL() (string, error) {
	config, _, err := c.configured()
	if err != nil {
		return "", err
	}
	values := neturl.Values{}
	values.Set("client_id", config.UserPoolWebClientID)
	values.Set("logout_uri", config.OAuth.RedirectSignOut)
	return url.Join(config.DomainURL(), "logout") + "?" + values.Encode(), nil
}

func (c *Client) removeSession(clientID string) {
	if err := c.store.RemoveSession(clientID); err != nil {
		c.logger.Warn("failed to remove session", "error", err)
	}
	c.notifySessionRemoved()
}

// New creates an unconfigured identity client
func New(options ...Option) *Client {
	ret := &Client{
		store:      store.NewMemoryStore(),
		authFlow:   flow.NewBrowserFlow(),
		httpClient: cleanhttp.DefaultPooledClient(),
		logger:     hclog.NewNullLogger(),
		now:        time.Now,
		pending:    collection.NewSyncMap[string, *pendingAuthorization](),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
