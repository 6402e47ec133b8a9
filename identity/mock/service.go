package mock

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/viant/afs/url"
	"github.com/viant/authboot/identity"
)

const (
	DefaultPoolID   = "us-east-1_mock"
	DefaultClientID = "mock_web_client_id"
	DefaultKeyID    = "mock-key"
)

// AuthorizationService simulates a user pool with a hosted UI
type AuthorizationService struct {
	Issuer     string
	PoolID     string
	ClientID   string
	KeyID      string
	PrivateKey *rsa.PrivateKey
	TokenTTL   time.Duration

	AuthorizeHandler http.HandlerFunc
	TokenHandler     http.HandlerFunc
	JwksHandler      http.HandlerFunc

	mux          sync.Mutex
	codes        map[string]bool
	refreshCount int
	server       *httptest.Server
}

// URL returns the provider base URL
func (m *AuthorizationService) URL() string {
	return m.server.URL
}

// RefreshCount returns the number of served refresh grants
func (m *AuthorizationService) RefreshCount() int {
	m.mux.Lock()
	defer m.mux.Unlock()
	return m.refreshCount
}

// Config returns identity client configuration pointing at this provider
func (m *AuthorizationService) Config() *identity.Config {
	return &identity.Config{
		Region:              "us-east-1",
		UserPoolID:          m.PoolID,
		UserPoolWebClientID: m.ClientID,
		Endpoint:            m.server.URL,
		OAuth: identity.OAuth{
			Domain:          m.server.URL,
			Scope:           []string{"openid", "profile"},
			RedirectSignIn:  "http://localhost:8080",
			RedirectSignOut: "http://localhost:8080",
			ResponseType:    identity.ResponseTypeCode,
		},
	}
}

// Close shuts down the provider
func (m *AuthorizationService) Close() {
	m.server.Close()
}

// NewHTTPTestAuthorizationServer starts a mock provider on a local listener
func NewHTTPTestAuthorizationServer() (*AuthorizationService, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	ret := &AuthorizationService{
		PoolID:     DefaultPoolID,
		ClientID:   DefaultClientID,
		KeyID:      DefaultKeyID,
		PrivateKey: privateKey,
		TokenTTL:   time.Hour,
		codes:      map[string]bool{},
	}
	ret.server = httptest.NewServer(&Handler{Server: ret})
	ret.Issuer = url.Join(ret.server.URL, ret.PoolID)
	return ret, nil
}
