package identity

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/authboot/identity/store"
	"github.com/viant/mcp-protocol/oauth2/meta"
)

var errKeyNotFound = errors.New("signing key not found")

// verifier checks pool issued tokens against the pool JSON Web Key Set
type verifier struct {
	issuer     string
	clientID   string
	jwksURL    string
	store      store.Store
	httpClient *http.Client
	now        func() time.Time
}

func (v *verifier) verify(ctx context.Context, session *store.Session) error {
	if session.AccessToken == "" {
		return errors.New("access token was empty")
	}
	if _, err := v.parse(ctx, session.AccessToken); err != nil {
		return fmt.Errorf("access token: %w", err)
	}
	if session.IDToken == "" {
		return nil
	}
	if _, err := v.parse(ctx, session.IDToken, jwt.WithAudience(v.clientID)); err != nil {
		return fmt.Errorf("id token: %w", err)
	}
	return nil
}

func (v *verifier) parse(ctx context.Context, tokenString string, options ...jwt.ParserOption) (*jwt.Token, error) {
	options = append(options,
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	keys, err := v.keys(ctx, false)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Parse(tokenString, keyFunc(keys), options...)
	if errors.Is(err, errKeyNotFound) {
		// keys rotated since they were cached
		if keys, err = v.keys(ctx, true); err != nil {
			return nil, err
		}
		token, err = jwt.Parse(tokenString, keyFunc(keys), options...)
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (v *verifier) keys(ctx context.Context, reload bool) (map[string]crypto.PublicKey, error) {
	if !reload {
		if keys, ok := v.store.LookupIssuerPublicKeys(v.issuer); ok {
			return keys, nil
		}
	}
	keys, err := meta.FetchJSONWebKeySet(ctx, v.jwksURL, v.httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JSON Web Key Set: %w", err)
	}
	if err = v.store.AddIssuerPublicKeys(v.issuer, keys); err != nil {
		return nil, fmt.Errorf("failed to store issuer public keys: %w", err)
	}
	return keys, nil
}

func keyFunc(keys map[string]crypto.PublicKey) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("kid header not found")
		}
		key, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("%w: %v", errKeyNotFound, kid)
		}
		return key, nil
	}
}

func newVerifier(config *Config, aStore store.Store, httpClient *http.Client, now func() time.Time) *verifier {
	return &verifier{
		issuer:     config.Issuer(),
		clientID:   config.UserPoolWebClientID,
		jwksURL:    config.JSONWebKeySetURL(),
		store:      aStore,
		httpClient: httpClient,
		now:        now,
	}
}
