package identity

import (
	"fmt"
	"strings"

	"github.com/viant/afs/url"
)

const (
	// ResponseTypeCode selects the authorization code grant
	ResponseTypeCode = "code"

	defaultEndpointTemplate = "https://cognito-idp.%s.amazonaws.com"
	jwksPath                = ".well-known/jwks.json"
)

// Config describes the user pool and its hosted UI.
type Config struct {
	Region              string
	UserPoolID          string
	UserPoolWebClientID string
	// Endpoint overrides the regional identity provider endpoint
	Endpoint string
	OAuth    OAuth
}

// OAuth describes hosted UI parameters.
type OAuth struct {
	Domain          string
	Scope           []string
	RedirectSignIn  string
	RedirectSignOut string
	ResponseType    string
}

// Issuer returns the token issuer of the user pool
func (c *Config) Issuer() string {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf(defaultEndpointTemplate, c.Region)
	}
	return url.Join(endpoint, c.UserPoolID)
}

// JSONWebKeySetURL returns the pool signing keys location
func (c *Config) JSONWebKeySetURL() string {
	return url.Join(c.Issuer(), jwksPath)
}

// DomainURL returns the hosted UI base URL
func (c *Config) DomainURL() string {
	domain := strings.TrimRight(c.OAuth.Domain, "/")
	if strings.Contains(domain, "://") {
		return domain
	}
	return "https://" + domain
}

// Validate checks that the pool can be used with the hosted UI
func (c *Config) Validate() error {
	switch {
	case c.Region == "" && c.Endpoint == "":
		return fmt.Errorf("region was empty")
	case c.UserPoolID == "":
		return fmt.Errorf("user pool id was empty")
	case c.UserPoolWebClientID == "":
		return fmt.Errorf("user pool web client id was empty")
	case c.OAuth.Domain == "":
		return fmt.Errorf("oauth domain was empty")
	case c.OAuth.RedirectSignIn == "":
		return fmt.Errorf("oauth redirectSignIn was empty")
	}
	if c.OAuth.ResponseType != ResponseTypeCode {
		return fmt.Errorf("unsupported oauth response type: %q", c.OAuth.ResponseType)
	}
	return nil
}
