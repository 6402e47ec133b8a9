package mock

import (
	"net/http"
	"strings"
)

// Handler routes HTTP requests to the appropriate mock provider endpoints.
type Handler struct {
	Server *AuthorizationService
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/oauth2/authorize":
		serve(w, r, h.Server.AuthorizeHandler, h.Server.defaultAuthorizeHandler)
	case r.URL.Path == "/oauth2/token":
		serve(w, r, h.Server.TokenHandler, h.Server.defaultTokenHandler)
	case strings.HasSuffix(r.URL.Path, "/.well-known/jwks.json"):
		serve(w, r, h.Server.JwksHandler, h.Server.defaultJwksHandler)
	default:
		http.NotFound(w, r)
	}
}

func serve(w http.ResponseWriter, r *http.Request, custom, fallback http.HandlerFunc) {
	if custom != nil {
		custom(w, r)
		return
	}
	fallback(w, r)
}
