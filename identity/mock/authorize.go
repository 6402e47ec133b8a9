package mock

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// defaultAuthorizeHandler handles /oauth2/authorize requests by signing the user in immediately
func (m *AuthorizationService) defaultAuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("client_id") != m.ClientID {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}
	redirectURI, err := url.Parse(query.Get("redirect_uri"))
	if err != nil || redirectURI.String() == "" {
		http.Error(w, "Missing redirect URI", http.StatusBadRequest)
		return
	}
	code := uuid.NewString()
	m.mux.Lock()
	m.codes[code] = true
	m.mux.Unlock()

	values := redirectURI.Query()
	values.Set("code", code)
	values.Set("state", query.Get("state"))
	redirectURI.RawQuery = values.Encode()
	http.Redirect(w, r, redirectURI.String(), http.StatusFound)
}
