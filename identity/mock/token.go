package mock

import (
	"encoding/json"
	"net/http"
)

// defaultTokenHandler handles /oauth2/token requests
func (m *AuthorizationService) defaultTokenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	clientID, _, ok := r.BasicAuth()
	if !ok {
		clientID = r.FormValue("client_id")
	}
	if clientID != m.ClientID {
		writeError(w, http.StatusUnauthorized, "invalid_client")
		return
	}
	includeRefresh := true
	switch r.FormValue("grant_type") {
	case "authorization_code":
		code := r.FormValue("code")
		m.mux.Lock()
		issued := m.codes[code]
		delete(m.codes, code)
		m.mux.Unlock()
		if !issued {
			writeError(w, http.StatusBadRequest, "invalid_grant")
			return
		}
	case "refresh_token":
		if _, err := m.parseJWT(r.FormValue("refresh_token"), "refresh"); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_grant")
			return
		}
		m.mux.Lock()
		m.refreshCount++
		m.mux.Unlock()
		includeRefresh = false
	default:
		writeError(w, http.StatusBadRequest, "unsupported_grant_type")
		return
	}
	response, err := m.IssueTokens(includeRefresh)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// IssueTokens returns a token endpoint response body
func (m *AuthorizationService) IssueTokens(includeRefresh bool) (map[string]interface{}, error) {
	expiresIn := int(m.TokenTTL.Seconds())
	accessToken, err := m.CreateJWT("access", m.TokenTTL)
	if err != nil {
		return nil, err
	}
	idToken, err := m.CreateJWT("id", m.TokenTTL)
	if err != nil {
		return nil, err
	}
	response := map[string]interface{}{
		"access_token": accessToken,
		"id_token":     idToken,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	}
	if includeRefresh {
		refreshToken, err := m.CreateJWT("refresh", 30*m.TokenTTL)
		if err != nil {
			return nil, err
		}
		response["refresh_token"] = refreshToken
	}
	return response, nil
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
