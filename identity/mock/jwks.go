package mock

import (
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/viant/mcp-protocol/oauth2/meta"
)

// defaultJwksHandler exposes the provider public key
func (m *AuthorizationService) defaultJwksHandler(w http.ResponseWriter, _ *http.Request) {
	pubKey := m.PrivateKey.PublicKey
	jwk := meta.JSONWebKey{
		Kty: "RSA",
		Use: "sig",
		Alg: "RS256",
		Kid: m.KeyID,
		N:   base64.RawURLEncoding.EncodeToString(pubKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(new(big.Int).SetInt64(int64(pubKey.E)).Bytes()),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(meta.JSONWebKeySet{Keys: []meta.JSONWebKey{jwk}})
}
