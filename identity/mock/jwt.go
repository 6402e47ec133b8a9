package mock

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CreateJWT creates a signed token of the given use ("access", "id" or "refresh")
func (m *AuthorizationService) CreateJWT(tokenUse string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":       m.Issuer,
		"sub":       "mock-subject",
		"client_id": m.ClientID,
		"exp":       now.Add(expiry).Unix(),
		"iat":       now.Unix(),
		"token_use": tokenUse,
	}
	if tokenUse == "id" {
		claims["aud"] = m.ClientID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = m.KeyID
	return token.SignedString(m.PrivateKey)
}

func (m *AuthorizationService) parseJWT(tokenString, tokenUse string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.PrivateKey.Public(), nil
	}, jwt.WithIssuer(m.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims["token_use"] != tokenUse {
		return nil, fmt.Errorf("unexpected token use: %v", claims["token_use"])
	}
	return claims, nil
}
