package store

import (
	"crypto"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Session holds the tokens returned by the hosted UI token endpoint.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	IDToken      string    `json:"idToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TokenType    string    `json:"tokenType,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Token returns the session as an oauth2 token (id token carried as extra)
func (s *Session) Token() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.Expiry,
	}
	if s.IDToken != "" {
		token = token.WithExtra(map[string]interface{}{"id_token": s.IDToken})
	}
	return token
}

// Expired returns true when the session carries an expiry in the past
func (s *Session) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && !now.Before(s.Expiry)
}

// NewSession creates a session from an oauth2 token
func NewSession(token *oauth2.Token) *Session {
	ret := &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	if value := token.Extra("id_token"); value != nil {
		ret.IDToken, _ = value.(string)
	}
	return ret
}

// Store is a pluggable persistence layer for sessions and issuer keys.
type Store interface {
	LookupSession(clientID string) (*Session, bool)
	AddSession(clientID string, session *Session) error
	RemoveSession(clientID string) error
	AddIssuerPublicKeys(issuer string, keys map[string]crypto.PublicKey) error
	LookupIssuerPublicKeys(issuer string) (map[string]crypto.PublicKey, bool)
}

type MemoryStoreOption func(*memoryStore)

// WithSession seeds the store with a session
func WithSession(clientID string, session *Session) MemoryStoreOption {
	return func(m *memoryStore) {
		m.sessions[clientID] = session
	}
}

type memoryStore struct {
	mu               sync.RWMutex
	issuerPublicKeys map[string]map[string]crypto.PublicKey
	sessions         map[string]*Session
}

func (m *memoryStore) LookupSession(clientID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[clientID]
	return session, ok
}

func (m *memoryStore) AddSession(clientID string, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[clientID] = session
	return nil
}

func (m *memoryStore) RemoveSession(clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, clientID)
	return nil
}

func (m *memoryStore) AddIssuerPublicKeys(issuer string, keys map[string]crypto.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issuerPublicKeys[issuer] = keys
	return nil
}

func (m *memoryStore) LookupIssuerPublicKeys(issuer string) (map[string]crypto.PublicKey, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys, ok := m.issuerPublicKeys[issuer]
	return keys, ok
}

func NewMemoryStore(options ...MemoryStoreOption) Store {
	ret := &memoryStore{
		issuerPublicKeys: map[string]map[string]crypto.PublicKey{},
		sessions:         map[string]*Session{},
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
