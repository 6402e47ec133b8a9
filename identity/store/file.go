package store

import (
	"crypto"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists sessions to a JSON file, while delegating issuer keys
// to an in-memory store (they can be rediscovered).
type FileStore struct {
	mu       sync.RWMutex
	path     string
	memory   *memoryStore
	sessions map[string]*Session
}

// NewFileStore creates a Store that persists sessions at the given path.
func NewFileStore(path string, options ...MemoryStoreOption) (*FileStore, error) {
	ret := &FileStore{
		path:     path,
		memory:   NewMemoryStore(options...).(*memoryStore),
		sessions: map[string]*Session{},
	}
	if err := ret.load(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (f *FileStore) AddIssuerPublicKeys(issuer string, keys map[string]crypto.PublicKey) error {
	return f.memory.AddIssuerPublicKeys(issuer, keys)
}

func (f *FileStore) LookupIssuerPublicKeys(issuer string) (map[string]crypto.PublicKey, bool) {
	return f.memory.LookupIssuerPublicKeys(issuer)
}

func (f *FileStore) LookupSession(clientID string) (*Session, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	session, ok := f.sessions[clientID]
	return session, ok
}

func (f *FileStore) AddSession(clientID string, session *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[clientID] = session
	return f.save()
}

func (f *FileStore) RemoveSession(clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[clientID]; !ok {
		return nil
	}
	delete(f.sessions, clientID)
	return f.save()
}

type fileSnapshot struct {
	Sessions map[string]*Session `json:"sessions"`
}

func (f *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fileSnapshot{Sessions: f.sessions}, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var snap fileSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	for clientID, session := range snap.Sessions {
		if session == nil || session.AccessToken == "" {
			continue
		}
		f.sessions[clientID] = session
	}
	return nil
}
