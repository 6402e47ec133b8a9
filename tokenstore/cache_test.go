package tokenstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authboot/identity/store"
)

type sessionSource struct {
	mux     sync.Mutex
	session *store.Session
	err     error
	calls   int
}

func (s *sessionSource) CurrentSession(ctx context.Context) (*store.Session, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.calls++
	return s.session, s.err
}

func (s *sessionSource) callCount() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.calls
}

func TestCache_FetchBeforeInit(t *testing.T) {
	source := &sessionSource{session: &store.Session{AccessToken: "abc123"}}
	cache := New(source)

	done := make(chan struct{})
	var token string
	var err error
	go func() {
		token, err = cache.FetchToken(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("FetchToken blocked before Init")
	}
	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Equal(t, 0, source.callCount())
}

func TestCache_Init(t *testing.T) {
	var testCases = []struct {
		description string
		source      *sessionSource
		expectToken string
		expectError bool
	}{
		{
			description: "session token is stored",
			source:      &sessionSource{session: &store.Session{AccessToken: "abc123"}},
			expectToken: "abc123",
		},
		{
			description: "no session",
			source:      &sessionSource{err: errors.New("no current session")},
			expectError: true,
		},
		{
			description: "empty access token",
			source:      &sessionSource{session: &store.Session{}},
			expectError: true,
		},
	}
	for _, testCase := range testCases {
		cache := New(testCase.source)
		err := cache.Init(context.Background())
		if testCase.expectError {
			require.Error(t, err, testCase.description)
			assert.ErrorIs(t, err, ErrTokenInit, testCase.description)
			var initErr *TokenInitError
			assert.True(t, errors.As(err, &initErr), testCase.description)
		} else {
			require.NoError(t, err, testCase.description)
		}
		token, err := cache.FetchToken(context.Background())
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectToken, token, testCase.description)
	}
}

func TestCache_InitFailureClearsToken(t *testing.T) {
	source := &sessionSource{session: &store.Session{AccessToken: "abc123"}}
	cache := New(source)
	require.NoError(t, cache.Init(context.Background()))

	source.session, source.err = nil, errors.New("signed out")
	assert.Error(t, cache.Init(context.Background()))
	token, err := cache.FetchToken(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestCache_ExpiredToken(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	t.Run("revalidated", func(t *testing.T) {
		source := &sessionSource{session: &store.Session{AccessToken: "old", Expiry: now.Add(time.Minute)}}
		cache := New(source, WithClock(clock))
		require.NoError(t, cache.Init(context.Background()))

		source.session = &store.Session{AccessToken: "new", Expiry: now.Add(2 * time.Hour)}
		cache.now = func() time.Time { return now.Add(time.Hour) }
		token, err := cache.FetchToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "new", token)
		assert.Equal(t, 2, source.callCount())

		token, _ = cache.FetchToken(context.Background())
		assert.Equal(t, "new", token)
		assert.Equal(t, 2, source.callCount())
	})

	t.Run("session gone", func(t *testing.T) {
		source := &sessionSource{session: &store.Session{AccessToken: "old", Expiry: now.Add(time.Minute)}}
		cache := New(source, WithClock(clock))
		require.NoError(t, cache.Init(context.Background()))

		source.session, source.err = nil, errors.New("session expired")
		cache.now = func() time.Time { return now.Add(time.Hour) }
		token, err := cache.FetchToken(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestCache_NilSession(t *testing.T) {
	now := time.Now()
	source := &sessionSource{}
	cache := New(source, WithClock(func() time.Time { return now }))
	err := cache.Init(context.Background())
	assert.ErrorIs(t, err, ErrTokenInit)

	source.session = &store.Session{AccessToken: "old", Expiry: now.Add(time.Minute)}
	require.NoError(t, cache.Init(context.Background()))
	source.session = nil
	cache.now = func() time.Time { return now.Add(time.Hour) }
	token, err := cache.FetchToken(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestCache_Invalidate(t *testing.T) {
	cache := New(&sessionSource{session: &store.Session{AccessToken: "abc123"}})
	require.NoError(t, cache.Init(context.Background()))
	cache.Invalidate()
	token, err := cache.FetchToken(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestCache_ConcurrentReaders(t *testing.T) {
	cache := New(&sessionSource{session: &store.Session{AccessToken: "abc123"}})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = cache.Init(context.Background())
		}()
		go func() {
			defer wg.Done()
			token, err := cache.FetchToken(context.Background())
			assert.NoError(t, err)
			assert.Contains(t, []string{"", "abc123"}, token)
		}()
	}
	wg.Wait()
}
