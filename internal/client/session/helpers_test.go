package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/repositories/metadata"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testNow = time.Unix(1_700_000_000, 0)

func makeToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// countingStore records every mutation that reaches the underlying store.
type countingStore struct {
	*ScopedStore
	writes atomic.Int32
}

func newCountingStore() *countingStore {
	return &countingStore{
		ScopedStore: NewScopedStore(metadata.NewMemoryRepository(), metadata.NewMemoryRepository()),
	}
}

func (s *countingStore) Set(ctx context.Context, scope Scope, key, value string) error {
	s.writes.Add(1)
	return s.ScopedStore.Set(ctx, scope, key, value)
}

func (s *countingStore) SetMany(ctx context.Context, scope Scope, values map[string]string) error {
	s.writes.Add(1)
	return s.ScopedStore.SetMany(ctx, scope, values)
}

func (s *countingStore) Remove(ctx context.Context, scope Scope, keys ...string) error {
	s.writes.Add(1)
	return s.ScopedStore.Remove(ctx, scope, keys...)
}

// isEmpty reports whether no session key is left in either scope.
func (s *countingStore) isEmpty(t *testing.T) bool {
	t.Helper()
	ctx := context.Background()
	for _, scope := range []Scope{ScopeSession, ScopePersistent} {
		for _, k := range allKeys {
			v, err := s.Get(ctx, scope, k)
			require.NoError(t, err)
			if v != "" {
				return false
			}
		}
	}
	return true
}

type fakeRefresher struct {
	mu      sync.Mutex
	calls   int
	got     []string
	access  string
	err     error
	release chan struct{}
}

func (f *fakeRefresher) RefreshToken(_ context.Context, refreshToken string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.got = append(f.got, refreshToken)
	release := f.release
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	return f.access, f.err
}

func (f *fakeRefresher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type countingNavigator struct {
	calls  atomic.Int32
	routes []string
	mu     sync.Mutex
}

func (n *countingNavigator) Navigate(_ context.Context, route string) {
	n.calls.Add(1)
	n.mu.Lock()
	n.routes = append(n.routes, route)
	n.mu.Unlock()
}

type statusErr struct{ code int }

func (e statusErr) Error() string   { return "request failed" }
func (e statusErr) StatusCode() int { return e.code }

func newTestManager(store SessionStore, r Refresher, opts ...Option) *Manager {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewManager(store, r, opts...)
}
