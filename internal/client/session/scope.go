package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodiary/internal/client/repositories/metadata"
)

// Scope selects the lifetime of a stored value.
type Scope int

const (
	// ScopeSession values are dropped when the client process exits.
	ScopeSession Scope = iota
	// ScopePersistent values survive restarts.
	ScopePersistent
)

func (s Scope) String() string {
	switch s {
	case ScopeSession:
		return "session"
	case ScopePersistent:
		return "persistent"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Storage keys. KeyAccessToken is the legacy alias of KeyToken; both are
// written and both are read.
const (
	KeyToken        = "token"
	KeyAccessToken  = "accessToken"
	KeyUserData     = "userData"
	KeyRefreshToken = "refreshToken"
)

var allKeys = []string{KeyToken, KeyAccessToken, KeyRefreshToken, KeyUserData}

var ErrUnknownScope = errors.New("unknown storage scope")

// SessionStore is per-scope key/value storage. Get returns ("", nil) for an
// absent key. Remove is idempotent.
type SessionStore interface {
	Get(ctx context.Context, scope Scope, key string) (string, error)
	Set(ctx context.Context, scope Scope, key, value string) error
	Remove(ctx context.Context, scope Scope, keys ...string) error
}

// multiSetter is implemented by stores able to write several keys at once.
type multiSetter interface {
	SetMany(ctx context.Context, scope Scope, values map[string]string) error
}

// ScopedStore maps the two scopes onto metadata repositories.
type ScopedStore struct {
	session    metadata.Repository
	persistent metadata.Repository
}

func NewScopedStore(session, persistent metadata.Repository) *ScopedStore {
	return &ScopedStore{session: session, persistent: persistent}
}

func (s *ScopedStore) repo(scope Scope) (metadata.Repository, error) {
	switch scope {
	case ScopeSession:
		return s.session, nil
	case ScopePersistent:
		return s.persistent, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownScope, scope)
}

func (s *ScopedStore) Get(ctx context.Context, scope Scope, key string) (string, error) {
	r, err := s.repo(scope)
	if err != nil {
		return "", err
	}
	v, err := r.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%s storage: %w", scope, err)
	}
	return string(v), nil
}

func (s *ScopedStore) Set(ctx context.Context, scope Scope, key, value string) error {
	r, err := s.repo(scope)
	if err != nil {
		return err
	}
	if err := r.Set(ctx, key, []byte(value)); err != nil {
		return fmt.Errorf("%s storage: %w", scope, err)
	}
	return nil
}

// SetMany writes all values to one scope, atomically when the repository
// supports batch writes.
func (s *ScopedStore) SetMany(ctx context.Context, scope Scope, values map[string]string) error {
	r, err := s.repo(scope)
	if err != nil {
		return err
	}

	if b, ok := r.(metadata.Batcher); ok {
		raw := make(map[string][]byte, len(values))
		for k, v := range values {
			raw[k] = []byte(v)
		}
		if err := b.SetMany(ctx, raw); err != nil {
			return fmt.Errorf("%s storage: %w", scope, err)
		}
		return nil
	}

	for k, v := range values {
		if err := r.Set(ctx, k, []byte(v)); err != nil {
			return fmt.Errorf("%s storage: %w", scope, err)
		}
	}
	return nil
}

func (s *ScopedStore) Remove(ctx context.Context, scope Scope, keys ...string) error {
	r, err := s.repo(scope)
	if err != nil {
		return err
	}

	if b, ok := r.(metadata.Batcher); ok {
		if err := b.DeleteKeys(ctx, keys...); err != nil {
			return fmt.Errorf("%s storage: %w", scope, err)
		}
		return nil
	}

	var errs []error
	for _, k := range keys {
		if err := r.Delete(ctx, k); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s storage: %w", scope, err)
	}
	return nil
}
