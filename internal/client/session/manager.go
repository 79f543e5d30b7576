package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/models"
	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// Manager is the single authority over the stored session.
type Manager struct {
	store      SessionStore
	refresher  Refresher
	log        logging.Logger
	now        func() time.Time
	nav        Navigator
	loginRoute string

	refreshes singleflight.Group
}

type Option func(*Manager)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithNavigator sets the navigator used when a call site passes none.
func WithNavigator(n Navigator) Option {
	return func(m *Manager) {
		if n != nil {
			m.nav = n
		}
	}
}

func WithLoginRoute(route string) Option {
	return func(m *Manager) {
		if route != "" {
			m.loginRoute = route
		}
	}
}

func NewManager(store SessionStore, refresher Refresher, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		refresher:  refresher,
		log:        logging.Nop(),
		now:        time.Now,
		loginRoute: DefaultLoginRoute,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	if m.nav == nil {
		m.nav = logNavigator{log: m.log}
	}
	m.log = m.log.With("component", "session")
	return m
}

// LoginRoute is the destination of RedirectToLogin.
func (m *Manager) LoginRoute() string { return m.loginRoute }

// SetSession stores the credentials of a login or registration response.
// Fields absent from resp leave the stored values untouched.
func (m *Manager) SetSession(ctx context.Context, resp models.AuthResponse) error {
	values := make(map[string]string, 3)

	if access := resp.AccessToken(); access != "" {
		values[KeyToken] = access
		values[KeyAccessToken] = access
	}

	if resp.User != nil {
		b, err := json.Marshal(resp.User)
		if err != nil {
			return fmt.Errorf("encode user profile: %w", err)
		}
		values[KeyUserData] = string(b)
	}

	if len(values) > 0 {
		if err := m.setAll(ctx, ScopeSession, values); err != nil {
			return err
		}
	}

	if resp.Refresh != "" {
		if err := m.store.Set(ctx, ScopePersistent, KeyRefreshToken, resp.Refresh); err != nil {
			return err
		}
	}

	m.log.Debug(ctx, "session stored",
		"access", common.MaskToken(values[KeyToken]),
		"refresh", common.MaskToken(resp.Refresh),
		"profile", resp.User != nil,
	)
	return nil
}

// SetUserProfile replaces the cached profile wholesale.
func (m *Manager) SetUserProfile(ctx context.Context, p models.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode user profile: %w", err)
	}
	return m.store.Set(ctx, ScopeSession, KeyUserData, string(b))
}

// AccessToken returns the canonical access token, falling back to the legacy
// key. It returns "" when neither is set.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	token, err := m.store.Get(ctx, ScopeSession, KeyToken)
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}
	return m.store.Get(ctx, ScopeSession, KeyAccessToken)
}

func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	return m.store.Get(ctx, ScopePersistent, KeyRefreshToken)
}

// UserProfile returns the cached profile, or nil when it is unset or cannot
// be parsed. The profile is a display cache only.
func (m *Manager) UserProfile(ctx context.Context) (models.Profile, error) {
	raw, err := m.store.Get(ctx, ScopeSession, KeyUserData)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var p models.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		m.log.Debug(ctx, "cached profile is unreadable", "error", err)
		return nil, nil
	}
	return p, nil
}

// Clear removes every session key from both scopes. It is idempotent.
func (m *Manager) Clear(ctx context.Context) error {
	return errors.Join(
		m.store.Remove(ctx, ScopeSession, allKeys...),
		m.store.Remove(ctx, ScopePersistent, allKeys...),
	)
}

// IsAccessTokenValid reports whether a stored access token exists and its
// exp lies strictly in the future. It never fails; anything unreadable is
// reported as invalid.
func (m *Manager) IsAccessTokenValid(ctx context.Context) bool {
	token, err := m.AccessToken(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to read access token", "error", err)
		return false
	}
	if token == "" {
		return false
	}

	ok, err := tokenValidAt(token, m.now())
	if err != nil {
		m.log.Debug(ctx, "access token is not decodable", "error", err)
		return false
	}
	return ok
}

// RedirectToLogin clears the session and navigates to the login route
// through nav, or through the manager's navigator when nav is nil. Navigation
// happens even when clearing fails; the clearing error is returned.
func (m *Manager) RedirectToLogin(ctx context.Context, nav Navigator) error {
	err := m.Clear(ctx)
	if err != nil {
		m.log.Error(ctx, "failed to clear session", "error", err)
	}

	if nav == nil {
		nav = m.nav
	}
	m.log.Info(ctx, "redirecting to login", "route", m.loginRoute)
	nav.Navigate(ctx, m.loginRoute)

	return err
}

func (m *Manager) setAll(ctx context.Context, scope Scope, values map[string]string) error {
	if ms, ok := m.store.(multiSetter); ok {
		return ms.SetMany(ctx, scope, values)
	}
	for k, v := range values {
		if err := m.store.Set(ctx, scope, k, v); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) storeAccessToken(ctx context.Context, token string) error {
	return m.setAll(ctx, ScopeSession, map[string]string{
		KeyToken:       token,
		KeyAccessToken: token,
	})
}
