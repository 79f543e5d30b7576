package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/moodiary/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errNoAccessToken = errors.New("refresh returned no access token")

// IsUnauthorized reports whether err is an HTTP 401. It accepts a
// StatusCode() int anywhere in the chain, a gRPC Unauthenticated status, or a
// message mentioning 401.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}

	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) && sc.StatusCode() == http.StatusUnauthorized {
		return true
	}

	if st, ok := status.FromError(err); ok && st.Code() == codes.Unauthenticated {
		return true
	}

	return strings.Contains(err.Error(), "401")
}

// ExecuteWithRefresh runs fn. On an authorization failure it refreshes the
// access token once and runs fn once more. The retry's outcome is returned
// as is.
//
// Without a refresh token, or when the refresh fails, the session is cleared,
// nav (or the manager's navigator) is sent to the login route and the error
// wraps common.ErrSessionExpired.
func ExecuteWithRefresh[T any](ctx context.Context, m *Manager, fn func(context.Context) (T, error), nav Navigator) (T, error) {
	res, err := fn(ctx)
	if err == nil || !IsUnauthorized(err) {
		return res, err
	}

	var zero T
	m.log.Info(ctx, "request unauthorized, refreshing access token", "error", err)

	refreshToken, rerr := m.RefreshToken(ctx)
	if rerr != nil {
		return zero, fmt.Errorf("read refresh token: %w", rerr)
	}
	if refreshToken == "" {
		m.log.Warn(ctx, "no refresh token stored")
		return zero, errors.Join(common.ErrSessionExpired, m.RedirectToLogin(ctx, nav))
	}

	if err := m.refresh(ctx, refreshToken); err != nil {
		m.log.Warn(ctx, "token refresh failed", "error", err)
		expired := fmt.Errorf("%w: %w", common.ErrSessionExpired, err)
		return zero, errors.Join(expired, m.RedirectToLogin(ctx, nav))
	}

	return fn(ctx)
}

// Execute is ExecuteWithRefresh for calls that return only an error.
func (m *Manager) Execute(ctx context.Context, fn func(context.Context) error, nav Navigator) error {
	_, err := ExecuteWithRefresh(ctx, m, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, nav)
	return err
}

// refresh performs one refresh call and stores the new access token.
// Concurrent callers holding the same refresh token share one call.
func (m *Manager) refresh(ctx context.Context, refreshToken string) error {
	_, err, shared := m.refreshes.Do(refreshToken, func() (any, error) {
		// one caller giving up must not fail the others waiting on this call
		ctx := context.WithoutCancel(ctx)

		m.log.Debug(ctx, "refresh started", "refresh", common.MaskToken(refreshToken))
		access, err := m.refresher.RefreshToken(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		if access == "" {
			return nil, errNoAccessToken
		}
		if err := m.storeAccessToken(ctx, access); err != nil {
			return nil, fmt.Errorf("store refreshed access token: %w", err)
		}
		m.log.Info(ctx, "access token refreshed", "access", common.MaskToken(access))
		return nil, nil
	})
	if shared {
		m.log.Debug(ctx, "joined in-flight refresh")
	}
	return err
}
