// Package session owns the client-side authentication session.
//
// The access token and the cached user profile live in the session scope,
// which does not outlive the process. The refresh token lives in the
// persistent scope so the next start can re-authenticate silently.
//
// Backend calls are wrapped with ExecuteWithRefresh: an authorization failure
// triggers exactly one token refresh and exactly one retry. When no refresh
// token exists or the refresh fails, the session is cleared, the user is sent
// to the login route and ErrSessionExpired is returned.
package session
