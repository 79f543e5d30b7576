// Package client contains client-side building blocks for Moodiary.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     Moodiary backend: authentication, profile, entries, emotions, likes
//     and comments.
//  2. A concrete REST implementation (see HTTPClient) that attaches the
//     access token from a TokenSource as a bearer credential and maps
//     non-2xx responses to *APIError.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// HTTPClient does not retry and does not refresh tokens; that is the job of
// the session package, which wraps calls in ExecuteWithRefresh.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, which unwraps to
// ErrUnauthorized, ErrNotFound, ErrBadRequest or ErrUnavailable. Transport
// failures wrap ErrUnavailable.
package client
