// Package common defines shared constants and sentinel errors used across
// the client layers of Moodiary. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// ErrInvalidToken means an access token could not be decoded.
	ErrInvalidToken = errors.New("invalid token")

	// ErrSessionExpired means the session could not be recovered by a token
	// refresh and the user has to sign in again.
	ErrSessionExpired = errors.New("session expired, please log in again")
)
