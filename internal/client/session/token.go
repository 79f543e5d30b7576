package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// TokenExpiry reads the exp claim of an access token without verifying its
// signature. The client never holds the signing key; the server stays the
// only judge of validity.
func TokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}

	_, _, err := parser.ParseUnverified(token, claims)
	// an unknown alg only means the header is unusable for verification,
	// the claims have already been decoded at that point
	if err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return time.Time{}, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: no exp claim", common.ErrInvalidToken)
	}
	return claims.ExpiresAt.Time, nil
}

// tokenValidAt reports whether token decodes and expires strictly after now.
func tokenValidAt(token string, now time.Time) (bool, error) {
	exp, err := TokenExpiry(token)
	if err != nil {
		return false, err
	}
	return now.Before(exp), nil
}
