package session

import (
	"context"

	"github.com/dmitrijs2005/moodiary/internal/logging"
)

// DefaultLoginRoute is where an expired session sends the user.
const DefaultLoginRoute = "/auth"

// Navigator transfers control to another screen of the client.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, route string)

func (f NavigatorFunc) Navigate(ctx context.Context, route string) { f(ctx, route) }

// logNavigator is used when no navigator is configured.
type logNavigator struct {
	log logging.Logger
}

func (n logNavigator) Navigate(ctx context.Context, route string) {
	n.log.Warn(ctx, "navigating to login", "route", route)
}
