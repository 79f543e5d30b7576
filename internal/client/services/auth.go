package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/client/models"
	"github.com/dmitrijs2005/moodiary/internal/client/session"
	"github.com/dmitrijs2005/moodiary/internal/common"
)

var (
	ErrNoAccessToken = errors.New("server response carries no access token")
	ErrPinMismatch   = errors.New("pin codes do not match")
	ErrInvalidPin    = errors.New("pin must be 4 digits")
	ErrNoChanges     = errors.New("no profile fields to update")
)

// LoginResult is the outcome of a successful login or registration.
type LoginResult struct {
	Profile     models.Profile
	PinRequired bool
}

// AuthService defines account and session operations for the CLI.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, reg models.Registration) (*LoginResult, error)
	Resume(ctx context.Context) (models.Profile, error)
	Profile(ctx context.Context, refresh bool) (models.Profile, error)
	UpdateProfile(ctx context.Context, fields map[string]any) (models.Profile, error)
	VerifyPin(ctx context.Context, pin string) error
	SetPin(ctx context.Context, pin, confirm, oldPin string) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	IsSessionValid(ctx context.Context) bool
}

type authService struct {
	client  client.Client
	session *session.Manager
}

func NewAuthService(c client.Client, m *session.Manager) AuthService {
	return &authService{client: c, session: m}
}

func (a *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	resp, err := a.client.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return a.start(ctx, resp)
}

func (a *authService) Register(ctx context.Context, reg models.Registration) (*LoginResult, error) {
	if reg.Password2 == "" {
		reg.Password2 = reg.Password
	}
	resp, err := a.client.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return a.start(ctx, resp)
}

// start stores the new session and refreshes the profile cache from /me/.
// When that fetch fails the profile of the auth response is used, if any.
func (a *authService) start(ctx context.Context, resp *models.AuthResponse) (*LoginResult, error) {
	if resp.AccessToken() == "" {
		return nil, ErrNoAccessToken
	}
	if err := a.session.SetSession(ctx, *resp); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	profile, err := a.Profile(ctx, true)
	if err != nil {
		if resp.User == nil || errors.Is(err, common.ErrSessionExpired) {
			return nil, err
		}
		profile = resp.User
	}

	return &LoginResult{Profile: profile, PinRequired: profile.HasPin()}, nil
}

// Resume restores the session left by a previous run. A valid access token
// is used as is; otherwise a stored refresh token is exchanged silently. It
// returns a nil profile when there is nothing to resume.
func (a *authService) Resume(ctx context.Context) (models.Profile, error) {
	if a.session.IsAccessTokenValid(ctx) {
		p, err := a.session.UserProfile(ctx)
		if err != nil || p != nil {
			return p, err
		}
	}

	refresh, err := a.session.RefreshToken(ctx)
	if err != nil {
		return nil, err
	}
	if refresh == "" {
		return nil, nil
	}

	// nothing to navigate away from yet
	quiet := session.NavigatorFunc(func(context.Context, string) {})
	p, err := session.ExecuteWithRefresh(ctx, a.session, a.client.Me, quiet)
	if errors.Is(err, common.ErrSessionExpired) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := a.session.SetUserProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Profile returns the cached profile, or fetches a fresh one when refresh is
// set or nothing is cached.
func (a *authService) Profile(ctx context.Context, refresh bool) (models.Profile, error) {
	if !refresh {
		p, err := a.session.UserProfile(ctx)
		if err != nil || p != nil {
			return p, err
		}
	}

	p, err := session.ExecuteWithRefresh(ctx, a.session, a.client.Me, nil)
	if err != nil {
		return nil, err
	}
	if err := a.session.SetUserProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile patches the given user fields and replaces the cached
// profile with the server's answer.
func (a *authService) UpdateProfile(ctx context.Context, fields map[string]any) (models.Profile, error) {
	if len(fields) == 0 {
		return nil, ErrNoChanges
	}
	p, err := session.ExecuteWithRefresh(ctx, a.session, func(ctx context.Context) (models.Profile, error) {
		return a.client.UpdateMe(ctx, fields)
	}, nil)
	if err != nil {
		return nil, err
	}
	if err := a.session.SetUserProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (a *authService) VerifyPin(ctx context.Context, pin string) error {
	if !validPin(pin) {
		return ErrInvalidPin
	}
	return a.session.Execute(ctx, func(ctx context.Context) error {
		return a.client.VerifyPin(ctx, pin)
	}, nil)
}

// SetPin sets or, with oldPin, replaces the account PIN.
func (a *authService) SetPin(ctx context.Context, pin, confirm, oldPin string) error {
	if !validPin(pin) {
		return ErrInvalidPin
	}
	if pin != confirm {
		return ErrPinMismatch
	}

	err := a.session.Execute(ctx, func(ctx context.Context) error {
		return a.client.SetPin(ctx, models.PinRequest{PinCode: pin, ConfirmPin: confirm, OldPin: oldPin})
	}, nil)
	if err != nil {
		return err
	}

	// has_pin changed server-side
	_, err = a.Profile(ctx, true)
	return err
}

func (a *authService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return a.session.Execute(ctx, func(ctx context.Context) error {
		return a.client.ChangePassword(ctx, models.PasswordChange{OldPassword: oldPassword, NewPassword: newPassword})
	}, nil)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Clear(ctx)
}

func (a *authService) DeleteAccount(ctx context.Context) error {
	if err := a.session.Execute(ctx, a.client.DeleteMe, nil); err != nil {
		return err
	}
	return a.session.Clear(ctx)
}

func (a *authService) IsSessionValid(ctx context.Context) bool {
	return a.session.IsAccessTokenValid(ctx)
}

func validPin(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
