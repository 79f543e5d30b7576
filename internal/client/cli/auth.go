package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/models"
	"github.com/dmitrijs2005/moodiary/internal/client/session"
	"github.com/dmitrijs2005/moodiary/internal/common"
)

// maxPinAttempts is how many wrong PIN codes a login tolerates before the
// new session is dropped.
const maxPinAttempts = 3

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errPinAttempts      = errors.New("too many wrong PIN attempts, logged out")
)

// Interactive input helpers, swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getSecret       = GetSecret
	getMultiline    = GetMultiline
	getConfirmation = GetConfirmation
)

func (a *App) secret(prompt string) (string, error) {
	b, err := getSecret(a.out, prompt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(b)
	return string(b), nil
}

// Register prompts for a username, an email and a password twice, creates
// the account and signs in with it.
func (a *App) Register(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.secret("Enter password: ")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Repeat password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errPasswordMismatch
	}

	res, err := a.auth.Register(ctx, models.Registration{
		Username:  username,
		Email:     email,
		Password:  password,
		Password2: confirm,
	})
	if err != nil {
		return err
	}

	a.setLoggedIn(res.Profile)
	fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", displayName(res.Profile))
	return nil
}

// Login prompts for credentials and signs in. Accounts protected by a PIN
// must pass the PIN challenge as well; after maxPinAttempts failures the new
// session is cleared.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.secret("Enter password: ")
	if err != nil {
		return err
	}

	res, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if res.PinRequired {
		if err := a.pinChallenge(ctx); err != nil {
			return err
		}
	}

	a.setLoggedIn(res.Profile)
	a.log.Info(ctx, "logged in", "user_id", res.Profile.ID())
	fmt.Fprintf(a.out, "Welcome, %s!\n", displayName(res.Profile))
	return nil
}

func (a *App) pinChallenge(ctx context.Context) error {
	for attempt := 1; attempt <= maxPinAttempts; attempt++ {
		pin, err := a.secret("Enter PIN: ")
		if err != nil {
			return errors.Join(err, a.auth.Logout(ctx))
		}

		err = a.auth.VerifyPin(ctx, pin)
		if err == nil {
			return nil
		}
		if errors.Is(err, common.ErrSessionExpired) {
			return err
		}
		fmt.Fprintf(a.out, "Wrong PIN (%d/%d): %v\n", attempt, maxPinAttempts, err)
	}
	return errors.Join(errPinAttempts, a.auth.Logout(ctx))
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.setLoggedOut()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the cached profile; "whoami -r" fetches it from the server.
func (a *App) WhoAmI(ctx context.Context, args []string) error {
	refresh := len(args) > 0 && args[0] == "-r"
	p, err := a.auth.Profile(ctx, refresh)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Fprintln(a.out, "No profile cached.")
		return nil
	}
	a.setLoggedIn(p)
	printProfile(a.out, p)
	return nil
}

// Status reports what the session storage holds without touching the
// network. Tokens are masked.
func (a *App) Status(ctx context.Context, _ []string) error {
	access, err := a.session.AccessToken(ctx)
	if err != nil {
		return err
	}
	refresh, err := a.session.RefreshToken(ctx)
	if err != nil {
		return err
	}

	state := "logged out"
	if a.isLoggedIn() {
		state = "logged in as " + displayName(a.currentProfile())
	}
	fmt.Fprintf(a.out, "Session: %s\n", state)
	fmt.Fprintf(a.out, "Access token: %s", common.MaskToken(access))
	if access != "" {
		if exp, err := session.TokenExpiry(access); err != nil {
			fmt.Fprint(a.out, " (unreadable)")
		} else if a.session.IsAccessTokenValid(ctx) {
			fmt.Fprintf(a.out, " (valid until %s)", exp.Local().Format(time.DateTime))
		} else {
			fmt.Fprintf(a.out, " (expired at %s)", exp.Local().Format(time.DateTime))
		}
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Refresh token: %s\n", common.MaskToken(refresh))
	fmt.Fprintf(a.out, "Login route: %s\n", a.session.LoginRoute())
	return nil
}

// EditProfile asks for a new username, first and last name. Empty answers
// keep the current values; only changed fields are sent.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	cur := a.currentProfile()
	prompts := []struct{ key, label string }{
		{"username", "Username"},
		{"first_name", "First name"},
		{"last_name", "Last name"},
	}

	fields := make(map[string]any)
	for _, p := range prompts {
		current, _ := cur[p.key].(string)
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", p.label, current), a.out)
		if err != nil {
			return err
		}
		if v != "" && v != current {
			fields[p.key] = v
		}
	}
	if len(fields) == 0 {
		fmt.Fprintln(a.out, "Nothing changed.")
		return nil
	}

	p, err := a.auth.UpdateProfile(ctx, fields)
	if err != nil {
		return err
	}
	a.setLoggedIn(p)
	fmt.Fprintln(a.out, "Profile updated.")
	printProfile(a.out, p)
	return nil
}

// SetPin sets the account PIN, asking for the current one when a PIN is
// already set.
func (a *App) SetPin(ctx context.Context, _ []string) error {
	var oldPin string
	if a.currentProfile().HasPin() {
		var err error
		if oldPin, err = a.secret("Current PIN: "); err != nil {
			return err
		}
	}
	pin, err := a.secret("New PIN (4 digits): ")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Repeat PIN: ")
	if err != nil {
		return err
	}

	if err := a.auth.SetPin(ctx, pin, confirm, oldPin); err != nil {
		return err
	}
	if p, err := a.auth.Profile(ctx, false); err == nil && p != nil {
		a.setLoggedIn(p)
	}
	fmt.Fprintln(a.out, "PIN saved.")
	return nil
}

func (a *App) Passwd(ctx context.Context, _ []string) error {
	old, err := a.secret("Current password: ")
	if err != nil {
		return err
	}
	password, err := a.secret("New password: ")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Repeat new password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errPasswordMismatch
	}

	if err := a.auth.ChangePassword(ctx, old, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}

func (a *App) DeleteAccount(ctx context.Context, _ []string) error {
	ok, err := getConfirmation(a.reader, "Delete your account and all entries?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.auth.DeleteAccount(ctx); err != nil {
		return err
	}
	a.setLoggedOut()
	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}
