// Package models defines the client-side payloads exchanged with the Moodiary
// backend.
package models

import (
	"encoding/json"
	"strings"
)

// Profile is the cached snapshot of the server-side user record. It is an
// opaque JSON object; accessors below read the few fields the client needs.
// Authorization decisions must never rely on it.
type Profile map[string]any

func (p Profile) ID() int64 {
	switch v := p["id"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}

func (p Profile) Username() string { return p.str("username") }
func (p Profile) Email() string    { return p.str("email") }

// FullName joins first_name and last_name, skipping empty parts.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.str("first_name") + " " + p.str("last_name"))
}

// HasPin reports whether the account is protected by a PIN challenge.
func (p Profile) HasPin() bool {
	b, _ := p["has_pin"].(bool)
	return b
}

func (p Profile) str(key string) string {
	s, _ := p[key].(string)
	return s
}

// AuthResponse is the body of a successful login or registration. Older
// backend versions return the access credential as "token".
type AuthResponse struct {
	Access  string  `json:"access,omitempty"`
	Token   string  `json:"token,omitempty"`
	Refresh string  `json:"refresh,omitempty"`
	User    Profile `json:"user,omitempty"`
}

// AccessToken returns Access, falling back to Token.
func (r AuthResponse) AccessToken() string {
	if r.Access != "" {
		return r.Access
	}
	return r.Token
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type PinRequest struct {
	PinCode    string `json:"pin_code"`
	ConfirmPin string `json:"confirm_pin,omitempty"`
	OldPin     string `json:"old_pin,omitempty"`
}

type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
