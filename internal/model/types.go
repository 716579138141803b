package model

import (
	"strings"
	"time"
)

// RegistrationDraft is the client-held, not-yet-submitted registration data
// accumulated across the three registration steps. Fields from later steps
// stay empty until the user reaches them.
type RegistrationDraft struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number,omitempty"`
	IDNumber    string `json:"id_number,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Empty reports whether the draft carries no data at all. An empty draft is
// treated the same as an absent one by the step guards.
func (d RegistrationDraft) Empty() bool {
	return d.FullName == "" && d.Email == "" && d.Password == "" &&
		d.PhoneNumber == "" && d.IDNumber == "" && d.DateOfBirth == "" && d.Address == ""
}

// Profile is the snapshot returned by GET /api/auth/profile/.
type Profile struct {
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
}

// DisplayName prefers the full name and falls back to the username.
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	return p.Username
}

// Session is the authenticated identity context held by the client after
// login: tokens plus a profile snapshot.
type Session struct {
	Access       string
	Refresh      string
	Profile      Profile
	LastActivity time.Time
}

// Authenticated requires access token, refresh token and profile to all be
// present. Partial presence is treated as unauthenticated.
func (s Session) Authenticated() bool {
	return s.Access != "" && s.Refresh != "" && s.Profile != (Profile{})
}

// RemoteSession is one entry of the session list returned by
// GET /api/auth/sessions/.
type RemoteSession struct {
	ID           string    `json:"id"`
	UserAgent    string    `json:"user_agent"`
	IP           string    `json:"ip"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// KYC is the identity verification record read and written through
// GET /api/profile/ and PUT /api/kyc/.
type KYC struct {
	IDNumber    string `json:"id_number"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
}
