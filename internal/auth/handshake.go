// Package auth implements the client-side login handshake: credential
// submission, rate-limit bookkeeping, token persistence, profile retrieval
// and the role-based landing decision.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/fxrental/client/internal/api"
	"github.com/fxrental/client/internal/model"
	"github.com/fxrental/client/internal/store"
)

// ErrOffline rejects a login attempt when the host reports no connectivity.
// No request is sent.
var ErrOffline = errors.New("no network connection")

// ErrProfileUnavailable reports the partial-failure case: credentials were
// accepted but the profile fetch failed, so persisted auth state was rolled
// back and no session is established.
var ErrProfileUnavailable = errors.New("signed in but profile could not be loaded")

// LandingTarget is where the UI should navigate after a successful login.
type LandingTarget string

const (
	TargetAdmin     LandingTarget = "admin"
	TargetDashboard LandingTarget = "dashboard"
)

// Handshake performs the login flow against the platform API and keeps the
// resulting session in the injected store.
type Handshake struct {
	api      *api.Client
	store    store.Store
	attempts *AttemptCounter
	online   func() bool
}

// NewHandshake wires a handshake over the given API client and store.
func NewHandshake(client *api.Client, st store.Store, opts ...HandshakeOption) *Handshake {
	h := &Handshake{
		api:      client,
		store:    st,
		attempts: NewAttemptCounter(),
		online:   func() bool { return true },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandshakeOption customises a Handshake.
type HandshakeOption func(*Handshake)

// WithConnectivity injects the host's connectivity probe. When the probe
// returns false, Login fails fast with ErrOffline.
func WithConnectivity(online func() bool) HandshakeOption {
	return func(h *Handshake) { h.online = online }
}

// WithAttemptCounter replaces the failure counter (tests inject a fake
// clock through this).
func WithAttemptCounter(c *AttemptCounter) HandshakeOption {
	return func(h *Handshake) { h.attempts = c }
}

// Login submits credentials and, on success, establishes the session: tokens
// and profile persisted, landing target decided by the profile's role flag.
// On a rejected response the failure counter advances and may start a
// cooldown. Nothing here retries automatically.
func (h *Handshake) Login(ctx context.Context, email, password string) (*model.Session, LandingTarget, error) {
	if !h.online() {
		return nil, "", ErrOffline
	}
	if rem := h.attempts.Remaining(); rem > 0 {
		return nil, "", &RateLimitedError{Remaining: rem}
	}

	pair, err := h.api.Login(ctx, email, password)
	if err != nil {
		return nil, "", h.loginFailure(err)
	}

	return h.establish(ctx, pair)
}

// LoginWithGoogle runs the same handshake with a Google identity token in
// place of credentials. Google rejections count against the same failure
// budget as password rejections.
func (h *Handshake) LoginWithGoogle(ctx context.Context, token string) (*model.Session, LandingTarget, error) {
	if !h.online() {
		return nil, "", ErrOffline
	}
	if rem := h.attempts.Remaining(); rem > 0 {
		return nil, "", &RateLimitedError{Remaining: rem}
	}

	pair, err := h.api.GoogleLogin(ctx, token)
	if err != nil {
		return nil, "", h.loginFailure(err)
	}

	return h.establish(ctx, pair)
}

// loginFailure advances the counter only for responses the server rejected;
// transport failures do not count against the budget.
func (h *Handshake) loginFailure(err error) error {
	var serverErr *api.ServerError
	var fieldErrs api.FieldErrors
	if !errors.As(err, &serverErr) && !errors.As(err, &fieldErrs) {
		return err
	}
	if h.attempts.RecordFailure() {
		return &RateLimitedError{Remaining: h.attempts.Remaining()}
	}
	return err
}

// establish persists tokens, fetches the profile, and rolls everything back
// if the profile fetch fails.
func (h *Handshake) establish(ctx context.Context, pair api.TokenPair) (*model.Session, LandingTarget, error) {
	h.attempts.Reset()

	if err := h.store.Set(store.KeyAccess, pair.Access); err != nil {
		return nil, "", fmt.Errorf("persist access token: %w", err)
	}
	if err := h.store.Set(store.KeyRefresh, pair.Refresh); err != nil {
		h.rollback()
		return nil, "", fmt.Errorf("persist refresh token: %w", err)
	}

	profile, err := h.api.Profile(ctx, pair.Access)
	if err != nil {
		h.rollback()
		return nil, "", fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	data, err := json.Marshal(profile)
	if err != nil {
		h.rollback()
		return nil, "", fmt.Errorf("encode profile: %w", err)
	}
	if err := h.store.Set(store.KeyProfile, string(data)); err != nil {
		h.rollback()
		return nil, "", fmt.Errorf("persist profile: %w", err)
	}
	if err := h.store.Set(store.KeyClientName, profile.DisplayName()); err != nil {
		log.Printf("persist client name: %v", err)
	}

	session := &model.Session{Access: pair.Access, Refresh: pair.Refresh, Profile: profile}

	target := TargetDashboard
	if profile.IsSuperuser {
		target = TargetAdmin
	}
	return session, target, nil
}

// rollback removes every persisted auth value so a half-established login
// never looks authenticated.
func (h *Handshake) rollback() {
	for _, key := range []string{store.KeyAccess, store.KeyRefresh, store.KeyProfile, store.KeyClientName} {
		if err := h.store.Delete(key); err != nil {
			log.Printf("rollback %s: %v", key, err)
		}
	}
}

// Session loads the persisted session, if any. A session missing any of
// access, refresh or profile is reported as absent.
func (h *Handshake) Session() (*model.Session, bool, error) {
	access, okA, err := h.store.Get(store.KeyAccess)
	if err != nil {
		return nil, false, err
	}
	refresh, okR, err := h.store.Get(store.KeyRefresh)
	if err != nil {
		return nil, false, err
	}
	rawProfile, okP, err := h.store.Get(store.KeyProfile)
	if err != nil {
		return nil, false, err
	}
	if !okA || !okR || !okP {
		return nil, false, nil
	}

	var profile model.Profile
	if err := json.Unmarshal([]byte(rawProfile), &profile); err != nil {
		return nil, false, fmt.Errorf("decode persisted profile: %w", err)
	}

	session := &model.Session{Access: access, Refresh: refresh, Profile: profile}
	if !session.Authenticated() {
		return nil, false, nil
	}
	return session, true, nil
}

// Logout clears all persisted client state, tokens and draft included.
func (h *Handshake) Logout() error {
	return h.store.Clear()
}

// Attempts exposes the failure counter for display purposes.
func (h *Handshake) Attempts() *AttemptCounter {
	return h.attempts
}
