// Package session tracks last-activity timestamps for the current session
// and lists sessions held server-side. Activity bookkeeping is fire-and-
// forget; nothing else gates on it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fxrental/client/internal/api"
	"github.com/fxrental/client/internal/model"
	"github.com/fxrental/client/internal/store"
)

// ErrNotAuthenticated reports a session listing without a stored access
// token.
var ErrNotAuthenticated = errors.New("not signed in")

// EventType is an interaction event kind the tracker listens for.
type EventType string

const (
	EventPointerMove EventType = "pointermove"
	EventKeyPress    EventType = "keypress"
	EventClick       EventType = "click"
	EventScroll      EventType = "scroll"
)

// ActivityEvents is the fixed set of event types that count as activity.
var ActivityEvents = []EventType{EventPointerMove, EventKeyPress, EventClick, EventScroll}

// EventSource is the host-provided subscription interface. Subscribe
// registers fn for the given event types and returns an unregister func.
type EventSource interface {
	Subscribe(types []EventType, fn func()) (unsubscribe func())
}

// Tracker records last-activity timestamps and fetches the backend's view of
// the session list.
type Tracker struct {
	api   *api.Client
	store store.Store
	now   func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewTracker creates a tracker over the given API client and store.
func NewTracker(client *api.Client, st store.Store) *Tracker {
	return &Tracker{api: client, store: st, now: time.Now}
}

// NewTrackerWithNow creates a tracker with an injected clock.
func NewTrackerWithNow(client *api.Client, st store.Store, now func() time.Time) *Tracker {
	return &Tracker{api: client, store: st, now: now}
}

// RecordActivity stamps the current time as the session's last activity.
func (t *Tracker) RecordActivity() {
	t.mu.Lock()
	t.last = t.now()
	t.mu.Unlock()
}

// LastActivity returns the most recent activity timestamp, zero if none was
// recorded yet.
func (t *Tracker) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Bind subscribes RecordActivity to the host's interaction events and
// returns the unsubscribe func.
func (t *Tracker) Bind(src EventSource) func() {
	return src.Subscribe(ActivityEvents, t.RecordActivity)
}

// FetchSessions lists the caller's sessions for display, authenticated by
// the stored access token.
func (t *Tracker) FetchSessions(ctx context.Context) ([]model.RemoteSession, error) {
	access, ok, err := t.store.Get(store.KeyAccess)
	if err != nil {
		return nil, err
	}
	if !ok || access == "" {
		return nil, ErrNotAuthenticated
	}
	return t.api.Sessions(ctx, access)
}
