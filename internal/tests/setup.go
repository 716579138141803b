// Package tests holds end-to-end tests that run the client core against the
// stubbed platform API over real HTTP.
package tests

import (
	"net/http/httptest"
	"testing"

	"github.com/fxrental/client/internal/api"
	"github.com/fxrental/client/internal/auth"
	"github.com/fxrental/client/internal/session"
	"github.com/fxrental/client/internal/store"
	"github.com/fxrental/client/internal/stub"
)

const testJWTSecret = "test-jwt-secret-at-least-32-characters-long"

// testEnv wires a stub backend and a fresh client core around it.
type testEnv struct {
	Server    *httptest.Server
	Users     *stub.UserRepo
	Store     *store.Memory
	API       *api.Client
	Handshake *auth.Handshake
	Tracker   *session.Tracker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := stub.NewUserRepo()
	tokens := stub.NewTokenService(testJWTSecret)
	handler := stub.NewHandler(users, tokens)
	router := stub.NewRouter(handler, tokens, users)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	st := store.NewMemory()
	client := api.New(server.URL)

	return &testEnv{
		Server:    server,
		Users:     users,
		Store:     st,
		API:       client,
		Handshake: auth.NewHandshake(client, st),
		Tracker:   session.NewTracker(client, st),
	}
}
