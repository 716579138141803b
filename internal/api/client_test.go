package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxrental/client/internal/model"
)

func TestLogin_decodesTokenPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jane@example.com", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]string{"access": "a", "refresh": "r"})
	}))
	defer srv.Close()

	pair, err := New(srv.URL).Login(context.Background(), "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, TokenPair{Access: "a", Refresh: "r"}, pair)
}

func TestDo_bearerTokenAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(model.Profile{Username: "jane"})
	}))
	defer srv.Close()

	profile, err := New(srv.URL).Profile(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "jane", profile.Username)
}

func TestDo_detailBodyBecomesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "invalid email or password"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "jane@example.com", "wrong")
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusUnauthorized, serverErr.StatusCode)
	assert.Equal(t, "invalid email or password", serverErr.Message)
}

func TestDo_fieldMapBecomesFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"email": {"an account with this email already exists"},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Register(context.Background(), RegisterRequest{
		FullName: "Jane", Email: "jane@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	var fields FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "an account with this email already exists", fields["email"])
}

func TestDo_emptyErrorBodyStaysGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "jane@example.com", "secret1")
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusBadGateway, serverErr.StatusCode)
	assert.Empty(t, serverErr.Message)
}

func TestSubmitStepThree_singlePutWithCombinedBody(t *testing.T) {
	var calls int
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/user/register/step-three/u-42/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	draft := model.RegistrationDraft{
		FullName:    "Jane Wanjiku",
		Email:       "jane@example.com",
		Password:    "secret1",
		PhoneNumber: "0712345678",
		IDNumber:    "12345678",
		DateOfBirth: "1990-04-02",
		Address:     "Nairobi",
	}
	require.NoError(t, New(srv.URL).SubmitStepThree(context.Background(), "u-42", draft))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "u-42", captured["user_id"])
	for _, field := range []string{"full_name", "email", "password", "phone_number", "id_number", "date_of_birth", "address"} {
		assert.Contains(t, captured, field)
	}
}

func TestDo_contextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL).Login(ctx, "jane@example.com", "secret1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
