// Package api is the typed REST client for the platform backend. It carries
// no client state of its own; tokens are supplied per call by the auth layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fxrental/client/internal/model"
)

const defaultTimeout = 15 * time.Second

// Client talks to the platform REST API. Calls never retry on their own;
// failures surface to the caller and the user resubmits manually.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom
// transports).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// TokenPair is the body of a successful login response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login submits credentials to POST /api/auth/login/.
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, "/api/auth/login/", "",
		map[string]string{"email": email, "password": password}, &pair)
	return pair, err
}

// GoogleLogin exchanges a Google identity token for a platform token pair via
// POST /api/auth/google-login/.
func (c *Client) GoogleLogin(ctx context.Context, token string) (TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, "/api/auth/google-login/", "",
		map[string]string{"token": token}, &pair)
	return pair, err
}

// Profile fetches the caller's profile with the given access token.
func (c *Client) Profile(ctx context.Context, access string) (model.Profile, error) {
	var profile model.Profile
	err := c.do(ctx, http.MethodGet, "/api/auth/profile/", access, nil, &profile)
	return profile, err
}

// RegisterRequest is the body of the single-page registration endpoint.
type RegisterRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type registerResponse struct {
	UserID string `json:"user_id"`
}

// Register creates an account via POST /api/auth/register/ and returns the
// server-issued user id.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp registerResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register/", "", req, &resp); err != nil {
		return "", err
	}
	return resp.UserID, nil
}

// KYC reads the identity verification record via GET /api/profile/.
func (c *Client) KYC(ctx context.Context, access string) (model.KYC, error) {
	var kyc model.KYC
	err := c.do(ctx, http.MethodGet, "/api/profile/", access, nil, &kyc)
	return kyc, err
}

// UpdateKYC writes the identity verification record via PUT /api/kyc/.
func (c *Client) UpdateKYC(ctx context.Context, access string, kyc model.KYC) error {
	return c.do(ctx, http.MethodPut, "/api/kyc/", access, kyc, nil)
}

type stepThreeRequest struct {
	model.RegistrationDraft
	UserID string `json:"user_id"`
}

// SubmitStepThree sends the combined draft plus user id via
// PUT /api/user/register/step-three/{userID}/. Exactly one request per call.
func (c *Client) SubmitStepThree(ctx context.Context, userID string, draft model.RegistrationDraft) error {
	path := "/api/user/register/step-three/" + url.PathEscape(userID) + "/"
	return c.do(ctx, http.MethodPut, path, "", stepThreeRequest{RegistrationDraft: draft, UserID: userID}, nil)
}

type accountResponse struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

// AccountName looks up the display name via GET /api/user/accounts/me/.
func (c *Client) AccountName(ctx context.Context, access string) (string, error) {
	var acct accountResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/accounts/me/", access, nil, &acct); err != nil {
		return "", err
	}
	if acct.FullName != "" {
		return acct.FullName, nil
	}
	return acct.Username, nil
}

// Sessions lists the caller's sessions via GET /api/auth/sessions/.
func (c *Client) Sessions(ctx context.Context, access string) ([]model.RemoteSession, error) {
	var sessions []model.RemoteSession
	err := c.do(ctx, http.MethodGet, "/api/auth/sessions/", access, nil, &sessions)
	return sessions, err
}

// do performs one request and decodes the response into out (when non-nil).
// Non-2xx responses become *FieldErrors or *ServerError depending on the body.
func (c *Client) do(ctx context.Context, method, path, access string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError maps an error body to the taxonomy. The backend answers either
// {"detail": "..."} / {"error": "..."} or a field map like
// {"email": ["message"]}.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil || len(payload) == 0 {
		return &ServerError{StatusCode: resp.StatusCode}
	}

	for _, key := range []string{"detail", "error", "message"} {
		if msg, ok := payload[key].(string); ok && msg != "" {
			return &ServerError{StatusCode: resp.StatusCode, Message: msg}
		}
	}

	fields := make(FieldErrors)
	for field, v := range payload {
		switch val := v.(type) {
		case string:
			fields[field] = val
		case []any:
			if len(val) > 0 {
				if msg, ok := val[0].(string); ok {
					fields[field] = msg
				}
			}
		}
	}
	if len(fields) > 0 {
		return fields
	}
	return &ServerError{StatusCode: resp.StatusCode}
}
