package stub

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fxrental/client/internal/model"
	"github.com/fxrental/client/internal/validate"
)

// Handler serves the stubbed platform API.
type Handler struct {
	users     *UserRepo
	tokens    *TokenService
	ipLimiter *RateLimiter
}

// NewHandler creates a handler over the given repo and token service.
func NewHandler(users *UserRepo, tokens *TokenService) *Handler {
	return &Handler{
		users:     users,
		tokens:    tokens,
		ipLimiter: NewRateLimiter(10*time.Minute, 30),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// HandleLogin handles POST /api/auth/login/.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if !h.ipLimiter.Allow(GetIPKey(r)) {
		respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.respondTokens(w, r, user)
}

type googleLoginRequest struct {
	Token string `json:"token"`
}

// HandleGoogleLogin handles POST /api/auth/google-login/. The stub accepts
// any non-empty token and maps it onto a local development account; it does
// not call Google.
func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	user, err := h.users.GetOrCreateByEmail("Google User", "google.user@example.com")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve account")
		return
	}

	h.respondTokens(w, r, user)
}

func (h *Handler) respondTokens(w http.ResponseWriter, r *http.Request, user *User) {
	access, err := h.tokens.SignAccessToken(user)
	if err != nil {
		log.Printf("sign access token: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	refresh, err := h.tokens.SignRefreshToken(user)
	if err != nil {
		log.Printf("sign refresh token: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	h.users.RecordSession(user.ID, GetIPKey(r), r.UserAgent())
	respondJSON(w, http.StatusOK, tokenResponse{Access: access, Refresh: refresh})
}

// HandleProfile handles GET /api/auth/profile/.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, model.Profile{
		FullName:    user.FullName,
		Username:    usernameFor(user),
		Email:       user.Email,
		IsSuperuser: user.IsSuperuser,
	})
}

// HandleRegister handles POST /api/auth/register/.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName        string `json:"full_name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validate.Signup(validate.SignupFields{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}); len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	user, err := h.users.Create(req.FullName, req.Email, req.Password, false)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			respondFieldErrors(w, map[string]string{"email": "an account with this email already exists"})
			return
		}
		log.Printf("create user: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"user_id": user.ID.String()})
}

// HandleKYC handles GET /api/profile/.
func (h *Handler) HandleKYC(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, user.KYC)
}

// HandleUpdateKYC handles PUT /api/kyc/.
func (h *Handler) HandleUpdateKYC(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var kyc model.KYC
	if err := json.NewDecoder(r.Body).Decode(&kyc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.users.UpdateKYC(user.ID, kyc); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update record")
		return
	}
	respondJSON(w, http.StatusOK, kyc)
}

// HandleStepThree handles PUT /api/user/register/step-three/{userID}/.
func (h *Handler) HandleStepThree(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		FullName    string `json:"full_name"`
		PhoneNumber string `json:"phone_number"`
		IDNumber    string `json:"id_number"`
		DateOfBirth string `json:"date_of_birth"`
		Address     string `json:"address"`
		UserID      string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID != userID.String() {
		respondError(w, http.StatusBadRequest, "user_id does not match URL")
		return
	}

	if errs := validate.StepThree(validate.StepThreeFields{
		FullName:    req.FullName,
		IDNumber:    req.IDNumber,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
	}); len(errs) > 0 {
		respondFieldErrors(w, errs)
		return
	}

	err = h.users.CompleteRegistration(userID, req.FullName, req.PhoneNumber, model.KYC{
		IDNumber:    req.IDNumber,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
	})
	if err != nil {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "registration complete"})
}

// HandleAccountMe handles GET /api/user/accounts/me/.
func (h *Handler) HandleAccountMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"full_name": user.FullName,
		"username":  usernameFor(user),
	})
}

// HandleSessions handles GET /api/auth/sessions/.
func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, h.users.Sessions(user.ID))
}

func usernameFor(u *User) string {
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}
