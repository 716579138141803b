package stub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const userCtxKey contextKey = "user"

// requireAuth validates the bearer token, loads the user and attaches it to
// the request context.
func requireAuth(tokens *TokenService, users *UserRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
				respondError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := tokens.VerifyToken(strings.TrimSpace(parts[1]))
			if err != nil || claims.TokenUse != "access" {
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := users.GetByID(claims.UserID)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "user not found")
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser returns the user attached by requireAuth.
func currentUser(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userCtxKey).(*User)
	return u, ok
}

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes a {"detail": ...} error body.
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"detail": message})
}

// respondFieldErrors writes a Django-style field→messages map.
func respondFieldErrors(w http.ResponseWriter, fields map[string]string) {
	body := make(map[string][]string, len(fields))
	for field, msg := range fields {
		body[field] = []string{msg}
	}
	respondJSON(w, http.StatusBadRequest, body)
}
