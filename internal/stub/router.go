// Package stub is a local development double of the platform backend. It
// implements the REST surface the client consumes with an in-memory account
// store, so the client core and its tests never need the real service.
package stub

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the stub's routes.
func NewRouter(h *Handler, tokens *TokenService, users *UserRepo) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login/", h.HandleLogin)
		r.Post("/auth/google-login/", h.HandleGoogleLogin)
		r.Post("/auth/register/", h.HandleRegister)
		r.Put("/user/register/step-three/{userID}/", h.HandleStepThree)

		// Protected routes (require valid access token)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth(tokens, users))
			r.Get("/auth/profile/", h.HandleProfile)
			r.Get("/auth/sessions/", h.HandleSessions)
			r.Get("/profile/", h.HandleKYC)
			r.Put("/kyc/", h.HandleUpdateKYC)
			r.Get("/user/accounts/me/", h.HandleAccountMe)
		})
	})

	return r
}
