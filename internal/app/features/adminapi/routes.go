package adminapi

import (
	"net/http"

	"github.com/dalemusser/reelsite/internal/app/system/auth"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the admin session endpoints.
//
// When mounted at /api/admin:
//   - POST /login   - sign in with email and password
//   - POST /logout  - end the session
//   - GET  /me      - the signed-in admin
//   - GET  /stats   - inbox and media counts (admin)
//   - GET  /audit   - recent audit events (admin)
func Routes(h *Handler, sm *auth.SessionManager) http.Handler {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(sm.RequireSignedIn).Get("/me", h.Me)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleAdmin))
		pr.Get("/stats", h.Stats)
		pr.Get("/audit", h.Audit)
	})

	return r
}
