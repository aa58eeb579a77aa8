package contactsapi

import (
	"net/http"

	"github.com/dalemusser/reelsite/internal/app/system/auth"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the contact endpoints.
//
// When mounted at /api/contacts:
//   - POST   /api/contacts       - submit the public contact form
//   - GET    /api/contacts       - list submissions (admin)
//   - GET    /api/contacts/{id}  - one submission (admin)
//   - PATCH  /api/contacts/{id}  - change status (admin)
//   - DELETE /api/contacts/{id}  - delete (admin)
func Routes(h *Handler, sm *auth.SessionManager) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Submit)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleAdmin))
		pr.Get("/", h.List)
		pr.Get("/{id}", h.Get)
		pr.Patch("/{id}", h.UpdateStatus)
		pr.Delete("/{id}", h.Delete)
	})

	return r
}
