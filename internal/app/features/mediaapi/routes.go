package mediaapi

import (
	"net/http"

	"github.com/dalemusser/reelsite/internal/app/system/auth"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the media endpoints for one section.
//
// When mounted at /api/portfolio or /api/videos:
//   - GET    /           - published items, newest first
//   - GET    /all/list   - every item, optional ?q= text search (admin)
//   - GET    /{id}       - one item; unpublished items only for admins
//   - POST   /           - create (admin)
//   - PUT    /{id}       - partial update (admin)
//   - DELETE /{id}       - delete (admin)
func Routes(h *Handler, sm *auth.SessionManager) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListPublished)
	r.Get("/{id}", h.Get)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleAdmin))
		pr.Get("/all/list", h.ListAll)
		pr.Post("/", h.Create)
		pr.Put("/{id}", h.Update)
		pr.Delete("/{id}", h.Delete)
	})

	return r
}
