package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the public site router, mounted at /.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.Home)
	r.Get("/about", h.About)
	r.Get("/services", h.Services)
	r.Get("/pricing", h.Pricing)
	r.Get("/portfolio", h.Portfolio)
	r.Get("/videos", h.Videos)
	r.Get("/watch/{kind}/{id}", h.Watch)

	r.Get("/contact", h.ContactForm)
	r.Post("/contact", h.ContactSubmit)

	r.Post("/theme/toggle", h.ToggleTheme)
	r.Post("/theme", h.SetTheme)

	return r
}
