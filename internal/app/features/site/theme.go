package site

import (
	"net/http"

	"github.com/dalemusser/reelsite/internal/app/system/prefs"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// ToggleTheme handles POST /theme/toggle and returns to the page named by
// the "return" form field.
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	s := prefs.FromContext(r.Context())
	s.Theme = s.Theme.Toggle()
	h.saveAndReturn(w, r, s)
}

// SetTheme handles POST /theme with theme=light|dark.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	t, ok := prefs.ParseTheme(r.FormValue("theme"))
	if !ok {
		http.Error(w, "unknown theme", http.StatusBadRequest)
		return
	}
	s := prefs.FromContext(r.Context())
	s.Theme = t
	h.saveAndReturn(w, r, s)
}

func (h *Handler) saveAndReturn(w http.ResponseWriter, r *http.Request, s prefs.Settings) {
	if err := h.prefs.Save(w, s); err != nil {
		h.logger.Warn("prefs cookie not saved", zap.Error(err))
	}
	http.Redirect(w, r, urlutil.SafeReturn(r.FormValue("return"), "", "/"), http.StatusSeeOther)
}
