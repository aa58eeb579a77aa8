package site

import (
	"context"
	"net/http"

	"github.com/dalemusser/reelsite/internal/app/system/contactform"
	"github.com/dalemusser/reelsite/internal/app/system/formutil"
	"github.com/dalemusser/reelsite/internal/app/system/network"
	"github.com/dalemusser/reelsite/internal/app/system/timeouts"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const sentNotice = "Thanks! Your message is on its way. I usually reply within 24 hours."

var projectTypeLabels = map[string]string{
	models.ProjectTypeReels:      "Instagram Reels / Shorts",
	models.ProjectTypeYouTube:    "YouTube Video",
	models.ProjectTypeWedding:    "Wedding Film",
	models.ProjectTypeCommercial: "Commercial / Ad",
	models.ProjectTypeOther:      "Other",
}

var budgetLabels = map[string]string{
	"50-200":   "$50 - $200",
	"200-500":  "$200 - $500",
	"500-1000": "$500 - $1000",
	"1000+":    "$1000+",
}

type contactData struct {
	formutil.Base
	Form         contactform.Input
	ProjectTypes []formutil.Option
	Budgets      []formutil.Option
	WhatsApp     string
}

func (h *Handler) contactPage(r *http.Request, in contactform.Input) contactData {
	d := contactData{
		Base: formutil.NewBase(r, "Contact"),
		Form: in,
		ProjectTypes: formutil.Options(models.AllProjectTypes(), in.ProjectType, func(v string) string {
			return projectTypeLabels[v]
		}),
		Budgets: formutil.Options(models.AllBudgets(), in.Budget, func(v string) string {
			return budgetLabels[v]
		}),
	}
	d.WhatsApp = d.Profile.WhatsAppLink()
	return d
}

// ContactForm renders GET /contact. ?sent=1 shows the thank-you notice.
func (h *Handler) ContactForm(w http.ResponseWriter, r *http.Request) {
	d := h.contactPage(r, contactform.Input{})
	if query.Get(r, "sent") == "1" {
		d.SetNotice(sentNotice)
	}
	templates.Render(w, r, "site/contact", d)
}

// ContactSubmit handles POST /contact. A rejected submission re-renders
// the form with the visitor's values; an accepted one redirects back with
// the notice so a refresh does not resubmit.
func (h *Handler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse contact form", err)
		w.WriteHeader(http.StatusBadRequest)
		d := h.contactPage(r, contactform.Input{})
		d.SetError("Your message could not be read. Please try again.")
		templates.Render(w, r, "site/contact", d)
		return
	}

	in := contactform.Input{
		Name:        r.PostFormValue("name"),
		Email:       r.PostFormValue("email"),
		ProjectType: r.PostFormValue("projectType"),
		Budget:      r.PostFormValue("budget"),
		Message:     r.PostFormValue("message"),
	}

	clean, msg, ok := contactform.Check(in)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		d := h.contactPage(r, in)
		d.SetError(msg)
		templates.Render(w, r, "site/contact", d)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	c, err := h.contacts.Create(ctx, clean.StoreInput(network.GetClientIP(r), r.UserAgent()))
	if err != nil {
		h.errLog.Log(r, "contact insert failed", err)
		w.WriteHeader(http.StatusInternalServerError)
		d := h.contactPage(r, in)
		d.SetError("Error submitting contact form. Please try again or email me directly.")
		templates.Render(w, r, "site/contact", d)
		return
	}

	h.logger.Info("contact submitted",
		zap.String("contact_id", c.ID.Hex()),
		zap.String("project_type", c.ProjectType),
		zap.String("via", "form"))
	if h.notifier != nil {
		h.notifier.NotifyInquiry(c)
	}
	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}
