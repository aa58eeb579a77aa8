// Package formutil provides helpers for re-rendering a form after a failed
// submission.
//
// A rejected form is shown again with the visitor's previous values, one
// error message, and the option lists the form needs. Embed Base in the
// page's view model to get the shared fields.
//
// Example usage:
//
//	type contactData struct {
//		formutil.Base
//		Name  string
//		Email string
//	}
//
//	data := contactData{Base: formutil.NewBase(r, "Contact")}
//	data.SetError("Please provide all required fields")
//	templates.Render(w, r, "site/contact", data)
package formutil

import (
	"net/http"

	"github.com/dalemusser/reelsite/internal/app/system/viewdata"
)

// Base embeds viewdata.BaseVM and adds the form-level error and notice.
type Base struct {
	viewdata.BaseVM
	Error  string
	Notice string
}

// NewBase creates a Base for a form page titled title.
func NewBase(r *http.Request, title string) Base {
	return Base{BaseVM: viewdata.New(r, title)}
}

// SetError sets the message shown above the form. The template escapes it.
func (b *Base) SetError(msg string) {
	b.Error = msg
}

// SetNotice sets a success message shown instead of an error.
func (b *Base) SetNotice(msg string) {
	b.Notice = msg
}

// Option is one entry of a <select>.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Options builds select options from values, marking selected. labelOf
// may be nil to use the value as its own label.
func Options(values []string, selected string, labelOf func(string) string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		label := v
		if labelOf != nil {
			label = labelOf(v)
		}
		out[i] = Option{Value: v, Label: label, Selected: v == selected}
	}
	return out
}
