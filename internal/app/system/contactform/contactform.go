// Package contactform turns a raw contact submission into a validated
// store input. The JSON API and the server-rendered contact page both use it,
// so a lead is accepted or rejected the same way on either path.
package contactform

import (
	"strings"

	contactstore "github.com/dalemusser/reelsite/internal/app/store/contacts"
	"github.com/dalemusser/reelsite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/reelsite/internal/app/system/inputval"
	"github.com/dalemusser/reelsite/internal/app/system/normalize"
	"github.com/dalemusser/reelsite/internal/domain/models"
)

// MsgMissingFields is returned when any field is blank.
const MsgMissingFields = "Please provide all required fields"

// Notifier is told about every stored submission.
type Notifier interface {
	NotifyInquiry(c models.Contact)
}

// Input is a contact submission as it arrives from a client.
type Input struct {
	Name        string `json:"name" validate:"required,min=2,max=50" label:"Name"`
	Email       string `json:"email" validate:"required,contactemail" label:"Email"`
	ProjectType string `json:"projectType" validate:"required,projecttype" label:"Project type"`
	Budget      string `json:"budget" validate:"required,budget" label:"Budget"`
	Message     string `json:"message" validate:"required,min=10,max=2000" label:"Message"`
}

// Clean trims every field, lowercases the email and project type, and
// strips markup from the message.
func (in Input) Clean() Input {
	return Input{
		Name:        normalize.Name(in.Name),
		Email:       normalize.Email(in.Email),
		ProjectType: normalize.ProjectType(in.ProjectType),
		Budget:      strings.TrimSpace(in.Budget),
		Message:     strings.TrimSpace(htmlsanitize.StripTags(in.Message)),
	}
}

// Missing reports whether any field is blank after trimming.
func (in Input) Missing() bool {
	for _, v := range []string{in.Name, in.Email, in.ProjectType, in.Budget, in.Message} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Check cleans in and validates it. On failure it returns the message to
// show the submitter and ok=false.
func Check(in Input) (clean Input, msg string, ok bool) {
	if in.Missing() {
		return Input{}, MsgMissingFields, false
	}
	clean = in.Clean()
	if res := inputval.Validate(clean); res.HasErrors() {
		return Input{}, res.First(), false
	}
	return clean, "", true
}

// StoreInput builds the store record for a checked submission.
func (in Input) StoreInput(ip, userAgent string) contactstore.CreateInput {
	return contactstore.CreateInput{
		Name:        in.Name,
		Email:       in.Email,
		ProjectType: in.ProjectType,
		Budget:      in.Budget,
		Message:     in.Message,
		IPAddress:   ip,
		UserAgent:   userAgent,
	}
}
