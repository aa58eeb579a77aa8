package mailer

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/dalemusser/reelsite/internal/domain/models"
	"go.uber.org/zap"
)

const inquiryText = `New inquiry from {{.Name}} <{{.Email}}>

Project type: {{.ProjectType}}
Budget:       {{.Budget}}
Received:     {{.CreatedAt.Format "2006-01-02 15:04 MST"}}

{{.Message}}
`

const inquiryHTML = `<p><strong>New inquiry from {{.Name}}</strong> &lt;<a href="mailto:{{.Email}}">{{.Email}}</a>&gt;</p>
<table>
<tr><td>Project type</td><td>{{.ProjectType}}</td></tr>
<tr><td>Budget</td><td>{{.Budget}}</td></tr>
<tr><td>Received</td><td>{{.CreatedAt.Format "2006-01-02 15:04 MST"}}</td></tr>
</table>
<p style="white-space: pre-wrap">{{.Message}}</p>
`

var (
	inquiryTextTmpl = texttemplate.Must(texttemplate.New("inquiry_text").Parse(inquiryText))
	inquiryHTMLTmpl = htmltemplate.Must(htmltemplate.New("inquiry_html").Parse(inquiryHTML))
)

// InquiryEmail builds the owner notification for a new contact. Replies go
// straight to the visitor.
func InquiryEmail(to string, c models.Contact) (Email, error) {
	var text, html bytes.Buffer
	if err := inquiryTextTmpl.Execute(&text, c); err != nil {
		return Email{}, err
	}
	if err := inquiryHTMLTmpl.Execute(&html, c); err != nil {
		return Email{}, err
	}
	return Email{
		To:       to,
		ReplyTo:  c.Email,
		Subject:  "New " + strings.ToLower(c.ProjectType) + " inquiry from " + c.Name,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}

// InquiryNotifier emails the site owner when a contact is submitted.
// Sends run in the background so a slow SMTP server never delays the
// visitor's response.
type InquiryNotifier struct {
	mailer *Mailer
	to     string
	log    *zap.Logger
	wg     sync.WaitGroup
}

// NewInquiryNotifier returns nil when m is not configured or to is empty,
// which callers treat as notifications off.
func NewInquiryNotifier(m *Mailer, to string, log *zap.Logger) *InquiryNotifier {
	if !m.Enabled() || to == "" {
		return nil
	}
	return &InquiryNotifier{mailer: m, to: to, log: log}
}

// NotifyInquiry queues the notification for c. Failures are logged.
func (n *InquiryNotifier) NotifyInquiry(c models.Contact) {
	if n == nil {
		return
	}
	email, err := InquiryEmail(n.to, c)
	if err != nil {
		n.log.Error("failed to render inquiry email", zap.String("contact_id", c.ID.Hex()), zap.Error(err))
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		_ = n.mailer.Send(email) // Send logs its own failures
	}()
}

// Wait blocks until queued notifications have been attempted.
func (n *InquiryNotifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}
