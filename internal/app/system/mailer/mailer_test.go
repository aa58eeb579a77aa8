package mailer

import (
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captured struct {
	mu   sync.Mutex
	addr string
	from string
	to   []string
	msg  string
	auth bool
}

func newTestMailer(cfg Config, c *captured, fail error) *Mailer {
	m := New(cfg, zap.NewNop())
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.addr, c.from, c.to, c.msg, c.auth = addr, from, to, string(msg), a != nil
		return fail
	}
	return m
}

var testCfg = Config{Host: "smtp.test", Port: 587, From: "site@reel.test", FromName: "Reel Site"}

func TestEnabled(t *testing.T) {
	assert.True(t, New(testCfg, zap.NewNop()).Enabled())
	assert.False(t, New(Config{From: "a@b.test"}, zap.NewNop()).Enabled())
	assert.False(t, New(Config{Host: "smtp.test"}, zap.NewNop()).Enabled())

	var m *Mailer
	assert.False(t, m.Enabled())
}

func TestSend_PlainText(t *testing.T) {
	var c captured
	m := newTestMailer(testCfg, &c, nil)

	err := m.Send(Email{To: "owner@reel.test", Subject: "Hi", TextBody: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.test:587", c.addr)
	assert.Equal(t, "site@reel.test", c.from)
	assert.Equal(t, []string{"owner@reel.test"}, c.to)
	assert.False(t, c.auth, "no credentials means no auth")
	assert.Contains(t, c.msg, "From: Reel Site <site@reel.test>\r\n")
	assert.Contains(t, c.msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\nhello")
	assert.NotContains(t, c.msg, "multipart")
}

func TestSend_MultipartWithAuth(t *testing.T) {
	var c captured
	cfg := testCfg
	cfg.User, cfg.Pass = "u", "p"
	m := newTestMailer(cfg, &c, nil)

	require.NoError(t, m.Send(Email{To: "o@reel.test", Subject: "S", TextBody: "t", HTMLBody: "<b>h</b>"}))
	assert.True(t, c.auth)
	assert.Contains(t, c.msg, "multipart/alternative")
	assert.Contains(t, c.msg, "text/html; charset=UTF-8\r\n\r\n<b>h</b>")
}

func TestSend_HeaderInjectionStripped(t *testing.T) {
	var c captured
	m := newTestMailer(testCfg, &c, nil)

	require.NoError(t, m.Send(Email{To: "o@reel.test", ReplyTo: "x@y.test\r\nBcc: victim@z.test", Subject: "S", TextBody: "t"}))
	assert.NotContains(t, c.msg, "\r\nBcc:")
	assert.Contains(t, c.msg, "Reply-To: x@y.test  Bcc: victim@z.test\r\n")
}

func TestSend_Errors(t *testing.T) {
	var c captured
	m := newTestMailer(testCfg, &c, errors.New("connection refused"))
	err := m.Send(Email{To: "o@reel.test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	err = New(Config{}, zap.NewNop()).Send(Email{To: "o@reel.test"})
	assert.Error(t, err)
}

func sampleContact() models.Contact {
	return models.Contact{
		Name:        "Jamie <Cole>",
		Email:       "jamie@example.com",
		ProjectType: "Wedding",
		Budget:      "500-1000",
		Message:     "Highlight film please.",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestInquiryEmail(t *testing.T) {
	e, err := InquiryEmail("owner@reel.test", sampleContact())
	require.NoError(t, err)

	assert.Equal(t, "owner@reel.test", e.To)
	assert.Equal(t, "jamie@example.com", e.ReplyTo)
	assert.Equal(t, "New wedding inquiry from Jamie <Cole>", e.Subject)
	assert.Contains(t, e.TextBody, "Budget:       500-1000")
	assert.Contains(t, e.TextBody, "2026-03-01 12:00 UTC")
	assert.Contains(t, e.HTMLBody, "Jamie &lt;Cole&gt;", "HTML body must escape visitor input")
	assert.False(t, strings.Contains(e.HTMLBody, "<Cole>"))
}

func TestInquiryNotifier(t *testing.T) {
	assert.Nil(t, NewInquiryNotifier(New(Config{}, zap.NewNop()), "owner@reel.test", zap.NewNop()))
	assert.Nil(t, NewInquiryNotifier(New(testCfg, zap.NewNop()), "", zap.NewNop()))

	var nilNotifier *InquiryNotifier
	assert.NotPanics(t, func() {
		nilNotifier.NotifyInquiry(sampleContact())
		nilNotifier.Wait()
	})

	var c captured
	n := NewInquiryNotifier(newTestMailer(testCfg, &c, nil), "owner@reel.test", zap.NewNop())
	require.NotNil(t, n)
	n.NotifyInquiry(sampleContact())
	n.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Equal(t, []string{"owner@reel.test"}, c.to)
	assert.Contains(t, c.msg, "Subject: New wedding inquiry from Jamie <Cole>")
}
