// Package prefs carries per-visitor presentation settings (currently the
// colour theme) in a signed cookie.
//
// Middleware decodes the cookie once per request and places the Settings in
// the request context. Handlers read them with FromContext and write them
// back with Manager.Save only when the visitor changes something.
package prefs

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// Theme is the site colour scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme applies when a visitor has no (valid) cookie.
const DefaultTheme = ThemeDark

// ParseTheme accepts "dark" or "light".
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), true
	}
	return "", false
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Settings is what the cookie stores.
type Settings struct {
	Theme Theme `json:"theme"`
}

// Defaults returns the settings for a first-time visitor.
func Defaults() Settings {
	return Settings{Theme: DefaultTheme}
}

func (s Settings) sanitized() Settings {
	if _, ok := ParseTheme(string(s.Theme)); !ok {
		s.Theme = DefaultTheme
	}
	return s
}

// CookieName is the default name of the settings cookie.
const CookieName = "reelsite-prefs"

// MaxAge is how long the settings cookie lives.
const MaxAge = 365 * 24 * time.Hour

// Manager encodes and decodes the settings cookie.
type Manager struct {
	sc     *securecookie.SecureCookie
	name   string
	secure bool
	logger *zap.Logger
}

// ErrShortKey is returned when the signing key is under 32 bytes.
var ErrShortKey = errors.New("prefs key must be at least 32 characters")

// NewManager creates a Manager that signs cookies with key.
func NewManager(key string, secure bool, logger *zap.Logger) (*Manager, error) {
	if len(key) < 32 {
		return nil, ErrShortKey
	}
	sc := securecookie.New([]byte(key), nil)
	sc.MaxAge(int(MaxAge.Seconds()))
	sc.SetSerializer(securecookie.JSONEncoder{})
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{sc: sc, name: CookieName, secure: secure, logger: logger}, nil
}

// Read decodes the settings cookie on r. A missing, tampered or expired
// cookie yields Defaults().
func (m *Manager) Read(r *http.Request) Settings {
	c, err := r.Cookie(m.name)
	if err != nil {
		return Defaults()
	}
	var s Settings
	if err := m.sc.Decode(m.name, c.Value, &s); err != nil {
		m.logger.Debug("ignoring invalid prefs cookie", zap.Error(err))
		return Defaults()
	}
	return s.sanitized()
}

// Save writes s to the response as the settings cookie.
func (m *Manager) Save(w http.ResponseWriter, s Settings) error {
	encoded, err := m.sc.Encode(m.name, s.sanitized())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

type ctxKey struct{}

// Middleware reads the settings cookie and stores the result in the
// request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxKey{}, m.Read(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the settings placed by Middleware, or Defaults().
func FromContext(ctx context.Context) Settings {
	if s, ok := ctx.Value(ctxKey{}).(Settings); ok {
		return s
	}
	return Defaults()
}

// WithSettings returns a copy of ctx carrying s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}
