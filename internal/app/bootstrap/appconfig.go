// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds reelsite-specific configuration.
//
// Values come from config files, REELSITE_* environment variables or
// flags (see LoadConfig). Framework settings such as ports, TLS, log level
// and request limits live in WAFFLE's CoreConfig instead.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Admin session cookie
	SessionKey    string        // signing key; must be strong in production
	SessionName   string        // cookie name (default: reelsite-admin)
	SessionDomain string        // blank means current host
	SessionMaxAge time.Duration // default: 24h

	// CSRFKey signs tokens for the contact and theme forms.
	CSRFKey string

	// PrefsKey signs the theme cookie.
	PrefsKey string

	// CORSOrigins lists the browser origins allowed to call /api with
	// credentials, comma separated.
	CORSOrigins []string

	// Admin sign-in rate limiting
	RateLimitEnabled       bool
	RateLimitLoginAttempts int
	RateLimitLoginWindow   time.Duration
	RateLimitLoginLockout  time.Duration

	// Audit logging destinations: "all", "db", "log" or "off".
	AuditLogAuth  string
	AuditLogAdmin string
	// AuditRetention is how long audit events are kept. Zero keeps them
	// forever.
	AuditRetention time.Duration

	// Admin seeding
	SeedAdminEmail    string
	SeedAdminName     string
	SeedAdminPassword string

	// SeedSampleMedia copies the dataset's default portfolio and videos
	// into empty collections at startup.
	SeedSampleMedia bool

	// Outgoing mail. Inquiry notifications are sent only when
	// MailSMTPHost, MailFrom and NotifyEmail are all set.
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string
	NotifyEmail  string

	// SiteDataFile optionally replaces the embedded site dataset.
	SiteDataFile string

	// List caps
	ContactListLimit int64
	MediaListLimit   int64

	// Database deadlines used by handlers
	TimeoutPing  time.Duration
	TimeoutRead  time.Duration
	TimeoutWrite time.Duration
}
