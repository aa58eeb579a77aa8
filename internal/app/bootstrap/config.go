// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/reelsite/internal/app/system/apicors"
	"github.com/dalemusser/reelsite/internal/app/system/auditlog"
	"github.com/dalemusser/reelsite/internal/app/system/inputval"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for app environment variables, e.g.
// REELSITE_MONGO_URI.
const EnvVarPrefix = "REELSITE"

// appConfigKeys defines the configuration keys for this application.
// Each key can be set in a config file (mongo_uri), as an environment
// variable (REELSITE_MONGO_URI) or as a flag (--mongo_uri).
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "reelsite", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Admin session signing key (must be strong in production)"},
	{Name: "session_name", Default: "reelsite-admin", Desc: "Admin session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Admin session lifetime (e.g., 24h, 8h)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars)"},
	{Name: "prefs_key", Default: "dev-only-prefs-key-please-change-012345678", Desc: "Theme cookie signing key (32+ chars)"},
	{Name: "cors_origins", Default: "http://localhost:5173,http://localhost:3000", Desc: "Comma-separated origins allowed to call /api with credentials"},

	// Admin sign-in rate limiting
	{Name: "rate_limit_enabled", Default: true, Desc: "Enable admin sign-in rate limiting"},
	{Name: "rate_limit_login_attempts", Default: 5, Desc: "Failed sign-ins before lockout"},
	{Name: "rate_limit_login_window", Default: "15m", Desc: "Window for counting failed sign-ins"},
	{Name: "rate_limit_login_lockout", Default: "15m", Desc: "Lockout duration"},

	// Audit logging
	{Name: "audit_log_auth", Default: "all", Desc: "Sign-in event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Content and inbox event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention", Default: "2160h", Desc: "How long audit events are kept (0 keeps forever)"},

	// Seeding
	{Name: "seed_admin_email", Default: "", Desc: "Email of the admin to create on first start"},
	{Name: "seed_admin_name", Default: "Admin", Desc: "Name of the seeded admin"},
	{Name: "seed_admin_password", Default: "", Desc: "Password of the seeded admin"},
	{Name: "seed_sample_media", Default: false, Desc: "Copy the built-in portfolio and videos into empty collections"},

	{Name: "mail_smtp_host", Default: "", Desc: "SMTP host for inquiry notifications (empty disables mail)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "", Desc: "Sender address for outgoing mail"},
	{Name: "mail_from_name", Default: "reelsite", Desc: "Sender display name"},
	{Name: "notify_email", Default: "", Desc: "Where new contact inquiries are emailed (empty disables)"},

	{Name: "site_data_file", Default: "", Desc: "YAML file replacing the built-in site profile, services and pricing"},

	{Name: "contact_list_limit", Default: 100, Desc: "Max contacts returned by GET /api/contacts"},
	{Name: "media_list_limit", Default: 200, Desc: "Max items returned by media list endpoints"},

	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for database health probes"},
	{Name: "timeout_read", Default: "5s", Desc: "Deadline for database queries made by handlers"},
	{Name: "timeout_write", Default: "10s", Desc: "Deadline for database writes made by handlers"},
}

// LoadConfig loads WAFFLE core config and reelsite config.
//
// Precedence is flags > env > files > defaults, as implemented by
// config.LoadWithAppConfig.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	origins, err := apicors.ParseOrigins(appValues.String("cors_origins"))
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("cors_origins: %w", err)
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		CSRFKey:     appValues.String("csrf_key"),
		PrefsKey:    appValues.String("prefs_key"),
		CORSOrigins: origins,

		RateLimitEnabled:       appValues.Bool("rate_limit_enabled"),
		RateLimitLoginAttempts: appValues.Int("rate_limit_login_attempts"),
		RateLimitLoginWindow:   appValues.Duration("rate_limit_login_window", 15*time.Minute),
		RateLimitLoginLockout:  appValues.Duration("rate_limit_login_lockout", 15*time.Minute),

		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogAdmin:  appValues.String("audit_log_admin"),
		AuditRetention: appValues.Duration("audit_retention", 90*24*time.Hour),

		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminName:     appValues.String("seed_admin_name"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
		SeedSampleMedia:   appValues.Bool("seed_sample_media"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),
		NotifyEmail:  appValues.String("notify_email"),

		SiteDataFile: appValues.String("site_data_file"),

		ContactListLimit: int64(appValues.Int("contact_list_limit")),
		MediaListLimit:   int64(appValues.Int("media_list_limit")),

		TimeoutPing:  appValues.Duration("timeout_ping", 2*time.Second),
		TimeoutRead:  appValues.Duration("timeout_read", 5*time.Second),
		TimeoutWrite: appValues.Duration("timeout_write", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation. A non-nil error
// aborts startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	for name, key := range map[string]string{
		"session_key": appCfg.SessionKey,
		"csrf_key":    appCfg.CSRFKey,
		"prefs_key":   appCfg.PrefsKey,
	} {
		if len(key) < 32 {
			return fmt.Errorf("%s must be at least 32 characters", name)
		}
	}

	for name, dest := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		switch dest {
		case auditlog.DestAll, auditlog.DestDB, auditlog.DestLog, auditlog.DestOff:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", name, dest)
		}
	}

	if (appCfg.SeedAdminEmail == "") != (appCfg.SeedAdminPassword == "") {
		return fmt.Errorf("seed_admin_email and seed_admin_password must be set together")
	}

	if appCfg.NotifyEmail != "" && !inputval.IsValidEmail(appCfg.NotifyEmail) {
		return fmt.Errorf("notify_email is not a valid address")
	}
	if appCfg.NotifyEmail != "" && (appCfg.MailSMTPHost == "" || appCfg.MailFrom == "") {
		logger.Warn("notify_email is set but mail_smtp_host or mail_from is empty; inquiry emails are disabled")
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
			logger.Warn("session_key is the development default; set REELSITE_SESSION_KEY")
		}
		if len(appCfg.CORSOrigins) == 0 {
			logger.Warn("cors_origins is empty; the browser SPA cannot call /api")
		}
	}

	return nil
}
