// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	adminapifeature "github.com/dalemusser/reelsite/internal/app/features/adminapi"
	contactsapifeature "github.com/dalemusser/reelsite/internal/app/features/contactsapi"
	embedapifeature "github.com/dalemusser/reelsite/internal/app/features/embedapi"
	errorsfeature "github.com/dalemusser/reelsite/internal/app/features/errors"
	healthfeature "github.com/dalemusser/reelsite/internal/app/features/health"
	mediaapifeature "github.com/dalemusser/reelsite/internal/app/features/mediaapi"
	sitefeature "github.com/dalemusser/reelsite/internal/app/features/site"
	appresources "github.com/dalemusser/reelsite/internal/app/resources"
	"github.com/dalemusser/reelsite/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/reelsite/internal/app/store/users"
	"github.com/dalemusser/reelsite/internal/app/system/apicors"
	"github.com/dalemusser/reelsite/internal/app/system/auth"
	"github.com/dalemusser/reelsite/internal/app/system/prefs"
	"github.com/dalemusser/reelsite/internal/app/system/reqlog"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for reelsite.
//
// The router serves two audiences:
//   - the public site (server-rendered pages): preference cookie + CSRF
//   - the JSON API under /api: allow-listed CORS, no CSRF, admin routes
//     behind the session cookie
//
// Unknown paths get the 404 page, or the JSON envelope under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	db := deps.MongoDatabase

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// Reload the admin on every request so a disabled account is locked
	// out immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db, logger))

	prefsMgr, err := prefs.NewManager(appCfg.PrefsKey, secure, logger)
	if err != nil {
		logger.Error("preferences manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode reloads templates from disk on every render.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errorsHandler := errorsfeature.NewHandler(logger)
	errLog := errorsfeature.NewErrorLogger(logger)
	auditLogger := newAuditLogger(appCfg, deps, logger)

	var loginLimiter *ratelimit.Store
	if appCfg.RateLimitEnabled {
		loginLimiter = ratelimit.New(db, appCfg.RateLimitLoginAttempts, appCfg.RateLimitLoginWindow, appCfg.RateLimitLoginLockout)
	}

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(reqlog.RequestID)
	r.Use(reqlog.Logger(logger))
	r.Use(errorsHandler.Recover)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(prefsMgr.Middleware)

	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("reelsite_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"localhost:5173",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	// The JSON API is called cross-origin by the admin SPA and is guarded
	// by CORS and the session cookie instead of a form token.
	r.Use(func(next http.Handler) http.Handler {
		protected := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if strings.HasPrefix(req.URL.Path, "/api/") {
				next.ServeHTTP(w, req)
				return
			}
			protected.ServeHTTP(w, req)
		})
	})

	// ─────────────────────────────────────────────────────────────────────────────
	// Probes and assets
	// ─────────────────────────────────────────────────────────────────────────────

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// ─────────────────────────────────────────────────────────────────────────────
	// JSON API
	// ─────────────────────────────────────────────────────────────────────────────

	r.Group(func(api chi.Router) {
		api.Use(apicors.MiddlewareWithOrigins(appCfg.CORSOrigins...))

		healthfeature.MountRootEndpoints(api, healthHandler)

		contactsHandler := contactsapifeature.NewHandler(db, auditLogger, errLog, appCfg.ContactListLimit, logger)
		if inquiryNotifier != nil {
			contactsHandler.SetNotifier(inquiryNotifier)
		}
		api.Mount("/api/contacts", contactsapifeature.Routes(contactsHandler, sessionMgr))

		portfolioHandler := mediaapifeature.NewHandler(db, models.MediaPortfolio, auditLogger, errLog, appCfg.MediaListLimit, logger)
		api.Mount("/api/portfolio", mediaapifeature.Routes(portfolioHandler, sessionMgr))

		videosHandler := mediaapifeature.NewHandler(db, models.MediaVideos, auditLogger, errLog, appCfg.MediaListLimit, logger)
		api.Mount("/api/videos", mediaapifeature.Routes(videosHandler, sessionMgr))

		adminHandler := adminapifeature.NewHandler(db, sessionMgr, auditLogger, loginLimiter, errLog, logger)
		api.Mount("/api/admin", adminapifeature.Routes(adminHandler, sessionMgr))

		api.Mount("/api/embed", embedapifeature.Routes())
	})

	// ─────────────────────────────────────────────────────────────────────────────
	// Public site
	// ─────────────────────────────────────────────────────────────────────────────

	siteHandler := sitefeature.NewHandler(db, prefsMgr, errorsHandler, errLog, appCfg.MediaListLimit, logger)
	if inquiryNotifier != nil {
		siteHandler.SetNotifier(inquiryNotifier)
	}
	r.Mount("/", sitefeature.Routes(siteHandler))

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}
