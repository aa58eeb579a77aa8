// Package adminapi handles admin sign-in for the JSON API and serves the
// admin dashboard figures.
package adminapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/reelsite/internal/app/features/errors"
	"github.com/dalemusser/reelsite/internal/app/store/audit"
	contactstore "github.com/dalemusser/reelsite/internal/app/store/contacts"
	mediastore "github.com/dalemusser/reelsite/internal/app/store/media"
	"github.com/dalemusser/reelsite/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/reelsite/internal/app/store/users"
	"github.com/dalemusser/reelsite/internal/app/system/auditlog"
	"github.com/dalemusser/reelsite/internal/app/system/auth"
	"github.com/dalemusser/reelsite/internal/app/system/authutil"
	"github.com/dalemusser/reelsite/internal/app/system/jsonutil"
	"github.com/dalemusser/reelsite/internal/app/system/normalize"
	"github.com/dalemusser/reelsite/internal/app/system/timeouts"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgInvalidCredentials = "Invalid credentials"

// Handler serves /api/admin.
type Handler struct {
	sessionMgr *auth.SessionManager
	users      *userstore.Store
	contacts   *contactstore.Store
	portfolio  *mediastore.Store
	videos     *mediastore.Store
	auditStore *audit.Store
	audit      *auditlog.Logger
	rateLimit  *ratelimit.Store // nil disables lockout
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
	now        func() time.Time
}

// NewHandler creates the admin API handler. rateLimit may be nil.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	auditLogger *auditlog.Logger,
	rateLimit *ratelimit.Store,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		sessionMgr: sessionMgr,
		users:      userstore.New(db),
		contacts:   contactstore.New(db),
		portfolio:  mediastore.New(db, models.MediaPortfolio),
		videos:     mediastore.New(db, models.MediaVideos),
		auditStore: audit.New(db),
		audit:      auditLogger,
		rateLimit:  rateLimit,
		errLog:     errLog,
		logger:     logger,
		now:        time.Now,
	}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// adminVM is the admin identity returned to the client.
type adminVM struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login handles POST /api/admin/login.
//
// Request body:
//
//	{"email": "admin@example.com", "password": "..."}
//
// Every credential failure answers 401 "Invalid credentials" regardless of
// cause; the cause goes to the audit log only. Once the email is locked the
// answer is 429 until the lockout expires.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := jsonutil.Decode(r, &in); err != nil && !errors.Is(err, jsonutil.ErrEmptyBody) {
		jsonutil.BadRequest(w, "Invalid JSON body")
		return
	}
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		jsonutil.BadRequest(w, "Please provide email and password")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	if h.rateLimit != nil {
		if d := h.rateLimit.Check(ctx, email); !d.Allowed {
			h.audit.LoginLockedOut(ctx, r, email)
			jsonutil.TooManyRequests(w, h.lockoutMessage(d.LockedUntil))
			return
		}
	}

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, userstore.ErrNotFound) {
			h.errLog.Log(r, "admin lookup failed", err)
			jsonutil.InternalError(w, "Service temporarily unavailable. Please try again.")
			return
		}
		authutil.BurnCompare(in.Password)
		h.rejectLogin(w, r, email, "unknown_email")
		return
	}

	passwordOK := authutil.CheckPassword(in.Password, user.PasswordHash)
	switch {
	case !user.IsActive():
		h.rejectLogin(w, r, email, "disabled")
		return
	case user.Role != models.RoleAdmin:
		h.rejectLogin(w, r, email, "not_admin")
		return
	case !passwordOK:
		h.rejectLogin(w, r, email, "wrong_password")
		return
	}

	if h.rateLimit != nil {
		if err := h.rateLimit.Clear(ctx, email); err != nil {
			h.logger.Warn("rate limit clear failed", zap.Error(err))
		}
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.errLog.Log(r, "session token generation failed", err)
		jsonutil.InternalError(w, "")
		return
	}
	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.Role, token); err != nil {
		h.errLog.Log(r, "session create failed", err)
		jsonutil.InternalError(w, "")
		return
	}
	if err := h.users.RecordLogin(ctx, user.ID, h.now().UTC()); err != nil {
		h.logger.Warn("record login failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
	}
	h.audit.LoginSuccess(ctx, r, user.ID, user.Email)

	jsonutil.OK(w, adminVM{ID: user.ID.Hex(), Name: user.FullName, Email: user.Email})
}

// rejectLogin records a failed attempt and writes 401, or 429 when this
// failure triggers the lockout.
func (h *Handler) rejectLogin(w http.ResponseWriter, r *http.Request, email, reason string) {
	ctx := r.Context()
	if h.rateLimit != nil {
		if d := h.rateLimit.Fail(ctx, email); !d.Allowed {
			h.audit.LoginLockedOut(ctx, r, email)
			jsonutil.TooManyRequests(w, h.lockoutMessage(d.LockedUntil))
			return
		}
	}
	h.audit.LoginFailed(ctx, r, email, reason)
	jsonutil.Unauthorized(w, msgInvalidCredentials)
}

func (h *Handler) lockoutMessage(until *time.Time) string {
	if until == nil {
		return "Too many failed login attempts. Please try again later."
	}
	remaining := until.Sub(h.now())
	if remaining > time.Minute {
		return fmt.Sprintf("Too many failed login attempts. Please try again in %d minute(s).", int(remaining.Minutes())+1)
	}
	return fmt.Sprintf("Too many failed login attempts. Please try again in %d second(s).", int(remaining.Seconds())+1)
}

// Logout handles POST /api/admin/logout. It succeeds even without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.audit.Logout(r.Context(), r, u.ID)
	}
	h.sessionMgr.DestroySession(w, r)
	jsonutil.Message(w, http.StatusOK, "Signed out")
}

// Me handles GET /api/admin/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	jsonutil.OK(w, adminVM{ID: u.ID, Name: u.Name, Email: u.Email})
}

// sectionStats counts one media section.
type sectionStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

// statsVM is the body of GET /api/admin/stats.
type statsVM struct {
	Contacts        map[string]int64 `json:"contacts"`
	ContactsTotal   int64            `json:"contactsTotal"`
	Portfolio       sectionStats     `json:"portfolio"`
	Videos          sectionStats     `json:"videos"`
	FailedLogins24h int64            `json:"failedLogins24h"`
}

// Stats handles GET /api/admin/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	var vm statsVM
	var err error

	if vm.Contacts, err = h.contacts.CountByStatus(ctx); err != nil {
		h.errLog.Log(r, "contact counts failed", err)
		jsonutil.InternalError(w, "Error fetching stats")
		return
	}
	for _, n := range vm.Contacts {
		vm.ContactsTotal += n
	}
	for _, sec := range []struct {
		store *mediastore.Store
		out   *sectionStats
	}{
		{h.portfolio, &vm.Portfolio},
		{h.videos, &vm.Videos},
	} {
		if sec.out.Total, sec.out.Published, err = sec.store.Counts(ctx); err != nil {
			h.errLog.LogWithFields(r, "media counts failed", err, zap.String("collection", sec.store.Kind().Collection()))
			jsonutil.InternalError(w, "Error fetching stats")
			return
		}
	}
	if vm.FailedLogins24h, err = h.auditStore.FailedLoginsSince(ctx, h.now().Add(-24*time.Hour)); err != nil {
		h.errLog.Log(r, "failed login count failed", err)
		jsonutil.InternalError(w, "Error fetching stats")
		return
	}

	jsonutil.OK(w, vm)
}

// maxAuditLimit caps GET /api/admin/audit.
const maxAuditLimit = 500

// Audit handles GET /api/admin/audit?category=&eventType=&limit=.
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := audit.QueryFilter{
		Category:  strings.ToLower(normalize.QueryParam(q.Get("category"))),
		EventType: strings.ToLower(normalize.QueryParam(q.Get("eventType"))),
	}
	if raw := normalize.QueryParam(q.Get("limit")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			jsonutil.BadRequest(w, "limit must be a positive number")
			return
		}
		if n > maxAuditLimit {
			n = maxAuditLimit
		}
		f.Limit = n
	}
	if raw := normalize.QueryParam(q.Get("actor")); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			jsonutil.BadRequest(w, "actor is not a valid ID")
			return
		}
		f.ActorID = &oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	events, err := h.auditStore.Query(ctx, f)
	if err != nil {
		h.errLog.Log(r, "audit query failed", err)
		jsonutil.InternalError(w, "Error fetching audit log")
		return
	}
	jsonutil.List(w, events, len(events))
}
