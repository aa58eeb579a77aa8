package adminapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
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
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/dalemusser/reelsite/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	adminEmail    = "owner@reels.test"
	adminPassword = "correct-horse-battery"
)

type fixture struct {
	db     *mongo.Database
	router http.Handler
	users  *userstore.Store
	audit  *audit.Store
	admin  models.User
}

func newFixture(t *testing.T, withRateLimit bool) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sm, err := auth.NewSessionManager(strings.Repeat("s", 32), "", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	var rl *ratelimit.Store
	if withRateLimit {
		rl = ratelimit.New(db, 3, 15*time.Minute, 30*time.Minute)
	}

	hash, err := authutil.HashPassword(adminPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	users := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin, err := users.Create(ctx, userstore.CreateInput{FullName: "Site Owner", Email: adminEmail, PasswordHash: hash})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	auditStore := audit.New(db)
	h := NewHandler(db, sm, auditlog.New(auditStore, logger, auditlog.Config{}), rl, errorsfeature.NewErrorLogger(logger), logger)
	return fixture{db: db, router: Routes(h, sm), users: users, audit: auditStore, admin: admin}
}

func (f fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f fixture) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return f.serve(testutil.NewJSONRequest(t, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	}))
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, true)

	rec := f.login(t, "  Owner@Reels.TEST ", adminPassword)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. Body: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	testutil.DecodeEnvelope(t, rec, &got)
	if got.ID != f.admin.ID.Hex() || got.Email != adminEmail || got.Name != "Site Owner" {
		t.Errorf("admin = %+v", got)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "reelsite-admin=") {
		t.Errorf("Set-Cookie = %q, want session cookie", rec.Header().Get("Set-Cookie"))
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u, err := f.users.GetByID(ctx, f.admin.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.LastLoginAt == nil {
		t.Error("last login should be recorded")
	}
	n, _ := f.audit.Count(ctx, audit.QueryFilter{EventType: audit.EventLoginSuccess})
	if n != 1 {
		t.Errorf("login success events = %d, want 1", n)
	}
}

func TestLogin_Rejections(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantMsg    string
	}{
		{"wrong password", map[string]string{"email": adminEmail, "password": "nope-nope-nope"}, http.StatusUnauthorized, "Invalid credentials"},
		{"unknown email", map[string]string{"email": "stranger@reels.test", "password": adminPassword}, http.StatusUnauthorized, "Invalid credentials"},
		{"missing password", map[string]string{"email": adminEmail}, http.StatusBadRequest, "Please provide email and password"},
		{"malformed body", "{", http.StatusBadRequest, "Invalid JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(testutil.NewJSONRequest(t, http.MethodPost, "/login", tt.body))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env := testutil.DecodeEnvelope(t, rec, nil); env.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMsg)
			}
		})
	}
}

func TestLogin_DisabledAdmin(t *testing.T) {
	f := newFixture(t, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := f.users.SetStatus(ctx, f.admin.ID, models.StatusDisabled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	rec := f.login(t, adminEmail, adminPassword)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	events, _ := f.audit.Query(ctx, audit.QueryFilter{EventType: audit.EventLoginFailed})
	if len(events) != 1 || events[0].FailureReason != "disabled" {
		t.Errorf("events = %+v, want one disabled failure", events)
	}
}

func TestLogin_Lockout(t *testing.T) {
	f := newFixture(t, true)

	for i := 1; i <= 2; i++ {
		if rec := f.login(t, adminEmail, "wrong-password-x"); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i, rec.Code)
		}
	}
	rec := f.login(t, adminEmail, "wrong-password-x")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third failure: status = %d, want 429", rec.Code)
	}

	rec = f.login(t, adminEmail, adminPassword)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("correct password while locked: status = %d, want 429", rec.Code)
	}
	if env := testutil.DecodeEnvelope(t, rec, nil); !strings.Contains(env.Message, "minute(s)") {
		t.Errorf("message = %q, want minutes remaining", env.Message)
	}
}

func TestLogin_SuccessClearsFailures(t *testing.T) {
	f := newFixture(t, true)

	f.login(t, adminEmail, "wrong-password-x")
	f.login(t, adminEmail, "wrong-password-x")
	if rec := f.login(t, adminEmail, adminPassword); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec := f.login(t, adminEmail, "wrong-password-x"); rec.Code != http.StatusUnauthorized {
		t.Errorf("status after reset = %d, want 401 (not locked)", rec.Code)
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t, false)

	if rec := f.serve(httptest.NewRequest(http.MethodGet, "/me", nil)); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}

	admin := testutil.AdminUser()
	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/me", admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	testutil.DecodeEnvelope(t, rec, &got)
	if got.ID != admin.ID || got.Email != admin.Email {
		t.Errorf("me = %+v", got)
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t, false)
	user := testutil.AdminUser()
	user.ID = f.admin.ID.Hex()

	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodPost, "/logout", user))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env := testutil.DecodeEnvelope(t, rec, nil); env.Message != "Signed out" {
		t.Errorf("message = %q", env.Message)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	events, _ := f.audit.Query(ctx, audit.QueryFilter{EventType: audit.EventLogout})
	if len(events) != 1 || events[0].ActorID == nil || *events[0].ActorID != f.admin.ID {
		t.Errorf("logout events = %+v", events)
	}

	if rec := f.serve(httptest.NewRequest(http.MethodPost, "/logout", nil)); rec.Code != http.StatusOK {
		t.Errorf("anonymous logout status = %d, want 200", rec.Code)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contacts := contactstore.New(f.db)
	for _, name := range []string{"Ann", "Ben"} {
		if _, err := contacts.Create(ctx, contactstore.CreateInput{
			Name: name, Email: strings.ToLower(name) + "@x.test", ProjectType: "reels", Budget: "50-200", Message: "Please cut my reels.",
		}); err != nil {
			t.Fatalf("create contact: %v", err)
		}
	}
	hidden := false
	portfolio := mediastore.New(f.db, models.MediaPortfolio)
	if _, err := portfolio.Create(ctx, mediastore.CreateInput{Title: "A", Category: "Reels", VideoURL: "https://youtu.be/a"}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := portfolio.Create(ctx, mediastore.CreateInput{Title: "B", Category: "Reels", VideoURL: "https://youtu.be/b", Published: &hidden}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	f.login(t, adminEmail, "wrong-password-x")

	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/stats", testutil.AdminUser()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. Body: %s", rec.Code, rec.Body.String())
	}
	var got statsVM
	testutil.DecodeEnvelope(t, rec, &got)
	if got.ContactsTotal != 2 || got.Contacts[models.ContactStatusNew] != 2 {
		t.Errorf("contacts = %v total %d", got.Contacts, got.ContactsTotal)
	}
	if got.Portfolio.Total != 2 || got.Portfolio.Published != 1 {
		t.Errorf("portfolio = %+v", got.Portfolio)
	}
	if got.Videos.Total != 0 {
		t.Errorf("videos = %+v", got.Videos)
	}
	if got.FailedLogins24h != 1 {
		t.Errorf("failed logins = %d, want 1", got.FailedLogins24h)
	}

	if rec := f.serve(httptest.NewRequest(http.MethodGet, "/stats", nil)); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}
}

func TestAudit(t *testing.T) {
	f := newFixture(t, false)
	f.login(t, adminEmail, "wrong-password-x")
	f.login(t, adminEmail, adminPassword)

	admin := testutil.AdminUser()
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCount  int
	}{
		{"all", "/audit", http.StatusOK, 2},
		{"auth category", "/audit?category=auth", http.StatusOK, 2},
		{"content category", "/audit?category=content", http.StatusOK, 0},
		{"limit", "/audit?limit=1", http.StatusOK, 1},
		{"bad limit", "/audit?limit=-3", http.StatusBadRequest, 0},
		{"bad actor", "/audit?actor=xyz", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, tt.target, admin))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var events []audit.Event
			env := testutil.DecodeEnvelope(t, rec, &events)
			if env.Count == nil || *env.Count != tt.wantCount {
				t.Errorf("count = %v, want %d", env.Count, tt.wantCount)
			}
		})
	}
}
