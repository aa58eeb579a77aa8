package contactsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/reelsite/internal/app/features/errors"
	"github.com/dalemusser/reelsite/internal/app/store/audit"
	contactstore "github.com/dalemusser/reelsite/internal/app/store/contacts"
	"github.com/dalemusser/reelsite/internal/app/system/auditlog"
	"github.com/dalemusser/reelsite/internal/app/system/auth"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/dalemusser/reelsite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fixture struct {
	db     *mongo.Database
	router http.Handler
	audit  *audit.Store
	notes  *recordingNotifier
}

type recordingNotifier struct {
	got []models.Contact
}

func (n *recordingNotifier) NotifyInquiry(c models.Contact) {
	n.got = append(n.got, c)
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sm, err := auth.NewSessionManager(strings.Repeat("k", 32), "", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	auditStore := audit.New(db)
	h := NewHandler(db, auditlog.New(auditStore, logger, auditlog.Config{}), errorsfeature.NewErrorLogger(logger), 0, logger)
	notes := &recordingNotifier{}
	h.SetNotifier(notes)
	return fixture{db: db, router: Routes(h, sm), audit: auditStore, notes: notes}
}

func (f fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f fixture) seed(t *testing.T, name string) models.Contact {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	c, err := contactstore.New(f.db).Create(ctx, contactstore.CreateInput{
		Name:        name,
		Email:       strings.ToLower(name) + "@example.com",
		ProjectType: models.ProjectTypeReels,
		Budget:      "50-200",
		Message:     "Short reels for a launch campaign.",
	})
	if err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	return c
}

func validBody() map[string]string {
	return map[string]string{
		"name":        "Jamie Cole",
		"email":       "Jamie@Example.com",
		"projectType": "wedding",
		"budget":      "500-1000",
		"message":     "We need a highlight film for our June wedding.",
	}
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)

	t.Run("valid submission", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/", validBody())
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		req.Header.Set("User-Agent", "reel-test/1.0")
		rec := f.serve(req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201. Body: %s", rec.Code, rec.Body.String())
		}
		var data struct {
			ID          string    `json:"id"`
			Email       string    `json:"email"`
			SubmittedAt time.Time `json:"submittedAt"`
		}
		env := testutil.DecodeEnvelope(t, rec, &data)
		if !env.Success || env.Message != "Contact form submitted successfully" {
			t.Errorf("envelope = %+v", env)
		}
		if data.Email != "jamie@example.com" {
			t.Errorf("email = %q, want lowercased", data.Email)
		}
		if data.SubmittedAt.IsZero() {
			t.Error("submittedAt should be set")
		}

		oid, err := primitive.ObjectIDFromHex(data.ID)
		if err != nil {
			t.Fatalf("bad id %q: %v", data.ID, err)
		}
		ctx, cancel := testutil.TestContext()
		defer cancel()
		stored, err := contactstore.New(f.db).GetByID(ctx, oid)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if stored.Status != models.ContactStatusNew {
			t.Errorf("status = %q, want new", stored.Status)
		}
		if stored.IPAddress != "203.0.113.7" {
			t.Errorf("ip = %q, want 203.0.113.7", stored.IPAddress)
		}
		if stored.UserAgent != "reel-test/1.0" {
			t.Errorf("user agent = %q", stored.UserAgent)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		body := validBody()
		delete(body, "budget")
		rec := f.serve(testutil.NewJSONRequest(t, http.MethodPost, "/", body))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		env := testutil.DecodeEnvelope(t, rec, nil)
		if env.Success || env.Message != "Please provide all required fields" {
			t.Errorf("envelope = %+v", env)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		rec := f.serve(testutil.NewJSONRequest(t, http.MethodPost, "/", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := f.serve(testutil.NewJSONRequest(t, http.MethodPost, "/", "{oops"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		body := validBody()
		body["email"] = "jamie at example"
		rec := f.serve(testutil.NewJSONRequest(t, http.MethodPost, "/", body))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if env := testutil.DecodeEnvelope(t, rec, nil); env.Message != "Please provide a valid email." {
			t.Errorf("message = %q", env.Message)
		}
	})

	t.Run("unknown budget", func(t *testing.T) {
		body := validBody()
		body["budget"] = "lots"
		rec := f.serve(testutil.NewJSONRequest(t, http.MethodPost, "/", body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestSubmit_NotifiesOnlyStoredContacts(t *testing.T) {
	f := newFixture(t)

	body := validBody()
	delete(body, "message")
	f.serve(testutil.NewJSONRequest(t, http.MethodPost, "/", body))
	if len(f.notes.got) != 0 {
		t.Fatalf("rejected submission notified %d times", len(f.notes.got))
	}

	rec := f.serve(testutil.NewJSONRequest(t, http.MethodPost, "/", validBody()))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if len(f.notes.got) != 1 {
		t.Fatalf("notified %d times, want 1", len(f.notes.got))
	}
	if got := f.notes.got[0]; got.Email != "jamie@example.com" || got.ID.IsZero() {
		t.Errorf("notified contact = %+v", got)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t, "Casey")

	paths := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/" + c.ID.Hex()},
		{http.MethodPatch, "/" + c.ID.Hex()},
		{http.MethodDelete, "/" + c.ID.Hex()},
	}
	for _, p := range paths {
		rec := f.serve(httptest.NewRequest(p.method, p.target, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s anonymous: status = %d, want 401", p.method, p.target, rec.Code)
		}

		visitor := testutil.AdminUser()
		visitor.Role = "visitor"
		rec = f.serve(testutil.NewAuthenticatedRequest(p.method, p.target, visitor))
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s wrong role: status = %d, want 403", p.method, p.target, rec.Code)
		}
	}
}

func TestList(t *testing.T) {
	f := newFixture(t)
	first := f.seed(t, "Avery")
	time.Sleep(5 * time.Millisecond)
	second := f.seed(t, "Blake")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := contactstore.New(f.db).UpdateStatus(ctx, second.ID, models.ContactStatusContacted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	tests := []struct {
		name    string
		target  string
		wantIDs []primitive.ObjectID
	}{
		{"newest first by default", "/", []primitive.ObjectID{second.ID, first.ID}},
		{"oldest first", "/?sort=asc", []primitive.ObjectID{first.ID, second.ID}},
		{"status filter", "/?status=contacted", []primitive.ObjectID{second.ID}},
		{"project type filter", "/?projectType=reels", []primitive.ObjectID{second.ID, first.ID}},
		{"no matches", "/?projectType=wedding", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, tt.target, testutil.AdminUser()))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var got []models.Contact
			env := testutil.DecodeEnvelope(t, rec, &got)
			if env.Count == nil || *env.Count != len(tt.wantIDs) {
				t.Fatalf("count = %v, want %d", env.Count, len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("item %d = %s, want %s", i, got[i].ID.Hex(), id.Hex())
				}
			}
		})
	}
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t, "Devon")
	admin := testutil.AdminUser()

	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/"+c.ID.Hex(), admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.Contact
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Name != "Devon" {
		t.Errorf("name = %q, want Devon", got.Name)
	}

	for _, target := range []string{"/" + primitive.NewObjectID().Hex(), "/not-an-id"} {
		rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodGet, target, admin))
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: status = %d, want 404", target, rec.Code)
		}
		if env := testutil.DecodeEnvelope(t, rec, nil); env.Message != "Contact not found" {
			t.Errorf("GET %s: message = %q", target, env.Message)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t, "Emery")
	admin := testutil.AdminUser()

	patch := func(target string, body any) *httptest.ResponseRecorder {
		return f.serve(testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPatch, target, body), admin))
	}

	t.Run("valid status", func(t *testing.T) {
		rec := patch("/"+c.ID.Hex(), map[string]string{"status": "In-Progress"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200. Body: %s", rec.Code, rec.Body.String())
		}
		var got models.Contact
		env := testutil.DecodeEnvelope(t, rec, &got)
		if env.Message != "Contact status updated" {
			t.Errorf("message = %q", env.Message)
		}
		if got.Status != models.ContactStatusInProgress {
			t.Errorf("status = %q, want in-progress", got.Status)
		}
	})

	t.Run("any transition allowed", func(t *testing.T) {
		for _, st := range []string{"completed", "new", "rejected", "contacted"} {
			if rec := patch("/"+c.ID.Hex(), map[string]string{"status": st}); rec.Code != http.StatusOK {
				t.Errorf("-> %s: status = %d, want 200", st, rec.Code)
			}
		}
	})

	t.Run("missing status", func(t *testing.T) {
		rec := patch("/"+c.ID.Hex(), map[string]string{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if env := testutil.DecodeEnvelope(t, rec, nil); env.Message != "Please provide a status" {
			t.Errorf("message = %q", env.Message)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		rec := patch("/"+c.ID.Hex(), map[string]string{"status": "archived"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing contact", func(t *testing.T) {
		rec := patch("/"+primitive.NewObjectID().Hex(), map[string]string{"status": "new"})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("audited", func(t *testing.T) {
		ctx, cancel := testutil.TestContext()
		defer cancel()
		events, err := f.audit.Query(ctx, audit.QueryFilter{EventType: audit.EventContactStatusChanged})
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if len(events) == 0 {
			t.Fatal("expected status changes in the audit log")
		}
		if events[0].TargetID == nil || *events[0].TargetID != c.ID {
			t.Errorf("target = %v, want %s", events[0].TargetID, c.ID.Hex())
		}
	})
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	c := f.seed(t, "Finley")
	admin := testutil.AdminUser()

	rec := f.serve(testutil.NewAuthenticatedRequest(http.MethodDelete, "/"+c.ID.Hex(), admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env := testutil.DecodeEnvelope(t, rec, nil); env.Message != "Contact deleted successfully" {
		t.Errorf("message = %q", env.Message)
	}

	rec = f.serve(testutil.NewAuthenticatedRequest(http.MethodDelete, "/"+c.ID.Hex(), admin))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}

	n, err := f.audit.Count(context.Background(), audit.QueryFilter{EventType: audit.EventContactDeleted})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("audit deletes = %d, want 1", n)
	}
}
