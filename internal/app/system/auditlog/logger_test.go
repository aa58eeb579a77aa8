package auditlog

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/reelsite/internal/app/store/audit"
	"github.com/dalemusser/reelsite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilIsNoop(t *testing.T) {
	var l *Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	l.LoginFailed(ctx, httptest.NewRequest("POST", "/", nil), "a@b.co", "wrong_password")
}

func TestLogger_Destinations(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantZap  int
		wantDB   int64
		category string
	}{
		{"auth all", Config{Auth: DestAll}, 1, 1, audit.CategoryAuth},
		{"auth log only", Config{Auth: DestLog}, 1, 0, audit.CategoryAuth},
		{"auth db only", Config{Auth: DestDB}, 0, 1, audit.CategoryAuth},
		{"auth off", Config{Auth: DestOff}, 0, 0, audit.CategoryAuth},
		{"empty defaults to all", Config{}, 1, 1, audit.CategoryAuth},
		{"admin off covers inbox", Config{Admin: DestOff}, 0, 0, audit.CategoryInbox},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			core, logs := observer.New(zap.InfoLevel)
			l := New(store, zap.New(core), tt.config)

			ctx, cancel := testutil.TestContext()
			defer cancel()

			r := httptest.NewRequest("POST", "/api/admin/login", nil)
			r.Header.Set("X-Forwarded-For", "203.0.113.9")
			if tt.category == audit.CategoryInbox {
				l.ContactDeleted(ctx, r, primitive.NewObjectID(), primitive.NewObjectID())
			} else {
				l.LoginFailed(ctx, r, "admin@example.com", "wrong_password")
			}

			if got := logs.Len(); got != tt.wantZap {
				t.Errorf("zap entries = %d, want %d", got, tt.wantZap)
			}
			n, err := store.Count(ctx, audit.QueryFilter{})
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if n != tt.wantDB {
				t.Errorf("stored events = %d, want %d", n, tt.wantDB)
			}
		})
	}
}

func TestLogger_LoginFailedFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	l := New(store, zap.NewNop(), Config{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := httptest.NewRequest("POST", "/api/admin/login", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	r.Header.Set("User-Agent", "test-agent")
	l.LoginFailed(ctx, r, "admin@example.com", "unknown_email")

	events, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventLoginFailed})
	if err != nil || len(events) != 1 {
		t.Fatalf("Query() = %v, %v", events, err)
	}
	e := events[0]
	if e.IP != "203.0.113.9" || e.UserAgent != "test-agent" {
		t.Errorf("request context = %q %q", e.IP, e.UserAgent)
	}
	if e.Success || e.FailureReason != "unknown_email" || e.Details["email"] != "admin@example.com" {
		t.Errorf("event = %+v", e)
	}
}

func TestLogger_MediaEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	l := New(store, zap.NewNop(), Config{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor, item := primitive.NewObjectID(), primitive.NewObjectID()
	r := httptest.NewRequest("POST", "/api/portfolio", nil)
	l.MediaCreated(ctx, r, actor, item, "portfolio", "Wedding Reel")
	l.MediaDeleted(ctx, r, actor, item, "portfolio", "Wedding Reel")
	l.MediaRenormalized(ctx, "videos", 3)

	n, _ := store.Count(ctx, audit.QueryFilter{TargetID: &item})
	if n != 2 {
		t.Errorf("events for item = %d, want 2", n)
	}
	events, _ := store.Query(ctx, audit.QueryFilter{EventType: audit.EventMediaRenormalized})
	if len(events) != 1 || events[0].Details["changed"] != "3" {
		t.Errorf("renormalize event = %+v", events)
	}
}
