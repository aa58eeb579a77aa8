// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/reelsite/internal/app/store/audit"
	"github.com/dalemusser/reelsite/internal/app/system/network"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of audit events.
const (
	DestAll = "all" // MongoDB and zap
	DestDB  = "db"  // MongoDB only
	DestLog = "log" // zap only
	DestOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls sign-in, sign-out and admin provisioning events.
	Auth string
	// Admin controls content and inbox changes made by the admin.
	Admin string
}

// Logger writes audit events to MongoDB and/or zap.
// A nil *Logger is valid and discards everything.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) destination(category string) string {
	var d string
	switch category {
	case audit.CategoryAuth:
		d = l.config.Auth
	case audit.CategoryContent, audit.CategoryInbox:
		d = l.config.Admin
	}
	if d == "" {
		return DestAll
	}
	return d
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the category's destination.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	dest := l.destination(event.Category)
	if dest == DestOff {
		return
	}
	if (dest == DestAll || dest == DestLog) && l.zapLog != nil {
		l.logToZap(event)
	}
	if (dest == DestAll || dest == DestDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil && l.zapLog != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func fromRequest(r *http.Request, category, eventType string, success bool) audit.Event {
	e := audit.Event{Category: category, EventType: eventType, Success: success}
	if r != nil {
		e.IP = network.GetClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// --- Authentication ---

// LoginSuccess logs a successful admin sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.ActorID = &userID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailed logs a rejected sign-in. reason is one of "unknown_email",
// "wrong_password" or "disabled"; it is never shown to the client.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, reason string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginFailed, false)
	e.FailureReason = reason
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginLockedOut logs a sign-in refused because the email is locked.
func (l *Logger) LoginLockedOut(ctx context.Context, r *http.Request, email string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginLockedOut, false)
	e.FailureReason = "locked_out"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// Logout logs an admin sign-out. userID is the session's hex ID.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLogout, true)
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		e.ActorID = &oid
	}
	l.Log(ctx, e)
}

// AdminProvisioned logs an admin account created or reset from config or
// the command line.
func (l *Logger) AdminProvisioned(ctx context.Context, userID primitive.ObjectID, email, source string, created bool) {
	e := fromRequest(nil, audit.CategoryAuth, audit.EventAdminProvisioned, true)
	e.TargetID = &userID
	e.Details = map[string]string{
		"email":   email,
		"source":  source,
		"created": strconv.FormatBool(created),
	}
	l.Log(ctx, e)
}

// --- Content ---

func (l *Logger) media(ctx context.Context, r *http.Request, eventType string, actorID, itemID primitive.ObjectID, collection, title string) {
	e := fromRequest(r, audit.CategoryContent, eventType, true)
	e.ActorID = &actorID
	e.TargetID = &itemID
	e.Details = map[string]string{"collection": collection, "title": title}
	l.Log(ctx, e)
}

// MediaCreated logs a new portfolio item or video.
func (l *Logger) MediaCreated(ctx context.Context, r *http.Request, actorID, itemID primitive.ObjectID, collection, title string) {
	l.media(ctx, r, audit.EventMediaCreated, actorID, itemID, collection, title)
}

// MediaUpdated logs an edit to a portfolio item or video.
func (l *Logger) MediaUpdated(ctx context.Context, r *http.Request, actorID, itemID primitive.ObjectID, collection, title string) {
	l.media(ctx, r, audit.EventMediaUpdated, actorID, itemID, collection, title)
}

// MediaDeleted logs a removed portfolio item or video.
func (l *Logger) MediaDeleted(ctx context.Context, r *http.Request, actorID, itemID primitive.ObjectID, collection, title string) {
	l.media(ctx, r, audit.EventMediaDeleted, actorID, itemID, collection, title)
}

// MediaRenormalized logs a bulk rewrite of stored video links.
func (l *Logger) MediaRenormalized(ctx context.Context, collection string, changed int) {
	e := fromRequest(nil, audit.CategoryContent, audit.EventMediaRenormalized, true)
	e.Details = map[string]string{"collection": collection, "changed": strconv.Itoa(changed)}
	l.Log(ctx, e)
}

// --- Inbox ---

// ContactStatusChanged logs a contact moving between workflow states.
func (l *Logger) ContactStatusChanged(ctx context.Context, r *http.Request, actorID, contactID primitive.ObjectID, from, to string) {
	e := fromRequest(r, audit.CategoryInbox, audit.EventContactStatusChanged, true)
	e.ActorID = &actorID
	e.TargetID = &contactID
	e.Details = map[string]string{"from": from, "to": to}
	l.Log(ctx, e)
}

// ContactDeleted logs a removed contact submission.
func (l *Logger) ContactDeleted(ctx context.Context, r *http.Request, actorID, contactID primitive.ObjectID) {
	e := fromRequest(r, audit.CategoryInbox, audit.EventContactDeleted, true)
	e.ActorID = &actorID
	e.TargetID = &contactID
	l.Log(ctx, e)
}
