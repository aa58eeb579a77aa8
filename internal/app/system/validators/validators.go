// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/reelsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collection pairs a collection name with its validator.
// A nil Schema means the collection is created without one.
type Collection struct {
	Name   string
	Schema bson.M
}

// Collections lists every collection the site owns, in creation order.
func Collections() []Collection {
	return []Collection{
		{"contacts", contactsSchema()},
		{models.CollectionPortfolio, mediaSchema()},
		{models.CollectionVideos, mediaSchema()},
		{"users", usersSchema()},
		{"audit_logs", nil},
		{"rate_limits", nil},
	}
}

// EnsureAll creates collections (if missing) and attaches JSON-Schema
// validators. Servers that reject collMod/validators (some DocumentDB
// versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		// Fall through with an empty set; createCollection handles races.
		existing = nil
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var problems []string
	for _, c := range Collections() {
		if !have[c.Name] {
			if err := createCollection(ctx, db, c.Name); err != nil {
				problems = append(problems, c.Name+": "+err.Error())
				continue
			}
		}
		if c.Schema == nil {
			continue
		}
		if err := setValidator(ctx, db, c.Name, c.Schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.Name))
				continue
			}
			problems = append(problems, c.Name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func createCollection(ctx context.Context, db *mongo.Database, name string) error {
	if err := db.CreateCollection(ctx, name); err != nil {
		if commandErrorIs(err, 48, "already exists", "namespace exists") {
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

// isUnsupported matches "no such command" (59) and "not implemented" (115).
func isUnsupported(err error) bool {
	return commandErrorIs(err, 59, "no such command") ||
		commandErrorIs(err, 115, "not implemented", "not supported")
}

// commandErrorIs reports whether err is a Mongo command error with code, or
// its message contains any of phrases.
func commandErrorIs(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

/* ------------------------- JSON-Schema docs ---------------------- */

func strEnum(values []string) bson.M {
	a := make(bson.A, len(values))
	for i, v := range values {
		a[i] = v
	}
	return bson.M{"enum": a}
}

func contactsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "project_type", "budget", "message", "status", "created_at"},
			"properties": bson.M{
				"name":         bson.M{"bsonType": "string", "minLength": 2, "maxLength": 50},
				"email":        bson.M{"bsonType": "string", "pattern": `^[^\s@]+@[^\s@]+\.[^\s@]+$`},
				"project_type": strEnum(models.AllProjectTypes()),
				"budget":       strEnum(models.AllBudgets()),
				"message":      bson.M{"bsonType": "string", "minLength": 10, "maxLength": 2000},
				"status":       strEnum(models.AllContactStatuses()),
				"created_at":   bson.M{"bsonType": "date"},
			},
		},
	}
}

func mediaSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "category", "video_url", "published"},
			"properties": bson.M{
				"title":     bson.M{"bsonType": "string", "minLength": 1, "pattern": `.*\S.*`},
				"category":  bson.M{"bsonType": "string", "minLength": 1, "pattern": `.*\S.*`},
				"video_url": bson.M{"bsonType": "string", "minLength": 1},
				"published": bson.M{"bsonType": "bool"},
			},
		},
	}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "email_ci", "password_hash", "role", "status"},
			"properties": bson.M{
				"full_name":     bson.M{"bsonType": "string", "minLength": 1, "pattern": `.*\S.*`},
				"email_ci":      bson.M{"bsonType": "string", "minLength": 3},
				"password_hash": bson.M{"bsonType": "string", "minLength": 1},
				"role":          bson.M{"enum": bson.A{models.RoleAdmin}},
				"status":        bson.M{"enum": bson.A{models.StatusActive, models.StatusDisabled}},
			},
		},
	}
}
