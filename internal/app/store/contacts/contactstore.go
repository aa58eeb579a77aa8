// internal/app/store/contacts/contactstore.go
package contactstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/reelsite/internal/app/system/normalize"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultListLimit is the maximum number of contacts List returns when the
// caller does not set a limit.
const DefaultListLimit = 100

var (
	// ErrNotFound is returned when a contact does not exist.
	ErrNotFound = errors.New("contact not found")
	// ErrBadStatus is returned when a status is not one of the known values.
	ErrBadStatus = errors.New("invalid contact status")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contacts")}
}

// CreateInput holds the fields for a new contact submission.
// Fields are expected to be validated by the caller.
type CreateInput struct {
	Name        string
	Email       string
	ProjectType string
	Budget      string
	Message     string
	IPAddress   string
	UserAgent   string
}

// Create inserts a new contact with status "new".
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Contact, error) {
	now := time.Now().UTC()
	c := models.Contact{
		ID:          primitive.NewObjectID(),
		Name:        normalize.Name(in.Name),
		Email:       normalize.Email(in.Email),
		ProjectType: normalize.ProjectType(in.ProjectType),
		Budget:      in.Budget,
		Message:     in.Message,
		Status:      models.ContactStatusNew,
		IPAddress:   in.IPAddress,
		UserAgent:   in.UserAgent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Contact{}, err
	}
	return c, nil
}

// GetByID loads a contact by ObjectID. Returns ErrNotFound if missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	var c models.Contact
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListFilter narrows List results. Empty fields are ignored.
type ListFilter struct {
	Status      string
	ProjectType string
	Ascending   bool  // oldest first; newest first otherwise
	Limit       int64 // 0 means DefaultListLimit
}

// List returns contacts matching f ordered by creation time.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Contact, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.ProjectType != "" {
		filter["project_type"] = f.ProjectType
	}

	dir := -1
	if f.Ascending {
		dir = 1
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Contact{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets a contact's status and returns the updated document.
// Any status may follow any other.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Contact, error) {
	status = normalize.Status(status)
	if !models.IsValidContactStatus(status) {
		return nil, ErrBadStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Contact
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		opts,
	).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes a contact. Returns ErrNotFound if nothing was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of contacts in each status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		N      int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(models.AllContactStatuses()))
	for _, st := range models.AllContactStatuses() {
		out[st] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}
