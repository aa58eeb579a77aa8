// internal/app/store/media/mediastore.go
package mediastore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/reelsite/internal/app/system/mediaurl"
	"github.com/dalemusser/reelsite/internal/app/system/normalize"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultListLimit caps list results when the caller does not set a limit.
const DefaultListLimit = 200

// ErrNotFound is returned when a media item does not exist.
var ErrNotFound = errors.New("media item not found")

// Store persists media items for one section (portfolio or videos).
// Every write path stores VideoURL in normalized form.
type Store struct {
	c    *mongo.Collection
	kind models.MediaKind
}

func New(db *mongo.Database, kind models.MediaKind) *Store {
	return &Store{c: db.Collection(kind.Collection()), kind: kind}
}

// Kind returns the section this store serves.
func (s *Store) Kind() models.MediaKind {
	return s.kind
}

// CreateInput holds the fields for a new media item.
// Published defaults to true when nil.
type CreateInput struct {
	Title       string
	Category    string
	Image       string
	Description string
	VideoURL    string
	Published   *bool
}

// Create inserts a new media item.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.MediaItem, error) {
	now := time.Now().UTC()
	published := true
	if in.Published != nil {
		published = *in.Published
	}
	item := models.MediaItem{
		ID:          primitive.NewObjectID(),
		Title:       normalize.Name(in.Title),
		Category:    normalize.Category(in.Category),
		Image:       normalize.QueryParam(in.Image),
		Description: normalize.Name(in.Description),
		VideoURL:    mediaurl.Normalize(in.VideoURL),
		Published:   published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, item); err != nil {
		return models.MediaItem{}, err
	}
	return item, nil
}

// GetByID loads a media item. Returns ErrNotFound if missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MediaItem, error) {
	var item models.MediaItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListPublished returns published items, newest first.
func (s *Store) ListPublished(ctx context.Context, limit int64) ([]models.MediaItem, error) {
	return s.find(ctx, bson.M{"published": true}, limit)
}

// ListAll returns every item regardless of the published flag, newest first.
func (s *Store) ListAll(ctx context.Context, limit int64) ([]models.MediaItem, error) {
	return s.find(ctx, bson.M{}, limit)
}

// Search returns items whose title or description match q (Mongo text
// search), newest first. An empty q behaves like ListAll.
func (s *Store) Search(ctx context.Context, q string, limit int64) ([]models.MediaItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.ListAll(ctx, limit)
	}
	return s.find(ctx, bson.M{"$text": bson.M{"$search": q}}, limit)
}

// Counts returns the total and published item counts.
func (s *Store) Counts(ctx context.Context) (total, published int64, err error) {
	if total, err = s.c.CountDocuments(ctx, bson.M{}); err != nil {
		return 0, 0, err
	}
	if published, err = s.c.CountDocuments(ctx, bson.M{"published": true}); err != nil {
		return 0, 0, err
	}
	return total, published, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, limit int64) ([]models.MediaItem, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.MediaItem{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateInput holds the optional fields for updating a media item.
// All fields are pointers - nil means "don't update this field".
type UpdateInput struct {
	Title       *string
	Category    *string
	Image       *string
	Description *string
	VideoURL    *string
	Published   *bool
}

// Update applies the non-nil fields of in and returns the updated item.
// VideoURL is re-normalized when present; Published keeps its stored value
// when omitted.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.MediaItem, error) {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if in.Title != nil {
		set["title"] = normalize.Name(*in.Title)
	}
	if in.Category != nil {
		set["category"] = normalize.Category(*in.Category)
	}
	if in.Image != nil {
		set["image"] = normalize.QueryParam(*in.Image)
	}
	if in.Description != nil {
		set["description"] = normalize.Name(*in.Description)
	}
	if in.VideoURL != nil {
		set["video_url"] = mediaurl.Normalize(*in.VideoURL)
	}
	if in.Published != nil {
		set["published"] = *in.Published
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.MediaItem
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Delete removes a media item. Returns ErrNotFound if nothing was deleted.
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

// Renormalize rewrites stored video URLs that are not in normalized form,
// for records written before normalization existed. It returns the number
// of documents changed.
func (s *Store) Renormalize(ctx context.Context) (int, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"video_url": 1}))
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	changed := 0
	for cur.Next(ctx) {
		var row struct {
			ID       primitive.ObjectID `bson:"_id"`
			VideoURL string             `bson:"video_url"`
		}
		if err := cur.Decode(&row); err != nil {
			return changed, err
		}
		norm := mediaurl.Normalize(row.VideoURL)
		if norm == row.VideoURL {
			continue
		}
		if _, err := s.c.UpdateOne(ctx,
			bson.M{"_id": row.ID},
			bson.M{"$set": bson.M{"video_url": norm, "updated_at": time.Now().UTC()}},
		); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, cur.Err()
}
