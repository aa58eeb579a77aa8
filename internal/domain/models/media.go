// internal/domain/models/media.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaItem is a portfolio entry or a showcase video. Both sections share
// the same shape and live in separate collections.
//
// VideoURL is always stored in normalized form (see mediaurl.Normalize).
type MediaItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Category    string             `bson:"category" json:"category"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL    string             `bson:"video_url" json:"videoUrl"`
	Published   bool               `bson:"published" json:"published"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Media collections.
const (
	CollectionPortfolio = "portfolio"
	CollectionVideos    = "videos"
)

// MediaKind identifies which collection a media item belongs to.
type MediaKind string

const (
	MediaPortfolio MediaKind = CollectionPortfolio
	MediaVideos    MediaKind = CollectionVideos
)

// Collection returns the Mongo collection name for the kind.
func (k MediaKind) Collection() string {
	return string(k)
}

// Label returns the singular display label used in API messages.
func (k MediaKind) Label() string {
	if k == MediaVideos {
		return "Video"
	}
	return "Portfolio item"
}

// MediaKinds lists every media collection.
func MediaKinds() []MediaKind {
	return []MediaKind{MediaPortfolio, MediaVideos}
}

// ParseMediaKind maps a URL segment to a MediaKind.
func ParseMediaKind(s string) (MediaKind, bool) {
	switch s {
	case CollectionPortfolio:
		return MediaPortfolio, true
	case CollectionVideos:
		return MediaVideos, true
	}
	return "", false
}
