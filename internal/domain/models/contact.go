// internal/domain/models/contact.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is a lead captured by the public contact form.
//
// Status transitions are unconstrained: any status may follow any other.
type Contact struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"` // lowercase
	ProjectType string             `bson:"project_type" json:"projectType"`
	Budget      string             `bson:"budget" json:"budget"`
	Message     string             `bson:"message" json:"message"`
	Status      string             `bson:"status" json:"status"`
	IPAddress   string             `bson:"ip_address,omitempty" json:"ipAddress,omitempty"`
	UserAgent   string             `bson:"user_agent,omitempty" json:"userAgent,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Project types offered on the contact form.
const (
	ProjectTypeReels      = "reels"
	ProjectTypeYouTube    = "youtube"
	ProjectTypeWedding    = "wedding"
	ProjectTypeCommercial = "commercial"
	ProjectTypeOther      = "other"
)

// AllProjectTypes returns all valid project types.
func AllProjectTypes() []string {
	return []string{
		ProjectTypeReels,
		ProjectTypeYouTube,
		ProjectTypeWedding,
		ProjectTypeCommercial,
		ProjectTypeOther,
	}
}

// IsValidProjectType checks if a project type is valid.
func IsValidProjectType(t string) bool {
	return contains(AllProjectTypes(), t)
}

// AllBudgets returns the fixed budget bands, cheapest first.
func AllBudgets() []string {
	return []string{"50-200", "200-500", "500-1000", "1000+"}
}

// IsValidBudget checks if a budget band is valid.
func IsValidBudget(b string) bool {
	return contains(AllBudgets(), b)
}

// Contact statuses.
const (
	ContactStatusNew        = "new"
	ContactStatusContacted  = "contacted"
	ContactStatusInProgress = "in-progress"
	ContactStatusCompleted  = "completed"
	ContactStatusRejected   = "rejected"
)

// AllContactStatuses returns all valid contact statuses.
func AllContactStatuses() []string {
	return []string{
		ContactStatusNew,
		ContactStatusContacted,
		ContactStatusInProgress,
		ContactStatusCompleted,
		ContactStatusRejected,
	}
}

// IsValidContactStatus checks if a contact status is valid.
func IsValidContactStatus(s string) bool {
	return contains(AllContactStatuses(), s)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
