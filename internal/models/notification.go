package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories. Closed set, enforced at the dispatcher.
const (
	CategoryAssignment  = "assignment"
	CategorySubmission  = "submission"
	CategoryFeedback    = "feedback"
	CategoryCompletion  = "completion"
	CategoryApplication = "application"
	CategoryGeneric     = "generic"
)

// Entity kinds a notification may point at.
const (
	RelatedTask        = "Task"
	RelatedApplication = "Application"
	RelatedUser        = "User"
)

type Notification struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientID uuid.UUID  `json:"recipientId" gorm:"not null;index"`
	ActorID     *uuid.UUID `json:"actorId"`
	Category    string     `json:"category" gorm:"not null;default:'generic'"`
	Message     string     `json:"message" gorm:"not null"`
	Read        bool       `json:"read" gorm:"not null;default:false"`

	// Optional reference to the entity that triggered the notification,
	// with a discriminator naming which table it points into.
	RelatedID   *uuid.UUID `json:"relatedId"`
	RelatedType string     `json:"relatedType"`

	CreatedAt time.Time `json:"createdAt"`
}
