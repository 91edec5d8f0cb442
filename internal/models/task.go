package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

const (
	AssignmentInProgress = "in-progress"
	AssignmentSubmitted  = "submitted"
	AssignmentRevisions  = "revisions-requested"
	AssignmentCompleted  = "completed"
)

type Task struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description" gorm:"type:text"`
	Budget       int       `json:"budget"`
	PostedByID   uuid.UUID `json:"postedById" gorm:"not null;index"`
	Status       string    `json:"status" gorm:"default:'open';check:status IN ('open','in-progress','completed')"`
	MaxAssignees int       `json:"maxAssignees" gorm:"default:1"`
	CreatedAt    time.Time `json:"createdAt"`

	PostedBy    User         `json:"postedBy" gorm:"foreignKey:PostedByID"`
	Assignments []Assignment `json:"assignments" gorm:"foreignKey:TaskID"`
}

// Assignment links an accepted student to a task and tracks the work
// through submission and review.
type Assignment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TaskID    uuid.UUID `json:"taskId" gorm:"not null;index"`
	StudentID uuid.UUID `json:"studentId" gorm:"not null;index"`
	Status    string    `json:"status" gorm:"default:'in-progress'"`

	SubmissionContent     string     `json:"submissionContent" gorm:"type:text"`
	SubmissionAttachments []string   `json:"submissionAttachments" gorm:"serializer:json"`
	SubmittedAt           *time.Time `json:"submittedAt"`
	Feedback              string     `json:"feedback" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`

	Student User `json:"student" gorm:"foreignKey:StudentID"`
}
