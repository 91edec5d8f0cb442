package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

type Application struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TaskID      uuid.UUID `json:"taskId" gorm:"not null;index;uniqueIndex:idx_task_applicant"`
	ApplicantID uuid.UUID `json:"applicantId" gorm:"not null;index;uniqueIndex:idx_task_applicant"`
	CoverLetter string    `json:"coverLetter" gorm:"type:text"`
	Status      string    `json:"status" gorm:"default:'pending';check:status IN ('pending','accepted','rejected')"`
	CreatedAt   time.Time `json:"createdAt"`

	Applicant User `json:"applicant" gorm:"foreignKey:ApplicantID"`
}
