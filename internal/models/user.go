package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleMSME    = "msme"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;check:role IN ('student','msme')"`

	// Display fields attached to outgoing chat messages.
	AvatarURL    string `json:"avatarUrl"`
	BusinessLogo string `json:"businessLogo"`

	University string `json:"university"`
	Company    string `json:"company"`

	LastSeenAt time.Time `json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
}
