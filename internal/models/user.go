package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an assessment taker. Profile columns are nullable so assessment
// saves can backfill them with COALESCE.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name            string    `gorm:"size:255" json:"name"`
	PasswordHash    string    `gorm:"not null" json:"-"`
	Organization    *string   `gorm:"size:255" json:"organization"`
	JobTitle        *string   `gorm:"size:255" json:"job_title"`
	ExperienceLevel *string   `gorm:"size:100" json:"experience_level"`
	IsAdmin         bool      `gorm:"not null;default:false" json:"is_admin"`
	EmailVerified   bool      `gorm:"not null;default:false" json:"email_verified"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
