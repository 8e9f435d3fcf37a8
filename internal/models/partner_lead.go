package models

import (
	"time"

	"github.com/google/uuid"
)

// PartnerLead records one click on a partner resource. Append-only; repeated
// clicks are separate rows.
type PartnerLead struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	AssessmentID    *uuid.UUID `gorm:"type:uuid;index" json:"assessment_id"`
	PartnerCode     string     `gorm:"not null;size:100;index" json:"partner_code"`
	ResourceClicked string     `gorm:"not null;size:500" json:"resource_clicked"`
	ClickedAt       time.Time  `gorm:"autoCreateTime;index" json:"clicked_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
