package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AssessmentResult is one completed assessment. Rows are never updated.
type AssessmentResult struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	ProfileName         string                      `gorm:"size:255" json:"profile_name"`
	ProfileTitle        string                      `gorm:"size:255" json:"profile_title"`
	ProfileOrganization *string                     `gorm:"size:255" json:"profile_organization"`
	ProfileExperience   string                      `gorm:"size:100" json:"profile_experience"`
	Certifications      datatypes.JSONSlice[string] `json:"certifications"`

	Goal          string `gorm:"size:50;index" json:"goal"`
	Timeline      string `gorm:"size:50" json:"timeline"`
	LearningStyle string `gorm:"size:50" json:"learning_style"`

	ScoreBasics        int `gorm:"not null;default:0" json:"score_basics"`
	ScoreAgile         int `gorm:"not null;default:0" json:"score_agile"`
	ScoreProduct       int `gorm:"not null;default:0" json:"score_product"`
	ScoreInitiation    int `gorm:"not null;default:0" json:"score_initiation"`
	ScoreScope         int `gorm:"not null;default:0" json:"score_scope"`
	ScoreTime          int `gorm:"not null;default:0" json:"score_time"`
	ScoreCost          int `gorm:"not null;default:0" json:"score_cost"`
	ScoreQuality       int `gorm:"not null;default:0" json:"score_quality"`
	ScoreResources     int `gorm:"not null;default:0" json:"score_resources"`
	ScoreCommunication int `gorm:"not null;default:0" json:"score_communication"`
	ScoreRisk          int `gorm:"not null;default:0" json:"score_risk"`
	ScoreProcurement   int `gorm:"not null;default:0" json:"score_procurement"`
	ScoreSoftSkills    int `gorm:"column:score_softskills;not null;default:0" json:"score_softskills"`

	OverallScore  int       `gorm:"not null" json:"overall_score"`
	GapCount      int       `gorm:"not null" json:"gap_count"`
	StrengthCount int       `gorm:"not null" json:"strength_count"`
	PDFDownloaded bool      `gorm:"column:pdf_downloaded;not null;default:false" json:"pdf_downloaded"`
	CompletedAt   time.Time `gorm:"autoCreateTime;index" json:"completed_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
