package dto

import (
	"time"

	"github.com/Sylgau-exe/gapanalysis/internal/scoring"
	"github.com/google/uuid"
)

type Profile struct {
	Name           string   `json:"name"`
	Title          string   `json:"title"`
	Organization   string   `json:"organization"`
	Experience     string   `json:"experience"`
	Certifications []string `json:"certifications"`
}

type Objectives struct {
	Goal          string `json:"goal"`
	Timeline      string `json:"timeline"`
	LearningStyle string `json:"learningStyle"`
}

// SaveAssessmentRequest requires all three sections; missing sub-scores
// count as zero.
type SaveAssessmentRequest struct {
	Profile    *Profile        `json:"profile"`
	Objectives *Objectives     `json:"objectives"`
	Scores     *scoring.Scores `json:"scores"`
}

type SaveAssessmentResponse struct {
	Success       bool      `json:"success"`
	AssessmentID  uuid.UUID `json:"assessmentId"`
	OverallScore  int       `json:"overallScore"`
	Target        int       `json:"target"`
	GapCount      int       `json:"gapCount"`
	StrengthCount int       `json:"strengthCount"`
	CompletedAt   time.Time `json:"completedAt"`
}

type HistoryProfile struct {
	Name           string   `json:"name"`
	Title          string   `json:"title"`
	Organization   *string  `json:"organization"`
	Experience     string   `json:"experience"`
	Certifications []string `json:"certifications"`
}

type AssessmentSummary struct {
	ID            uuid.UUID      `json:"id"`
	Profile       HistoryProfile `json:"profile"`
	Objectives    Objectives     `json:"objectives"`
	Scores        scoring.Scores `json:"scores"`
	OverallScore  int            `json:"overallScore"`
	GapCount      int            `json:"gapCount"`
	StrengthCount int            `json:"strengthCount"`
	PDFDownloaded bool           `json:"pdfDownloaded"`
	CompletedAt   time.Time      `json:"completedAt"`
}

type HistoryResponse struct {
	Assessments []AssessmentSummary `json:"assessments"`
}

type TrackLeadRequest struct {
	AssessmentID    string `json:"assessmentId"`
	PartnerCode     string `json:"partnerCode"`
	ResourceClicked string `json:"resourceClicked"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
