package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sylgau-exe/gapanalysis/internal/dto"
	"github.com/Sylgau-exe/gapanalysis/internal/models"
	"github.com/Sylgau-exe/gapanalysis/internal/scoring"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMissingAssessmentData = errors.New("missing required assessment data")
	ErrScoreOutOfRange       = errors.New("scores must be between 0 and 5")
)

const historyLimit = 20

type AssessmentService struct {
	db *gorm.DB
}

func NewAssessmentService(db *gorm.DB) *AssessmentService {
	return &AssessmentService{db: db}
}

// Save scores the submission, stores it and backfills the owner's profile.
// Both writes happen in one transaction.
func (s *AssessmentService) Save(ctx context.Context, userID uuid.UUID, req *dto.SaveAssessmentRequest) (*dto.SaveAssessmentResponse, error) {
	if req.Profile == nil || req.Objectives == nil || req.Scores == nil {
		return nil, ErrMissingAssessmentData
	}
	if !req.Scores.Valid() {
		return nil, ErrScoreOutOfRange
	}

	p, o, sc := req.Profile, req.Objectives, *req.Scores
	result := scoring.Compute(sc, o.Goal)

	certs := p.Certifications
	if certs == nil {
		certs = []string{}
	}

	row := models.AssessmentResult{
		ID:                  uuid.New(),
		UserID:              userID,
		ProfileName:         p.Name,
		ProfileTitle:        p.Title,
		ProfileOrganization: optional(p.Organization),
		ProfileExperience:   p.Experience,
		Certifications:      certs,
		Goal:                o.Goal,
		Timeline:            o.Timeline,
		LearningStyle:       o.LearningStyle,
		ScoreBasics:         sc.Basics,
		ScoreAgile:          sc.Agile,
		ScoreProduct:        sc.Product,
		ScoreInitiation:     sc.Initiation,
		ScoreScope:          sc.Scope,
		ScoreTime:           sc.Time,
		ScoreCost:           sc.Cost,
		ScoreQuality:        sc.Quality,
		ScoreResources:      sc.Resources,
		ScoreCommunication:  sc.Communication,
		ScoreRisk:           sc.Risk,
		ScoreProcurement:    sc.Procurement,
		ScoreSoftSkills:     sc.SoftSkills,
		OverallScore:        result.OverallScore,
		GapCount:            result.GapCount,
		StrengthCount:       result.StrengthCount,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert assessment: %w", err)
		}
		if err := backfillProfile(tx, userID, p); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.SaveAssessmentResponse{
		Success:       true,
		AssessmentID:  row.ID,
		OverallScore:  row.OverallScore,
		Target:        result.Target,
		GapCount:      row.GapCount,
		StrengthCount: row.StrengthCount,
		CompletedAt:   row.CompletedAt,
	}, nil
}

// backfillProfile copies submitted profile fields onto the user. A field left
// empty in the submission keeps the stored value.
func backfillProfile(tx *gorm.DB, userID uuid.UUID, p *dto.Profile) error {
	title, org, exp := optional(p.Title), optional(p.Organization), optional(p.Experience)
	if title == nil && org == nil && exp == nil {
		return nil
	}

	return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"job_title":        gorm.Expr("COALESCE(?, job_title)", nullable(title)),
		"organization":     gorm.Expr("COALESCE(?, organization)", nullable(org)),
		"experience_level": gorm.Expr("COALESCE(?, experience_level)", nullable(exp)),
	}).Error
}

// History returns the caller's most recent assessments, newest first.
func (s *AssessmentService) History(ctx context.Context, userID uuid.UUID) ([]dto.AssessmentSummary, error) {
	var rows []models.AssessmentResult
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(historyLimit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	out := make([]dto.AssessmentSummary, 0, len(rows))
	for i := range rows {
		out = append(out, summarize(&rows[i]))
	}
	return out, nil
}

func summarize(r *models.AssessmentResult) dto.AssessmentSummary {
	certs := []string(r.Certifications)
	if certs == nil {
		certs = []string{}
	}
	return dto.AssessmentSummary{
		ID: r.ID,
		Profile: dto.HistoryProfile{
			Name:           r.ProfileName,
			Title:          r.ProfileTitle,
			Organization:   r.ProfileOrganization,
			Experience:     r.ProfileExperience,
			Certifications: certs,
		},
		Objectives: dto.Objectives{
			Goal:          r.Goal,
			Timeline:      r.Timeline,
			LearningStyle: r.LearningStyle,
		},
		Scores: scoring.Scores{
			Basics:        r.ScoreBasics,
			Agile:         r.ScoreAgile,
			Product:       r.ScoreProduct,
			Initiation:    r.ScoreInitiation,
			Scope:         r.ScoreScope,
			Time:          r.ScoreTime,
			Cost:          r.ScoreCost,
			Quality:       r.ScoreQuality,
			Resources:     r.ScoreResources,
			Communication: r.ScoreCommunication,
			Risk:          r.ScoreRisk,
			Procurement:   r.ScoreProcurement,
			SoftSkills:    r.ScoreSoftSkills,
		},
		OverallScore:  r.OverallScore,
		GapCount:      r.GapCount,
		StrengthCount: r.StrengthCount,
		PDFDownloaded: r.PDFDownloaded,
		CompletedAt:   r.CompletedAt,
	}
}

// nullable turns a nil pointer into an untyped SQL NULL argument.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
