package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sylgau-exe/gapanalysis/internal/dto"
	"github.com/Sylgau-exe/gapanalysis/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMissingTrackingData = errors.New("missing required tracking data")
	ErrInvalidAssessmentID = errors.New("invalid assessment id")
)

type LeadService struct {
	db *gorm.DB
}

func NewLeadService(db *gorm.DB) *LeadService {
	return &LeadService{db: db}
}

// Track appends one click record. Repeated clicks are stored as separate
// rows.
func (s *LeadService) Track(ctx context.Context, userID uuid.UUID, req *dto.TrackLeadRequest) (*models.PartnerLead, error) {
	partner := strings.TrimSpace(req.PartnerCode)
	resource := strings.TrimSpace(req.ResourceClicked)
	if partner == "" || resource == "" {
		return nil, ErrMissingTrackingData
	}

	lead := models.PartnerLead{
		ID:              uuid.New(),
		UserID:          userID,
		PartnerCode:     partner,
		ResourceClicked: resource,
	}

	if raw := strings.TrimSpace(req.AssessmentID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrInvalidAssessmentID
		}
		lead.AssessmentID = &id
	}

	if err := s.db.WithContext(ctx).Create(&lead).Error; err != nil {
		return nil, fmt.Errorf("failed to insert lead: %w", err)
	}
	return &lead, nil
}
