package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Sylgau-exe/gapanalysis/internal/dto"
	"github.com/Sylgau-exe/gapanalysis/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	statsWindow      = 7 * 24 * time.Hour
	statsRecentLimit = 20
)

type StatsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db, now: time.Now}
}

// Stats builds the admin dashboard. Queries run one after another on the
// same handle.
func (s *StatsService) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	db := s.db.WithContext(ctx)
	since := s.now().UTC().Add(-statsWindow)

	resp := &dto.AdminStatsResponse{
		GoalDistribution:  []dto.GoalCount{},
		PartnerBreakdown:  []dto.PartnerCount{},
		RecentAssessments: []dto.RecentAssessment{},
		RecentUsers:       []dto.RecentUser{},
	}

	counts := []struct {
		model any
		where string
		dst   *int64
	}{
		{&models.User{}, "", &resp.Overview.TotalUsers},
		{&models.AssessmentResult{}, "", &resp.Overview.TotalAssessments},
		{&models.PartnerLead{}, "", &resp.Overview.TotalLeads},
		{&models.User{}, "created_at >= ?", &resp.Last7Days.NewUsers},
		{&models.AssessmentResult{}, "completed_at >= ?", &resp.Last7Days.Assessments},
		{&models.PartnerLead{}, "clicked_at >= ?", &resp.Last7Days.Leads},
	}
	for _, q := range counts {
		tx := db.Model(q.model)
		if q.where != "" {
			tx = tx.Where(q.where, since)
		}
		if err := tx.Count(q.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	var avg struct {
		Score float64
		Gaps  float64
	}
	err := db.Model(&models.AssessmentResult{}).
		Select("COALESCE(AVG(overall_score), 0) AS score, COALESCE(AVG(gap_count), 0) AS gaps").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average scores: %w", err)
	}
	resp.Overview.AvgOverallScore = round1(avg.Score)
	resp.Overview.AvgGapCount = round1(avg.Gaps)

	err = db.Model(&models.AssessmentResult{}).
		Select("goal, COUNT(*) AS count").
		Where("goal <> ''").
		Group("goal").
		Order("count DESC, goal").
		Scan(&resp.GoalDistribution).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group goals: %w", err)
	}

	err = db.Model(&models.PartnerLead{}).
		Select("partner_code, COUNT(*) AS clicks, COUNT(DISTINCT user_id) AS unique_users").
		Group("partner_code").
		Order("clicks DESC, partner_code").
		Scan(&resp.PartnerBreakdown).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group partners: %w", err)
	}

	var recent []struct {
		ID           uuid.UUID
		Email        string
		Name         string
		Goal         string
		OverallScore int
		GapCount     int
		CompletedAt  time.Time
	}
	err = db.Table("assessment_results AS a").
		Select("a.id, u.email, u.name, a.goal, a.overall_score, a.gap_count, a.completed_at").
		Joins("JOIN users AS u ON u.id = a.user_id").
		Order("a.completed_at DESC").
		Limit(statsRecentLimit).
		Scan(&recent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent assessments: %w", err)
	}
	for _, r := range recent {
		resp.RecentAssessments = append(resp.RecentAssessments, dto.RecentAssessment(r))
	}

	var users []models.User
	err = db.Order("created_at DESC").Limit(statsRecentLimit).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent users: %w", err)
	}
	for _, u := range users {
		resp.RecentUsers = append(resp.RecentUsers, dto.RecentUser{
			ID:           u.ID,
			Email:        u.Email,
			Name:         u.Name,
			Organization: u.Organization,
			JobTitle:     u.JobTitle,
			CreatedAt:    u.CreatedAt,
		})
	}

	return resp, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
