package dto

import (
	"time"

	"github.com/google/uuid"
)

type StatsOverview struct {
	TotalUsers       int64   `json:"totalUsers"`
	TotalAssessments int64   `json:"totalAssessments"`
	TotalLeads       int64   `json:"totalLeads"`
	AvgOverallScore  float64 `json:"avgOverallScore"`
	AvgGapCount      float64 `json:"avgGapCount"`
}

type StatsWindow struct {
	NewUsers    int64 `json:"newUsers"`
	Assessments int64 `json:"assessments"`
	Leads       int64 `json:"leads"`
}

type GoalCount struct {
	Goal  string `json:"goal"`
	Count int64  `json:"count"`
}

type PartnerCount struct {
	PartnerCode string `json:"partnerCode"`
	Clicks      int64  `json:"clicks"`
	UniqueUsers int64  `json:"uniqueUsers"`
}

type RecentAssessment struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Goal         string    `json:"goal"`
	OverallScore int       `json:"overallScore"`
	GapCount     int       `json:"gapCount"`
	CompletedAt  time.Time `json:"completedAt"`
}

type RecentUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Organization *string   `json:"organization"`
	JobTitle     *string   `json:"jobTitle"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AdminStatsResponse struct {
	Overview          StatsOverview      `json:"overview"`
	Last7Days         StatsWindow        `json:"last7Days"`
	GoalDistribution  []GoalCount        `json:"goalDistribution"`
	PartnerBreakdown  []PartnerCount     `json:"partnerBreakdown"`
	RecentAssessments []RecentAssessment `json:"recentAssessments"`
	RecentUsers       []RecentUser       `json:"recentUsers"`
}
