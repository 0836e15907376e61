package services

import (
	"context"

	"nxq-backend/internal/models"
	"nxq-backend/internal/repositories"
	"nxq-backend/internal/timeutil"

	"github.com/shopspring/decimal"
)

type StatsService struct {
	Repo *repositories.StatsRepository
	Now  timeutil.Clock
}

func NewStatsService(repo *repositories.StatsRepository) *StatsService {
	return &StatsService{Repo: repo, Now: timeutil.Now}
}

// Dashboard returns this month's collection figures for a scheme. Scheme 0
// means none is selected and yields zeros.
func (s *StatsService) Dashboard(ctx context.Context, schemeID int) (*models.DashboardStats, error) {
	month := timeutil.MonthYear(s.Now())
	if schemeID == 0 {
		return &models.DashboardStats{MonthYear: month, TotalOutstanding: decimal.Zero}, nil
	}
	return s.Repo.Dashboard(ctx, schemeID, month)
}
