package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"nxq-backend/internal/models"
)

type StatsRepository struct {
	DB *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// A customer owes this month when the scheme has no payment from them for
// the month and they have never won in the scheme. Winners are exempt.
const (
	paidThisMonth = `EXISTS (
		SELECT 1 FROM payments p
		WHERE p.customer_id = c.id AND p.month_year = ?2 AND p.scheme_id = ?1)`
	unpaidThisMonth = `NOT EXISTS (
		SELECT 1 FROM payments p
		WHERE p.customer_id = c.id AND p.month_year = ?2 AND p.scheme_id = ?1)`
	notAWinner = `NOT EXISTS (
		SELECT 1 FROM winners w
		WHERE w.customer_id = c.id AND w.scheme_id = ?1)`
)

// Dashboard aggregates one scheme for monthYear (YYYY-MM).
func (r *StatsRepository) Dashboard(ctx context.Context, schemeID int, monthYear string) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{SchemeID: schemeID, MonthYear: monthYear}

	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM customers c WHERE c.scheme_id = ?1),
			(SELECT COUNT(*) FROM customers c WHERE c.scheme_id = ?1 AND `+unpaidThisMonth+` AND `+notAWinner+`),
			(SELECT COUNT(*) FROM customers c WHERE c.scheme_id = ?1 AND `+paidThisMonth+` AND `+notAWinner+`),
			(SELECT ROUND(COALESCE(SUM(c.monthly_amount), 0), 2) FROM customers c
				WHERE c.scheme_id = ?1 AND `+unpaidThisMonth+` AND `+notAWinner+`)`,
		schemeID, monthYear,
	).Scan(&stats.TotalCustomers, &stats.UnpaidThisMonth, &stats.PaidThisMonth, &stats.TotalOutstanding)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return stats, nil
}
