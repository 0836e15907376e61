package repositories

import (
	"context"
	"database/sql"
	"errors"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/models"
)

type WinnerRepository struct {
	DB *sql.DB
}

func NewWinnerRepository(db *sql.DB) *WinnerRepository {
	return &WinnerRepository{DB: db}
}

// winnerSelect carries the delivered total and remaining balance next to
// every winner row.
const winnerSelect = `SELECT w.id, w.customer_id, w.scheme_id, w.month_year, w.gold_rate, w.winning_amount,
	w.position, COALESCE(w.is_delivered, 0), w.created_at,
	COALESCE(c.name, ''), COALESCE(c.customer_code, ''),
	ROUND(COALESCE(SUM(d.amount), 0), 2),
	ROUND(w.winning_amount - COALESCE(SUM(d.amount), 0), 2)
	FROM winners w
	LEFT JOIN customers c ON w.customer_id = c.id
	LEFT JOIN deliveries d ON w.id = d.winner_id`

func scanWinner(row interface{ Scan(...any) error }) (*models.Winner, error) {
	var (
		w        models.Winner
		schemeID sql.NullInt64
	)
	err := row.Scan(&w.ID, &w.CustomerID, &schemeID, &w.MonthYear, &w.GoldRate, &w.WinningAmount,
		&w.Position, &w.IsDelivered, ts(&w.CreatedAt), &w.CustomerName, &w.CustomerCode,
		&w.DeliveredAmount, &w.RemainingBalance)
	if err != nil {
		return nil, err
	}
	w.SchemeID = intPtr(schemeID)
	return &w, nil
}

func (r *WinnerRepository) Create(ctx context.Context, w *models.Winner) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO winners (customer_id, scheme_id, month_year, gold_rate, winning_amount, position)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		w.CustomerID, nullableInt(w.SchemeID), w.MonthYear, w.GoldRate, w.WinningAmount, w.Position)
	if err != nil {
		return constraintErr(err, "month_year", w.MonthYear)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.Get(ctx, int(id))
	if err != nil {
		return err
	}
	*w = *created
	return nil
}

func (r *WinnerRepository) Get(ctx context.Context, id int) (*models.Winner, error) {
	w, err := scanWinner(r.DB.QueryRowContext(ctx, winnerSelect+` WHERE w.id = ? GROUP BY w.id`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Winner", id)
	}
	return w, err
}

// List returns winners newest first, optionally for one scheme.
func (r *WinnerRepository) List(ctx context.Context, schemeID *int) ([]*models.Winner, error) {
	query := winnerSelect
	var args []any
	if schemeID != nil {
		query += ` WHERE w.scheme_id = ?`
		args = append(args, *schemeID)
	}
	query += ` GROUP BY w.id ORDER BY w.created_at DESC, w.id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	winners := []*models.Winner{}
	for rows.Next() {
		w, err := scanWinner(rows)
		if err != nil {
			return nil, err
		}
		winners = append(winners, w)
	}
	return winners, rows.Err()
}

// WonMonths returns the distinct months that already have a winner in the scheme.
func (r *WinnerRepository) WonMonths(ctx context.Context, schemeID int) (map[string]bool, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT month_year FROM winners WHERE scheme_id = ?`, schemeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	months := make(map[string]bool)
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		months[m] = true
	}
	return months, rows.Err()
}
