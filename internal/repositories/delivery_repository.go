package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/models"

	"github.com/shopspring/decimal"
)

type DeliveryRepository struct {
	DB *sql.DB
}

func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{DB: db}
}

const deliveryColumns = `id, winner_id, bill_number, amount, delivery_date, COALESCE(notes, '')`

func scanDelivery(row interface{ Scan(...any) error }) (*models.Delivery, error) {
	var d models.Delivery
	if err := row.Scan(&d.ID, &d.WinnerID, &d.BillNumber, &d.Amount, ts(&d.DeliveryDate), &d.Notes); err != nil {
		return nil, err
	}
	return &d, nil
}

// balance sums the winner's deliveries in decimal rather than in SQL, where
// the REAL column would accumulate float error.
func balance(ctx context.Context, q querier, winnerID int) (*models.WinnerBalance, error) {
	b := models.WinnerBalance{WinnerID: winnerID}
	err := q.QueryRowContext(ctx,
		`SELECT winning_amount, COALESCE(is_delivered, 0) FROM winners WHERE id = ?`,
		winnerID).Scan(&b.WinningAmount, &b.IsDelivered)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Winner", winnerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read winner balance: %w", err)
	}

	rows, err := q.QueryContext(ctx, `SELECT amount FROM deliveries WHERE winner_id = ?`, winnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read deliveries: %w", err)
	}
	defer rows.Close()

	b.Delivered = decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return nil, err
		}
		b.Delivered = b.Delivered.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	b.Remaining = b.WinningAmount.Sub(b.Delivered)
	return &b, nil
}

// Balance returns the delivered-versus-owed position of a winner.
func (r *DeliveryRepository) Balance(ctx context.Context, winnerID int) (*models.WinnerBalance, error) {
	return balance(ctx, r.DB, winnerID)
}

// Add records a partial delivery against a winner. The balance read, the
// overdraw check, the insert and the delivered flag update run in one
// immediate transaction, so the delivered total never exceeds the winning
// amount even with concurrent callers.
func (r *DeliveryRepository) Add(ctx context.Context, d *models.Delivery) (*models.WinnerBalance, error) {
	var after *models.WinnerBalance
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		before, err := balance(ctx, tx, d.WinnerID)
		if err != nil {
			return err
		}

		newTotal := before.Delivered.Add(d.Amount)
		if newTotal.GreaterThan(before.WinningAmount) {
			return &apperr.BalanceExceededError{Amount: d.Amount, Remaining: before.Remaining}
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO deliveries (winner_id, bill_number, amount, notes) VALUES (?, ?, ?, ?)`,
			d.WinnerID, d.BillNumber, d.Amount, nullableString(d.Notes))
		if err != nil {
			return fmt.Errorf("failed to insert delivery: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		if newTotal.GreaterThanOrEqual(before.WinningAmount) {
			if _, err := tx.ExecContext(ctx, `UPDATE winners SET is_delivered = 1 WHERE id = ?`, d.WinnerID); err != nil {
				return fmt.Errorf("failed to mark winner delivered: %w", err)
			}
		}

		created, err := scanDelivery(tx.QueryRowContext(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = ?`, id))
		if err != nil {
			return err
		}
		*d = *created

		after, err = balance(ctx, tx, d.WinnerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return after, nil
}

// ListByWinner returns a winner's deliveries, newest first.
func (r *DeliveryRepository) ListByWinner(ctx context.Context, winnerID int) ([]*models.Delivery, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE winner_id = ? ORDER BY delivery_date DESC, id DESC`, winnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := []*models.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}
