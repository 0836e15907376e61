package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/models"

	"github.com/shopspring/decimal"
)

type SchemeRepository struct {
	DB *sql.DB
}

func NewSchemeRepository(db *sql.DB) *SchemeRepository {
	return &SchemeRepository{DB: db}
}

const schemeColumns = `id, name, prefix, COALESCE(date(start_date), start_date), duration, amounts, created_at, updated_at`

func scanScheme(row interface{ Scan(...any) error }) (*models.Scheme, error) {
	var (
		s       models.Scheme
		amounts string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Prefix, &s.StartDate, &s.Duration, &amounts,
		ts(&s.CreatedAt), ts(&s.UpdatedAt)); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(amounts), &s.Amounts); err != nil {
		return nil, fmt.Errorf("failed to decode amounts of scheme %d: %w", s.ID, err)
	}
	return &s, nil
}

func encodeAmounts(amounts []decimal.Decimal) (string, error) {
	if amounts == nil {
		amounts = []decimal.Decimal{}
	}
	b, err := json.Marshal(amounts)
	return string(b), err
}

func (r *SchemeRepository) Create(ctx context.Context, s *models.Scheme) error {
	amounts, err := encodeAmounts(s.Amounts)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO schemes (name, prefix, start_date, duration, amounts) VALUES (?, ?, ?, ?, ?)`,
		s.Name, s.Prefix, s.StartDate, s.Duration, amounts)
	if err != nil {
		return constraintErr(err, "prefix", s.Prefix)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.Get(ctx, int(id))
	if err != nil {
		return err
	}
	*s = *created
	return nil
}

func (r *SchemeRepository) Get(ctx context.Context, id int) (*models.Scheme, error) {
	s, err := scanScheme(r.DB.QueryRowContext(ctx, `SELECT `+schemeColumns+` FROM schemes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Scheme", id)
	}
	return s, err
}

func (r *SchemeRepository) List(ctx context.Context) ([]*models.Scheme, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+schemeColumns+` FROM schemes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schemes := []*models.Scheme{}
	for rows.Next() {
		s, err := scanScheme(rows)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, s)
	}
	return schemes, rows.Err()
}

func (r *SchemeRepository) Update(ctx context.Context, s *models.Scheme) error {
	amounts, err := encodeAmounts(s.Amounts)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE schemes SET name = ?, prefix = ?, start_date = ?, duration = ?, amounts = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.Name, s.Prefix, s.StartDate, s.Duration, amounts, s.ID)
	if err != nil {
		return constraintErr(err, "prefix", s.Prefix)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Scheme", s.ID)
	}
	updated, err := r.Get(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *updated
	return nil
}

// Delete removes a scheme and everything hanging off it in one transaction:
// deliveries of its winners, payments, winners, customers, then the scheme.
func (r *SchemeRepository) Delete(ctx context.Context, id int) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM schemes WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Scheme", id)
		}
		if err != nil {
			return err
		}

		steps := []struct {
			what  string
			query string
		}{
			{"deliveries", `DELETE FROM deliveries WHERE winner_id IN (
				SELECT id FROM winners WHERE scheme_id = ?1
				   OR customer_id IN (SELECT id FROM customers WHERE scheme_id = ?1))`},
			{"payments", `DELETE FROM payments WHERE scheme_id = ?1
				OR customer_id IN (SELECT id FROM customers WHERE scheme_id = ?1)`},
			{"winners", `DELETE FROM winners WHERE scheme_id = ?1
				OR customer_id IN (SELECT id FROM customers WHERE scheme_id = ?1)`},
			{"customers", `DELETE FROM customers WHERE scheme_id = ?1`},
			{"scheme", `DELETE FROM schemes WHERE id = ?1`},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
				return fmt.Errorf("failed to delete %s of scheme %d: %w", step.what, id, err)
			}
		}
		return nil
	})
}

// Months returns the scheme's start date and duration.
func (r *SchemeRepository) Months(ctx context.Context, id int) (string, int, error) {
	var (
		start    string
		duration int
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(date(start_date), start_date), duration FROM schemes WHERE id = ?`, id).Scan(&start, &duration)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, apperr.NotFound("Scheme", id)
	}
	return start, duration, err
}
