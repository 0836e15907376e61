package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/models"
)

type CustomerRepository struct {
	DB    *sql.DB
	Codes *CodeGenerator
}

func NewCustomerRepository(db *sql.DB, codes *CodeGenerator) *CustomerRepository {
	return &CustomerRepository{DB: db, Codes: codes}
}

const customerColumns = `id, scheme_id, COALESCE(customer_code, ''), name, phone, address,
	COALESCE(date(start_date), start_date), monthly_amount, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	var (
		c        models.Customer
		schemeID sql.NullInt64
	)
	err := row.Scan(&c.ID, &schemeID, &c.CustomerCode, &c.Name, &c.Phone, &c.Address,
		&c.StartDate, &c.MonthlyAmount, ts(&c.CreatedAt), ts(&c.UpdatedAt))
	if err != nil {
		return nil, err
	}
	c.SchemeID = intPtr(schemeID)
	return &c, nil
}

// Create inserts a customer, generating a code when none was supplied. Code
// generation, the duplicate check and the insert share one transaction, so
// two concurrent inserts cannot receive the same generated code.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if c.CustomerCode == "" {
			code, err := r.Codes.Next(ctx, tx, c.SchemeID)
			if err != nil {
				return fmt.Errorf("failed to generate customer code: %w", err)
			}
			c.CustomerCode = code
		}

		exists, err := codeExists(ctx, tx, c.CustomerCode)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Constraint("customer_code", c.CustomerCode)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO customers (customer_code, name, phone, address, start_date, monthly_amount, scheme_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.CustomerCode, c.Name, c.Phone, c.Address, c.StartDate, c.MonthlyAmount, nullableInt(c.SchemeID))
		if err != nil {
			return constraintErr(err, "scheme_id", "")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		created, err := scanCustomer(tx.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
		if err != nil {
			return err
		}
		*c = *created
		return nil
	})
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Customer", id)
	}
	return c, err
}

func (r *CustomerRepository) GetByCode(ctx context.Context, code string) (*models.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE customer_code = ?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Customer", code)
	}
	return c, err
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE phone = ? ORDER BY id DESC LIMIT 1`, phone))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Customer", phone)
	}
	return c, err
}

// List returns customers newest first, optionally restricted to one scheme.
func (r *CustomerRepository) List(ctx context.Context, schemeID *int) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	var args []any
	if schemeID != nil {
		query += ` WHERE scheme_id = ?`
		args = append(args, *schemeID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// CodeExists reports whether a code is taken, ignoring whitespace and case,
// so "gd7001" clashes with a backfilled "GD7 001".
func (r *CustomerRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.DB, code)
}

// NextCode previews the next code without reserving it.
func (r *CustomerRepository) NextCode(ctx context.Context, schemeID *int) (string, error) {
	return r.Codes.Next(ctx, r.DB, schemeID)
}

// normalizeCode folds a customer code for comparison.
func normalizeCode(code string) string {
	return strings.ToLower(strings.Join(strings.Fields(code), ""))
}

func codeExists(ctx context.Context, q querier, code string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers
		 WHERE lower(replace(replace(replace(replace(customer_code, ' ', ''), char(9), ''), char(10), ''), char(13), '')) = ?`,
		normalizeCode(code)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check customer code: %w", err)
	}
	return n > 0, nil
}
