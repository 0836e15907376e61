package repositories

import (
	"context"
	"database/sql"

	"nxq-backend/internal/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentSelect = `SELECT p.id, p.customer_id, p.scheme_id, p.amount,
	COALESCE(date(p.payment_date), p.payment_date), p.month_year, p.payment_method,
	COALESCE(p.transaction_id, ''), COALESCE(p.notes, ''), p.created_at,
	COALESCE(c.name, ''), COALESCE(c.customer_code, '')
	FROM payments p
	LEFT JOIN customers c ON p.customer_id = c.id`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	var (
		p        models.Payment
		schemeID sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.CustomerID, &schemeID, &p.Amount, &p.PaymentDate, &p.MonthYear,
		&p.PaymentMethod, &p.TransactionID, &p.Notes, ts(&p.CreatedAt), &p.CustomerName, &p.CustomerCode)
	if err != nil {
		return nil, err
	}
	p.SchemeID = intPtr(schemeID)
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO payments (customer_id, scheme_id, amount, payment_date, month_year, payment_method, transaction_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CustomerID, nullableInt(p.SchemeID), p.Amount, p.PaymentDate, p.MonthYear, p.PaymentMethod,
		nullableString(p.TransactionID), nullableString(p.Notes))
	if err != nil {
		return constraintErr(err, "payment", "")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	created, err := scanPayment(r.DB.QueryRowContext(ctx, paymentSelect+` WHERE p.id = ?`, id))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (r *PaymentRepository) list(ctx context.Context, where string, args ...any) ([]*models.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, paymentSelect+where+` ORDER BY p.payment_date DESC, p.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// List returns all payments, or those of one scheme.
func (r *PaymentRepository) List(ctx context.Context, schemeID *int) ([]*models.Payment, error) {
	if schemeID != nil {
		return r.list(ctx, ` WHERE p.scheme_id = ?`, *schemeID)
	}
	return r.list(ctx, ``)
}

func (r *PaymentRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Payment, error) {
	return r.list(ctx, ` WHERE p.customer_id = ?`, customerID)
}

// ListByDate returns payments made on one calendar day.
func (r *PaymentRepository) ListByDate(ctx context.Context, date string, schemeID *int) ([]*models.Payment, error) {
	if schemeID != nil {
		return r.list(ctx, ` WHERE date(p.payment_date) = date(?) AND p.scheme_id = ?`, date, *schemeID)
	}
	return r.list(ctx, ` WHERE date(p.payment_date) = date(?)`, date)
}

// ListByDateRange returns payments between start and end, both inclusive.
func (r *PaymentRepository) ListByDateRange(ctx context.Context, start, end string) ([]*models.Payment, error) {
	return r.list(ctx, ` WHERE date(p.payment_date) >= date(?) AND date(p.payment_date) <= date(?)`, start, end)
}
