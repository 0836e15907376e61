package services

import (
	"context"
	"strings"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/events"
	"nxq-backend/internal/models"
	"nxq-backend/internal/repositories"
	"nxq-backend/internal/timeutil"
)

type PaymentService struct {
	Repo      *repositories.PaymentRepository
	Customers *repositories.CustomerRepository
	Events    events.Publisher
}

func NewPaymentService(repo *repositories.PaymentRepository, customers *repositories.CustomerRepository, pub events.Publisher) *PaymentService {
	return &PaymentService{Repo: repo, Customers: customers, Events: pub}
}

// CreatePayment records a monthly instalment. The scheme defaults to the
// customer's own scheme when the request leaves it out.
func (s *PaymentService) CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error) {
	if req.CustomerID <= 0 {
		return nil, apperr.Validation("customer_id", "is required")
	}
	if err := money("amount", req.Amount); err != nil {
		return nil, err
	}
	paymentDate, err := validDate("payment_date", req.PaymentDate)
	if err != nil {
		return nil, err
	}
	month, err := validMonth("month_year", req.MonthYear)
	if err != nil {
		return nil, err
	}
	method, err := required("payment_method", req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	customer, err := s.Customers.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	schemeID := schemeRef(req.SchemeID)
	if schemeID == nil {
		schemeID = customer.SchemeID
	}
	if schemeID == nil {
		return nil, apperr.Validation("scheme_id", "is required for customers without a scheme")
	}

	payment := &models.Payment{
		CustomerID:    req.CustomerID,
		SchemeID:      schemeID,
		Amount:        req.Amount,
		PaymentDate:   paymentDate.Format(timeutil.DateLayout),
		MonthYear:     month,
		PaymentMethod: method,
		TransactionID: strings.TrimSpace(req.TransactionID),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := s.Repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.Events.Publish(events.Event{Type: events.PaymentAdded, SchemeID: payment.SchemeID, EntityID: payment.ID})
	return payment, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, schemeID *int) ([]*models.Payment, error) {
	return s.Repo.List(ctx, schemeRef(schemeID))
}

// ListByDate returns the day's transactions, optionally for one scheme.
func (s *PaymentService) ListByDate(ctx context.Context, date string, schemeID *int) ([]*models.Payment, error) {
	day, err := validDate("date", date)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByDate(ctx, day.Format(timeutil.DateLayout), schemeRef(schemeID))
}

func (s *PaymentService) ListByDateRange(ctx context.Context, start, end string) ([]*models.Payment, error) {
	from, to, err := dateRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByDateRange(ctx, from, to)
}

func dateRange(start, end string) (string, string, error) {
	from, err := validDate("start", start)
	if err != nil {
		return "", "", err
	}
	to, err := validDate("end", end)
	if err != nil {
		return "", "", err
	}
	if to.Before(from) {
		return "", "", apperr.Validation("end", "must not be before start")
	}
	return from.Format(timeutil.DateLayout), to.Format(timeutil.DateLayout), nil
}
