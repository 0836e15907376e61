package services

import (
	"context"
	"fmt"
	"slices"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/events"
	"nxq-backend/internal/models"
	"nxq-backend/internal/repositories"
	"nxq-backend/internal/timeutil"
)

type WinnerService struct {
	Repo      *repositories.WinnerRepository
	Schemes   *repositories.SchemeRepository
	Customers *repositories.CustomerRepository
	Events    events.Publisher
}

func NewWinnerService(repo *repositories.WinnerRepository, schemes *repositories.SchemeRepository,
	customers *repositories.CustomerRepository, pub events.Publisher) *WinnerService {
	return &WinnerService{Repo: repo, Schemes: schemes, Customers: customers, Events: pub}
}

// CreateWinner records the draw result for one scheme month. The customer
// must belong to the scheme and the month must fall inside its run.
func (s *WinnerService) CreateWinner(ctx context.Context, req *models.CreateWinnerRequest) (*models.Winner, error) {
	if req.CustomerID <= 0 {
		return nil, apperr.Validation("customer_id", "is required")
	}
	if req.SchemeID <= 0 {
		return nil, apperr.Validation("scheme_id", "is required")
	}
	month, err := validMonth("month_year", req.MonthYear)
	if err != nil {
		return nil, err
	}
	if err := money("gold_rate", req.GoldRate); err != nil {
		return nil, err
	}
	if err := money("winning_amount", req.WinningAmount); err != nil {
		return nil, err
	}
	if req.Position <= 0 {
		return nil, apperr.Validation("position", "must be greater than zero")
	}

	startDate, duration, err := s.Schemes.Months(ctx, req.SchemeID)
	if err != nil {
		return nil, err
	}
	start, err := timeutil.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("scheme %d has a malformed start date %q: %w", req.SchemeID, startDate, err)
	}
	if !slices.Contains(timeutil.MonthsFrom(start, duration), month) {
		return nil, apperr.Validation("month_year", "is outside the scheme's months")
	}

	customer, err := s.Customers.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.SchemeID == nil || *customer.SchemeID != req.SchemeID {
		return nil, apperr.Validation("customer_id", "does not belong to this scheme")
	}

	schemeID := req.SchemeID
	winner := &models.Winner{
		CustomerID:    req.CustomerID,
		SchemeID:      &schemeID,
		MonthYear:     month,
		GoldRate:      req.GoldRate,
		WinningAmount: req.WinningAmount,
		Position:      req.Position,
	}
	if err := s.Repo.Create(ctx, winner); err != nil {
		return nil, err
	}

	s.Events.Publish(events.Event{Type: events.WinnerAdded, SchemeID: winner.SchemeID, EntityID: winner.ID})
	return winner, nil
}

// GetWinner returns the winner with its delivered and remaining amounts.
func (s *WinnerService) GetWinner(ctx context.Context, id int) (*models.Winner, error) {
	return s.Repo.Get(ctx, id)
}

func (s *WinnerService) ListWinners(ctx context.Context, schemeID *int) ([]*models.Winner, error) {
	return s.Repo.List(ctx, schemeRef(schemeID))
}
