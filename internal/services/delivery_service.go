package services

import (
	"context"
	"errors"
	"strings"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/events"
	"nxq-backend/internal/logger"
	"nxq-backend/internal/metrics"
	"nxq-backend/internal/models"
	"nxq-backend/internal/repositories"

	"github.com/rs/zerolog"
)

// DeliveryResult is a recorded delivery together with the winner's balance
// after it.
type DeliveryResult struct {
	Delivery *models.Delivery      `json:"delivery"`
	Balance  *models.WinnerBalance `json:"balance"`
}

type DeliveryService struct {
	Repo    *repositories.DeliveryRepository
	Winners *repositories.WinnerRepository
	Events  events.Publisher
	log     zerolog.Logger
}

func NewDeliveryService(repo *repositories.DeliveryRepository, winners *repositories.WinnerRepository, pub events.Publisher) *DeliveryService {
	return &DeliveryService{Repo: repo, Winners: winners, Events: pub, log: logger.For("DeliveryService")}
}

// AddDelivery hands over part of a winner's prize. It fails with a
// BalanceExceededError when the running total would pass the winning amount.
func (s *DeliveryService) AddDelivery(ctx context.Context, req *models.CreateDeliveryRequest) (*DeliveryResult, error) {
	if req.WinnerID <= 0 {
		return nil, apperr.Validation("winner_id", "is required")
	}
	bill, err := required("bill_number", req.BillNumber)
	if err != nil {
		return nil, err
	}
	if err := money("amount", req.Amount); err != nil {
		return nil, err
	}

	d := &models.Delivery{
		WinnerID:   req.WinnerID,
		BillNumber: bill,
		Amount:     req.Amount,
		Notes:      strings.TrimSpace(req.Notes),
	}
	bal, err := s.Repo.Add(ctx, d)
	if err != nil {
		var exceeded *apperr.BalanceExceededError
		if errors.As(err, &exceeded) {
			metrics.DeliveriesRejected.Inc()
			s.log.Warn().Int("winner_id", req.WinnerID).
				Str("amount", req.Amount.String()).
				Str("remaining", exceeded.Remaining.String()).
				Msg("delivery rejected")
		}
		return nil, err
	}
	metrics.DeliveriesRecorded.Inc()

	var schemeID *int
	if w, err := s.Winners.Get(ctx, req.WinnerID); err == nil {
		schemeID = w.SchemeID
	}
	s.Events.Publish(events.Event{Type: events.DeliveryAdded, SchemeID: schemeID, EntityID: d.ID})

	return &DeliveryResult{Delivery: d, Balance: bal}, nil
}

func (s *DeliveryService) Balance(ctx context.Context, winnerID int) (*models.WinnerBalance, error) {
	return s.Repo.Balance(ctx, winnerID)
}

func (s *DeliveryService) ListByWinner(ctx context.Context, winnerID int) ([]*models.Delivery, error) {
	if _, err := s.Repo.Balance(ctx, winnerID); err != nil {
		return nil, err
	}
	return s.Repo.ListByWinner(ctx, winnerID)
}
