package services

import (
	"context"
	"errors"
	"fmt"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/events"
	"nxq-backend/internal/models"
	"nxq-backend/internal/repositories"
	"nxq-backend/internal/timeutil"
)

type SchemeService struct {
	Repo    *repositories.SchemeRepository
	Winners *repositories.WinnerRepository
	Events  events.Publisher
}

func NewSchemeService(repo *repositories.SchemeRepository, winners *repositories.WinnerRepository, pub events.Publisher) *SchemeService {
	return &SchemeService{Repo: repo, Winners: winners, Events: pub}
}

func validateScheme(req *models.SchemeRequest) (*models.Scheme, error) {
	name, err := required("name", req.Name)
	if err != nil {
		return nil, err
	}
	prefix, err := required("prefix", req.Prefix)
	if err != nil {
		return nil, err
	}
	start, err := validDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	if req.Duration <= 0 {
		return nil, apperr.Validation("duration", "must be greater than zero")
	}
	if len(req.Amounts) != req.Duration {
		return nil, apperr.Validation("amounts", fmt.Sprintf("must have one entry per month (%d)", req.Duration))
	}
	for i, a := range req.Amounts {
		if err := money(fmt.Sprintf("amounts[%d]", i), a); err != nil {
			return nil, err
		}
	}

	return &models.Scheme{
		Name:      name,
		Prefix:    prefix,
		StartDate: start.Format(timeutil.DateLayout),
		Duration:  req.Duration,
		Amounts:   req.Amounts,
	}, nil
}

func (s *SchemeService) CreateScheme(ctx context.Context, req *models.SchemeRequest) (*models.Scheme, error) {
	scheme, err := validateScheme(req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, scheme); err != nil {
		return nil, err
	}
	s.Events.Publish(events.Event{Type: events.SchemeChanged, SchemeID: &scheme.ID, EntityID: scheme.ID})
	return scheme, nil
}

func (s *SchemeService) UpdateScheme(ctx context.Context, id int, req *models.SchemeRequest) (*models.Scheme, error) {
	scheme, err := validateScheme(req)
	if err != nil {
		return nil, err
	}
	scheme.ID = id
	if err := s.Repo.Update(ctx, scheme); err != nil {
		return nil, err
	}
	s.Events.Publish(events.Event{Type: events.SchemeChanged, SchemeID: &scheme.ID, EntityID: scheme.ID})
	return scheme, nil
}

func (s *SchemeService) GetScheme(ctx context.Context, id int) (*models.Scheme, error) {
	return s.Repo.Get(ctx, id)
}

func (s *SchemeService) ListSchemes(ctx context.Context) ([]*models.Scheme, error) {
	return s.Repo.List(ctx)
}

// DeleteScheme removes the scheme with its customers, payments, winners and
// deliveries.
func (s *SchemeService) DeleteScheme(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Events.Publish(events.Event{Type: events.SchemeDeleted, SchemeID: &id, EntityID: id})
	return nil
}

// AvailableMonths lists the scheme's months that have no winner yet. An
// unknown scheme yields an empty list.
func (s *SchemeService) AvailableMonths(ctx context.Context, schemeID int) ([]string, error) {
	months := []string{}
	if schemeID == 0 {
		return months, nil
	}

	startDate, duration, err := s.Repo.Months(ctx, schemeID)
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return months, nil
	}
	if err != nil {
		return nil, err
	}

	start, err := timeutil.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("scheme %d has a malformed start date %q: %w", schemeID, startDate, err)
	}

	won, err := s.Winners.WonMonths(ctx, schemeID)
	if err != nil {
		return nil, err
	}
	for _, m := range timeutil.MonthsFrom(start, duration) {
		if !won[m] {
			months = append(months, m)
		}
	}
	return months, nil
}
