package services

import (
	"context"

	"nxq-backend/internal/config"
	"nxq-backend/internal/events"
	"nxq-backend/internal/logger"
	"nxq-backend/internal/repositories"

	"github.com/rs/zerolog"
)

type MaintenanceService struct {
	Repo   *repositories.MaintenanceRepository
	Events events.Publisher
	log    zerolog.Logger
}

func NewMaintenanceService(repo *repositories.MaintenanceRepository, pub events.Publisher) *MaintenanceService {
	return &MaintenanceService{Repo: repo, Events: pub, log: logger.For("MaintenanceService")}
}

// ClearAllData removes every customer, payment, winner and delivery. Users
// and schemes survive.
func (s *MaintenanceService) ClearAllData(ctx context.Context, userID int) error {
	if err := s.Repo.ClearAll(ctx); err != nil {
		return err
	}
	s.log.Warn().Int("user_id", userID).Msg("all customer data cleared")
	s.Events.Publish(events.Event{Type: events.DataCleared})
	return nil
}

// SettingsService exposes the read-only values the front end needs.
type SettingsService struct {
	cfg *config.Config
}

func NewSettingsService(cfg *config.Config) *SettingsService {
	return &SettingsService{cfg: cfg}
}

func (s *SettingsService) DefaultStartDate() string {
	return s.cfg.Scheme.DefaultStartDate
}
