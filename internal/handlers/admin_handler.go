package handlers

import (
	"errors"
	"net/http"

	"nxq-backend/internal/middleware"
	"nxq-backend/internal/services"
	"nxq-backend/pkg/utils"
)

// AdminHandler serves the dashboard, settings and maintenance endpoints.
type AdminHandler struct {
	Stats       *services.StatsService
	Settings    *services.SettingsService
	Maintenance *services.MaintenanceService
	Backups     *services.BackupService
}

func NewAdminHandler(stats *services.StatsService, settings *services.SettingsService,
	maintenance *services.MaintenanceService, backups *services.BackupService) *AdminHandler {
	return &AdminHandler{Stats: stats, Settings: settings, Maintenance: maintenance, Backups: backups}
}

func (h *AdminHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	schemeID, err := querySchemeID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := 0
	if schemeID != nil {
		id = *schemeID
	}
	stats, err := h.Stats.Dashboard(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, stats)
}

func (h *AdminHandler) DefaultStartDate(w http.ResponseWriter, r *http.Request) {
	utils.Success(w, http.StatusOK, map[string]string{"default_start_date": h.Settings.DefaultStartDate()})
}

func (h *AdminHandler) ClearData(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.Maintenance.ClearAllData(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, map[string]string{"message": "All data cleared"})
}

func (h *AdminHandler) Backup(w http.ResponseWriter, r *http.Request) {
	result, err := h.Backups.Run(r.Context())
	if errors.Is(err, services.ErrBackupDisabled) {
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, result)
}

func (h *AdminHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	keys, err := h.Backups.List(r.Context())
	if errors.Is(err, services.ErrBackupDisabled) {
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, keys)
}
