package handlers

import (
	"net/http"

	"nxq-backend/internal/models"
	"nxq-backend/internal/services"
	"nxq-backend/pkg/utils"
)

type WinnerHandler struct {
	Service    *services.WinnerService
	Deliveries *services.DeliveryService
}

func NewWinnerHandler(s *services.WinnerService, deliveries *services.DeliveryService) *WinnerHandler {
	return &WinnerHandler{Service: s, Deliveries: deliveries}
}

func (h *WinnerHandler) CreateWinner(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWinnerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	winner, err := h.Service.CreateWinner(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, winner)
}

func (h *WinnerHandler) ListWinners(w http.ResponseWriter, r *http.Request) {
	schemeID, err := querySchemeID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	winners, err := h.Service.ListWinners(r.Context(), schemeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, winners)
}

func (h *WinnerHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	winner, err := h.Service.GetWinner(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, winner)
}

func (h *WinnerHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	deliveries, err := h.Deliveries.ListByWinner(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, deliveries)
}

func (h *WinnerHandler) AddDelivery(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDeliveryRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.Deliveries.AddDelivery(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, result)
}
