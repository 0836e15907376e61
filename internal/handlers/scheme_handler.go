package handlers

import (
	"net/http"

	"nxq-backend/internal/models"
	"nxq-backend/internal/services"
	"nxq-backend/pkg/utils"
)

type SchemeHandler struct {
	Service *services.SchemeService
}

func NewSchemeHandler(s *services.SchemeService) *SchemeHandler {
	return &SchemeHandler{Service: s}
}

func (h *SchemeHandler) CreateScheme(w http.ResponseWriter, r *http.Request) {
	var req models.SchemeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	scheme, err := h.Service.CreateScheme(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, scheme)
}

func (h *SchemeHandler) ListSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.Service.ListSchemes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, schemes)
}

func (h *SchemeHandler) GetScheme(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	scheme, err := h.Service.GetScheme(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, scheme)
}

func (h *SchemeHandler) UpdateScheme(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.SchemeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	scheme, err := h.Service.UpdateScheme(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, scheme)
}

func (h *SchemeHandler) DeleteScheme(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Service.DeleteScheme(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, map[string]int{"deleted": id})
}

func (h *SchemeHandler) AvailableMonths(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	months, err := h.Service.AvailableMonths(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, months)
}
