package handlers

import (
	"context"
	"net/http"

	"nxq-backend/internal/models"
	"nxq-backend/internal/services"
	"nxq-backend/pkg/utils"
)

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(s *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: s}
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	customer, err := h.Service.CreateCustomer(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	customer, err := h.Service.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, customer)
}

// ListCustomers also serves ?code= and ?phone= lookups.
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("code") != "":
		h.lookup(w, r, h.Service.GetByCode, q.Get("code"))
		return
	case q.Get("phone") != "":
		h.lookup(w, r, h.Service.SearchByPhone, q.Get("phone"))
		return
	}

	schemeID, err := querySchemeID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	customers, err := h.Service.ListCustomers(r.Context(), schemeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, customers)
}

func (h *CustomerHandler) lookup(w http.ResponseWriter, r *http.Request,
	find func(ctx context.Context, key string) (*models.Customer, error), key string) {
	customer, err := find(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, customer)
}

func (h *CustomerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	payments, err := h.Service.ListPayments(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, payments)
}

func (h *CustomerHandler) NextCode(w http.ResponseWriter, r *http.Request) {
	schemeID, err := querySchemeID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	code, err := h.Service.NextCode(r.Context(), schemeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, map[string]string{"customer_code": code})
}

func (h *CustomerHandler) CheckCode(w http.ResponseWriter, r *http.Request) {
	exists, err := h.Service.CodeExists(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *CustomerHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.ValidateCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, result)
}
