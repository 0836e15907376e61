package handlers

import (
	"fmt"
	"net/http"

	"nxq-backend/internal/models"
	"nxq-backend/internal/services"
	"nxq-backend/pkg/utils"
)

type PaymentHandler struct {
	Service *services.PaymentService
	Reports *services.ReportService
}

func NewPaymentHandler(s *services.PaymentService, reports *services.ReportService) *PaymentHandler {
	return &PaymentHandler{Service: s, Reports: reports}
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	payment, err := h.Service.CreatePayment(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	schemeID, err := querySchemeID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	payments, err := h.Service.ListPayments(r.Context(), schemeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, payments)
}

// TransactionsByDate serves ?date=YYYY-MM-DD with an optional scheme filter.
func (h *PaymentHandler) TransactionsByDate(w http.ResponseWriter, r *http.Request) {
	schemeID, err := querySchemeID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	payments, err := h.Service.ListByDate(r.Context(), r.URL.Query().Get("date"), schemeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, payments)
}

func (h *PaymentHandler) TransactionsByRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payments, err := h.Service.ListByDateRange(r.Context(), q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, payments)
}

func (h *PaymentHandler) TransactionsReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pdf, err := h.Reports.TransactionsPDF(r.Context(), q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="transactions_%s_%s.pdf"`, q.Get("start"), q.Get("end")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
