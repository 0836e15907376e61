package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID            int             `json:"id"`
	CustomerID    int             `json:"customer_id"`
	SchemeID      *int            `json:"scheme_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	MonthYear     string          `json:"month_year"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CustomerName  string          `json:"customer_name,omitempty"` // Joined from customers table
	CustomerCode  string          `json:"customer_code,omitempty"` // Joined from customers table
}

// CreatePaymentRequest represents the request body for recording a payment.
// SchemeID defaults to the customer's scheme when omitted.
type CreatePaymentRequest struct {
	CustomerID    int             `json:"customer_id"`
	SchemeID      *int            `json:"scheme_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	MonthYear     string          `json:"month_year"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id"`
	Notes         string          `json:"notes"`
}
