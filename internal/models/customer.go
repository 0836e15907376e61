package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Customer struct {
	ID            int             `json:"id"`
	SchemeID      *int            `json:"scheme_id"`
	CustomerCode  string          `json:"customer_code"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	StartDate     string          `json:"start_date"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateCustomerRequest represents the request body for creating a customer.
// CustomerCode is optional; one is generated when it is empty.
type CreateCustomerRequest struct {
	SchemeID      *int            `json:"scheme_id"`
	CustomerCode  string          `json:"customer_code"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	StartDate     string          `json:"start_date"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
}

// CodeValidation is the answer to "may this code be used for a new customer".
type CodeValidation struct {
	Exists bool `json:"exists"`
	Valid  bool `json:"valid"`
}
