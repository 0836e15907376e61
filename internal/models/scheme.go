package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scheme is a savings plan running Duration months from StartDate. Amounts
// holds the per-month instalment, one entry per month.
type Scheme struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Prefix    string            `json:"prefix"`
	StartDate string            `json:"start_date"`
	Duration  int               `json:"duration"`
	Amounts   []decimal.Decimal `json:"amounts"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type SchemeRequest struct {
	Name      string            `json:"name"`
	Prefix    string            `json:"prefix"`
	StartDate string            `json:"start_date"`
	Duration  int               `json:"duration"`
	Amounts   []decimal.Decimal `json:"amounts"`
}
