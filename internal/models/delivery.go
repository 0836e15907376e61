package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Delivery struct {
	ID           int             `json:"id"`
	WinnerID     int             `json:"winner_id"`
	BillNumber   string          `json:"bill_number"`
	Amount       decimal.Decimal `json:"amount"`
	DeliveryDate time.Time       `json:"delivery_date"`
	Notes        string          `json:"notes,omitempty"`
}

type CreateDeliveryRequest struct {
	WinnerID   int             `json:"winner_id"`
	BillNumber string          `json:"bill_number"`
	Amount     decimal.Decimal `json:"amount"`
	Notes      string          `json:"notes"`
}
