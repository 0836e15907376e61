package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Winner struct {
	ID               int             `json:"id"`
	CustomerID       int             `json:"customer_id"`
	SchemeID         *int            `json:"scheme_id"`
	MonthYear        string          `json:"month_year"`
	GoldRate         decimal.Decimal `json:"gold_rate"`
	WinningAmount    decimal.Decimal `json:"winning_amount"`
	Position         int             `json:"position"`
	IsDelivered      bool            `json:"is_delivered"`
	CreatedAt        time.Time       `json:"created_at"`
	CustomerName     string          `json:"customer_name,omitempty"`
	CustomerCode     string          `json:"customer_code,omitempty"`
	DeliveredAmount  decimal.Decimal `json:"delivered_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

type CreateWinnerRequest struct {
	CustomerID    int             `json:"customer_id"`
	SchemeID      int             `json:"scheme_id"`
	MonthYear     string          `json:"month_year"`
	GoldRate      decimal.Decimal `json:"gold_rate"`
	WinningAmount decimal.Decimal `json:"winning_amount"`
	Position      int             `json:"position"`
}

// WinnerBalance is the delivered-versus-owed view of one winner.
type WinnerBalance struct {
	WinnerID      int             `json:"winner_id"`
	WinningAmount decimal.Decimal `json:"winning_amount"`
	Delivered     decimal.Decimal `json:"delivered"`
	Remaining     decimal.Decimal `json:"remaining"`
	IsDelivered   bool            `json:"is_delivered"`
}
