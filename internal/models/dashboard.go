package models

import "github.com/shopspring/decimal"

type DashboardStats struct {
	SchemeID         int             `json:"scheme_id"`
	MonthYear        string          `json:"month_year"`
	TotalCustomers   int             `json:"total_customers"`
	UnpaidThisMonth  int             `json:"unpaid_this_month"`
	PaidThisMonth    int             `json:"paid_this_month"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}
