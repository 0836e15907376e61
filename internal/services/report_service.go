package services

import (
	"bytes"
	"context"
	"fmt"

	"nxq-backend/internal/models"
	"nxq-backend/internal/repositories"
	"nxq-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"
)

// ReportService renders printable transaction reports.
type ReportService struct {
	Payments *repositories.PaymentRepository
	Now      timeutil.Clock
}

func NewReportService(payments *repositories.PaymentRepository) *ReportService {
	return &ReportService{Payments: payments, Now: timeutil.Now}
}

// TransactionsPDF lists every payment between start and end inclusive with a
// grand total.
func (s *ReportService) TransactionsPDF(ctx context.Context, start, end string) ([]byte, error) {
	from, to, err := dateRange(start, end)
	if err != nil {
		return nil, err
	}
	payments, err := s.Payments.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return s.renderTransactions(from, to, payments)
}

func (s *ReportService) renderTransactions(from, to string, payments []*models.Payment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Transactions Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Period: %s to %s", from, to), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", s.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(25, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Code", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Customer", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Month", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Method", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	total := decimal.Zero
	for _, p := range payments {
		pdf.CellFormat(25, 6, p.PaymentDate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, p.CustomerCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, p.CustomerName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, p.MonthYear, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, p.PaymentMethod, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, "Rs. "+p.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
		total = total.Add(p.Amount)
	}
	if len(payments) == 0 {
		pdf.CellFormat(190, 8, "No transactions in this period", "1", 1, "C", false, 0, "")
	}

	// Summary
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(95, 8, fmt.Sprintf("Transactions: %d", len(payments)), "1", 0, "L", true, 0, "")
	pdf.CellFormat(95, 8, "Total: Rs. "+total.StringFixed(2), "1", 1, "R", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
