package services

import (
	"bytes"
	"context"
	"testing"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionsPDF(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.scheme(t, "GS1")
	c := e.customer(t, &s.ID, "Anil")
	_, err := e.payments.CreatePayment(ctx, &models.CreatePaymentRequest{
		CustomerID: c.ID, Amount: dec("1000"), PaymentDate: "2025-01-05", MonthYear: "2025-01", PaymentMethod: "cash",
	})
	require.NoError(t, err)

	reports := NewReportService(e.payments.Repo)
	reports.Now = e.rules.Now

	pdf, err := reports.TransactionsPDF(ctx, "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	empty, err := reports.TransactionsPDF(ctx, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF-")))

	_, err = reports.TransactionsPDF(ctx, "2025-01-31", "2025-01-01")
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}
