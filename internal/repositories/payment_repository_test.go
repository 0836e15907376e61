package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentQueries(t *testing.T) {
	ctx := context.Background()
	r := setup(t)
	gold := r.scheme(t, "GS")
	silver := r.scheme(t, "SS")
	a := r.customer(t, &gold.ID, "Asha")
	b := r.customer(t, &silver.ID, "Bala")

	r.payment(t, a.ID, &gold.ID, "2025-01-05", "2025-01")
	r.payment(t, a.ID, &gold.ID, "2025-02-05", "2025-02")
	r.payment(t, b.ID, &silver.ID, "2025-02-05", "2025-02")

	all, err := r.payments.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "2025-02-05", all[0].PaymentDate, "newest first")

	byScheme, err := r.payments.List(ctx, &gold.ID)
	require.NoError(t, err)
	assert.Len(t, byScheme, 2)

	byCustomer, err := r.payments.ListByCustomer(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, "Bala", byCustomer[0].CustomerName)
	assert.Equal(t, "SS-1", byCustomer[0].CustomerCode)

	onDay, err := r.payments.ListByDate(ctx, "2025-02-05", nil)
	require.NoError(t, err)
	assert.Len(t, onDay, 2)

	onDayScheme, err := r.payments.ListByDate(ctx, "2025-02-05", &silver.ID)
	require.NoError(t, err)
	assert.Len(t, onDayScheme, 1)

	inRange, err := r.payments.ListByDateRange(ctx, "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.True(t, inRange[0].Amount.Equal(dec("1000")))
}
