package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveriesTrackBalance(t *testing.T) {
	ctx := context.Background()
	r := setup(t)
	s := r.scheme(t, "GS")
	c := r.customer(t, &s.ID, "Asha")
	w := r.winner(t, c.ID, &s.ID, "2025-01", "5000")

	bal, err := r.deliveries.Add(ctx, &models.Delivery{WinnerID: w.ID, BillNumber: "B-1", Amount: dec("3000")})
	require.NoError(t, err)
	assert.True(t, bal.Remaining.Equal(dec("2000")), bal.Remaining.String())
	assert.False(t, bal.IsDelivered)

	_, err = r.deliveries.Add(ctx, &models.Delivery{WinnerID: w.ID, BillNumber: "B-2", Amount: dec("2500")})
	var be *apperr.BalanceExceededError
	require.True(t, errors.As(err, &be))
	assert.True(t, be.Remaining.Equal(dec("2000")))
	assert.Contains(t, be.Error(), "Maximum allowed: ₹2000")

	d := &models.Delivery{WinnerID: w.ID, BillNumber: "B-3", Amount: dec("2000"), Notes: "final"}
	bal, err = r.deliveries.Add(ctx, d)
	require.NoError(t, err)
	assert.True(t, bal.Remaining.IsZero())
	assert.True(t, bal.IsDelivered)
	assert.NotZero(t, d.ID)
	assert.Equal(t, "final", d.Notes)

	list, err := r.deliveries.ListByWinner(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := r.winners.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDelivered)
	assert.True(t, got.DeliveredAmount.Equal(dec("5000")))
	assert.True(t, got.RemainingBalance.IsZero())
}

func TestDeliveryForMissingWinner(t *testing.T) {
	r := setup(t)
	_, err := r.deliveries.Add(context.Background(), &models.Delivery{WinnerID: 9, BillNumber: "B", Amount: dec("1")})

	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Winner", nf.Entity)
	assert.Equal(t, 0, count(t, r.db, "deliveries"))
}

func TestDeliveryFractionalAmounts(t *testing.T) {
	ctx := context.Background()
	r := setup(t)
	s := r.scheme(t, "GS")
	c := r.customer(t, &s.ID, "Asha")
	w := r.winner(t, c.ID, &s.ID, "2025-02", "1000.50")

	_, err := r.deliveries.Add(ctx, &models.Delivery{WinnerID: w.ID, BillNumber: "B-1", Amount: dec("0.10")})
	require.NoError(t, err)
	bal, err := r.deliveries.Add(ctx, &models.Delivery{WinnerID: w.ID, BillNumber: "B-2", Amount: dec("1000.40")})
	require.NoError(t, err)
	assert.True(t, bal.IsDelivered)
	assert.True(t, bal.Remaining.IsZero(), bal.Remaining.String())
}

func TestConcurrentDeliveriesNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	r := setup(t)
	s := r.scheme(t, "GS")
	c := r.customer(t, &s.ID, "Asha")
	w := r.winner(t, c.ID, &s.ID, "2025-03", "1000")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.deliveries.Add(ctx, &models.Delivery{WinnerID: w.ID, BillNumber: "B", Amount: dec("300")})
		}()
	}
	wg.Wait()

	bal, err := r.deliveries.Balance(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, bal.Delivered.Equal(dec("900")), bal.Delivered.String())
}

func TestBalanceIsExactBelowPaise(t *testing.T) {
	ctx := context.Background()
	r := setup(t)
	s := r.scheme(t, "GS")
	c := r.customer(t, &s.ID, "Asha")
	// the repository stores whatever it is given; services reject this precision
	w := r.winner(t, c.ID, &s.ID, "2025-01", "1.004")

	bal, err := r.deliveries.Add(ctx, &models.Delivery{WinnerID: w.ID, BillNumber: "B-1", Amount: dec("1.004")})
	require.NoError(t, err)
	assert.True(t, bal.Remaining.IsZero(), bal.Remaining.String())
	assert.True(t, bal.IsDelivered)

	_, err = r.deliveries.Add(ctx, &models.Delivery{WinnerID: w.ID, BillNumber: "B-2", Amount: dec("0.004")})
	var be *apperr.BalanceExceededError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 1, count(t, r.db, "deliveries"))
}
