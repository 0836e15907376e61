package services

import (
	"context"
	"testing"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/events"
	"nxq-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchemeValidation(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name  string
		req   models.SchemeRequest
		field string
	}{
		{"missing name", models.SchemeRequest{Prefix: "A", StartDate: "2025-01-01", Duration: 1, Amounts: []decimal.Decimal{dec("1")}}, "name"},
		{"missing prefix", models.SchemeRequest{Name: "A", StartDate: "2025-01-01", Duration: 1, Amounts: []decimal.Decimal{dec("1")}}, "prefix"},
		{"bad start", models.SchemeRequest{Name: "A", Prefix: "A", StartDate: "2025-13-01", Duration: 1, Amounts: []decimal.Decimal{dec("1")}}, "start_date"},
		{"zero duration", models.SchemeRequest{Name: "A", Prefix: "A", StartDate: "2025-01-01"}, "duration"},
		{"amount count", models.SchemeRequest{Name: "A", Prefix: "A", StartDate: "2025-01-01", Duration: 2, Amounts: []decimal.Decimal{dec("1")}}, "amounts"},
		{"negative amount", models.SchemeRequest{Name: "A", Prefix: "A", StartDate: "2025-01-01", Duration: 1, Amounts: []decimal.Decimal{dec("-5")}}, "amounts[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.schemes.CreateScheme(context.Background(), &tt.req)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestUpdateAndDeleteScheme(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.scheme(t, "GS1")
	c := e.customer(t, &s.ID, "Meena")
	e.winner(t, s.ID, c.ID, "2024-12", "3000")

	updated, err := e.schemes.UpdateScheme(ctx, s.ID, &models.SchemeRequest{
		Name: "Renamed", Prefix: "GS1", StartDate: "2024-12-15", Duration: 1, Amounts: []decimal.Decimal{dec("2000")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 1, updated.Duration)

	require.NoError(t, e.schemes.DeleteScheme(ctx, s.ID))

	_, err = e.customers.GetCustomer(ctx, c.ID)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)

	err = e.schemes.DeleteScheme(ctx, s.ID)
	assert.ErrorAs(t, err, &nf)

	assert.Contains(t, e.pub.types(), events.SchemeDeleted)
}

func TestDuplicatePrefix(t *testing.T) {
	e := newEnv(t)
	e.scheme(t, "GS1")

	_, err := e.schemes.CreateScheme(context.Background(), &models.SchemeRequest{
		Name: "Again", Prefix: "GS1", StartDate: "2025-01-01", Duration: 1, Amounts: []decimal.Decimal{dec("100")},
	})
	var ce *apperr.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "prefix", ce.Field)
}

func TestAvailableMonths(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.scheme(t, "GS1")

	months, err := e.schemes.AvailableMonths(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12", "2025-01", "2025-02"}, months)

	c := e.customer(t, &s.ID, "Meena")
	e.winner(t, s.ID, c.ID, "2025-01", "3000")

	months, err = e.schemes.AvailableMonths(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12", "2025-02"}, months)

	none, err := e.schemes.AvailableMonths(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)

	missing, err := e.schemes.AvailableMonths(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
