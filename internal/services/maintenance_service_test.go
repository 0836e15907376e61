package services

import (
	"context"
	"testing"

	"nxq-backend/internal/config"
	"nxq-backend/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearAllDataKeepsSchemes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.scheme(t, "GS1")
	e.customer(t, &s.ID, "A")

	require.NoError(t, e.maint.ClearAllData(ctx, 1))

	customers, err := e.customers.ListCustomers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, customers)

	schemes, err := e.schemes.ListSchemes(ctx)
	require.NoError(t, err)
	assert.Len(t, schemes, 1)

	// sequences restart after a clear
	c := e.customer(t, &s.ID, "B")
	assert.Equal(t, 1, c.ID)
	assert.Contains(t, e.pub.types(), events.DataCleared)
}

func TestDefaultStartDate(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheme.DefaultStartDate = "2024-12-15"
	assert.Equal(t, "2024-12-15", NewSettingsService(cfg).DefaultStartDate())
}
