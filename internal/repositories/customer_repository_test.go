package repositories

import (
	"context"
	"errors"
	"testing"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyCodesIncrementFromOne(t *testing.T) {
	r := setup(t)

	var codes []string
	for _, name := range []string{"Asha", "Bala", "Chitra"} {
		codes = append(codes, r.customer(t, nil, name).CustomerCode)
	}
	assert.Equal(t, []string{"GD7001", "GD7002", "GD7003"}, codes)
}

func TestScopedCodesFollowSchemePrefix(t *testing.T) {
	r := setup(t)
	gold := r.scheme(t, "GS")
	silver := r.scheme(t, "SS")

	assert.Equal(t, "GS-1", r.customer(t, &gold.ID, "Asha").CustomerCode)
	assert.Equal(t, "GS-2", r.customer(t, &gold.ID, "Bala").CustomerCode)
	assert.Equal(t, "SS-1", r.customer(t, &silver.ID, "Chitra").CustomerCode)
	assert.Equal(t, "GS-3", r.customer(t, &gold.ID, "Devi").CustomerCode)

	next, err := r.customers.NextCode(context.Background(), &gold.ID)
	require.NoError(t, err)
	assert.Equal(t, "GS-4", next)
}

func TestLegacyCodeContinuesAfterBackfilledCode(t *testing.T) {
	r := setup(t)
	_, err := r.db.Exec(`INSERT INTO customers (customer_code, name, phone, address, start_date, monthly_amount)
		VALUES ('GD7 014', 'Old', '9876543210', 'Main St', '2023-01-01', 500)`)
	require.NoError(t, err)

	next, err := r.customers.NextCode(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "GD7015", next)
}

func TestNextCodeUnknownScheme(t *testing.T) {
	r := setup(t)
	missing := 42

	_, err := r.customers.NextCode(context.Background(), &missing)
	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Scheme", nf.Entity)
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	r := setup(t)
	first := r.customer(t, nil, "Asha")

	dup := &models.Customer{
		CustomerCode:  first.CustomerCode,
		Name:          "Bala",
		Phone:         "9876500000",
		Address:       "Market St",
		StartDate:     "2024-12-15",
		MonthlyAmount: dec("500"),
	}
	err := r.customers.Create(context.Background(), dup)

	var ce *apperr.ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "customer_code", ce.Field)
	assert.Equal(t, 1, count(t, r.db, "customers"))
}

func TestCustomerLookups(t *testing.T) {
	ctx := context.Background()
	r := setup(t)
	s := r.scheme(t, "GS")
	a := r.customer(t, &s.ID, "Asha")
	r.customer(t, nil, "Bala")

	got, err := r.customers.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, "2024-12-15", got.StartDate)
	assert.True(t, got.MonthlyAmount.Equal(dec("1000")))
	require.NotNil(t, got.SchemeID)
	assert.Equal(t, s.ID, *got.SchemeID)
	assert.False(t, got.CreatedAt.IsZero())

	byCode, err := r.customers.GetByCode(ctx, "GS-1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byCode.ID)

	all, err := r.customers.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Bala", all[0].Name, "newest first")

	scoped, err := r.customers.List(ctx, &s.ID)
	require.NoError(t, err)
	assert.Len(t, scoped, 1)

	exists, err := r.customers.CodeExists(ctx, " GS-1 ")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = r.customers.Get(ctx, 999)
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestDuplicateCodeIgnoresSpacingAndCase(t *testing.T) {
	ctx := context.Background()
	r := setup(t)

	legacy := &models.Customer{CustomerCode: "GD7 001", Name: "Asha", Phone: "9876543210",
		Address: "Main St", StartDate: "2024-01-01", MonthlyAmount: dec("500")}
	require.NoError(t, r.customers.Create(ctx, legacy))

	exists, err := r.customers.CodeExists(ctx, "gd7001")
	require.NoError(t, err)
	assert.True(t, exists)

	dup := &models.Customer{CustomerCode: "GD7001", Name: "Bala", Phone: "9876543211",
		Address: "Main St", StartDate: "2024-01-01", MonthlyAmount: dec("500")}
	err = r.customers.Create(ctx, dup)
	var ce *apperr.ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "customer_code", ce.Field)
	assert.Equal(t, 1, count(t, r.db, "customers"))
}
