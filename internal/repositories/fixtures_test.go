package repositories

import (
	"context"
	"database/sql"
	"testing"

	"nxq-backend/internal/models"
	"nxq-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type repos struct {
	db         *sql.DB
	schemes    *SchemeRepository
	customers  *CustomerRepository
	payments   *PaymentRepository
	winners    *WinnerRepository
	deliveries *DeliveryRepository
	stats      *StatsRepository
	maint      *MaintenanceRepository
}

func setup(t *testing.T) *repos {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return &repos{
		db:         conn,
		schemes:    NewSchemeRepository(conn),
		customers:  NewCustomerRepository(conn, NewCodeGenerator(testutil.DefaultPrefix)),
		payments:   NewPaymentRepository(conn),
		winners:    NewWinnerRepository(conn),
		deliveries: NewDeliveryRepository(conn),
		stats:      NewStatsRepository(conn),
		maint:      NewMaintenanceRepository(conn),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (r *repos) scheme(t *testing.T, prefix string) *models.Scheme {
	t.Helper()
	s := &models.Scheme{
		Name:      "Gold " + prefix,
		Prefix:    prefix,
		StartDate: "2024-12-15",
		Duration:  3,
		Amounts:   []decimal.Decimal{dec("1000"), dec("1000"), dec("1500")},
	}
	require.NoError(t, r.schemes.Create(context.Background(), s))
	return s
}

func (r *repos) customer(t *testing.T, schemeID *int, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{
		SchemeID:      schemeID,
		Name:          name,
		Phone:         "9876543210",
		Address:       "12 Temple Rd",
		StartDate:     "2024-12-15",
		MonthlyAmount: dec("1000"),
	}
	require.NoError(t, r.customers.Create(context.Background(), c))
	return c
}

func (r *repos) winner(t *testing.T, customerID int, schemeID *int, month string, amount string) *models.Winner {
	t.Helper()
	w := &models.Winner{
		CustomerID:    customerID,
		SchemeID:      schemeID,
		MonthYear:     month,
		GoldRate:      dec("6200.50"),
		WinningAmount: dec(amount),
		Position:      1,
	}
	require.NoError(t, r.winners.Create(context.Background(), w))
	return w
}

func (r *repos) payment(t *testing.T, customerID int, schemeID *int, date, month string) *models.Payment {
	t.Helper()
	p := &models.Payment{
		CustomerID:    customerID,
		SchemeID:      schemeID,
		Amount:        dec("1000"),
		PaymentDate:   date,
		MonthYear:     month,
		PaymentMethod: "cash",
	}
	require.NoError(t, r.payments.Create(context.Background(), p))
	return p
}

func count(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
