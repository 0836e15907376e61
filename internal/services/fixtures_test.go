package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"nxq-backend/internal/events"
	"nxq-backend/internal/models"
	"nxq-backend/internal/repositories"
	"nxq-backend/internal/testutil"
	"nxq-backend/internal/timeutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// today is pinned so start-date and dashboard checks are deterministic.
var today = time.Date(2025, time.February, 10, 11, 0, 0, 0, timeutil.Local)

type env struct {
	rules     *Rules
	pub       *recorder
	customers *CustomerService
	schemes   *SchemeService
	payments  *PaymentService
	winners   *WinnerService
	delivery  *DeliveryService
	stats     *StatsService
	maint     *MaintenanceService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	conn := testutil.SetupTestDB(t)

	rules := &Rules{
		CodePrefix:  testutil.DefaultPrefix,
		CodePattern: regexp.MustCompile(`^[A-Za-z0-9]+[- ]?\d+$`),
		CodeMin:     1,
		CodeMax:     9999,
		Now:         timeutil.Fixed(today),
	}
	pub := &recorder{}

	schemeRepo := repositories.NewSchemeRepository(conn)
	customerRepo := repositories.NewCustomerRepository(conn, repositories.NewCodeGenerator(testutil.DefaultPrefix))
	paymentRepo := repositories.NewPaymentRepository(conn)
	winnerRepo := repositories.NewWinnerRepository(conn)

	stats := NewStatsService(repositories.NewStatsRepository(conn))
	stats.Now = timeutil.Fixed(today)

	return &env{
		rules:     rules,
		pub:       pub,
		customers: NewCustomerService(customerRepo, schemeRepo, paymentRepo, rules, pub),
		schemes:   NewSchemeService(schemeRepo, winnerRepo, pub),
		payments:  NewPaymentService(paymentRepo, customerRepo, pub),
		winners:   NewWinnerService(winnerRepo, schemeRepo, customerRepo, pub),
		delivery:  NewDeliveryService(repositories.NewDeliveryRepository(conn), winnerRepo, pub),
		stats:     stats,
		maint:     NewMaintenanceService(repositories.NewMaintenanceRepository(conn), pub),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *env) scheme(t *testing.T, prefix string) *models.Scheme {
	t.Helper()
	s, err := e.schemes.CreateScheme(context.Background(), &models.SchemeRequest{
		Name:      "Gold " + prefix,
		Prefix:    prefix,
		StartDate: "2024-12-15",
		Duration:  3,
		Amounts:   []decimal.Decimal{dec("1000"), dec("1000"), dec("1500")},
	})
	require.NoError(t, err)
	return s
}

func (e *env) customer(t *testing.T, schemeID *int, name string) *models.Customer {
	t.Helper()
	c, err := e.customers.CreateCustomer(context.Background(), &models.CreateCustomerRequest{
		SchemeID:      schemeID,
		Name:          name,
		Phone:         "9876543210",
		Address:       "12 Main Road",
		StartDate:     "2024-12-15",
		MonthlyAmount: dec("1000"),
	})
	require.NoError(t, err)
	return c
}

func (e *env) winner(t *testing.T, schemeID, customerID int, month, amount string) *models.Winner {
	t.Helper()
	w, err := e.winners.CreateWinner(context.Background(), &models.CreateWinnerRequest{
		CustomerID:    customerID,
		SchemeID:      schemeID,
		MonthYear:     month,
		GoldRate:      dec("6500"),
		WinningAmount: dec(amount),
		Position:      1,
	})
	require.NoError(t, err)
	return w
}
