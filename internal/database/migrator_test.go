package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"nxq-backend/internal/auth"
	"nxq-backend/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func columns(t *testing.T, conn *sql.DB, table string) []string {
	t.Helper()
	rows, err := conn.Query("SELECT name FROM pragma_table_info(?)", table)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func appliedCount(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	return n
}

func TestRunMigrationsFreshStore(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)
	m := NewMigrator(conn, "GD7")

	require.NoError(t, m.RunMigrations(ctx))

	for _, table := range []string{"users", "schemes", "customers", "payments", "winners", "deliveries"} {
		assert.NotEmpty(t, columns(t, conn, table), table)
	}
	assert.Contains(t, columns(t, conn, "customers"), "customer_code")
	assert.Contains(t, columns(t, conn, "payments"), "scheme_id")
	assert.Equal(t, len(m.Steps()), appliedCount(t, conn))

	var idx int
	require.NoError(t, conn.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_payments_scheme_month'").Scan(&idx))
	assert.Equal(t, 1, idx)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)
	m := NewMigrator(conn, "GD7")

	require.NoError(t, m.RunMigrations(ctx))
	_, err := conn.Exec(`INSERT INTO customers (customer_code, name, phone, address, start_date, monthly_amount)
		VALUES ('GD7001', 'Asha', '9876543210', 'Main St', '2024-12-15', 1000)`)
	require.NoError(t, err)

	before := columns(t, conn, "customers")
	require.NoError(t, m.RunMigrations(ctx))
	require.NoError(t, m.RunMigrations(ctx))

	assert.Equal(t, before, columns(t, conn, "customers"))
	assert.Equal(t, len(m.Steps()), appliedCount(t, conn))

	var code string
	require.NoError(t, conn.QueryRow("SELECT customer_code FROM customers").Scan(&code))
	assert.Equal(t, "GD7001", code)
}

// legacySchema is the layout written by builds that predate customer codes
// and schemes.
const legacySchema = `
	CREATE TABLE customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		start_date DATE NOT NULL,
		monthly_amount DECIMAL(10,2) NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		payment_date DATE NOT NULL,
		month_year TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		transaction_id TEXT,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE winners (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL,
		month_year TEXT NOT NULL,
		gold_rate DECIMAL(10,2) NOT NULL,
		winning_amount DECIMAL(10,2) NOT NULL,
		position INTEGER NOT NULL,
		is_delivered BOOLEAN DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(customer_id, month_year)
	);`

func TestRunMigrationsUpgradesLegacyStore(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)

	_, err := conn.Exec(legacySchema)
	require.NoError(t, err)
	for _, name := range []string{"Asha", "Bala", "Chitra"} {
		_, err := conn.Exec(`INSERT INTO customers (name, phone, address, start_date, monthly_amount)
			VALUES (?, '9876543210', 'Main St', '2024-01-01', 500)`, name)
		require.NoError(t, err)
	}
	_, err = conn.Exec(`INSERT INTO payments (customer_id, amount, payment_date, month_year, payment_method)
		VALUES (1, 500, '2024-01-05', '2024-01', 'cash')`)
	require.NoError(t, err)

	require.NoError(t, NewMigrator(conn, "GD7").RunMigrations(ctx))

	assert.Contains(t, columns(t, conn, "customers"), "customer_code")
	assert.Contains(t, columns(t, conn, "customers"), "scheme_id")
	assert.Contains(t, columns(t, conn, "payments"), "scheme_id")
	assert.Contains(t, columns(t, conn, "winners"), "scheme_id")

	rows, err := conn.Query("SELECT customer_code, scheme_id FROM customers ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var (
			code     string
			schemeID sql.NullInt64
		)
		require.NoError(t, rows.Scan(&code, &schemeID))
		assert.False(t, schemeID.Valid, "legacy rows stay schemeless")
		codes = append(codes, code)
	}
	assert.Equal(t, []string{"GD7 001", "GD7 002", "GD7 003"}, codes)

	var payments int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM payments").Scan(&payments))
	assert.Equal(t, 1, payments)
}

func TestFailedStepRollsBackChain(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)

	_, err := conn.Exec(legacySchema)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO customers (name, phone, address, start_date, monthly_amount)
		VALUES ('Asha', '9876543210', 'Main St', '2024-01-01', 500)`)
	require.NoError(t, err)

	m := NewMigrator(conn, "GD7")
	m.steps = append(m.Steps()[:2], Migration{
		Version: 3,
		Name:    "broken",
		Up: func(context.Context, *sql.Tx) error {
			return errors.New("disk on fire")
		},
	})

	err = m.RunMigrations(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3_broken")

	cols := columns(t, conn, "customers")
	assert.NotContains(t, cols, "customer_code")
	assert.NotContains(t, cols, "scheme_id")

	var tables int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('schema_migrations', 'schemes', 'deliveries')`).Scan(&tables))
	assert.Zero(t, tables, "tables created by the failed run are rolled back")

	// the untouched chain still applies cleanly afterwards
	require.NoError(t, NewMigrator(conn, "GD7").RunMigrations(ctx))
	assert.Contains(t, columns(t, conn, "customers"), "customer_code")
}

func TestHasColumn(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)
	_, err := conn.Exec(`CREATE TABLE t (a INTEGER, b TEXT DEFAULT 'x')`)
	require.NoError(t, err)

	ok, err := HasColumn(ctx, conn, "t", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasColumn(ctx, conn, "t", "c")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)
	require.NoError(t, NewMigrator(conn, "GD7").RunMigrations(ctx))

	created, err := SeedAdmin(ctx, conn, "admin", "admin123", "admin@nxq.com")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedAdmin(ctx, conn, "admin", "other", "admin@nxq.com")
	require.NoError(t, err)
	assert.False(t, created)

	var hash, role string
	require.NoError(t, conn.QueryRow("SELECT password_hash, role FROM users WHERE username = 'admin'").Scan(&hash, &role))
	assert.Equal(t, "admin", role)
	assert.True(t, auth.VerifyPassword(hash, "admin123"))
}
