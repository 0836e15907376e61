package database

import (
	"context"
	"database/sql"
	"fmt"

	"nxq-backend/internal/logger"
	"nxq-backend/internal/metrics"

	"github.com/rs/zerolog"
)

// Migration is one additive schema step. Applied reports whether the change
// is already present (a column that exists, say); such steps are recorded
// without running Up so that stores created by older builds converge.
type Migration struct {
	Version int
	Name    string
	Applied func(ctx context.Context, tx *sql.Tx) (bool, error)
	Up      func(ctx context.Context, tx *sql.Tx) error
}

// Migrator handles database schema migrations
type Migrator struct {
	db         *sql.DB
	codePrefix string
	log        zerolog.Logger

	// steps replaces Steps when set
	steps []Migration
}

// NewMigrator creates a new migration runner. codePrefix is used to backfill
// customer codes on stores that predate the customer_code column.
func NewMigrator(db *sql.DB, codePrefix string) *Migrator {
	return &Migrator{
		db:         db,
		codePrefix: codePrefix,
		log:        logger.For("Migrator"),
	}
}

// Steps returns the migration chain in execution order. The customer code
// backfill must run before anything that reads customer codes.
func (m *Migrator) Steps() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "customers_customer_code",
			Applied: columnGuard("customers", "customer_code"),
			Up: func(ctx context.Context, tx *sql.Tx) error {
				if _, err := tx.ExecContext(ctx, `ALTER TABLE customers ADD COLUMN customer_code TEXT`); err != nil {
					return err
				}
				return backfillCustomerCodes(ctx, tx, m.codePrefix)
			},
		},
		{
			Version: 2,
			Name:    "customers_scheme_id",
			Applied: columnGuard("customers", "scheme_id"),
			Up:      addColumn("customers", "scheme_id INTEGER"),
		},
		{
			Version: 3,
			Name:    "payments_scheme_id",
			Applied: columnGuard("payments", "scheme_id"),
			Up:      addColumn("payments", "scheme_id INTEGER"),
		},
		{
			Version: 4,
			Name:    "winners_scheme_id",
			Applied: columnGuard("winners", "scheme_id"),
			Up:      addColumn("winners", "scheme_id INTEGER"),
		},
		{
			Version: 5,
			Name:    "secondary_indexes",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				for _, stmt := range indexes {
					if _, err := tx.ExecContext(ctx, stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

// RunMigrations creates the base tables and applies every pending step in a
// single transaction. Any failure rolls the whole chain back.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	m.log.Info().Msg("starting database migrations")

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range baseSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, migrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedVersions(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	ran := 0
	chain := m.steps
	if chain == nil {
		chain = m.Steps()
	}
	for _, step := range chain {
		if applied[step.Version] {
			continue
		}

		if step.Applied != nil {
			present, err := step.Applied(ctx, tx)
			if err != nil {
				return fmt.Errorf("failed to check migration %d_%s: %w", step.Version, step.Name, err)
			}
			if present {
				m.log.Debug().Int("version", step.Version).Str("name", step.Name).Msg("already present, recording")
				if err := recordMigration(ctx, tx, step); err != nil {
					return err
				}
				continue
			}
		}

		m.log.Info().Int("version", step.Version).Str("name", step.Name).Msg("running migration")
		if err := step.Up(ctx, tx); err != nil {
			return fmt.Errorf("failed to run migration %d_%s: %w", step.Version, step.Name, err)
		}
		if err := recordMigration(ctx, tx, step); err != nil {
			return err
		}
		ran++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}

	metrics.MigrationsApplied.Add(float64(ran))
	if ran > 0 {
		m.log.Info().Int("count", ran).Msg("ran new migrations")
	} else {
		m.log.Info().Msg("all migrations already applied")
	}
	return nil
}

func appliedVersions(ctx context.Context, tx *sql.Tx) (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := tx.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func recordMigration(ctx context.Context, tx *sql.Tx, step Migration) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES (?, ?) ON CONFLICT (version) DO NOTHING`,
		step.Version, step.Name)
	if err != nil {
		return fmt.Errorf("failed to record migration %d_%s: %w", step.Version, step.Name, err)
	}
	return nil
}

// HasColumn reports whether table has a column with the given name.
func HasColumn(ctx context.Context, q interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}, table, column string) (bool, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func columnGuard(table, column string) func(context.Context, *sql.Tx) (bool, error) {
	return func(ctx context.Context, tx *sql.Tx) (bool, error) {
		return HasColumn(ctx, tx, table, column)
	}
}

func addColumn(table, definition string) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, definition))
		return err
	}
}

// backfillCustomerCodes assigns "PREFIX 001", "PREFIX 002", ... in row order
// to every customer that has no code yet.
func backfillCustomerCodes(ctx context.Context, tx *sql.Tx, prefix string) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM customers WHERE customer_code IS NULL OR customer_code = '' ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to list customers without code: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		code := fmt.Sprintf("%s %03d", prefix, i+1)
		if _, err := tx.ExecContext(ctx, `UPDATE customers SET customer_code = ? WHERE id = ?`, code, id); err != nil {
			return fmt.Errorf("failed to backfill customer %d: %w", id, err)
		}
	}
	return nil
}
