package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

type MaintenanceRepository struct {
	DB *sql.DB
}

func NewMaintenanceRepository(db *sql.DB) *MaintenanceRepository {
	return &MaintenanceRepository{DB: db}
}

// ClearAll wipes customers, payments, winners and deliveries and resets their
// id counters. Users and schemes are kept.
func (r *MaintenanceRepository) ClearAll(ctx context.Context) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, table := range []string{"payments", "customers", "deliveries", "winners"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM sqlite_sequence WHERE name IN ('customers', 'payments', 'winners', 'deliveries')`)
		if err != nil {
			return fmt.Errorf("failed to reset sequences: %w", err)
		}
		return nil
	})
}

// Snapshot writes a consistent copy of the store to path.
func (r *MaintenanceRepository) Snapshot(ctx context.Context, path string) error {
	if _, err := r.DB.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return fmt.Errorf("failed to snapshot store: %w", err)
	}
	return nil
}
