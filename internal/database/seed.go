package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nxq-backend/internal/auth"
	"nxq-backend/internal/logger"
)

// SeedAdmin creates the bootstrap administrator if no user with that
// username exists. The default credentials are public; this only makes a
// fresh install reachable and is not an access control measure.
func SeedAdmin(ctx context.Context, db *sql.DB, username, password, email string) (bool, error) {
	var id int64
	err := db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ?`, username).Scan(&id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to look up seed user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash seed password: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email, role) VALUES (?, ?, ?, 'admin')`,
		username, hash, email)
	if err != nil {
		return false, fmt.Errorf("failed to create seed user: %w", err)
	}

	l := logger.For("Seed")
	l.Warn().Str("username", username).Msg("created default admin user, change its password")
	return true, nil
}
