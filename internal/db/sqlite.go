package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/config"
	"nxq-backend/internal/logger"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// dsnOptions enables FK enforcement, waits on a busy file instead of failing
// and makes every BEGIN take the write lock up front.
const dsnOptions = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"

// Connect resolves the store location for the configured mode, seeds it from
// the bundled resource on first run and opens the single shared handle.
func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, string, error) {
	log := logger.For("DB")

	path, err := cfg.DatabaseFile()
	if err != nil {
		return nil, "", &apperr.ConnectionError{Op: "resolve", Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, "", &apperr.ConnectionError{Op: "mkdir", Err: err}
	}

	if !cfg.IsDevelopment() {
		copied, err := copyIfAbsent(cfg.Database.ResourcePath, path)
		if err != nil {
			return nil, "", &apperr.ConnectionError{Op: "bootstrap", Err: err}
		}
		if copied {
			log.Info().Str("from", cfg.Database.ResourcePath).Str("to", path).Msg("seeded store from bundled resource")
		}
	}

	conn, err := Open(ctx, path)
	if err != nil {
		return nil, "", err
	}
	log.Info().Str("path", path).Msg("store opened")
	return conn, path, nil
}

// Open opens a SQLite file (or ":memory:") behind a pool capped at one
// connection, so the store is used by one caller at a time.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open(driverName, path+"?"+dsnOptions)
	if err != nil {
		return nil, &apperr.ConnectionError{Op: "open", Err: err}
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, &apperr.ConnectionError{Op: "ping", Err: err}
	}
	return conn, nil
}

// copyIfAbsent copies src to dst when dst does not exist yet. A missing src
// is not an error: a fresh store will be created instead.
func copyIfAbsent(src, dst string) (bool, error) {
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if src == "" {
		return false, nil
	}

	in, err := os.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to open resource: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to create store file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return false, fmt.Errorf("failed to copy resource: %w", err)
	}
	return true, out.Close()
}
