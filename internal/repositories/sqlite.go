package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"nxq-backend/internal/apperr"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// querier is satisfied by both *sql.DB and *sql.Tx. The store runs on a
// single connection, so code inside a transaction must use the tx or block.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction. The DSN asks for BEGIN IMMEDIATE, so the
// write lock is held from the first statement until commit.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func isConstraint(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

// constraintErr converts a SQLite constraint failure into the typed error and
// passes everything else through.
func constraintErr(err error, field, value string) error {
	if err == nil || !isConstraint(err) {
		return err
	}
	return &apperr.ConstraintError{Field: field, Value: value, Err: err}
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// tsScanner reads DATETIME columns whether the driver hands back a
// time.Time or the raw text.
type tsScanner struct {
	dst   *time.Time
	valid bool
}

func (s *tsScanner) Scan(v any) error {
	s.valid = v != nil
	switch x := v.(type) {
	case nil:
		*s.dst = time.Time{}
	case time.Time:
		*s.dst = x
	case string:
		t, err := parseTime(x)
		if err != nil {
			return err
		}
		*s.dst = t
	case []byte:
		t, err := parseTime(string(x))
		if err != nil {
			return err
		}
		*s.dst = t
	case int64:
		*s.dst = time.Unix(x, 0).UTC()
	default:
		return fmt.Errorf("cannot scan %T into timestamp", v)
	}
	return nil
}

func ts(dst *time.Time) *tsScanner {
	return &tsScanner{dst: dst}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// escapeLike escapes LIKE wildcards so a prefix matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
