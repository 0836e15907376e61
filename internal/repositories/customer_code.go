package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"nxq-backend/internal/apperr"
)

var (
	scopedSuffix = regexp.MustCompile(`-(\d+)$`)
	legacySuffix = regexp.MustCompile(`\d+$`)
)

// CodeGenerator derives the next customer code from the most recently
// inserted matching code. It does not reserve the code: callers that insert
// must run it in the same transaction as the insert.
type CodeGenerator struct {
	DefaultPrefix string
}

func NewCodeGenerator(defaultPrefix string) *CodeGenerator {
	return &CodeGenerator{DefaultPrefix: defaultPrefix}
}

// Next returns "PREFIX-n" for a scheme, or the legacy "PREFIXnnn" form when
// schemeID is nil.
func (g *CodeGenerator) Next(ctx context.Context, q querier, schemeID *int) (string, error) {
	if schemeID != nil {
		return g.nextScoped(ctx, q, *schemeID)
	}
	return g.nextLegacy(ctx, q)
}

func (g *CodeGenerator) nextScoped(ctx context.Context, q querier, schemeID int) (string, error) {
	var prefix string
	err := q.QueryRowContext(ctx, `SELECT prefix FROM schemes WHERE id = ?`, schemeID).Scan(&prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.NotFound("Scheme", schemeID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read scheme prefix: %w", err)
	}

	last, err := lastCode(ctx, q,
		`SELECT customer_code FROM customers
		 WHERE customer_code LIKE ? ESCAPE '\' AND scheme_id = ?
		 ORDER BY id DESC LIMIT 1`,
		escapeLike(prefix)+"-%", schemeID)
	if err != nil {
		return "", err
	}

	n := 0
	if m := scopedSuffix.FindStringSubmatch(last); m != nil {
		n, _ = strconv.Atoi(m[1])
	}
	return fmt.Sprintf("%s-%d", prefix, n+1), nil
}

func (g *CodeGenerator) nextLegacy(ctx context.Context, q querier) (string, error) {
	last, err := lastCode(ctx, q,
		`SELECT customer_code FROM customers
		 WHERE customer_code LIKE ? ESCAPE '\'
		 ORDER BY id DESC LIMIT 1`,
		escapeLike(g.DefaultPrefix)+"%")
	if err != nil {
		return "", err
	}

	// the prefix may itself end in a digit ("GD7"), so strip it first
	n := 0
	if m := legacySuffix.FindString(strings.TrimPrefix(last, g.DefaultPrefix)); m != "" {
		n, _ = strconv.Atoi(m)
	}
	return fmt.Sprintf("%s%03d", g.DefaultPrefix, n+1), nil
}

func lastCode(ctx context.Context, q querier, query string, args ...any) (string, error) {
	var code sql.NullString
	err := q.QueryRowContext(ctx, query, args...).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read last customer code: %w", err)
	}
	return code.String, nil
}
