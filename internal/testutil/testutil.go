package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nxq-backend/internal/database"
	"nxq-backend/internal/db"

	"github.com/stretchr/testify/require"
)

// DefaultPrefix is the legacy customer code prefix used across tests.
const DefaultPrefix = "GD7"

// OpenTestDB opens an empty in-memory store with no schema.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { conn.Close() })
	return conn
}

// SetupTestDB creates a fresh in-memory store with the full schema applied.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn := OpenTestDB(t)
	err := database.NewMigrator(conn, DefaultPrefix).RunMigrations(context.Background())
	require.NoError(t, err, "failed to migrate test database")
	return conn
}

// MakeRequest serves one request through h and returns the recorder.
func MakeRequest(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// Envelope mirrors the {success, data | error} response shape.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// DecodeEnvelope asserts the status code and decodes the envelope, and the
// payload into out when out is non-nil.
func DecodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, out any) Envelope {
	t.Helper()

	require.Equal(t, wantStatus, rr.Code, "body: %s", rr.Body.String())

	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}
