package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"nxq-backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func corsResponse(origins []string, origin string) *httptest.ResponseRecorder {
	cfg := &config.Config{}
	cfg.Server.CorsAllowedOrigins = origins
	h := NewCORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/schemes", nil)
	req.Header.Set("Origin", origin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORSExplicitOrigins(t *testing.T) {
	rec := corsResponse([]string{"http://localhost:5173"}, "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = corsResponse([]string{"http://localhost:5173"}, "http://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardDropsCredentials(t *testing.T) {
	rec := corsResponse(nil, "http://anywhere.example")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}
