package middleware

import (
	"net/http"
	"slices"

	"nxq-backend/internal/config"
	"nxq-backend/internal/logger"

	"github.com/rs/cors"
)

// NewCORS builds the cross-origin policy for the desktop shell and browser
// dashboards. Credentials are only allowed for an explicit origin list.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CorsAllowedOrigins
	wildcard := len(origins) == 0 || slices.Contains(origins, "*")
	if wildcard {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
	if wildcard {
		l := logger.For("CORS")
		l.Warn().Msg("allowing requests from any origin")
	}

	return c.Handler
}
