package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/logger"
	"nxq-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		be *apperr.BalanceExceededError
		ce *apperr.ConstraintError
		le *apperr.LockedError
		cn *apperr.ConnectionError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &be):
		return http.StatusUnprocessableEntity
	case errors.As(err, &le):
		return http.StatusTooManyRequests
	case errors.As(err, &cn):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends the failure envelope. Unclassified errors are logged and
// reported without internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		l := logger.For("Handlers")
		l.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "Internal server error"
	}
	utils.Error(w, status, msg)
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("body", "is not valid JSON")
	}
	return nil
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, apperr.Validation("id", "must be a positive integer")
	}
	return id, nil
}

// querySchemeID reads ?scheme_id=. Absent means all schemes.
func querySchemeID(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("scheme_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return nil, apperr.Validation("scheme_id", "must be a non-negative integer")
	}
	return &id, nil
}
