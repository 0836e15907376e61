package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"nxq-backend/internal/apperr"
	"nxq-backend/internal/config"
	"nxq-backend/internal/timeutil"

	"github.com/shopspring/decimal"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{7,15}$`)
	codeDigits   = regexp.MustCompile(`\d+$`)
	anyDigit     = regexp.MustCompile(`\d`)
)

const minPhoneDigits = 7

// Rules holds the configurable input checks shared by the services.
type Rules struct {
	CodePrefix  string
	CodePattern *regexp.Regexp
	CodeMin     int
	CodeMax     int
	Now         timeutil.Clock
}

func NewRules(cfg *config.Config) (*Rules, error) {
	pattern, err := regexp.Compile(cfg.Customer.CodePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid customer code pattern: %w", err)
	}
	return &Rules{
		CodePrefix:  cfg.Customer.CodePrefix,
		CodePattern: pattern,
		CodeMin:     cfg.Customer.CodeMin,
		CodeMax:     cfg.Customer.CodeMax,
		Now:         timeutil.Now,
	}, nil
}

func required(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", apperr.Validation(field, "is required")
	}
	return v, nil
}

// money accepts positive amounts with at most two decimal places. Stored
// sums are only exact at paise precision.
func money(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return apperr.Validation(field, "must be greater than zero")
	}
	if !d.Equal(d.Round(2)) {
		return apperr.Validation(field, "must have at most two decimal places")
	}
	return nil
}

func validDate(field, value string) (time.Time, error) {
	t, err := timeutil.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperr.Validation(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func validMonth(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if _, err := timeutil.ParseMonth(v); err != nil {
		return "", apperr.Validation(field, "must be a month in YYYY-MM format")
	}
	return v, nil
}

func validPhone(value string) (string, error) {
	v, err := required("phone", value)
	if err != nil {
		return "", err
	}
	if !phonePattern.MatchString(v) || len(anyDigit.FindAllString(v, -1)) < minPhoneDigits {
		return "", apperr.Validation("phone", "must be 7 to 15 characters with at least 7 digits")
	}
	return v, nil
}

// pastOrToday rejects dates after today in the business zone.
func (r *Rules) pastOrToday(field, value string) (string, error) {
	t, err := validDate(field, value)
	if err != nil {
		return "", err
	}
	if t.After(timeutil.StartOfDay(r.Now())) {
		return "", apperr.Validation(field, "cannot be in the future")
	}
	return t.Format(timeutil.DateLayout), nil
}

// customerCode checks a client-supplied code against the configured pattern
// and numeric range.
func (r *Rules) customerCode(value string) (string, error) {
	code := strings.TrimSpace(value)
	if !r.CodePattern.MatchString(code) {
		return "", apperr.Validation("customer_code", "has an invalid format")
	}
	n, err := strconv.Atoi(codeDigits.FindString(r.codeNumber(code)))
	if err != nil || n < r.CodeMin || n > r.CodeMax {
		return "", apperr.Validation("customer_code",
			fmt.Sprintf("number must be between %d and %d", r.CodeMin, r.CodeMax))
	}
	return code, nil
}

// codeNumber isolates the numeric part: what follows the last separator, or
// what follows the default prefix in unseparated legacy codes like GD7001.
func (r *Rules) codeNumber(code string) string {
	if i := strings.LastIndexAny(code, "- "); i >= 0 {
		return code[i+1:]
	}
	if p := len(r.CodePrefix); p > 0 && len(code) > p && strings.EqualFold(code[:p], r.CodePrefix) {
		return code[p:]
	}
	return code
}

// schemeRef treats a missing or zero scheme id as "no scheme".
func schemeRef(id *int) *int {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
