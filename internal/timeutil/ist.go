package timeutil

import (
	"time"
)

// Local is the business time zone. Defaults to Indian Standard Time.
var Local *time.Location

func init() {
	Local = loadOrIST("Asia/Kolkata")
}

func loadOrIST(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Fallback: create fixed zone if tzdata is not available
		return time.FixedZone("IST", 5*60*60+30*60) // UTC+5:30
	}
	return loc
}

// SetLocation switches the business time zone.
func SetLocation(name string) {
	if name != "" {
		Local = loadOrIST(name)
	}
}

// Clock yields the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// Now returns the current time in the business zone
func Now() time.Time {
	return time.Now().In(Local)
}

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

// MonthYear formats t as YYYY-MM in the business zone.
func MonthYear(t time.Time) string {
	return t.In(Local).Format(MonthLayout)
}

// ParseDate parses a YYYY-MM-DD date in the business zone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Local)
}

// ParseMonth parses a YYYY-MM month in the business zone.
func ParseMonth(value string) (time.Time, error) {
	return time.ParseInLocation(MonthLayout, value, Local)
}

// MonthsFrom lists n consecutive YYYY-MM months starting with start's month.
func MonthsFrom(start time.Time, n int) []string {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, Local)
	months := make([]string, 0, n)
	for i := 0; i < n; i++ {
		months = append(months, first.AddDate(0, i, 0).Format(MonthLayout))
	}
	return months
}

// StartOfDay returns the start of day (00:00:00) for the given time
func StartOfDay(t time.Time) time.Time {
	l := t.In(Local)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, Local)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	MonthLayout    = "2006-01"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
