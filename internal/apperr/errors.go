// Package apperr holds the error taxonomy shared by the store, the services
// and the HTTP layer. Callers classify with errors.As.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnauthorized is returned for bad credentials and invalid sessions.
var ErrUnauthorized = errors.New("invalid credentials")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func NotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// BalanceExceededError rejects a delivery that would push the delivered total
// past the winning amount.
type BalanceExceededError struct {
	Amount    decimal.Decimal
	Remaining decimal.Decimal
}

func (e *BalanceExceededError) Error() string {
	return fmt.Sprintf("Delivery amount (₹%s) exceeds remaining balance. Maximum allowed: ₹%s",
		e.Amount.String(), e.Remaining.String())
}

type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ConstraintError reports a uniqueness or integrity violation.
type ConstraintError struct {
	Field string
	Value string
	Err   error
}

func (e *ConstraintError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
	}
	return fmt.Sprintf("%s violates a constraint", e.Field)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

func Constraint(field, value string) error {
	return &ConstraintError{Field: field, Value: value}
}

// LockedError is returned while an account is locked after repeated failed
// logins.
type LockedError struct {
	Minutes int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("Too many failed login attempts. Please try again in %d minutes.", e.Minutes)
}
