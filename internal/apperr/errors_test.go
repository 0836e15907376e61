package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBalanceExceededMessage(t *testing.T) {
	err := &BalanceExceededError{Amount: decimal.NewFromInt(2500), Remaining: decimal.NewFromInt(2000)}
	assert.Equal(t, "Delivery amount (₹2500) exceeds remaining balance. Maximum allowed: ₹2000", err.Error())
}

func TestWrappedErrorsStillClassify(t *testing.T) {
	wrapped := fmt.Errorf("failed to add customer: %w", Constraint("customer_code", "GD7 001"))

	var ce *ConstraintError
	assert.True(t, errors.As(wrapped, &ce))
	assert.Equal(t, "customer_code", ce.Field)

	var nf *NotFoundError
	assert.False(t, errors.As(wrapped, &nf))
}
