package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound covers every owned-resource miss, including requests for
	// rows that exist but belong to another user.
	ErrNotFound = errors.New("not found")

	ErrDebtNotFound = errors.New("debt not found")

	ErrCardNotFound        = errors.New("card not found")
	ErrInvalidSecurityCode = errors.New("invalid security code")
	ErrCardBlocked         = errors.New("card blocked")
	ErrInsufficientFunds   = errors.New("insufficient funds")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrResetCodeInvalid   = errors.New("invalid or expired reset code")
)

// ValidationError rejects a request before any row is written.
type ValidationError struct {
	Message string
}

func (err *ValidationError) Error() string {
	return err.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// OverpaymentError rejects a payment that would exceed the debt total. It
// carries the amount still owed so callers can report it.
type OverpaymentError struct {
	Remaining decimal.Decimal
}

func (err *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds debt total, remaining %s", err.Remaining.StringFixed(2))
}
