package gator

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the library and its providers. Callers match
// them with errors.Is after any number of wrapping layers.
var (
	// ErrUnsupportedCurrency reports a currency code outside the supported set.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrConversionUnavailable reports that a currency rate could not be
	// obtained for the requested pair and date.
	ErrConversionUnavailable = errors.New("currency conversion unavailable")

	// ErrPriceNotFound reports that no closing price exists for a symbol at
	// or before the requested date.
	ErrPriceNotFound = errors.New("price not found")

	// ErrInstrumentNotFound reports that a symbol could not be resolved to a
	// display name.
	ErrInstrumentNotFound = errors.New("instrument not found")
)

// ValidationError reports a transaction field that failed validation.
// Invalid transactions never reach the ledger.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid transaction: %s %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
