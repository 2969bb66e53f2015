package orders

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by checkout and status transitions. Handlers map
// these onto HTTP statuses; everything else is treated as a store failure.
var (
	// ErrConcurrencyConflict means an optimistic check failed: the cart
	// snapshot or order status changed under us. Safe to retry once after
	// re-reading.
	ErrConcurrencyConflict = errors.New("concurrent modification detected")

	ErrOrderNotFound = errors.New("order not found")
)

// ValidationError rejects bad input: empty cart, unknown product, bad
// quantity, unknown delivery tier, missing tracking fields. Not retryable.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InvalidTransitionError rejects an illegal status change. The order is
// left untouched.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}

// StoreError wraps a persistence failure. Callers may retry with backoff;
// past the commit point the outcome must be determined by re-reading.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store unavailable: " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(err error) error {
	return &StoreError{Err: err}
}

// IsStoreUnavailable reports whether err is a StoreError.
func IsStoreUnavailable(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
