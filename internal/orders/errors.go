package orders

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an order id has no row.
	ErrNotFound = errors.New("order not found")

	// ErrDuplicateNumber is returned when an insert collides with an
	// existing order_number. The service regenerates and retries.
	ErrDuplicateNumber = errors.New("order number already exists")
)

// ValidationError is a client-caused failure: a missing required field on
// creation, or an invalid status on update. It maps to HTTP 400 and never
// has a side effect.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
