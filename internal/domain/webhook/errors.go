package webhook

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignature rejects a delivery that failed authentication. Nothing is written.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedEvent rejects a delivery whose body cannot be parsed. Nothing is written.
	ErrMalformedEvent = errors.New("malformed webhook event")
	ErrRecordNotFound = errors.New("idempotency record not found")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedEvent, fmt.Sprintf(format, args...))
}
