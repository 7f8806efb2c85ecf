package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// kindError tags an error with the operation that produced it and a
// sentinel kind callers can match with errors.Is.
type kindError struct {
	op    string
	kind  error
	cause error
}

func (e *kindError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.cause)
	}
	return fmt.Sprintf("%s: %v", e.op, e.kind)
}

func (e *kindError) Is(target error) bool {
	return errors.Is(e.kind, target)
}

func (e *kindError) Unwrap() error {
	return e.cause
}

// NewKind returns an error of the given kind attributed to op.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}

// WrapKind attributes cause to op under the given kind.
func WrapKind(op string, kind error, cause error) error {
	return &kindError{op: op, kind: kind, cause: cause}
}
