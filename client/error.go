package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrContract is wrapped by every error caused by a caller breaking an
	// executor's preconditions: a missing or malformed URL, an odd number of
	// key/value strings, a malformed header line or an unsupported method.
	// No network call is attempted when it is returned.
	ErrContract = errors.New("contract violation")
	// ErrAllocation is returned when the response buffer cannot grow.
	ErrAllocation = errors.New("response buffer allocation failed")
	// ErrBodyTooLarge is returned when a response exceeds the limit set via [WithMaxBodySize].
	ErrBodyTooLarge = errors.New("response body exceeds limit")
	// ErrTransfer wraps any failure reported by the underlying transport.
	// The status code of the [Request] stays 0 when it is returned.
	ErrTransfer = errors.New("transfer failed")
	// ErrInFlight is joined with [ErrContract] when a [Request] is handed to
	// an executor while another transfer is still writing into it.
	ErrInFlight = errors.New("request already in flight")
)

// ContractError describes which precondition of an executor was violated.
type ContractError struct {
	Op     string
	Fields FieldErrors
	Err    error
}

func (e *ContractError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Fields.Error())
	}

	return b.String()
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// contractErr builds a *ContractError for op, wrapping [ErrContract] and
// detail when given.
func contractErr(op string, detail error) error {
	err := ErrContract
	if detail != nil {
		err = fmt.Errorf("%w: %w", ErrContract, detail)
	}

	return &ContractError{Op: op, Err: err}
}

// FieldError represents a single validation failure for a named field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

// Error implements the error interface, returning a human-readable
// summary of all field errors.
func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}

	return strings.Join(parts, "; ")
}
