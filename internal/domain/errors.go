package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput means there are no measures to select from.
	ErrEmptyInput = errors.New("alyvixcheck: no measures")
	// ErrUnknownStatusCode means a state is outside OK..UNKNOWN.
	ErrUnknownStatusCode = errors.New("alyvixcheck: unknown status code")
)

// EmptyInputError reports a test case whose API response carried no measures.
type EmptyInputError struct {
	TestCase string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("test case %q: no measures", e.TestCase)
}

func (e *EmptyInputError) Unwrap() error { return ErrEmptyInput }

type UnknownStatusCodeError struct {
	Code  int
	Field string
}

func (e *UnknownStatusCodeError) Error() string {
	return fmt.Sprintf("%s=%d: unknown status code", e.Field, e.Code)
}

func (e *UnknownStatusCodeError) Unwrap() error { return ErrUnknownStatusCode }
