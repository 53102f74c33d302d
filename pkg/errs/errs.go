// Package errs defines the failure kinds a tiling run can end with.
package errs

import (
	"errors"
	"fmt"
)

// Kind sentinels, matched with errors.Is.
var (
	// ErrConfiguration covers missing grid hints and page/margin
	// combinations that leave no printable pixels.
	ErrConfiguration = errors.New("configuration error")

	// ErrInput is returned when the source image is missing or cannot be decoded.
	ErrInput = errors.New("input error")

	// ErrOutput is returned when the document or tiles cannot be written.
	ErrOutput = errors.New("output error")
)

// Error ties an underlying error to one of the kind sentinels.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool { return target == e.Kind }

// Configf builds a configuration error from a format string.
func Configf(format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Err: fmt.Errorf(format, args...)}
}

// Input wraps err as an input error for op. A nil err stays nil.
func Input(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrInput, Op: op, Err: err}
}

// Output wraps err as an output error for op. A nil err stays nil.
func Output(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrOutput, Op: op, Err: err}
}

// KindOf returns the kind sentinel of err, or nil when err carries none.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
