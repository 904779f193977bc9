package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// ErrInsufficientData: the input series is shorter than the window an
	// indicator or simulation needs. Always recovered locally by callers.
	ErrInsufficientData = &Error{Code: "INSUFFICIENT_DATA", Message: "insufficient data"}

	// ErrInvalidParameter: strategy parameters rejected at the boundary,
	// e.g. a short MA length not below the long one.
	ErrInvalidParameter = &Error{Code: "INVALID_PARAMETER", Message: "invalid parameter"}

	// ErrInvalidCandle: a candle violates the OHLC envelope or ordering.
	ErrInvalidCandle = &Error{Code: "INVALID_CANDLE", Message: "invalid candle"}

	// ErrDataUnavailable: the historical data source failed or timed out.
	ErrDataUnavailable = &Error{Code: "DATA_UNAVAILABLE", Message: "historical data unavailable"}

	// ErrConfigInvalid: the loaded configuration fails validation.
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "invalid configuration"}
)
