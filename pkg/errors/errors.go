// Package errors defines the error taxonomy shared by every estimator and
// preprocessing component in houseprice.
//
// The package provides typed errors that work with Go 1.13+ errors.Is/errors.As:
//
//   - NotFittedError: an estimator was used before Fit
//   - DimensionError: input shape disagrees with the fitted shape
//   - ValueError: an input value is invalid for the operation
//   - ModelError: wraps a lower-level failure with operation context
//
// Sentinel errors (ErrEmptyData, ErrNotFitted, ...) allow callers to branch on
// failure class without inspecting concrete types. Recover converts panics from
// numerical code into ordinary error returns so that Fit/Transform/Predict never
// panic across package boundaries.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure classes.
var (
	// ErrEmptyData indicates an operation received an empty matrix or slice.
	ErrEmptyData = errors.New("empty data")

	// ErrNotFitted indicates an estimator was used before training.
	ErrNotFitted = errors.New("estimator is not fitted")

	// ErrDimensionMismatch indicates incompatible input dimensions.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNotImplemented indicates a requested capability is not implemented.
	ErrNotImplemented = errors.New("not implemented")
)

// NotFittedError is returned when a method requiring a fitted estimator is
// called before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError for the given estimator and method.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("goml: %s: call Fit before %s: %v", e.ModelName, e.Method, ErrNotFitted)
}

// Unwrap allows errors.Is(err, ErrNotFitted).
func (e *NotFittedError) Unwrap() error { return ErrNotFitted }

// DimensionError is returned when input dimensions disagree with what the
// estimator learned during Fit.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError for the given operation.
// Axis 0 is rows (samples), axis 1 is columns (features).
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("goml: %s: expected %d along axis %d, got %d: %v",
		e.Op, e.Expected, e.Axis, e.Got, ErrDimensionMismatch)
}

// Unwrap allows errors.Is(err, ErrDimensionMismatch).
func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// ValueError is returned when an input value is invalid for the operation.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("goml: %s: %s", e.Op, e.Message)
}

// ModelError wraps a lower-level error with operation context.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError wrapping err.
func NewModelError(op, message string, err error) *ModelError {
	return &ModelError{Op: op, Message: message, Err: err}
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("goml: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("goml: %s: %s: %v", e.Op, e.Message, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/errors.As traversal.
func (e *ModelError) Unwrap() error { return e.Err }

// Recover converts a panic into an error assigned through errPtr. Use as a
// deferred call at the top of exported estimator methods:
//
//	func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
//		defer errors.Recover(&err, "StandardScaler.Fit")
//		...
//	}
func Recover(errPtr *error, op string) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*errPtr = NewModelError(op, "panic during operation", e)
			return
		}
		*errPtr = NewModelError(op, fmt.Sprintf("panic during operation: %v", r), nil)
	}
}
