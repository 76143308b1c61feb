// ABOUTME: Error taxonomy for index building and recommendation queries
// ABOUTME: Sentinel error types matched with errors.Is across package boundaries
package bookerr

import "fmt"

// ErrInvalidData matches any InvalidDataError.
var ErrInvalidData = &InvalidDataError{}

// InvalidDataError reports malformed or empty source data at build time.
type InvalidDataError struct {
	Field   string
	Message string
}

// NewInvalidDataError creates an InvalidDataError for the given field.
func NewInvalidDataError(field, message string) *InvalidDataError {
	return &InvalidDataError{Field: field, Message: message}
}

func (e *InvalidDataError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid data in %s: %s", e.Field, e.Message)
	}
	if e.Message != "" {
		return "invalid data: " + e.Message
	}
	return "invalid data"
}

// Is implements errors.Is matching on the error type.
func (e *InvalidDataError) Is(target error) bool {
	_, ok := target.(*InvalidDataError)
	return ok
}

// ErrDimensionMismatch matches any DimensionMismatchError.
var ErrDimensionMismatch = &DimensionMismatchError{}

// DimensionMismatchError reports an internal layout inconsistency between
// the encoders and the combiner. It always indicates a programming error.
type DimensionMismatchError struct {
	What     string
	Expected int
	Got      int
}

// NewDimensionMismatchError creates a DimensionMismatchError.
func NewDimensionMismatchError(what string, expected, got int) *DimensionMismatchError {
	return &DimensionMismatchError{What: what, Expected: expected, Got: got}
}

func (e *DimensionMismatchError) Error() string {
	if e.What == "" {
		return "dimension mismatch"
	}
	return fmt.Sprintf("dimension mismatch in %s: expected %d, got %d", e.What, e.Expected, e.Got)
}

// Is implements errors.Is matching on the error type.
func (e *DimensionMismatchError) Is(target error) bool {
	_, ok := target.(*DimensionMismatchError)
	return ok
}

// ErrIndexNotBuilt matches any IndexNotBuiltError.
var ErrIndexNotBuilt = &IndexNotBuiltError{}

// IndexNotBuiltError is returned when an index is queried before Build.
type IndexNotBuiltError struct{}

func (e *IndexNotBuiltError) Error() string {
	return "neighbor index has not been built"
}

// Is implements errors.Is matching on the error type.
func (e *IndexNotBuiltError) Is(target error) bool {
	_, ok := target.(*IndexNotBuiltError)
	return ok
}

// ErrQueryDimension matches any QueryDimensionError.
var ErrQueryDimension = &QueryDimensionError{}

// QueryDimensionError is returned when a query vector width does not match
// the width the index was built with.
type QueryDimensionError struct {
	Expected int
	Got      int
}

func (e *QueryDimensionError) Error() string {
	return fmt.Sprintf("query dimension %d does not match index dimension %d", e.Got, e.Expected)
}

// Is implements errors.Is matching on the error type.
func (e *QueryDimensionError) Is(target error) bool {
	_, ok := target.(*QueryDimensionError)
	return ok
}

// ErrValidation matches any ValidationError.
var ErrValidation = &ValidationError{}

// ValidationError is a rejected user request, e.g. a blank query.
// Callers present it as a normal outcome rather than a failure.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError with a user-facing message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return e.Field + " is invalid"
	}
	return "validation failed"
}

// Is implements errors.Is matching on the error type.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ErrNotFound matches any NotFoundError.
var ErrNotFound = &NotFoundError{}

// NotFoundError reports a lookup of a book id that does not exist.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("book %d not found", e.ID)
}

// Is implements errors.Is matching on the error type.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
