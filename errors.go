package benchkit

import (
	"errors"
	"fmt"
)

// Category identifies which of the three independent registries an
// error refers to.
type Category string

const (
	CategoryTask   Category = "task"
	CategoryMethod Category = "method"
	CategoryResult Category = "result"
)

// DuplicateTypeError reports a registration attempt for an identifier
// already present in the same category. The same identifier in two
// different categories is legal.
type DuplicateTypeError struct {
	// Category is the registry that rejected the identifier.
	Category Category

	// Name is the duplicate identifier.
	Name string
}

// Error implements the error interface.
func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("%s type %q already registered", e.Category, e.Name)
}

// UnknownTypeError reports a lookup or decode against an identifier
// with no registered descriptor in the category.
type UnknownTypeError struct {
	// Category is the registry that was searched.
	Category Category

	// Name is the unresolved identifier.
	Name string
}

// Error implements the error interface.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown %s type %q", e.Category, e.Name)
}

// ConfigurationError reports a misuse of the framework surface: an
// invalid type descriptor, malformed constructor arguments, or a run
// attempted with no callback installed.
type ConfigurationError struct {
	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s", e.Reason)
}

// ExecutionError reports a run callback failure. The failed run leaves
// no record behind; the cause is available via Unwrap.
type ExecutionError struct {
	// TaskType and MethodType identify the pair that was running.
	TaskType   string
	MethodType string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("run %s with %s: %v", e.TaskType, e.MethodType, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExecutionError) Unwrap() error { return e.Err }

// DecodeError reports a persisted payload that could not be decoded,
// or an instance whose encoding does not survive a round trip.
type DecodeError struct {
	// Category and Name identify the descriptor involved.
	Category Category
	Name     string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s %q: %v", e.Category, e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error { return e.Err }

// StorageError reports an I/O failure in the persistence layer.
type StorageError struct {
	// Op names the failed operation.
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error { return e.Err }

// IsDuplicateType reports whether err is (or wraps) a
// DuplicateTypeError. Uses errors.As to handle wrapped errors.
func IsDuplicateType(err error) bool {
	var de *DuplicateTypeError
	return errors.As(err, &de)
}

// IsUnknownType reports whether err is (or wraps) an UnknownTypeError.
func IsUnknownType(err error) bool {
	var ue *UnknownTypeError
	return errors.As(err, &ue)
}

// IsConfiguration reports whether err is (or wraps) a
// ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsExecution reports whether err is (or wraps) an ExecutionError.
func IsExecution(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee)
}

// IsDecode reports whether err is (or wraps) a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
