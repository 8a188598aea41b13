package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/benchkit/benchkit"
	"github.com/benchkit/benchkit/engine"
	"github.com/benchkit/benchkit/metric"
	"github.com/benchkit/benchkit/plan"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Runtime failure (execution, storage, evaluation)
	ExitCommandError = 2 // Usage error (unknown types, bad arguments, bad flags)
)

// timeFormat renders record timestamps; nanosecond precision matches
// what the store persists.
const timeFormat = time.RFC3339Nano

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// commandError wraps a framework error with the exit code its kind
// demands: type-resolution and argument problems are usage errors,
// everything else is a runtime failure.
func commandError(message string, err error) *ExitError {
	code := ExitFailure
	if benchkit.IsUnknownType(err) || benchkit.IsDuplicateType(err) || benchkit.IsConfiguration(err) {
		code = ExitCommandError
	}
	var ce *plan.CompileError
	if errors.As(err, &ce) {
		code = ExitCommandError
	}
	if errors.Is(err, engine.ErrRunNotFound) {
		code = ExitCommandError
	}
	return WrapExitError(code, message, err)
}

// errorKind names the taxonomy bucket an error belongs to, for JSON
// consumers that dispatch on failure class rather than message text.
func errorKind(err error) string {
	switch {
	case benchkit.IsDuplicateType(err):
		return "duplicate_type"
	case benchkit.IsUnknownType(err):
		return "unknown_type"
	case benchkit.IsConfiguration(err):
		return "configuration"
	case benchkit.IsExecution(err):
		return "execution"
	case benchkit.IsDecode(err):
		return "decode"
	case benchkit.IsStorage(err):
		return "storage"
	case metric.IsEvaluation(err):
		return "evaluation"
	case errors.Is(err, engine.ErrRunNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// Response is the standard JSON envelope for CLI output.
type Response struct {
	Status string         `json:"status"`          // "ok" or "error"
	Data   any            `json:"data,omitempty"`  // success payload
	Error  *ResponseError `json:"error,omitempty"` // error details
}

// ResponseError carries a machine-readable failure in a Response.
type ResponseError struct {
	Kind    string `json:"kind"`    // taxonomy bucket, e.g. "execution"
	Message string `json:"message"` // human-readable message
}

// Success outputs a successful result in the configured format.
// Text-format commands render their own output and skip this.
func (f *OutputFormatter) Success(data any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(Response{
		Status: "ok",
		Data:   data,
	})
}

// Failure outputs an error envelope. JSON goes to Writer so consumers
// always receive a document; text goes to ErrWriter.
func (f *OutputFormatter) Failure(err error) {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		_ = enc.Encode(Response{
			Status: "error",
			Error: &ResponseError{
				Kind:    errorKind(err),
				Message: err.Error(),
			},
		})
		return
	}
	fmt.Fprintf(f.GetErrWriter(), "Error: %v\n", err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
