package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for reporting and exit-code decisions.
// Config errors are fatal to the whole run; every other kind is a per-item
// condition recorded in the batch summary.
type ErrorKind string

const (
	// KindConfig marks bad run configuration (missing CSV, bad masters dir,
	// unparseable palette file). Aborts before any item is processed.
	KindConfig ErrorKind = "config"

	// KindValidation marks a bad CSV row or a path-unsafe field value.
	KindValidation ErrorKind = "validation"

	// KindMissingMaster marks a request whose selected master SVG does not
	// exist under the masters directory.
	KindMissingMaster ErrorKind = "missing-master"

	// KindTemplate marks malformed master SVG content.
	KindTemplate ErrorKind = "template"

	// KindFilesystem marks an I/O failure creating directories or writing
	// output files.
	KindFilesystem ErrorKind = "filesystem"

	// KindUnknown is the fallback classification for errors that carry no
	// domain type, e.g. a wrapped context.Canceled.
	KindUnknown ErrorKind = "unknown"
)

// ConfigError reports invalid run configuration. It is fatal: the batch
// never starts when construction or startup validation returns one.
type ConfigError struct {
	// Message describes what is wrong with the configuration.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Message, e.Err)
	}
	return "config: " + e.Message
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a ConfigError with the given message.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{Message: message}
}

// WrapConfigError creates a ConfigError wrapping an underlying error.
func WrapConfigError(message string, err error) *ConfigError {
	return &ConfigError{Message: message, Err: err}
}

// ValidationError reports a bad CSV row or a path-unsafe field value.
// Row is 0 when the error is not tied to a specific data row (e.g. a
// resolver-side traversal rejection carries the row via the request).
type ValidationError struct {
	// Row is the 1-based CSV data row index, or 0 when not row-scoped.
	Row int

	// Field is the offending column or field name (e.g. "Size (px)").
	Field string

	// Message describes what is wrong with the value.
	Message string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MissingMasterError reports that the master SVG selected for a request
// does not exist under the masters directory.
type MissingMasterError struct {
	// SizePx is the requested size that drove master selection.
	SizePx int

	// Path is the master file that was expected to exist.
	Path string
}

func (e *MissingMasterError) Error() string {
	return fmt.Sprintf("no master SVG for %dpx: %s does not exist", e.SizePx, e.Path)
}

// TemplateError reports malformed master SVG content. It aborts only the
// item being emitted, not the batch.
type TemplateError struct {
	// Path is the master file with the bad content.
	Path string

	// Message describes why the content was rejected.
	Message string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("master %s: %s", e.Path, e.Message)
}

// FileSystemError reports an I/O failure during directory creation or
// output writing. It is per-item: the batch continues with later requests.
type FileSystemError struct {
	// Op names the failed operation (e.g. "mkdir", "write", "rename").
	Op string

	// Path is the filesystem path involved.
	Path string

	// Err is the underlying OS error.
	Err error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *FileSystemError) Unwrap() error { return e.Err }

// Classify maps an error to its ErrorKind via errors.As, walking wrapped
// chains. Errors without a domain type classify as KindUnknown.
func Classify(err error) ErrorKind {
	var (
		configErr     *ConfigError
		validationErr *ValidationError
		masterErr     *MissingMasterError
		templateErr   *TemplateError
		fsErr         *FileSystemError
	)
	switch {
	case errors.As(err, &configErr):
		return KindConfig
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &masterErr):
		return KindMissingMaster
	case errors.As(err, &templateErr):
		return KindTemplate
	case errors.As(err, &fsErr):
		return KindFilesystem
	default:
		return KindUnknown
	}
}

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of a run.
type ExitCode int

const (
	// ExitSuccess indicates the run completed with full or partial success.
	// Partial success (some items failed, at least one succeeded) still
	// exits 0 unless strict mode was requested.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigInvalid indicates the run configuration was rejected
	// before any item was processed.
	ExitConfigInvalid ExitCode = 2

	// ExitValidationFailed indicates CSV validation failed in
	// validate-only mode, or item failures occurred in strict mode.
	ExitValidationFailed ExitCode = 3

	// ExitBatchFailed indicates every item in a non-empty batch failed.
	ExitBatchFailed ExitCode = 4

	// ExitPublishFailed indicates the batch succeeded but the GitHub
	// publish step did not.
	ExitPublishFailed ExitCode = 5

	// ExitInterrupted indicates the run was cancelled by a signal.
	// 128+SIGINT, matching shell convention.
	ExitInterrupted ExitCode = 130
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error { return e.Err }

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
