// Package errors provides the error taxonomy shared by readers, writers and
// the conversion pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrFormatUnknown indicates a format name or extension that is not registered
	ErrFormatUnknown = errors.New("format unknown")
	// ErrMissingField indicates a record or field list lacks a required field
	ErrMissingField = errors.New("missing required field")
	// ErrMalformedInput indicates a structurally invalid source
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnsupportedDirection indicates a read-only format used for writing or vice versa
	ErrUnsupportedDirection = errors.New("unsupported direction")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// FormatUnknownError is returned by registry lookups that find nothing.
type FormatUnknownError struct {
	Name string // Format name or extension that was looked up
}

func (e *FormatUnknownError) Error() string {
	if e.Name == "" {
		return "unknown format: no name or extension given"
	}
	return fmt.Sprintf("unknown format %s", e.Name)
}

func (e *FormatUnknownError) Unwrap() error {
	return ErrFormatUnknown
}

// MissingFieldError reports a required field absent from a record or field list.
type MissingFieldError struct {
	Field   string // Name of the missing field
	Context string // Where it was required (e.g. "record", "fastq writer")
}

func (e *MissingFieldError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: field '%s' is required", e.Context, e.Field)
	}
	return fmt.Sprintf("field '%s' is required", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// ParseError represents a structurally invalid input file.
type ParseError struct {
	Format  string // Format being parsed (e.g., "nexus", "genbank")
	Line    int    // 1-based line number, 0 if unknown
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s at line %d: %s", e.Format, e.Line, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedInput
}

// Is reports ErrMalformedInput even when an underlying error is attached.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedInput
}

// UnsupportedError represents a format used in a direction it does not support.
type UnsupportedError struct {
	Format    string // Format name
	Direction string // "read" or "write"
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("conversion to the %s format is not supported (%s)", e.Format, e.Direction)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupportedDirection
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ConversionError wraps a failure of one conversion with the source it was converting.
type ConversionError struct {
	Source string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("converting %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// BatchError collects the per-file failures of a directory conversion.
type BatchError struct {
	Failures []*ConversionError
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%d file(s) failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Helper functions for creating common errors

// NewFormatUnknown creates a FormatUnknownError
func NewFormatUnknown(name string) *FormatUnknownError {
	return &FormatUnknownError{Name: name}
}

// NewMissingField creates a MissingFieldError
func NewMissingField(field, context string) *MissingFieldError {
	return &MissingFieldError{Field: field, Context: context}
}

// NewParse creates a ParseError
func NewParse(format string, line int, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Line:    line,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(format, direction string) *UnsupportedError {
	return &UnsupportedError{Format: format, Direction: direction}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
