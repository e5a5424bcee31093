// Package errors provides custom error types for the contact merger.
// These errors enable programmatic error checking across the loader,
// merge, and export layers.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the contact merger
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthRequired indicates that API credentials are required but not available
	ErrAuthRequired = errors.New("authorization required")

	// ErrUnreadable indicates that a tabular input could not be decoded
	// with any of the supported text encodings
	ErrUnreadable = errors.New("unreadable input")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SourceError represents a failure while loading records from a contact source
type SourceError struct {
	Source  string // "addressbook", "directory"
	Origin  string // file path, DSN, or API endpoint
	Message string
	Err     error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Origin != "" {
		return fmt.Sprintf("source %s (%s): %s", e.Source, e.Origin, e.Message)
	}
	return fmt.Sprintf("source %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError
func NewSourceError(source, origin string, err error) *SourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &SourceError{
		Source:  source,
		Origin:  origin,
		Message: message,
		Err:     err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "yaml", "json"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// AuthenticationError represents an authentication/authorization error
// against the remote contacts API.
type AuthenticationError struct {
	Service string
	Method  string // "oauth", "token_file"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("authentication error for %s (%s): %s", e.Service, e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthRequired
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(service, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{
		Service: service,
		Method:  method,
		Message: message,
		Err:     err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAuthRequired checks if an error indicates missing API authorization
func IsAuthRequired(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}

// IsUnreadable checks if an error indicates undecodable input
func IsUnreadable(err error) bool {
	return errors.Is(err, ErrUnreadable)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapSource wraps an error as a SourceError
func WrapSource(source, origin string, err error) error {
	if err == nil {
		return nil
	}
	return NewSourceError(source, origin, err)
}
