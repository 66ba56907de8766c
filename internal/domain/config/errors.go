// Package config loads the optional user configuration and resolves
// per-unit toggles.
package config

import (
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeConfigParse   = "CONFIG_PARSE"
	ErrCodeConfigInvalid = "CONFIG_INVALID"
)

// UserError represents a user-friendly error with an actionable
// suggestion.
type UserError struct {
	Code       string // Error code for categorization
	Message    string // User-friendly error message
	Context    string // File path or other location context
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, " (at %s)", e.Context)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain support.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() for comparing error codes.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewParseError creates a UserError for an unparseable config file.
func NewParseError(path string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeConfigParse,
		Message:    "configuration file could not be parsed",
		Context:    path,
		Suggestion: "check the TOML syntax; remove the file to fall back to defaults",
		Underlying: err,
	}
}

// NewInvalidError creates a UserError for a structurally valid but
// semantically bad config.
func NewInvalidError(path, detail string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigInvalid,
		Message:    "configuration is invalid: " + detail,
		Context:    path,
		Suggestion: "edit the named field or remove it to use the default",
	}
}
