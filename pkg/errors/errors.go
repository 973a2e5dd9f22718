package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// EnumerationError represents a failure to produce the complete resource
// inventory. Always fatal: reconciling against a partial inventory would
// desynchronize the policy against resources that still exist.
type EnumerationError struct {
	Scope string
	Page  int
	Err   error
}

// NewEnumerationError constructs an EnumerationError.
func NewEnumerationError(scope string, page int, err error) error {
	return &EnumerationError{Scope: scope, Page: page, Err: err}
}

func (e *EnumerationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Page > 0 {
		return fmt.Sprintf("enumeration error in %s (page %d): %v", e.Scope, e.Page, e.Err)
	}
	return fmt.Sprintf("enumeration error in %s: %v", e.Scope, e.Err)
}

// Unwrap exposes the underlying error.
func (e *EnumerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PolicyError represents a failure reading the managed policy object.
type PolicyError struct {
	PolicyID string
	Message  string
	Err      error
}

// NewPolicyError constructs a PolicyError.
func NewPolicyError(policyID, message string, err error) error {
	return &PolicyError{PolicyID: policyID, Message: message, Err: err}
}

func (e *PolicyError) Error() string {
	if e == nil {
		return ""
	}
	if e.PolicyID != "" {
		return fmt.Sprintf("policy error [%s]: %s", e.PolicyID, e.Message)
	}
	return fmt.Sprintf("policy error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *PolicyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ApplyError represents a failed membership write. It carries the diff that
// was being applied so the failure report can state the operator's exposure.
type ApplyError struct {
	PolicyID string
	Added    []string
	Removed  []string
	Err      error
}

// NewApplyError constructs an ApplyError for the attempted diff.
func NewApplyError(policyID string, added, removed []string, err error) error {
	return &ApplyError{PolicyID: policyID, Added: added, Removed: removed, Err: err}
}

func (e *ApplyError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("apply error [%s] (+%d/-%d): %v", e.PolicyID, len(e.Added), len(e.Removed), e.Err)
}

// Unwrap exposes the underlying error.
func (e *ApplyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
