package routetree

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
//
// Configuration problems are surfaced at registration time and checked
// with errors.Is(). A failed lookup is never an error; Lookup reports it
// through its boolean result.
var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrUnsupported    = errors.New("unsupported pattern syntax")
	ErrConflict       = errors.New("conflicting registration")
	ErrInvalidSpec    = errors.New("invalid spec")
	ErrPatternAbsent  = errors.New("pattern not registered")
)

// PatternError reports a malformed or unsupported path pattern.
type PatternError struct {
	Pattern string
	Segment string
	Message string
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("pattern %q: segment %q: %s", e.Pattern, e.Segment, e.Message)
	}
	return fmt.Sprintf("pattern %q: %s", e.Pattern, e.Message)
}

// Is checks if the error matches the target.
func (e *PatternError) Is(target error) bool {
	if target == ErrInvalidPattern {
		return true
	}
	_, ok := target.(*PatternError)
	return ok
}

// NewPatternError creates a new PatternError.
func NewPatternError(pattern, segment, message string) *PatternError {
	return &PatternError{Pattern: pattern, Segment: segment, Message: message}
}

// UnsupportedError reports use of pattern syntax that is recognized by
// the grammar but deliberately not implemented, such as the `{/name}`
// and `{+name}` modifier forms.
type UnsupportedError struct {
	Segment string
	Feature string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("segment %q: %s is not implemented", e.Segment, e.Feature)
}

// Is checks if the error matches the target.
func (e *UnsupportedError) Is(target error) bool {
	if target == ErrUnsupported {
		return true
	}
	_, ok := target.(*UnsupportedError)
	return ok
}

// NewUnsupportedError creates a new UnsupportedError.
func NewUnsupportedError(segment, feature string) *UnsupportedError {
	return &UnsupportedError{Segment: segment, Feature: feature}
}

// ConflictError reports a registration that violates a tree invariant:
// a wildcard and literal children at the same level, or two different
// capture names bound to the same slot.
type ConflictError struct {
	Segment  string
	Existing string
	Message  string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.Existing != "" {
		return fmt.Sprintf("segment %q conflicts with existing %q: %s", e.Segment, e.Existing, e.Message)
	}
	return fmt.Sprintf("segment %q: %s", e.Segment, e.Message)
}

// Is checks if the error matches the target.
func (e *ConflictError) Is(target error) bool {
	if target == ErrConflict {
		return true
	}
	_, ok := target.(*ConflictError)
	return ok
}

// NewConflictError creates a new ConflictError.
func NewConflictError(segment, existing, message string) *ConflictError {
	return &ConflictError{Segment: segment, Existing: existing, Message: message}
}

// SpecError reports a missing or malformed spec passed to AddSpec or
// DelSpec.
type SpecError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SpecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("spec error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("spec error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *SpecError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *SpecError) Is(target error) bool {
	if target == ErrInvalidSpec {
		return true
	}
	_, ok := target.(*SpecError)
	return ok || errors.Is(e.Cause, target)
}

// NewSpecError creates a new SpecError.
func NewSpecError(message string) *SpecError {
	return &SpecError{Message: message}
}

// NewSpecErrorWithCause creates a new SpecError with a cause.
func NewSpecErrorWithCause(message string, cause error) *SpecError {
	return &SpecError{Message: message, Cause: cause}
}
