package validate

import (
	"fmt"
	"strings"
)

// Issue codes attached to errors and warnings.
const (
	CodeRequired        = "required"
	CodeInvalidType     = "invalid_type"
	CodeInvalidOption   = "invalid_option"
	CodeUnexpectedField = "unexpected_field"
)

// Issue is one validation error or warning for a single field.
type Issue struct {
	// Field is the field ID the issue applies to
	Field string `json:"field"`

	// Label is the field's human-readable name
	Label string `json:"label"`

	// Message is the human-readable explanation
	Message string `json:"message"`

	// Code classifies the issue: required, invalid_type, a rule type,
	// invalid_option, or unexpected_field
	Code string `json:"type"`

	// Suggestion carries a fuzzy-matched replacement value, when one exists
	Suggestion string `json:"suggestion,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// Result accumulates every problem found while checking one submission.
// Errors block acceptance; warnings never do.
type Result struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// IsValid returns true if there are no errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Error returns a combined error message, or nil if valid.
func (r *Result) Error() error {
	if r.IsValid() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.String()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// Messages returns the error messages in order, for response envelopes.
func (r *Result) Messages() []string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return msgs
}
