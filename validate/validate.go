// Package validate checks a submission against a form configuration,
// accumulating every field's problems into a single result: blocking
// errors for required, type, and rule failures; non-blocking warnings for
// near-miss option values and unexpected keys.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hume-connect/intake/match"
	"github.com/hume-connect/intake/rules"
	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/value"
)

// ReservedKey is the submission key carrying routing metadata rather than
// field data; it is never reported as unexpected.
const ReservedKey = "applicationType"

// Validate checks responseData against form. Every field is checked and
// every problem reported in one result; nothing is thrown mid-iteration.
//
// Per field, checks short-circuit in this order: a hidden field is
// skipped entirely; a required empty field yields exactly one error; an
// optional empty field is skipped; a type failure suppresses rule checks.
// Rule failures, by contrast, accumulate: each failing rule yields its
// own error.
func Validate(responseData map[string]any, form *schema.FormConfiguration) *Result {
	result := &Result{}

	for i := range form.Fields {
		f := &form.Fields[i]
		vis := rules.ResolveVisibility(f, responseData)
		if !vis.Visible {
			continue
		}

		v := responseData[f.ID]
		if value.IsEmpty(v) {
			if vis.Required {
				result.Errors = append(result.Errors, Issue{
					Field:   f.ID,
					Label:   f.Label,
					Code:    CodeRequired,
					Message: fmt.Sprintf("%s is required", displayName(f)),
				})
			}
			continue
		}

		if issue := TypeCheck(f, v); issue != nil {
			result.Errors = append(result.Errors, *issue)
			continue
		}

		for _, rule := range f.ValidationRules {
			if issue := ApplyRule(rule, v, f); issue != nil {
				result.Errors = append(result.Errors, *issue)
			}
		}

		if f.Type.HasOptions() && len(f.Options) > 0 {
			checkOptions(result, f, v)
		}
	}

	checkUnexpectedKeys(result, responseData, form)

	return result
}

// checkOptions warns about submitted values that are not among a choice
// field's option values. Malformed option values never reject the
// submission; a close fuzzy match is surfaced as a suggestion, anything
// else as a warning listing the valid options.
func checkOptions(result *Result, f *schema.Field, v any) {
	values := value.AsTextSlice(v)
	if f.Type != schema.FieldMultiselect && len(values) > 1 {
		values = values[:1]
	}

	options := f.OptionValues()
	for _, s := range values {
		if f.HasOption(s) {
			continue
		}
		if suggestion, ok := match.ClosestOption(s, options); ok {
			result.Warnings = append(result.Warnings, Issue{
				Field:      f.ID,
				Label:      f.Label,
				Code:       CodeInvalidOption,
				Message:    fmt.Sprintf("%q is not a known option for %s; did you mean %q?", s, displayName(f), suggestion),
				Suggestion: suggestion,
			})
			continue
		}
		result.Warnings = append(result.Warnings, Issue{
			Field:   f.ID,
			Label:   f.Label,
			Code:    CodeInvalidOption,
			Message: fmt.Sprintf("%q is not a known option for %s; valid options: %s", s, displayName(f), strings.Join(options, ", ")),
		})
	}
}

// checkUnexpectedKeys warns once for every submitted key the schema does
// not declare, excluding the reserved routing key.
func checkUnexpectedKeys(result *Result, responseData map[string]any, form *schema.FormConfiguration) {
	keys := make([]string, 0, len(responseData))
	for key := range responseData {
		if key == ReservedKey || form.HasField(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		result.Warnings = append(result.Warnings, Issue{
			Field:   key,
			Label:   key,
			Code:    CodeUnexpectedField,
			Message: fmt.Sprintf("unexpected field %q is not part of the form configuration", key),
		})
	}
}
