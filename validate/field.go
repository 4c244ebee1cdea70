package validate

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"time"

	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/value"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
)

// dateLayouts are tried in order when checking date fields.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006-01",
	"2006",
}

// TypeCheck verifies a non-empty value conforms to the field's input
// type. Only email, phone, number, and date carry intrinsic formats;
// every other type passes and is constrained solely by explicit rules.
func TypeCheck(f *schema.Field, v any) *Issue {
	switch f.Type {
	case schema.FieldEmail:
		if !emailPattern.MatchString(value.AsText(v)) {
			return typeIssue(f, "must be a valid email address")
		}
	case schema.FieldPhone:
		if !phonePattern.MatchString(value.AsText(v)) {
			return typeIssue(f, "must be a valid phone number")
		}
	case schema.FieldNumber:
		if f64 := value.AsFloat(v); math.IsNaN(f64) || math.IsInf(f64, 0) {
			return typeIssue(f, "must be a number")
		}
	case schema.FieldDate:
		if !parsesAsDate(value.AsText(v)) {
			return typeIssue(f, "must be a valid date")
		}
	}
	return nil
}

func typeIssue(f *schema.Field, msg string) *Issue {
	return &Issue{
		Field:   f.ID,
		Label:   f.Label,
		Code:    CodeInvalidType,
		Message: fmt.Sprintf("%s %s", displayName(f), msg),
	}
}

func parsesAsDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// ApplyRule applies one explicit validation rule to a non-empty value,
// returning nil when the rule passes.
//
// Rules of type custom always pass: they are a declared extension point
// for rule types without an executable implementation, not an error.
// Unknown rule types also pass, preserving forward compatibility.
func ApplyRule(rule schema.ValidationRule, v any, f *schema.Field) *Issue {
	switch rule.Type {
	case schema.RuleRequired:
		if value.IsEmpty(v) {
			return ruleIssue(rule, f, "%s is required")
		}
	case schema.RuleMinLength:
		if len(value.AsText(v)) < value.AsInt(rule.Value) {
			return ruleIssue(rule, f, fmt.Sprintf("%%s must be at least %d characters", value.AsInt(rule.Value)))
		}
	case schema.RuleMaxLength:
		if len(value.AsText(v)) > value.AsInt(rule.Value) {
			return ruleIssue(rule, f, fmt.Sprintf("%%s must be at most %d characters", value.AsInt(rule.Value)))
		}
	case schema.RulePattern:
		pattern, err := regexp.Compile(value.AsText(rule.Value))
		if err != nil {
			// A malformed pattern is a configuration mistake; rejecting
			// submissions over it would punish the applicant, so the rule
			// passes and the problem is logged for the administrator.
			slog.Warn("invalid pattern rule, skipping",
				"field", f.ID, "pattern", value.AsText(rule.Value), "error", err)
			return nil
		}
		if !pattern.MatchString(value.AsText(v)) {
			return ruleIssue(rule, f, "%s has an invalid format")
		}
	case schema.RuleEmail:
		if !emailPattern.MatchString(value.AsText(v)) {
			return ruleIssue(rule, f, "%s must be a valid email address")
		}
	case schema.RulePhone:
		if !phonePattern.MatchString(value.AsText(v)) {
			return ruleIssue(rule, f, "%s must be a valid phone number")
		}
	case schema.RuleCustom:
		return nil
	default:
		slog.Warn("unknown validation rule type, skipping",
			"field", f.ID, "rule", string(rule.Type))
	}
	return nil
}

func ruleIssue(rule schema.ValidationRule, f *schema.Field, format string) *Issue {
	msg := rule.Message
	if msg == "" {
		msg = fmt.Sprintf(format, displayName(f))
	}
	return &Issue{
		Field:   f.ID,
		Label:   f.Label,
		Code:    string(rule.Type),
		Message: msg,
	}
}

func displayName(f *schema.Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}
