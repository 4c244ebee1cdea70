// Package rules evaluates conditional-logic clauses: the comparisons that
// decide whether a field is shown, hidden, required, or optional based on
// another field's submitted value.
package rules

import (
	"log/slog"
	"strings"

	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/value"
)

// Evaluate applies a single comparison operator.
//
// Unknown operators evaluate to true. Callers must treat an unrecognized
// operator as "condition satisfied" rather than failing, so configurations
// written against future operators degrade instead of breaking.
//
// greater_than and less_than coerce both operands numerically; a
// non-numeric operand coerces to NaN, which compares false in both
// directions. Preserved as observed behavior, flagged as a candidate
// defect in DESIGN.md.
func Evaluate(op schema.Operator, actual, expected any) bool {
	switch op {
	case schema.OpEquals:
		return equals(actual, expected)
	case schema.OpNotEquals:
		return !equals(actual, expected)
	case schema.OpContains:
		s, ok := actual.(string)
		if !ok {
			return false
		}
		return strings.Contains(s, value.AsText(expected))
	case schema.OpGreaterThan:
		return value.AsFloat(actual) > value.AsFloat(expected)
	case schema.OpLessThan:
		return value.AsFloat(actual) < value.AsFloat(expected)
	case schema.OpInArray:
		return inArray(actual, expected)
	default:
		slog.Warn("unknown condition operator, treating condition as met",
			"operator", string(op))
		return true
	}
}

// equals implements strict equality over submitted JSON scalars: values
// are equal only when their kinds agree and their contents match.
// Lists and objects never compare equal.
func equals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		// Numeric values from JSON and YAML decode to different Go types
		// (float64 vs int), so compare them numerically.
		af, aok := value.AsNumber(a)
		bf, bok := value.AsNumber(b)
		if aok && bok {
			return af == bf
		}
		return false
	}
}

func inArray(actual, expected any) bool {
	switch arr := expected.(type) {
	case []any:
		for _, item := range arr {
			if equals(actual, item) {
				return true
			}
		}
	case []string:
		for _, item := range arr {
			if equals(actual, item) {
				return true
			}
		}
	}
	return false
}

// Visibility is the outcome of resolving a field's conditional logic
// against one submission.
type Visibility struct {
	// Visible fields participate in validation; hidden fields are
	// skipped entirely, even when required.
	Visible bool

	// Required is the field's effective required flag after clause
	// actions are applied.
	Required bool
}

// ResolveVisibility evaluates a field's clauses in declaration order
// against the submission; the first clause whose condition is met decides
// the outcome. A field with no conditional logic, or none of whose clauses
// match, keeps its declared required flag and stays visible.
func ResolveVisibility(f *schema.Field, submission map[string]any) Visibility {
	vis := Visibility{Visible: true, Required: f.Required}

	for _, c := range f.ConditionalLogic {
		if !Evaluate(c.Condition, submission[c.DependsOn], c.Value) {
			continue
		}
		switch c.Action {
		case schema.ActionShow:
			vis.Visible = true
		case schema.ActionHide:
			vis.Visible = false
		case schema.ActionRequire:
			vis.Required = true
		case schema.ActionOptional:
			vis.Required = false
		default:
			// Unknown actions leave the field visible as declared.
			slog.Warn("unknown clause action, leaving field visible",
				"field", f.ID, "action", string(c.Action))
		}
		break
	}

	return vis
}
