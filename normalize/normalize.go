// Package normalize rewrites a validated submission into canonical form:
// trimmed and lowercased emails, digits-only phone numbers, and option
// values resolved to their canonical spelling.
//
// Normalization is best-effort cleanup. It never introduces errors and is
// idempotent: normalizing an already-normalized submission is a no-op.
package normalize

import (
	"strings"

	"github.com/hume-connect/intake/match"
	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/value"
)

// Normalize returns a copy of responseData with per-field canonical
// transforms applied. Fields without a transform for their type, and
// values that cannot be resolved, pass through unchanged.
func Normalize(responseData map[string]any, form *schema.FormConfiguration) map[string]any {
	out := make(map[string]any, len(responseData))
	for k, v := range responseData {
		out[k] = v
	}

	for i := range form.Fields {
		f := &form.Fields[i]
		v, ok := out[f.ID]
		if !ok || value.IsEmpty(v) {
			continue
		}

		switch f.Type {
		case schema.FieldEmail:
			out[f.ID] = strings.ToLower(strings.TrimSpace(value.AsText(v)))
		case schema.FieldPhone:
			out[f.ID] = Phone(value.AsText(v))
		case schema.FieldText, schema.FieldTextarea:
			out[f.ID] = strings.TrimSpace(value.AsText(v))
		case schema.FieldSelect, schema.FieldRadio:
			out[f.ID] = canonicalOption(value.AsText(v), f)
		case schema.FieldMultiselect:
			values := value.AsTextSlice(v)
			canonical := make([]string, len(values))
			for j, s := range values {
				canonical[j] = canonicalOption(s, f)
			}
			out[f.ID] = canonical
		}
	}

	return out
}

// Phone strips everything from a phone number except digits and a
// leading plus sign.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	if strings.HasPrefix(s, "+") {
		b.WriteByte('+')
	}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonicalOption resolves a submitted choice value to the canonical
// option value: exact match first, then the lowercased hyphenated form,
// then the fuzzy matcher. An unresolvable value passes through unchanged.
func canonicalOption(s string, f *schema.Field) string {
	if f.HasOption(s) {
		return s
	}

	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
	if f.HasOption(normalized) {
		return normalized
	}

	if closest, ok := match.ClosestOption(s, f.OptionValues()); ok {
		return closest
	}
	return s
}
