package validate

import (
	"strings"
	"testing"

	"github.com/hume-connect/intake/schema"
)

func testForm() *schema.FormConfiguration {
	return &schema.FormConfiguration{
		ID:              "form-1",
		Name:            "Clinical Intake",
		ApplicationType: schema.TypeClinical,
		IsActive:        true,
		Fields: []schema.Field{
			{ID: "full_name", Label: "Full Name", Type: schema.FieldText, Required: true, Order: 1},
			{ID: "email", Label: "Email", Type: schema.FieldEmail, Required: true, Order: 2},
			{
				ID: "profession", Label: "Profession", Type: schema.FieldSelect, Required: true, Order: 3,
				Options: []schema.Option{
					{Value: "physician", Label: "Physician"},
					{Value: "naturopath", Label: "Naturopath"},
					{Value: "other", Label: "Other"},
				},
			},
			{
				ID: "other_profession", Label: "Other Profession", Type: schema.FieldText, Order: 4,
				ConditionalLogic: []schema.Clause{
					{DependsOn: "profession", Condition: schema.OpEquals, Value: "other", Action: schema.ActionRequire},
					{DependsOn: "profession", Condition: schema.OpNotEquals, Value: "other", Action: schema.ActionHide},
				},
			},
			{
				ID: "bio", Label: "Bio", Type: schema.FieldTextarea, Order: 5,
				ValidationRules: []schema.ValidationRule{
					{Type: schema.RuleMinLength, Value: 10},
					{Type: schema.RuleMaxLength, Value: 20},
				},
			},
		},
	}
}

func validSubmission() map[string]any {
	return map[string]any{
		"full_name":  "Jane Roe",
		"email":      "jane@example.com",
		"profession": "physician",
	}
}

func TestValidateAccepts(t *testing.T) {
	result := Validate(validSubmission(), testForm())
	if !result.IsValid() {
		t.Fatalf("expected valid, got errors: %v", result.Messages())
	}
	if result.HasWarnings() {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestValidateMissingRequired(t *testing.T) {
	result := Validate(map[string]any{}, testForm())
	if result.IsValid() {
		t.Fatal("expected errors for empty submission")
	}

	// full_name, email, profession required; other_profession is hidden
	// because an absent profession satisfies the not_equals clause.
	byField := map[string]Issue{}
	for _, e := range result.Errors {
		byField[e.Field] = e
	}
	for _, want := range []string{"full_name", "email", "profession"} {
		issue, ok := byField[want]
		if !ok {
			t.Errorf("missing required error for %s", want)
			continue
		}
		if issue.Code != CodeRequired {
			t.Errorf("%s code = %q, want %q", want, issue.Code, CodeRequired)
		}
	}
}

func TestValidateRequiredShortCircuits(t *testing.T) {
	form := &schema.FormConfiguration{
		ID: "f", Name: "f", ApplicationType: schema.TypeCustom, IsActive: true,
		Fields: []schema.Field{
			{
				ID: "bio", Label: "Bio", Type: schema.FieldText, Required: true, Order: 1,
				ValidationRules: []schema.ValidationRule{
					{Type: schema.RuleMinLength, Value: 10},
				},
			},
		},
	}
	result := Validate(map[string]any{}, form)
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", result.Messages())
	}
	if result.Errors[0].Code != CodeRequired {
		t.Errorf("code = %q, want %q", result.Errors[0].Code, CodeRequired)
	}
}

func TestValidateTypeFailureSuppressesRules(t *testing.T) {
	form := &schema.FormConfiguration{
		ID: "f", Name: "f", ApplicationType: schema.TypeCustom, IsActive: true,
		Fields: []schema.Field{
			{
				ID: "email", Label: "Email", Type: schema.FieldEmail, Order: 1,
				ValidationRules: []schema.ValidationRule{
					{Type: schema.RuleMinLength, Value: 50},
				},
			},
		},
	}
	result := Validate(map[string]any{"email": "not-an-address"}, form)
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Messages())
	}
	if result.Errors[0].Code != CodeInvalidType {
		t.Errorf("code = %q, want %q", result.Errors[0].Code, CodeInvalidType)
	}
}

func TestValidateRuleErrorsAccumulate(t *testing.T) {
	form := &schema.FormConfiguration{
		ID: "f", Name: "f", ApplicationType: schema.TypeCustom, IsActive: true,
		Fields: []schema.Field{
			{
				ID: "code", Label: "Code", Type: schema.FieldText, Order: 1,
				ValidationRules: []schema.ValidationRule{
					{Type: schema.RuleMinLength, Value: 10},
					{Type: schema.RulePattern, Value: `^[0-9]+$`},
				},
			},
		},
	}
	result := Validate(map[string]any{"code": "abc"}, form)
	if len(result.Errors) != 2 {
		t.Fatalf("expected two errors, got %v", result.Messages())
	}
}

func TestValidateConditionalRequire(t *testing.T) {
	data := validSubmission()
	data["profession"] = "other"

	result := Validate(data, testForm())
	if result.IsValid() {
		t.Fatal("expected other_profession to become required")
	}
	if len(result.Errors) != 1 || result.Errors[0].Field != "other_profession" {
		t.Errorf("errors = %v", result.Messages())
	}

	data["other_profession"] = "Herbalist"
	result = Validate(data, testForm())
	if !result.IsValid() {
		t.Errorf("expected valid, got %v", result.Messages())
	}
}

func TestValidateHiddenFieldSkipped(t *testing.T) {
	data := validSubmission()
	// profession is physician, so other_profession is hidden; a rule
	// violation on it must not surface.
	data["other_profession"] = ""

	result := Validate(data, testForm())
	if !result.IsValid() {
		t.Errorf("hidden field produced errors: %v", result.Messages())
	}
}

func TestValidateOptionSuggestion(t *testing.T) {
	data := validSubmission()
	data["profession"] = "physcian"

	result := Validate(data, testForm())
	if !result.IsValid() {
		t.Fatalf("option mismatch must not block: %v", result.Messages())
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v", result.Warnings)
	}
	w := result.Warnings[0]
	if w.Code != CodeInvalidOption || w.Suggestion != "physician" {
		t.Errorf("warning = %+v", w)
	}
}

func TestValidateOptionNoMatchListsOptions(t *testing.T) {
	data := validSubmission()
	data["profession"] = "astronaut"

	result := Validate(data, testForm())
	if !result.IsValid() {
		t.Fatalf("option mismatch must not block: %v", result.Messages())
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v", result.Warnings)
	}
	w := result.Warnings[0]
	if w.Suggestion != "" {
		t.Errorf("unexpected suggestion %q", w.Suggestion)
	}
	if !strings.Contains(w.Message, "physician") {
		t.Errorf("message should list valid options: %s", w.Message)
	}
}

func TestValidateMultiselectWarnsPerValue(t *testing.T) {
	form := &schema.FormConfiguration{
		ID: "f", Name: "f", ApplicationType: schema.TypeCustom, IsActive: true,
		Fields: []schema.Field{
			{
				ID: "focus", Label: "Focus", Type: schema.FieldMultiselect, Order: 1,
				Options: []schema.Option{
					{Value: "wellness"}, {Value: "longevity"},
				},
			},
		},
	}
	data := map[string]any{"focus": []any{"wellness", "wellnes", "bogus"}}
	result := Validate(data, form)
	if !result.IsValid() {
		t.Fatalf("errors: %v", result.Messages())
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", result.Warnings)
	}
	if result.Warnings[0].Suggestion != "wellness" {
		t.Errorf("first warning = %+v", result.Warnings[0])
	}
}

func TestValidateUnexpectedKeys(t *testing.T) {
	data := validSubmission()
	data["applicationType"] = "clinical"
	data["zz_extra"] = "x"
	data["aa_extra"] = "y"

	result := Validate(data, testForm())
	if !result.IsValid() {
		t.Fatalf("unexpected keys must not block: %v", result.Messages())
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("warnings = %v", result.Warnings)
	}
	// Deterministic ordering.
	if result.Warnings[0].Field != "aa_extra" || result.Warnings[1].Field != "zz_extra" {
		t.Errorf("warnings out of order: %v", result.Warnings)
	}
	for _, w := range result.Warnings {
		if w.Code != CodeUnexpectedField {
			t.Errorf("code = %q, want %q", w.Code, CodeUnexpectedField)
		}
	}
}

func TestValidateCustomRuleMessageOverride(t *testing.T) {
	form := &schema.FormConfiguration{
		ID: "f", Name: "f", ApplicationType: schema.TypeCustom, IsActive: true,
		Fields: []schema.Field{
			{
				ID: "handle", Label: "Handle", Type: schema.FieldText, Order: 1,
				ValidationRules: []schema.ValidationRule{
					{Type: schema.RuleMinLength, Value: 5, Message: "Handles need five characters"},
				},
			},
		},
	}
	result := Validate(map[string]any{"handle": "ab"}, form)
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v", result.Messages())
	}
	if result.Errors[0].Message != "Handles need five characters" {
		t.Errorf("message = %q", result.Errors[0].Message)
	}
}
