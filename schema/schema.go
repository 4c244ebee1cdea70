// Package schema describes form configurations: the ordered field
// definitions, validation rules, and conditional-visibility clauses that
// drive application intake for one application type.
package schema

// FieldType identifies the input kind of a field.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldEmail       FieldType = "email"
	FieldPhone       FieldType = "phone"
	FieldNumber      FieldType = "number"
	FieldSelect      FieldType = "select"
	FieldMultiselect FieldType = "multiselect"
	FieldRadio       FieldType = "radio"
	FieldCheckbox    FieldType = "checkbox"
	FieldDate        FieldType = "date"
	FieldFile        FieldType = "file"
)

// HasOptions returns true for field types constrained by an option list.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldSelect, FieldMultiselect, FieldRadio:
		return true
	default:
		return false
	}
}

// RuleType identifies a validation rule.
type RuleType string

const (
	RuleRequired  RuleType = "required"
	RuleMinLength RuleType = "minLength"
	RuleMaxLength RuleType = "maxLength"
	RulePattern   RuleType = "pattern"
	RuleEmail     RuleType = "email"
	RulePhone     RuleType = "phone"

	// RuleCustom is an extension point. Rules of this type always pass
	// until an executable implementation exists for them.
	RuleCustom RuleType = "custom"
)

// Operator compares a dependent field's value against a clause value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpInArray     Operator = "in_array"
)

// ClauseAction is the effect a matched conditional clause has on its field.
type ClauseAction string

const (
	ActionShow     ClauseAction = "show"
	ActionHide     ClauseAction = "hide"
	ActionRequire  ClauseAction = "require"
	ActionOptional ClauseAction = "optional"
)

// ApplicationType partitions form configurations by submission flow.
type ApplicationType string

const (
	TypeClinical  ApplicationType = "clinical"
	TypeAffiliate ApplicationType = "affiliate"
	TypeWholesale ApplicationType = "wholesale"
	TypeCustom    ApplicationType = "custom"
)

// ApplicationTypes lists every known application type.
func ApplicationTypes() []ApplicationType {
	return []ApplicationType{TypeClinical, TypeAffiliate, TypeWholesale, TypeCustom}
}

// Valid reports whether t is a known application type.
func (t ApplicationType) Valid() bool {
	switch t {
	case TypeClinical, TypeAffiliate, TypeWholesale, TypeCustom:
		return true
	default:
		return false
	}
}

// Option is one allowed value for select, multiselect, and radio fields.
type Option struct {
	// Value is the stored, canonical value
	Value string `yaml:"value" json:"value"`

	// Label is the human-readable name shown to the applicant
	Label string `yaml:"label" json:"label"`

	// Metadata holds additional option-specific settings
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// ValidationRule is one explicit constraint on a field's value.
type ValidationRule struct {
	// Type selects the check to run
	Type RuleType `yaml:"type" json:"type"`

	// Value parameterizes the check (length bound, regex pattern, ...)
	Value any `yaml:"value,omitempty" json:"value,omitempty"`

	// Message overrides the default failure message
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Clause makes a field's visibility or requiredness depend on another field.
type Clause struct {
	// DependsOn is the field ID whose submitted value is tested
	DependsOn string `yaml:"depends_on" json:"dependsOn"`

	// Condition is the comparison operator
	Condition Operator `yaml:"condition" json:"condition"`

	// Value is the comparison operand
	Value any `yaml:"value" json:"value"`

	// Action is applied when the condition is met
	Action ClauseAction `yaml:"action" json:"action"`
}

// Field describes one form field.
type Field struct {
	// ID is the field machine name, unique within its owning form
	ID string `yaml:"field_id" json:"fieldId"`

	// Label is the human-readable name, used in error messages
	Label string `yaml:"label" json:"label"`

	// Type is the input kind
	Type FieldType `yaml:"type" json:"type"`

	// Required indicates the field must have a value when visible
	Required bool `yaml:"required,omitempty" json:"required"`

	// Order positions the field within the form; unique per form
	Order int `yaml:"order" json:"order"`

	// Section is a free-form grouping tag
	Section string `yaml:"section,omitempty" json:"section,omitempty"`

	// Options constrains select, multiselect, and radio fields
	Options []Option `yaml:"options,omitempty" json:"options,omitempty"`

	// ValidationRules are applied in declaration order
	ValidationRules []ValidationRule `yaml:"validation_rules,omitempty" json:"validationRules,omitempty"`

	// ConditionalLogic controls visibility based on other fields;
	// the first matching clause wins
	ConditionalLogic []Clause `yaml:"conditional_logic,omitempty" json:"conditionalLogic,omitempty"`

	// DefaultValue pre-populates the field
	DefaultValue any `yaml:"default_value,omitempty" json:"defaultValue,omitempty"`

	// Readonly and Hidden are rendering hints carried through unchanged
	Readonly bool `yaml:"readonly,omitempty" json:"readonly,omitempty"`
	Hidden   bool `yaml:"hidden,omitempty" json:"hidden,omitempty"`
}

// OptionValues returns the canonical values of the field's options.
func (f *Field) OptionValues() []string {
	if len(f.Options) == 0 {
		return nil
	}
	values := make([]string, len(f.Options))
	for i, o := range f.Options {
		values[i] = o.Value
	}
	return values
}

// HasOption reports whether value is one of the field's option values.
func (f *Field) HasOption(value string) bool {
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}
