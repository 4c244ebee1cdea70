package schema

import (
	"fmt"
	"time"
)

// FormConfiguration is the schema describing one application type's
// submittable fields. Fields are owned exclusively by their form; a field
// ID is unique within the form, not across forms.
type FormConfiguration struct {
	// ID is the configuration's storage identifier
	ID string `yaml:"id,omitempty" json:"id"`

	// Name is the human-readable configuration name
	Name string `yaml:"name" json:"name"`

	// Description documents what this configuration is for
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// ApplicationType is the partition key selecting which submission
	// flow this form applies to
	ApplicationType ApplicationType `yaml:"application_type" json:"applicationType"`

	// Fields is the ordered field schema
	Fields []Field `yaml:"fields" json:"fields"`

	// IsActive marks the form as usable for intake
	IsActive bool `yaml:"is_active" json:"isActive"`

	// IsDefault marks the form as the one resolved for its type.
	// At most one form per application type holds this flag; the store
	// clears siblings atomically when it is set.
	IsDefault bool `yaml:"is_default" json:"isDefault"`

	// Version is an informational semantic version string
	Version string `yaml:"version,omitempty" json:"version"`

	CreatedAt time.Time `yaml:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at,omitempty" json:"updatedAt,omitempty"`

	// fieldIndex is built lazily for fast lookups
	fieldIndex map[string]*Field
}

// GetField returns a field by ID.
func (f *FormConfiguration) GetField(id string) (*Field, bool) {
	f.buildIndex()
	fld, ok := f.fieldIndex[id]
	return fld, ok
}

// HasField checks if a field exists.
func (f *FormConfiguration) HasField(id string) bool {
	_, ok := f.GetField(id)
	return ok
}

// FieldIDs returns all field IDs in declaration order.
func (f *FormConfiguration) FieldIDs() []string {
	ids := make([]string, len(f.Fields))
	for i, fld := range f.Fields {
		ids[i] = fld.ID
	}
	return ids
}

// RequiredFields returns the IDs of all statically required fields.
// Conditional requiredness is resolved per submission, not here.
func (f *FormConfiguration) RequiredFields() []string {
	var result []string
	for _, fld := range f.Fields {
		if fld.Required {
			result = append(result, fld.ID)
		}
	}
	return result
}

func (f *FormConfiguration) buildIndex() {
	if f.fieldIndex != nil {
		return
	}
	f.fieldIndex = make(map[string]*Field, len(f.Fields))
	for i := range f.Fields {
		f.fieldIndex[f.Fields[i].ID] = &f.Fields[i]
	}
}

// Invalidate drops the lazily built field index. Call after mutating Fields.
func (f *FormConfiguration) Invalidate() {
	f.fieldIndex = nil
}

// CheckInvariants verifies the form is internally consistent: a known
// application type, at least one field, and field IDs and order values
// unique within the form. The store runs this before every write.
func (f *FormConfiguration) CheckInvariants() error {
	if !f.ApplicationType.Valid() {
		return fmt.Errorf("unknown application type %q", f.ApplicationType)
	}
	if len(f.Fields) == 0 {
		return fmt.Errorf("form %q has no fields", f.Name)
	}

	seenIDs := make(map[string]bool, len(f.Fields))
	seenOrder := make(map[int]string, len(f.Fields))
	for _, fld := range f.Fields {
		if fld.ID == "" {
			return fmt.Errorf("form %q has a field with an empty field ID", f.Name)
		}
		if seenIDs[fld.ID] {
			return fmt.Errorf("duplicate field ID %q in form %q", fld.ID, f.Name)
		}
		seenIDs[fld.ID] = true

		if other, dup := seenOrder[fld.Order]; dup {
			return fmt.Errorf("fields %q and %q share order %d in form %q", other, fld.ID, fld.Order, f.Name)
		}
		seenOrder[fld.Order] = fld.ID
	}
	return nil
}

// Summary is the form identity attached to validation responses.
type Summary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Summarize returns the form's identity for response envelopes.
func (f *FormConfiguration) Summarize() Summary {
	return Summary{ID: f.ID, Name: f.Name, Version: f.Version}
}
