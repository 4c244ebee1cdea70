package schema

import (
	"embed"
	"fmt"
)

// Baseline form definitions, one file per application type. These are the
// forms synthesized when intake is requested for a type that has no stored
// configuration yet.
//
//go:embed defaults/*.yaml
var defaultForms embed.FS

// DefaultForm returns the built-in baseline form for an application type.
// Each call parses the embedded definition fresh, so callers own the
// returned configuration and may persist or mutate it freely.
func DefaultForm(t ApplicationType) (*FormConfiguration, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown application type %q", t)
	}

	data, err := defaultForms.ReadFile("defaults/" + string(t) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no baseline form for type %q: %w", t, err)
	}

	var config Config
	if err := parseConfig(data, &config); err != nil {
		return nil, fmt.Errorf("baseline form for type %q: %w", t, err)
	}
	if len(config.Forms) == 0 {
		return nil, fmt.Errorf("baseline file for type %q defines no forms", t)
	}

	f := &config.Forms[0]
	if err := f.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("baseline form for type %q: %w", t, err)
	}
	return f, nil
}
