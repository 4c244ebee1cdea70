package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry holds form configurations keyed by application type.
// It backs the offline CLI commands and seeds the store at boot.
type Registry struct {
	mu    sync.RWMutex
	forms map[ApplicationType][]*FormConfiguration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		forms: make(map[ApplicationType][]*FormConfiguration),
	}
}

// Register adds a form configuration. Registering a form whose name
// matches an existing one for the same type replaces it.
func (r *Registry) Register(f *FormConfiguration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.forms[f.ApplicationType]
	for i, have := range existing {
		if have.Name == f.Name {
			existing[i] = f
			return
		}
	}
	r.forms[f.ApplicationType] = append(existing, f)
}

// Get retrieves the form resolved for an application type: the default
// active form first, then any active form.
func (r *Registry) Get(t ApplicationType) (*FormConfiguration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var fallback *FormConfiguration
	for _, f := range r.forms[t] {
		if !f.IsActive {
			continue
		}
		if f.IsDefault {
			return f, true
		}
		if fallback == nil {
			fallback = f
		}
	}
	if fallback != nil {
		return fallback, true
	}
	return nil, false
}

// All returns every registered form in application-type order.
func (r *Registry) All() []*FormConfiguration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*FormConfiguration
	for _, t := range ApplicationTypes() {
		result = append(result, r.forms[t]...)
	}
	return result
}

// Config is the top-level YAML file format for form configurations.
type Config struct {
	Version string              `yaml:"version"`
	Forms   []FormConfiguration `yaml:"forms"`
}

func parseConfig(data []byte, config *Config) error {
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// LoadFromYAML loads form configurations from YAML bytes. Every loaded
// form must pass its invariant check.
func (r *Registry) LoadFromYAML(data []byte) error {
	var config Config
	if err := parseConfig(data, &config); err != nil {
		return err
	}

	for i := range config.Forms {
		f := &config.Forms[i]
		if err := f.CheckInvariants(); err != nil {
			return fmt.Errorf("invalid form configuration: %w", err)
		}
		r.Register(f)
	}
	return nil
}

// LoadFromPath loads form configurations from a YAML file or directory.
func (r *Registry) LoadFromPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !isYAMLFile(p) {
				return nil
			}
			return r.loadFile(p)
		})
	}

	return r.loadFile(path)
}

// LoadEmbedded loads form configurations from an embedded filesystem.
func (r *Registry) LoadEmbedded(fsys embed.FS, dir string) error {
	return fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isYAMLFile(path) {
			return nil
		}

		data, err := fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		return r.LoadFromYAML(data)
	})
}

func (r *Registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := r.LoadFromYAML(data); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func isYAMLFile(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
