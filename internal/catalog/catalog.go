// Package catalog holds the content of the TrustSphere modules.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"github.com/ad/trustsphere/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed modules.yaml
var modulesYAML []byte

type Action struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Response  string `yaml:"response"`
	Completes bool   `yaml:"completes,omitempty"`
}

type Module struct {
	ID      models.ModuleID `yaml:"id"`
	Slug    string          `yaml:"slug"`
	Title   string          `yaml:"title"`
	Summary string          `yaml:"summary"`
	Intro   string          `yaml:"intro"`
	Actions []Action        `yaml:"actions"`
}

func (m *Module) Action(id string) (*Action, bool) {
	for i := range m.Actions {
		if m.Actions[i].ID == id {
			return &m.Actions[i], true
		}
	}
	return nil, false
}

type Catalog struct {
	Modules []Module `yaml:"modules"`
}

// Load parses the embedded module catalog.
func Load() (*Catalog, error) {
	return Parse(modulesYAML)
}

// Parse decodes and validates a catalog. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Module(id models.ModuleID) (*Module, bool) {
	for i := range c.Modules {
		if c.Modules[i].ID == id {
			return &c.Modules[i], true
		}
	}
	return nil, false
}

func (c *Catalog) Validate() error {
	var errs []error
	seen := make(map[models.ModuleID]bool)

	for _, m := range c.Modules {
		if !m.ID.IsValid() {
			errs = append(errs, fmt.Errorf("module %d: unknown module id", m.ID))
			continue
		}
		if seen[m.ID] {
			errs = append(errs, fmt.Errorf("module %d: duplicate module", m.ID))
			continue
		}
		seen[m.ID] = true

		if m.Title == "" || m.Intro == "" {
			errs = append(errs, fmt.Errorf("module %d: title and intro are required", m.ID))
		}

		completing := 0
		actionIDs := make(map[string]bool)
		for _, a := range m.Actions {
			if a.ID == "" || a.Label == "" || a.Response == "" {
				errs = append(errs, fmt.Errorf("module %d: action %q needs id, label and response", m.ID, a.ID))
			}
			if actionIDs[a.ID] {
				errs = append(errs, fmt.Errorf("module %d: duplicate action %q", m.ID, a.ID))
			}
			actionIDs[a.ID] = true
			if a.Completes {
				completing++
			}
		}
		if completing != 1 {
			errs = append(errs, fmt.Errorf("module %d: expected exactly one completing action, got %d", m.ID, completing))
		}
	}

	for _, id := range models.AllModules {
		if !seen[id] {
			errs = append(errs, fmt.Errorf("module %d: missing", id))
		}
	}

	return errors.Join(errs...)
}
