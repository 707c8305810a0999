package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vk/runbookgo/internal/model"
	"github.com/vk/runbookgo/internal/qualname"
	"github.com/vk/runbookgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// ValuesRoot is the namespace entity values are exposed under in action
// scripts, e.g. `values.region`.
const ValuesRoot = "values"

// Model is the unified, format-agnostic representation of all loaded entities.
type Model struct {
	Entities map[string]*Entity
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Entities: make(map[string]*Entity)}
}

// Add validates e and adds it. Entity names must be unique across all files.
func (m *Model) Add(e *Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, exists := m.Entities[e.Name]; exists {
		return fmt.Errorf("entity '%s' is declared more than once", e.Name)
	}
	m.Entities[e.Name] = e
	return nil
}

// Merge adds every entity of other.
func (m *Model) Merge(other *Model) error {
	for _, name := range other.Names() {
		if err := m.Add(other.Entities[name]); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the entity names in sorted order.
func (m *Model) Names() []string {
	return slices.Sorted(maps.Keys(m.Entities))
}

// Entity returns the named entity. An empty name selects the only entity
// when exactly one is declared.
func (m *Model) Entity(name string) (*Entity, error) {
	if name == "" {
		if len(m.Entities) == 1 {
			for _, e := range m.Entities {
				return e, nil
			}
		}
		return nil, fmt.Errorf("an entity name is required when %d entities are declared (%s)", len(m.Entities), strings.Join(m.Names(), ", "))
	}
	e, ok := m.Entities[name]
	if !ok {
		return nil, fmt.Errorf("entity '%s' not found", name)
	}
	return e, nil
}

// Entity is an owner of actions.
type Entity struct {
	Name string
	// DefaultTarget is backfilled on tasks without an explicit target.
	DefaultTarget *model.Reference
	// DagTarget controls whether the compiled DAG carries DefaultTarget.
	DagTarget bool
	// SystemActionNames maps lower-case `__name__` functions to system actions.
	SystemActionNames map[string]string
	// FragmentActionNames maps lower-case `__name__` functions to fragment actions.
	FragmentActionNames map[string]string
	// Values are constants visible to action scripts under ValuesRoot.
	Values map[string]cty.Value
}

// TaskTarget returns a copy of the default target, or nil.
func (e *Entity) TaskTarget() *model.Reference {
	if e.DefaultTarget == nil {
		return nil
	}
	ref := *e.DefaultTarget
	return &ref
}

func (e *Entity) HasDagTarget() bool { return e.DagTarget }

func (e *Entity) SystemActions() map[string]string { return e.SystemActionNames }

func (e *Entity) FragmentActions() map[string]string { return e.FragmentActionNames }

// Validate normalizes the action tables to lower-case keys and checks them.
func (e *Entity) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("entity name cannot be empty")
	}

	var err error
	if e.SystemActionNames, err = normalizeTable(e.Name, "system_actions", e.SystemActionNames); err != nil {
		return err
	}
	if e.FragmentActionNames, err = normalizeTable(e.Name, "fragment_actions", e.FragmentActionNames); err != nil {
		return err
	}
	for key := range e.SystemActionNames {
		if _, dup := e.FragmentActionNames[key]; dup {
			return fmt.Errorf("entity '%s': '%s' is both a system and a fragment action", e.Name, key)
		}
	}
	for key := range e.Values {
		if n, err := qualname.Parse(key); err != nil || len(n.Segments) != 1 {
			return fmt.Errorf("entity '%s': invalid value name '%s'", e.Name, key)
		}
	}
	return nil
}

// RegisterValues exposes the entity values to action scripts.
func (e *Entity) RegisterValues(r *registry.Registry) {
	for _, key := range slices.Sorted(maps.Keys(e.Values)) {
		r.RegisterValue(ValuesRoot+"."+key, e.Values[key])
	}
}

func normalizeTable(entity, attr string, table map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(table))
	for key, name := range table {
		lower := strings.ToLower(key)
		if len(lower) < 5 || !strings.HasPrefix(lower, "__") || !strings.HasSuffix(lower, "__") {
			return nil, fmt.Errorf("entity '%s': %s key '%s' must look like __name__", entity, attr, key)
		}
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("entity '%s': %s '%s' maps to an empty action name", entity, attr, key)
		}
		if _, dup := out[lower]; dup {
			return nil, fmt.Errorf("entity '%s': %s key '%s' is declared more than once", entity, attr, lower)
		}
		out[lower] = name
	}
	return out, nil
}
