// Package yamlconfig loads owner entities from YAML files.
//
//	entities:
//	  - name: web
//	    default_target: endpoint:web-vm
//	    has_dag_target: true
//	    system_actions:
//	      __create__: create
//	    fragment_actions:
//	      __pre_create__: pre_action_create
//	    values:
//	      region: eu-west-1
package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/vk/runbookgo/internal/config"
	"github.com/vk/runbookgo/internal/ctxlog"
	"github.com/vk/runbookgo/internal/model"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// FileYAML represents the YAML structure of one configuration file.
type FileYAML struct {
	Entities []EntityYAML `yaml:"entities"`
}

// EntityYAML represents a single entity.
type EntityYAML struct {
	Name            string            `yaml:"name"`
	DefaultTarget   string            `yaml:"default_target,omitempty"`
	HasDagTarget    *bool             `yaml:"has_dag_target,omitempty"`
	SystemActions   map[string]string `yaml:"system_actions,omitempty"`
	FragmentActions map[string]string `yaml:"fragment_actions,omitempty"`
	Values          map[string]any    `yaml:"values,omitempty"`
}

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every path as a YAML file and merges the declared entities.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	m := config.NewModel()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		fileModel, err := l.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
		if err := m.Merge(fileModel); err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
	}

	logger.Debug("YAML loading complete.", "entities", len(m.Entities))
	return m, nil
}

// Parse parses the YAML content of one file. Unknown keys are rejected.
func (l *Loader) Parse(data []byte) (*config.Model, error) {
	var file FileYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	m := config.NewModel()
	for _, ey := range file.Entities {
		e, err := translateEntity(ey)
		if err != nil {
			return nil, err
		}
		if err := m.Add(e); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func translateEntity(ey EntityYAML) (*config.Entity, error) {
	e := &config.Entity{
		Name:                ey.Name,
		DagTarget:           true,
		SystemActionNames:   ey.SystemActions,
		FragmentActionNames: ey.FragmentActions,
		Values:              make(map[string]cty.Value, len(ey.Values)),
	}
	if ey.HasDagTarget != nil {
		e.DagTarget = *ey.HasDagTarget
	}
	if e.SystemActionNames == nil {
		e.SystemActionNames = config.StandardSystemActions()
	}
	if ey.DefaultTarget != "" {
		ref, err := model.ParseReference(ey.DefaultTarget)
		if err != nil {
			return nil, fmt.Errorf("entity '%s': invalid default_target: %w", ey.Name, err)
		}
		e.DefaultTarget = ref
	}
	for _, k := range slices.Sorted(maps.Keys(ey.Values)) {
		v, err := config.ToCtyValue(ey.Values[k])
		if err != nil {
			return nil, fmt.Errorf("entity '%s': value '%s': %w", ey.Name, k, err)
		}
		e.Values[k] = v
	}
	return e, nil
}
