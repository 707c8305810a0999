// Package hclconfig loads owner entities from HCL files.
//
//	entity "web" {
//	  default_target   = endpoint("web-vm")
//	  has_dag_target   = true
//	  system_actions   = { "__create__" = "create" }
//	  fragment_actions = { "__pre_create__" = "pre_action_create" }
//	  values           = { region = "eu-west-1", replicas = 3 }
//	}
//
// default_target accepts the same reference forms as the `target` argument of
// a task call: `endpoint("name")`, `ref(...)` or a "kind:name" string.
package hclconfig

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/runbookgo/internal/config"
	"github.com/vk/runbookgo/internal/ctxlog"
	"github.com/vk/runbookgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Entities []*entityBlock `hcl:"entity,block"`
}

type entityBlock struct {
	Name            string            `hcl:"name,label"`
	DefaultTarget   hcl.Expression    `hcl:"default_target,optional"`
	HasDagTarget    *bool             `hcl:"has_dag_target,optional"`
	SystemActions   map[string]string `hcl:"system_actions,optional"`
	FragmentActions map[string]string `hcl:"fragment_actions,optional"`
	Values          hcl.Expression    `hcl:"values,optional"`
}

// Load parses every path as an HCL file and merges the declared entities.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	evalCtx, err := registry.New().EvalContext()
	if err != nil {
		return nil, err
	}

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range paths {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Entities {
			entity, err := l.translateEntity(ctx, block, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			if err := model.Add(entity); err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
		}
	}

	logger.Debug("HCL loading complete.", "entities", len(model.Entities))
	return model, nil
}

func (l *Loader) translateEntity(ctx context.Context, b *entityBlock, evalCtx *hcl.EvalContext) (*config.Entity, error) {
	e := &config.Entity{
		Name:                b.Name,
		DagTarget:           true,
		SystemActionNames:   b.SystemActions,
		FragmentActionNames: b.FragmentActions,
		Values:              map[string]cty.Value{},
	}
	if b.HasDagTarget != nil {
		e.DagTarget = *b.HasDagTarget
	}
	if e.SystemActionNames == nil {
		e.SystemActionNames = config.StandardSystemActions()
	}

	if written(ctx, b.DefaultTarget, "default_target") {
		val, diags := b.DefaultTarget.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("entity '%s': invalid default_target: %w", b.Name, diags)
		}
		ref, err := registry.ReferenceFromValue(val)
		if err != nil {
			return nil, fmt.Errorf("entity '%s': invalid default_target: %w", b.Name, err)
		}
		e.DefaultTarget = ref
	}

	if written(ctx, b.Values, "values") {
		val, diags := b.Values.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("entity '%s': invalid values: %w", b.Name, diags)
		}
		if !val.Type().IsObjectType() && !val.Type().IsMapType() {
			return nil, fmt.Errorf("entity '%s': values must be an object, got %s", b.Name, val.Type().FriendlyName())
		}
		for k, v := range val.AsValueMap() {
			e.Values[k] = v
		}
	}
	return e, nil
}
