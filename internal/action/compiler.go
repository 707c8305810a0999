package action

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/vk/runbookgo/internal/ctxlog"
	"github.com/vk/runbookgo/internal/dag"
	"github.com/vk/runbookgo/internal/model"
	"github.com/vk/runbookgo/internal/registry"
	"github.com/vk/runbookgo/internal/source"
	"github.com/vk/runbookgo/internal/syntax"
	"github.com/vk/runbookgo/internal/visitor"
	"golang.org/x/sync/singleflight"
)

// State is the compilation state of a Compiler.
type State int

const (
	StateUncompiled State = iota
	StateCompiled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUncompiled:
		return "uncompiled"
	case StateCompiled:
		return "compiled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// NewID returns a fresh ULID string.
func NewID() string {
	return ulid.Make().String()
}

// Options configures a Compiler.
type Options struct {
	// NewID generates task, DAG and runbook refs. Defaults to NewID.
	NewID func() string
}

// Compiler compiles a single decorated function. It is safe for concurrent use.
type Compiler struct {
	fn    *source.Function
	owner Owner
	reg   *registry.Registry
	newID func() string

	// Fixed at construction so call-runbook tasks can reference the runbook
	// before it is compiled.
	runbookRef  string
	runbookName string
	dagName     string

	group singleflight.Group

	mu              sync.Mutex
	state           State
	result          *model.CompiledAction
	err             error
	targetsAssigned bool
}

// NewCompiler creates a compiler for fn declared on owner. owner may be nil.
func NewCompiler(fn *source.Function, owner Owner, reg *registry.Registry, opts Options) *Compiler {
	newID := opts.NewID
	if newID == nil {
		newID = NewID
	}
	c := &Compiler{fn: fn, owner: owner, reg: reg, newID: newID}
	c.runbookRef = newID()
	c.runbookName = shortID(c.runbookRef) + "_runbook"
	c.dagName = shortID(newID()) + "_dag"
	return c
}

// Name returns the declared function name.
func (c *Compiler) Name() string {
	return c.fn.Name
}

// Source returns the captured function.
func (c *Compiler) Source() *source.Function {
	return c.fn
}

// RunbookRef returns the ref the compiled runbook will carry.
func (c *Compiler) RunbookRef() string {
	return c.runbookRef
}

// State returns the current compilation state.
func (c *Compiler) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of the last failed attempt, or nil.
func (c *Compiler) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Compile returns the compiled action, compiling on first use. ctx carries the
// logger only; compilation is not cancellable.
func (c *Compiler) Compile(ctx context.Context) (*model.CompiledAction, error) {
	c.mu.Lock()
	if c.state == StateCompiled {
		res := c.result
		c.mu.Unlock()
		return res, nil
	}
	c.mu.Unlock()

	v, err, shared := c.group.Do("compile", func() (any, error) {
		c.mu.Lock()
		if c.state == StateCompiled {
			res := c.result
			c.mu.Unlock()
			return res, nil
		}
		c.mu.Unlock()

		res, err := c.compile(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.state, c.err = StateFailed, err
			return nil, err
		}
		c.state, c.result, c.err = StateCompiled, res, nil
		return res, nil
	})
	if shared {
		ctxlog.FromContext(ctx).Debug("Shared an in-flight compilation.", "function", c.fn.Name)
	}
	if err != nil {
		return nil, err
	}
	return v.(*model.CompiledAction), nil
}

func (c *Compiler) compile(ctx context.Context) (*model.CompiledAction, error) {
	logger := ctxlog.FromContext(ctx).With("file", c.fn.Filename, "line", c.fn.Line)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Compiling action.", "function", c.fn.Name)

	body, err := c.fn.Body()
	if err != nil {
		return nil, err
	}

	fn, err := syntax.Parse(body.Text, syntax.Options{
		Filename:         body.Filename,
		Line:             body.Line,
		Column:           body.Padding + 1,
		IsParallelMarker: c.reg.IsParallelMarker,
	})
	if err != nil {
		return nil, err
	}

	res, err := visitor.New(c.reg, c.newID).Visit(ctx, fn.Body)
	if err != nil {
		return nil, err
	}

	edges := dag.InferEdges(res.Stages)
	d, err := dag.Assemble(ctx, c.newID(), c.dagName, res.Tasks, edges, dagTarget(c.owner))
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", fn.Name, err)
	}

	runbook := &model.Runbook{
		Ref:      c.runbookRef,
		Name:     c.runbookName,
		MainTask: d.Ref,
		Tasks:    append([]*model.Task{d.Task()}, res.Tasks...),
		DAG:      d,
	}
	for _, name := range slices.Sorted(maps.Keys(res.Variables)) {
		runbook.Variables = append(runbook.Variables, res.Variables[name])
	}

	name, typ, critical := Classify(fn.Name, c.owner)
	logger.Debug("Action compiled.", "name", name, "type", typ, "tasks", len(res.Tasks), "edges", len(edges))
	return &model.CompiledAction{
		Name:        name,
		Description: fn.Doc,
		Type:        typ,
		Critical:    critical,
		Runbook:     runbook,
	}, nil
}

// AssignTargets compiles if needed, then gives owner's task target to every
// task that has none. Explicit targets are never changed and the backfill
// happens once; later calls report zero. It returns the number of tasks changed.
func (c *Compiler) AssignTargets(ctx context.Context, owner Owner) (int, error) {
	res, err := c.Compile(ctx)
	if err != nil {
		return 0, err
	}
	if owner == nil {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.targetsAssigned {
		return 0, nil
	}
	c.targetsAssigned = true

	target := owner.TaskTarget()
	changed := 0
	for _, t := range res.Runbook.DAG.Tasks {
		if t.SetDefaultTarget(target) {
			changed++
		}
	}
	ctxlog.FromContext(ctx).Debug("Default targets assigned.", "function", c.fn.Name, "changed", changed)
	return changed, nil
}

// CallRunbookSpec is the task a call-runbook factory emits for this action.
func (c *Compiler) CallRunbookSpec() *registry.TaskSpec {
	return &registry.TaskSpec{
		Type:    model.TaskTypeCallRunbook,
		Payload: &model.CallRunbookPayload{Runbook: c.runbookRef, Action: c.fn.Name},
	}
}

// CallTask returns a task that invokes this action's runbook. It does not
// compile the action. An empty name gets a generated one.
func (c *Compiler) CallTask(name string) *model.Task {
	spec := c.CallRunbookSpec()
	ref := c.newID()
	if name == "" {
		name = "call_" + c.fn.Name + "_" + shortID(ref)
	}
	return &model.Task{Ref: ref, Name: name, Type: spec.Type, Payload: spec.Payload}
}

// TaskFactory exposes CallTask to action scripts through a registry.
func (c *Compiler) TaskFactory() *registry.TaskFactory {
	return &registry.TaskFactory{
		NewInput: func() any { return new(struct{}) },
		Build:    func(any) (*registry.TaskSpec, error) { return c.CallRunbookSpec(), nil },
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToLower(id)
}
