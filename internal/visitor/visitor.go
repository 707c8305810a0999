// Package visitor walks a parsed action body in document order, resolving
// call expressions into tasks and assignments into variables, and grouping
// the tasks into ordered stages.
package visitor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/runbookgo/internal/compileerr"
	"github.com/vk/runbookgo/internal/ctxlog"
	"github.com/vk/runbookgo/internal/model"
	"github.com/vk/runbookgo/internal/registry"
	"github.com/vk/runbookgo/internal/syntax"
	"github.com/zclconf/go-cty/cty"
)

// Arguments every task call accepts besides its factory's own.
const (
	ArgName   = "name"
	ArgTarget = "target"
)

// Result is everything discovered in one body.
type Result struct {
	Tasks     []*model.Task
	Variables map[string]*model.Variable
	Stages    []model.Stage
}

// Visitor resolves statements against a registry. A Visitor is not safe for
// concurrent use.
type Visitor struct {
	reg   *registry.Registry
	newID func() string

	evalCtx *hcl.EvalContext
	locals  map[string]cty.Value
	result  *Result
	err     error
}

// New creates a visitor. newID must return a fresh unique reference per call.
func New(reg *registry.Registry, newID func() string) *Visitor {
	return &Visitor{reg: reg, newID: newID}
}

// Err returns the error that stopped the last Visit, if any.
func (v *Visitor) Err() error {
	return v.err
}

// Visit walks body and returns the discovered tasks, variables and stages.
// The first failing statement aborts the walk; its error is also kept for Err.
func (v *Visitor) Visit(ctx context.Context, body []syntax.Statement) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	v.result = &Result{Variables: make(map[string]*model.Variable)}
	v.locals = make(map[string]cty.Value)
	v.err = nil

	base, err := v.reg.EvalContext()
	if err != nil {
		v.err = fmt.Errorf("%w: building evaluation context: %w", compileerr.ErrInternal, err)
		return nil, v.err
	}
	v.evalCtx = base.NewChild()
	v.evalCtx.Variables = v.locals

	for _, stmt := range body {
		if err := v.visitStatement(ctx, stmt); err != nil {
			logger.Debug("Visitor stopped on statement.", "range", stmt.Range().String(), "error", err)
			v.err = err
			return nil, err
		}
	}

	logger.Debug("Visitor finished.", "tasks", len(v.result.Tasks), "variables", len(v.result.Variables), "stages", len(v.result.Stages))
	return v.result, nil
}

func (v *Visitor) visitStatement(ctx context.Context, stmt syntax.Statement) error {
	switch s := stmt.(type) {
	case *syntax.CallStmt:
		task, err := v.visitCall(ctx, s, s.Call)
		if err != nil {
			return err
		}
		v.result.Stages = append(v.result.Stages, model.Stage{Tasks: []*model.Task{task}})

	case *syntax.AssignStmt:
		task, err := v.visitAssign(ctx, s)
		if err != nil {
			return err
		}
		if task != nil {
			v.result.Stages = append(v.result.Stages, model.Stage{Tasks: []*model.Task{task}})
		}

	case *syntax.ParallelStmt:
		stage := model.Stage{Parallel: true}
		for _, inner := range s.Body {
			task, err := v.visitParallelMember(ctx, inner)
			if err != nil {
				return err
			}
			if task != nil {
				stage.Tasks = append(stage.Tasks, task)
			}
		}
		if len(stage.Tasks) > 0 {
			v.result.Stages = append(v.result.Stages, stage)
		}

	case *syntax.PassStmt:

	case *syntax.ExprStmt:
		return visitErr(s, "expression has no effect; expected a task call or an assignment")

	default:
		return visitErr(stmt, "unsupported statement %T", stmt)
	}
	return nil
}

// visitParallelMember handles one statement inside a parallel block. It
// returns the task the statement produced, if any.
func (v *Visitor) visitParallelMember(ctx context.Context, stmt syntax.Statement) (*model.Task, error) {
	switch s := stmt.(type) {
	case *syntax.CallStmt:
		return v.visitCall(ctx, s, s.Call)
	case *syntax.AssignStmt:
		return v.visitAssign(ctx, s)
	case *syntax.PassStmt:
		return nil, nil
	case *syntax.ParallelStmt:
		return nil, compileerr.Unsupported("with", s.Range(), "parallel blocks cannot be nested")
	case *syntax.ExprStmt:
		return nil, visitErr(s, "expression has no effect; expected a task call or an assignment")
	default:
		return nil, visitErr(stmt, "unsupported statement %T", stmt)
	}
}

// visitCall resolves a bare call statement, which must create a task.
func (v *Visitor) visitCall(ctx context.Context, stmt syntax.Statement, call *syntax.CallExpr) (*model.Task, error) {
	sym, err := v.resolve(stmt, call)
	if err != nil {
		return nil, err
	}
	if sym.Kind != registry.KindTask {
		return nil, visitErr(stmt, "%s is a %s, not a task factory", call.CalleeName(), sym.Kind)
	}
	return v.buildTask(ctx, stmt, call, sym.Task)
}

// visitAssign resolves `name = call`. Task calls yield a task plus a variable
// bound to its reference; variable factory calls yield only the variable.
func (v *Visitor) visitAssign(ctx context.Context, stmt *syntax.AssignStmt) (*model.Task, error) {
	if stmt.Call == nil {
		return nil, visitErr(stmt, "the value assigned to %q must be a call", stmt.Name)
	}
	if v.reg.IsRoot(stmt.Name) {
		return nil, visitErr(stmt, "%q shadows a namespace entry", stmt.Name)
	}

	sym, err := v.resolve(stmt, stmt.Call)
	if err != nil {
		return nil, err
	}

	switch sym.Kind {
	case registry.KindTask:
		task, err := v.buildTask(ctx, stmt, stmt.Call, sym.Task)
		if err != nil {
			return nil, err
		}
		v.bind(ctx, &model.Variable{
			Name:     stmt.Name,
			DataType: model.DataTypeTaskRef,
			Value:    task.Ref,
			Task:     task.Ref,
		})
		return task, nil

	case registry.KindVariable:
		args, err := v.evalArgs(stmt, stmt.Call)
		if err != nil {
			return nil, err
		}
		input := sym.Variable.NewInput()
		if err := registry.Decode(args, sym.Variable.Params, input); err != nil {
			return nil, &compileerr.NodeVisitError{Range: stmt.Call.SrcRange, Snippet: stmt.Source(), Err: fmt.Errorf("%s: %w", stmt.Call.CalleeName(), err)}
		}
		spec, err := sym.Variable.Build(input)
		if err != nil {
			return nil, &compileerr.NodeVisitError{Range: stmt.Call.SrcRange, Snippet: stmt.Source(), Err: fmt.Errorf("%s: %w", stmt.Call.CalleeName(), err)}
		}
		v.bind(ctx, &model.Variable{
			Name:     stmt.Name,
			DataType: spec.DataType,
			Value:    spec.Value,
			Secret:   spec.Secret,
		})
		return nil, nil

	default:
		return nil, visitErr(stmt, "%s is a %s and cannot be called", stmt.Call.CalleeName(), sym.Kind)
	}
}

func (v *Visitor) bind(ctx context.Context, variable *model.Variable) {
	ctxlog.FromContext(ctx).Debug("Variable captured.", "name", variable.Name, "data_type", variable.DataType)
	v.result.Variables[variable.Name] = variable
	v.locals[variable.Name] = cty.StringVal(variable.Value)
}

func (v *Visitor) resolve(stmt syntax.Statement, call *syntax.CallExpr) (*registry.Symbol, error) {
	sym, ok := v.reg.Lookup(call.CalleeName())
	if !ok {
		return nil, &compileerr.NodeVisitError{
			Range:   call.SrcRange,
			Snippet: stmt.Source(),
			Err:     fmt.Errorf("unknown callee %q", call.CalleeName()),
		}
	}
	return sym, nil
}

func (v *Visitor) buildTask(ctx context.Context, stmt syntax.Statement, call *syntax.CallExpr, factory *registry.TaskFactory) (*model.Task, error) {
	args, err := v.evalArgs(stmt, call)
	if err != nil {
		return nil, err
	}
	fail := func(err error) error {
		return &compileerr.NodeVisitError{Range: call.SrcRange, Snippet: stmt.Source(), Err: fmt.Errorf("%s: %w", call.CalleeName(), err)}
	}

	var name string
	if val, ok := args.Named[ArgName]; ok {
		delete(args.Named, ArgName)
		if val.IsNull() || val.Type() != cty.String {
			return nil, fail(fmt.Errorf("argument %q must be a string", ArgName))
		}
		name = val.AsString()
	}
	var target *model.Reference
	if val, ok := args.Named[ArgTarget]; ok {
		delete(args.Named, ArgTarget)
		if target, err = registry.ReferenceFromValue(val); err != nil {
			return nil, fail(fmt.Errorf("argument %q: %w", ArgTarget, err))
		}
	}

	input := factory.NewInput()
	if err := registry.Decode(args, factory.Params, input); err != nil {
		return nil, fail(err)
	}
	spec, err := factory.Build(input)
	if err != nil {
		return nil, fail(err)
	}

	task := &model.Task{
		Ref:     v.newID(),
		Name:    name,
		Type:    spec.Type,
		Payload: spec.Payload,
		Target:  target,
		Range:   call.SrcRange,
	}
	if task.Name == "" {
		task.Name = defaultName(spec.Type, task.Ref)
	}
	v.result.Tasks = append(v.result.Tasks, task)

	ctxlog.FromContext(ctx).Debug("Task discovered.", "callee", call.CalleeName(), "name", task.Name, "ref", task.Ref)
	return task, nil
}

func (v *Visitor) evalArgs(stmt syntax.Statement, call *syntax.CallExpr) (registry.Arguments, error) {
	args := registry.Arguments{Named: make(map[string]cty.Value)}
	for _, a := range call.Args {
		val, diags := a.Expr.Value(v.evalCtx)
		if diags.HasErrors() {
			return args, &compileerr.NodeVisitError{Range: a.Range, Snippet: stmt.Source(), Err: diags}
		}
		if a.Name == "" {
			args.Positional = append(args.Positional, val)
		} else {
			args.Named[a.Name] = val
		}
	}
	return args, nil
}

// defaultName derives a task name from its type and the tail of its ref.
func defaultName(taskType, ref string) string {
	suffix := ref
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return strings.ToLower(taskType) + "_" + strings.ToLower(suffix)
}

func visitErr(stmt syntax.Statement, format string, args ...any) error {
	return compileerr.Visitf(stmt.Range(), stmt.Source(), format, args...)
}
