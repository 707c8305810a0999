package dag

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/runbookgo/internal/compileerr"
	"github.com/vk/runbookgo/internal/ctxlog"
	"github.com/vk/runbookgo/internal/model"
)

// ErrInvalidGraph is wrapped by every Assemble validation failure. Tasks and
// edges come from the compiler itself, so such a failure also wraps
// compileerr.ErrInternal.
var ErrInvalidGraph = errors.New("invalid task graph")

func invalid(err error) error {
	return fmt.Errorf("%w: %w: %w", compileerr.ErrInternal, ErrInvalidGraph, err)
}

// Assemble packages tasks and edges into a DAG and validates it: task refs
// must be unique, every edge must join two of the given tasks, and the graph
// must be acyclic. target may be nil.
func Assemble(ctx context.Context, ref, name string, tasks []*model.Task, edges []model.Edge, target *model.Reference) (*model.DAG, error) {
	logger := ctxlog.FromContext(ctx)

	g := New()
	for _, t := range tasks {
		if t.Ref == "" {
			return nil, invalid(fmt.Errorf("task %q has no ref", t.Name))
		}
		if err := g.AddTask(t.Ref); err != nil {
			return nil, invalid(err)
		}
	}
	for _, e := range edges {
		if err := g.Link(e.From, e.To); err != nil {
			return nil, invalid(err)
		}
	}
	if _, err := g.TopologicalOrder(); err != nil {
		return nil, invalid(err)
	}

	d := &model.DAG{
		Ref:    ref,
		Name:   name,
		Tasks:  tasks,
		Edges:  edges,
		Target: target,
	}
	logger.Debug("DAG assembled.", "name", name, "tasks", len(tasks), "edges", len(edges), "roots", len(g.Roots()), "leaves", len(g.Leaves()))
	return d, nil
}
