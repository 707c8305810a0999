package catalog

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/vk/runbookgo/internal/action"
	"github.com/vk/runbookgo/internal/ctxlog"
	"github.com/vk/runbookgo/internal/model"
	"github.com/vk/runbookgo/internal/registry"
	"golang.org/x/sync/errgroup"
)

// CallRoot is the namespace root of call-runbook task factories.
const CallRoot = "Action"

// Catalog maps declared action names to their compilers.
type Catalog struct {
	mu     sync.RWMutex
	byName map[string]*action.Compiler
	order  []*action.Compiler
}

// New creates a new, empty catalog.
func New() *Catalog {
	return &Catalog{byName: make(map[string]*action.Compiler)}
}

// Add stores a compiler. Declared names must be unique.
func (c *Catalog) Add(comp *action.Compiler) error {
	name := comp.Name()
	if name == "" {
		src := comp.Source()
		return fmt.Errorf("%s:%d: decorated function has no `def <name>():` header", src.Filename, src.Line)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, exists := c.byName[name]; exists {
		src := prev.Source()
		return fmt.Errorf("action '%s' already declared at %s:%d", name, src.Filename, src.Line)
	}
	c.byName[name] = comp
	c.order = append(c.order, comp)
	return nil
}

// Get returns the compiler for a declared name.
func (c *Catalog) Get(name string) (*action.Compiler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	comp, ok := c.byName[name]
	return comp, ok
}

// All returns every compiler in discovery order.
func (c *Catalog) All() []*action.Compiler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*action.Compiler(nil), c.order...)
}

// Len returns the number of stored compilers.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// RegisterCallFactories registers `Action.<name>` for every stored action.
func (c *Catalog) RegisterCallFactories(r *registry.Registry) {
	for _, comp := range c.All() {
		r.RegisterTask(CallRoot+"."+comp.Name(), comp.TaskFactory())
	}
}

// CompileAll compiles every action with at most limit compilations running
// at once (limit <= 0 means GOMAXPROCS). Results are in discovery order; a
// failed action leaves a nil entry and its error is joined into the returned
// error. Actions not yet started when ctx is cancelled fail with ctx.Err().
func (c *Catalog) CompileAll(ctx context.Context, limit int) ([]*model.CompiledAction, error) {
	comps := c.All()
	results := make([]*model.CompiledAction, len(comps))
	errs := make([]error, len(comps))

	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, comp := range comps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("action '%s': %w", comp.Name(), err)
				return nil
			}
			res, err := comp.Compile(ctx)
			if err != nil {
				errs[i] = fmt.Errorf("action '%s': %w", comp.Name(), err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	ctxlog.FromContext(ctx).Debug("Catalog compiled.", "actions", len(comps))
	return results, errors.Join(errs...)
}
