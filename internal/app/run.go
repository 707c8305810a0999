package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vk/runbookgo/internal/action"
	"github.com/vk/runbookgo/internal/catalog"
	"github.com/vk/runbookgo/internal/ctxlog"
	"github.com/vk/runbookgo/internal/fsutil"
	"github.com/vk/runbookgo/internal/model"
	"github.com/vk/runbookgo/internal/render"
	"github.com/vk/runbookgo/internal/source"
)

// ActionExtension is the file extension of action scripts.
const ActionExtension = ".action"

// Run discovers, compiles and renders every action under the configured
// source path. The rendered document goes to OutputPath when set, else to outW.
func (a *App) Run(ctx context.Context, outW io.Writer) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	cat, err := a.Discover(ctx)
	if err != nil {
		return err
	}
	cat.RegisterCallFactories(a.registry)

	if err := a.registry.ValidateRegistry(ctx); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	a.logger.Debug("Registry validation passed.")

	actions, err := a.Compile(ctx, cat)
	if err != nil {
		return err
	}

	doc := &render.Document{Entity: a.entity.Name, Actions: actions}
	if a.config.OutputPath != "" {
		f, createErr := os.Create(a.config.OutputPath)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		err = writeAndClose(f, a.config.Format, doc)
	} else {
		err = render.Write(outW, a.config.Format, doc)
	}
	if err != nil {
		return err
	}

	a.logger.Info("Actions compiled.", "entity", a.entity.Name, "actions", len(actions), "format", a.config.Format)
	return nil
}

// writeAndClose renders doc into wc and closes it. A failed Close is reported
// when rendering itself succeeded, since buffered output may be lost.
func writeAndClose(wc io.WriteCloser, format string, doc *render.Document) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	return render.Write(wc, format, doc)
}

// Discover locates every decorated function in the source path and adds a
// compiler for each to a new catalog.
func (a *App) Discover(ctx context.Context) (*catalog.Catalog, error) {
	files, err := fsutil.FindFiles([]string{a.config.SourcePath}, ActionExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to find action scripts: %w", err)
	}

	cat := catalog.New()
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		funcs := source.Locate(path, data)
		for _, fn := range funcs {
			if err := cat.Add(action.NewCompiler(fn, a.entity, a.registry, action.Options{})); err != nil {
				return nil, err
			}
		}
		a.logger.Debug("Action script scanned.", "path", path, "functions", len(funcs))
	}

	if cat.Len() == 0 {
		a.logger.Warn("No decorated functions found.", "path", a.config.SourcePath)
	}
	return cat, nil
}

// Compile compiles every action in cat, backfills default targets and
// applies the action filter.
func (a *App) Compile(ctx context.Context, cat *catalog.Catalog) ([]*model.CompiledAction, error) {
	results, err := cat.CompileAll(ctx, a.config.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("compilation failed: %w", err)
	}

	var out []*model.CompiledAction
	for i, comp := range cat.All() {
		if a.config.Action != "" && a.config.Action != comp.Name() && a.config.Action != results[i].Name {
			continue
		}
		changed, err := comp.AssignTargets(ctx, a.entity)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("Action ready.", "action", results[i].Name, "type", results[i].Type, "targets_assigned", changed)
		out = append(out, results[i])
	}

	if a.config.Action != "" && len(out) == 0 {
		return nil, fmt.Errorf("action '%s' not found", a.config.Action)
	}
	return out, nil
}
