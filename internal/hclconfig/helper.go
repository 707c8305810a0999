package hclconfig

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/runbookgo/internal/ctxlog"
)

// written reports whether an optional attribute appeared in the file. gohcl
// fills omitted hcl.Expression fields with an empty-range placeholder rather
// than nil.
func written(ctx context.Context, expr hcl.Expression, attr string) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	ok := rng.End.Byte > rng.Start.Byte
	ctxlog.FromContext(ctx).Debug("Optional entity attribute.", "attribute", attr, "range", rng.String(), "written", ok)
	return ok
}
