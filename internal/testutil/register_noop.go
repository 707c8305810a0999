package testutil

import (
	"github.com/vk/runbookgo/internal/registry"
)

// NoOpTaskType is the task type emitted by Task.NoOp.
const NoOpTaskType = "NOOP"

// NoOpModule registers a single "Task.NoOp" factory that takes no inputs. It
// is useful for graph-shape tests that should not depend on real modules.
type NoOpModule struct{}

// Register registers Task.NoOp.
func (m *NoOpModule) Register(r *registry.Registry) {
	r.RegisterTask("Task.NoOp", &registry.TaskFactory{
		NewInput: func() any { return new(struct{}) },
		Build: func(any) (*registry.TaskSpec, error) {
			return &registry.TaskSpec{Type: NoOpTaskType}, nil
		},
	})
}
