package delay

import (
	"fmt"

	"github.com/vk/runbookgo/internal/registry"
)

// TaskType is the task type emitted for pauses.
const TaskType = "DELAY"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a Task.Delay call.
type Input struct {
	Seconds int `cty:"seconds"`
}

// Payload is the task attributes handed to the execution engine.
type Payload struct {
	IntervalSecs int `yaml:"interval_secs" json:"interval_secs"`
}

// Build validates the delay and emits the task.
func Build(in any) (*registry.TaskSpec, error) {
	input := in.(*Input)
	if input.Seconds <= 0 {
		return nil, fmt.Errorf("seconds must be positive, got %d", input.Seconds)
	}
	return &registry.TaskSpec{Type: TaskType, Payload: &Payload{IntervalSecs: input.Seconds}}, nil
}

// Register registers Task.Delay.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("Task.Delay", &registry.TaskFactory{
		Params:   []string{"seconds"},
		NewInput: func() any { return new(Input) },
		Build:    Build,
	})
}
