package set_variable

import (
	"fmt"
	"strings"

	"github.com/vk/runbookgo/internal/registry"
	"github.com/vk/runbookgo/modules/exec"
)

// TaskType is the task type emitted for scripts that publish variables.
const TaskType = "SET_VARIABLE"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a Task.SetVariable.* call.
type Input struct {
	Script    string   `cty:"script"`
	Variables []string `cty:"variables"`
}

// Payload is the task attributes handed to the execution engine.
type Payload struct {
	ScriptType    string   `yaml:"script_type" json:"script_type"`
	Script        string   `yaml:"script" json:"script"`
	EvalVariables []string `yaml:"eval_variables" json:"eval_variables"`
}

func newBuild(scriptType string) func(any) (*registry.TaskSpec, error) {
	return func(in any) (*registry.TaskSpec, error) {
		input := in.(*Input)
		if strings.TrimSpace(input.Script) == "" {
			return nil, fmt.Errorf("script must not be empty")
		}
		if len(input.Variables) == 0 {
			return nil, fmt.Errorf("at least one variable name is required")
		}
		for _, v := range input.Variables {
			if strings.TrimSpace(v) == "" {
				return nil, fmt.Errorf("variable names must not be empty")
			}
		}
		return &registry.TaskSpec{
			Type: TaskType,
			Payload: &Payload{
				ScriptType:    scriptType,
				Script:        input.Script,
				EvalVariables: input.Variables,
			},
		}, nil
	}
}

// Register registers Task.SetVariable.ssh, .powershell and .escript.
func (m *Module) Register(r *registry.Registry) {
	for shell, scriptType := range exec.Shells {
		r.RegisterTask("Task.SetVariable."+shell, &registry.TaskFactory{
			Params:   []string{"script", "variables"},
			NewInput: func() any { return new(Input) },
			Build:    newBuild(scriptType),
		})
	}
}
