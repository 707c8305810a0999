package exec

import (
	"fmt"
	"strings"

	"github.com/vk/runbookgo/internal/registry"
)

// TaskType is the task type emitted for script execution.
const TaskType = "EXEC"

// Script types understood by the execution engine.
const (
	ScriptTypeShell      = "sh"
	ScriptTypePowershell = "npsscript"
	ScriptTypeEscript    = "static_py3"
)

// Shells maps the factory suffix to the script type it emits.
var Shells = map[string]string{
	"ssh":        ScriptTypeShell,
	"powershell": ScriptTypePowershell,
	"escript":    ScriptTypeEscript,
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a Task.Exec.* call.
type Input struct {
	Script string `cty:"script"`
}

// Payload is the task attributes handed to the execution engine.
type Payload struct {
	ScriptType string `yaml:"script_type" json:"script_type"`
	Script     string `yaml:"script" json:"script"`
}

// NewBuild returns a factory Build function emitting scripts of scriptType.
func NewBuild(scriptType string) func(any) (*registry.TaskSpec, error) {
	return func(in any) (*registry.TaskSpec, error) {
		input := in.(*Input)
		if strings.TrimSpace(input.Script) == "" {
			return nil, fmt.Errorf("script must not be empty")
		}
		return &registry.TaskSpec{
			Type:    TaskType,
			Payload: &Payload{ScriptType: scriptType, Script: input.Script},
		}, nil
	}
}

// Register registers Task.Exec.ssh, Task.Exec.powershell and Task.Exec.escript.
func (m *Module) Register(r *registry.Registry) {
	for shell, scriptType := range Shells {
		r.RegisterTask("Task.Exec."+shell, &registry.TaskFactory{
			Params:   []string{"script"},
			NewInput: func() any { return new(Input) },
			Build:    NewBuild(scriptType),
		})
	}
}
