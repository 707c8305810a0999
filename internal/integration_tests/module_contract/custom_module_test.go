package integration_tests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/runbookgo/internal/app"
	"github.com/vk/runbookgo/internal/registry"
	"github.com/vk/runbookgo/internal/testutil"
)

// deployModule is a pure-Go module registered through the same contract as
// the core modules.
type deployModule struct{}

type deployInput struct {
	Version  string   `cty:"version"`
	Replicas *int     `cty:"replicas"`
	Regions  []string `cty:"regions"`
}

type deployPayload struct {
	Version  string   `yaml:"version"`
	Replicas int      `yaml:"replicas"`
	Regions  []string `yaml:"regions"`
}

func (m *deployModule) Register(r *registry.Registry) {
	r.RegisterTask("Task.Deploy", &registry.TaskFactory{
		Params:   []string{"version"},
		NewInput: func() any { return new(deployInput) },
		Build: func(in any) (*registry.TaskSpec, error) {
			input := in.(*deployInput)
			if input.Version == "" {
				return nil, errors.New("version cannot be empty")
			}
			replicas := 1
			if input.Replicas != nil {
				replicas = *input.Replicas
			}
			return &registry.TaskSpec{
				Type:    "DEPLOY",
				Payload: &deployPayload{Version: input.Version, Replicas: replicas, Regions: input.Regions},
			}, nil
		},
	})
}

func TestModuleContract_PureGoFactory(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	script := `
@action
def release():
    Task.Deploy("1.4.2", regions=["eu", "us"], name="rollout")
    Task.Deploy(version="1.4.3", replicas=3)
`

	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"release.action": script}, app.Config{}, &deployModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	action := result.Doc.Action(t, "release")
	require.Len(t, action.Runbook.Tasks, 3)

	rollout := action.Task(t, "rollout")
	require.Equal(t, "DEPLOY", rollout.Type)
	require.Equal(t, "1.4.2", rollout.Attrs["version"])
	require.Equal(t, 1, rollout.Attrs["replicas"])
	require.Equal(t, []any{"eu", "us"}, rollout.Attrs["regions"])

	second := action.Runbook.Tasks[2]
	require.Equal(t, 3, second.Attrs["replicas"])
	require.Regexp(t, `^deploy_[0-9a-z]{8}$`, second.Name)
}

func TestModuleContract_FactoryErrorsSurface(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunIntegrationTest(t,
		map[string]string{"release.action": "@action\ndef release():\n    Task.Deploy(\"\")\n"},
		app.Config{}, &deployModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "version cannot be empty")
}

func TestModuleContract_ReservedInputFieldFailsValidation(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	type badInput struct {
		Name string `cty:"name"`
	}
	bad := moduleFunc(func(r *registry.Registry) {
		r.RegisterTask("Task.Bad", &registry.TaskFactory{
			NewInput: func() any { return new(badInput) },
			Build:    func(any) (*registry.TaskSpec, error) { return &registry.TaskSpec{Type: "BAD"}, nil },
		})
	})

	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"x.action": "@action\ndef x():\n    pass\n"}, app.Config{}, bad)

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "registry validation failed")
	require.Contains(t, result.Err.Error(), "reserved for the compiler")
}

type moduleFunc func(r *registry.Registry)

func (f moduleFunc) Register(r *registry.Registry) { f(r) }
