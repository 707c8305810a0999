package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/runbookgo/internal/app"
	"github.com/vk/runbookgo/internal/testutil"
)

const entityHCL = `
entity "web" {
  default_target   = endpoint("web-vm")
  has_dag_target   = false
  fragment_actions = { "__pre_create__" = "pre_action_create" }
  values = {
    region   = "eu-west-1"
    packages = ["nginx", "curl"]
  }
}
`

func TestHCLFeatures_ArgumentExpressions(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	script := `
@action
def __create__():
    "Install packages"
    host = Variable.Simple("web-01")
    Task.Exec.ssh(
        name="install",
        script=format("yum install -y %s", join(" ", values.packages)),
    )
    Task.Exec.ssh(name="greet", script=upper("hello ${host}"))
    Task.Exec.ssh(name="remote", script="uptime", target=ref(format("app:%s", lower("DB"))))
    check = Task.SetVariable.ssh(name="check", script="echo out=1", variables=["out"])
    Task.HTTP.get(url="https://${host}/health?task=${check}", status_codes=[200, 204])
`
	files := map[string]string{
		"actions/web.action": script,
		"web.hcl":            entityHCL,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{SourcePath: "actions", EntityConfig: "web.hcl"})

	// --- Assert ---
	require.NoError(t, result.Err)
	action := result.Doc.Action(t, "create")
	require.Equal(t, "system", action.Type)
	require.True(t, action.Critical)
	require.Equal(t, "Install packages", action.Description)

	require.Equal(t, "yum install -y nginx curl", action.Task(t, "install").Attrs["script"])
	require.Equal(t, "HELLO WEB-01", action.Task(t, "greet").Attrs["script"])

	remote := action.Task(t, "remote")
	require.Equal(t, &testutil.Target{Kind: "app", Name: "db"}, remote.Target)
	require.Equal(t, &testutil.Target{Kind: "endpoint", Name: "web-vm"}, action.Task(t, "install").Target)

	check := action.Variable(t, "check")
	require.Equal(t, "TASK_REF", check.DataType)
	require.Equal(t, action.Task(t, "check").Ref, check.Task)

	var httpTask *testutil.Task
	for _, task := range action.Runbook.Tasks {
		if task.Type == "HTTP" {
			httpTask = task
		}
	}
	require.NotNil(t, httpTask)
	require.Equal(t, "https://web-01/health?task="+check.Value, httpTask.Attrs["url"])

	// has_dag_target = false leaves the DAG entry untargeted.
	require.Nil(t, action.DAG(t).Target)
	require.Len(t, action.Edges(t), 4)
}

func TestHCLFeatures_ClassificationAndCallRunbook(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	script := `
@runbook
def __PRE_CREATE__():
    Task.Delay(seconds=10)

@action
def __create__():
    Action.__PRE_CREATE__(name="prepare")
    Task.Delay(1)

@action
def __custom__():
    pass
`
	files := map[string]string{"web.action": script, "web.yaml": `
entities:
  - name: web
    fragment_actions:
      __pre_create__: pre_action_create
`}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{EntityConfig: "web.yaml"})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, "web", result.Doc.Entity)

	fragment := result.Doc.Action(t, "pre_action_create")
	require.Equal(t, "fragment", fragment.Type)
	require.False(t, fragment.Critical)

	create := result.Doc.Action(t, "create")
	call := create.Task(t, "prepare")
	require.Equal(t, "CALL_RUNBOOK", call.Type)
	require.Equal(t, fragment.Runbook.Ref, call.Attrs["runbook"])
	require.Equal(t, []string{"prepare->" + create.Runbook.Tasks[2].Name}, create.Edges(t))

	// An unknown __name__ stays a user action under its declared name.
	custom := result.Doc.Action(t, "__custom__")
	require.Equal(t, "user", custom.Type)
}
