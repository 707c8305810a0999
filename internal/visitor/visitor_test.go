package visitor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/runbookgo/internal/compileerr"
	"github.com/vk/runbookgo/internal/model"
	"github.com/vk/runbookgo/internal/registry"
	"github.com/vk/runbookgo/internal/syntax"
	"github.com/vk/runbookgo/modules/delay"
	"github.com/vk/runbookgo/modules/exec"
	"github.com/vk/runbookgo/modules/variables"
	"github.com/zclconf/go-cty/cty"
)

func newRegistry() *registry.Registry {
	r := registry.New()
	for _, m := range []registry.Module{&exec.Module{}, &delay.Module{}, &variables.Module{}} {
		m.Register(r)
	}
	r.RegisterValue("defaults.user", cty.StringVal("centos"))
	return r
}

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ref-%02d", n)
	}
}

func visit(t *testing.T, reg *registry.Registry, src string) (*Result, error) {
	t.Helper()
	fn, err := syntax.Parse(src, syntax.Options{Filename: "test.action", IsParallelMarker: reg.IsParallelMarker})
	require.NoError(t, err)
	return New(reg, counter()).Visit(context.Background(), fn.Body)
}

func TestVisit_SequentialCalls(t *testing.T) {
	res, err := visit(t, newRegistry(), `def main():
    Task.Exec.ssh(name="one", script="echo 1")
    Task.Exec.ssh("echo 2")
    Task.Delay(seconds=5)
`)
	require.NoError(t, err)
	require.Len(t, res.Tasks, 3)
	require.Len(t, res.Stages, 3)

	assert.Equal(t, "one", res.Tasks[0].Name)
	assert.Equal(t, "ref-01", res.Tasks[0].Ref)
	assert.Equal(t, exec.TaskType, res.Tasks[0].Type)
	assert.Equal(t, "exec_ref-02", res.Tasks[1].Name)
	assert.Equal(t, delay.TaskType, res.Tasks[2].Type)
	assert.Nil(t, res.Tasks[0].Target)

	for i, st := range res.Stages {
		assert.False(t, st.Parallel)
		require.Len(t, st.Tasks, 1)
		assert.Same(t, res.Tasks[i], st.Tasks[0])
	}
	assert.Empty(t, res.Variables)
}

func TestVisit_ParallelBlock(t *testing.T) {
	res, err := visit(t, newRegistry(), `def main():
    Task.Exec.ssh(name="first", script="a")
    with parallel():
        Task.Exec.ssh(name="p1", script="b")
        out = Task.Exec.ssh(name="p2", script="c")
        pass
    with parallel():
        pass
    Task.Exec.ssh(name="last", script="d")
`)
	require.NoError(t, err)
	require.Len(t, res.Stages, 3, "empty parallel block adds no stage")

	assert.False(t, res.Stages[0].Parallel)
	assert.True(t, res.Stages[1].Parallel)
	require.Len(t, res.Stages[1].Tasks, 2)
	assert.Equal(t, "p1", res.Stages[1].Tasks[0].Name)
	assert.Equal(t, "p2", res.Stages[1].Tasks[1].Name)
	assert.Equal(t, "last", res.Stages[2].Tasks[0].Name)

	require.Contains(t, res.Variables, "out")
	assert.Equal(t, res.Stages[1].Tasks[1].Ref, res.Variables["out"].Value)
}

func TestVisit_Assignments(t *testing.T) {
	res, err := visit(t, newRegistry(), `def main():
    check = Task.Exec.ssh(name="check", script="echo")
    port = Variable.Simple.int(8080)
    pw = Variable.Simple.secret("hunter2")
    Task.Exec.ssh(name=format("after-%s", check), script=format("curl :%s as %s", port, defaults.user))
`)
	require.NoError(t, err)
	require.Len(t, res.Tasks, 2)
	require.Len(t, res.Stages, 2, "variable factories add no stage")

	check := res.Variables["check"]
	require.NotNil(t, check)
	assert.Equal(t, model.DataTypeTaskRef, check.DataType)
	assert.Equal(t, res.Tasks[0].Ref, check.Value)
	assert.Equal(t, res.Tasks[0].Ref, check.Task)

	assert.Equal(t, &model.Variable{Name: "port", DataType: model.DataTypeInt, Value: "8080"}, res.Variables["port"])
	assert.True(t, res.Variables["pw"].Secret)

	last := res.Tasks[1]
	assert.Equal(t, "after-ref-01", last.Name)
	assert.Equal(t, "curl :8080 as centos", last.Payload.(*exec.Payload).Script)
}

func TestVisit_Target(t *testing.T) {
	res, err := visit(t, newRegistry(), `def main():
    Task.Exec.ssh(name="a", script="x", target=ref(endpoint("web")))
    Task.Exec.ssh(name="b", script="y", target="endpoint:db")
`)
	require.NoError(t, err)
	assert.Equal(t, &model.Reference{Kind: "endpoint", Name: "web"}, res.Tasks[0].Target)
	assert.Equal(t, &model.Reference{Kind: "endpoint", Name: "db"}, res.Tasks[1].Target)
}

func TestVisit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown callee", `Task.Exec.telnet(script="x")`, `unknown callee "Task.Exec.telnet"`},
		{"non-call expression", `1 + 2`, "expression has no effect"},
		{"non-call assignment", `x = 5`, `the value assigned to "x" must be a call`},
		{"bare variable factory", `Variable.Simple("v")`, "is a variable factory, not a task factory"},
		{"shadowing a root", `Task = Variable.Simple("v")`, `"Task" shadows a namespace entry`},
		{"factory error", `Task.Delay(seconds=0)`, "must be positive"},
		{"unknown argument", `Task.Delay(seconds=1, jitter=2)`, `unsupported argument "jitter"`},
		{"undefined variable", `Task.Exec.ssh(script=missing)`, "Unknown variable"},
		{"bad target", `Task.Exec.ssh(script="x", target=5)`, `argument "target"`},
		{"bad name", `Task.Exec.ssh(script="x", name=["a"])`, `argument "name" must be a string`},
		{"calling a value", `defaults.user()`, "is a value"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := newRegistry()
			fn, err := syntax.Parse("def main():\n    "+tc.body+"\n", syntax.Options{IsParallelMarker: reg.IsParallelMarker})
			require.NoError(t, err)

			v := New(reg, counter())
			res, err := v.Visit(context.Background(), fn.Body)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.True(t, errors.Is(err, compileerr.ErrNodeVisit))
			assert.Equal(t, err, v.Err(), "visitor records the error")

			var nve *compileerr.NodeVisitError
			require.True(t, errors.As(err, &nve))
			assert.NotEmpty(t, nve.Snippet)
		})
	}
}

func TestVisit_ResetsBetweenRuns(t *testing.T) {
	reg := newRegistry()
	v := New(reg, counter())

	bad, err := syntax.Parse("def main():\n    Nope.call()\n", syntax.Options{})
	require.NoError(t, err)
	_, err = v.Visit(context.Background(), bad.Body)
	require.Error(t, err)

	good, err := syntax.Parse("def main():\n    Task.Delay(1)\n", syntax.Options{})
	require.NoError(t, err)
	res, err := v.Visit(context.Background(), good.Body)
	require.NoError(t, err)
	assert.NoError(t, v.Err())
	assert.Len(t, res.Tasks, 1)
}

func TestVisit_BrokenRegistryIsInternal(t *testing.T) {
	reg := newRegistry()
	reg.RegisterValue("defaults.user.name", cty.StringVal("nested"))

	_, err := visit(t, reg, "def main():\n    Task.Delay(1)\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, compileerr.ErrInternal)
	assert.NotErrorIs(t, err, compileerr.ErrNodeVisit)
	assert.ErrorContains(t, err, "building evaluation context")
}
