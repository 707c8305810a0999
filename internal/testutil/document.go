package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// Document mirrors the rendered YAML closely enough for assertions.
type Document struct {
	Entity  string    `yaml:"entity"`
	Actions []*Action `yaml:"actions"`
}

// Action is one rendered compiled action.
type Action struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Type        string  `yaml:"type"`
	Critical    bool    `yaml:"critical"`
	Runbook     Runbook `yaml:"runbook"`
}

// Runbook is a rendered runbook.
type Runbook struct {
	Ref       string     `yaml:"ref"`
	Name      string     `yaml:"name"`
	MainTask  string     `yaml:"main_task"`
	Tasks     []*Task    `yaml:"tasks"`
	Variables []Variable `yaml:"variables"`
}

// Task is a rendered task with its attributes left generic.
type Task struct {
	Ref    string         `yaml:"ref"`
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`
	Attrs  map[string]any `yaml:"attrs"`
	Target *Target        `yaml:"target"`
}

// Target is a rendered reference.
type Target struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
}

// Variable is a rendered runbook variable.
type Variable struct {
	Name     string `yaml:"name"`
	DataType string `yaml:"data_type"`
	Value    string `yaml:"value"`
	Secret   bool   `yaml:"secret"`
	Task     string `yaml:"task"`
}

// Action returns the named action or fails the test.
func (d *Document) Action(t *testing.T, name string) *Action {
	t.Helper()
	for _, a := range d.Actions {
		if a.Name == name {
			return a
		}
	}
	require.FailNow(t, fmt.Sprintf("action %q not rendered", name))
	return nil
}

// DAG returns the runbook's DAG entry.
func (a *Action) DAG(t *testing.T) *Task {
	t.Helper()
	for _, task := range a.Runbook.Tasks {
		if task.Ref == a.Runbook.MainTask {
			require.Equal(t, "DAG", task.Type)
			return task
		}
	}
	require.FailNow(t, "main task missing from runbook")
	return nil
}

// Task returns the child task with the given name or fails the test.
func (a *Action) Task(t *testing.T, name string) *Task {
	t.Helper()
	for _, task := range a.Runbook.Tasks[1:] {
		if task.Name == name {
			return task
		}
	}
	require.FailNow(t, fmt.Sprintf("task %q not found in action %q", name, a.Name))
	return nil
}

// Variable returns the named variable or fails the test.
func (a *Action) Variable(t *testing.T, name string) Variable {
	t.Helper()
	for _, v := range a.Runbook.Variables {
		if v.Name == name {
			return v
		}
	}
	require.FailNow(t, fmt.Sprintf("variable %q not found in action %q", name, a.Name))
	return Variable{}
}

// Edges returns the DAG edges as task-name pairs, e.g. "a->b".
func (a *Action) Edges(t *testing.T) []string {
	t.Helper()
	names := make(map[string]string, len(a.Runbook.Tasks))
	for _, task := range a.Runbook.Tasks {
		names[task.Ref] = task.Name
	}

	raw, _ := a.DAG(t).Attrs["edges"].([]any)
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		edge, ok := e.(map[string]any)
		require.True(t, ok, "edge must be a mapping")
		from, to := fmt.Sprint(edge["from"]), fmt.Sprint(edge["to"])
		require.Contains(t, names, from, "edge source must be a task of the runbook")
		require.Contains(t, names, to, "edge target must be a task of the runbook")
		out = append(out, names[from]+"->"+names[to])
	}
	return out
}
