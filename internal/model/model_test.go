package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	ref, err := ParseReference("endpoint:web-vm")
	require.NoError(t, err)
	assert.Equal(t, &Reference{Kind: "endpoint", Name: "web-vm"}, ref)
	assert.Equal(t, "endpoint:web-vm", ref.String())

	ref, err = ParseReference("app:a:b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", ref.Name)

	for _, bad := range []string{"", "web", ":web", "endpoint:"} {
		_, err := ParseReference(bad)
		assert.ErrorContains(t, err, "expected kind:name", bad)
	}

	var nilRef *Reference
	assert.Equal(t, "", nilRef.String())
}

func TestTask_SetDefaultTarget(t *testing.T) {
	target := &Reference{Kind: "endpoint", Name: "web"}

	task := &Task{Ref: "a"}
	assert.True(t, task.SetDefaultTarget(target))
	require.NotNil(t, task.Target)
	assert.Equal(t, *target, *task.Target)
	assert.NotSame(t, target, task.Target)

	explicit := &Reference{Kind: "endpoint", Name: "db"}
	task = &Task{Ref: "b", Target: explicit}
	assert.False(t, task.SetDefaultTarget(target))
	assert.Same(t, explicit, task.Target)

	task = &Task{Ref: "c"}
	assert.False(t, task.SetDefaultTarget(nil))
	assert.Nil(t, task.Target)
}

func TestDAG_Task(t *testing.T) {
	a, b := &Task{Ref: "a"}, &Task{Ref: "b"}
	d := &DAG{Ref: "d", Name: "x_dag", Tasks: []*Task{a, b}, Edges: []Edge{{From: "a", To: "b"}}}

	task := d.Task()
	assert.Equal(t, "d", task.Ref)
	assert.Equal(t, TaskTypeDAG, task.Type)
	assert.Equal(t, &DAGPayload{ChildTasks: []string{"a", "b"}, Edges: []Edge{{From: "a", To: "b"}}}, task.Payload)

	got, ok := d.TaskByRef("b")
	require.True(t, ok)
	assert.Same(t, b, got)
	_, ok = d.TaskByRef("z")
	assert.False(t, ok)

	empty := (&DAG{Ref: "e"}).Task()
	assert.Equal(t, &DAGPayload{ChildTasks: []string{}, Edges: []Edge{}}, empty.Payload)
}

func TestRunbook_Variable(t *testing.T) {
	rb := &Runbook{Variables: []*Variable{{Name: "port", DataType: DataTypeInt, Value: "80"}}}
	v, ok := rb.Variable("port")
	require.True(t, ok)
	assert.Equal(t, "80", v.Value)
	_, ok = rb.Variable("host")
	assert.False(t, ok)
}
