// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the graph-level types: Stage, Edge and DAG.
//
// Stages are the visitor's output and the edge inferencer's input. Edges are
// derived, never authored: every task of stage i precedes every task of stage
// i+1, so the relation is acyclic by construction.
package model

// Stage is one position in the compiled ordering.
type Stage struct {
	Tasks []*Task
	// Parallel marks a stage collected from a parallel block.
	Parallel bool
}

// Edge states that From must complete before To may start.
type Edge struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// DAG is the task graph for one compiled function body.
type DAG struct {
	Ref    string     `yaml:"ref" json:"ref"`
	Name   string     `yaml:"name" json:"name"`
	Tasks  []*Task    `yaml:"-" json:"-"`
	Edges  []Edge     `yaml:"edges" json:"edges"`
	Target *Reference `yaml:"target,omitempty" json:"target,omitempty"`
}

// DAGPayload is the payload of the DAG's own task entry in a runbook.
type DAGPayload struct {
	ChildTasks []string `yaml:"child_tasks" json:"child_tasks"`
	Edges      []Edge   `yaml:"edges" json:"edges"`
}

// Task returns the DAG as a runbook task entry.
func (d *DAG) Task() *Task {
	children := make([]string, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		children = append(children, t.Ref)
	}
	edges := d.Edges
	if edges == nil {
		edges = []Edge{}
	}
	return &Task{
		Ref:     d.Ref,
		Name:    d.Name,
		Type:    TaskTypeDAG,
		Target:  d.Target,
		Payload: &DAGPayload{ChildTasks: children, Edges: edges},
	}
}

// TaskByRef looks up a child task.
func (d *DAG) TaskByRef(ref string) (*Task, bool) {
	for _, t := range d.Tasks {
		if t.Ref == ref {
			return t, true
		}
	}
	return nil, false
}
