// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Task, the node of a compiled DAG.
//
// A Task is created exactly once, by the visitor, from a recognized call
// expression. After creation the only permitted mutation is filling in a
// default execution target, and only when none was given explicitly.
package model

import "github.com/hashicorp/hcl/v2"

// Task types produced by the compiler itself. Task factories define their own.
const (
	TaskTypeDAG         = "DAG"
	TaskTypeCallRunbook = "CALL_RUNBOOK"
)

// Task is a single unit of work in a compiled runbook.
type Task struct {
	// Ref is the generated unique reference used by edges.
	Ref string `yaml:"ref" json:"ref"`
	// Name is the author-facing task name.
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	// Payload is the task factory's output. The compiler never inspects it.
	Payload any        `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Target  *Reference `yaml:"target,omitempty" json:"target,omitempty"`

	// Range points at the call expression that produced the task.
	Range hcl.Range `yaml:"-" json:"-"`
}

// SetDefaultTarget assigns target only when the task has none. It reports
// whether the task was changed.
func (t *Task) SetDefaultTarget(target *Reference) bool {
	if t.Target != nil || target == nil {
		return false
	}
	ref := *target
	t.Target = &ref
	return true
}

// CallRunbookPayload is the payload of a task that invokes another runbook.
type CallRunbookPayload struct {
	Runbook string `yaml:"runbook" json:"runbook"`
	Action  string `yaml:"action" json:"action"`
}
