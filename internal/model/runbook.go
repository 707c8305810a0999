// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Runbook and CompiledAction, the two containers produced
// by the action compiler.
package model

// ActionType classifies a compiled action.
type ActionType string

const (
	ActionUser     ActionType = "user"
	ActionSystem   ActionType = "system"
	ActionFragment ActionType = "fragment"
)

// Runbook wraps one DAG, its tasks and its variables.
type Runbook struct {
	Ref  string `yaml:"ref" json:"ref"`
	Name string `yaml:"name" json:"name"`
	// MainTask is the ref of the DAG.
	MainTask string `yaml:"main_task" json:"main_task"`
	// Tasks is the DAG entry followed by every child task in source order.
	Tasks     []*Task     `yaml:"tasks" json:"tasks"`
	Variables []*Variable `yaml:"variables" json:"variables"`

	DAG *DAG `yaml:"-" json:"-"`
}

// Variable looks up a runbook variable by name.
func (r *Runbook) Variable(name string) (*Variable, bool) {
	for _, v := range r.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// CompiledAction is the cached end product of compiling one decorated function.
type CompiledAction struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Type        ActionType `yaml:"type" json:"type"`
	Critical    bool       `yaml:"critical" json:"critical"`
	Runbook     *Runbook   `yaml:"runbook" json:"runbook"`
}
