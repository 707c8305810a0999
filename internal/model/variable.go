// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Variable, a named binding captured from a top-level
// assignment in an action body.
package model

// Variable data types.
const (
	DataTypeString = "STRING"
	DataTypeInt    = "INT"
	DataTypeBool   = "BOOL"
	// DataTypeTaskRef marks a variable bound to the reference of a task.
	DataTypeTaskRef = "TASK_REF"
)

// Variable is a runbook variable.
type Variable struct {
	Name     string `yaml:"name" json:"name"`
	DataType string `yaml:"data_type" json:"data_type"`
	Value    string `yaml:"value" json:"value"`
	Secret   bool   `yaml:"secret,omitempty" json:"secret,omitempty"`
	// Task is set when the variable was bound by assigning a task call.
	Task string `yaml:"task,omitempty" json:"task,omitempty"`
}
