// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Reference, the pointer to an execution target such as an
// endpoint. References are produced by the `ref(...)` function inside action
// scripts and by owner entities when they backfill default targets.
package model

import (
	"fmt"
	"strings"
)

// Reference identifies an entity on the orchestration platform by kind and name.
type Reference struct {
	Kind string `yaml:"kind" json:"kind"`
	Name string `yaml:"name" json:"name"`
}

// String renders the reference as `kind:name`.
func (r *Reference) String() string {
	if r == nil {
		return ""
	}
	return r.Kind + ":" + r.Name
}

// ParseReference parses the `kind:name` form used in configuration files.
func ParseReference(s string) (*Reference, error) {
	kind, name, ok := strings.Cut(s, ":")
	if !ok || kind == "" || name == "" {
		return nil, fmt.Errorf("invalid reference %q: expected kind:name", s)
	}
	return &Reference{Kind: kind, Name: name}, nil
}
