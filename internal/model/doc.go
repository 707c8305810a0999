// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the compiled object model: tasks, variables, stages,
// edges, DAGs, runbooks and the cached CompiledAction that wraps them.
//
// # Core Concepts
//
//   - Task: one unit of work produced from a recognized call expression. The
//     payload is whatever the task factory returned and is opaque to the
//     compiler.
//
//   - Stage: one position in the statement order, holding a single task or a
//     parallel set of tasks.
//
//   - DAG: every task of a compiled body plus the precedence edges inferred
//     between adjacent stages.
//
//   - Runbook: the deployable unit. Its task list starts with the DAG itself,
//     followed by the child tasks in source order.
//
//   - CompiledAction: the classified, named end product of compiling one
//     decorated function.
//
// All types carry yaml and json tags so a renderer can hand them to the
// orchestration platform's schema without an intermediate mapping layer.
package model
