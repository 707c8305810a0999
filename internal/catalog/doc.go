// Package catalog provides a thread-safe, in-memory store of the action
// compilers discovered in one run.
//
// Actions are kept in discovery order and indexed by declared name. The
// catalog also exposes every action to action scripts as an `Action.<name>`
// task factory, so one action can call another's runbook.
package catalog
