// Package action compiles one decorated function into a CompiledAction.
//
// A Compiler owns the captured source of a single function. Compile runs the
// full pipeline (normalize, parse, visit, infer edges, assemble) at most once
// successfully; later calls return the identical result. Failed attempts are
// not cached, and concurrent callers share a single in-flight attempt.
package action
