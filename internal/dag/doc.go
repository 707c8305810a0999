// Package dag turns ordered stages of tasks into a validated task graph.
//
// InferEdges derives precedence edges from stage order: every task of one
// stage precedes every task of the next, and nothing else is connected.
// Assemble packages tasks, edges and an execution target into a model.DAG
// after checking the result with Graph, a small concurrency-safe adjacency
// structure that rejects dangling references, self-edges and cycles.
package dag
