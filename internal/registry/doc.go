// Package registry is the symbol table an action script is compiled against.
//
// It maps qualified names to task factories, variable factories, plain values
// and the parallel marker. Go modules populate it through the Module
// interface before any compilation starts; afterwards it is read-only, so a
// single Registry can be shared by every compiler in a run.
//
// The registry also owns the HCL evaluation context used for call arguments:
// registered values become nested object variables, and a small function
// library (ref, endpoint and a few string helpers) is always available.
package registry
