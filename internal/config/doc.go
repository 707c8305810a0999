// Package config defines the format-agnostic configuration model: the owner
// entities that action scripts are declared on, together with the Loader
// interface implemented by the HCL and YAML front ends.
//
// An Entity supplies the default execution target for its actions, decides
// whether the compiled DAG carries that target, and names the special
// `__name__` functions that become system or fragment actions.
package config
