// internal/qualname/doc.go

/*
Package qualname provides a structured representation of the dotted names
used to address symbols in an action script's namespace, e.g.
`Task.Exec.ssh` or `endpoints.web`.

The format is a dot-separated sequence of identifier segments. This package
enforces the identifier schema and centralizes formatting and parsing so the
registry and the visitor agree on what a name is.
*/
package qualname
