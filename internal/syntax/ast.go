// Package syntax parses a normalized action body into a small, explicit
// statement grammar. Only four statement shapes exist: call statements,
// assignments, parallel blocks and `pass`. Anything else is rejected while
// parsing so that later stages never see it.
//
// Tokenization and argument expressions are delegated to the HCL native
// syntax (hclsyntax), so argument values are ordinary HCL expressions.
package syntax

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Function is a parsed decorated function.
type Function struct {
	Name string
	// Doc is the docstring, if the body opened with a string literal.
	Doc  string
	Body []Statement
	// Range covers the `def` header line.
	Range hcl.Range
}

// Statement is one of *CallStmt, *AssignStmt, *ParallelStmt, *PassStmt or
// *ExprStmt.
type Statement interface {
	Range() hcl.Range
	// Source returns the statement text as written.
	Source() string
	statement()
}

// Arg is a single call argument. Name is empty for positional arguments.
type Arg struct {
	Name  string
	Expr  hcl.Expression
	Range hcl.Range
}

// CallExpr is a call with a dotted callee, e.g. `Task.Exec.ssh(name="a")`.
type CallExpr struct {
	Callee   []string
	Args     []Arg
	SrcRange hcl.Range
}

// CalleeName returns the qualified callee, e.g. "Task.Exec.ssh".
func (c *CallExpr) CalleeName() string {
	return strings.Join(c.Callee, ".")
}

// Positional returns the positional arguments in order.
func (c *CallExpr) Positional() []Arg {
	var out []Arg
	for _, a := range c.Args {
		if a.Name == "" {
			out = append(out, a)
		}
	}
	return out
}

// Named returns the keyword arguments by name.
func (c *CallExpr) Named() map[string]Arg {
	out := make(map[string]Arg)
	for _, a := range c.Args {
		if a.Name != "" {
			out[a.Name] = a
		}
	}
	return out
}

type base struct {
	SrcRange hcl.Range
	Text     string
}

func (b *base) Range() hcl.Range { return b.SrcRange }
func (b *base) Source() string   { return b.Text }
func (b *base) statement()       {}

// CallStmt is a bare call expression statement.
type CallStmt struct {
	base
	Call *CallExpr
}

// AssignStmt binds Name to the result of the right-hand side. Call is nil
// when the right-hand side is not a call; Value then holds the expression.
type AssignStmt struct {
	base
	Name  string
	Call  *CallExpr
	Value hcl.Expression
}

// ParallelStmt is a `with <marker>():` block. Its statements carry no
// ordering among each other.
type ParallelStmt struct {
	base
	Marker *CallExpr
	Body   []Statement
}

// PassStmt is the empty statement.
type PassStmt struct {
	base
}

// ExprStmt is an expression statement that is not a call.
type ExprStmt struct {
	base
	Expr hcl.Expression
}
