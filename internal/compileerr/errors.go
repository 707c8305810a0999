// Package compileerr defines the error kinds raised while compiling an action
// script. Each kind wraps a sentinel so callers can branch with errors.Is and
// recover the detail with errors.As.
//
// Source problems are always one of MalformedSourceError,
// UnsupportedConstructError or NodeVisitError. ErrInternal marks a broken
// compiler invariant instead, such as a registry whose evaluation context
// cannot be built or a task graph with duplicate refs from a faulty ID
// generator; no action script can cause it.
package compileerr

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrMalformedSource indicates text that cannot be normalized or tokenized.
	ErrMalformedSource = errors.New("malformed source")

	// ErrUnsupportedConstruct indicates a statement shape outside the action grammar.
	ErrUnsupportedConstruct = errors.New("unsupported construct")

	// ErrNodeVisit indicates a statement that parsed but could not be resolved
	// into tasks or variables.
	ErrNodeVisit = errors.New("node visit error")

	// ErrInternal indicates a violated compiler invariant rather than bad input.
	ErrInternal = errors.New("internal compiler error")
)

// MalformedSourceError reports inconsistently indented or untokenizable source.
type MalformedSourceError struct {
	Filename string
	Line     int // 1-based; 0 when unknown
	Msg      string
	Err      error // Optional underlying error (e.g. HCL diagnostics)
}

func (e *MalformedSourceError) Error() string {
	if e == nil {
		return ""
	}
	msg := ErrMalformedSource.Error()
	if loc := location(e.Filename, e.Line); loc != "" {
		msg = loc + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedSourceError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedSource, e.Err}
	}
	return []error{ErrMalformedSource}
}

// UnsupportedConstructError reports a compound statement the compiler does not
// translate, such as a top-level `if`.
type UnsupportedConstructError struct {
	Construct string // leading keyword, e.g. "if"
	Range     hcl.Range
	Msg       string
}

func (e *UnsupportedConstructError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s: %q statement", e.Range.String(), ErrUnsupportedConstruct.Error(), e.Construct)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

func (e *UnsupportedConstructError) Unwrap() error { return ErrUnsupportedConstruct }

// NodeVisitError reports a statement the visitor could not resolve, e.g. a
// call whose callee is missing from the namespace.
type NodeVisitError struct {
	Range   hcl.Range
	Snippet string // offending source text
	Err     error
}

func (e *NodeVisitError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s", e.Range.String(), ErrNodeVisit.Error())
	if e.Snippet != "" {
		msg += fmt.Sprintf(" in %q", e.Snippet)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NodeVisitError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNodeVisit, e.Err}
	}
	return []error{ErrNodeVisit}
}

// Malformedf builds a MalformedSourceError for a file line.
func Malformedf(filename string, line int, format string, args ...any) error {
	return &MalformedSourceError{Filename: filename, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Unsupported builds an UnsupportedConstructError.
func Unsupported(construct string, rng hcl.Range, msg string) error {
	return &UnsupportedConstructError{Construct: construct, Range: rng, Msg: msg}
}

// Visitf builds a NodeVisitError with a formatted cause.
func Visitf(rng hcl.Range, snippet string, format string, args ...any) error {
	return &NodeVisitError{Range: rng, Snippet: snippet, Err: fmt.Errorf(format, args...)}
}

func location(filename string, line int) string {
	switch {
	case filename != "" && line > 0:
		return fmt.Sprintf("%s:%d", filename, line)
	case line > 0:
		return fmt.Sprintf("line %d", line)
	default:
		return filename
	}
}
