// internal/qualname/name.go
package qualname

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// segmentRegex matches a single identifier segment.
var segmentRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Name is a parsed qualified name.
type Name struct {
	Segments []string
}

// Parse creates a Name from its dotted string form.
func Parse(raw string) (*Name, error) {
	if raw == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	return FromSegments(strings.Split(raw, "."))
}

// FromSegments validates already-split segments, such as a parsed callee.
func FromSegments(segments []string) (*Name, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("name cannot be empty")
	}
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("name contains empty segment")
		}
		if !segmentRegex.MatchString(s) {
			return nil, fmt.Errorf("invalid name segment: %q", s)
		}
	}
	return &Name{Segments: slices.Clone(segments)}, nil
}

// String serializes the Name into its canonical dotted form.
func (n *Name) String() string {
	if n == nil {
		return ""
	}
	return strings.Join(n.Segments, ".")
}

// Root returns the first segment.
func (n *Name) Root() string {
	if n == nil || len(n.Segments) == 0 {
		return ""
	}
	return n.Segments[0]
}

// HasPrefix reports whether other's segments lead n's segments.
func (n *Name) HasPrefix(other *Name) bool {
	if n == nil || other == nil || len(other.Segments) > len(n.Segments) {
		return false
	}
	return slices.Equal(n.Segments[:len(other.Segments)], other.Segments)
}

// Equal checks for equality between two Name pointers.
func (n *Name) Equal(other *Name) bool {
	if n == nil || other == nil {
		return n == other
	}
	return slices.Equal(n.Segments, other.Segments)
}
