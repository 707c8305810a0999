package source

import (
	"strings"

	"github.com/vk/runbookgo/internal/syntax"
)

// statement accumulates the physical lines of one statement so that a line
// inside open brackets is recognized as a continuation whatever its
// indentation.
type statement struct {
	pending []byte
}

// open reports whether the statement read so far still has open brackets.
func (s *statement) open() bool {
	return len(s.pending) > 0
}

// feed adds line to the current statement and resets once it is balanced.
func (s *statement) feed(line string) {
	if len(s.pending) > 0 {
		s.pending = append(s.pending, '\n')
	}
	s.pending = append(s.pending, line...)
	if syntax.OpenBrackets(s.pending) <= 0 {
		s.pending = s.pending[:0]
	}
}

// isComment reports whether a trimmed line holds only a comment.
func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//")
}
