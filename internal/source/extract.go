// Package source captures the literal text of decorated functions in action
// scripts and normalizes it so the function can be parsed on its own.
package source

import (
	"strings"

	"github.com/vk/runbookgo/internal/compileerr"
)

// TabWidth is the number of spaces a tab expands to before any column counting.
const TabWidth = 4

// Body is normalized function text: the decorator line removed and every
// remaining line shifted left by the decorator's indentation.
type Body struct {
	Text     string
	Filename string
	// Line is the file line of the first line of Text.
	Line int
	// Padding is the number of columns removed from every line.
	Padding int
}

// Extract normalizes raw decorated-function text that starts at line 1.
func Extract(raw string) (*Body, error) {
	return extract(raw, "", 1)
}

// extract expands tabs, measures the indentation of the decorator line, drops
// that line and strips exactly that many characters from every other line.
// Comment lines and continuation lines inside open brackets may sit left of
// the decorator; comments become blank and continuations lose their indent.
// decoratorLine is the file line of the first line of raw.
func extract(raw, filename string, decoratorLine int) (*Body, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\t", strings.Repeat(" ", TabWidth)), "\n")
	padding := leadingSpaces(lines[0])

	out := make([]string, 0, len(lines)-1)
	var stmt statement
	for i, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		lead := leadingSpaces(line)
		switch {
		case trimmed == "":
			out = append(out, "")
			continue
		case lead >= padding:
			out = append(out, line[padding:])
		case stmt.open():
			out = append(out, line[lead:])
		case isComment(trimmed):
			out = append(out, "")
			continue
		default:
			return nil, compileerr.Malformedf(filename, decoratorLine+1+i,
				"line is indented less than its decorator (%d columns)", padding)
		}
		stmt.feed(line)
	}

	return &Body{
		Text:     strings.Join(out, "\n"),
		Filename: filename,
		Line:     decoratorLine + 1,
		Padding:  padding,
	}, nil
}

func leadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
