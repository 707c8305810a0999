package source

import (
	"regexp"
	"strings"
)

// Decorators recognized by Locate.
const (
	DecoratorAction  = "action"
	DecoratorRunbook = "runbook"
)

// decoratorRegex matches `@action`, `@runbook` and their `()` forms.
var decoratorRegex = regexp.MustCompile(`^@(action|runbook)(?:\(\))?\s*(?:#.*)?$`)

// headerRegex captures the declared name from a `def` line.
var headerRegex = regexp.MustCompile(`^def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// Function is the captured, immutable text of one decorated function.
type Function struct {
	Filename  string
	Line      int // 1-based file line of the decorator
	Decorator string
	// Name is the declared function name, empty when the header is malformed.
	Name string
	Raw  string
}

// Body normalizes the function text.
func (f *Function) Body() (*Body, error) {
	return extract(f.Raw, f.Filename, f.Line)
}

// Locate scans an action script and returns every decorated function in file
// order. A function runs from its decorator line to the last statement line
// indented deeper than the decorator. Comment lines do not end a function, and
// neither does any line inside open brackets.
func Locate(filename string, data []byte) []*Function {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	var funcs []*Function
	for i := 0; i < len(lines); i++ {
		expanded := strings.ReplaceAll(lines[i], "\t", strings.Repeat(" ", TabWidth))
		m := decoratorRegex.FindStringSubmatch(strings.TrimSpace(expanded))
		if m == nil {
			continue
		}
		indent := leadingSpaces(expanded)

		// The header line sits at the decorator's indentation; the body below it.
		end := i + 1
		if end < len(lines) {
			end++
		}
		last := end
		var stmt statement
	scan:
		for ; end < len(lines); end++ {
			line := strings.ReplaceAll(lines[end], "\t", strings.Repeat(" ", TabWidth))
			trimmed := strings.TrimSpace(line)
			switch {
			case stmt.open():
			case trimmed == "" || isComment(trimmed):
				continue
			case leadingSpaces(line) <= indent:
				break scan
			}
			stmt.feed(line)
			last = end + 1
		}

		var name string
		if i+1 < len(lines) {
			if hm := headerRegex.FindStringSubmatch(strings.TrimSpace(lines[i+1])); hm != nil {
				name = hm[1]
			}
		}

		funcs = append(funcs, &Function{
			Filename:  filename,
			Line:      i + 1,
			Decorator: m[1],
			Name:      name,
			Raw:       strings.Join(lines[i:last], "\n"),
		})
		i = last - 1
	}
	return funcs
}
