package syntax

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/runbookgo/internal/compileerr"
)

// logicalLine is one statement's worth of source, possibly spanning several
// physical lines while brackets are open. Continuation lines are re-padded by
// Options.Column-1 spaces so that token columns on them are file columns.
type logicalLine struct {
	indent int
	src    []byte
	// pos is the file position of src[0].
	pos hcl.Pos
	// tokens excludes comments, newlines and the EOF marker.
	tokens hclsyntax.Tokens
}

func (l *logicalLine) rangeOf(toks hclsyntax.Tokens) hcl.Range {
	return hcl.RangeBetween(toks[0].Range, toks[len(toks)-1].Range)
}

func (l *logicalLine) textOf(toks hclsyntax.Tokens) string {
	return string(l.src[toks[0].Range.Start.Byte:toks[len(toks)-1].Range.End.Byte])
}

// splitLines groups the physical lines of text into logical lines, skipping
// blank and comment-only lines.
func splitLines(text string, opts Options) ([]*logicalLine, error) {
	physical := strings.Split(text, "\n")
	pad := strings.Repeat(" ", opts.Column-1)

	var out []*logicalLine
	for i := 0; i < len(physical); i++ {
		raw := physical[i]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		indent := len(raw) - len(strings.TrimLeft(raw, " "))
		ln := &logicalLine{
			indent: indent,
			src:    []byte(raw[indent:]),
			pos:    hcl.Pos{Line: opts.Line + i, Column: opts.Column + indent, Byte: 0},
		}
		for {
			toks, depth, err := lex(ln.src, opts.Filename, ln.pos)
			// Open brackets, heredocs and errors caused by them may be
			// resolved by the following lines.
			if (err != nil || depth > 0) && i+1 < len(physical) {
				i++
				ln.src = append(append(append(ln.src, '\n'), pad...), physical[i]...)
				continue
			}
			if err != nil {
				return nil, err
			}
			if depth != 0 {
				return nil, compileerr.Malformedf(opts.Filename, ln.pos.Line, "unbalanced brackets")
			}
			ln.tokens = toks
			break
		}
		if len(ln.tokens) > 0 {
			out = append(out, ln)
		}
	}
	return out, nil
}

// lex tokenizes src and reports the net bracket depth at its end.
func lex(src []byte, filename string, pos hcl.Pos) (hclsyntax.Tokens, int, error) {
	all, diags := hclsyntax.LexExpression(src, filename, pos)
	if diags.HasErrors() {
		return nil, 0, &compileerr.MalformedSourceError{
			Filename: filename,
			Line:     pos.Line,
			Msg:      "cannot tokenize statement",
			Err:      diags,
		}
	}

	var toks hclsyntax.Tokens
	depth := 0
	for _, t := range all {
		switch t.Type {
		case hclsyntax.TokenComment, hclsyntax.TokenNewline, hclsyntax.TokenEOF:
			continue
		}
		depth += nesting(t.Type)
		toks = append(toks, t)
	}
	return toks, depth, nil
}

// OpenBrackets returns how many brackets, braces, template sequences and
// heredocs src leaves open. Lexing errors are ignored.
func OpenBrackets(src []byte) int {
	toks, _ := hclsyntax.LexExpression(src, "", hcl.InitialPos)
	depth := 0
	for _, t := range toks {
		depth += nesting(t.Type)
	}
	return depth
}

// nesting returns +1 for tokens that open a bracketed region, -1 for tokens
// that close one and 0 otherwise.
func nesting(tt hclsyntax.TokenType) int {
	switch tt {
	case hclsyntax.TokenOParen, hclsyntax.TokenOBrace, hclsyntax.TokenOBrack,
		hclsyntax.TokenTemplateInterp, hclsyntax.TokenTemplateControl, hclsyntax.TokenOHeredoc:
		return 1
	case hclsyntax.TokenCParen, hclsyntax.TokenCBrace, hclsyntax.TokenCBrack,
		hclsyntax.TokenTemplateSeqEnd, hclsyntax.TokenCHeredoc:
		return -1
	}
	return 0
}
