package syntax

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/runbookgo/internal/compileerr"
	"github.com/zclconf/go-cty/cty"
)

// DefaultParallelMarker is the `with` item recognized when Options does not
// say otherwise.
const DefaultParallelMarker = "parallel"

// Options configures Parse.
type Options struct {
	Filename string
	// Line and Column give the file position of the first character of the
	// text. Both default to 1.
	Line   int
	Column int
	// IsParallelMarker reports whether the callee of a `with` item is the
	// parallel marker.
	IsParallelMarker func(callee string) bool
}

// compoundKeywords open blocks that have no meaning in a task graph.
var compoundKeywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"try": true, "except": true, "finally": true, "def": true, "class": true,
	"match": true, "case": true, "async": true, "with": true,
}

// simpleKeywords start statements that have no meaning in a task graph.
var simpleKeywords = map[string]bool{
	"return": true, "yield": true, "import": true, "from": true, "raise": true,
	"del": true, "global": true, "nonlocal": true, "assert": true,
	"break": true, "continue": true, "await": true, "lambda": true,
}

type parser struct {
	opts  Options
	lines []*logicalLine
	pos   int
}

// Parse parses normalized function text: a `def <name>():` header followed
// by an indented body.
func Parse(text string, opts Options) (*Function, error) {
	if opts.Line <= 0 {
		opts.Line = 1
	}
	if opts.Column <= 0 {
		opts.Column = 1
	}
	if opts.IsParallelMarker == nil {
		opts.IsParallelMarker = func(callee string) bool { return callee == DefaultParallelMarker }
	}

	lines, err := splitLines(text, opts)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, compileerr.Malformedf(opts.Filename, opts.Line, "missing function definition")
	}

	p := &parser{opts: opts, lines: lines}
	header := lines[0]
	fn, err := p.parseHeader(header)
	if err != nil {
		return nil, err
	}

	p.pos = 1
	body, err := p.parseBlock(header, false)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.lines) {
		return nil, compileerr.Malformedf(opts.Filename, p.lines[p.pos].pos.Line, "unexpected statement after the function body")
	}

	if doc, ok := docstring(body[0]); ok {
		fn.Doc = doc
		body = body[1:]
	}
	fn.Body = body
	return fn, nil
}

// parseHeader accepts exactly `def <name>():`.
func (p *parser) parseHeader(ln *logicalLine) (*Function, error) {
	toks := ln.tokens
	if len(toks) != 5 ||
		toks[0].Type != hclsyntax.TokenIdent || string(toks[0].Bytes) != "def" ||
		toks[1].Type != hclsyntax.TokenIdent ||
		toks[2].Type != hclsyntax.TokenOParen ||
		toks[3].Type != hclsyntax.TokenCParen ||
		toks[4].Type != hclsyntax.TokenColon {
		return nil, compileerr.Malformedf(p.opts.Filename, ln.pos.Line, "expected `def <name>():` after the decorator")
	}
	return &Function{Name: string(toks[1].Bytes), Range: ln.rangeOf(toks)}, nil
}

// parseBlock parses the statements indented under opener.
func (p *parser) parseBlock(opener *logicalLine, inParallel bool) ([]Statement, error) {
	if p.pos >= len(p.lines) || p.lines[p.pos].indent <= opener.indent {
		return nil, compileerr.Malformedf(p.opts.Filename, opener.pos.Line, "expected an indented block")
	}

	indent := p.lines[p.pos].indent
	var stmts []Statement
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if ln.indent <= opener.indent {
			break
		}
		if ln.indent != indent {
			return nil, compileerr.Malformedf(p.opts.Filename, ln.pos.Line, "unexpected indentation")
		}
		p.pos++

		stmt, err := p.parseStatement(ln, inParallel)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *parser) parseStatement(ln *logicalLine, inParallel bool) (Statement, error) {
	toks := ln.tokens
	b := base{SrcRange: ln.rangeOf(toks), Text: ln.textOf(toks)}

	keyword := ""
	if toks[0].Type == hclsyntax.TokenIdent {
		keyword = string(toks[0].Bytes)
	}

	if toks[len(toks)-1].Type == hclsyntax.TokenColon {
		if keyword != "with" {
			if keyword == "" {
				keyword = string(toks[0].Bytes)
			}
			return nil, compileerr.Unsupported(keyword, b.SrcRange, "only call statements, assignments and parallel blocks are allowed")
		}
		if inParallel {
			return nil, compileerr.Unsupported(keyword, b.SrcRange, "parallel blocks cannot be nested")
		}
		call, ok, err := p.parseCall(ln, toks[1:len(toks)-1])
		if err != nil {
			return nil, err
		}
		if !ok || !p.opts.IsParallelMarker(call.CalleeName()) {
			return nil, compileerr.Unsupported(keyword, b.SrcRange, "only parallel blocks may be opened with `with`")
		}
		body, err := p.parseBlock(ln, true)
		if err != nil {
			return nil, err
		}
		return &ParallelStmt{base: b, Marker: call, Body: body}, nil
	}

	if compoundKeywords[keyword] || simpleKeywords[keyword] {
		return nil, compileerr.Unsupported(keyword, b.SrcRange, "")
	}

	if keyword == "pass" && len(toks) == 1 {
		return &PassStmt{base: b}, nil
	}

	if keyword != "" && len(toks) >= 2 && toks[1].Type == hclsyntax.TokenEqual {
		rhs := toks[2:]
		if len(rhs) == 0 {
			return nil, compileerr.Malformedf(p.opts.Filename, ln.pos.Line, "assignment to %q has no value", keyword)
		}
		call, ok, err := p.parseCall(ln, rhs)
		if err != nil {
			return nil, err
		}
		if ok {
			return &AssignStmt{base: b, Name: keyword, Call: call}, nil
		}
		expr, err := p.parseExpr(ln, rhs)
		if err != nil {
			return nil, err
		}
		return &AssignStmt{base: b, Name: keyword, Value: expr}, nil
	}

	call, ok, err := p.parseCall(ln, toks)
	if err != nil {
		return nil, err
	}
	if ok {
		return &CallStmt{base: b, Call: call}, nil
	}

	expr, err := p.parseExpr(ln, toks)
	if err != nil {
		return nil, err
	}
	return &ExprStmt{base: b, Expr: expr}, nil
}

// parseCall recognizes `a.b.c(args)` spanning exactly toks. ok is false when
// toks have another shape.
func (p *parser) parseCall(ln *logicalLine, toks hclsyntax.Tokens) (*CallExpr, bool, error) {
	if len(toks) < 3 || toks[0].Type != hclsyntax.TokenIdent {
		return nil, false, nil
	}

	callee := []string{string(toks[0].Bytes)}
	i := 1
	for i+1 < len(toks) && toks[i].Type == hclsyntax.TokenDot && toks[i+1].Type == hclsyntax.TokenIdent {
		callee = append(callee, string(toks[i+1].Bytes))
		i += 2
	}
	if i >= len(toks) || toks[i].Type != hclsyntax.TokenOParen {
		return nil, false, nil
	}

	var groups []hclsyntax.Tokens
	start, closing, depth := i+1, -1, 0
scan:
	for j := i + 1; j < len(toks); j++ {
		if depth == 0 {
			switch toks[j].Type {
			case hclsyntax.TokenComma:
				groups = append(groups, toks[start:j])
				start = j + 1
				continue
			case hclsyntax.TokenCParen:
				groups = append(groups, toks[start:j])
				closing = j
				break scan
			}
		}
		depth += nesting(toks[j].Type)
	}
	if closing < 0 {
		return nil, false, compileerr.Malformedf(p.opts.Filename, toks[0].Range.Start.Line, "unclosed argument list")
	}
	if closing != len(toks)-1 {
		return nil, false, nil
	}

	call := &CallExpr{Callee: callee, SrcRange: hcl.RangeBetween(toks[0].Range, toks[closing].Range)}
	seen := make(map[string]bool)
	for gi, g := range groups {
		if len(g) == 0 {
			if gi == len(groups)-1 {
				continue // trailing comma or empty list
			}
			return nil, false, compileerr.Malformedf(p.opts.Filename, toks[i].Range.Start.Line, "empty argument in call to %s", call.CalleeName())
		}

		arg := Arg{Range: ln.rangeOf(g)}
		exprToks := g
		if len(g) >= 2 && g[0].Type == hclsyntax.TokenIdent && g[1].Type == hclsyntax.TokenEqual {
			arg.Name = string(g[0].Bytes)
			exprToks = g[2:]
			if len(exprToks) == 0 {
				return nil, false, compileerr.Malformedf(p.opts.Filename, g[0].Range.Start.Line, "argument %q has no value", arg.Name)
			}
			if seen[arg.Name] {
				return nil, false, compileerr.Malformedf(p.opts.Filename, g[0].Range.Start.Line, "argument %q given more than once", arg.Name)
			}
			seen[arg.Name] = true
		} else if len(seen) > 0 {
			return nil, false, compileerr.Malformedf(p.opts.Filename, g[0].Range.Start.Line, "positional argument follows keyword argument")
		}

		expr, err := p.parseExpr(ln, exprToks)
		if err != nil {
			return nil, false, err
		}
		arg.Expr = expr
		call.Args = append(call.Args, arg)
	}
	return call, true, nil
}

// parseExpr parses toks as a single HCL expression.
func (p *parser) parseExpr(ln *logicalLine, toks hclsyntax.Tokens) (hcl.Expression, error) {
	src := ln.src[toks[0].Range.Start.Byte:toks[len(toks)-1].Range.End.Byte]
	start := toks[0].Range.Start
	start.Byte = 0
	expr, diags := hclsyntax.ParseExpression(src, p.opts.Filename, start)
	if diags.HasErrors() {
		return nil, &compileerr.MalformedSourceError{
			Filename: p.opts.Filename,
			Line:     start.Line,
			Msg:      "invalid expression",
			Err:      diags,
		}
	}
	return expr, nil
}

// docstring reports whether stmt is a constant string statement.
func docstring(stmt Statement) (string, bool) {
	es, ok := stmt.(*ExprStmt)
	if !ok {
		return "", false
	}
	if len(es.Expr.Variables()) > 0 {
		return "", false
	}
	val, diags := es.Expr.Value(nil)
	if diags.HasErrors() || !val.IsKnown() || val.IsNull() || val.Type() != cty.String {
		return "", false
	}
	return val.AsString(), true
}
