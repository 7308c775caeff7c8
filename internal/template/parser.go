package template

import (
	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/internal/source"
)

// Parse lexes and parses src into a Template. Parsing is non-recovering:
// the first error terminates parsing (SPEC_FULL.md §4.2).
func Parse(src *source.Source) (tpl *Template, diag *diagnostic.Diagnostic) {
	defer func() {
		if diag != nil {
			diag.Source = src
		}
	}()

	toks, diag := Lex(src)
	if diag != nil {
		return nil, diag
	}
	p := &parser{src: src, toks: toks}
	blocks, diag := p.parseBlocks(nil)
	if diag != nil {
		return nil, diag
	}
	if p.cur().Kind != EOF {
		return nil, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span, "unexpected trailing directive")
	}
	return &Template{Source: src, Blocks: blocks}, nil
}

type parser struct {
	src  *source.Source
	toks []Token
	pos  int
}

func (p *parser) cur() Token  { return p.toks[p.pos] }
func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != EOF {
		p.pos++
	}
	return t
}

// peekDirectiveName returns the identifier naming an `@xxx` directive
// assuming the current token is the OpenBrace2 that opens it, without
// consuming anything. It returns "" if this isn't an `@`-directive.
func (p *parser) peekDirectiveName() string {
	// toks[pos] == OpenBrace2
	i := p.pos + 1
	if i >= len(p.toks) || p.toks[i].Kind != At {
		return ""
	}
	i++
	if i >= len(p.toks) || p.toks[i].Kind != Ident {
		return ""
	}
	return p.src.Text(p.toks[i].Span)
}

// stopSet names the directive keywords that should end a block* run
// (used for If arm bodies).
type stopSet map[string]bool

// parseBlocks parses block* until EOF or until the next token opens a
// directive named in stop.
func (p *parser) parseBlocks(stop stopSet) ([]Block, *diagnostic.Diagnostic) {
	var blocks []Block
	for {
		tok := p.cur()
		if tok.Kind == EOF {
			return blocks, nil
		}
		if tok.Kind == OpenBrace2 {
			if name := p.peekDirectiveName(); name != "" && stop[name] {
				return blocks, nil
			}
		}
		blk, diag := p.parseBlock()
		if diag != nil {
			return nil, diag
		}
		blocks = append(blocks, blk)
	}
}

func (p *parser) lineOf(offset int) source.Span { return p.src.LineSpan(offset) }

func (p *parser) parseBlock() (Block, *diagnostic.Diagnostic) {
	tok := p.cur()
	switch tok.Kind {
	case Text:
		p.advance()
		return Block{Kind: BlockText, Span: tok.Span, Line: p.lineOf(tok.Span.Start)}, nil

	case Comment:
		p.advance()
		return Block{Kind: BlockComment, Span: tok.Span, Line: p.lineOf(tok.Span.Start)}, nil

	case OpenBrace3:
		return p.parseEscaped()

	case OpenBrace2:
		name := p.peekDirectiveName()
		switch name {
		case "if":
			return p.parseIf()
		case "print":
			return p.parsePrint()
		case "elif", "else", "fi":
			return Block{}, diagnostic.New(diagnostic.KindTemplateSyntax, tok.Span,
				"stray @"+name+" with no matching @if")
		default:
			return p.parseVariableBlock()
		}

	default:
		return Block{}, diagnostic.New(diagnostic.KindTemplateSyntax, tok.Span, "unexpected token")
	}
}

func (p *parser) parseEscaped() (Block, *diagnostic.Diagnostic) {
	open := p.advance() // OpenBrace3
	var inner source.Span
	if p.cur().Kind == Text {
		inner = p.cur().Span
		p.advance()
	} else {
		inner = source.NewSpan(open.Span.End, open.Span.End)
	}
	if p.cur().Kind != CloseBrace3 {
		return Block{}, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span, "expected }}}").
			WithLabel(open.Span, "escape block opened here")
	}
	closeTok := p.advance()
	full := source.NewSpan(open.Span.Start, closeTok.Span.End)
	return Block{Kind: BlockEscaped, Span: full, Inner: inner, Line: p.lineOf(full.Start)}, nil
}

// parseVariableBlock parses `{{ prefix* Ident }}` assuming cur() is the
// opening OpenBrace2.
func (p *parser) parseVariableBlock() (Block, *diagnostic.Diagnostic) {
	v, full, diag := p.parseVariable()
	if diag != nil {
		return Block{}, diag
	}
	return Block{Kind: BlockVariable, Span: full, Variable: v, Line: p.lineOf(full.Start)}, nil
}

// parseVariable parses a `{{ prefix* Ident }}` and returns the Variable
// plus its full enclosing span. Assumes cur() is the opening OpenBrace2.
func (p *parser) parseVariable() (Variable, source.Span, *diagnostic.Diagnostic) {
	open := p.advance() // OpenBrace2
	var ps PrefixSet
	for {
		switch p.cur().Kind {
		case Dollar:
			ps.Add(PrefixEnv)
			p.advance()
		case Hash:
			ps.Add(PrefixProfile)
			p.advance()
		case Amp:
			ps.Add(PrefixDotfile)
			p.advance()
		default:
			goto sigilsDone
		}
	}
sigilsDone:
	if p.cur().Kind != Ident {
		return Variable{}, source.Span{}, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span,
			"expected variable name").WithLabel(open.Span, "variable opened here")
	}
	nameTok := p.advance()
	name := p.src.Text(nameTok.Span)
	if p.cur().Kind != CloseBrace2 {
		return Variable{}, source.Span{}, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span,
			"expected }}").WithLabel(open.Span, "variable opened here")
	}
	closeTok := p.advance()
	full := source.NewSpan(open.Span.Start, closeTok.Span.End)
	varSpan := source.NewSpan(open.Span.Start, closeTok.Span.End)
	return Variable{Prefixes: ps, Name: name, Span: varSpan}, full, nil
}

func (p *parser) skipWS() {
	for p.cur().Kind == Whitespace {
		p.advance()
	}
}

func (p *parser) parsePrint() (Block, *diagnostic.Diagnostic) {
	open := p.advance() // OpenBrace2
	p.advance()         // At
	p.advance()         // Ident "print"
	p.skipWS()

	var body []Block
	for {
		p.skipWS()
		switch p.cur().Kind {
		case String:
			tok := p.advance()
			inner := tok.Span.Trim(1, 1)
			body = append(body, Block{Kind: BlockText, Span: tok.Span, Inner: inner, QuotedLiteral: true})
		case OpenBrace2:
			v, full, diag := p.parseVariable()
			if diag != nil {
				return Block{}, diag
			}
			body = append(body, Block{Kind: BlockVariable, Span: full, Variable: v})
		case CloseBrace2:
			closeTok := p.advance()
			full := source.NewSpan(open.Span.Start, closeTok.Span.End)
			return Block{Kind: BlockPrint, Span: full, PrintBlocks: body, Line: p.lineOf(full.Start)}, nil
		default:
			return Block{}, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span,
				"expected string, variable, or }} in print body").WithLabel(open.Span, "print opened here")
		}
	}
}

var ifStop = stopSet{"elif": true, "else": true, "fi": true}

func (p *parser) parseIf() (Block, *diagnostic.Diagnostic) {
	firstHeaderStart := p.cur().Span.Start
	arm, diag := p.parseIfArm("if")
	if diag != nil {
		return Block{}, diag
	}
	arms := []IfArm{arm}

	for p.cur().Kind == OpenBrace2 && p.peekDirectiveName() == "elif" {
		a, diag := p.parseIfArm("elif")
		if diag != nil {
			return Block{}, diag
		}
		arms = append(arms, a)
	}

	var elseBody []Block
	hasElse := false
	var elseHeaderSpan, elseHeaderLine source.Span
	if p.cur().Kind == OpenBrace2 && p.peekDirectiveName() == "else" {
		hasElse = true
		open := p.cur()
		elseHeaderLine = p.lineOf(open.Span.Start)
		p.advance() // OpenBrace2
		p.advance() // At
		p.advance() // Ident else
		if p.cur().Kind != CloseBrace2 {
			return Block{}, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span, "expected }} after @else")
		}
		closeTok := p.advance()
		elseHeaderSpan = source.NewSpan(open.Span.Start, closeTok.Span.End)

		body, diag := p.parseBlocks(stopSet{"fi": true})
		if diag != nil {
			return Block{}, diag
		}
		elseBody = body
	}

	if !(p.cur().Kind == OpenBrace2 && p.peekDirectiveName() == "fi") {
		return Block{}, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span, "expected @fi").
			WithLabel(source.NewSpan(firstHeaderStart, firstHeaderStart+4), "if opened here")
	}
	fiOpen := p.cur()
	fiLine := p.lineOf(fiOpen.Span.Start)
	p.advance() // OpenBrace2
	p.advance() // At
	p.advance() // Ident fi
	if p.cur().Kind != CloseBrace2 {
		return Block{}, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span, "expected }} after @fi")
	}
	fiClose := p.advance()
	fiSpan := source.NewSpan(fiOpen.Span.Start, fiClose.Span.End)

	full := source.NewSpan(firstHeaderStart, fiClose.Span.End)
	return Block{
		Kind: BlockIf, Span: full, Line: p.lineOf(full.Start),
		Arms: arms, ElseBody: elseBody, HasElse: hasElse,
		ElseHeaderSpan: elseHeaderSpan, ElseHeaderLine: elseHeaderLine,
		FiSpan: fiSpan, FiLine: fiLine,
	}, nil
}

// parseIfArm parses `{{@if cond}}` or `{{@elif cond}}` and the block* that
// follows, up to (not including) the next elif/else/fi.
func (p *parser) parseIfArm(keyword string) (IfArm, *diagnostic.Diagnostic) {
	open := p.cur()
	headerLine := p.lineOf(open.Span.Start)
	p.advance() // OpenBrace2
	p.advance() // At
	p.advance() // Ident (if/elif)
	p.skipWS()

	cond, diag := p.parseCondition()
	if diag != nil {
		return IfArm{}, diag
	}
	p.skipWS()
	if p.cur().Kind != CloseBrace2 {
		return IfArm{}, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span, "expected }}").
			WithLabel(open.Span, "@"+keyword+" opened here")
	}
	closeTok := p.advance()
	headerSpan := source.NewSpan(open.Span.Start, closeTok.Span.End)

	body, diag := p.parseBlocks(ifStop)
	if diag != nil {
		return IfArm{}, diag
	}
	return IfArm{Condition: cond, Body: body, HeaderSpan: headerSpan, HeaderLine: headerLine}, nil
}

// parseCondition parses `('!')? Variable (Op String)?`.
func (p *parser) parseCondition() (Condition, *diagnostic.Diagnostic) {
	start := p.cur().Span.Start
	negate := false
	if p.cur().Kind == Bang {
		negate = true
		p.advance()
		p.skipWS()
	}
	if p.cur().Kind != OpenBrace2 {
		return Condition{}, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span, "expected variable in condition")
	}
	v, _, diag := p.parseVariable()
	if diag != nil {
		return Condition{}, diag
	}
	p.skipWS()

	var op Op
	hasOp := false
	switch p.cur().Kind {
	case EqEq:
		op, hasOp = OpEquals, true
		p.advance()
	case BangEq:
		op, hasOp = OpNotEquals, true
		p.advance()
	}

	if !hasOp {
		end := v.Span.End
		kind := CondExists
		if negate {
			kind = CondNotExists
		}
		return Condition{Kind: kind, Variable: v, Span: source.NewSpan(start, end)}, nil
	}

	p.skipWS()
	if p.cur().Kind != String {
		return Condition{}, diagnostic.New(diagnostic.KindTemplateSyntax, p.cur().Span, "expected string literal after comparison operator")
	}
	litTok := p.advance()
	literal := p.src.Text(litTok.Span.Trim(1, 1))

	kind := CondEquals
	if op == OpNotEquals {
		kind = CondNotEquals
	}
	if negate {
		if kind == CondEquals {
			kind = CondNotEquals
		} else {
			kind = CondEquals
		}
	}
	return Condition{Kind: kind, Variable: v, Literal: literal, Span: source.NewSpan(start, litTok.Span.End)}, nil
}
