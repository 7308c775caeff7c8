package template

import (
	"strings"

	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/internal/source"
)

// Lex turns src into a finite ordered token stream covering every byte of
// src exactly once (SPEC_FULL.md §8 "lexer coverage"). It returns the
// first diagnostic hit for an unterminated escape, comment, quote, or
// directive.
func Lex(src *source.Source) (tokens []Token, diag *diagnostic.Diagnostic) {
	defer func() {
		if diag != nil {
			diag.Source = src
		}
	}()

	data := src.Bytes()
	n := len(data)

	pos := 0
	depth := 0
	var openers []int // stack of OpenBrace2 start offsets, for unterminated-directive reporting

	hasPrefixAt := func(p int, s string) bool {
		return p+len(s) <= n && string(data[p:p+len(s)]) == s
	}

	for pos < n {
		if depth == 0 {
			start := pos
			idx := indexFrom(data, pos, "{{")
			if idx == -1 {
				idx = n
			}
			if idx > start {
				tokens = append(tokens, Token{Kind: Text, Span: source.NewSpan(start, idx)})
				pos = idx
			}
			if pos >= n {
				break
			}

			switch {
			case hasPrefixAt(pos, "{{{"):
				openStart := pos
				pos += 3
				tokens = append(tokens, Token{Kind: OpenBrace3, Span: source.NewSpan(openStart, pos)})

				innerStart := pos
				edepth := 1
				for pos < n {
					if hasPrefixAt(pos, "{{{") {
						edepth++
						pos += 3
						continue
					}
					if hasPrefixAt(pos, "}}}") {
						edepth--
						if edepth == 0 {
							break
						}
						pos += 3
						continue
					}
					pos++
				}
				if edepth != 0 {
					return nil, diagnostic.New(diagnostic.KindTemplateSyntax,
						source.NewSpan(openStart, openStart+3),
						"unterminated escape block")
				}
				if pos > innerStart {
					tokens = append(tokens, Token{Kind: Text, Span: source.NewSpan(innerStart, pos)})
				}
				closeStart := pos
				pos += 3
				tokens = append(tokens, Token{Kind: CloseBrace3, Span: source.NewSpan(closeStart, pos)})

			case hasPrefixAt(pos, "{{!--"):
				openStart := pos
				closeIdx := indexFrom(data, pos+5, "--}}")
				if closeIdx == -1 {
					return nil, diagnostic.New(diagnostic.KindTemplateSyntax,
						source.NewSpan(openStart, openStart+5),
						"unterminated comment block")
				}
				end := closeIdx + 4
				tokens = append(tokens, Token{Kind: Comment, Span: source.NewSpan(openStart, end)})
				pos = end

			default:
				tokens = append(tokens, Token{Kind: OpenBrace2, Span: source.NewSpan(pos, pos+2)})
				openers = append(openers, pos)
				pos += 2
				depth = 1
			}
			continue
		}

		// depth > 0: structural token mode.
		c := data[pos]
		switch {
		case isSpace(c):
			start := pos
			for pos < n && isSpace(data[pos]) {
				pos++
			}
			tokens = append(tokens, Token{Kind: Whitespace, Span: source.NewSpan(start, pos)})

		case hasPrefixAt(pos, "{{"):
			tokens = append(tokens, Token{Kind: OpenBrace2, Span: source.NewSpan(pos, pos+2)})
			openers = append(openers, pos)
			pos += 2
			depth++

		case hasPrefixAt(pos, "}}"):
			tokens = append(tokens, Token{Kind: CloseBrace2, Span: source.NewSpan(pos, pos+2)})
			pos += 2
			depth--
			if len(openers) > 0 {
				openers = openers[:len(openers)-1]
			}

		case hasPrefixAt(pos, "=="):
			tokens = append(tokens, Token{Kind: EqEq, Span: source.NewSpan(pos, pos+2)})
			pos += 2

		case hasPrefixAt(pos, "!="):
			tokens = append(tokens, Token{Kind: BangEq, Span: source.NewSpan(pos, pos+2)})
			pos += 2

		case c == '"':
			start := pos
			pos++
			for pos < n && data[pos] != '"' {
				pos++
			}
			if pos >= n {
				return nil, diagnostic.New(diagnostic.KindTemplateSyntax,
					source.NewSpan(start, start+1), "unterminated string literal")
			}
			pos++ // consume closing quote
			tokens = append(tokens, Token{Kind: String, Span: source.NewSpan(start, pos)})

		case c == '@':
			tokens = append(tokens, Token{Kind: At, Span: source.NewSpan(pos, pos+1)})
			pos++
		case c == '!':
			tokens = append(tokens, Token{Kind: Bang, Span: source.NewSpan(pos, pos+1)})
			pos++
		case c == '$':
			tokens = append(tokens, Token{Kind: Dollar, Span: source.NewSpan(pos, pos+1)})
			pos++
		case c == '#':
			tokens = append(tokens, Token{Kind: Hash, Span: source.NewSpan(pos, pos+1)})
			pos++
		case c == '&':
			tokens = append(tokens, Token{Kind: Amp, Span: source.NewSpan(pos, pos+1)})
			pos++

		case isIdentStart(c):
			start := pos
			for pos < n && isIdentByte(data[pos]) {
				pos++
			}
			tokens = append(tokens, Token{Kind: Ident, Span: source.NewSpan(start, pos)})

		default:
			return nil, diagnostic.New(diagnostic.KindTemplateSyntax,
				source.NewSpan(pos, pos+1), "unexpected character in directive")
		}
	}

	if depth != 0 {
		openStart := openers[len(openers)-1]
		return nil, diagnostic.New(diagnostic.KindTemplateSyntax,
			source.NewSpan(openStart, openStart+2), "unterminated directive")
	}

	tokens = append(tokens, Token{Kind: EOF, Span: source.NewSpan(n, n)})
	return tokens, nil
}

func indexFrom(data []byte, from int, sub string) int {
	if from >= len(data) {
		return -1
	}
	idx := strings.Index(string(data[from:]), sub)
	if idx == -1 {
		return -1
	}
	return from + idx
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
