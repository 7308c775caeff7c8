package template

import "github.com/Shemnei/punktf/internal/source"

// Kind enumerates the lexed primitives from SPEC_FULL.md §3.1/§4.1. Comment
// is a compound passthrough kind the lexer assembles directly; an escape
// block is lexed as OpenBrace3, an optional Text body, and CloseBrace3.
// The parser never re-tokenizes either body (per §4.1's "lexing is
// scannerless beyond this level" note).
type Kind int

const (
	Text Kind = iota
	OpenBrace2
	CloseBrace2
	OpenBrace3
	CloseBrace3
	At
	Bang
	Dollar
	Hash
	Amp
	Ident
	String
	EqEq
	BangEq
	Whitespace
	Comment
	EOF
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "Text"
	case OpenBrace2:
		return "OpenBrace2"
	case CloseBrace2:
		return "CloseBrace2"
	case OpenBrace3:
		return "OpenBrace3"
	case CloseBrace3:
		return "CloseBrace3"
	case At:
		return "At"
	case Bang:
		return "Bang"
	case Dollar:
		return "Dollar"
	case Hash:
		return "Hash"
	case Amp:
		return "Amp"
	case Ident:
		return "Ident"
	case String:
		return "String"
	case EqEq:
		return "EqEq"
	case BangEq:
		return "BangEq"
	case Whitespace:
		return "Whitespace"
	case Comment:
		return "Comment"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is a lexed primitive with its kind and span.
type Token struct {
	Kind Kind
	Span source.Span
}
