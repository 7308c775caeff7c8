package template

import "github.com/Shemnei/punktf/internal/source"

// Prefix names one of the three Environment tiers a Variable block may be
// restricted to search.
type Prefix int

const (
	PrefixEnv Prefix = iota
	PrefixProfile
	PrefixDotfile
)

// PrefixSet is a small unordered set of Prefix values. The zero value is
// the empty set, which the resolver treats as the default {Profile,
// Dotfile} per SPEC_FULL.md §4.3/§9.
type PrefixSet struct {
	env, profile, dotfile bool
}

func (s PrefixSet) Has(p Prefix) bool {
	switch p {
	case PrefixEnv:
		return s.env
	case PrefixProfile:
		return s.profile
	case PrefixDotfile:
		return s.dotfile
	}
	return false
}

func (s *PrefixSet) Add(p Prefix) {
	switch p {
	case PrefixEnv:
		s.env = true
	case PrefixProfile:
		s.profile = true
	case PrefixDotfile:
		s.dotfile = true
	}
}

func (s PrefixSet) Empty() bool {
	return !s.env && !s.profile && !s.dotfile
}

// Effective returns the set that should actually be searched: the set
// itself if non-empty, else the default {Profile, Dotfile}.
func (s PrefixSet) Effective() PrefixSet {
	if !s.Empty() {
		return s
	}
	return PrefixSet{profile: true, dotfile: true}
}

// Variable is a `{{ prefix* Ident }}` reference.
type Variable struct {
	Prefixes PrefixSet
	Name     string
	Span     source.Span
}

// Op is a condition comparison operator.
type Op int

const (
	OpEquals Op = iota
	OpNotEquals
)

// ConditionKind distinguishes existence tests from equality tests.
type ConditionKind int

const (
	CondExists ConditionKind = iota
	CondNotExists
	CondEquals
	CondNotEquals
)

// Condition is one arm's test, from SPEC_FULL.md §3.1.
type Condition struct {
	Kind     ConditionKind
	Variable Variable
	Literal  string // only meaningful for CondEquals/CondNotEquals
	Span     source.Span
}

// BlockKind discriminates the Block union.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockComment
	BlockEscaped
	BlockVariable
	BlockPrint
	BlockIf
)

// IfArm is one `{{@if cond}}`/`{{@elif cond}}` arm.
type IfArm struct {
	Condition   Condition
	Body        []Block
	HeaderSpan  source.Span // the full `{{@if cond}}`/`{{@elif cond}}` directive
	HeaderLine  source.Span // line containing HeaderSpan.Start
}

// Block is the parsed unit. Exactly one of the payload fields is
// meaningful, selected by Kind, mirroring a tagged union in a language
// with real sum types.
type Block struct {
	Kind BlockKind
	Span source.Span

	// line is the span of the full source line the block starts on; used
	// by the resolver for empty-line elision (§4.2's parser-must-annotate
	// note).
	Line source.Span

	Inner         source.Span // BlockEscaped: verbatim inner span; BlockText+QuotedLiteral: span without quotes
	QuotedLiteral bool        // BlockText appearing inside a Print body (sourced from a String token)
	Variable      Variable    // BlockVariable
	PrintBlocks   []Block     // BlockPrint: Text + Variable sequence

	Arms           []IfArm     // BlockIf
	ElseBody       []Block     // BlockIf, optional
	HasElse        bool        // BlockIf
	ElseHeaderSpan source.Span // BlockIf + HasElse: the `{{@else}}` directive
	ElseHeaderLine source.Span
	FiSpan         source.Span // BlockIf: the closing `{{@fi}}` directive
	FiLine         source.Span
}

// Template is the parsed result: a source plus its top-level block list.
// Invariant (SPEC_FULL.md §3.1): concatenating the byte ranges of all
// top-level blocks exactly covers Source with no overlap and no gap.
type Template struct {
	Source *source.Source
	Blocks []Block
}
