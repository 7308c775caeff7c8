package template

import (
	"strings"

	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/internal/source"
)

// Options controls resolver behavior (SPEC_FULL.md §4.3).
type Options struct {
	// KeepWhitespaceOnEmptyLine disables empty-line elision when true.
	KeepWhitespaceOnEmptyLine bool

	// Print receives each `{{@print ...}}` body's resolved text. It is a
	// user-visible log sink, never part of the file output. Failures
	// resolving a print body are reported via this sink too (as text),
	// never abort resolution (SPEC_FULL.md §4.3).
	Print func(string)
}

// Resolve interprets t against env and returns the resolved string, or
// the first fatal diagnostic encountered.
func Resolve(t *Template, env *Environment, opts Options) (out string, diag *diagnostic.Diagnostic) {
	defer func() {
		if diag != nil {
			diag.Source = t.Source
		}
	}()

	r := &resolver{src: t.Source, env: env, opts: opts}
	out, diag = r.resolveSequence(t.Blocks)
	if diag != nil {
		return "", diag
	}
	return out, nil
}

type resolver struct {
	src  *source.Source
	env  *Environment
	opts Options
}

func (r *resolver) resolveSequence(blocks []Block) (string, *diagnostic.Diagnostic) {
	var b strings.Builder
	lineStart := 0 // offset into b.String() where the current output line began

	writeAndTrack := func(s string) {
		for {
			idx := strings.IndexByte(s, '\n')
			if idx == -1 {
				b.WriteString(s)
				break
			}
			b.WriteString(s[:idx+1])
			lineStart = b.Len()
			s = s[idx+1:]
		}
	}

	// tryElide checks whether everything written so far on the current
	// output line is whitespace, and whether the source bytes immediately
	// following markerEnd (up to the next newline) are whitespace-only;
	// if both hold and empty is true, it trims the pending whitespace
	// prefix from the builder and arranges for the next write to skip the
	// remainder of that source line (including its newline).
	skipSourceUntil := -1 // if >= 0, next writes must skip raw source bytes [cur, skipSourceUntil)

	tryElide := func(markerEnd int, empty bool) {
		if r.opts.KeepWhitespaceOnEmptyLine || !empty {
			return
		}
		pending := b.String()[lineStart:]
		if strings.TrimSpace(pending) != "" {
			return
		}
		rest := r.restOfLineIsWhitespace(markerEnd)
		if rest < 0 {
			return
		}
		// Trim the whitespace-only prefix already emitted for this line.
		trimmed := b.String()[:lineStart]
		b.Reset()
		b.WriteString(trimmed)
		skipSourceUntil = rest
	}

	emitText := func(sp source.Span) {
		text := r.src.Text(sp)
		start := sp.Start
		if skipSourceUntil >= 0 {
			if start >= skipSourceUntil {
				skipSourceUntil = -1
			} else {
				skipLen := skipSourceUntil - start
				if skipLen > len(text) {
					skipLen = len(text)
				}
				text = text[skipLen:]
				if skipSourceUntil <= sp.End {
					skipSourceUntil = -1
				}
			}
		}
		writeAndTrack(text)
	}

	for i := range blocks {
		blk := &blocks[i]
		switch blk.Kind {
		case BlockText:
			if blk.QuotedLiteral {
				writeAndTrack(r.src.Text(blk.Inner))
				continue
			}
			emitText(blk.Span)

		case BlockComment:
			tryElide(blk.Span.End, true)

		case BlockEscaped:
			text := r.src.Text(blk.Inner)
			tryElide(blk.Span.End, text == "")
			if text != "" {
				writeAndTrack(text)
			}

		case BlockVariable:
			val, ok := r.env.Lookup(blk.Variable.Prefixes, blk.Variable.Name)
			if !ok {
				return "", diagnostic.New(diagnostic.KindTemplateUndefined, blk.Variable.Span,
					"undefined variable \""+blk.Variable.Name+"\"")
			}
			writeAndTrack(val)

		case BlockPrint:
			msg, diag := r.resolvePrintBody(blk.PrintBlocks)
			if r.opts.Print != nil {
				if diag != nil {
					r.opts.Print("[punktf] print error: " + diag.Error())
				} else {
					r.opts.Print(msg)
				}
			}
			tryElide(blk.Span.End, true)

		case BlockIf:
			out, chosenHeaderEnd, diag := r.resolveIf(blk)
			if diag != nil {
				return "", diag
			}
			// Only the chosen arm's header (or @else) can leave behind a
			// blank line in the output — unchosen arms contribute no text
			// at all. Elide it the same way a Comment/Print directive
			// would be elided: trim the whitespace already pending on
			// this output line, and drop the header's own line from out.
			if chosenHeaderEnd >= 0 {
				pending := b.String()[lineStart:]
				if !r.opts.KeepWhitespaceOnEmptyLine && strings.TrimSpace(pending) == "" &&
					r.restOfLineIsWhitespace(chosenHeaderEnd) >= 0 {
					trimmed := b.String()[:lineStart]
					b.Reset()
					b.WriteString(trimmed)
					out = trimLeadingLine(out)
				}
			}
			writeAndTrack(out)
			tryElide(blk.FiSpan.End, true)
		}
	}

	return b.String(), nil
}

// restOfLineIsWhitespace returns the offset of (one past) the line's
// newline if every byte from offset to the end of its source line is
// whitespace; otherwise -1.
func (r *resolver) restOfLineIsWhitespace(offset int) int {
	line := r.src.LineSpan(offset)
	rest := r.src.Text(source.NewSpan(offset, line.End))
	if strings.TrimSpace(rest) != "" {
		return -1
	}
	return line.End
}

func (r *resolver) resolvePrintBody(blocks []Block) (string, *diagnostic.Diagnostic) {
	var b strings.Builder
	for _, blk := range blocks {
		switch blk.Kind {
		case BlockText:
			b.WriteString(r.src.Text(blk.Inner))
		case BlockVariable:
			val, ok := r.env.Lookup(blk.Variable.Prefixes, blk.Variable.Name)
			if !ok {
				return "", diagnostic.New(diagnostic.KindTemplateUndefined, blk.Variable.Span,
					"undefined variable \""+blk.Variable.Name+"\" in print body")
			}
			b.WriteString(val)
		}
	}
	return b.String(), nil
}

// resolveIf resolves whichever arm (or else body) is taken and reports
// the byte offset just past that arm's own header/@else directive, so the
// caller can consider eliding the header's line. It returns -1 for that
// offset when no arm's body is taken and there is no @else either.
func (r *resolver) resolveIf(blk *Block) (string, int, *diagnostic.Diagnostic) {
	for _, arm := range blk.Arms {
		ok, diag := r.evalCondition(arm.Condition)
		if diag != nil {
			return "", -1, diag
		}
		if ok {
			out, diag := r.resolveSequence(arm.Body)
			if diag != nil {
				return "", -1, diag
			}
			return out, arm.HeaderSpan.End, nil
		}
	}
	if blk.HasElse {
		out, diag := r.resolveSequence(blk.ElseBody)
		if diag != nil {
			return "", -1, diag
		}
		return out, blk.ElseHeaderSpan.End, nil
	}
	return "", -1, nil
}

// trimLeadingLine removes the leading whitespace-only line (including its
// newline) from s, used to drop the blank line an elided if/elif/else
// header would otherwise leave behind in its arm's body text.
func trimLeadingLine(s string) string {
	idx := strings.IndexByte(s, '\n')
	if idx == -1 {
		if strings.TrimSpace(s) == "" {
			return ""
		}
		return s
	}
	return s[idx+1:]
}

func (r *resolver) evalCondition(c Condition) (bool, *diagnostic.Diagnostic) {
	switch c.Kind {
	case CondExists:
		return r.env.Exists(c.Variable.Prefixes, c.Variable.Name), nil
	case CondNotExists:
		return !r.env.Exists(c.Variable.Prefixes, c.Variable.Name), nil
	case CondEquals, CondNotEquals:
		val, ok := r.env.Lookup(c.Variable.Prefixes, c.Variable.Name)
		if !ok {
			return false, diagnostic.New(diagnostic.KindTemplateUndefined, c.Variable.Span,
				"undefined variable \""+c.Variable.Name+"\" in condition")
		}
		eq := val == c.Literal
		if c.Kind == CondNotEquals {
			return !eq, nil
		}
		return eq, nil
	}
	return false, nil
}
