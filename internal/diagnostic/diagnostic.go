// Package diagnostic renders structured parse/resolve/plan errors into
// human-readable, span-accurate reports. The rendering style — colored
// origin line, numbered source context, a caret-underline line, a
// trailing hint — is the same shape as the teacher project's
// formatStrictError/errf/warnf helpers, generalized from "one span, one
// Go-template error string" to "N labeled spans, structured kind".
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/Shemnei/punktf/internal/source"
)

// Kind names one entry of the error taxonomy in SPEC_FULL.md §7.
type Kind string

const (
	KindIoError             Kind = "IoError"
	KindProfileParse        Kind = "ProfileError::Parse"
	KindProfileCyclic       Kind = "ProfileError::CyclicExtends"
	KindTemplateSyntax      Kind = "TemplateError::Syntax"
	KindTemplateUndefined   Kind = "TemplateError::UndefinedVariable"
	KindMergeConflictAsk    Kind = "MergeConflictAsk"
	KindHookFailed          Kind = "HookFailed"
	KindSchemaError         Kind = "SchemaError"
	KindNonUtf8             Kind = "NonUtf8"
)

// Label attaches a short message to a span; a Diagnostic carries one
// primary span (where detection occurred) plus zero or more secondary
// labels (e.g. the opener of an unterminated block).
type Label struct {
	Span    source.Span
	Message string
}

// Diagnostic is the structured error record from SPEC_FULL.md §4.4/§7.
type Diagnostic struct {
	Kind    Kind
	Primary source.Span
	Labels  []Label
	Hint    string

	// Source is the document the spans were taken from, when one was
	// available at the point of detection (every internal/template
	// diagnostic sets this; most internal/profile and internal/deploy
	// diagnostics carry no span and so leave this nil). Report uses it to
	// decide between the full span report and the plain "Kind: Hint" line.
	Source *source.Source
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Hint)
}

// Report renders the full span-accurate report (see Render) when Source is
// set, falling back to the plain Error() line otherwise — the single entry
// point the CLI boundary uses so it never has to ask "do I have a source
// for this one".
func (d *Diagnostic) Report(color bool) string {
	if d.Source == nil {
		return d.Error()
	}
	return d.Render(d.Source, color)
}

// New builds a Diagnostic with a primary span and no labels yet.
func New(kind Kind, primary source.Span, hint string) *Diagnostic {
	return &Diagnostic{Kind: kind, Primary: primary, Hint: hint}
}

// WithLabel appends a secondary label and returns the diagnostic for
// chaining.
func (d *Diagnostic) WithLabel(sp source.Span, message string) *Diagnostic {
	d.Labels = append(d.Labels, Label{Span: sp, Message: message})
	return d
}

// Render produces the multi-line human report for src. When color is
// true, ANSI codes highlight the kind, the carets, and the hint — the
// same toggle the teacher's CLI exposes via --no-color/NO_COLOR.
func (d *Diagnostic) Render(src *source.Source, color bool) string {
	var b strings.Builder

	kindLabel := string(d.Kind)
	if color {
		kindLabel = ansiRed + kindLabel + ansiReset
	}

	line, col := src.LineCol(d.Primary.Start)
	fmt.Fprintf(&b, "%s: %s\n", kindLabel, d.Hint)
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", src.Origin(), line, col)

	renderLabel := func(sp source.Span, message string) {
		ln, cl := src.LineCol(sp.Start)
		text := src.LineText(sp.Start)
		gutter := fmt.Sprintf("%d", ln)
		fmt.Fprintf(&b, "%s | %s\n", gutter, text)

		underline := caretLine(text, cl-1, displayWidth(sp, src))
		if color {
			underline = ansiYellow + underline + ansiReset
		}
		fmt.Fprintf(&b, "%s | %s", strings.Repeat(" ", len(gutter)), underline)
		if message != "" {
			fmt.Fprintf(&b, " %s", message)
		}
		fmt.Fprintln(&b)
		_ = cl
	}

	renderLabel(d.Primary, "")
	for _, lbl := range d.Labels {
		renderLabel(lbl.Span, lbl.Message)
	}

	if d.Hint != "" {
		hint := d.Hint
		if color {
			hint = ansiCyan + "hint: " + hint + ansiReset
		} else {
			hint = "hint: " + hint
		}
		fmt.Fprintln(&b, hint)
	}

	return b.String()
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiReset  = "\x1b[0m"
)

// displayWidth returns the number of monospace display columns the span
// occupies on the line it starts on, counting fullwidth East-Asian
// characters as two columns each, per SPEC_FULL.md §4.4.
func displayWidth(sp source.Span, src *source.Source) int {
	text := src.Text(sp)
	return stringWidth(text)
}

func stringWidth(s string) int {
	width := 0
	for _, r := range s {
		width += runeWidth(r)
	}
	if width == 0 {
		width = 1
	}
	return width
}

// runeWidth is a small, explicit fullwidth-range table covering the common
// CJK blocks; it is not a full Unicode East-Asian-Width implementation,
// but it covers the cases the spec calls out by name.
func runeWidth(r rune) int {
	switch {
	case r >= 0x1100 && r <= 0x115F, // Hangul Jamo
		r >= 0x2E80 && r <= 0xA4CF, // CJK radicals .. Yi
		r >= 0xAC00 && r <= 0xD7A3, // Hangul syllables
		r >= 0xF900 && r <= 0xFAFF, // CJK compatibility ideographs
		r >= 0xFF00 && r <= 0xFF60, // fullwidth forms
		r >= 0xFFE0 && r <= 0xFFE6,
		r >= 0x20000 && r <= 0x3FFFD:
		return 2
	default:
		return 1
	}
}

// caretLine builds a line of spaces up to startCol (in bytes) followed by
// width carets, matching the display width of the labeled span.
func caretLine(lineText string, startByteCol, width int) string {
	if startByteCol < 0 {
		startByteCol = 0
	}
	if startByteCol > len(lineText) {
		startByteCol = len(lineText)
	}
	prefixWidth := stringWidthBytes(lineText[:startByteCol])
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", prefixWidth) + strings.Repeat("^", width)
}

func stringWidthBytes(s string) int {
	w := 0
	for _, r := range s {
		w += runeWidth(r)
	}
	return w
}
