package template

import (
	"testing"

	"github.com/Shemnei/punktf/internal/source"
)

// roundtrip asserts that concatenating the byte ranges of every top-level
// block exactly covers the source, with no gap and no overlap (the
// invariant documented on the Template type in ast.go).
func roundtrip(t *testing.T, src string) *Template {
	t.Helper()
	s := source.New("<test>", []byte(src))
	tpl, diag := Parse(s)
	if diag != nil {
		t.Fatalf("Parse(%q): %v", src, diag.Error())
	}
	pos := 0
	for _, blk := range tpl.Blocks {
		if blk.Span.Start != pos {
			t.Fatalf("Parse(%q): gap before block %v at %d, expected %d", src, blk.Kind, blk.Span.Start, pos)
		}
		pos = blk.Span.End
	}
	if pos != len(src) {
		t.Fatalf("Parse(%q): blocks cover [0,%d), want [0,%d)", src, pos, len(src))
	}
	return tpl
}

func TestParsePlainText(t *testing.T) {
	tpl := roundtrip(t, "hello world")
	if len(tpl.Blocks) != 1 || tpl.Blocks[0].Kind != BlockText {
		t.Fatalf("unexpected blocks: %+v", tpl.Blocks)
	}
}

func TestParseVariable(t *testing.T) {
	tpl := roundtrip(t, "hi {{&name}}!")
	if len(tpl.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %+v", len(tpl.Blocks), tpl.Blocks)
	}
	v := tpl.Blocks[1]
	if v.Kind != BlockVariable || v.Variable.Name != "name" || !v.Variable.Prefixes.Has(PrefixDotfile) {
		t.Fatalf("unexpected variable block: %+v", v)
	}
}

func TestParseVariableDefaultPrefixesAreEmptySet(t *testing.T) {
	tpl := roundtrip(t, "{{name}}")
	v := tpl.Blocks[0].Variable
	if !v.Prefixes.Empty() {
		t.Fatalf("bare variable should have an empty explicit prefix set, got %+v", v.Prefixes)
	}
	eff := v.Prefixes.Effective()
	if !eff.Has(PrefixProfile) || !eff.Has(PrefixDotfile) || eff.Has(PrefixEnv) {
		t.Fatalf("effective default prefixes should be {Profile, Dotfile}, got %+v", eff)
	}
}

func TestParseEscapedBlock(t *testing.T) {
	tpl := roundtrip(t, "a {{{ {{not a var}} }}} b")
	found := false
	for _, blk := range tpl.Blocks {
		if blk.Kind == BlockEscaped {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a BlockEscaped, got %+v", tpl.Blocks)
	}
}

func TestParseIfElifElse(t *testing.T) {
	tpl := roundtrip(t, `{{@if {{&a}}}}A{{@elif {{&b}}}}B{{@else}}C{{@fi}}`)
	if len(tpl.Blocks) != 1 || tpl.Blocks[0].Kind != BlockIf {
		t.Fatalf("expected a single BlockIf, got %+v", tpl.Blocks)
	}
	blk := tpl.Blocks[0]
	if len(blk.Arms) != 2 {
		t.Fatalf("expected 2 arms (if, elif), got %d", len(blk.Arms))
	}
	if !blk.HasElse {
		t.Fatalf("expected HasElse to be true")
	}
}

func TestParseIfWithComparison(t *testing.T) {
	tpl := roundtrip(t, `{{@if {{&os}} == "linux"}}x{{@fi}}`)
	cond := tpl.Blocks[0].Arms[0].Condition
	if cond.Kind != CondEquals || cond.Literal != "linux" {
		t.Fatalf("unexpected condition: %+v", cond)
	}
}

func TestParseIfNegatedExistence(t *testing.T) {
	tpl := roundtrip(t, `{{@if !{{&missing}}}}x{{@fi}}`)
	cond := tpl.Blocks[0].Arms[0].Condition
	if cond.Kind != CondNotExists {
		t.Fatalf("expected CondNotExists, got %v", cond.Kind)
	}
}

func TestParsePrintBody(t *testing.T) {
	tpl := roundtrip(t, `{{@print "hello " {{&name}}}}`)
	blk := tpl.Blocks[0]
	if blk.Kind != BlockPrint {
		t.Fatalf("expected BlockPrint, got %v", blk.Kind)
	}
	if len(blk.PrintBlocks) != 2 {
		t.Fatalf("expected 2 print sub-blocks, got %d: %+v", len(blk.PrintBlocks), blk.PrintBlocks)
	}
	if !blk.PrintBlocks[0].QuotedLiteral {
		t.Fatalf("expected first print sub-block to be a quoted literal")
	}
}

func TestParseMissingFiIsAnError(t *testing.T) {
	s := source.New("<test>", []byte(`{{@if {{&a}}}}x`))
	_, diag := Parse(s)
	if diag == nil {
		t.Fatalf("expected a missing-@fi diagnostic")
	}
}

func TestParseStrayElifIsAnError(t *testing.T) {
	s := source.New("<test>", []byte(`{{@elif &a}}x{{@fi}}`))
	_, diag := Parse(s)
	if diag == nil {
		t.Fatalf("expected a stray-@elif diagnostic")
	}
}
