// Package source holds the immutable text buffers that templates are
// lexed, parsed, and diagnosed against, plus the byte-range Span type
// diagnostics and the parser pass around instead of line/column pairs.
package source

import "sort"

// Source is an immutable byte-indexed text buffer plus an origin label
// (a file path, or a synthetic name like "<render>" for in-memory use).
// All positions into a Source are byte offsets, never character or line
// counts; line/column are derived on demand from a lazily built index.
type Source struct {
	origin string
	bytes  []byte

	lineStarts []int // byte offset of the first byte of each line; built lazily
}

// New creates a Source from raw bytes and an origin label.
func New(origin string, data []byte) *Source {
	return &Source{origin: origin, bytes: data}
}

// Origin returns the source's label (path or synthetic name).
func (s *Source) Origin() string { return s.origin }

// Bytes returns the full underlying buffer. Callers must not mutate it.
func (s *Source) Bytes() []byte { return s.bytes }

// Len returns the number of bytes in the source.
func (s *Source) Len() int { return len(s.bytes) }

// Slice returns the bytes covered by sp. Panics if sp is out of bounds.
func (s *Source) Slice(sp Span) []byte {
	return s.bytes[sp.Start:sp.End]
}

// Text is a convenience wrapper around Slice returning a string.
func (s *Source) Text(sp Span) string {
	return string(s.Slice(sp))
}

func (s *Source) ensureLineIndex() {
	if s.lineStarts != nil {
		return
	}
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i, b := range s.bytes {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	s.lineStarts = starts
}

// LineCol returns the 1-based line and column for a byte offset. Column is
// counted in bytes from the start of the line; display-width columns for
// diagnostics rendering are computed by internal/diagnostic.
func (s *Source) LineCol(offset int) (line, col int) {
	s.ensureLineIndex()
	// binary search for the last lineStart <= offset
	i := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	line = i + 1
	col = offset - s.lineStarts[i] + 1
	return line, col
}

// LineSpan returns the span of the full line (including its trailing
// newline, if any) containing offset.
func (s *Source) LineSpan(offset int) Span {
	s.ensureLineIndex()
	i := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	start := s.lineStarts[i]
	end := len(s.bytes)
	if i+1 < len(s.lineStarts) {
		end = s.lineStarts[i+1]
	}
	return Span{Start: start, End: end}
}

// LineText returns the textual content of the line containing offset,
// with any trailing newline stripped.
func (s *Source) LineText(offset int) string {
	sp := s.LineSpan(offset)
	text := s.Text(sp)
	for len(text) > 0 && (text[len(text)-1] == '\n' || text[len(text)-1] == '\r') {
		text = text[:len(text)-1]
	}
	return text
}
