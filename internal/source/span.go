package source

// Span is a half-open [Start, End) byte range within one Source. Spans
// compose (Union), shrink (Trim), and project (slice via Source.Slice).
type Span struct {
	Start int
	End   int
}

// NewSpan builds a Span, panicking if end < start — spans are never
// allowed to go backwards.
func NewSpan(start, end int) Span {
	if end < start {
		panic("source: span end before start")
	}
	return Span{Start: start, End: end}
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool { return s.Start == s.End }

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

// Trim returns a span with n bytes removed from the front and m bytes
// removed from the back. It never produces a span narrower than empty at
// its own start.
func (s Span) Trim(front, back int) Span {
	start := s.Start + front
	end := s.End - back
	if start > end {
		start = end
	}
	return Span{Start: start, End: end}
}

// Contains reports whether offset lies within [Start, End).
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}
