package deploy

import (
	"bytes"
	"testing"

	"github.com/Shemnei/punktf/internal/profile"
)

func TestApplyTransformersLF(t *testing.T) {
	in := []byte("a\r\nb\r\nc")
	out := ApplyTransformers(in, []profile.Transformer{profile.TransformLF})
	if !bytes.Equal(out, []byte("a\nb\nc")) {
		t.Fatalf("got %q", out)
	}
}

func TestApplyTransformersCRLF(t *testing.T) {
	in := []byte("a\nb\r\nc")
	out := ApplyTransformers(in, []profile.Transformer{profile.TransformCRLF})
	if !bytes.Equal(out, []byte("a\r\nb\r\nc")) {
		t.Fatalf("got %q", out)
	}
}

func TestApplyTransformersLFIsIdempotent(t *testing.T) {
	in := []byte("a\r\nb\nc")
	once := ApplyTransformers(in, []profile.Transformer{profile.TransformLF})
	twice := ApplyTransformers(once, []profile.Transformer{profile.TransformLF})
	if !bytes.Equal(once, twice) {
		t.Fatalf("LF transform not idempotent: once=%q twice=%q", once, twice)
	}
}

func TestApplyTransformersCRLFIsIdempotent(t *testing.T) {
	in := []byte("a\r\nb\nc")
	once := ApplyTransformers(in, []profile.Transformer{profile.TransformCRLF})
	twice := ApplyTransformers(once, []profile.Transformer{profile.TransformCRLF})
	if !bytes.Equal(once, twice) {
		t.Fatalf("CRLF transform not idempotent: once=%q twice=%q", once, twice)
	}
}

func TestApplyTransformersProfileThenDotfileOrder(t *testing.T) {
	in := []byte("a\nb")
	out := ApplyTransformers(in,
		[]profile.Transformer{profile.TransformCRLF},
		[]profile.Transformer{profile.TransformLF},
	)
	if !bytes.Equal(out, []byte("a\nb")) {
		t.Fatalf("expected dotfile-level LF to run after profile-level CRLF, got %q", out)
	}
}

func TestApplyTransformersNoneIsNoop(t *testing.T) {
	in := []byte("a\r\nb")
	out := ApplyTransformers(in)
	if !bytes.Equal(out, in) {
		t.Fatalf("got %q, want unchanged %q", out, in)
	}
}
