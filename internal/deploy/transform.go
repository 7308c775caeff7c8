package deploy

import (
	"bytes"

	"github.com/Shemnei/punktf/internal/profile"
)

// ApplyTransformers runs each transformer in order over content
// (SPEC_FULL.md §4.6): profile-level transformers first, then
// dotfile-level. Both LineTerminator variants are idempotent.
func ApplyTransformers(content []byte, transformers ...[]profile.Transformer) []byte {
	for _, group := range transformers {
		for _, t := range group {
			switch t {
			case profile.TransformLF:
				content = toLF(content)
			case profile.TransformCRLF:
				content = toCRLF(content)
			}
		}
	}
	return content
}

func toLF(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
}

func toCRLF(b []byte) []byte {
	b = toLF(b)
	return bytes.ReplaceAll(b, []byte("\n"), []byte("\r\n"))
}
