package deploy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Shemnei/punktf/internal/profile"
)

func TestRenderTemplatesAndTransforms(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.tpl")
	if err := os.WriteFile(src, []byte("hi {{&name}}\r\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	prof := &profile.Profile{Transformers: []profile.Transformer{profile.TransformLF}}
	d := &profile.Dotfile{Variables: map[string]any{"name": "punktf"}}
	step := &Step{SourcePath: src, TargetPath: filepath.Join(dir, "out"), Dotfile: d}

	content, err := Render(step, RenderOptions{Profile: prof, SourceRoot: dir})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(content) != "hi punktf\n" {
		t.Fatalf("got %q", content)
	}
	if string(step.Content) != string(content) {
		t.Fatalf("expected step.Content to be populated with the rendered bytes")
	}
}

func TestRenderSkipsTemplatingWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.tpl")
	raw := "literal {{&notresolved}} text"
	if err := os.WriteFile(src, []byte(raw), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	noTemplate := false
	prof := &profile.Profile{}
	d := &profile.Dotfile{Template: &noTemplate}
	step := &Step{SourcePath: src, TargetPath: filepath.Join(dir, "out"), Dotfile: d}

	content, err := Render(step, RenderOptions{Profile: prof, SourceRoot: dir})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(content) != raw {
		t.Fatalf("expected template=false to leave content verbatim, got %q", content)
	}
}

func TestRenderNonUtf8SourceWithTemplatingEnabledIsAnError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.tpl")
	if err := os.WriteFile(src, []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	prof := &profile.Profile{}
	d := &profile.Dotfile{}
	step := &Step{SourcePath: src, TargetPath: filepath.Join(dir, "out"), Dotfile: d}

	if _, err := Render(step, RenderOptions{Profile: prof, SourceRoot: dir}); err == nil {
		t.Fatalf("expected a non-UTF-8 error when template=true")
	}
}

func TestRenderMissingSourceIsIoError(t *testing.T) {
	dir := t.TempDir()
	prof := &profile.Profile{}
	d := &profile.Dotfile{}
	step := &Step{SourcePath: filepath.Join(dir, "missing"), TargetPath: filepath.Join(dir, "out"), Dotfile: d}

	if _, err := Render(step, RenderOptions{Profile: prof, SourceRoot: dir}); err == nil {
		t.Fatalf("expected an io error for a missing source file")
	}
}
