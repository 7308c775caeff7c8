package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "target: ~/dotfiles\ndotfiles:\n  - path: vimrc\n")
	p, err := LoadFile(filepath.Join(dir, "base.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.Name() != "base" {
		t.Fatalf("got name %q, want base", p.Name())
	}
	if p.Target == nil || p.Target.Path != "~/dotfiles" {
		t.Fatalf("unexpected target: %+v", p.Target)
	}
	if len(p.Dotfiles) != 1 || p.Dotfiles[0].Path != "vimrc" {
		t.Fatalf("unexpected dotfiles: %+v", p.Dotfiles)
	}
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.json", `{"target": "~/dotfiles", "dotfiles": [{"path": "vimrc"}]}`)
	p, err := LoadFile(filepath.Join(dir, "base.json"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.Target == nil || p.Target.Path != "~/dotfiles" {
		t.Fatalf("unexpected target: %+v", p.Target)
	}
}

func TestLoadFileTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.toml", "target = \"~/dotfiles\"\n\n[[dotfiles]]\npath = \"vimrc\"\n")
	p, err := LoadFile(filepath.Join(dir, "base.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.Target == nil || p.Target.Path != "~/dotfiles" {
		t.Fatalf("unexpected target: %+v", p.Target)
	}
}

func TestLoadFileTargetLegacyAliasForm(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "target:\n  alias: windows\ndotfiles: []\n")
	p, err := LoadFile(filepath.Join(dir, "base.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.Target == nil || p.Target.Alias != "windows" || p.Target.Path != "" {
		t.Fatalf("unexpected target: %+v", p.Target)
	}
}

func TestLoadFileTargetPathForm(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "target:\n  path: /etc\ndotfiles: []\n")
	p, err := LoadFile(filepath.Join(dir, "base.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.Target == nil || p.Target.Path != "/etc" {
		t.Fatalf("unexpected target: %+v", p.Target)
	}
}

func TestLoadFileUnknownPathIsIoError(t *testing.T) {
	if _, err := LoadFile("/nonexistent/profile.yaml"); err == nil {
		t.Fatalf("expected an io error")
	}
}

func TestLoadFileInvalidYAMLIsParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "dotfiles: [this is not valid: yaml::\n")
	if _, err := LoadFile(filepath.Join(dir, "broken.yaml")); err == nil {
		t.Fatalf("expected a parse error")
	}
}
