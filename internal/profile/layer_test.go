package profile

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveSingleProfileNoExtends(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "target: ~/dotfiles\ndotfiles:\n  - path: vimrc\n  - path: bashrc\n")
	p, err := Resolve(dir, "base")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(p.Dotfiles) != 2 {
		t.Fatalf("unexpected dotfiles: %+v", p.Dotfiles)
	}
}

func TestResolveExtendsConcatenatesDotfilesAncestorFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "dotfiles:\n  - path: vimrc\n  - path: bashrc\n")
	writeFile(t, dir, "child.yaml", "extends: [base]\ndotfiles:\n  - path: gitconfig\n")

	p, err := Resolve(dir, "child")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(p.Dotfiles) != 3 {
		t.Fatalf("expected 3 dotfiles (2 ancestor + 1 own), got %+v", p.Dotfiles)
	}
	if p.Dotfiles[0].Path != "vimrc" || p.Dotfiles[2].Path != "gitconfig" {
		t.Fatalf("expected ancestor-first order, got %+v", p.Dotfiles)
	}
}

func TestResolveChildOverridesAncestorScalarFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "target: ~/base-target\ndotfiles: []\n")
	writeFile(t, dir, "child.yaml", "extends: [base]\ntarget: ~/child-target\ndotfiles: []\n")

	p, err := Resolve(dir, "child")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Target == nil || p.Target.Path != "~/child-target" {
		t.Fatalf("expected child's target to win, got %+v", p.Target)
	}
}

func TestResolveDedupKeepsDescendantEntryForSameTriple(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "dotfiles:\n  - path: vimrc\n    merge: keep\n")
	writeFile(t, dir, "child.yaml", "extends: [base]\ndotfiles:\n  - path: vimrc\n    merge: overwrite\n")

	p, err := Resolve(dir, "child")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(p.Dotfiles) != 1 {
		t.Fatalf("expected de-duplication to collapse same (path,rename,overwrite_target) triple, got %+v", p.Dotfiles)
	}
	if p.Dotfiles[0].EffectiveMerge() != MergeOverwrite {
		t.Fatalf("expected the descendant's entry to win, got %+v", p.Dotfiles[0])
	}
}

func TestResolveDotfilesWithDifferentRenameAreDistinctKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "dotfiles:\n  - path: vimrc\n    rename: .vimrc\n  - path: vimrc\n    rename: .vimrc2\n")
	p, err := Resolve(dir, "base")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(p.Dotfiles) != 2 {
		t.Fatalf("expected 2 distinct keys by rename, got %+v", p.Dotfiles)
	}
}

func TestResolveDetectsDirectCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "extends: [b]\ndotfiles: []\n")
	writeFile(t, dir, "b.yaml", "extends: [a]\ndotfiles: []\n")
	if _, err := Resolve(dir, "a"); err == nil {
		t.Fatalf("expected a cyclic-extends error")
	}
}

func TestResolveDetectsSelfCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "extends: [a]\ndotfiles: []\n")
	if _, err := Resolve(dir, "a"); err == nil {
		t.Fatalf("expected a self-cycle error")
	}
}

func TestResolveDiamondExtendsIsNotACycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.yaml", "dotfiles:\n  - path: shared\n")
	writeFile(t, dir, "left.yaml", "extends: [common]\ndotfiles:\n  - path: left\n")
	writeFile(t, dir, "right.yaml", "extends: [common]\ndotfiles:\n  - path: right\n")
	writeFile(t, dir, "top.yaml", "extends: [left, right]\ndotfiles:\n  - path: top\n")

	p, err := Resolve(dir, "top")
	if err != nil {
		t.Fatalf("Resolve: %v (diamond extends should not be flagged as cyclic)", err)
	}
	if len(p.Dotfiles) != 4 {
		t.Fatalf("expected 4 dotfiles, got %+v", p.Dotfiles)
	}
}

func TestResolveMissingProfileIsIoError(t *testing.T) {
	dir := t.TempDir()
	if _, err := Resolve(dir, "nope"); err == nil {
		t.Fatalf("expected an io error for a missing profile")
	}
}

func TestCheckMinVersionSatisfied(t *testing.T) {
	old := PunktfVersion
	defer func() { PunktfVersion = old }()
	PunktfVersion = "2.0.0"

	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "min_punktf_version: \"1.0.0\"\ndotfiles: []\n")
	if _, err := Resolve(dir, "base"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestCheckMinVersionUnsatisfied(t *testing.T) {
	old := PunktfVersion
	defer func() { PunktfVersion = old }()
	PunktfVersion = "1.0.0"

	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "min_punktf_version: \"2.0.0\"\ndotfiles: []\n")
	_, err := Resolve(dir, "base")
	if err == nil || !strings.Contains(err.Error(), "requires punktf") {
		t.Fatalf("expected a min-version error, got %v", err)
	}
}

func TestCheckMinVersionDevBuildAlwaysPasses(t *testing.T) {
	old := PunktfVersion
	defer func() { PunktfVersion = old }()
	PunktfVersion = "0.0.0-dev"

	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "min_punktf_version: \"999.0.0\"\ndotfiles: []\n")
	if _, err := Resolve(dir, "base"); err != nil {
		t.Fatalf("expected the dev sentinel to satisfy every min_punktf_version gate, got %v", err)
	}
}

func TestFindProfileFileTriesExtensionsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.json", `{"dotfiles": []}`)
	path, err := findProfileFile(dir, "base")
	if err != nil {
		t.Fatalf("findProfileFile: %v", err)
	}
	if filepath.Base(path) != "base.json" {
		t.Fatalf("got %q, want base.json", path)
	}
}
