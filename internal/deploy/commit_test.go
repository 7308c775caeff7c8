package deploy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Shemnei/punktf/internal/profile"
)

func TestCommitCreateWritesFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	plan := &Plan{Steps: []Step{{Action: ActionCreate, TargetPath: target, Content: []byte("hello")}}}
	sum, err := Commit(plan, false)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if sum.Written != 1 || sum.Considered != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestCommitUnchangedContentSkipsWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(target, []byte("same"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	plan := &Plan{Steps: []Step{{Action: ActionOverwrite, TargetPath: target, Content: []byte("same")}}}
	sum, err := Commit(plan, false)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if sum.Unchanged != 1 || sum.Written != 0 {
		t.Fatalf("expected identical content to be a no-op write, got %+v", sum)
	}
}

func TestCommitDryRunNeverTouchesFilesystem(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	plan := &Plan{Steps: []Step{{Action: ActionCreate, TargetPath: target, Content: []byte("hello")}}}
	sum, err := Commit(plan, true)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if sum.WouldWrite != 1 || sum.Written != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create the target file")
	}
}

func TestCommitSkipActionsAreTalliedNotWritten(t *testing.T) {
	plan := &Plan{Steps: []Step{
		{Action: ActionSkipKeep, TargetPath: "/irrelevant"},
		{Action: ActionSkipHigherPrio, TargetPath: "/irrelevant2"},
	}}
	sum, err := Commit(plan, false)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if sum.Skipped != 2 || sum.Considered != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestCommitSymlinkCreatesLink(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "src")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	target := filepath.Join(dir, "link")
	link := profile.Link{SourcePath: source, TargetPath: target, Replace: true}

	plan := &Plan{Steps: []Step{{
		Action:     ActionSymlink,
		SourcePath: source,
		TargetPath: target,
		Link:       &link,
	}}}
	sum, err := Commit(plan, false)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if sum.Written != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	info, err := os.Lstat(target)
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected a symlink at %q", target)
	}
}

func TestWriteFileCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "deep", "out.txt")

	changed, err := writeFile(target, []byte("content"))
	if err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	if !changed {
		t.Fatalf("expected a fresh write to report changed=true")
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected parent directories to be created: %v", err)
	}
}

func TestFastEqualMissingFileIsNotEqual(t *testing.T) {
	dir := t.TempDir()
	same, err := fastEqual(filepath.Join(dir, "missing"), []byte("x"))
	if err != nil {
		t.Fatalf("fastEqual: %v", err)
	}
	if same {
		t.Fatalf("a missing file should never compare equal")
	}
}
