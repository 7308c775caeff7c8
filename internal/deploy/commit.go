package deploy

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/internal/source"
)

// Commit executes plan's writable steps against the filesystem. When
// dryRun is true, no filesystem mutation happens; Step.Content is still
// populated via the render pipeline so callers (e.g. `punktf diff`) can
// inspect the would-be bytes.
//
// Grounded on the teacher's writeIfChanged: same fast-equal short-circuit,
// same sibling-temp-file-then-rename atomicity.
func Commit(plan *Plan, dryRun bool) (Summary, error) {
	var sum Summary

	for i := range plan.Steps {
		step := &plan.Steps[i]
		switch step.Action {
		case ActionCreate, ActionOverwrite:
			sum.Considered++
			if dryRun {
				sum.WouldWrite++
				continue
			}
			changed, err := writeFile(step.TargetPath, step.Content)
			if err != nil {
				return sum, err
			}
			if changed {
				sum.Written++
				sum.BytesWritten += int64(len(step.Content))
			} else {
				sum.Unchanged++
			}
		case ActionSkipKeep, ActionSkipHigherPrio:
			sum.Skipped++
		case ActionSymlink:
			sum.Considered++
			if dryRun {
				sum.WouldWrite++
				continue
			}
			if err := writeSymlink(step); err != nil {
				return sum, err
			}
			sum.Written++
		}
	}

	return sum, nil
}

// Summary tallies what a Commit (or dry-run) did, feeding the
// human-readable deploy summary (SPEC_FULL.md's domain-stack section).
type Summary struct {
	Considered   int
	Written      int
	Unchanged    int
	Skipped      int
	WouldWrite   int
	BytesWritten int64
}

func fastEqual(path string, newBytes []byte) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if int64(len(newBytes)) != info.Size() {
		return false, nil
	}
	old, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Equal(old, newBytes), nil
}

// writeFile writes newBytes to path only if its content differs, via a
// sibling temp file renamed into place, so a crash mid-write never leaves
// a half-written target.
func writeFile(path string, newBytes []byte) (bool, error) {
	same, err := fastEqual(path, newBytes)
	if err != nil {
		return false, diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("stat %q: %v", path, err))
	}
	if same {
		return false, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("mkdir %q: %v", dir, err))
	}

	f, err := os.CreateTemp(dir, ".punktf-*")
	if err != nil {
		return false, diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("create temp in %q: %v", dir, err))
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(newBytes); err != nil {
		_ = f.Close()
		return false, diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("write %q: %v", tmp, err))
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return false, diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("sync %q: %v", tmp, err))
	}
	if err := f.Close(); err != nil {
		return false, diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("close %q: %v", tmp, err))
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return false, diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("chmod %q: %v", tmp, err))
	}
	if err := os.Rename(tmp, path); err != nil {
		return false, diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("rename %q -> %q: %v", tmp, path, err))
	}

	return true, nil
}

// writeSymlink creates step.Link's symlink, replacing an existing symlink
// only when Replace is true and only ever replacing another symlink
// (never a regular file), per SPEC_FULL.md §4.6.4.
func writeSymlink(step *Step) error {
	target := step.TargetPath
	if info, err := os.Lstat(target); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return diagnostic.New(diagnostic.KindIoError, source.Span{},
				fmt.Sprintf("refusing to replace non-symlink %q", target))
		}
		if !step.Link.Replace {
			return nil
		}
		if err := os.Remove(target); err != nil {
			return diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("remove existing symlink %q: %v", target, err))
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("mkdir %q: %v", filepath.Dir(target), err))
	}
	if err := os.Symlink(step.SourcePath, target); err != nil {
		return diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("symlink %q -> %q: %v", step.SourcePath, target, err))
	}
	return nil
}
