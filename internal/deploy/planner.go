package deploy

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huandu/xstrings"

	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/internal/profile"
	"github.com/Shemnei/punktf/internal/source"
)

// AskFunc is the injectable interactive-prompt collaborator for
// `merge == Ask` (SPEC_FULL.md §9): it receives the would-be target path
// and returns true to overwrite.
type AskFunc func(targetPath string) bool

// Planner computes a Plan from an effective profile.
type Planner struct {
	SourceRoot string
	TargetRoot string // fallback target root, from --target/PUNKTF_TARGET, used only when neither dotfile nor profile sets a target
	Ask        AskFunc
}

// candidate is one resolved (source file, dotfile options) pair before
// target-path computation and priority resolution — a directory entry's
// descendants each become their own candidate, inheriting the parent
// entry's options (SPEC_FULL.md §4.6.1b).
type candidate struct {
	dotfile    profile.Dotfile
	sourceFile string
	subpath    string // "" for a direct file entry; the descendant's relative path for a directory entry
	declIndex  int
}

// Plan walks prof.Dotfiles in declared order, expands directories,
// computes target paths, resolves action proposals and priority
// collisions, and appends Symlink actions for prof.Links.
func (pl *Planner) Plan(prof *profile.Profile) (*Plan, error) {
	var candidates []candidate
	for i, d := range prof.Dotfiles {
		cs, err := pl.expandEntry(d, i)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, cs...)
	}

	state := NewPathState()
	// pointerSteps is appended to in declaration order and mutated in
	// place by later Claim calls (a later, higher-priority candidate can
	// downgrade an earlier one to SkipHigherPrio) — this keeps the plan's
	// step order equal to declaration order, per SPEC_FULL.md §5, while
	// still reflecting priority's effect on which action each step gets.
	var pointerSteps []*Step

	for _, c := range candidates {
		target, err := pl.targetFor(c, prof.Target)
		if err != nil {
			return nil, err
		}

		dotfile := c.dotfile
		step := &Step{
			SourcePath: c.sourceFile,
			TargetPath: target,
			Dotfile:    &dotfile,
			Priority:   c.dotfile.Priority,
		}

		if _, err := os.Stat(target); err != nil {
			step.Action = ActionCreate
		} else {
			switch c.dotfile.EffectiveMerge() {
			case profile.MergeKeep:
				step.Action = ActionSkipKeep
			case profile.MergeAsk:
				if pl.Ask != nil && pl.Ask(target) {
					step.Action = ActionOverwrite
				} else {
					step.Action = ActionSkipKeep
				}
			default:
				step.Action = ActionOverwrite
			}
		}

		_, loser := state.Claim(step)
		if loser != nil {
			loser.Action = ActionSkipHigherPrio
		}
		pointerSteps = append(pointerSteps, step)
	}

	steps := make([]Step, len(pointerSteps))
	for i, s := range pointerSteps {
		steps[i] = *s
	}

	for _, l := range prof.Links {
		steps = append(steps, linkStep(l))
	}

	return &Plan{Steps: steps}, nil
}

func linkStep(l profile.Link) Step {
	target := ExpandPath(l.TargetPath)
	action := ActionSymlink
	if !l.Replace {
		if _, err := os.Lstat(target); err == nil {
			action = ActionSkipKeep
		}
	}
	link := l
	return Step{
		Action:     action,
		SourcePath: ExpandPath(l.SourcePath),
		TargetPath: target,
		Link:       &link,
	}
}

func (pl *Planner) expandEntry(d profile.Dotfile, declIndex int) ([]candidate, error) {
	src := filepath.Join(pl.SourceRoot, "dotfiles", d.Path)
	info, err := os.Stat(src)
	if err != nil {
		return nil, diagnostic.New(diagnostic.KindIoError, source.Span{},
			fmt.Sprintf("dotfile source %q does not exist", src))
	}

	if !info.IsDir() {
		return []candidate{{dotfile: d, sourceFile: src, declIndex: declIndex}}, nil
	}

	var out []candidate
	err = filepath.WalkDir(src, func(p string, de os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		out = append(out, candidate{dotfile: d, sourceFile: p, subpath: rel, declIndex: declIndex})
		return nil
	})
	if err != nil {
		return nil, diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("walk %q: %v", src, err))
	}
	// filepath.WalkDir already visits children in lexicographic order.
	return out, nil
}

func (pl *Planner) targetFor(c candidate, profTarget *profile.Target) (string, error) {
	base, ok := effectiveTarget(c.dotfile, profTarget)
	if !ok {
		base = pl.TargetRoot
	}
	base = ExpandPath(base)

	name := filepath.Base(c.sourceFile)
	if c.subpath == "" {
		if c.dotfile.Rename != "" {
			name = c.dotfile.Rename
		} else {
			name = filepath.Base(c.dotfile.Path)
		}
		if c.dotfile.KebabTarget {
			ext := filepath.Ext(name)
			stem := name[:len(name)-len(ext)]
			name = xstrings.ToKebabCase(stem) + ext
		}
		return filepath.Join(base, name), nil
	}

	// Directory entry: the base name comes from rename/path (optionally
	// kebab-cased) as the directory's own target name, then the
	// descendant's relative subpath is appended untouched.
	dirName := filepath.Base(c.dotfile.Path)
	if c.dotfile.Rename != "" {
		dirName = c.dotfile.Rename
	}
	if c.dotfile.KebabTarget {
		dirName = xstrings.ToKebabCase(dirName)
	}
	return filepath.Join(base, dirName, c.subpath), nil
}
