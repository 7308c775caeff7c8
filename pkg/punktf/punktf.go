// Package punktf provides a reusable deployment engine for punktf
// profiles: load an effective profile, plan a deployment, render and
// commit it. This mirrors the shape of the teacher's pkg/templr engine
// facade (an Options struct in, a Result struct out) generalized from a
// single in-memory template render to a full profile deployment.
package punktf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Shemnei/punktf/internal/deploy"
	"github.com/Shemnei/punktf/internal/hook"
	"github.com/Shemnei/punktf/internal/profile"
)

// Options configures one deploy/render/diff/verify run.
type Options struct {
	SourceRoot  string
	TargetRoot  string
	ProfileName string
	DryRun      bool
	Ask         deploy.AskFunc
	Print       func(string)
	RunHooks    bool
}

// Result is the successful outcome of a deployment.
type Result struct {
	Profile *profile.Profile
	Plan    *deploy.Plan
	Summary deploy.Summary
}

// Deploy loads opts.ProfileName from opts.SourceRoot/profiles, plans a
// deployment, renders every writable step, runs pre/post hooks (unless
// DryRun or !RunHooks), and commits the result.
func Deploy(opts Options) (*Result, error) {
	prof, err := profile.Resolve(filepath.Join(opts.SourceRoot, "profiles"), opts.ProfileName)
	if err != nil {
		return nil, err
	}

	planner := &deploy.Planner{SourceRoot: opts.SourceRoot, TargetRoot: opts.TargetRoot, Ask: opts.Ask}
	plan, err := planner.Plan(prof)
	if err != nil {
		return nil, err
	}

	if opts.RunHooks && !opts.DryRun {
		extra := deploy.CurrentVars(prof, opts.SourceRoot, opts.TargetRoot)
		if err := hook.Run(prof.PreHooks, opts.SourceRoot, extra); err != nil {
			return nil, err
		}
	}

	for i := range plan.Steps {
		step := &plan.Steps[i]
		if step.Action == deploy.ActionSymlink || step.Action == deploy.ActionSkipKeep || step.Action == deploy.ActionSkipHigherPrio {
			continue
		}
		if _, err := deploy.Render(step, deploy.RenderOptions{
			Profile:    prof,
			SourceRoot: opts.SourceRoot,
			Print:      opts.Print,
		}); err != nil {
			return nil, err
		}
	}

	summary, err := deploy.Commit(plan, opts.DryRun)
	if err != nil {
		return nil, err
	}

	if opts.RunHooks && !opts.DryRun {
		extra := deploy.CurrentVars(prof, opts.SourceRoot, opts.TargetRoot)
		if err := hook.Run(prof.PostHooks, opts.SourceRoot, extra); err != nil {
			return nil, err
		}
	}

	return &Result{Profile: prof, Plan: plan, Summary: summary}, nil
}

// Verify dry-runs a deployment and reports whether it would be a no-op
// (SPEC_FULL.md §6.3): no Create/Overwrite/Symlink actions pending.
func Verify(opts Options) (pending bool, result *Result, err error) {
	opts.DryRun = true
	opts.RunHooks = false
	result, err = Deploy(opts)
	if err != nil {
		return false, nil, err
	}
	for _, step := range result.Plan.Steps {
		if step.Action == deploy.ActionCreate || step.Action == deploy.ActionOverwrite || step.Action == deploy.ActionSymlink {
			pending = true
			break
		}
	}
	return pending, result, nil
}

// RenderOne renders a single dotfile (by its source-relative path, as
// named in the profile's `dotfiles[].path`) and returns the resolved
// bytes without writing anything — the `punktf render` subcommand.
func RenderOne(opts Options, dotfilePath string) ([]byte, error) {
	prof, err := profile.Resolve(filepath.Join(opts.SourceRoot, "profiles"), opts.ProfileName)
	if err != nil {
		return nil, err
	}

	for _, d := range prof.Dotfiles {
		if d.Path != dotfilePath {
			continue
		}
		step := &deploy.Step{
			SourcePath: filepath.Join(opts.SourceRoot, "dotfiles", d.Path),
			Dotfile:    &d,
		}
		return deploy.Render(step, deploy.RenderOptions{
			Profile:    prof,
			SourceRoot: opts.SourceRoot,
			Print:      opts.Print,
		})
	}
	return nil, fmt.Errorf("dotfile %q not found in profile %q", dotfilePath, opts.ProfileName)
}

// FileDiff is one dotfile's rendered-vs-deployed comparison.
type FileDiff struct {
	TargetPath string
	Changed    bool
	Lines      []string // unified-style +/- line diff; empty when unchanged (a new target diffs against empty content)
}

// Diff renders every dotfile and compares the result against its current
// target contents (SPEC_FULL.md §6.3), without writing anything.
func Diff(opts Options) ([]FileDiff, error) {
	opts.DryRun = true
	opts.RunHooks = false
	result, err := Deploy(opts)
	if err != nil {
		return nil, err
	}

	var diffs []FileDiff
	for _, step := range result.Plan.Steps {
		if step.Action != deploy.ActionCreate && step.Action != deploy.ActionOverwrite {
			continue
		}
		existing, _ := os.ReadFile(step.TargetPath)
		fd := FileDiff{TargetPath: step.TargetPath}
		if string(existing) != string(step.Content) {
			fd.Changed = true
			fd.Lines = lineDiff(string(existing), string(step.Content))
		}
		diffs = append(diffs, fd)
	}
	return diffs, nil
}

// lineDiff produces a minimal unified-style line diff: lines only in old
// prefixed "-", lines only in new prefixed "+", based on a naive longest
// common prefix/suffix trim rather than a full LCS — adequate for the
// short config-file diffs punktf deals with.
func lineDiff(oldText, newText string) []string {
	oldLines := strings.Split(oldText, "\n")
	newLines := strings.Split(newText, "\n")

	start := 0
	for start < len(oldLines) && start < len(newLines) && oldLines[start] == newLines[start] {
		start++
	}
	endOld, endNew := len(oldLines), len(newLines)
	for endOld > start && endNew > start && oldLines[endOld-1] == newLines[endNew-1] {
		endOld--
		endNew--
	}

	var out []string
	for _, l := range oldLines[start:endOld] {
		out = append(out, "-"+l)
	}
	for _, l := range newLines[start:endNew] {
		out = append(out, "+"+l)
	}
	return out
}
