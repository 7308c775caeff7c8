// Package deploy computes and executes a DeployPlan: the set of file and
// symlink actions needed to bring a target directory in line with a
// resolved profile (SPEC_FULL.md §3.2/§4.6).
package deploy

import "github.com/Shemnei/punktf/internal/profile"

// Action is one step of a DeployPlan.
type Action int

const (
	ActionCreate Action = iota
	ActionOverwrite
	ActionSkipKeep
	ActionSkipHigherPrio
	ActionSymlink
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	case ActionSkipKeep:
		return "skip (keep)"
	case ActionSkipHigherPrio:
		return "skip (higher priority already claimed target)"
	case ActionSymlink:
		return "symlink"
	}
	return "unknown"
}

// Step is one planned filesystem operation.
type Step struct {
	Action     Action
	SourcePath string
	TargetPath string
	Dotfile    *profile.Dotfile
	Link       *profile.Link
	Priority   *int // nil means "no declared priority" (SPEC_FULL.md §4.6)
	Content    []byte // rendered content, for file steps; nil for symlinks
}

// PathState tracks, for each target path, which step currently claims it
// — used to resolve collisions deterministically (SPEC_FULL.md §4.6):
//   - both have a declared priority: higher wins, ties go to the later entry
//   - only one has a declared priority: that one wins
//   - neither has a declared priority: the later entry wins
type PathState struct {
	claimed map[string]*Step
}

// NewPathState returns an empty PathState.
func NewPathState() *PathState {
	return &PathState{claimed: make(map[string]*Step)}
}

// Claim registers step for its TargetPath, returning the step that should
// actually execute (step itself, or the previous claimant if step loses),
// plus the step that lost, if any.
func (ps *PathState) Claim(step *Step) (winner, loser *Step) {
	prev, ok := ps.claimed[step.TargetPath]
	if !ok {
		ps.claimed[step.TargetPath] = step
		return step, nil
	}

	stepWins := false
	switch {
	case step.Priority != nil && prev.Priority != nil:
		stepWins = *step.Priority >= *prev.Priority
	case step.Priority != nil:
		stepWins = true
	case prev.Priority != nil:
		stepWins = false
	default:
		stepWins = true
	}

	if stepWins {
		ps.claimed[step.TargetPath] = step
		return step, prev
	}
	return prev, step
}

// Plan is the complete ordered set of steps for one deploy/render/diff
// invocation.
type Plan struct {
	Steps []Step
}
