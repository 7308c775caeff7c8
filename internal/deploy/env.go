package deploy

import (
	"os"
	"runtime"
	"strings"

	"github.com/Shemnei/punktf/internal/profile"
	"github.com/Shemnei/punktf/internal/template"
)

// targetFamily classifies GOOS into the coarse family punktf templates
// condition on, mirroring the upstream project's own constant (windows vs
// everything POSIX-shaped).
func targetFamily(goos string) string {
	if goos == "windows" {
		return "windows"
	}
	return "unix"
}

// TargetArch, TargetOS and TargetFamily hold the PUNKTF_TARGET_* defaults,
// computed once at package initialization — they are
// properties of the compiling/running host, not of any one deployment
// (SPEC_FULL.md §9: "snapshot these... expose them as read-only
// constants").
var (
	TargetArch   = runtime.GOARCH
	TargetOS     = runtime.GOOS
	TargetFamily = targetFamily(runtime.GOOS)
)

// BuildEnvironment assembles the three-tier template.Environment for one
// dotfile render: a snapshot of the process environment (augmented with
// the PUNKTF_TARGET_* defaults, only filling in if absent, and the
// PUNKTF_CURRENT_* values, which always override), profile variables, and
// dotfile variables (SPEC_FULL.md §4.6).
func BuildEnvironment(prof *profile.Profile, d *profile.Dotfile, sourceRoot, targetPath string) *template.Environment {
	env := template.NewEnvironment()

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env.Env.Set(name, value)
	}
	if _, ok := env.Env.Get("PUNKTF_TARGET_ARCH"); !ok {
		env.Env.Set("PUNKTF_TARGET_ARCH", TargetArch)
	}
	if _, ok := env.Env.Get("PUNKTF_TARGET_OS"); !ok {
		env.Env.Set("PUNKTF_TARGET_OS", TargetOS)
	}
	if _, ok := env.Env.Get("PUNKTF_TARGET_FAMILY"); !ok {
		env.Env.Set("PUNKTF_TARGET_FAMILY", TargetFamily)
	}
	env.Env.Set("PUNKTF_CURRENT_SOURCE", sourceRoot)
	env.Env.Set("PUNKTF_CURRENT_TARGET", targetPath)
	env.Env.Set("PUNKTF_CURRENT_PROFILE", prof.Name())

	for k, v := range prof.Variables {
		env.Profile.Set(k, coerceString(v))
	}
	for k, v := range d.Variables {
		env.Dotfile.Set(k, coerceString(v))
	}

	return env
}

// CurrentVars returns the PUNKTF_CURRENT_* triple for hook invocation
// (SPEC_FULL.md §4.7), independent of any one dotfile.
func CurrentVars(prof *profile.Profile, sourceRoot, targetRoot string) map[string]string {
	return map[string]string{
		"PUNKTF_CURRENT_SOURCE":  sourceRoot,
		"PUNKTF_CURRENT_TARGET":  targetRoot,
		"PUNKTF_CURRENT_PROFILE": prof.Name(),
	}
}
