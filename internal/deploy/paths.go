package deploy

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Shemnei/punktf/internal/profile"
)

// ExpandPath expands a leading `~` to the current user's home directory and
// any `$VAR`/`${VAR}` references using the process environment
// (SPEC_FULL.md §4.6/§9). Unresolved variables are left as literal text.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	ref := regexp.MustCompile(`\$\{(\w+)\}|\$(\w+)`)
	return ref.ReplaceAllStringFunc(path, func(m string) string {
		if v, ok := os.LookupEnv(strings.Trim(m, "${}")); ok {
			return v
		}
		return m
	})
}

// effectiveTarget resolves a dotfile's target-kind field down to a single
// path string, preferring overwrite_target over the profile-level target.
func effectiveTarget(d profile.Dotfile, profileTarget *profile.Target) (string, bool) {
	if d.OverwriteTarget != nil && !d.OverwriteTarget.IsZero() {
		return targetPath(*d.OverwriteTarget), true
	}
	if profileTarget != nil && !profileTarget.IsZero() {
		return targetPath(*profileTarget), true
	}
	return "", false
}

func targetPath(t profile.Target) string {
	if t.Path != "" {
		return t.Path
	}
	return t.Alias
}
