package deploy

import "github.com/spf13/cast"

// coerceString converts an arbitrary decoded profile/dotfile variable
// value (YAML/JSON/TOML can hand back bools, numbers, or strings) into
// the plain string the template Environment's ordered maps store
// (SPEC_FULL.md §3.1: "a mapping from name to string").
func coerceString(v any) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}
