package profile

import (
	"fmt"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/Masterminds/semver/v3"

	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/internal/source"
)

// PunktfVersion is the running binary's semantic version, checked against
// a profile's min_punktf_version (SPEC_FULL.md §4.5). Set at build time
// via -ldflags; defaults to a development sentinel that satisfies every
// gate.
var PunktfVersion = "0.0.0-dev"

// Resolve loads profileName from dir (appending its known extensions,
// tried in order), walks its `extends` chain ancestor-first, folds the
// chain via mergo with each child overriding its ancestors, and returns
// the single effective Profile.
//
// The walk detects cycles by tracking the set of profile names already on
// the current path; it does not cache across independent Resolve calls.
func Resolve(dir, profileName string) (*Profile, error) {
	chain, err := resolveChain(dir, profileName, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return fold(chain)
}

// resolveChain returns the profile's ancestors in ancestor-first order,
// ending with the named profile itself.
func resolveChain(dir, name string, visiting map[string]bool) ([]*Profile, error) {
	if visiting[name] {
		return nil, diagnostic.New(diagnostic.KindProfileCyclic, source.Span{},
			fmt.Sprintf("cyclic extends detected at profile %q", name))
	}
	visiting[name] = true

	path, err := findProfileFile(dir, name)
	if err != nil {
		return nil, err
	}

	p, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := checkMinVersion(p); err != nil {
		return nil, err
	}

	var chain []*Profile
	for _, parent := range p.Extends {
		parentVisiting := make(map[string]bool, len(visiting))
		for k, v := range visiting {
			parentVisiting[k] = v
		}
		parentChain, err := resolveChain(dir, parent, parentVisiting)
		if err != nil {
			return nil, err
		}
		chain = append(chain, parentChain...)
	}

	chain = append(chain, p)
	return chain, nil
}

var profileExtensions = []string{".yaml", ".yml", ".json", ".toml"}

func findProfileFile(dir, name string) (string, error) {
	for _, ext := range profileExtensions {
		candidate := filepath.Join(dir, name+ext)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", diagnostic.New(diagnostic.KindIoError, source.Span{},
		fmt.Sprintf("profile %q not found in %q (tried %v)", name, dir, profileExtensions))
}

func checkMinVersion(p *Profile) error {
	if p.MinPunktfVersion == "" {
		return nil
	}
	required, err := semver.NewConstraint(">=" + p.MinPunktfVersion)
	if err != nil {
		return diagnostic.New(diagnostic.KindProfileParse, source.Span{},
			fmt.Sprintf("profile %q has invalid min_punktf_version %q: %v", p.name, p.MinPunktfVersion, err))
	}
	running, err := semver.NewVersion(PunktfVersion)
	if err != nil || running.Prerelease() == "dev" {
		return nil // dev builds (the default sentinel or a non-semver string) always pass
	}
	if !required.Check(running) {
		return diagnostic.New(diagnostic.KindProfileParse, source.Span{},
			fmt.Sprintf("profile %q requires punktf >= %s, running %s", p.name, p.MinPunktfVersion, PunktfVersion))
	}
	return nil
}

// fold combines an ancestor-first chain into one effective Profile.
// Scalar fields (Target, MinPunktfVersion) and the Variables map use
// mergo's override semantics (later/child entries win); list fields
// (Dotfiles, Links, Transformers, hooks) are concatenated ancestor-first,
// since mergo's default slice handling replaces rather than appends
// (SPEC_FULL.md §4.5). Dotfiles are additionally de-duplicated by
// (path, rename, overwrite_target) so a descendant's entry overrides an
// ancestor's; Links, Transformers and hooks are plain concatenations with
// no de-duplication, per the same section.
func fold(chain []*Profile) (*Profile, error) {
	if len(chain) == 0 {
		return nil, diagnostic.New(diagnostic.KindProfileParse, source.Span{}, "empty extends chain")
	}

	effective := &Profile{name: chain[len(chain)-1].name}

	var dotfiles []Dotfile
	var links []Link
	var transformers []Transformer
	var preHooks, postHooks []string

	for _, p := range chain {
		if err := mergo.Merge(effective, scalarOnly(p), mergo.WithOverride()); err != nil {
			return nil, fmt.Errorf("merge profile %q: %w", p.name, err)
		}
		dotfiles = append(dotfiles, p.Dotfiles...)
		links = append(links, p.Links...)
		transformers = append(transformers, p.Transformers...)
		preHooks = append(preHooks, p.PreHooks...)
		postHooks = append(postHooks, p.PostHooks...)
	}

	effective.Dotfiles = dedupDotfiles(dotfiles)
	effective.Links = links
	effective.Transformers = transformers
	effective.PreHooks = preHooks
	effective.PostHooks = postHooks

	return effective, nil
}

// scalarOnly returns a shallow copy of p with the list fields cleared, so
// mergo.Merge only touches Target/Variables/MinPunktfVersion/Extends —
// the list fields are folded separately by explicit concatenation above.
func scalarOnly(p *Profile) *Profile {
	cp := *p
	cp.Dotfiles = nil
	cp.Links = nil
	cp.Transformers = nil
	cp.PreHooks = nil
	cp.PostHooks = nil
	return &cp
}

// dedupDotfiles keeps the last occurrence of each (path, rename,
// overwrite_target) triple, so a descendant profile's entry overrides an
// ancestor's for the same dotfile, per SPEC_FULL.md §4.5.
func dedupDotfiles(in []Dotfile) []Dotfile {
	type slot struct {
		idx int
		d   Dotfile
	}
	order := make([]Key, 0, len(in))
	byKey := make(map[Key]slot, len(in))
	for i, d := range in {
		k := d.Key()
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = slot{idx: i, d: d}
	}
	out := make([]Dotfile, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k].d)
	}
	return out
}

