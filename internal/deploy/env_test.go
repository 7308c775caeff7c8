package deploy

import (
	"testing"

	"github.com/Shemnei/punktf/internal/profile"
)

func TestBuildEnvironmentTiers(t *testing.T) {
	t.Setenv("PUNKTF_TEST_HOST_VAR", "from-host")

	prof := &profile.Profile{
		Variables: map[string]any{"shell": "zsh"},
	}
	d := &profile.Dotfile{
		Variables: map[string]any{"editor": "nvim"},
	}

	env := BuildEnvironment(prof, d, "/src", "/dst")

	if v, ok := env.Env.Get("PUNKTF_TEST_HOST_VAR"); !ok || v != "from-host" {
		t.Fatalf("expected process env to be snapshotted, got %q %v", v, ok)
	}
	if v, ok := env.Profile.Get("shell"); !ok || v != "zsh" {
		t.Fatalf("expected profile variable, got %q %v", v, ok)
	}
	if v, ok := env.Dotfile.Get("editor"); !ok || v != "nvim" {
		t.Fatalf("expected dotfile variable, got %q %v", v, ok)
	}
}

func TestBuildEnvironmentCurrentVarsAlwaysOverride(t *testing.T) {
	t.Setenv("PUNKTF_CURRENT_SOURCE", "stale")

	prof := &profile.Profile{}
	d := &profile.Dotfile{}
	env := BuildEnvironment(prof, d, "/new-src", "/new-dst")

	if v, _ := env.Env.Get("PUNKTF_CURRENT_SOURCE"); v != "/new-src" {
		t.Fatalf("expected PUNKTF_CURRENT_SOURCE to override stale process env, got %q", v)
	}
}

func TestBuildEnvironmentTargetDefaultsOnlyFillWhenAbsent(t *testing.T) {
	t.Setenv("PUNKTF_TARGET_OS", "custom-os")

	prof := &profile.Profile{}
	d := &profile.Dotfile{}
	env := BuildEnvironment(prof, d, "/src", "/dst")

	if v, _ := env.Env.Get("PUNKTF_TARGET_OS"); v != "custom-os" {
		t.Fatalf("expected an explicitly set PUNKTF_TARGET_OS to survive, got %q", v)
	}
}

func TestCurrentVars(t *testing.T) {
	prof := &profile.Profile{}
	vars := CurrentVars(prof, "/src", "/dst")
	if vars["PUNKTF_CURRENT_SOURCE"] != "/src" || vars["PUNKTF_CURRENT_TARGET"] != "/dst" {
		t.Fatalf("unexpected vars: %+v", vars)
	}
}
