package deploy

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/internal/profile"
	"github.com/Shemnei/punktf/internal/source"
	"github.com/Shemnei/punktf/internal/template"
)

// RenderOptions configures the per-step content pipeline.
type RenderOptions struct {
	Profile           *profile.Profile
	SourceRoot        string
	Print             func(string)
	KeepWhitespace    bool
}

// Render executes SPEC_FULL.md §4.6's "Rendering pipeline for each action
// that writes bytes" for one step: read, optionally template-resolve,
// then apply profile-then-dotfile transformers. It populates step.Content
// and returns it; steps that only symlink never reach this path.
func Render(step *Step, opts RenderOptions) ([]byte, error) {
	raw, err := os.ReadFile(step.SourcePath)
	if err != nil {
		return nil, diagnostic.New(diagnostic.KindIoError, source.Span{},
			fmt.Sprintf("read %q: %v", step.SourcePath, err))
	}

	content := raw
	if step.Dotfile.TemplateEnabled() {
		if !utf8.Valid(raw) {
			return nil, diagnostic.New(diagnostic.KindNonUtf8, source.Span{},
				fmt.Sprintf("%q is not valid UTF-8 and template=true", step.SourcePath))
		}

		src := source.New(step.SourcePath, raw)
		tmpl, diag := template.Parse(src)
		if diag != nil {
			return nil, diag
		}

		env := BuildEnvironment(opts.Profile, step.Dotfile, opts.SourceRoot, step.TargetPath)
		resolved, diag := template.Resolve(tmpl, env, template.Options{
			KeepWhitespaceOnEmptyLine: opts.KeepWhitespace,
			Print:                     opts.Print,
		})
		if diag != nil {
			return nil, diag
		}
		content = []byte(resolved)
	}

	content = ApplyTransformers(content, opts.Profile.Transformers, step.Dotfile.Transformers)
	step.Content = content
	return content, nil
}
