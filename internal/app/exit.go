package app

import "github.com/Shemnei/punktf/internal/diagnostic"

// Exit codes, concretely assigned per SPEC_FULL.md §6.3 — a direct
// remapping of the teacher's ExitOK/ExitGeneral/ExitTemplateError/...
// constants onto spec.md §7's error taxonomy.
const (
	ExitOK              = 0
	ExitIoError         = 1
	ExitProfileError    = 2
	ExitTemplateError   = 3
	ExitHookFailed      = 4
	ExitVerifyPending   = 5
)

// ExitCodeFor maps a diagnostic kind to the process exit code it should
// produce at the CLI boundary.
func ExitCodeFor(kind diagnostic.Kind) int {
	switch kind {
	case diagnostic.KindIoError, diagnostic.KindNonUtf8:
		return ExitIoError
	case diagnostic.KindProfileParse, diagnostic.KindProfileCyclic, diagnostic.KindSchemaError:
		return ExitProfileError
	case diagnostic.KindTemplateSyntax, diagnostic.KindTemplateUndefined:
		return ExitTemplateError
	case diagnostic.KindHookFailed:
		return ExitHookFailed
	default:
		return ExitIoError
	}
}
