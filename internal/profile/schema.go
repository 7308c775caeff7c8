package profile

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/internal/source"
)

//go:embed profile_schema.json
var defaultSchemaJSON []byte

var (
	defaultSchemaOnce    sync.Once
	defaultSchemaCompiled *jsonschema.Schema
	defaultSchemaErr     error
)

// defaultSchema compiles the embedded profile schema once and caches it;
// every LoadFile call validates against the same compiled instance.
func defaultSchema() (*jsonschema.Schema, error) {
	defaultSchemaOnce.Do(func() {
		doc, err := decodeGeneric(defaultSchemaJSON, FormatJSON)
		if err != nil {
			defaultSchemaErr = fmt.Errorf("decode embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("punktf.schema.json", doc); err != nil {
			defaultSchemaErr = fmt.Errorf("add embedded schema resource: %w", err)
			return
		}
		defaultSchemaCompiled, defaultSchemaErr = compiler.Compile("punktf.schema.json")
	})
	return defaultSchemaCompiled, defaultSchemaErr
}

// ValidateDefault validates a profile document's raw bytes against the
// embedded default schema, rejecting unknown/misspelled fields
// (additionalProperties: false) as a SchemaError diagnostic
// (SPEC_FULL.md §6.1/§7). LoadFile calls this for every profile it loads,
// ancestors included.
func ValidateDefault(path string, data []byte, format Format) error {
	instance, err := decodeGeneric(data, format)
	if err != nil {
		return diagnostic.New(diagnostic.KindProfileParse, source.Span{}, fmt.Sprintf("parse profile %q: %v", path, err))
	}
	schema, err := defaultSchema()
	if err != nil {
		return diagnostic.New(diagnostic.KindSchemaError, source.Span{}, fmt.Sprintf("compile embedded schema: %v", err))
	}
	if err := schema.Validate(instance); err != nil {
		return schemaDiagnostic(path, err)
	}
	return nil
}

// ValidateSchema validates a profile's raw decoded form against an
// explicit, caller-supplied JSON Schema document, surfacing any violation
// as a SchemaError diagnostic (SPEC_FULL.md §7). No CLI command calls it.
// For the schema every profile is automatically checked against on load,
// see ValidateDefault.
//
// schemaPath may be YAML, JSON, or TOML; it is decoded generically since
// jsonschema.Compiler works over plain Go values.
func ValidateSchema(path, schemaPath string, format Format) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("read profile %q: %v", path, err))
	}
	instance, err := decodeGeneric(data, format)
	if err != nil {
		return diagnostic.New(diagnostic.KindProfileParse, source.Span{}, fmt.Sprintf("parse profile %q: %v", path, err))
	}

	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("read schema %q: %v", schemaPath, err))
	}
	schemaDoc, err := decodeGeneric(schemaData, FormatFromExt(schemaExt(schemaPath)))
	if err != nil {
		return diagnostic.New(diagnostic.KindProfileParse, source.Span{}, fmt.Sprintf("parse schema %q: %v", schemaPath, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaPath, schemaDoc); err != nil {
		return diagnostic.New(diagnostic.KindSchemaError, source.Span{}, fmt.Sprintf("add schema resource: %v", err))
	}
	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		return diagnostic.New(diagnostic.KindSchemaError, source.Span{}, fmt.Sprintf("compile schema %q: %v", schemaPath, err))
	}

	if err := schema.Validate(instance); err != nil {
		return schemaDiagnostic(path, err)
	}
	return nil
}

func schemaExt(path string) string {
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		return path[idx:]
	}
	return ""
}

func schemaDiagnostic(path string, err error) *diagnostic.Diagnostic {
	d := diagnostic.New(diagnostic.KindSchemaError, source.Span{}, "")
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		msgs := flattenSchemaErrors(verr)
		d.Hint = fmt.Sprintf("profile %q failed schema validation:\n  %s", path, strings.Join(msgs, "\n  "))
		return d
	}
	d.Hint = fmt.Sprintf("profile %q failed schema validation: %v", path, err)
	return d
}

func flattenSchemaErrors(err *jsonschema.ValidationError) []string {
	loc := "(root)"
	if len(err.InstanceLocation) > 0 {
		loc = "." + strings.Join(err.InstanceLocation, ".")
	}
	out := []string{fmt.Sprintf("%s: %s", loc, err.Error())}
	for _, cause := range err.Causes {
		out = append(out, flattenSchemaErrors(cause)...)
	}
	return out
}
