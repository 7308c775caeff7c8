package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/internal/source"
)

// Format is the on-disk encoding of a profile file, chosen by extension
// per SPEC_FULL.md §6.1.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
)

// FormatFromExt maps a file extension (with or without leading dot) to a
// Format, defaulting to YAML for unrecognized extensions.
func FormatFromExt(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		return FormatJSON
	case "toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// decodeGeneric decodes data into a generic map for schema validation,
// honoring format.
func decodeGeneric(data []byte, format Format) (map[string]any, error) {
	out := map[string]any{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &out)
	case FormatTOML:
		err = toml.Unmarshal(data, &out)
	default:
		err = yaml.Unmarshal(data, &out)
	}
	return out, err
}

func decodeProfile(data []byte, format Format, p *Profile) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, p)
	case FormatTOML:
		return toml.Unmarshal(data, p)
	default:
		return yaml.Unmarshal(data, p)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadFile reads a single profile file, validates it against the embedded
// schema (ValidateDefault), and decodes it (no extends resolution) — the
// building block the extends walker in Resolve uses.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diagnostic.New(diagnostic.KindIoError, source.Span{}, fmt.Sprintf("read profile %q: %v", path, err))
	}

	format := FormatFromExt(filepath.Ext(path))

	if err := ValidateDefault(path, data, format); err != nil {
		return nil, err
	}

	p := &Profile{}
	if err := decodeProfile(data, format, p); err != nil {
		return nil, diagnostic.New(diagnostic.KindProfileParse, source.Span{}, fmt.Sprintf("parse profile %q: %v", path, err))
	}

	stem := filepath.Base(path)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	p.name = stem

	return p, nil
}

// Target custom unmarshalers accept a bare string, `{path: ...}`, or the
// legacy `{alias: ...}` form (SPEC_FULL.md §6.1).

func (t *Target) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Path = node.Value
		return nil
	}
	var aux struct {
		Path  string `yaml:"path"`
		Alias string `yaml:"alias"`
	}
	if err := node.Decode(&aux); err != nil {
		return err
	}
	t.Path, t.Alias = aux.Path, aux.Alias
	return nil
}

func (t *Target) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Path = s
		return nil
	}
	var aux struct {
		Path  string `json:"path"`
		Alias string `json:"alias"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Path, t.Alias = aux.Path, aux.Alias
	return nil
}

func (t *Target) UnmarshalTOML(data []byte) error {
	var s string
	if err := toml.Unmarshal(data, &s); err == nil {
		t.Path = s
		return nil
	}
	var aux struct {
		Path  string `toml:"path"`
		Alias string `toml:"alias"`
	}
	if err := toml.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.Path, t.Alias = aux.Path, aux.Alias
	return nil
}
