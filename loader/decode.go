package loader

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/easyjson/document"
)

// ErrInvalidJSON indicates the file contents are not well-formed JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// Format identifies a document file format.
type Format int

const (
	// FormatJSON is the default format.
	FormatJSON Format = iota

	// FormatTOML is selected for .toml files.
	FormatTOML

	// FormatYAML is selected for .yaml and .yml files.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// DetectFormat picks a format from the file extension. Unknown
// extensions decode as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// decode parses data into a document. The top level must decode to a
// mapping.
func decode(format Format, data []byte) (document.Document, error) {
	var m map[string]any

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	default:
		// Pre-validate so truncated or malformed input is reported as
		// such rather than as a partial unmarshal error.
		if !gjson.ValidBytes(data) {
			return nil, ErrInvalidJSON
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	}

	if m == nil {
		m = make(map[string]any)
	}
	return document.Document(m), nil
}
