// Package format renders resolved metadata objects as HTML, JSON, or YAML
// and handles the serialized form stored on task records.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teemtee/tmt-web/internal/domain/model"
)

// Format is the closed set of output formats.
type Format string

const (
	// HTML renders a standalone page.
	HTML Format = "html"
	// JSON renders the metadata document as JSON.
	JSON Format = "json"
	// YAML renders the metadata document as YAML.
	YAML Format = "yaml"
)

// Default is the format used when the client does not request one.
const Default = HTML

// Parse validates a format query parameter. The empty string maps to the
// default format.
func Parse(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "":
		return Default, nil
	case "html":
		return HTML, nil
	case "json":
		return JSON, nil
	case "yaml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", s)
	}
}

// ContentType returns the response content type for the format.
func (f Format) ContentType() string {
	switch f {
	case JSON:
		return "application/json"
	case YAML:
		return "text/plain; charset=utf-8"
	default:
		return "text/html; charset=utf-8"
	}
}

// FormatData converts a resolved object into the requested output format.
func FormatData(obj model.Object, f Format) (string, error) {
	switch f {
	case JSON:
		return Serialize(obj)
	case YAML:
		data, err := yaml.Marshal(obj)
		if err != nil {
			return "", fmt.Errorf("marshal yaml: %w", err)
		}
		return string(data), nil
	case HTML:
		return renderObjectPage(obj)
	default:
		return "", fmt.Errorf("unsupported output format: %q", f)
	}
}

// Serialize encodes a resolved object as JSON for storage on a task record.
func Serialize(obj model.Object) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("marshal json: %w", err)
	}
	return string(data), nil
}

// Deserialize decodes a stored JSON document back into the matching
// metadata variant. The variant is sniffed from the document shape: both
// "test" and "plan" keys mean a pair, a "framework" key means a test,
// anything else is a plan. Test documents always carry the "framework"
// key, the serializer never omits it.
func Deserialize(s string) (model.Object, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil, fmt.Errorf("unmarshal json: %w", err)
	}
	if _, ok := probe["name"]; !ok {
		_, hasTest := probe["test"]
		_, hasPlan := probe["plan"]
		if !hasTest || !hasPlan {
			return nil, fmt.Errorf("not a metadata document")
		}
	}

	if _, hasTest := probe["test"]; hasTest {
		if _, hasPlan := probe["plan"]; hasPlan {
			var pair model.TestPlanMetadata
			if err := json.Unmarshal([]byte(s), &pair); err != nil {
				return nil, fmt.Errorf("unmarshal test/plan pair: %w", err)
			}
			return &pair, nil
		}
	}

	if _, hasFramework := probe["framework"]; hasFramework {
		var test model.TestMetadata
		if err := json.Unmarshal([]byte(s), &test); err != nil {
			return nil, fmt.Errorf("unmarshal test: %w", err)
		}
		return &test, nil
	}

	var plan model.PlanMetadata
	if err := json.Unmarshal([]byte(s), &plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	return &plan, nil
}
