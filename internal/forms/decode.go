package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization of a form file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from a file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Envelope is the serialized form: a kind tag and the nested form object
type Envelope struct {
	Kind Kind           `json:"kind" yaml:"kind"`
	Data map[string]any `json:"data" yaml:"data"`
}

// Decode parses a JSON or YAML envelope
func Decode(data []byte, format Format) (*Envelope, error) {
	var env Envelope
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("failed to parse YAML form: %w", err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&env); err != nil {
			return nil, fmt.Errorf("failed to parse JSON form: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported form format: %s", format)
	}

	if !env.Kind.Valid() {
		return nil, fmt.Errorf("unknown form kind: %q", env.Kind)
	}
	if env.Data == nil {
		env.Data = map[string]any{}
	}
	return &env, nil
}

// Form decodes the envelope data into its typed form
func (e *Envelope) Form() (Form, error) {
	return FromMap(e.Kind, e.Data)
}

// New returns an empty typed form of the given kind
func New(kind Kind) (Form, error) {
	switch kind {
	case KindWorkOrder:
		return &WorkOrder{}, nil
	case KindMaintenance:
		return &MaintenanceChecklist{}, nil
	case KindSurvey:
		return &SiteSurvey{}, nil
	default:
		return nil, fmt.Errorf("unknown form kind: %q", kind)
	}
}

// FromMap converts a nested form object into its typed form.
// Both sides use the JSON field names, so the map is round-tripped through JSON.
func FromMap(kind Kind, data map[string]any) (Form, error) {
	form, err := New(kind)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form data: %w", err)
	}
	if err := json.Unmarshal(raw, form); err != nil {
		return nil, fmt.Errorf("failed to decode %s data: %w", kind, err)
	}
	return form, nil
}

// ToMap converts a typed form back into its nested object
func ToMap(form Form) (map[string]any, error) {
	raw, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode form: %w", err)
	}
	return data, nil
}

// Wrap builds an envelope around a typed form
func Wrap(form Form) (*Envelope, error) {
	data, err := ToMap(form)
	if err != nil {
		return nil, err
	}
	return &Envelope{Kind: form.Kind(), Data: data}, nil
}
