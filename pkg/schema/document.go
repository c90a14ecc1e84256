package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document wraps the raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, ErrEmptyDocument
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Config decodes and validates the payload.
func (d Document) Config() (Config, error) {
	return Parse(d.raw)
}

// Parse decodes a model schema payload. JSON is tried first, then YAML, the
// same fallback the UI schema files use. The decoded document is validated
// structurally before it is converted into a Config.
func Parse(data []byte) (Config, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Config{}, ErrEmptyDocument
	}

	payload, err := normaliseToJSON(trimmed)
	if err != nil {
		return Config{}, err
	}

	var generic any
	if err := json.Unmarshal(payload, &generic); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := Validate(generic); err != nil {
		return Config{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := checkFeatureNames(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func normaliseToJSON(data []byte) ([]byte, error) {
	if json.Valid(data) {
		return data, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: not JSON or YAML", ErrInvalidDocument)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: top-level value must be an object", ErrInvalidDocument)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return out, nil
}

// checkFeatureNames rejects duplicate input names: DOM identifiers and CSV
// columns are derived from them.
func checkFeatureNames(cfg Config) error {
	seen := make(map[string]struct{}, len(cfg.InputFeatures))
	for _, feature := range cfg.InputFeatures {
		name := strings.TrimSpace(feature.Name)
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%w: duplicate input feature %q", ErrInvalidDocument, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
