package schema_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-inferform/pkg/schema"
)

const irisJSON = `{
  "model_name": "iris",
  "model_version": "1.2.0",
  "input_features": [
    {"name": "sepal_length", "type": "float", "value": 5.10},
    {"name": "petals", "type": "int", "value": 4},
    {"name": "garden", "type": "string"}
  ],
  "prediction_template": [
    {"name": "species", "type": "string"}
  ]
}`

func TestParse_JSONKeepsOrderAndLiterals(t *testing.T) {
	cfg, err := schema.Parse([]byte(irisJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff([]string{"sepal_length", "petals", "garden"}, cfg.InputNames()); diff != "" {
		t.Fatalf("input order mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.InputFeatures[0].Value; got != json.Number("5.10") {
		t.Fatalf("float default = %#v", got)
	}
	if got := cfg.InputFeatures[2].DefaultString(); got != "" {
		t.Fatalf("missing default = %q", got)
	}
	if cfg.Title() != "iris API - Model Inference" {
		t.Fatalf("title = %q", cfg.Title())
	}
	if cfg.Header() != "iris 1.2.0 - Model Inference" {
		t.Fatalf("header = %q", cfg.Header())
	}
}

func TestParse_YAML(t *testing.T) {
	doc := `
model_name: segmenter
model_version: "0.3"
input_features:
  - name: photo
    type: image
prediction_template:
  - name: mask
    type: image
`
	cfg, err := schema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if !cfg.HasImageInput() || !cfg.HasImageOutput() || !cfg.HasImages() {
		t.Fatalf("expected image features in %+v", cfg)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":         "   ",
		"unknown type":  `{"model_name":"m","input_features":[{"name":"a","type":"bool"}],"prediction_template":[]}`,
		"missing name":  `{"model_name":"m","input_features":[{"type":"int"}],"prediction_template":[]}`,
		"duplicate":     `{"model_name":"m","input_features":[{"name":"a","type":"int"},{"name":"a","type":"float"}],"prediction_template":[]}`,
		"not an object": `- a`,
		"no template":   `{"model_name":"m","input_features":[]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := schema.Parse([]byte(payload))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, schema.ErrInvalidDocument) && !errors.Is(err, schema.ErrEmptyDocument) {
				t.Fatalf("unexpected error type: %v", err)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{json.Number("0.50"), "0.50"},
		{float64(2.5), "2.5"},
		{float64(3), "3"},
		{int64(-7), "-7"},
		{true, "true"},
	}
	for _, tc := range cases {
		if got := schema.FormatValue(tc.in); got != tc.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFeatureTypeValid(t *testing.T) {
	for _, kind := range schema.FeatureTypes {
		if !kind.Valid() {
			t.Fatalf("%s should be valid", kind)
		}
	}
	if schema.FeatureType("bool").Valid() {
		t.Fatalf("bool should not be valid")
	}
}
