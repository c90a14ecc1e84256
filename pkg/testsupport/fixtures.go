package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-inferform/pkg/schema"
)

// ScalarConfig is a schema with only scalar features, so the page uses the
// split (batch + single) layout.
func ScalarConfig() schema.Config {
	return schema.Config{
		ModelName:    "iris",
		ModelVersion: "1.2.0",
		InputFeatures: []schema.Feature{
			{Name: "sepal_length", Type: schema.FeatureTypeFloat, Value: json.Number("5.1")},
			{Name: "petals", Type: schema.FeatureTypeInt, Value: json.Number("4")},
			{Name: "garden", Type: schema.FeatureTypeString, Value: "kew"},
		},
		PredictionTemplate: []schema.Feature{
			{Name: "species", Type: schema.FeatureTypeString},
			{Name: "confidence", Type: schema.FeatureTypeFloat},
		},
	}
}

// ImageConfig is a schema with one image input and one image output.
func ImageConfig() schema.Config {
	return schema.Config{
		ModelName:    "segmenter",
		ModelVersion: "0.3",
		InputFeatures: []schema.Feature{
			{Name: "photo", Type: schema.FeatureTypeImage},
			{Name: "threshold", Type: schema.FeatureTypeFloat, Value: json.Number("0.5")},
		},
		PredictionTemplate: []schema.Feature{
			{Name: "mask", Type: schema.FeatureTypeImage},
			{Name: "coverage", Type: schema.FeatureTypeFloat},
		},
	}
}

// ConfigJSON encodes cfg the way the inference server serves it.
func ConfigJSON(t testing.TB, cfg schema.Config) []byte {
	t.Helper()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	return data
}

// CompareGolden returns a go-cmp diff between want and got.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
