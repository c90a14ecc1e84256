package openapi_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/openapi"
	"github.com/goliatone/go-inferform/pkg/schema"
	"github.com/goliatone/go-inferform/pkg/testsupport"
)

func reload(t *testing.T, cfg schema.Config) *openapi3.T {
	t.Helper()

	data, err := openapi.MarshalJSON(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("validate reloaded document: %v", err)
	}
	return doc
}

func TestFromConfig_ScalarModel(t *testing.T) {
	cfg := testsupport.ScalarConfig()
	doc := reload(t, cfg)

	if doc.Info.Title != cfg.Title() {
		t.Fatalf("title = %q", doc.Info.Title)
	}
	if doc.Info.Version != "1.2.0" {
		t.Fatalf("version = %q", doc.Info.Version)
	}

	for _, path := range []string{schema.ConfigPath, inference.InferPath, inference.InferCSVPath} {
		if doc.Paths.Value(path) == nil {
			t.Fatalf("missing path %s", path)
		}
	}

	infer := doc.Paths.Value(inference.InferPath).Post
	if infer == nil || infer.RequestBody == nil {
		t.Fatalf("infer operation missing request body")
	}
	if infer.Responses.Status(200) == nil {
		t.Fatalf("infer operation missing 200 response")
	}
	if infer.Responses.Default() == nil {
		t.Fatalf("infer operation missing default error response")
	}

	petals := doc.Components.Schemas["petalsInput"]
	if petals == nil || petals.Value == nil {
		t.Fatalf("missing petals component")
	}
	value := petals.Value.Properties["value"].Value
	if !value.Type.Is(openapi3.TypeInteger) {
		t.Fatalf("petals value type = %v", value.Type)
	}
	if schema.FormatValue(value.Default) != "4" {
		t.Fatalf("petals default = %#v", value.Default)
	}

	sepal := doc.Components.Schemas["sepal_lengthInput"].Value.Properties["value"].Value
	if !sepal.Type.Is(openapi3.TypeNumber) || schema.FormatValue(sepal.Default) != "5.1" {
		t.Fatalf("sepal_length value schema = %v default %#v", sepal.Type, sepal.Default)
	}

	if _, ok := doc.Components.Schemas["speciesOutput"]; !ok {
		t.Fatalf("missing prediction component")
	}
}

func TestFromConfig_ImageFeatureUsesByteFormat(t *testing.T) {
	doc := reload(t, testsupport.ImageConfig())

	photo := doc.Components.Schemas["photoInput"].Value.Properties["value"].Value
	if photo.Format != "byte" {
		t.Fatalf("photo format = %q", photo.Format)
	}
	if photo.Default != nil {
		t.Fatalf("image inputs should not carry defaults, got %#v", photo.Default)
	}
}

func TestFromConfig_CSVUploadIsMultipart(t *testing.T) {
	doc := reload(t, testsupport.ScalarConfig())

	body := doc.Paths.Value(inference.InferCSVPath).Post.RequestBody.Value
	media := body.Content.Get("multipart/form-data")
	if media == nil {
		t.Fatalf("csv upload is not multipart")
	}
	file := media.Schema.Value.Properties["file"].Value
	if file.Format != "binary" {
		t.Fatalf("file format = %q", file.Format)
	}
}

func TestFromConfig_RequiresModelName(t *testing.T) {
	if _, err := openapi.FromConfig(schema.Config{}); err == nil {
		t.Fatalf("expected error for empty config")
	}
}

func TestComponentKey(t *testing.T) {
	if got := openapi.ComponentKey("petal width (cm)", "Input"); got != "petal_width__cm_Input" {
		t.Fatalf("ComponentKey = %q", got)
	}
}

func TestMarshalJSON_IsJSON(t *testing.T) {
	data, err := openapi.MarshalJSON(testsupport.ScalarConfig())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if raw["openapi"] != openapi.Version {
		t.Fatalf("openapi = %v", raw["openapi"])
	}
}
