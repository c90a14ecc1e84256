package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/schema"
)

// Version is the OpenAPI version emitted by FromConfig.
const Version = "3.0.3"

var componentKeyPattern = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// FromConfig builds an OpenAPI document for the model described by cfg. The
// result passes openapi3 validation.
func FromConfig(cfg schema.Config) (*openapi3.T, error) {
	if cfg.ModelName == "" {
		return nil, errors.New("openapi: model name is required")
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}

	inputRefs := make(openapi3.SchemaRefs, 0, len(cfg.InputFeatures))
	for _, feature := range cfg.InputFeatures {
		ref, err := addFeatureSchema(components.Schemas, feature, "Input", true)
		if err != nil {
			return nil, err
		}
		inputRefs = append(inputRefs, ref)
	}
	outputRefs := make(openapi3.SchemaRefs, 0, len(cfg.PredictionTemplate))
	for _, feature := range cfg.PredictionTemplate {
		ref, err := addFeatureSchema(components.Schemas, feature, "Output", false)
		if err != nil {
			return nil, err
		}
		outputRefs = append(outputRefs, ref)
	}

	errorSchema := openapi3.NewObjectSchema().
		WithProperty("detail", &openapi3.Schema{Description: "A message string or a list of {msg} objects."})
	components.Schemas["ErrorResponse"] = openapi3.NewSchemaRef("", errorSchema)
	components.Schemas["Config"] = openapi3.NewSchemaRef("", configSchema())
	errRef := componentRef(components.Schemas, "ErrorResponse")

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       cfg.Title(),
			Version:     infoVersion(cfg.ModelVersion),
			Description: cfg.Header(),
		},
		Components: &components,
		Paths: openapi3.NewPaths(
			openapi3.WithPath(schema.ConfigPath, &openapi3.PathItem{Get: configOperation(componentRef(components.Schemas, "Config"), errRef)}),
			openapi3.WithPath(inference.InferPath, &openapi3.PathItem{Post: inferOperation(inputRefs, outputRefs, errRef)}),
			openapi3.WithPath(inference.InferCSVPath, &openapi3.PathItem{Post: inferCSVOperation(cfg, errRef)}),
		),
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

// MarshalJSON renders the document for cfg as indented JSON.
func MarshalJSON(cfg schema.Config) ([]byte, error) {
	doc, err := FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode document: %w", err)
	}
	return data, nil
}

func addFeatureSchema(schemas openapi3.Schemas, feature schema.Feature, suffix string, withDefault bool) (*openapi3.SchemaRef, error) {
	value, err := valueSchema(feature, withDefault)
	if err != nil {
		return nil, err
	}

	obj := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema().WithEnum(feature.Name)).
		WithProperty("type", openapi3.NewStringSchema().WithEnum(string(feature.Type))).
		WithProperty("value", value)
	obj.Required = []string{"name", "type", "value"}

	key := ComponentKey(feature.Name, suffix)
	schemas[key] = openapi3.NewSchemaRef("", obj)
	return componentRef(schemas, key), nil
}

// componentRef points at a registered component and carries its value so the
// document validates before a loader resolves it.
func componentRef(schemas openapi3.Schemas, key string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+key, schemas[key].Value)
}

func valueSchema(feature schema.Feature, withDefault bool) (*openapi3.Schema, error) {
	var s *openapi3.Schema
	switch feature.Type {
	case schema.FeatureTypeImage:
		s = openapi3.NewStringSchema().WithFormat("byte")
		s.Description = "Base64 encoded image bytes without a data URL prefix."
		return s, nil
	case schema.FeatureTypeInt:
		s = openapi3.NewIntegerSchema()
		s.Nullable = true
	case schema.FeatureTypeFloat:
		s = openapi3.NewFloat64Schema()
		s.Nullable = true
	case schema.FeatureTypeString:
		s = openapi3.NewStringSchema()
	default:
		return nil, fmt.Errorf("openapi: feature %q has unsupported type %q", feature.Name, feature.Type)
	}

	if withDefault && feature.Value != nil {
		if def, ok := defaultValue(feature); ok {
			s.Default = def
		}
	}
	return s, nil
}

// defaultValue converts a declared default to a JSON-typed value matching the
// feature type. Defaults that do not fit the type are dropped.
func defaultValue(feature schema.Feature) (any, bool) {
	raw := schema.FormatValue(feature.Value)
	switch feature.Type {
	case schema.FeatureTypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		return float64(n), true
	case schema.FeatureTypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	default:
		return raw, true
	}
}

// ComponentKey derives a valid component name from a feature name.
func ComponentKey(name, suffix string) string {
	return componentKeyPattern.ReplaceAllString(name, "_") + suffix
}

func infoVersion(version string) string {
	if version == "" {
		return "unversioned"
	}
	return version
}

func configSchema() *openapi3.Schema {
	feature := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema().WithEnum(featureTypeEnum()...)).
		WithProperty("value", &openapi3.Schema{})
	feature.Required = []string{"name", "type"}

	cfg := openapi3.NewObjectSchema().
		WithProperty("model_name", openapi3.NewStringSchema()).
		WithProperty("model_version", openapi3.NewStringSchema()).
		WithProperty("input_features", openapi3.NewArraySchema().WithItems(feature)).
		WithProperty("prediction_template", openapi3.NewArraySchema().WithItems(feature))
	cfg.Required = []string{"model_name", "input_features", "prediction_template"}
	return cfg
}

func featureTypeEnum() []any {
	out := make([]any, 0, len(schema.FeatureTypes))
	for _, t := range schema.FeatureTypes {
		out = append(out, string(t))
	}
	return out
}

func errorResponses(ok *openapi3.Response, errSchema *openapi3.SchemaRef) *openapi3.Responses {
	failure := openapi3.NewResponse().
		WithDescription("Error with a detail message").
		WithJSONSchemaRef(errSchema)
	return openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: ok}),
		openapi3.WithName("default", failure),
	)
}

func configOperation(config, errSchema *openapi3.SchemaRef) *openapi3.Operation {
	ok := openapi3.NewResponse().
		WithDescription("Model schema").
		WithJSONSchemaRef(config)
	return &openapi3.Operation{
		OperationID: "getConfig",
		Summary:     "Model schema driving the inference form",
		Responses:   errorResponses(ok, errSchema),
	}
}

func inferOperation(inputs, outputs openapi3.SchemaRefs, errSchema *openapi3.SchemaRef) *openapi3.Operation {
	inputItem := &openapi3.Schema{OneOf: inputs}
	if len(inputs) == 0 {
		inputItem = openapi3.NewObjectSchema()
	}
	request := openapi3.NewObjectSchema().
		WithProperty("model_input", openapi3.NewArraySchema().WithItems(inputItem))
	request.Required = []string{"model_input"}

	outputItem := &openapi3.Schema{OneOf: outputs}
	if len(outputs) == 0 {
		outputItem = openapi3.NewObjectSchema()
	}
	result := openapi3.NewObjectSchema().
		WithProperty("duration", openapi3.NewFloat64Schema()).
		WithProperty("results", openapi3.NewArraySchema().WithItems(outputItem))
	result.Required = []string{"duration", "results"}

	body := openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(request)
	body.Description = "Feature values in declared input order."

	return &openapi3.Operation{
		OperationID: "infer",
		Summary:     "Run a single inference",
		RequestBody: &openapi3.RequestBodyRef{Value: body},
		Responses:   errorResponses(openapi3.NewResponse().WithDescription("Prediction").WithJSONSchema(result), errSchema),
	}
}

func inferCSVOperation(cfg schema.Config, errSchema *openapi3.SchemaRef) *openapi3.Operation {
	upload := openapi3.NewObjectSchema().
		WithProperty("file", openapi3.NewStringSchema().WithFormat("binary"))
	upload.Required = []string{"file"}

	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.NewContentWithFormDataSchema(upload))
	body.Description = fmt.Sprintf("CSV with columns: %v", cfg.InputNames())

	csv := openapi3.NewResponse().
		WithDescription("Input rows with prediction columns appended").
		WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/csv"}))

	return &openapi3.Operation{
		OperationID: "inferCSV",
		Summary:     "Run batch inference over a CSV upload",
		RequestBody: &openapi3.RequestBodyRef{Value: body},
		Responses:   errorResponses(csv, errSchema),
	}
}
