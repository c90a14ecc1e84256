package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FeatureType is the tagged variant carried by every feature in the model
// schema. Renderers and collectors switch on it instead of comparing raw
// strings.
type FeatureType string

const (
	FeatureTypeString FeatureType = "string"
	FeatureTypeInt    FeatureType = "int"
	FeatureTypeFloat  FeatureType = "float"
	FeatureTypeImage  FeatureType = "image"
)

// FeatureTypes lists the supported kinds in declaration order.
var FeatureTypes = []FeatureType{
	FeatureTypeString,
	FeatureTypeInt,
	FeatureTypeFloat,
	FeatureTypeImage,
}

// Valid reports whether t is one of the supported kinds.
func (t FeatureType) Valid() bool {
	switch t {
	case FeatureTypeString, FeatureTypeInt, FeatureTypeFloat, FeatureTypeImage:
		return true
	default:
		return false
	}
}

func (t FeatureType) IsImage() bool {
	return t == FeatureTypeImage
}

func (t FeatureType) IsNumeric() bool {
	return t == FeatureTypeInt || t == FeatureTypeFloat
}

// Feature is a named, typed field in the model schema. It drives both input
// collection and output rendering.
type Feature struct {
	Name  string      `json:"name" yaml:"name"`
	Type  FeatureType `json:"type" yaml:"type"`
	Value any         `json:"value,omitempty" yaml:"value,omitempty"`
}

// DefaultString renders the declared default for use as an input value.
// Missing defaults render as an empty string.
func (f Feature) DefaultString() string {
	return FormatValue(f.Value)
}

// Config is the schema served by the inference server at GET /config.
type Config struct {
	ModelName          string    `json:"model_name" yaml:"model_name"`
	ModelVersion       string    `json:"model_version" yaml:"model_version"`
	InputFeatures      []Feature `json:"input_features" yaml:"input_features"`
	PredictionTemplate []Feature `json:"prediction_template" yaml:"prediction_template"`
}

// HasImageInput reports whether any input feature is an image.
func (c Config) HasImageInput() bool {
	return containsImage(c.InputFeatures)
}

// HasImageOutput reports whether any prediction template entry is an image.
func (c Config) HasImageOutput() bool {
	return containsImage(c.PredictionTemplate)
}

// HasImages reports whether any input or output feature is an image. Image
// workflows are not offered in batch mode.
func (c Config) HasImages() bool {
	return c.HasImageInput() || c.HasImageOutput()
}

// Title is the document title shown for the model.
func (c Config) Title() string {
	return fmt.Sprintf("%s API - Model Inference", c.ModelName)
}

// Header is the page heading shown for the model.
func (c Config) Header() string {
	return fmt.Sprintf("%s %s - Model Inference", c.ModelName, c.ModelVersion)
}

// InputNames returns the input feature names in declaration order.
func (c Config) InputNames() []string {
	return featureNames(c.InputFeatures)
}

// PredictionNames returns the prediction template names in declaration order.
func (c Config) PredictionNames() []string {
	return featureNames(c.PredictionTemplate)
}

// InputFeature looks up an input feature by name.
func (c Config) InputFeature(name string) (Feature, bool) {
	for _, feature := range c.InputFeatures {
		if feature.Name == name {
			return feature, true
		}
	}
	return Feature{}, false
}

func containsImage(features []Feature) bool {
	for _, feature := range features {
		if feature.Type.IsImage() {
			return true
		}
	}
	return false
}

func featureNames(features []Feature) []string {
	if len(features) == 0 {
		return nil
	}
	out := make([]string, 0, len(features))
	for _, feature := range features {
		out = append(out, feature.Name)
	}
	return out
}

// FormatValue renders a scalar the way it appears in the JSON payload:
// json.Number keeps its literal text, floats drop trailing zeros and nil
// becomes an empty string.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
