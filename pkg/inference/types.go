package inference

import "github.com/goliatone/go-inferform/pkg/schema"

// Upstream routes exposed by the inference server.
const (
	InferPath    = "/infer/"
	InferCSVPath = "/infer-csv/"
)

// ModelInput is one entry of the submitted feature list. Value is nil when a
// numeric field could not be coerced, which serialises as JSON null.
type ModelInput struct {
	Name  string             `json:"name"`
	Value any                `json:"value"`
	Type  schema.FeatureType `json:"type"`
}

// Request is the JSON envelope posted to InferPath.
type Request struct {
	ModelInput []ModelInput `json:"model_input"`
}

// ResultItem is one prediction. Image values are base64 strings; scalar
// values keep their JSON literal as json.Number, string or bool.
type ResultItem struct {
	Name  string             `json:"name"`
	Type  schema.FeatureType `json:"type"`
	Value any                `json:"value"`
}

// Result is the successful response of InferPath.
type Result struct {
	Duration float64      `json:"duration"`
	Results  []ResultItem `json:"results"`
}

// Images returns the image-typed results in response order.
func (r Result) Images() []ResultItem {
	var out []ResultItem
	for _, item := range r.Results {
		if item.Type.IsImage() {
			out = append(out, item)
		}
	}
	return out
}
