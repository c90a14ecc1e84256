// Package openapi describes the inference server of a given model schema as
// an OpenAPI 3 document. Feature defaults and types flow into per-feature
// component schemas so generated clients see the same contract the form
// enforces.
package openapi
