// Package inferform renders a browser form for a model served by an
// inference server. The server publishes its input and output features at
// GET /config; inferform turns that schema into a form, collects values in
// declared order and shows the prediction.
package inferform

import (
	"context"
	"io/fs"

	schemaloader "github.com/goliatone/go-inferform/internal/schema/loader"
	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/model"
	"github.com/goliatone/go-inferform/pkg/render"
	"github.com/goliatone/go-inferform/pkg/renderers/html"
	"github.com/goliatone/go-inferform/pkg/schema"
)

// NewLoader constructs a schema loader while keeping the concrete type
// hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return schemaloader.New(schema.NewLoaderOptions(options...))
}

// LoadConfig fetches and parses the model schema from src. Failures match
// inference.ErrConfigLoad.
func LoadConfig(ctx context.Context, src schema.Source, options ...schema.LoaderOption) (schema.Config, error) {
	cfg, err := schema.LoadConfig(ctx, NewLoader(options...), src)
	if err != nil {
		return schema.Config{}, inference.ConfigLoadError(err)
	}
	return cfg, nil
}

// BuildForm derives the form model for cfg.
func BuildForm(cfg schema.Config) model.FormModel {
	return model.Build(cfg)
}

// NewClient returns a client for the inference server at baseURL.
func NewClient(baseURL string, options ...inference.Option) (*inference.Client, error) {
	return inference.New(baseURL, options...)
}

// GenerateHTML renders the full page for cfg with the built-in HTML renderer.
// Mount AssetsFS under /assets to serve the stylesheet and script it links.
func GenerateHTML(ctx context.Context, cfg schema.Config, options ...html.Option) ([]byte, error) {
	renderer, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	form := BuildForm(cfg)
	return renderer.Render(ctx, render.Page{Form: &form}, render.RenderOptions{})
}

// AssetsFS exposes the stylesheet and script of the HTML renderer.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(inferform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
