// Package html renders the inference page and its fragments with pongo2
// templates. Pages are server-rendered; the embedded script only adds
// loading states, image previews and fetch-based submission.
package html

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-inferform/pkg/model"
	"github.com/goliatone/go-inferform/pkg/render"
	rendertemplate "github.com/goliatone/go-inferform/pkg/render/template"
	"github.com/goliatone/go-inferform/pkg/render/template/gotemplate"
)

// Name is the registry key of this renderer.
const Name = "html"

const (
	pageTemplate     = "templates/page"
	fragmentTemplate = "templates/fragment"

	fallbackTitle = "Model Inference"
)

type Option func(*config)

type config struct {
	manifest    *theme.Manifest
	assetPrefix string
}

// WithThemeManifest replaces the built-in palette.
func WithThemeManifest(manifest *theme.Manifest) Option {
	return func(cfg *config) {
		if manifest != nil {
			cfg.manifest = manifest
		}
	}
}

// WithAssetPrefix overrides the URL prefix the stylesheet and script are
// served from.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.assetPrefix = prefix
	}
}

type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	manifest    *theme.Manifest
	assetPrefix string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.manifest == nil {
		cfg.manifest = DefaultManifest()
	}

	if err := theme.NewRegistry().Register(cfg.manifest); err != nil {
		return nil, fmt.Errorf("html renderer: register theme %q: %w", cfg.manifest.Name, err)
	}

	engine, err := gotemplate.New(
		gotemplate.WithFS(TemplatesFS()),
		gotemplate.WithExtension(".tpl"),
		gotemplate.WithGlobalData(map[string]any{
			"messages": map[string]string{
				"output_heading": render.OutputHeading,
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
	}

	return &Renderer{
		templates:   engine,
		manifest:    cfg.manifest,
		assetPrefix: cfg.assetPrefix,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the full page, or only the requested fragment.
func (r *Renderer) Render(_ context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}

	name := pageTemplate
	if options.Fragment != render.FragmentNone {
		name = fragmentTemplate
	}

	result, err := r.templates.RenderTemplate(name, r.context(page, options))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// fieldView adds per-request state to a form field.
type fieldView struct {
	model.Field
	Value      string `json:"value"`
	PreviewSrc string `json:"preview_src,omitempty"`
}

func (r *Renderer) context(page render.Page, options render.RenderOptions) map[string]any {
	page = sanitizePage(page)
	themeCfg := resolveTheme(r.manifest, options.ThemeVariant, r.assetPrefix)
	themeData, assets := newThemeView(themeCfg)

	title, header := fallbackTitle, fallbackTitle
	if page.Form != nil {
		title, header = page.Form.Title, page.Form.Header
	}

	return map[string]any{
		"page":     page,
		"title":    title,
		"header":   header,
		"ready":    page.Ready(),
		"fields":   fieldViews(page),
		"output":   page.Output,
		"batch":    page.Batch,
		"fragment": string(options.Fragment),
		"theme":    themeData,
		"assets":   assets,
	}
}

func fieldViews(page render.Page) []fieldView {
	if page.Form == nil {
		return nil
	}

	previews := map[string]string{}
	if page.Output != nil {
		for _, input := range page.Output.Inputs {
			previews[input.Name] = input.Src
		}
	}

	views := make([]fieldView, 0, len(page.Form.Fields))
	for _, field := range page.Form.Fields {
		view := fieldView{Field: field, Value: field.Default}
		if submitted, ok := page.Values[field.Name]; ok && !field.IsImage() {
			view.Value = submitted
		}
		if field.IsImage() {
			view.PreviewSrc = previews[field.Name]
		}
		views = append(views, view)
	}
	return views
}
