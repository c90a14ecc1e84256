package html

import (
	"maps"
	"path"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultManifest is the built-in palette. The "dark" variant swaps the
// surface colours.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "inferform",
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent":     "#3498db",
			"accent-ink": "#ffffff",
			"surface":    "#ffffff",
			"background": "#f4f6f8",
			"ink":        "#2c3e50",
			"muted":      "#7f8c8d",
			"success":    "#27ae60",
			"error":      "#c0392b",
			"info":       "#2980b9",
		},
		Templates: map[string]string{
			"page": "templates/page.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": StylesheetName,
				"script":     ScriptName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface":    "#1f2933",
					"background": "#111827",
					"ink":        "#e5e7eb",
					"muted":      "#9ca3af",
				},
			},
		},
	}
}

// resolveTheme merges base and variant tokens and derives CSS variables and
// asset URLs. prefix overrides the manifest asset prefix when non-empty.
func resolveTheme(manifest *theme.Manifest, variant, prefix string) theme.RendererConfig {
	cfg := theme.RendererConfig{
		Theme:   manifest.Name,
		Tokens:  maps.Clone(manifest.Tokens),
		CSSVars: map[string]string{},
	}
	if cfg.Tokens == nil {
		cfg.Tokens = map[string]string{}
	}

	files := maps.Clone(manifest.Assets.Files)
	if files == nil {
		files = map[string]string{}
	}
	assetPrefix := manifest.Assets.Prefix

	if v, ok := manifest.Variants[variant]; ok && variant != "" {
		cfg.Variant = variant
		maps.Copy(cfg.Tokens, v.Tokens)
		maps.Copy(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			assetPrefix = v.Assets.Prefix
		}
	}
	if prefix != "" {
		assetPrefix = prefix
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		return path.Join("/", strings.TrimPrefix(assetPrefix, "/"), file)
	}
	return cfg
}

type cssVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type themeView struct {
	Name    string   `json:"name"`
	Variant string   `json:"variant"`
	CSSVars []cssVar `json:"css_vars"`
}

type assetsView struct {
	Stylesheet string `json:"stylesheet"`
	Script     string `json:"script"`
}

func newThemeView(cfg theme.RendererConfig) (themeView, assetsView) {
	view := themeView{Name: cfg.Theme, Variant: cfg.Variant}
	for _, name := range slices.Sorted(maps.Keys(cfg.CSSVars)) {
		view.CSSVars = append(view.CSSVars, cssVar{Name: name, Value: cfg.CSSVars[name]})
	}
	assets := assetsView{}
	if cfg.AssetURL != nil {
		assets.Stylesheet = cfg.AssetURL("stylesheet")
		assets.Script = cfg.AssetURL("script")
	}
	return view, assets
}
