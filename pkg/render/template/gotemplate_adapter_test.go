package template_test

import (
	"io"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-inferform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-inferform/pkg/testsupport"
)

var templates = fstest.MapFS{
	"hello.tpl":                 {Data: []byte("Hello {{ name }}!")},
	"use-global.tpl":            {Data: []byte("heading={{ messages.heading }}")},
	"columns.tpl":               {Data: []byte("{{ columns|csvjoin }}")},
	"escape.tpl":                {Data: []byte("<p>{{ message }}</p>")},
	"trim.tpl":                  {Data: []byte("[{{ value|trim }}]")},
	"pages/outer.tpl":           {Data: []byte(`outer:{% include "inner.tpl" %}`)},
	"pages/inner.tpl":           {Data: []byte("inner={{ name }} {{ messages.heading }}")},
	"pages/missing-include.tpl": {Data: []byte(`{% include "pages/inner.tpl" %}`)},
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if want := "Hello Ada!"; result != want || written != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q (writer %q)", want, result, written)
	}
}

func TestGoTemplateEngine_GlobalData(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"messages": map[string]string{"heading": "Output:"},
	}))

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "heading=Output:" {
		t.Fatalf("render mismatch: %q", result)
	}
}

func TestGoTemplateEngine_IncludeResolvesSibling(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"messages": map[string]string{"heading": "Output:"},
	}))

	result, err := engine.RenderTemplate("pages/outer", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "outer:inner=Ada Output:" {
		t.Fatalf("render mismatch: %q", result)
	}

	if _, err := engine.RenderTemplate("pages/missing-include", nil); err == nil {
		t.Fatalf("expected include of pages/pages/inner.tpl to fail")
	}
}

func TestGoTemplateEngine_StructDataAndDefaultFilters(t *testing.T) {
	engine := newEngine(t)
	data := struct {
		Columns []string `json:"columns"`
	}{Columns: []string{"a", "b", "c"}}

	result, err := engine.RenderTemplate("columns", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "a, b, c" {
		t.Fatalf("render mismatch: %q", result)
	}

	result, err = engine.RenderTemplate("trim", map[string]any{"value": "  x  "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "[x]" {
		t.Fatalf("trim mismatch: %q", result)
	}
}

func TestGoTemplateEngine_Autoescapes(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.RenderTemplate("escape", map[string]any{"message": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "<p>&lt;b&gt;x&lt;/b&gt;</p>" {
		t.Fatalf("render mismatch: %q", result)
	}
}

func TestGoTemplateEngine_RequiresFS(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without a template fs")
	}
}

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templates)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
