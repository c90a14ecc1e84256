package inferform_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-inferform"
	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/model"
	"github.com/goliatone/go-inferform/pkg/renderers/html"
	"github.com/goliatone/go-inferform/pkg/schema"
	"github.com/goliatone/go-inferform/pkg/testsupport"
)

func TestLoadConfigAndGenerateHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iris.json")
	if err := os.WriteFile(path, testsupport.ConfigJSON(t, testsupport.ScalarConfig()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := inferform.LoadConfig(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	form := inferform.BuildForm(cfg)
	if form.Layout != model.LayoutSplit {
		t.Fatalf("layout = %s", form.Layout)
	}

	out, err := inferform.GenerateHTML(context.Background(), cfg, html.WithAssetPrefix("/static"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{`id="inferenceForm"`, "/static/" + html.StylesheetName, "iris 1.2.0 - Model Inference"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestLoadConfigWrapsFailures(t *testing.T) {
	_, err := inferform.LoadConfig(context.Background(), schema.SourceFromFile(filepath.Join(t.TempDir(), "missing.json")))
	if !errors.Is(err, inference.ErrConfigLoad) {
		t.Fatalf("expected ErrConfigLoad, got %v", err)
	}
}

func TestAssetsFS(t *testing.T) {
	if _, err := fs.Stat(inferform.AssetsFS(), html.ScriptName); err != nil {
		t.Fatalf("script missing: %v", err)
	}
}
