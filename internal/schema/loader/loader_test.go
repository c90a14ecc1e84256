package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-inferform/internal/schema/loader"
	"github.com/goliatone/go-inferform/pkg/schema"
)

const payload = `{"model_name":"iris","model_version":"1","input_features":[{"name":"a","type":"int"}],"prediction_template":[{"name":"b","type":"string"}]}`

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := loader.New(schema.NewLoaderOptions())
	cfg, err := schema.LoadConfig(context.Background(), l, schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelName != "iris" {
		t.Fatalf("model name = %q", cfg.ModelName)
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{"models/iris.json": {Data: []byte(payload)}}

	l := loader.New(schema.NewLoaderOptions(schema.WithFileSystem(files)))
	doc, err := l.Load(context.Background(), schema.SourceFromFS("models/iris.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Location() != "models/iris.json" {
		t.Fatalf("location = %q", doc.Location())
	}
}

func TestLoader_Server(t *testing.T) {
	var gotPath, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	src, err := schema.SourceFromServer(server.URL)
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	l := loader.New(schema.NewLoaderOptions(schema.WithHTTPFallback(time.Second)))
	cfg, err := schema.LoadConfig(context.Background(), l, src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotPath != schema.ConfigPath || gotAccept != "application/json" {
		t.Fatalf("request path %q accept %q", gotPath, gotAccept)
	}
	if len(cfg.InputFeatures) != 1 {
		t.Fatalf("features = %+v", cfg.InputFeatures)
	}
}

func TestLoader_ServerStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src, _ := schema.SourceFromServer(server.URL)
	l := loader.New(schema.NewLoaderOptions(schema.WithHTTPClient(server.Client())))
	_, err := l.Load(context.Background(), src)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoader_HTTPDisabled(t *testing.T) {
	l := loader.New(schema.NewLoaderOptions())
	_, err := l.Load(context.Background(), schema.SourceFromURL("http://localhost:1/config"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}
