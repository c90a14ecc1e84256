package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/goliatone/go-inferform"
	"github.com/goliatone/go-inferform/pkg/collect"
	"github.com/goliatone/go-inferform/pkg/csvpreview"
	"github.com/goliatone/go-inferform/pkg/imageutil"
	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/model"
	"github.com/goliatone/go-inferform/pkg/openapi"
	"github.com/goliatone/go-inferform/pkg/render"
	"github.com/goliatone/go-inferform/pkg/renderers/tui"
	"github.com/goliatone/go-inferform/pkg/schema"
)

type app struct {
	cfg      schema.Config
	form     model.FormModel
	client   *inference.Client
	prompts  *tui.Renderer
	registry *render.Registry
	outDir   string
	rows     int
}

func main() {
	upstream := flag.String("upstream", "http://localhost:8000", "Inference server base URL")
	configSrc := flag.String("config", "", "Schema file or URL (defaults to <upstream>/config)")
	csvPath := flag.String("csv", "", "Run batch inference on a CSV file and exit")
	printSpec := flag.Bool("openapi", false, "Print the OpenAPI document for the model and exit")
	outDir := flag.String("out", ".", "Directory for downloaded images and CSV results")
	rows := flag.Int("rows", csvpreview.DefaultRows, "CSV preview rows")
	timeout := flag.Duration("timeout", 0, "Request timeout (0 disables)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := resolveSource(*upstream, *configSrc)
	if err != nil {
		log.Fatalf("source: %v", err)
	}

	cfg, err := inferform.LoadConfig(ctx, src, schema.WithHTTPFallback(*timeout))
	if err != nil {
		log.Fatalf("%s", render.Message(err))
	}

	if *printSpec {
		data, err := openapi.MarshalJSON(cfg)
		if err != nil {
			log.Fatalf("openapi: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	client, err := inferform.NewClient(*upstream, inference.WithTimeout(*timeout))
	if err != nil {
		log.Fatalf("client: %v", err)
	}
	prompts, err := tui.New()
	if err != nil {
		log.Fatalf("tui: %v", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(prompts); err != nil {
		log.Fatalf("register renderer: %v", err)
	}

	a := &app{
		cfg:      cfg,
		form:     inferform.BuildForm(cfg),
		client:   client,
		prompts:  prompts,
		registry: registry,
		outDir:   *outDir,
		rows:     *rows,
	}

	if *csvPath != "" {
		if err := a.runBatch(ctx, *csvPath); err != nil {
			log.Fatalf("batch: %v", err)
		}
		return
	}

	if err := a.loop(ctx); err != nil && !errors.Is(err, tui.ErrAborted) {
		log.Fatalf("%v", err)
	}
}

func resolveSource(upstream, configSrc string) (schema.Source, error) {
	if configSrc != "" {
		return schema.ParseSource(configSrc)
	}
	return schema.SourceFromServer(upstream)
}

func (a *app) loop(ctx context.Context) error {
	if err := a.prompts.Print(ctx, a.form.Header); err != nil {
		return err
	}
	for {
		mode, err := a.prompts.ChooseMode(ctx, a.form)
		if err != nil {
			return err
		}

		switch mode {
		case tui.ModeBatch:
			path, err := a.prompts.PromptPath(ctx, "CSV file path")
			if err != nil {
				return err
			}
			if err := a.runBatch(ctx, path); err != nil {
				return err
			}
		default:
			if err := a.runSingle(ctx); err != nil {
				return err
			}
		}

		again, err := a.prompts.Again(ctx)
		if err != nil || !again {
			return err
		}
	}
}

func (a *app) runSingle(ctx context.Context) error {
	values, err := a.prompts.Prompt(ctx, a.form)
	if err != nil {
		return err
	}

	page := render.Page{Form: &a.form}
	inputs, err := collect.Collect(ctx, a.cfg.InputFeatures, values)
	if err != nil {
		page.Output = render.NewErrorOutput(err)
		return a.show(ctx, page)
	}

	started := time.Now()
	result, err := a.client.Infer(ctx, inputs)
	if err != nil {
		page.Output = render.NewErrorOutput(err)
		return a.show(ctx, page)
	}
	log.Printf("inference round trip %s", time.Since(started).Round(time.Millisecond))

	for _, item := range result.Images() {
		if err := a.saveImage(item); err != nil {
			log.Printf("save %s: %v", item.Name, err)
		}
	}
	page.Output = render.NewOutput(result)
	return a.show(ctx, page)
}

func (a *app) runBatch(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	page := render.Page{Form: &a.form}
	body, err := a.client.InferCSV(ctx, name, bytes.NewReader(data))
	if err != nil {
		page.Batch = render.NewBatchError(err)
		return a.show(ctx, page)
	}

	filename := "predictions_" + name
	target := filepath.Join(a.outDir, filename)
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	page.Batch = render.NewBatchOutput(csvpreview.Build(string(body), a.rows), filename, "")
	if err := a.show(ctx, page); err != nil {
		return err
	}
	return a.prompts.Print(ctx, "Saved "+target)
}

func (a *app) saveImage(item inference.ResultItem) error {
	encoded, ok := item.Value.(string)
	if !ok {
		return fmt.Errorf("image value is %T, want base64 string", item.Value)
	}
	data, err := imageutil.Decode(encoded)
	if err != nil {
		return err
	}
	target := filepath.Join(a.outDir, imageutil.DownloadName(item.Name, imageutil.SuffixOutput))
	return os.WriteFile(target, data, 0o644)
}

func (a *app) show(ctx context.Context, page render.Page) error {
	out, _, err := a.registry.Render(ctx, tui.Name, page, render.RenderOptions{})
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
