package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-inferform/pkg/collect"
	"github.com/goliatone/go-inferform/pkg/model"
	"github.com/goliatone/go-inferform/pkg/render"
	"github.com/goliatone/go-inferform/pkg/schema"
)

// Name is the registry key of this renderer.
const Name = "tui"

// Mode is the workflow picked at the prompt.
type Mode int

const (
	ModeSingle Mode = iota
	ModeBatch
)

var modeOptions = []string{"Single inference", "Batch (CSV upload)"}

// Renderer prompts for feature values in a terminal and renders results as
// plain text.
type Renderer struct {
	driver   PromptDriver
	theme    Theme
	readFile func(string) ([]byte, error)
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer backed by survey prompts.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:   newSurveyDriver(),
		readFile: defaultReadFile,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// ChooseMode asks for single or batch inference. Forms without a batch
// section always run in single mode.
func (r *Renderer) ChooseMode(ctx context.Context, form model.FormModel) (Mode, error) {
	if form.Batch == nil {
		return ModeSingle, nil
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: "What would you like to run?",
		Options: modeOptions,
	})
	if err != nil {
		return ModeSingle, err
	}
	if idx == int(ModeBatch) {
		return ModeBatch, nil
	}
	return ModeSingle, nil
}

// Prompt asks for every field in form order. Image fields take a file path
// and scalar fields default to the declared value.
func (r *Renderer) Prompt(ctx context.Context, form model.FormModel) (collect.Values, error) {
	if ctx == nil {
		return collect.Values{}, errors.New("tui: context is required")
	}
	values := collect.Values{
		Fields: make(map[string]string, len(form.Fields)),
		Files:  make(map[string][]byte),
	}

	for _, field := range form.Fields {
		if err := ctx.Err(); err != nil {
			return collect.Values{}, err
		}
		if field.IsImage() {
			data, err := r.promptImage(ctx, field)
			if err != nil {
				return collect.Values{}, err
			}
			values.Files[field.Name] = data
			continue
		}

		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   field.Label,
			Default:   field.Default,
			Validator: validatorFor(field),
		})
		if err != nil {
			return collect.Values{}, err
		}
		values.Fields[field.Name] = answer
	}
	return values, nil
}

// PromptPath asks for a file path, used for CSV uploads.
func (r *Renderer) PromptPath(ctx context.Context, message string) (string, error) {
	path, err := r.driver.Input(ctx, InputConfig{
		Message:   message,
		Validator: requireValue,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

// Again asks whether to run another inference.
func (r *Renderer) Again(ctx context.Context) (bool, error) {
	return r.driver.Confirm(ctx, ConfirmConfig{Message: "Run another inference?", Default: true})
}

// Print writes msg through the prompt driver.
func (r *Renderer) Print(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, msg)
}

func (r *Renderer) promptImage(ctx context.Context, field model.Field) ([]byte, error) {
	path, err := r.driver.Input(ctx, InputConfig{
		Message:   field.Label + " file path",
		Validator: requireValue,
	})
	if err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	data, err := r.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("tui: read image %q: %w", path, err)
	}
	return data, nil
}

func validatorFor(field model.Field) func(string) error {
	if !field.Type.IsNumeric() {
		return nil
	}
	parse := collect.ParseFloat
	if field.Type == schema.FeatureTypeInt {
		parse = collect.ParseInt
	}
	return func(answer string) error {
		if _, ok := parse(answer); !ok {
			return ErrNotANumber
		}
		return nil
	}
}

func requireValue(answer string) error {
	if strings.TrimSpace(answer) == "" {
		return errors.New("tui: a value is required")
	}
	return nil
}

// Render formats the output and batch areas of page as plain text.
func (r *Renderer) Render(_ context.Context, page render.Page, _ render.RenderOptions) ([]byte, error) {
	var buf bytes.Buffer

	if page.ConfigError != "" {
		r.line(&buf, render.StatusError, "", page.ConfigError)
		return buf.Bytes(), nil
	}

	if out := page.Output; out != nil {
		r.line(&buf, out.Notice.Status, out.Notice.Prefix, out.Notice.Text)
		if out.Notice.Status == render.StatusSuccess {
			buf.WriteString(render.OutputHeading + "\n")
			for _, item := range out.Results {
				if item.IsImage {
					fmt.Fprintf(&buf, "%s (%s): %s\n", item.Name, item.Type, item.DownloadName)
					continue
				}
				buf.WriteString(item.Line() + "\n")
			}
		}
	}

	if batch := page.Batch; batch != nil {
		r.line(&buf, batch.Notice.Status, batch.Notice.Prefix, batch.Notice.Text)
		if batch.HasPreview() {
			buf.WriteString(batch.Summary + "\n")
			buf.WriteString(strings.Join(batch.Header, " | ") + "\n")
			for _, row := range batch.Rows {
				buf.WriteString(strings.Join(row, " | ") + "\n")
			}
		}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) line(buf *bytes.Buffer, status render.Status, prefix, text string) {
	switch status {
	case render.StatusError:
		buf.WriteString(r.theme.ErrorPrefix)
	default:
		buf.WriteString(r.theme.InfoPrefix)
	}
	buf.WriteString(prefix + text + "\n")
}
