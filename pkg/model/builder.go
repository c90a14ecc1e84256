package model

import (
	"fmt"

	"github.com/goliatone/go-inferform/pkg/imageutil"
	"github.com/goliatone/go-inferform/pkg/schema"
)

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(schema.Feature) string
}

// WithLabeler overrides the default "<name> (<type>)" label.
func WithLabeler(labeler func(schema.Feature) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// Builder converts a Config into a FormModel.
type Builder struct {
	opts builderOptions
}

// NewBuilder returns a Builder with the supplied options.
func NewBuilder(options ...BuilderOption) *Builder {
	opts := builderOptions{labeler: DefaultLabel}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	if opts.labeler == nil {
		opts.labeler = DefaultLabel
	}
	return &Builder{opts: opts}
}

// Build uses the default builder.
func Build(cfg schema.Config) FormModel {
	return NewBuilder().Build(cfg)
}

// Build derives the form model. Fields follow input_features order.
func (b *Builder) Build(cfg schema.Config) FormModel {
	form := FormModel{
		Title:        cfg.Title(),
		Header:       cfg.Header(),
		ModelName:    cfg.ModelName,
		ModelVersion: cfg.ModelVersion,
		Layout:       LayoutFor(cfg),
	}

	if len(cfg.InputFeatures) > 0 {
		form.Fields = make([]Field, 0, len(cfg.InputFeatures))
	}
	for _, feature := range cfg.InputFeatures {
		form.Fields = append(form.Fields, b.field(feature))
	}

	if form.Layout == LayoutSplit {
		form.Batch = &Batch{
			RequiredColumns:   cfg.InputNames(),
			PredictionColumns: cfg.PredictionNames(),
		}
	}
	return form
}

func (b *Builder) field(feature schema.Feature) Field {
	field := Field{
		Name:      feature.Name,
		Type:      feature.Type,
		Label:     b.opts.labeler(feature),
		Widget:    WidgetFor(feature.Type),
		Required:  true,
		ControlID: ControlID(feature.Name),
	}

	switch feature.Type {
	case schema.FeatureTypeImage:
		field.Accept = "image/*"
		field.PreviewID = PreviewID(feature.Name)
		field.DownloadID = DownloadID(feature.Name)
		field.DownloadName = imageutil.DownloadName(feature.Name, imageutil.SuffixInput)
	case schema.FeatureTypeFloat:
		field.Step = "any"
		field.Default = feature.DefaultString()
	default:
		field.Default = feature.DefaultString()
	}
	return field
}

// LayoutFor picks LayoutSingle when any input or prediction feature is an
// image and LayoutSplit otherwise.
func LayoutFor(cfg schema.Config) Layout {
	if cfg.HasImages() {
		return LayoutSingle
	}
	return LayoutSplit
}

// WidgetFor maps a feature type to its control.
func WidgetFor(t schema.FeatureType) WidgetKind {
	switch t {
	case schema.FeatureTypeImage:
		return WidgetFile
	case schema.FeatureTypeInt, schema.FeatureTypeFloat:
		return WidgetNumber
	default:
		return WidgetText
	}
}

// DefaultLabel renders "<name> (<type>)".
func DefaultLabel(feature schema.Feature) string {
	return fmt.Sprintf("%s (%s)", feature.Name, feature.Type)
}
