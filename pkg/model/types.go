package model

import (
	"strconv"

	"github.com/goliatone/go-inferform/pkg/schema"
)

// Layout selects the page arrangement.
type Layout string

const (
	// LayoutSplit shows the batch (CSV) section next to the single-record form.
	LayoutSplit Layout = "split"
	// LayoutSingle shows only the single-record form. Used whenever any input
	// or prediction feature is an image.
	LayoutSingle Layout = "single"
)

// WidgetKind is the HTML control used for a feature.
type WidgetKind string

const (
	WidgetText   WidgetKind = "text"
	WidgetNumber WidgetKind = "number"
	WidgetFile   WidgetKind = "file"
)

// DOM id prefixes derived from feature names.
const (
	ControlPrefix     = "input_"
	PreviewPrefix     = "preview_"
	DownloadPrefix    = "download_input_"
	ResultImagePrefix = "result_image_"
)

// Field describes one input control.
type Field struct {
	Name         string             `json:"name"`
	Type         schema.FeatureType `json:"type"`
	Label        string             `json:"label"`
	Widget       WidgetKind         `json:"widget"`
	Step         string             `json:"step,omitempty"`
	Accept       string             `json:"accept,omitempty"`
	Default      string             `json:"default"`
	Required     bool               `json:"required"`
	ControlID    string             `json:"control_id"`
	PreviewID    string             `json:"preview_id,omitempty"`
	DownloadID   string             `json:"download_id,omitempty"`
	DownloadName string             `json:"download_name,omitempty"`
}

// IsImage reports whether the field takes an image upload.
func (f Field) IsImage() bool {
	return f.Widget == WidgetFile
}

// Batch lists the CSV columns shown in the batch section.
type Batch struct {
	RequiredColumns   []string `json:"required_columns"`
	PredictionColumns []string `json:"prediction_columns"`
}

// FormModel is the renderer-facing description of the inference page.
type FormModel struct {
	Title        string  `json:"title"`
	Header       string  `json:"header"`
	ModelName    string  `json:"model_name"`
	ModelVersion string  `json:"model_version"`
	Layout       Layout  `json:"layout"`
	Fields       []Field `json:"fields"`
	Batch        *Batch  `json:"batch,omitempty"`
}

// ControlID returns the DOM id of a feature's input control.
func ControlID(name string) string {
	return ControlPrefix + name
}

// PreviewID returns the DOM id of an image feature's preview element.
func PreviewID(name string) string {
	return PreviewPrefix + name
}

// DownloadID returns the DOM id of an image feature's download button.
func DownloadID(name string) string {
	return DownloadPrefix + name
}

// ResultImageID returns the DOM id of the index-th image result.
func ResultImageID(index int) string {
	return ResultImagePrefix + strconv.Itoa(index)
}
