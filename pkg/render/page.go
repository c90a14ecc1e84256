package render

import (
	"github.com/goliatone/go-inferform/pkg/model"
)

// Status classifies a message block.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusInfo    Status = "info"
)

// Notice is a single status line.
type Notice struct {
	Status Status `json:"status"`
	Text   string `json:"text"`
	// Prefix is shown before Text, e.g. "Error: " for server details.
	Prefix string `json:"prefix,omitempty"`
}

// Page is everything a renderer needs to draw the inference page or one of
// its fragments.
type Page struct {
	// Form is nil when the schema could not be loaded.
	Form   *model.FormModel `json:"form,omitempty"`
	ViewID string           `json:"view_id"`
	// ConfigError replaces the form when loading failed.
	ConfigError string `json:"config_error,omitempty"`
	// Values holds the submitted scalar values, keyed by feature name, so a
	// full page response keeps what the user typed.
	Values map[string]string `json:"values,omitempty"`

	Output *Output      `json:"output,omitempty"`
	Batch  *BatchOutput `json:"batch,omitempty"`
}

// Ready reports whether the submit controls should be enabled.
func (p Page) Ready() bool {
	return p.Form != nil && p.ConfigError == ""
}

// Output is the single-record result area.
type Output struct {
	Notice   Notice       `json:"notice"`
	Duration string       `json:"duration,omitempty"`
	Results  []ResultView `json:"results,omitempty"`
	// Inputs echoes submitted images so their previews survive a full page
	// round trip.
	Inputs []InputImage `json:"inputs,omitempty"`
}

// ResultView is one prediction entry, in response order.
type ResultView struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsImage      bool   `json:"is_image"`
	Value        string `json:"value,omitempty"`
	ImageID      string `json:"image_id,omitempty"`
	Src          string `json:"src,omitempty"`
	DownloadName string `json:"download_name,omitempty"`
}

// Line is the text of a scalar result: "<name> (<type>): <value>".
func (r ResultView) Line() string {
	return r.Name + " (" + r.Type + "): " + r.Value
}

// InputImage is a submitted image shown back in its preview slot.
type InputImage struct {
	Name         string `json:"name"`
	PreviewID    string `json:"preview_id"`
	DownloadID   string `json:"download_id"`
	Src          string `json:"src"`
	DownloadName string `json:"download_name"`
}

// BatchOutput is the CSV result area.
type BatchOutput struct {
	Notice      Notice     `json:"notice"`
	Summary     string     `json:"summary,omitempty"`
	Header      []string   `json:"header,omitempty"`
	Rows        [][]string `json:"rows,omitempty"`
	Filename    string     `json:"filename,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
}

// HasPreview reports whether a table should be drawn.
func (b BatchOutput) HasPreview() bool {
	return len(b.Header) > 0
}
