package render

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-inferform/pkg/csvpreview"
	"github.com/goliatone/go-inferform/pkg/imageutil"
	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/model"
	"github.com/goliatone/go-inferform/pkg/schema"
)

// Fixed status texts.
const (
	OutputHeading     = "Output:"
	BatchSuccessText  = "CSV processed successfully! Preview and download available below."
	BatchNoFileText   = "Please select a CSV file first."
	BatchSelectedText = `CSV file selected. Click "Process CSV" to run batch inference.`
	BatchDownloadPath = "/batch/download"
)

// exactExponent is low enough that NewFromFloatWithExponent keeps every
// binary digit of a float64.
const exactExponent = -1074

// FormatDuration renders seconds with exactly three decimals, rounding the
// exact binary value half away from zero (0.1235 renders as 0.123).
func FormatDuration(seconds float64) string {
	return decimal.NewFromFloatWithExponent(seconds, exactExponent).StringFixed(3)
}

// SuccessText is the notice shown after a successful inference.
func SuccessText(seconds float64) string {
	return "Inference completed successfully in " + FormatDuration(seconds) + " seconds"
}

// NewOutput builds the success view of an inference result.
func NewOutput(result inference.Result) *Output {
	out := &Output{
		Notice:   Notice{Status: StatusSuccess, Text: SuccessText(result.Duration)},
		Duration: FormatDuration(result.Duration),
	}
	if len(result.Results) > 0 {
		out.Results = make([]ResultView, 0, len(result.Results))
	}
	for index, item := range result.Results {
		view := ResultView{
			Index: index,
			Name:  item.Name,
			Type:  string(item.Type),
		}
		if item.Type.IsImage() {
			encoded := schema.FormatValue(item.Value)
			view.IsImage = true
			view.ImageID = model.ResultImageID(index)
			view.Src = imageutil.DataURLFromBase64(encoded)
			view.DownloadName = imageutil.DownloadName(item.Name, imageutil.SuffixOutput)
		} else {
			view.Value = displayValue(item.Value)
		}
		out.Results = append(out.Results, view)
	}
	return out
}

// displayValue renders a scalar result. Numbers print in their shortest form
// with exponents outside [1e-6, 1e21), so 0.50 shows as 0.5 and 1e-07 as 1e-7.
func displayValue(value any) string {
	number, ok := value.(json.Number)
	if !ok {
		return schema.FormatValue(value)
	}
	v, err := number.Float64()
	if err != nil {
		return number.String()
	}
	if v == 0 {
		return "0"
	}
	if abs := math.Abs(v); abs >= 1e21 || abs < 1e-6 {
		mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
		return mantissa + "e" + exponent[:1] + strings.TrimLeft(exponent[1:], "0")
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewErrorOutput builds the failure view of an inference attempt.
func NewErrorOutput(err error) *Output {
	return &Output{Notice: ErrorNotice(err)}
}

// WithInputs attaches echoed image previews for the given features.
func (o *Output) WithInputs(features []schema.Feature, inputs []inference.ModelInput) *Output {
	if o == nil {
		return nil
	}
	for i, feature := range features {
		if !feature.Type.IsImage() || i >= len(inputs) {
			continue
		}
		encoded, ok := inputs[i].Value.(string)
		if !ok || encoded == "" {
			continue
		}
		o.Inputs = append(o.Inputs, InputImage{
			Name:         feature.Name,
			PreviewID:    model.PreviewID(feature.Name),
			DownloadID:   model.DownloadID(feature.Name),
			Src:          imageutil.DataURLFromBase64(encoded),
			DownloadName: imageutil.DownloadName(feature.Name, imageutil.SuffixInput),
		})
	}
	return o
}

// NewBatchOutput builds the success view of a batch run.
func NewBatchOutput(preview csvpreview.Preview, filename, viewID string) *BatchOutput {
	return &BatchOutput{
		Notice:      Notice{Status: StatusSuccess, Text: BatchSuccessText},
		Summary:     preview.Summary(),
		Header:      preview.Header,
		Rows:        preview.Rows,
		Filename:    filename,
		DownloadURL: DownloadURL(viewID),
	}
}

// NewBatchError builds the failure view of a batch run.
func NewBatchError(err error) *BatchOutput {
	return &BatchOutput{Notice: ErrorNotice(err)}
}

// NewBatchMissingFile is shown when the batch form is posted without a file.
func NewBatchMissingFile() *BatchOutput {
	return &BatchOutput{Notice: Notice{Status: StatusError, Text: BatchNoFileText}}
}

// DownloadURL is the replay link for a view's stored CSV.
func DownloadURL(viewID string) string {
	return BatchDownloadPath + "?" + url.Values{"view": []string{viewID}}.Encode()
}
