package collect

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/schema"
)

func TestCollectPreservesDeclaredOrder(t *testing.T) {
	features := []schema.Feature{
		{Name: "zeta", Type: schema.FeatureTypeString},
		{Name: "alpha", Type: schema.FeatureTypeInt},
		{Name: "mid", Type: schema.FeatureTypeFloat},
		{Name: "beta", Type: schema.FeatureTypeString},
	}
	form := Values{Fields: map[string]string{
		"zeta":  "z",
		"alpha": "42abc",
		"mid":   " 3.5e2x",
		"beta":  "",
	}}

	got, err := Collect(t.Context(), features, form)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []inference.ModelInput{
		{Name: "zeta", Value: "z", Type: schema.FeatureTypeString},
		{Name: "alpha", Value: int64(42), Type: schema.FeatureTypeInt},
		{Name: "mid", Value: 350.0, Type: schema.FeatureTypeFloat},
		{Name: "beta", Value: "", Type: schema.FeatureTypeString},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectUnparsableNumberIsNil(t *testing.T) {
	features := []schema.Feature{
		{Name: "count", Type: schema.FeatureTypeInt},
		{Name: "ratio", Type: schema.FeatureTypeFloat},
	}
	got, err := Collect(t.Context(), features, Values{Fields: map[string]string{"count": "abc", "ratio": ""}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, input := range got {
		if input.Value != nil {
			t.Fatalf("expected nil value for %s, got %#v", input.Name, input.Value)
		}
	}
}

func TestCollectMissingImage(t *testing.T) {
	features := []schema.Feature{
		{Name: "caption", Type: schema.FeatureTypeString},
		{Name: "photo", Type: schema.FeatureTypeImage},
	}
	_, err := Collect(t.Context(), features, Values{Fields: map[string]string{"caption": "hi"}})

	var missing *MissingImageInputError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingImageInputError, got %v", err)
	}
	if missing.Feature != "photo" {
		t.Fatalf("feature = %q", missing.Feature)
	}
	if err.Error() != "Please select an image for photo" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestCollectImageEncodesUploadAndDataURL(t *testing.T) {
	features := []schema.Feature{
		{Name: "upload", Type: schema.FeatureTypeImage},
		{Name: "pasted", Type: schema.FeatureTypeImage},
	}
	form := Values{
		Files:  map[string][]byte{"upload": []byte("abc")},
		Fields: map[string]string{"pasted": "data:image/png;base64,QUJD"},
	}
	got, err := Collect(t.Context(), features, form)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got[0].Value != "YWJj" {
		t.Fatalf("upload value = %#v", got[0].Value)
	}
	if got[1].Value != "QUJD" {
		t.Fatalf("pasted value = %#v", got[1].Value)
	}
}

func TestParseIntPrefix(t *testing.T) {
	cases := map[string]any{
		"12":      int64(12),
		"  -7px":  int64(-7),
		"+3":      int64(3),
		"3.9":     int64(3),
		"":        nil,
		"-":       nil,
		"x12":     nil,
		"1e3":     int64(1),
		"0000009": int64(9),
	}
	for raw, want := range cases {
		got, _ := ParseInt(raw)
		if got != want {
			t.Errorf("ParseInt(%q) = %#v, want %#v", raw, got, want)
		}
	}
}

func TestParseFloatPrefix(t *testing.T) {
	cases := map[string]any{
		"1.5":    1.5,
		".5":     0.5,
		"5.":     5.0,
		"-2e-1z": -0.2,
		"3e":     3.0,
		".":      nil,
		"abc":    nil,
		"1e999":  nil,
	}
	for raw, want := range cases {
		got, _ := ParseFloat(raw)
		if got != want {
			t.Errorf("ParseFloat(%q) = %#v, want %#v", raw, got, want)
		}
	}
}

func TestFromRequestReadsPrefixedFields(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("input_name", "ada")
	part, err := writer.CreateFormFile("input_photo", "p.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("img"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/predict", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	form, err := FromRequest(httptest.NewRecorder(), req, "input_", 1<<20)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if got := form.Value("name"); got != "ada" {
		t.Fatalf("Value = %q", got)
	}
	data, err := form.File("photo")
	if err != nil || string(data) != "img" {
		t.Fatalf("File = %q, %v", data, err)
	}
	if _, err := form.File("missing"); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
}

func TestFromRequestEnforcesUploadLimit(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "big.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write(bytes.Repeat([]byte("1,2\n"), 1024))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/batch", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	_, err = FromRequest(httptest.NewRecorder(), req, "", 512)
	var tooLarge *UploadTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected UploadTooLargeError, got %v", err)
	}
	if tooLarge.Limit != 512 {
		t.Fatalf("limit = %d", tooLarge.Limit)
	}
}
