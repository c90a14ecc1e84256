package collect

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ErrNoFile is returned by Form.File when no upload exists for a field.
var ErrNoFile = errors.New("collect: no file uploaded")

const defaultMaxMemory = 32 << 20

// Form exposes submitted values by field name.
type Form interface {
	Value(name string) string
	File(name string) ([]byte, error)
}

// Values is an in-memory Form used by the terminal client and tests.
type Values struct {
	Fields map[string]string
	Files  map[string][]byte
}

func (v Values) Value(name string) string {
	return v.Fields[name]
}

func (v Values) File(name string) ([]byte, error) {
	data, ok := v.Files[name]
	if !ok || len(data) == 0 {
		return nil, ErrNoFile
	}
	return data, nil
}

// RequestForm adapts a parsed multipart request. Field names carry the
// "input_" control prefix used by the rendered form.
type RequestForm struct {
	form   *multipart.Form
	values map[string][]string
	prefix string
}

// FromRequest parses r as multipart (or urlencoded) form data. The body is
// capped at maxBytes; a larger request fails with *UploadTooLargeError.
func FromRequest(w http.ResponseWriter, r *http.Request, prefix string, maxBytes int64) (*RequestForm, error) {
	memory := maxBytes
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	} else {
		memory = defaultMaxMemory
	}
	if err := r.ParseMultipartForm(memory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &UploadTooLargeError{Limit: tooLarge.Limit}
		}
		return nil, fmt.Errorf("collect: parse form: %w", err)
	}
	return &RequestForm{form: r.MultipartForm, values: r.Form, prefix: prefix}, nil
}

func (f *RequestForm) Value(name string) string {
	if f == nil {
		return ""
	}
	values := f.values[f.prefix+name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (f *RequestForm) File(name string) ([]byte, error) {
	if f == nil || f.form == nil {
		return nil, ErrNoFile
	}
	headers := f.form.File[f.prefix+name]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, ErrNoFile
	}
	file, err := headers[0].Open()
	if err != nil {
		return nil, fmt.Errorf("collect: open upload %q: %w", name, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("collect: read upload %q: %w", name, err)
	}
	return data, nil
}
