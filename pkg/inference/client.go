package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the HTTP client used for every call.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout caps each call. Zero keeps requests unbounded, so a hung
// upstream holds the caller until its context ends.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Client calls the inference server endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// New constructs a Client for the inference server at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("inference: base URL is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("inference: invalid base URL %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL: trimmed,
		http:    http.DefaultClient,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Infer posts the ordered feature list and decodes the prediction.
func (c *Client) Infer(ctx context.Context, inputs []ModelInput) (Result, error) {
	if inputs == nil {
		inputs = []ModelInput{}
	}
	payload, err := json.Marshal(Request{ModelInput: inputs})
	if err != nil {
		return Result{}, fmt.Errorf("inference: encode request: %w", err)
	}

	body, err := c.post(ctx, InferPath, "application/json", bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var result Result
	if err := dec.Decode(&result); err != nil {
		return Result{}, &NetworkError{Op: "decode response", Err: err}
	}
	return result, nil
}

// InferCSV uploads a CSV file as the multipart field "file" and returns the
// response body verbatim.
func (c *Client) InferCSV(ctx context.Context, filename string, data io.Reader) ([]byte, error) {
	if data == nil {
		return nil, errors.New("inference: csv payload is required")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", "text/csv")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("inference: create multipart part: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("inference: copy csv payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("inference: close multipart writer: %w", err)
	}

	return c.post(ctx, InferCSVPath, writer.FormDataContentType(), &buf)
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("inference: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "POST " + path, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{
			Status: resp.StatusCode,
			Detail: extractDetail(data, resp.Status),
		}
	}
	return data, nil
}
