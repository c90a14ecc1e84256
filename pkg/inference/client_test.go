package inference

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-inferform/pkg/schema"
)

func TestClientInferPostsOrderedPayload(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, InferPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"duration": 0.12345, "results": [{"name": "score", "type": "float", "value": 0.50}]}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL + "/")
	require.NoError(t, err)

	result, err := client.Infer(t.Context(), []ModelInput{
		{Name: "b", Value: json.Number("2"), Type: schema.FeatureTypeInt},
		{Name: "a", Value: "x", Type: schema.FeatureTypeString},
	})
	require.NoError(t, err)

	require.Len(t, got.ModelInput, 2)
	assert.Equal(t, "b", got.ModelInput[0].Name)
	assert.Equal(t, "a", got.ModelInput[1].Name)

	assert.InDelta(t, 0.12345, result.Duration, 1e-9)
	require.Len(t, result.Results, 1)
	assert.Equal(t, json.Number("0.50"), result.Results[0].Value)
}

func TestClientInferServerErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail": "Value for type 'int' must be an int"}`)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Infer(t.Context(), nil)
	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusBadRequest, serverErr.Status)
	assert.Equal(t, "Value for type 'int' must be an int", serverErr.Detail)
}

func TestClientInferNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := New(url)
	require.NoError(t, err)

	_, err = client.Infer(t.Context(), nil)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "got %T", err)
}

func TestClientInferUndecodableBodyIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>")
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Infer(t.Context(), nil)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "decode response", netErr.Op)
}

func TestClientInferCSVUploadsFileField(t *testing.T) {
	const response = "a,b,prediction\n1,2,0.5\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, InferCSVPath, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "data.csv", header.Filename)
		body, _ := io.ReadAll(file)
		assert.Equal(t, "a,b\n1,2\n", string(body))
		_, _ = io.WriteString(w, response)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	out, err := client.InferCSV(t.Context(), "/tmp/uploads/data.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, response, string(out))
}

func TestNewRejectsEmptyBaseURL(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}

func TestConfigLoadErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := ConfigLoadError(cause)
	assert.ErrorIs(t, err, ErrConfigLoad)
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, ConfigLoadError(nil))
}
