package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/schema"
)

// Upstream is a fake inference server. Handlers default to sensible
// successes and can be replaced before the first request.
type Upstream struct {
	*httptest.Server

	mu       sync.Mutex
	calls    map[string]int
	lastBody map[string][]byte

	ConfigHandler   http.HandlerFunc
	InferHandler    http.HandlerFunc
	InferCSVHandler http.HandlerFunc
}

// NewUpstream starts a fake server serving cfg at /config. It is closed with
// the test.
func NewUpstream(t testing.TB, cfg schema.Config) *Upstream {
	t.Helper()

	configBody := ConfigJSON(t, cfg)
	up := &Upstream{
		calls:    make(map[string]int),
		lastBody: make(map[string][]byte),
		ConfigHandler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(configBody)
		},
		InferHandler: func(w http.ResponseWriter, _ *http.Request) {
			WriteJSON(w, http.StatusOK, inference.Result{Duration: 0.1})
		},
		InferCSVHandler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			_, _ = io.WriteString(w, "a,prediction\n1,0.5\n")
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc(schema.ConfigPath, up.record(func() http.HandlerFunc { return up.ConfigHandler }))
	mux.HandleFunc(inference.InferPath, up.record(func() http.HandlerFunc { return up.InferHandler }))
	mux.HandleFunc(inference.InferCSVPath, up.record(func() http.HandlerFunc { return up.InferCSVHandler }))

	up.Server = httptest.NewServer(mux)
	t.Cleanup(up.Close)
	return up
}

func (u *Upstream) record(handler func() http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		u.mu.Lock()
		u.calls[r.URL.Path]++
		u.lastBody[r.URL.Path] = body
		u.mu.Unlock()

		handler()(w, r)
	}
}

// Calls reports how many requests reached path.
func (u *Upstream) Calls(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[path]
}

// LastBody returns the raw body of the last request to path.
func (u *Upstream) LastBody(path string) []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastBody[path]
}

// WriteJSON writes value as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// DetailHandler responds with status and {"detail": detail}.
func DetailHandler(status int, detail string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, map[string]string{"detail": detail})
	}
}
