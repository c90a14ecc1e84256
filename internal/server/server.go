// Package server exposes the inference form over HTTP.
package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-inferform/internal/settings"
	"github.com/goliatone/go-inferform/pkg/render"
	"github.com/goliatone/go-inferform/pkg/renderers/html"
	"github.com/goliatone/go-inferform/pkg/session"
)

// Routes.
const (
	PathIndex    = "/"
	PathPredict  = "/predict"
	PathBatch    = "/batch"
	PathDownload = render.BatchDownloadPath
	PathOpenAPI  = "/openapi.json"
	PathAssets   = AssetPrefix + "/"
	PathHealth   = "/healthz"
)

// AssetPrefix is where the stylesheet and script are mounted.
const AssetPrefix = "/assets"

// FragmentHeader marks requests that want only the output area back.
const FragmentHeader = "X-Inferform-Fragment"

// NoCSVText is the body of a download request with nothing stored.
const NoCSVText = "No CSV data available for download"

// SettingsSource supplies the current settings snapshot.
type SettingsSource interface {
	Snapshot() settings.Snapshot
}

// Option configures a Server.
type Option func(*Server)

// WithHTTPClient sets the client used for upstream calls.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Server) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithSessions replaces the view store.
func WithSessions(store *session.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithRenderer registers an additional renderer and makes it the page
// renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.pageRenderer = renderer
		}
	}
}

// Server holds the handlers and their shared state.
type Server struct {
	settings     SettingsSource
	httpClient   *http.Client
	sessions     *session.Store
	renderers    *render.Registry
	pageRenderer render.Renderer
}

// New builds a Server. The view store follows the TTL and cap from the
// current settings.
func New(source SettingsSource, options ...Option) (*Server, error) {
	if source == nil {
		return nil, errors.New("server: settings source is required")
	}

	s := &Server{
		settings:   source,
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	snap := source.Snapshot()
	if s.sessions == nil {
		s.sessions = session.NewStore()
	}
	s.sessions.Configure(session.WithTTL(snap.ViewTTL), session.WithMaxViews(snap.MaxViews))

	if s.pageRenderer == nil {
		renderer, err := html.New(html.WithAssetPrefix(AssetPrefix))
		if err != nil {
			return nil, err
		}
		s.pageRenderer = renderer
	}
	s.renderers = render.NewRegistry()
	if err := s.renderers.Register(s.pageRenderer); err != nil {
		return nil, err
	}
	return s, nil
}

// OnSettingsChange applies reloaded limits to the view store.
func (s *Server) OnSettingsChange(snap settings.Snapshot) {
	s.sessions.Configure(session.WithTTL(snap.ViewTTL), session.WithMaxViews(snap.MaxViews))
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(PathIndex, s.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc(PathPredict, s.HandlePredict).Methods(http.MethodPost)
	r.HandleFunc(PathBatch, s.HandleBatch).Methods(http.MethodPost)
	r.HandleFunc(PathDownload, s.HandleDownload).Methods(http.MethodGet)
	r.HandleFunc(PathOpenAPI, s.HandleOpenAPI).Methods(http.MethodGet)
	r.HandleFunc(PathHealth, s.HandleHealth).Methods(http.MethodGet)
	r.PathPrefix(PathAssets).Handler(http.StripPrefix(PathAssets, http.FileServer(http.FS(html.AssetsFS())))).Methods(http.MethodGet)
	r.Use(logRequests)
	return r
}

func (s *Server) current() settings.Settings {
	return s.settings.Snapshot().Settings
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(started).Round(time.Millisecond))
	})
}
