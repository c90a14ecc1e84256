package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/goliatone/go-inferform/internal/settings"
	"github.com/goliatone/go-inferform/pkg/collect"
	"github.com/goliatone/go-inferform/pkg/csvpreview"
	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/model"
	"github.com/goliatone/go-inferform/pkg/openapi"
	"github.com/goliatone/go-inferform/pkg/render"
	"github.com/goliatone/go-inferform/pkg/session"
)

const (
	viewField   = "view"
	csvField    = "file"
	csvPrefix   = "predictions_"
	csvMIMEType = "text/csv;charset=utf-8"
)

// HandleIndex loads the schema and renders a fresh page view.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	cfg := s.current()
	page := render.Page{}

	view, err := s.newView(r.Context(), cfg)
	if err != nil {
		log.Printf("load config: %v", err)
		page.ConfigError = render.Message(err)
	} else {
		page = pageFor(view)
	}
	s.writePage(w, r, http.StatusOK, page, render.FragmentNone)
}

// HandlePredict runs one inference for the posted form.
func (s *Server) HandlePredict(w http.ResponseWriter, r *http.Request) {
	cfg := s.current()

	form, err := collect.FromRequest(w, r, model.ControlPrefix, cfg.MaxUploadBytes)
	if err != nil {
		s.writePage(w, r, formErrorStatus(err), render.Page{Output: render.NewErrorOutput(err)}, render.FragmentOutput)
		return
	}

	view, err := s.resolveView(r.Context(), cfg, r.FormValue(viewField))
	if err != nil {
		log.Printf("load config: %v", err)
		page := render.Page{ConfigError: render.Message(err), Output: render.NewErrorOutput(err)}
		s.writePage(w, r, http.StatusOK, page, render.FragmentOutput)
		return
	}

	page := pageFor(view)
	page.Values = submittedValues(view, form)

	features := view.Config.InputFeatures
	inputs, err := collect.Collect(r.Context(), features, form)
	if err != nil {
		page.Output = render.NewErrorOutput(err)
		s.writePage(w, r, http.StatusOK, page, render.FragmentOutput)
		return
	}

	client, err := s.client(cfg)
	if err != nil {
		page.Output = render.NewErrorOutput(err).WithInputs(features, inputs)
		s.writePage(w, r, http.StatusOK, page, render.FragmentOutput)
		return
	}

	result, err := client.Infer(r.Context(), inputs)
	if err != nil {
		log.Printf("infer: %v", err)
		page.Output = render.NewErrorOutput(err).WithInputs(features, inputs)
	} else {
		page.Output = render.NewOutput(result).WithInputs(features, inputs)
	}
	s.writePage(w, r, http.StatusOK, page, render.FragmentOutput)
}

// HandleBatch forwards an uploaded CSV and keeps the response for download.
func (s *Server) HandleBatch(w http.ResponseWriter, r *http.Request) {
	cfg := s.current()

	if _, err := collect.FromRequest(w, r, "", cfg.MaxUploadBytes); err != nil {
		s.writePage(w, r, formErrorStatus(err), render.Page{Batch: render.NewBatchError(err)}, render.FragmentBatch)
		return
	}

	view, err := s.resolveView(r.Context(), cfg, r.FormValue(viewField))
	if err != nil {
		log.Printf("load config: %v", err)
		page := render.Page{ConfigError: render.Message(err), Batch: render.NewBatchError(err)}
		s.writePage(w, r, http.StatusOK, page, render.FragmentBatch)
		return
	}
	page := pageFor(view)

	data, name, err := uploadedCSV(r)
	if errors.Is(err, collect.ErrNoFile) {
		page.Batch = render.NewBatchMissingFile()
		s.writePage(w, r, http.StatusOK, page, render.FragmentBatch)
		return
	}
	if err != nil {
		page.Batch = render.NewBatchError(err)
		s.writePage(w, r, http.StatusOK, page, render.FragmentBatch)
		return
	}

	body, err := s.inferCSV(r.Context(), cfg, name, data)
	if err != nil {
		log.Printf("infer csv: %v", err)
		page.Batch = render.NewBatchError(err)
		s.writePage(w, r, http.StatusOK, page, render.FragmentBatch)
		return
	}

	filename := csvPrefix + name
	if err := s.sessions.PutCSV(view.ID, session.CSVSlot{Data: body, Filename: filename}); err != nil {
		log.Printf("store csv for view %s: %v", view.ID, err)
		page.Batch = render.NewBatchError(err)
		s.writePage(w, r, http.StatusOK, page, render.FragmentBatch)
		return
	}

	preview := csvpreview.Build(string(body), cfg.PreviewRows)
	page.Batch = render.NewBatchOutput(preview, filename, view.ID)
	s.writePage(w, r, http.StatusOK, page, render.FragmentBatch)
}

// HandleDownload replays the stored batch response without calling upstream.
func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.Get(r.URL.Query().Get(viewField))
	if err != nil {
		http.Error(w, NoCSVText, http.StatusNotFound)
		return
	}
	slot, ok := view.CSV()
	if !ok {
		http.Error(w, NoCSVText, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", csvMIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slot.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(slot.Data); err != nil {
		log.Printf("write csv download: %v", err)
	}
}

// HandleOpenAPI describes the upstream model as an OpenAPI document.
func (s *Server) HandleOpenAPI(w http.ResponseWriter, r *http.Request) {
	cfg := s.current()

	schemaCfg, err := s.loadConfig(r.Context(), cfg)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, render.Message(err))
		return
	}
	data, err := openapi.MarshalJSON(schemaCfg)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		log.Printf("write openapi response: %v", err)
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, page render.Page, fragment render.Fragment) {
	if !wantsFragment(r) {
		fragment = render.FragmentNone
	}

	body, contentType, err := s.renderers.Render(r.Context(), s.pageRenderer.Name(), page, render.RenderOptions{
		Fragment:     fragment,
		ThemeVariant: s.current().Theme.Variant,
	})
	if err != nil {
		log.Printf("render page: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func wantsFragment(r *http.Request) bool {
	return r.Header.Get(FragmentHeader) == "1"
}

func pageFor(view *session.View) render.Page {
	form := model.Build(view.Config)
	return render.Page{Form: &form, ViewID: view.ID}
}

func submittedValues(view *session.View, form collect.Form) map[string]string {
	values := make(map[string]string, len(view.Config.InputFeatures))
	for _, feature := range view.Config.InputFeatures {
		if feature.Type.IsImage() {
			continue
		}
		values[feature.Name] = form.Value(feature.Name)
	}
	return values
}

func (s *Server) client(cfg settings.Settings) (*inference.Client, error) {
	return inference.New(cfg.Upstream,
		inference.WithHTTPClient(s.httpClient),
		inference.WithTimeout(cfg.RequestTimeout),
	)
}

func (s *Server) inferCSV(ctx context.Context, cfg settings.Settings, name string, data []byte) ([]byte, error) {
	client, err := s.client(cfg)
	if err != nil {
		return nil, err
	}
	return client.InferCSV(ctx, name, bytes.NewReader(data))
}

func uploadedCSV(r *http.Request) ([]byte, string, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[csvField]) == 0 {
		return nil, "", collect.ErrNoFile
	}
	header := r.MultipartForm.File[csvField][0]
	if header.Filename == "" {
		return nil, "", collect.ErrNoFile
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("server: open csv upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("server: read csv upload: %w", err)
	}
	return data, filepath.Base(header.Filename), nil
}

func writeJSONError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": detail}); err != nil {
		log.Printf("write error response: %v", err)
	}
}

func formErrorStatus(err error) int {
	var tooLarge *collect.UploadTooLargeError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
