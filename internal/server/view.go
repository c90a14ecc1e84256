package server

import (
	"context"
	"errors"

	schemaloader "github.com/goliatone/go-inferform/internal/schema/loader"
	"github.com/goliatone/go-inferform/internal/settings"
	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/schema"
	"github.com/goliatone/go-inferform/pkg/session"
)

// loadConfig fetches the schema from the upstream. Every failure is reported
// as a configuration load failure.
func (s *Server) loadConfig(ctx context.Context, cfg settings.Settings) (schema.Config, error) {
	src, err := schema.SourceFromServer(cfg.Upstream)
	if err != nil {
		return schema.Config{}, inference.ConfigLoadError(err)
	}

	loader := schemaloader.New(schema.LoaderOptions{
		HTTPClient:     s.httpClient,
		RequestTimeout: cfg.RequestTimeout,
	})
	doc, err := schema.LoadConfig(ctx, loader, src)
	if err != nil {
		return schema.Config{}, inference.ConfigLoadError(err)
	}
	return doc, nil
}

func (s *Server) newView(ctx context.Context, cfg settings.Settings) (*session.View, error) {
	schemaCfg, err := s.loadConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s.sessions.Create(schemaCfg), nil
}

// resolveView returns the posted view. Unknown or expired views reload the
// schema into a new view, the same as reloading the page.
func (s *Server) resolveView(ctx context.Context, cfg settings.Settings, id string) (*session.View, error) {
	if id != "" {
		view, err := s.sessions.Get(id)
		if err == nil {
			return view, nil
		}
		if !errors.Is(err, session.ErrViewNotFound) {
			return nil, err
		}
	}
	return s.newView(ctx, cfg)
}
