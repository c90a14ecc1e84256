package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-inferform/internal/server"
	"github.com/goliatone/go-inferform/internal/settings"
)

func main() {
	var (
		addrFlag      = flag.String("addr", ":8080", "HTTP listen address")
		upstreamFlag  = flag.String("upstream", "", "Inference server base URL (overrides settings)")
		settingsFlag  = flag.String("settings", "", "Settings file (YAML, JSON or TOML)")
		shutdownGrace = flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	)
	flag.Parse()

	store, err := settings.Load(*settingsFlag, settings.WithUpstream(*upstreamFlag))
	if err != nil {
		log.Fatalf("settings: %v", err)
	}

	srv, err := server.New(store)
	if err != nil {
		log.Fatalf("server: %v", err)
	}
	store.Subscribe(srv.OnSettingsChange)
	store.Watch()

	httpServer := &http.Server{
		Addr:              *addrFlag,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	snap := store.Snapshot()
	log.Printf("listening on %s (upstream %s)", *addrFlag, snap.Upstream)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		log.Fatalf("listen: %v", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
