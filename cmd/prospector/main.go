package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/reachforge/prospector/api"
	"github.com/reachforge/prospector/cache"
	"github.com/reachforge/prospector/config"
	"github.com/reachforge/prospector/discover"
	"github.com/reachforge/prospector/engine"
	"github.com/reachforge/prospector/search"
	"github.com/reachforge/prospector/sink"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("prospector starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"maxConcurrent", cfg.Discovery.MaxConcurrent,
	)

	// ── 3. Initialise search provider ───────────────────────────────
	if cfg.Search.APIKey == "" {
		slog.Error("PROSPECTOR_SEARCH_API_KEY is required")
		os.Exit(1)
	}
	provider := search.NewHTTPClient(cfg.Search.Endpoint, cfg.Search.APIKey, cfg.Search.Timeout)

	// ── 4. Initialise fetch engines and dispatcher ──────────────────
	httpEngine := engine.NewHTTPEngine(cfg.Fetch.Timeout)

	var fallback engine.Engine
	if cfg.Render.Endpoint != "" {
		renderClient := engine.NewHTTPRenderClient(cfg.Render.Endpoint, cfg.Render.APIKey, cfg.Render.Timeout)
		fallback = engine.NewRenderEngine(renderClient)
		slog.Info("render fallback enabled", "endpoint", cfg.Render.Endpoint)
	} else {
		slog.Warn("no render endpoint configured; JavaScript-shell pages will be skipped")
	}

	memory := engine.NewDomainMemory(24 * time.Hour)
	defer memory.Stop()
	dispatcher := engine.NewDispatcher(httpEngine, fallback, memory, cfg.Fetch.MinTextLen)

	// ── 5. Initialise cache and sink ────────────────────────────────
	pageCache := cache.New(cfg.Cache.MaxEntries)

	var prospectSink sink.Sink
	if cfg.Sink.Endpoint != "" {
		prospectSink = sink.NewHTTPSink(cfg.Sink.Endpoint, cfg.Sink.Secret, cfg.Sink.Timeout)
		slog.Info("prospect persistence enabled", "endpoint", cfg.Sink.Endpoint)
	}

	// ── 6. Initialise discoverer ────────────────────────────────────
	discoverer := discover.New(provider, dispatcher, pageCache, prospectSink, discover.Config{
		MaxConcurrent:         cfg.Discovery.MaxConcurrent,
		PerHostRate:           rate.Limit(cfg.Discovery.PerHostRPS),
		PerHostBurst:          cfg.Discovery.PerHostBurst,
		FetchTimeout:          cfg.Fetch.Timeout,
		SearchMultiplier:      cfg.Discovery.SearchMultiplier,
		MaxProfilesPerListing: cfg.Discovery.MaxProfilesPerListing,
		SimhashThreshold:      cfg.Discovery.SimhashThreshold,
		CacheMaxAge:           cfg.Discovery.CacheMaxAge,
	})

	// ── 7. Setup router and HTTP server ─────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(discoverer, cfg, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 8. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("prospector stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
