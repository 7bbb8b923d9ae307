package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/reportgen/internal/api"
	"github.com/dgallion1/reportgen/internal/config"
	"github.com/dgallion1/reportgen/internal/phrase"
	"github.com/dgallion1/reportgen/internal/session"
	"github.com/dgallion1/reportgen/internal/stats"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load phrase tables.
	catalog := phrase.NewCatalog()
	if err := catalog.LoadFiles(cfg.PhraseFiles()); err != nil {
		log.Error("failed to load phrase tables", "error", err)
		os.Exit(1)
	}
	for _, name := range catalog.Names() {
		t, _ := catalog.Table(name)
		log.Info("phrase table loaded", "report_type", name, "entries", t.Len())
	}

	var watcher *phrase.Watcher
	if cfg.WatchPhrases {
		w, err := phrase.NewWatcher(catalog, cfg.PhraseFiles(), cfg.WatchDebounce, log)
		if err != nil {
			log.Error("failed to create phrase watcher", "error", err)
			os.Exit(1)
		}
		if err := w.Start(ctx); err != nil {
			log.Error("failed to start phrase watcher", "error", err)
			os.Exit(1)
		}
		watcher = w
	}

	// Initialize sessions.
	sessions := session.NewManager(cfg, catalog, stats.NewLatency(cfg.StatsWindow), log)
	sessions.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(sessions, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		sessions.Stop()
		if watcher != nil {
			watcher.Stop()
		}
	}()

	log.Info("starting reportgen", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
