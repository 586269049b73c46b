package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edesbois77/clubfeed/app/api"
	"github.com/edesbois77/clubfeed/app/cfg"
	"github.com/edesbois77/clubfeed/app/config"
	"github.com/edesbois77/clubfeed/app/database"
	"github.com/edesbois77/clubfeed/app/feed"
	"github.com/edesbois77/clubfeed/app/ingest"
	"github.com/edesbois77/clubfeed/app/query"
	"github.com/edesbois77/clubfeed/app/relevance"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting clubfeed server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	domainCfg, err := config.NewLoader(appCfg.ConfigFile).Load()
	if err != nil {
		slog.Error("Failed to load domain configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Domain configuration loaded",
		"sources", len(domainCfg.Sources),
		"teams", len(domainCfg.Teams))

	sourceRepo := database.NewSourceRepository(db)
	articleRepo := database.NewArticleRepository(db)

	fetchTimeout := time.Duration(appCfg.FetchTimeout) * time.Second
	httpClient := &http.Client{Timeout: fetchTimeout}

	reader := feed.NewReader(httpClient, appCfg.UserAgent)
	fetcher := ingest.NewFetcher(httpClient, appCfg.UserAgent, fetchTimeout)
	scorer := relevance.NewScorer(domainCfg.Teams)
	orchestrator := ingest.NewOrchestrator(domainCfg.Sources, reader, fetcher, scorer, sourceRepo, articleRepo)
	querySvc := query.NewService(articleRepo, scorer)

	handler := api.NewHandler(sourceRepo, articleRepo, orchestrator, querySvc)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // an ingestion pass fetches every article page
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
