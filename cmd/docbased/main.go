package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docbase-br/docbase/internal/async"
	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/export"
	"github.com/docbase-br/docbase/internal/extraction"
	openaix "github.com/docbase-br/docbase/internal/extraction/openai"
	"github.com/docbase-br/docbase/internal/pipeline"
	"github.com/docbase-br/docbase/internal/repository"
	"github.com/docbase-br/docbase/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, 3*time.Second, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	documents := repository.NewDocumentRepository(pool, logger)
	keywords := repository.NewKeywordRepository(pool, logger)
	presets := repository.NewPresetRepository(pool, logger)

	var extractor extraction.Extractor
	if cfg.AI.Enabled {
		extractor = openaix.NewClient(openaix.Config{
			APIKey:          cfg.AI.APIKey,
			BaseURL:         cfg.AI.BaseURL,
			Model:           cfg.AI.Model,
			SchemaVersion:   cfg.AI.SchemaVersion,
			MaxTextChars:    cfg.AI.MaxTextChars,
			MaxOutputTokens: cfg.AI.MaxOutputTokens,
			Timeout:         cfg.AI.Timeout,
			ReasoningEffort: cfg.AI.ReasoningEffort,
		}, logger)
	} else {
		logger.Info("ai extraction disabled, running heuristics only")
	}

	proc := pipeline.NewPipeline(documents, keywords, pipeline.PlainTextExtractor{}, extractor, logger)
	queue := async.NewWorkerQueue(proc, cfg.Worker.Workers, cfg.Worker.QueueSize, logger)

	retention := async.NewRetentionWorker(documents, cfg.Retention.Days, cfg.Retention.Interval, logger)
	go retention.Run(ctx)

	router := server.NewRouter(server.RouterConfig{
		Pool:      pool,
		Documents: documents,
		Keywords:  keywords,
		Presets:   presets,
		Queue:     queue,
		Export:    export.NewService(documents, logger),
		Upload:    cfg.Upload,
		Log:       logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("bye")
}
