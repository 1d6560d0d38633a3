// Package server exposes the HTTP API: uploads, processing, semantic search,
// export and keyword management.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docbase-br/docbase/internal/async"
	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/export"
	"github.com/docbase-br/docbase/internal/repository"
)

type RouterConfig struct {
	Pool      *pgxpool.Pool
	Documents repository.DocumentRepository
	Keywords  repository.KeywordRepository
	Presets   repository.PresetRepository
	Queue     async.Queue
	Export    *export.Service
	Upload    common.UploadConfig
	Log       *slog.Logger
}

// NewRouter wires every handler group onto a gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	router := gin.New()
	router.Use(gin.Recovery())

	health := &HealthHandler{Pool: cfg.Pool, Log: cfg.Log}
	docs := &DocumentHandler{
		Documents: cfg.Documents,
		Queue:     cfg.Queue,
		UploadCfg: cfg.Upload,
		Log:       cfg.Log,
	}
	searchH := &SearchHandler{
		Documents: cfg.Documents,
		Presets:   cfg.Presets,
		Export:    cfg.Export,
		Log:       cfg.Log,
	}
	keywords := &KeywordHandler{Keywords: cfg.Keywords, Log: cfg.Log}

	router.GET("/healthcheck", health.Check)

	api := router.Group("/api")
	{
		api.POST("/documents", docs.Upload)
		api.GET("/documents", docs.List)
		api.GET("/documents/:id", docs.Get)
		api.GET("/documents/:id/payload", docs.Payload)
		api.POST("/documents/:id/process", docs.Process)

		api.POST("/search", searchH.Search)
		api.POST("/export", searchH.ExportXLSX)

		api.POST("/keywords", keywords.Create)
		api.GET("/keywords", keywords.List)
		api.DELETE("/keywords/:id", keywords.Delete)

		api.POST("/presets", searchH.SavePreset)
		api.GET("/presets", searchH.ListPresets)
		api.DELETE("/presets/:id", searchH.DeletePreset)
	}

	return router
}
