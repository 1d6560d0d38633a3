package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/repository"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(common.HTTPStatus(err), ErrorEnvelope{
		Error: APIError{Message: msg, Code: code},
	})
}

// ownerID reads the calling owner from the X-Owner-ID header. Auth proper
// sits in front of this service; the header is its hand-off.
func ownerID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader("X-Owner-ID")
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		respondError(c, "OWNER_REQUIRED",
			common.NewAppError("OWNER_REQUIRED", "X-Owner-ID header must be a valid UUID", common.ErrInvalidInput))
		return uuid.Nil, false
	}
	return id, true
}

type HealthHandler struct {
	Pool *pgxpool.Pool
	Log  *slog.Logger
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := repository.HealthCheck(ctx, h.Pool, 0, h.Log); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
