package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/coursedesk/internal/app/models/dto"
	"github.com/yigit/coursedesk/internal/db"
)

const healthCheckTimeout = 2 * time.Second

// HealthController reports liveness and store reachability
type HealthController struct {
	database db.Database
	logger   zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(database db.Database, logger zerolog.Logger) *HealthController {
	return &HealthController{
		database: database,
		logger:   logger,
	}
}

// Ping is the liveness probe
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /ping [get]
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "pong"))
}

// Health pings the active entity store
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.APIResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	data := gin.H{"driver": c.database.Driver()}
	if err := c.database.Ping(pingCtx); err != nil {
		c.logger.Error().Err(err).Str("driver", c.database.Driver()).Msg("Health check failed")
		data["status"] = "unhealthy"
		ctx.JSON(http.StatusServiceUnavailable,
			dto.NewErrorResponse(dto.ErrorCodeInternalServer, "database unavailable").WithData(data))
		return
	}

	data["status"] = "healthy"
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data, ""))
}
