package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vidshare/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

// dependencyStatus reports one backing service. Disabled services are
// healthy by definition.
type dependencyStatus struct {
	OK       bool   `json:"ok"`
	Disabled bool   `json:"disabled,omitempty"`
	Message  string `json:"message,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	mysqlStatus := h.checkMySQL(ctx)
	redisStatus := h.checkRedis(ctx)
	rmqStatus := h.checkRabbitMQ()

	statusCode := http.StatusOK
	if !mysqlStatus.OK || !redisStatus.OK || !rmqStatus.OK {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"app":        h.app.Config.App.Name,
		"env":        h.app.Config.App.Env,
		"uptime_sec": int(time.Since(h.app.StartedAt).Seconds()),
		"dependencies": gin.H{
			"mysql":    mysqlStatus,
			"redis":    redisStatus,
			"rabbitmq": rmqStatus,
			"storage":  h.app.Config.Storage.Provider,
		},
	})
}

const unavailable = "unavailable"

// checkMySQL goes through the connector, so a database that was down at
// startup gets connected here once it comes back.
func (h *HealthHandler) checkMySQL(ctx context.Context) dependencyStatus {
	db, err := h.app.DB.DB(ctx)
	if err == nil {
		var sqlDB *sql.DB
		if sqlDB, err = db.DB(); err == nil {
			err = sqlDB.PingContext(ctx)
		}
	}
	if err != nil {
		log.Warn().Err(err).Msg("health check: mysql unavailable")
		return dependencyStatus{Message: unavailable}
	}
	return dependencyStatus{OK: true}
}

func (h *HealthHandler) checkRedis(ctx context.Context) dependencyStatus {
	if h.app.Redis == nil {
		return dependencyStatus{OK: true, Disabled: true}
	}
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("health check: redis unavailable")
		return dependencyStatus{Message: unavailable}
	}
	return dependencyStatus{OK: true}
}

func (h *HealthHandler) checkRabbitMQ() dependencyStatus {
	if h.app.MQConn == nil {
		return dependencyStatus{OK: true, Disabled: true}
	}
	if h.app.MQConn.IsClosed() {
		log.Warn().Msg("health check: rabbitmq connection closed")
		return dependencyStatus{Message: unavailable}
	}
	return dependencyStatus{OK: true}
}
