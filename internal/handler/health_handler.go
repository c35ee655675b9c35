package handler

import (
	"net/http"
	"time"

	"github.com/Sathish-R02/Saa-CRM/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Index returns a liveness message
func (h *Handler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "POS backend is running"})
}

// HealthCheck reports service status; ?check=db also pings the store
func (h *Handler) HealthCheck(c echo.Context) error {
	response := echo.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	if c.QueryParam("check") == "db" {
		if err := h.store.Ping(c.Request().Context()); err != nil {
			logger.FromEcho(c).Error("Database ping error", zap.Error(err))
			response["status"] = "error"
			response["db_status"] = "error"
			response["db_error"] = "Failed to ping database"
			return c.JSON(http.StatusInternalServerError, response)
		}
		response["db_status"] = "ok"
	}

	return c.JSON(http.StatusOK, response)
}

// EndpointNotFound answers any unmatched /api path
func (h *Handler) EndpointNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "endpoint not found",
		"path":  c.Param("*"),
	})
}
