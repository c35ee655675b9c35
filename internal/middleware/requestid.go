package middleware

import (
	"github.com/Sathish-R02/Saa-CRM/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware reuses the caller's X-Request-ID or generates one, and
// attaches a logger carrying it to the request.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(RequestIDHeader, requestID)
		}

		c.Response().Header().Set(RequestIDHeader, requestID)
		c.Set("request_id", requestID)

		logger.SetEcho(c, logger.GetLogger().With(zap.String("request_id", requestID)))

		return next(c)
	}
}
