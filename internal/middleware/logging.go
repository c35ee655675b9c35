package middleware

import (
	"time"

	"github.com/Sathish-R02/Saa-CRM/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AccessLogMiddleware logs one line per request after it is served
func AccessLogMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// let echo write the error response so the logged status is final
			c.Error(err)
		}

		logger.FromEcho(c).Info("HTTP Request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.RealIP()),
		)

		return nil
	}
}
