package middleware

import (
	"time"

	"github.com/Sathish-R02/Saa-CRM/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request count, duration and status category.
// The path label is the route template, not the raw URL. Register it outside
// AccessLogMiddleware so handler errors are already written.
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		prometheus.RecordHTTPRequest(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))

		return err
	}
}
