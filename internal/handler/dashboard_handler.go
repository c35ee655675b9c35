package handler

import (
	"net/http"

	"github.com/Sathish-R02/Saa-CRM/pkg/currency"
	"github.com/Sathish-R02/Saa-CRM/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Dashboard handles GET /dashboard
func (h *Handler) Dashboard(c echo.Context) error {
	d, err := h.store.Dashboard(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to build dashboard", zap.Error(err))
		return internalError(c, "Failed to fetch dashboard")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"customers":      d.Customers,
		"products":       d.Products,
		"suppliers":      d.Suppliers,
		"sales":          d.Sales,
		"revenue":        currency.Format(d.Revenue),
		"revenue_amount": d.Revenue,
	})
}
