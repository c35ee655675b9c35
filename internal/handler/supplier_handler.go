package handler

import (
	"net/http"

	"github.com/Sathish-R02/Saa-CRM/internal/model"
	"github.com/Sathish-R02/Saa-CRM/pkg/logger"
	"github.com/Sathish-R02/Saa-CRM/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateSupplier handles POST /suppliers
func (h *Handler) CreateSupplier(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid supplier request", zap.Error(err))
		return validationError(c, "Invalid request data")
	}
	req.normalize()
	if req.Name == "" {
		return validationError(c, "name is required")
	}

	supplier := model.Supplier{Name: req.Name, Phone: req.Phone, Address: req.Address}
	if err := h.store.CreateSupplier(c.Request().Context(), &supplier); err != nil {
		log.Error("Failed to create supplier", zap.Error(err))
		return internalError(c, "Failed to create supplier")
	}

	prometheus.RecordOperation("supplier", "create")
	log.Info("Supplier created", zap.Uint("supplier_id", supplier.ID), zap.String("name", supplier.Name))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Supplier added",
		"id":      supplier.ID,
	})
}

// ListSuppliers handles GET /suppliers
func (h *Handler) ListSuppliers(c echo.Context) error {
	suppliers, err := h.store.ListSuppliers(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to fetch suppliers", zap.Error(err))
		return internalError(c, "Failed to fetch suppliers")
	}
	prometheus.RecordOperation("supplier", "list")
	return c.JSON(http.StatusOK, suppliers)
}
