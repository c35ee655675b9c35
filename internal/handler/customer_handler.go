package handler

import (
	"net/http"
	"strings"

	"github.com/Sathish-R02/Saa-CRM/internal/model"
	"github.com/Sathish-R02/Saa-CRM/pkg/logger"
	"github.com/Sathish-R02/Saa-CRM/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ContactRequest is the body of POST /customers and POST /suppliers
type ContactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r *ContactRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
}

// CreateCustomer handles POST /customers
func (h *Handler) CreateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid customer request", zap.Error(err))
		return validationError(c, "Invalid request data")
	}
	req.normalize()
	if req.Name == "" {
		return validationError(c, "name is required")
	}

	customer := model.Customer{Name: req.Name, Phone: req.Phone, Address: req.Address}
	if err := h.store.CreateCustomer(c.Request().Context(), &customer); err != nil {
		log.Error("Failed to create customer", zap.Error(err))
		return internalError(c, "Failed to create customer")
	}

	prometheus.RecordOperation("customer", "create")
	log.Info("Customer created", zap.Uint("customer_id", customer.ID), zap.String("name", customer.Name))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Customer added",
		"id":      customer.ID,
	})
}

// ListCustomers handles GET /customers
func (h *Handler) ListCustomers(c echo.Context) error {
	customers, err := h.store.ListCustomers(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to fetch customers", zap.Error(err))
		return internalError(c, "Failed to fetch customers")
	}
	prometheus.RecordOperation("customer", "list")
	return c.JSON(http.StatusOK, customers)
}
