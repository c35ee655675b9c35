package handler

import (
	"net/http"
	"strings"

	"github.com/Sathish-R02/Saa-CRM/internal/model"
	"github.com/Sathish-R02/Saa-CRM/pkg/logger"
	"github.com/Sathish-R02/Saa-CRM/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest is the body of POST /products
type ProductRequest struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock"`
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid product request", zap.Error(err))
		return validationError(c, "Invalid request data")
	}

	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return validationError(c, "name is required")
	case req.Price == nil:
		return validationError(c, "price is required")
	case req.Price.IsNegative():
		return validationError(c, "price must not be negative")
	case req.Stock == nil:
		return validationError(c, "stock is required")
	case *req.Stock < 0:
		return validationError(c, "stock must not be negative")
	}

	product := model.Product{
		Name:  name,
		Price: req.Price.Round(2),
		Stock: *req.Stock,
	}
	if err := h.store.CreateProduct(c.Request().Context(), &product); err != nil {
		log.Error("Failed to create product", zap.Error(err))
		return internalError(c, "Failed to create product")
	}

	prometheus.RecordOperation("product", "create")
	prometheus.UpdateProductInventory(product.ID, product.Stock)
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("price", product.Price.StringFixed(2)),
		zap.Int("stock", product.Stock))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Product added",
		"id":      product.ID,
	})
}

// ListProducts handles GET /products
func (h *Handler) ListProducts(c echo.Context) error {
	products, err := h.store.ListProducts(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to fetch products", zap.Error(err))
		return internalError(c, "Failed to fetch products")
	}
	prometheus.RecordOperation("product", "list")
	return c.JSON(http.StatusOK, products)
}
