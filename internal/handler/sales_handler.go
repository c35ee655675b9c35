package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Sathish-R02/Saa-CRM/internal/store"
	"github.com/Sathish-R02/Saa-CRM/pkg/currency"
	"github.com/Sathish-R02/Saa-CRM/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SaleSummary is one row of GET /sales
type SaleSummary struct {
	ID         uint   `json:"id"`
	CustomerID uint   `json:"customer_id"`
	Total      string `json:"total"`
	Date       string `json:"date"`
}

// ListSales handles GET /sales, newest first
func (h *Handler) ListSales(c echo.Context) error {
	log := logger.FromEcho(c)

	sales, err := h.store.ListSales(c.Request().Context())
	if err != nil {
		log.Error("Failed to fetch sales", zap.Error(err))
		return internalError(c, "Failed to fetch sales")
	}

	out := make([]SaleSummary, 0, len(sales))
	for _, s := range sales {
		out = append(out, SaleSummary{
			ID:         s.ID,
			CustomerID: s.CustomerID,
			Total:      currency.Format(s.Total),
			Date:       s.CreatedAt.Format(dateLayout),
		})
	}

	log.Debug("Sales fetched", zap.Int("count", len(out)))
	return c.JSON(http.StatusOK, out)
}

// GetSale handles GET /sales/:id and includes the sale's line items
func (h *Handler) GetSale(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return validationError(c, "Invalid sale ID")
	}

	sale, err := h.store.GetSale(ctx, uint(id))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":   "Sale not found",
			"code":    codeSaleNotFound,
			"sale_id": id,
		})
	}
	if err != nil {
		log.Error("Failed to fetch sale", zap.Uint64("sale_id", id), zap.Error(err))
		return internalError(c, "Failed to fetch sale")
	}

	items, err := h.store.ListSaleItems(ctx, sale.ID)
	if err != nil {
		log.Error("Failed to fetch sale items", zap.Uint("sale_id", sale.ID), zap.Error(err))
		return internalError(c, "Failed to fetch sale")
	}

	lines := make([]echo.Map, 0, len(items))
	for _, it := range items {
		lines = append(lines, echo.Map{
			"product_id": it.ProductID,
			"qty":        it.Qty,
			"price":      it.Price,
			"subtotal":   it.Subtotal(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":           sale.ID,
		"customer_id":  sale.CustomerID,
		"total":        currency.Format(sale.Total),
		"total_amount": sale.Total,
		"date":         sale.CreatedAt.Format(dateLayout),
		"items":        lines,
	})
}
