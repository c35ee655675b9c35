package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Sathish-R02/Saa-CRM/internal/checkout"
	"github.com/Sathish-R02/Saa-CRM/internal/idempotency"
	"github.com/Sathish-R02/Saa-CRM/pkg/currency"
	"github.com/Sathish-R02/Saa-CRM/pkg/logger"
	"github.com/Sathish-R02/Saa-CRM/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// idempotencyTimeout bounds the Release/Complete calls made after checkout
const idempotencyTimeout = 5 * time.Second

// BillingItem is one line of a billing request
type BillingItem struct {
	ProductID uint `json:"product_id"`
	Qty       int  `json:"qty"`
}

// BillingRequest is the body of POST /billing. Pointers distinguish a
// missing field from its zero value.
type BillingRequest struct {
	CustomerID *uint          `json:"customer_id"`
	Items      *[]BillingItem `json:"items"`
}

// CreateBill handles POST /billing
func (h *Handler) CreateBill(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	var req BillingRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid billing request", zap.Error(err))
		prometheus.RecordCheckout(codeValidation, 0)
		return validationError(c, "Invalid request data")
	}
	if req.CustomerID == nil {
		prometheus.RecordCheckout(codeValidation, 0)
		return validationError(c, "customer_id is required")
	}
	if req.Items == nil {
		prometheus.RecordCheckout(codeValidation, 0)
		return validationError(c, "items is required")
	}

	key, fingerprint := "", ""
	if h.idem != nil {
		key = idempotency.Key(c.Request())
	}
	if key != "" {
		fp, err := idempotency.Fingerprint(req)
		if err != nil {
			log.Error("Failed to fingerprint billing request", zap.Error(err))
			return internalError(c, "Failed to create bill")
		}
		fingerprint = fp

		rec, err := h.idem.Reserve(ctx, key, fingerprint)
		switch {
		case errors.Is(err, idempotency.ErrInProgress):
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Request already in progress",
				"code":  codeInProgress,
			})
		case errors.Is(err, idempotency.ErrFingerprintMismatch):
			log.Warn("Idempotency key reused with a different request", zap.String("key", key))
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "Idempotency key was used with a different request",
				"code":  codeKeyMismatch,
			})
		case err != nil:
			// serve the request without replay protection
			log.Error("Idempotency store unavailable", zap.String("key", key), zap.Error(err))
			key = ""
		case rec != nil:
			log.Info("Replaying billing response", zap.String("key", key))
			c.Response().Header().Set(idempotency.ReplayedHeader, "true")
			return c.JSONBlob(rec.Status, rec.Body)
		}
	}

	lines := make([]checkout.Line, 0, len(*req.Items))
	for _, item := range *req.Items {
		lines = append(lines, checkout.Line{ProductID: item.ProductID, Qty: item.Qty})
	}

	res, err := h.checkout.Checkout(ctx, checkout.Request{
		CustomerID: *req.CustomerID,
		Items:      lines,
	})
	if err != nil {
		if key != "" {
			h.settleKey(ctx, log, key, func(ctx context.Context) error {
				return h.idem.Release(ctx, key)
			})
		}
		return h.checkoutError(c, err)
	}

	body, err := json.Marshal(echo.Map{
		"message":      "Bill created",
		"sale_id":      res.SaleID,
		"total":        currency.Format(res.Total),
		"total_amount": res.Total,
	})
	if err != nil {
		log.Error("Failed to encode billing response", zap.Error(err))
		return internalError(c, "Failed to create bill")
	}

	if key != "" {
		rec := idempotency.Record{Fingerprint: fingerprint, Status: http.StatusOK, Body: body}
		h.settleKey(ctx, log, key, func(ctx context.Context) error {
			return h.idem.Complete(ctx, key, rec)
		})
	}

	amount, _ := res.Total.Float64()
	prometheus.RecordCheckout("success", amount)
	for productID, stock := range res.Remaining {
		prometheus.UpdateProductInventory(productID, stock)
	}

	log.Info("Bill created",
		zap.Uint("sale_id", res.SaleID),
		zap.Uint("customer_id", *req.CustomerID),
		zap.String("total", res.Total.StringFixed(2)),
		zap.Int("lines", len(lines)))

	return c.JSONBlob(http.StatusOK, body)
}

// settleKey runs a Release or Complete for key. It outlives the request
// context so a disconnected client does not leave the key pending until
// it expires.
func (h *Handler) settleKey(ctx context.Context, log *zap.Logger, key string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), idempotencyTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		log.Error("Failed to settle idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// checkoutError maps a checkout failure to its HTTP response
func (h *Handler) checkoutError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	var (
		productErr  *checkout.ProductNotFoundError
		customerErr *checkout.CustomerNotFoundError
		stockErr    *checkout.InsufficientStockError
		validErr    *checkout.ValidationError
	)

	switch {
	case errors.As(err, &productErr):
		prometheus.RecordCheckout(codeProductNotFound, 0)
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":      "Product not found",
			"code":       codeProductNotFound,
			"product_id": productErr.ProductID,
		})
	case errors.As(err, &customerErr):
		prometheus.RecordCheckout(codeCustomerNotFound, 0)
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":       "Customer not found",
			"code":        codeCustomerNotFound,
			"customer_id": customerErr.CustomerID,
		})
	case errors.As(err, &stockErr):
		prometheus.RecordCheckout(codeInsufficientStock, 0)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":      "Insufficient stock",
			"code":       codeInsufficientStock,
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
	case errors.As(err, &validErr):
		prometheus.RecordCheckout(codeValidation, 0)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": validErr.Error(),
			"code":  codeValidation,
			"field": validErr.Field,
		})
	default:
		log.Error("Checkout failed", zap.Error(err))
		prometheus.RecordCheckout("error", 0)
		return internalError(c, "Failed to create bill")
	}
}
