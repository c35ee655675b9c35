package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Stable error codes returned next to the human-readable message
const (
	codeValidation        = "validation_error"
	codeProductNotFound   = "product_not_found"
	codeCustomerNotFound  = "customer_not_found"
	codeSaleNotFound      = "sale_not_found"
	codeInsufficientStock = "insufficient_stock"
	codeInProgress        = "request_in_progress"
	codeKeyMismatch       = "idempotency_key_mismatch"
	codeInternal          = "internal_error"
)

func validationError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error": message,
		"code":  codeValidation,
	})
}

func internalError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": message,
		"code":  codeInternal,
	})
}
