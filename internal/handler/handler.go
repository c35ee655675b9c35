package handler

import (
	"github.com/Sathish-R02/Saa-CRM/internal/checkout"
	"github.com/Sathish-R02/Saa-CRM/internal/idempotency"
	"github.com/Sathish-R02/Saa-CRM/internal/store"

	"github.com/labstack/echo/v4"
)

// dateLayout is the sale date format shown to clients
const dateLayout = "2006-01-02 15:04:05"

// Handler serves the POS HTTP API
type Handler struct {
	store    store.Store
	checkout *checkout.Processor
	idem     idempotency.Store
}

// Option configures a Handler
type Option func(*Handler)

// WithIdempotency enables Idempotency-Key handling on POST /billing
func WithIdempotency(s idempotency.Store) Option {
	return func(h *Handler) { h.idem = s }
}

// New creates a Handler
func New(s store.Store, processor *checkout.Processor, opts ...Option) *Handler {
	h := &Handler{
		store:    s,
		checkout: processor,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts every route at the root and again under /api
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.HealthCheck)

	h.registerRoutes(e.Group(""))

	api := e.Group("/api")
	h.registerRoutes(api)
	api.Any("/*", h.EndpointNotFound)
}

func (h *Handler) registerRoutes(g *echo.Group) {
	g.GET("/", h.Index)

	g.POST("/billing", h.CreateBill)
	g.GET("/sales", h.ListSales)
	g.GET("/sales/:id", h.GetSale)

	g.POST("/customers", h.CreateCustomer)
	g.GET("/customers", h.ListCustomers)

	g.POST("/products", h.CreateProduct)
	g.GET("/products", h.ListProducts)

	g.POST("/suppliers", h.CreateSupplier)
	g.GET("/suppliers", h.ListSuppliers)

	g.GET("/dashboard", h.Dashboard)
}
