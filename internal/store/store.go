// Package store is the record store behind the POS service: products,
// customers, suppliers, sales and sale items.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/Sathish-R02/Saa-CRM/internal/model"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned by Tx.DecrementStock when the product
	// holds less stock than requested
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Tx is the set of operations available inside one transaction
type Tx interface {
	CustomerExists(ctx context.Context, id uint) (bool, error)

	// LockProducts reads the products with the given ids in ascending id
	// order and, where the backend supports it, locks their rows until the
	// transaction ends. Missing ids are absent from the result.
	LockProducts(ctx context.Context, ids []uint) ([]model.Product, error)

	// DecrementStock lowers stock by qty only if at least qty is on hand
	DecrementStock(ctx context.Context, id uint, qty int) error

	InsertSale(ctx context.Context, sale *model.Sale) error
	InsertSaleItems(ctx context.Context, items []model.SaleItem) error
	InsertOutbox(ctx context.Context, event *model.OutboxEvent) error
}

// Store is the record store used by the handlers and the checkout processor
type Store interface {
	// WithinTx runs fn in a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error

	CreateCustomer(ctx context.Context, c *model.Customer) error
	ListCustomers(ctx context.Context) ([]model.Customer, error)

	CreateProduct(ctx context.Context, p *model.Product) error
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)

	CreateSupplier(ctx context.Context, s *model.Supplier) error
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)

	// ListSales returns sales newest first
	ListSales(ctx context.Context) ([]model.Sale, error)
	GetSale(ctx context.Context, id uint) (*model.Sale, error)
	ListSaleItems(ctx context.Context, saleID uint) ([]model.SaleItem, error)

	Dashboard(ctx context.Context) (*model.Dashboard, error)

	// PendingOutbox returns up to limit unsent events, oldest first
	PendingOutbox(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkOutboxSent(ctx context.Context, id uint, at time.Time) error
}
