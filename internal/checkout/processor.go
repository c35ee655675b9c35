// Package checkout turns a customer's basket into a committed sale.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Sathish-R02/Saa-CRM/internal/events"
	"github.com/Sathish-R02/Saa-CRM/internal/model"
	"github.com/Sathish-R02/Saa-CRM/internal/store"
	"github.com/Sathish-R02/Saa-CRM/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Line is one requested (product, quantity) pair
type Line struct {
	ProductID uint
	Qty       int
}

// Request is a checkout for one customer. Items may be empty, which
// records a zero-total sale.
type Request struct {
	CustomerID uint
	Items      []Line
}

// Result describes a committed sale
type Result struct {
	SaleID    uint
	Total     decimal.Decimal
	CreatedAt time.Time
	Items     []model.SaleItem

	// Remaining is the stock left on each touched product after the sale
	Remaining map[uint]int
}

// Option configures a Processor
type Option func(*Processor)

// WithClock overrides the time source used for sale timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithCustomerCheck controls whether the customer must exist. Enabled by default.
func WithCustomerCheck(enabled bool) Option {
	return func(p *Processor) { p.requireCustomer = enabled }
}

// WithSaleEvents writes a sale.created event for topic into the outbox in
// the same transaction as each sale
func WithSaleEvents(topic string) Option {
	return func(p *Processor) { p.eventTopic = topic }
}

// Processor runs checkouts against a Store. It keeps no per-call state and
// is safe for concurrent use.
type Processor struct {
	store           store.Store
	now             func() time.Time
	requireCustomer bool
	eventTopic      string
}

// NewProcessor creates a Processor on s
func NewProcessor(s store.Store, opts ...Option) *Processor {
	p := &Processor{
		store:           s,
		now:             time.Now,
		requireCustomer: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// pricedProduct is a product as read in the validation phase
type pricedProduct struct {
	price     decimal.Decimal
	stock     int
	requested int
}

// Checkout validates every line, then decrements stock and records the sale
// and its items, all in one transaction. On any error nothing is written.
func (p *Processor) Checkout(ctx context.Context, req Request) (*Result, error) {
	log := logger.FromContext(ctx).With(
		zap.Uint("customer_id", req.CustomerID),
		zap.Int("line_count", len(req.Items)))

	if err := validate(req); err != nil {
		log.Warn("Rejected checkout request", zap.Error(err))
		return nil, err
	}

	var result *Result
	err := p.store.WithinTx(ctx, func(tx store.Tx) error {
		if p.requireCustomer {
			exists, err := tx.CustomerExists(ctx, req.CustomerID)
			if err != nil {
				return fmt.Errorf("failed to look up customer: %w", err)
			}
			if !exists {
				return &CustomerNotFoundError{CustomerID: req.CustomerID}
			}
		}

		products, ids, total, err := p.price(ctx, tx, req.Items)
		if err != nil {
			return err
		}

		remaining := make(map[uint]int, len(ids))
		for _, id := range ids {
			prod := products[id]
			if err := tx.DecrementStock(ctx, id, prod.requested); err != nil {
				if errors.Is(err, store.ErrInsufficientStock) {
					return &InsufficientStockError{ProductID: id, Requested: prod.requested, Available: prod.stock}
				}
				return fmt.Errorf("failed to update stock for product %d: %w", id, err)
			}
			remaining[id] = prod.stock - prod.requested
		}

		sale := &model.Sale{
			CustomerID: req.CustomerID,
			Total:      total,
			CreatedAt:  p.now(),
		}
		if err := tx.InsertSale(ctx, sale); err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		items := make([]model.SaleItem, 0, len(req.Items))
		for _, line := range req.Items {
			items = append(items, model.SaleItem{
				SaleID:    sale.ID,
				ProductID: line.ProductID,
				Qty:       line.Qty,
				Price:     products[line.ProductID].price,
			})
		}
		if err := tx.InsertSaleItems(ctx, items); err != nil {
			return fmt.Errorf("failed to create sale items: %w", err)
		}

		if p.eventTopic != "" {
			event, err := events.NewSaleCreated(p.eventTopic, events.SaleCreated{
				SaleID:     sale.ID,
				CustomerID: sale.CustomerID,
				Total:      sale.Total,
				Date:       sale.CreatedAt,
				Items:      items,
			}, sale.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to build sale event: %w", err)
			}
			if err := tx.InsertOutbox(ctx, event); err != nil {
				return fmt.Errorf("failed to queue sale event: %w", err)
			}
		}

		result = &Result{
			SaleID:    sale.ID,
			Total:     total,
			CreatedAt: sale.CreatedAt,
			Items:     items,
			Remaining: remaining,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInsufficientStock) {
			log.Warn("Checkout rejected", zap.Error(err))
		} else {
			log.Error("Checkout failed", zap.Error(err))
		}
		return nil, err
	}

	log.Info("Checkout committed",
		zap.Uint("sale_id", result.SaleID),
		zap.String("total", result.Total.StringFixed(2)))
	return result, nil
}

// price locks every distinct product once, in ascending id order, then
// walks the lines in request order checking the cumulative quantity for each
// product against its stock. It returns the products, their ids in ascending
// order and the sale total. Nothing is written.
func (p *Processor) price(ctx context.Context, tx store.Tx, lines []Line) (map[uint]*pricedProduct, []uint, decimal.Decimal, error) {
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows, err := tx.LockProducts(ctx, ids)
	if err != nil {
		return nil, nil, decimal.Zero, fmt.Errorf("failed to read products: %w", err)
	}
	products := make(map[uint]*pricedProduct, len(rows))
	for _, row := range rows {
		products[row.ID] = &pricedProduct{price: row.Price, stock: row.Stock}
	}

	total := decimal.Zero
	for _, line := range lines {
		prod, ok := products[line.ProductID]
		if !ok {
			return nil, nil, decimal.Zero, &ProductNotFoundError{ProductID: line.ProductID}
		}

		prod.requested += line.Qty
		if prod.requested > prod.stock {
			return nil, nil, decimal.Zero, &InsufficientStockError{
				ProductID: line.ProductID,
				Requested: prod.requested,
				Available: prod.stock,
			}
		}

		total = total.Add(prod.price.Mul(decimal.NewFromInt(int64(line.Qty))))
	}

	return products, ids, total, nil
}

func validate(req Request) error {
	if req.CustomerID == 0 {
		return &ValidationError{Field: "customer_id", Message: "is required"}
	}
	for i, line := range req.Items {
		if line.ProductID == 0 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].product_id", i), Message: "is required"}
		}
		if line.Qty <= 0 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].qty", i), Message: "must be a positive integer"}
		}
	}
	return nil
}
