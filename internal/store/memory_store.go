package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Sathish-R02/Saa-CRM/internal/model"

	"github.com/shopspring/decimal"
)

// memState is one snapshot of every table
type memState struct {
	customers map[uint]model.Customer
	products  map[uint]model.Product
	suppliers map[uint]model.Supplier
	sales     map[uint]model.Sale
	saleItems map[uint]model.SaleItem
	outbox    map[uint]model.OutboxEvent
	seq       map[string]uint
}

func newMemState() *memState {
	return &memState{
		customers: map[uint]model.Customer{},
		products:  map[uint]model.Product{},
		suppliers: map[uint]model.Supplier{},
		sales:     map[uint]model.Sale{},
		saleItems: map[uint]model.SaleItem{},
		outbox:    map[uint]model.OutboxEvent{},
		seq:       map[string]uint{},
	}
}

func (st *memState) clone() *memState {
	out := newMemState()
	for k, v := range st.customers {
		out.customers[k] = v
	}
	for k, v := range st.products {
		out.products[k] = v
	}
	for k, v := range st.suppliers {
		out.suppliers[k] = v
	}
	for k, v := range st.sales {
		out.sales[k] = v
	}
	for k, v := range st.saleItems {
		out.saleItems[k] = v
	}
	for k, v := range st.outbox {
		out.outbox[k] = v
	}
	for k, v := range st.seq {
		out.seq[k] = v
	}
	return out
}

func (st *memState) next(table string) uint {
	st.seq[table]++
	return st.seq[table]
}

// MemoryStore is an in-process Store. Transactions are serialised and work
// on a private copy that replaces the live state only on commit.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memState
	now   func() time.Time
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemState(), now: time.Now}
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(&memTx{st: work, now: s.now}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) CreateCustomer(_ context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.state.next("customers")
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.state.customers[c.ID] = *c
	return nil
}

func (s *MemoryStore) ListCustomers(_ context.Context) ([]model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Customer, 0, len(s.state.customers))
	for _, c := range s.state.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.state.next("products")
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.state.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Product, 0, len(s.state.products))
	for _, p := range s.state.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id uint) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.state.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) CreateSupplier(_ context.Context, sup *model.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sup.ID = s.state.next("suppliers")
	if sup.CreatedAt.IsZero() {
		sup.CreatedAt = s.now()
	}
	s.state.suppliers[sup.ID] = *sup
	return nil
}

func (s *MemoryStore) ListSuppliers(_ context.Context) ([]model.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Supplier, 0, len(s.state.suppliers))
	for _, sup := range s.state.suppliers {
		out = append(out, sup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListSales(_ context.Context) ([]model.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Sale, 0, len(s.state.sales))
	for _, sale := range s.state.sales {
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetSale(_ context.Context, id uint) (*model.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, ok := s.state.sales[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sale, nil
}

func (s *MemoryStore) ListSaleItems(_ context.Context, saleID uint) ([]model.SaleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.SaleItem{}
	for _, item := range s.state.saleItems {
		if item.SaleID == saleID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Dashboard(_ context.Context) (*model.Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := &model.Dashboard{
		Customers: int64(len(s.state.customers)),
		Products:  int64(len(s.state.products)),
		Suppliers: int64(len(s.state.suppliers)),
		Sales:     int64(len(s.state.sales)),
		Revenue:   decimal.Zero,
	}
	for _, sale := range s.state.sales {
		d.Revenue = d.Revenue.Add(sale.Total)
	}
	return d, nil
}

func (s *MemoryStore) PendingOutbox(_ context.Context, limit int) ([]model.OutboxEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.OutboxEvent, 0)
	for _, e := range s.state.outbox {
		if e.SentAt == nil {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) MarkOutboxSent(_ context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.state.outbox[id]
	if !ok {
		return ErrNotFound
	}
	e.SentAt = &at
	s.state.outbox[id] = e
	return nil
}

// memTx operates on the transaction's private copy of the state
type memTx struct {
	st  *memState
	now func() time.Time
}

func (t *memTx) CustomerExists(_ context.Context, id uint) (bool, error) {
	_, ok := t.st.customers[id]
	return ok, nil
}

func (t *memTx) LockProducts(_ context.Context, ids []uint) ([]model.Product, error) {
	out := make([]model.Product, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if p, ok := t.st.products[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) DecrementStock(_ context.Context, id uint, qty int) error {
	p, ok := t.st.products[id]
	if !ok {
		return ErrNotFound
	}
	if p.Stock < qty {
		return ErrInsufficientStock
	}
	p.Stock -= qty
	p.UpdatedAt = t.now()
	t.st.products[id] = p
	return nil
}

func (t *memTx) InsertSale(_ context.Context, sale *model.Sale) error {
	sale.ID = t.st.next("sales")
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = t.now()
	}
	t.st.sales[sale.ID] = *sale
	return nil
}

func (t *memTx) InsertSaleItems(_ context.Context, items []model.SaleItem) error {
	for i := range items {
		items[i].ID = t.st.next("sale_items")
		t.st.saleItems[items[i].ID] = items[i]
	}
	return nil
}

func (t *memTx) InsertOutbox(_ context.Context, event *model.OutboxEvent) error {
	event.ID = t.st.next("outbox")
	if event.CreatedAt.IsZero() {
		event.CreatedAt = t.now()
	}
	t.st.outbox[event.ID] = *event
	return nil
}
