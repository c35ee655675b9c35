package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sathish-R02/Saa-CRM/internal/model"
	"github.com/Sathish-R02/Saa-CRM/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on a GORM connection pool
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM handle
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// WithinTx runs fn inside db.Transaction
func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	defer prometheus.TrackDBOperation("transaction")(time.Now())

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

// Ping checks the underlying connection
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) CreateCustomer(ctx context.Context, c *model.Customer) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormStore) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	customers := []model.Customer{}
	err := s.db.WithContext(ctx).Order("id").Find(&customers).Error
	return customers, err
}

func (s *GormStore) CreateProduct(ctx context.Context, p *model.Product) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	products := []model.Product{}
	err := s.db.WithContext(ctx).Order("id").Find(&products).Error
	return products, err
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var product model.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *GormStore) CreateSupplier(ctx context.Context, sup *model.Supplier) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(sup).Error
}

func (s *GormStore) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	suppliers := []model.Supplier{}
	err := s.db.WithContext(ctx).Order("id").Find(&suppliers).Error
	return suppliers, err
}

func (s *GormStore) ListSales(ctx context.Context) ([]model.Sale, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	sales := []model.Sale{}
	err := s.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&sales).Error
	return sales, err
}

func (s *GormStore) GetSale(ctx context.Context, id uint) (*model.Sale, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var sale model.Sale
	if err := s.db.WithContext(ctx).First(&sale, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}

func (s *GormStore) ListSaleItems(ctx context.Context, saleID uint) ([]model.SaleItem, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	items := []model.SaleItem{}
	err := s.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("id").Find(&items).Error
	return items, err
}

func (s *GormStore) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	db := s.db.WithContext(ctx)
	var d model.Dashboard

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&model.Customer{}, &d.Customers},
		{&model.Product{}, &d.Products},
		{&model.Supplier{}, &d.Suppliers},
		{&model.Sale{}, &d.Sales},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var revenue decimal.NullDecimal
	if err := db.Model(&model.Sale{}).Select("SUM(total)").Row().Scan(&revenue); err != nil {
		return nil, err
	}
	d.Revenue = decimal.Zero
	if revenue.Valid {
		// SQLite sums numeric columns as REAL
		d.Revenue = revenue.Decimal.Round(2)
	}

	return &d, nil
}

func (s *GormStore) PendingOutbox(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.WithContext(ctx).Where("sent_at IS NULL").Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	events := []model.OutboxEvent{}
	err := query.Find(&events).Error
	return events, err
}

func (s *GormStore) MarkOutboxSent(ctx context.Context, id uint, at time.Time) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := s.db.WithContext(ctx).
		Model(&model.OutboxEvent{}).
		Where("id = ?", id).
		Update("sent_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// gormTx implements Tx on a GORM transaction handle
type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) CustomerExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// LockProducts takes the row locks in id order so concurrent checkouts
// over the same products cannot deadlock
func (t *gormTx) LockProducts(ctx context.Context, ids []uint) ([]model.Product, error) {
	products := []model.Product{}
	if len(ids) == 0 {
		return products, nil
	}

	query := t.db.WithContext(ctx)
	if t.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.Where("id IN ?", ids).Order("id").Find(&products).Error
	return products, err
}

func (t *gormTx) DecrementStock(ctx context.Context, id uint, qty int) error {
	result := t.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (t *gormTx) InsertSale(ctx context.Context, sale *model.Sale) error {
	return t.db.WithContext(ctx).Create(sale).Error
}

func (t *gormTx) InsertSaleItems(ctx context.Context, items []model.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return t.db.WithContext(ctx).Create(&items).Error
}

func (t *gormTx) InsertOutbox(ctx context.Context, event *model.OutboxEvent) error {
	return t.db.WithContext(ctx).Create(event).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
