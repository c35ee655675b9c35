package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one completed checkout. CreatedAt is the sale date.
type Sale struct {
	ID         uint            `json:"id" gorm:"primarykey"`
	CustomerID uint            `json:"customer_id" gorm:"index"`
	Total      decimal.Decimal `json:"total" gorm:"type:numeric(14,2);not null"`
	CreatedAt  time.Time       `json:"created_at" gorm:"index"`
}

// SaleItem is one product line of a sale. Price is the unit price at the
// time of sale and is never re-read from the product.
type SaleItem struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	SaleID    uint            `json:"sale_id" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"index;not null"`
	Qty       int             `json:"qty" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
}

// Subtotal returns Price * Qty
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}
