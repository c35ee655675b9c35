package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item and its on-hand stock
type Product struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	Name      string          `json:"name" gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Stock     int             `json:"stock" gorm:"not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
