package model

import "github.com/shopspring/decimal"

// Dashboard is the aggregate shown on the shop's front page
type Dashboard struct {
	Customers int64
	Products  int64
	Suppliers int64
	Sales     int64
	Revenue   decimal.Decimal
}
