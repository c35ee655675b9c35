package model

import "github.com/shopspring/decimal"

func init() {
	// Prices and totals go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// All returns every persisted model, in migration order
func All() []interface{} {
	return []interface{}{
		&Customer{},
		&Supplier{},
		&Product{},
		&Sale{},
		&SaleItem{},
		&OutboxEvent{},
	}
}
