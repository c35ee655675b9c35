package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleItemSubtotal(t *testing.T) {
	item := SaleItem{Qty: 3, Price: decimal.RequireFromString("19.99")}
	assert.True(t, decimal.RequireFromString("59.97").Equal(item.Subtotal()))
}

func TestProductPriceMarshalsAsNumber(t *testing.T) {
	data, err := json.Marshal(Product{ID: 1, Name: "Rice", Price: decimal.RequireFromString("100.5"), Stock: 5})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 100.5, out["price"])
}
