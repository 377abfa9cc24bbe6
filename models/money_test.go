package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_MarshalsAsNumber(t *testing.T) {
	data, err := json.Marshal(OrderItem{ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(100000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"product_id":"p1","quantity":2,"price":100000}`, string(data))
}
