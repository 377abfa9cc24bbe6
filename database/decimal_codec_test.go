package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type priced struct {
	Price decimal.Decimal `bson:"price"`
}

func TestDecimalCodec_StoresDecimal128(t *testing.T) {
	reg := NewRegistry()

	data, err := bson.MarshalWithRegistry(reg, priced{Price: decimal.RequireFromString("100000.50")})
	require.NoError(t, err)

	raw := bson.Raw(data).Lookup("price")
	assert.Equal(t, bsontype.Decimal128, raw.Type)

	var out priced
	require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &out))
	assert.True(t, out.Price.Equal(decimal.RequireFromString("100000.5")), "got %s", out.Price)
}

func TestDecimalCodec_DecodesLegacyNumbers(t *testing.T) {
	reg := NewRegistry()

	cases := map[string]bson.M{
		"double": {"price": 12.5},
		"int32":  {"price": int32(7)},
		"int64":  {"price": int64(210000)},
		"string": {"price": "99.99"},
	}
	want := map[string]string{
		"double": "12.5",
		"int32":  "7",
		"int64":  "210000",
		"string": "99.99",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := bson.Marshal(doc)
			require.NoError(t, err)

			var out priced
			require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &out))
			assert.True(t, out.Price.Equal(decimal.RequireFromString(want[name])), "got %s", out.Price)
		})
	}
}
