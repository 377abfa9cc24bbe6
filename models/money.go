package models

import "github.com/shopspring/decimal"

func init() {
	// Money is rendered as JSON numbers, e.g. "total": 210000.
	decimal.MarshalJSONWithoutQuotes = true
}
