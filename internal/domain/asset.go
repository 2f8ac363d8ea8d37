package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceSource string

const (
	PriceSourceApi    PriceSource = "api"
	PriceSourceManual PriceSource = "manual"
)

// Asset is one holding in a portfolio. TargetPercentage is a fraction in
// [0, 1] - results report percentages on the 0-100 scale.
type Asset struct {
	Symbol           string  `json:"symbol"`
	CurrentValue     float64 `json:"currentValue"`
	TargetPercentage float64 `json:"targetPercentage"`

	// only meaningful when selling is enabled; a locked asset may be
	// bought but never sold
	NoSell bool `json:"noSell,omitempty"`

	// display metadata, not consumed by the allocator
	CurrentPrice *float64     `json:"currentPrice,omitempty"`
	Shares       *float64     `json:"shares,omitempty"`
	PriceSource  *PriceSource `json:"priceSource,omitempty"`
	LastUpdated  *time.Time   `json:"lastUpdated,omitempty"`
}

// QuotePrice is a resolved price for a symbol, as returned by the quote
// providers.
type QuotePrice struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func CurrentTotal(assets []Asset) float64 {
	total := 0.0
	for _, a := range assets {
		total += a.CurrentValue
	}
	return total
}
