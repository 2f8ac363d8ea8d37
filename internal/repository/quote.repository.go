package repository

import (
	"context"
	"fmt"
	"time"

	finance_quote "github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"allogator/internal/domain"
	"allogator/pkg/finnhub"
)

// QuoteRepository resolves a symbol to its latest price. Implementations
// may fail or rate-limit; the caller owns caching and retrying.
type QuoteRepository interface {
	GetLatestPrice(ctx context.Context, symbol string) (domain.QuotePrice, error)
}

type quoteRepositoryHandler struct {
	// nil when no finnhub keys are configured
	Finnhub *finnhub.Client
	now     func() time.Time
}

func NewQuoteRepository(finnhubClient *finnhub.Client) QuoteRepository {
	return quoteRepositoryHandler{
		Finnhub: finnhubClient,
		now:     time.Now,
	}
}

// GetLatestPrice asks finnhub first - it is the only provider that knows
// the exchange-qualified crypto symbols - and falls back to yahoo for
// plain tickers.
func (h quoteRepositoryHandler) GetLatestPrice(ctx context.Context, symbol string) (domain.QuotePrice, error) {
	if h.Finnhub != nil {
		price, err := h.Finnhub.Quote(ctx, symbol)
		if err == nil {
			return domain.QuotePrice{
				Symbol:    symbol,
				Price:     price,
				UpdatedAt: h.now().UTC(),
			}, nil
		}
	}

	q, err := finance_quote.Get(symbol)
	if err != nil {
		return domain.QuotePrice{}, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	if q == nil || q.RegularMarketPrice == 0 {
		return domain.QuotePrice{}, fmt.Errorf("no price data for symbol %s", symbol)
	}

	return domain.QuotePrice{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(q.RegularMarketPrice),
		UpdatedAt: h.now().UTC(),
	}, nil
}
