package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"allogator/internal/domain"
	"allogator/internal/repository"
)

const (
	// quotes are considered fresh for this long
	defaultPriceTtl = 5 * time.Minute

	// courtesy spacing between provider calls in a batch fetch
	batchStagger = 100 * time.Millisecond
)

// PriceService resolves symbols to prices through a TTL cache. Concurrent
// requests for the same symbol share one in-flight provider call.
type PriceService interface {
	GetPrice(ctx context.Context, symbol string) (domain.QuotePrice, error)
	GetPrices(ctx context.Context, symbols []string) (map[string]domain.QuotePrice, map[string]error)
	ClearCache()
}

type priceServiceHandler struct {
	QuoteRepository repository.QuoteRepository

	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]domain.QuotePrice
}

func NewPriceService(quoteRepository repository.QuoteRepository) PriceService {
	return &priceServiceHandler{
		QuoteRepository: quoteRepository,
		ttl:             defaultPriceTtl,
		now:             time.Now,
		cache:           map[string]domain.QuotePrice{},
	}
}

func (h *priceServiceHandler) GetPrice(ctx context.Context, symbol string) (domain.QuotePrice, error) {
	if price, ok := h.cached(symbol); ok {
		return price, nil
	}

	out, err, _ := h.group.Do(symbol, func() (interface{}, error) {
		// a racing caller may have filled the cache while we queued
		if price, ok := h.cached(symbol); ok {
			return price, nil
		}

		price, err := h.QuoteRepository.GetLatestPrice(ctx, symbol)
		if err != nil {
			return domain.QuotePrice{}, err
		}

		h.mu.Lock()
		h.cache[symbol] = price
		h.mu.Unlock()
		return price, nil
	})
	if err != nil {
		return domain.QuotePrice{}, err
	}
	return out.(domain.QuotePrice), nil
}

// GetPrices fetches a batch of symbols concurrently, staggering provider
// calls to stay friendly with rate limits. Failures are reported per
// symbol; one bad ticker never sinks the batch.
func (h *priceServiceHandler) GetPrices(ctx context.Context, symbols []string) (map[string]domain.QuotePrice, map[string]error) {
	prices := map[string]domain.QuotePrice{}
	errs := map[string]error{}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(delay time.Duration, symbol string) {
			defer wg.Done()
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					mu.Lock()
					errs[symbol] = ctx.Err()
					mu.Unlock()
					return
				}
			}

			price, err := h.GetPrice(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[symbol] = err
				return
			}
			prices[symbol] = price
		}(time.Duration(i)*batchStagger, symbol)
	}
	wg.Wait()

	return prices, errs
}

func (h *priceServiceHandler) ClearCache() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache = map[string]domain.QuotePrice{}
}

func (h *priceServiceHandler) cached(symbol string) (domain.QuotePrice, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	price, ok := h.cache[symbol]
	if !ok || h.now().Sub(price.UpdatedAt) >= h.ttl {
		return domain.QuotePrice{}, false
	}
	return price, true
}
