package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"allogator/internal/domain"
)

type fakeQuoteRepository struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
	delay time.Duration
	now   func() time.Time
}

func newFakeQuoteRepository(now func() time.Time) *fakeQuoteRepository {
	return &fakeQuoteRepository{
		calls: map[string]int{},
		fail:  map[string]bool{},
		now:   now,
	}
}

func (f *fakeQuoteRepository) GetLatestPrice(ctx context.Context, symbol string) (domain.QuotePrice, error) {
	f.mu.Lock()
	f.calls[symbol]++
	shouldFail := f.fail[symbol]
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if shouldFail {
		return domain.QuotePrice{}, fmt.Errorf("no price data for symbol %s", symbol)
	}
	return domain.QuotePrice{
		Symbol:    symbol,
		Price:     decimal.NewFromInt(100),
		UpdatedAt: f.now(),
	}, nil
}

func (f *fakeQuoteRepository) callCount(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

func newTestPriceService(repo *fakeQuoteRepository, now func() time.Time) *priceServiceHandler {
	return &priceServiceHandler{
		QuoteRepository: repo,
		ttl:             defaultPriceTtl,
		now:             now,
		cache:           map[string]domain.QuotePrice{},
	}
}

func Test_priceServiceHandler_GetPrice(t *testing.T) {
	t.Run("second read hits the cache", func(t *testing.T) {
		now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		repo := newFakeQuoteRepository(clock)
		svc := newTestPriceService(repo, clock)

		ctx := context.Background()
		first, err := svc.GetPrice(ctx, "VOO")
		require.NoError(t, err)

		second, err := svc.GetPrice(ctx, "VOO")
		require.NoError(t, err)

		require.Equal(t, first, second)
		require.Equal(t, 1, repo.callCount("VOO"))
	})

	t.Run("expired entry refetches", func(t *testing.T) {
		now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		repo := newFakeQuoteRepository(clock)
		svc := newTestPriceService(repo, clock)

		ctx := context.Background()
		_, err := svc.GetPrice(ctx, "VOO")
		require.NoError(t, err)

		now = now.Add(defaultPriceTtl + time.Second)
		_, err = svc.GetPrice(ctx, "VOO")
		require.NoError(t, err)

		require.Equal(t, 2, repo.callCount("VOO"))
	})

	t.Run("concurrent requests share one provider call", func(t *testing.T) {
		clock := time.Now
		repo := newFakeQuoteRepository(clock)
		repo.delay = 50 * time.Millisecond
		svc := newTestPriceService(repo, clock)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.GetPrice(context.Background(), "VOO")
				require.NoError(t, err)
			}()
		}
		wg.Wait()

		require.Equal(t, 1, repo.callCount("VOO"))
	})

	t.Run("errors are not cached", func(t *testing.T) {
		clock := time.Now
		repo := newFakeQuoteRepository(clock)
		repo.fail["NOPE"] = true
		svc := newTestPriceService(repo, clock)

		_, err := svc.GetPrice(context.Background(), "NOPE")
		require.Error(t, err)

		repo.fail["NOPE"] = false
		_, err = svc.GetPrice(context.Background(), "NOPE")
		require.NoError(t, err)
		require.Equal(t, 2, repo.callCount("NOPE"))
	})
}

func Test_priceServiceHandler_GetPrices(t *testing.T) {
	t.Run("one bad symbol does not sink the batch", func(t *testing.T) {
		clock := time.Now
		repo := newFakeQuoteRepository(clock)
		repo.fail["NOPE"] = true
		svc := newTestPriceService(repo, clock)

		prices, errs := svc.GetPrices(context.Background(), []string{"VOO", "NOPE", "QQQ"})

		require.Len(t, prices, 2)
		require.Contains(t, prices, "VOO")
		require.Contains(t, prices, "QQQ")
		require.Len(t, errs, 1)
		require.Error(t, errs["NOPE"])
	})

	t.Run("cancelled context stops pending fetches", func(t *testing.T) {
		clock := time.Now
		repo := newFakeQuoteRepository(clock)
		svc := newTestPriceService(repo, clock)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// first symbol has no stagger delay and may still succeed; the
		// rest must observe the cancellation
		_, errs := svc.GetPrices(ctx, []string{"A", "B", "C"})
		require.GreaterOrEqual(t, len(errs), 2)
	})
}
