package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assetmanager/src/clients/exchangerate"
	"assetmanager/src/utils"

	"github.com/shopspring/decimal"
)

const defaultRateTTL = time.Hour

// ExchangeRateService resolves conversion rates through a shared cache keyed by the
// currency pair.
type ExchangeRateService struct {
	client exchangerate.ExchangeRateServiceClientI
	cache  utils.CacheHandlerI
	ttl    time.Duration
}

func NewExchangeRateService(client exchangerate.ExchangeRateServiceClientI, cache utils.CacheHandlerI, ttl time.Duration) *ExchangeRateService {
	if ttl <= 0 {
		ttl = defaultRateTTL
	}
	return &ExchangeRateService{client: client, cache: cache, ttl: ttl}
}

func rateCacheKey(from, to string) string {
	return fmt.Sprintf("exchange_rate_%s_%s", from, to)
}

// GetRate returns the multiplier converting an amount in from into to. Equal codes yield 1
// without touching the cache or the provider.
func (s *ExchangeRateService) GetRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = utils.NormalizeCurrency(from), utils.NormalizeCurrency(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	rate, err := utils.GetOrFetch(ctx, s.cache, rateCacheKey(from, to), s.ttl,
		func(ctx context.Context) (decimal.Decimal, error) {
			rate, err := s.client.GetRate(ctx, from, to)
			if err != nil {
				return decimal.Zero, err
			}
			if !rate.IsPositive() {
				return decimal.Zero, fmt.Errorf("%w: %s to %s", exchangerate.ErrRateNotFound, from, to)
			}
			return rate, nil
		})
	if errors.Is(err, exchangerate.ErrRateNotFound) {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrRateUnavailable, from, to)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching rate %s to %s: %w", from, to, err)
	}
	return rate, nil
}

func (s *ExchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := s.GetRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}
