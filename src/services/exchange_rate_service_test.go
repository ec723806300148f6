package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"assetmanager/src/clients/exchangerate"
	"assetmanager/src/services"
	"assetmanager/src/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRateClient struct {
	mock.Mock
}

func (m *mockRateClient) GetLatestRates(ctx context.Context, base string) (*exchangerate.LatestRatesResponse, error) {
	args := m.Called(ctx, base)
	response, _ := args.Get(0).(*exchangerate.LatestRatesResponse)
	return response, args.Error(1)
}

func (m *mockRateClient) GetRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func TestExchangeRateService(t *testing.T) {
	ctx := context.Background()

	t.Run("Equal currencies never reach the provider", func(t *testing.T) {
		client := &mockRateClient{}
		svc := services.NewExchangeRateService(client, utils.NewMemoryCache(), time.Hour)

		rate, err := svc.GetRate(ctx, "usd", "USD")
		require.NoError(t, err)
		assertDecimal(t, "1", rate)

		rate, err = svc.GetRate(ctx, "NIS", "ILS")
		require.NoError(t, err)
		assertDecimal(t, "1", rate)
		client.AssertNotCalled(t, "GetRate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Rates are cached per pair", func(t *testing.T) {
		client := &mockRateClient{}
		client.On("GetRate", mock.Anything, "EUR", "USD").Return(d("1.1"), nil).Once()
		client.On("GetRate", mock.Anything, "USD", "EUR").Return(d("0.9"), nil).Once()
		svc := services.NewExchangeRateService(client, utils.NewMemoryCache(), time.Hour)

		for i := 0; i < 3; i++ {
			rate, err := svc.GetRate(ctx, "eur", "usd")
			require.NoError(t, err)
			assertDecimal(t, "1.1", rate)
		}
		rate, err := svc.GetRate(ctx, "USD", "EUR")
		require.NoError(t, err)
		assertDecimal(t, "0.9", rate)

		client.AssertNumberOfCalls(t, "GetRate", 2)
	})

	t.Run("Expired entries are fetched again", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		cache := utils.NewMemoryCache().WithClock(func() time.Time { return now })
		client := &mockRateClient{}
		client.On("GetRate", mock.Anything, "GBP", "USD").Return(d("1.25"), nil).Twice()
		svc := services.NewExchangeRateService(client, cache, time.Hour)

		_, err := svc.GetRate(ctx, "GBP", "USD")
		require.NoError(t, err)
		now = now.Add(30 * time.Minute)
		_, err = svc.GetRate(ctx, "GBP", "USD")
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "GetRate", 1)

		now = now.Add(time.Hour)
		_, err = svc.GetRate(ctx, "GBP", "USD")
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "GetRate", 2)
	})

	t.Run("Missing rate is reported as unavailable and not cached", func(t *testing.T) {
		cache := utils.NewMemoryCache()
		client := &mockRateClient{}
		client.On("GetRate", mock.Anything, "XYZ", "USD").
			Return(decimal.Zero, fmt.Errorf("%w: XYZ", exchangerate.ErrRateNotFound))
		svc := services.NewExchangeRateService(client, cache, time.Hour)

		_, err := svc.GetRate(ctx, "XYZ", "USD")
		assert.ErrorIs(t, err, services.ErrRateUnavailable)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("Non-positive rate is unavailable", func(t *testing.T) {
		client := &mockRateClient{}
		client.On("GetRate", mock.Anything, "EUR", "JPY").Return(decimal.Zero, nil)
		svc := services.NewExchangeRateService(client, utils.NewMemoryCache(), 0)

		_, err := svc.GetRate(ctx, "EUR", "JPY")
		assert.ErrorIs(t, err, services.ErrRateUnavailable)
	})

	t.Run("Transport errors keep their cause", func(t *testing.T) {
		transportErr := errors.New("dial tcp: connection refused")
		client := &mockRateClient{}
		client.On("GetRate", mock.Anything, "EUR", "USD").Return(decimal.Zero, transportErr)
		svc := services.NewExchangeRateService(client, utils.NewMemoryCache(), time.Hour)

		_, err := svc.GetRate(ctx, "EUR", "USD")
		assert.ErrorIs(t, err, transportErr)
		assert.NotErrorIs(t, err, services.ErrRateUnavailable)
	})

	t.Run("Convert", func(t *testing.T) {
		client := &mockRateClient{}
		client.On("GetRate", mock.Anything, "EUR", "USD").Return(d("1.1"), nil)
		svc := services.NewExchangeRateService(client, utils.NewMemoryCache(), time.Hour)

		amount, err := svc.Convert(ctx, d("100"), "EUR", "USD")
		require.NoError(t, err)
		assertDecimal(t, "110", amount)
	})
}
