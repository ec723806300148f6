package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"assetmanager/src/models"
	"assetmanager/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func newPortfolio(valuations map[int][]models.AssetValuation, rates map[string]decimal.Decimal) (*services.PortfolioService, *fakeSnapshotStore, *staticRates) {
	snapshots := &fakeSnapshotStore{}
	rateLookup := &staticRates{rates: rates}
	svc := services.NewPortfolioService(&fakeAssetStore{valuations: valuations}, snapshots, rateLookup).
		WithClock(fixedClock(today))
	return svc, snapshots, rateLookup
}

func TestComputeSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("Single asset gain", func(t *testing.T) {
		svc, _, _ := newPortfolio(map[int][]models.AssetValuation{
			1: {{Type: models.AssetTypeStock, Currency: "USD", Value: d("25000"), Cost: d("20000")}},
		}, nil)

		summary, err := svc.ComputeSummary(ctx, 1, "USD")
		require.NoError(t, err)
		assertDecimal(t, "25000", summary.TotalValue)
		assertDecimal(t, "20000", summary.TotalCost)
		assertDecimal(t, "5000", summary.TotalGainLoss)
		assertDecimal(t, "25.00", summary.TotalGainLossPercent)
		assert.Equal(t, 1, summary.AssetCount)
		assert.Equal(t, "USD", summary.DisplayCurrency)
	})

	t.Run("Single asset loss", func(t *testing.T) {
		svc, _, _ := newPortfolio(map[int][]models.AssetValuation{
			1: {{Type: models.AssetTypeCrypto, Currency: "USD", Value: d("1500"), Cost: d("2000")}},
		}, nil)

		summary, err := svc.ComputeSummary(ctx, 1, "USD")
		require.NoError(t, err)
		assertDecimal(t, "-500", summary.TotalGainLoss)
		assertDecimal(t, "-25.00", summary.TotalGainLossPercent)
	})

	t.Run("Allocation by type", func(t *testing.T) {
		svc, _, _ := newPortfolio(map[int][]models.AssetValuation{
			1: {
				{Type: models.AssetTypeStock, Currency: "USD", Value: d("3000"), Cost: d("3000")},
				{Type: models.AssetTypeCrypto, Currency: "USD", Value: d("4000"), Cost: d("2000")},
				{Type: models.AssetTypeCrypto, Currency: "USD", Value: d("3000"), Cost: d("3000")},
			},
		}, nil)

		summary, err := svc.ComputeSummary(ctx, 1, "USD")
		require.NoError(t, err)
		require.Len(t, summary.ByType, 2)

		crypto, stock := summary.ByType[0], summary.ByType[1]
		assert.Equal(t, models.AssetTypeCrypto, crypto.Type)
		assert.Equal(t, 2, crypto.Count)
		assertDecimal(t, "7000", crypto.Value)
		assertDecimal(t, "70.00", crypto.AllocationPercent)
		assertDecimal(t, "40.00", crypto.GainLossPercent)

		assert.Equal(t, models.AssetTypeStock, stock.Type)
		assertDecimal(t, "30.00", stock.AllocationPercent)
		assertDecimal(t, "0", stock.GainLossPercent)

		sum := decimal.Zero
		for _, b := range summary.ByType {
			sum = sum.Add(b.AllocationPercent)
		}
		assertDecimal(t, "100", sum)
	})

	t.Run("Converts into display currency", func(t *testing.T) {
		svc, _, rates := newPortfolio(map[int][]models.AssetValuation{
			1: {{Type: models.AssetTypeStock, Currency: "EUR", Value: d("100"), Cost: d("50")}},
		}, map[string]decimal.Decimal{"EUR_USD": d("1.1")})

		summary, err := svc.ComputeSummary(ctx, 1, "usd")
		require.NoError(t, err)
		assertDecimal(t, "110", summary.TotalValue)
		assertDecimal(t, "55", summary.TotalCost)
		assert.Equal(t, "USD", summary.DisplayCurrency)
		assert.Equal(t, 1, rates.calls)
	})

	t.Run("Same currency skips the rate lookup", func(t *testing.T) {
		svc, _, rates := newPortfolio(map[int][]models.AssetValuation{
			1: {{Type: models.AssetTypeRealEstate, Currency: "ils", Value: d("1000000"), Cost: d("900000")}},
		}, nil)

		summary, err := svc.ComputeSummary(ctx, 1, "NIS")
		require.NoError(t, err)
		assertDecimal(t, "1000000", summary.TotalValue)
		assert.Equal(t, "ILS", summary.DisplayCurrency)
		assert.Equal(t, 0, rates.calls)
	})

	t.Run("Zero cost yields zero percent", func(t *testing.T) {
		svc, _, _ := newPortfolio(map[int][]models.AssetValuation{
			1: {{Type: models.AssetTypeCrypto, Currency: "USD", Value: d("100"), Cost: decimal.Zero}},
		}, nil)

		summary, err := svc.ComputeSummary(ctx, 1, "USD")
		require.NoError(t, err)
		assertDecimal(t, "100", summary.TotalGainLoss)
		assertDecimal(t, "0", summary.TotalGainLossPercent)
		assertDecimal(t, "100.00", summary.ByType[0].AllocationPercent)
	})

	t.Run("Empty portfolio", func(t *testing.T) {
		svc, _, _ := newPortfolio(nil, nil)

		summary, err := svc.ComputeSummary(ctx, 7, "USD")
		require.NoError(t, err)
		assertDecimal(t, "0", summary.TotalValue)
		assertDecimal(t, "0", summary.TotalGainLossPercent)
		assert.Equal(t, 0, summary.AssetCount)
		assert.Empty(t, summary.ByType)
	})

	t.Run("Missing rate aborts the summary", func(t *testing.T) {
		svc, _, _ := newPortfolio(map[int][]models.AssetValuation{
			1: {
				{Type: models.AssetTypeStock, Currency: "USD", Value: d("10"), Cost: d("10")},
				{Type: models.AssetTypeStock, Currency: "JPY", Value: d("1000"), Cost: d("900")},
			},
		}, nil)

		summary, err := svc.ComputeSummary(ctx, 1, "USD")
		assert.ErrorIs(t, err, services.ErrRateUnavailable)
		assert.Nil(t, summary)
	})

	t.Run("Store failure is wrapped", func(t *testing.T) {
		storeErr := errors.New("connection reset")
		svc := services.NewPortfolioService(&fakeAssetStore{err: storeErr}, &fakeSnapshotStore{}, &staticRates{})

		_, err := svc.ComputeSummary(ctx, 1, "USD")
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestEnsureTodaySnapshot(t *testing.T) {
	ctx := context.Background()
	holdings := map[int][]models.AssetValuation{
		1: {
			{Type: models.AssetTypeCrypto, Currency: "USD", Value: d("700"), Cost: d("500")},
			{Type: models.AssetTypeStock, Currency: "EUR", Value: d("100"), Cost: d("100")},
			{Type: models.AssetTypeRealEstate, Currency: "USD", Value: d("1000"), Cost: d("800")},
		},
	}
	rates := map[string]decimal.Decimal{"EUR_USD": d("1.1")}

	t.Run("Writes one row for today", func(t *testing.T) {
		svc, snapshots, _ := newPortfolio(holdings, rates)

		require.NoError(t, svc.EnsureTodaySnapshot(ctx, 1, "USD"))
		require.Len(t, snapshots.rows, 1)

		row := snapshots.rows[0]
		assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), row.SnapshotDate)
		assertDecimal(t, "1810", row.TotalValue)
		assertDecimal(t, "1410", row.TotalCost)
		assertDecimal(t, "700", row.CryptoValue)
		assertDecimal(t, "110", row.StockValue)
		assertDecimal(t, "1000", row.RealEstateValue)
		assert.Equal(t, "USD", row.DisplayCurrency)
	})

	t.Run("Second call is a no-op", func(t *testing.T) {
		svc, snapshots, rateLookup := newPortfolio(holdings, rates)

		require.NoError(t, svc.EnsureTodaySnapshot(ctx, 1, "USD"))
		callsAfterFirst := rateLookup.calls
		require.NoError(t, svc.EnsureTodaySnapshot(ctx, 1, "USD"))

		assert.Equal(t, 1, snapshots.inserts)
		assert.Equal(t, callsAfterFirst, rateLookup.calls)
	})

	t.Run("Lost insert race is not an error", func(t *testing.T) {
		svc, snapshots, _ := newPortfolio(holdings, rates)
		require.NoError(t, svc.EnsureTodaySnapshot(ctx, 1, "USD"))

		snapshots.hideExists = true
		assert.NoError(t, svc.EnsureTodaySnapshot(ctx, 1, "USD"))
		assert.Len(t, snapshots.rows, 1)
	})

	t.Run("Concurrent callers produce a single row", func(t *testing.T) {
		svc, snapshots, _ := newPortfolio(holdings, rates)
		snapshots.hideExists = true

		var wg sync.WaitGroup
		errs := make(chan error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- svc.EnsureTodaySnapshot(ctx, 1, "USD")
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
		assert.Len(t, snapshots.rows, 1)
	})

	t.Run("Other users are unaffected", func(t *testing.T) {
		svc, snapshots, _ := newPortfolio(holdings, rates)

		require.NoError(t, svc.EnsureTodaySnapshot(ctx, 1, "USD"))
		require.NoError(t, svc.EnsureTodaySnapshot(ctx, 2, "USD"))

		require.Len(t, snapshots.rows, 2)
		assertDecimal(t, "0", snapshots.rows[1].TotalValue)
	})

	t.Run("Missing rate writes nothing", func(t *testing.T) {
		svc, snapshots, _ := newPortfolio(holdings, nil)

		err := svc.EnsureTodaySnapshot(ctx, 1, "USD")
		assert.ErrorIs(t, err, services.ErrRateUnavailable)
		assert.Empty(t, snapshots.rows)
	})

	t.Run("Insert failure surfaces", func(t *testing.T) {
		svc, snapshots, _ := newPortfolio(holdings, rates)
		snapshots.insertErr = errors.New("disk full")

		err := svc.EnsureTodaySnapshot(ctx, 1, "USD")
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()
	svc, snapshots, _ := newPortfolio(nil, nil)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, offset := range []int{-40, -10, -1, 0} {
		snapshots.rows = append(snapshots.rows, models.PortfolioSnapshot{
			UserID:          1,
			SnapshotDate:    day.AddDate(0, 0, offset),
			TotalValue:      d("150"),
			TotalCost:       d("100"),
			DisplayCurrency: "USD",
		})
	}
	snapshots.rows = append(snapshots.rows, models.PortfolioSnapshot{UserID: 2, SnapshotDate: day})

	t.Run("Since filter is inclusive", func(t *testing.T) {
		history, err := svc.GetHistory(ctx, 1, day.AddDate(0, 0, -10))
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, day.AddDate(0, 0, -10), time.Time(history[0].Date))
		assert.Equal(t, day, time.Time(history[2].Date))
		assertDecimal(t, "50", history[0].GainLoss)
	})

	t.Run("Days window", func(t *testing.T) {
		history, err := svc.GetHistoryDays(ctx, 1, 30)
		require.NoError(t, err)
		assert.Len(t, history, 3)
	})

	t.Run("Days below one are clamped to one", func(t *testing.T) {
		history, err := svc.GetHistoryDays(ctx, 1, 0)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("Days above a year are clamped", func(t *testing.T) {
		history, err := svc.GetHistoryDays(ctx, 1, 5000)
		require.NoError(t, err)
		assert.Len(t, history, 4)
	})

	t.Run("No rows", func(t *testing.T) {
		history, err := svc.GetHistoryDays(ctx, 99, 30)
		require.NoError(t, err)
		assert.NotNil(t, history)
		assert.Empty(t, history)
	})
}
