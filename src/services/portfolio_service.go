package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"assetmanager/src/models"
	"assetmanager/src/schemas"
	"assetmanager/src/utils"

	"github.com/shopspring/decimal"
)

type AssetStore interface {
	ListAssetsForUser(ctx context.Context, userID int) ([]models.AssetValuation, error)
}

type SnapshotStore interface {
	Exists(ctx context.Context, userID int, date time.Time) (bool, error)
	Insert(ctx context.Context, snapshot *models.PortfolioSnapshot) error
	Query(ctx context.Context, userID int, since time.Time) ([]models.PortfolioSnapshot, error)
}

type ExchangeRateLookup interface {
	GetRate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

var hundred = decimal.NewFromInt(100)

// PortfolioService values a user's assets in one display currency and keeps the daily
// snapshot history.
type PortfolioService struct {
	assets    AssetStore
	snapshots SnapshotStore
	rates     ExchangeRateLookup
	now       func() time.Time
}

func NewPortfolioService(assets AssetStore, snapshots SnapshotStore, rates ExchangeRateLookup) *PortfolioService {
	return &PortfolioService{
		assets:    assets,
		snapshots: snapshots,
		rates:     rates,
		now:       time.Now,
	}
}

// WithClock replaces the time source used to pick today's snapshot date.
func (s *PortfolioService) WithClock(now func() time.Time) *PortfolioService {
	s.now = now
	return s
}

type typeTotals struct {
	value decimal.Decimal
	cost  decimal.Decimal
	count int
}

type portfolioTotals struct {
	value  decimal.Decimal
	cost   decimal.Decimal
	count  int
	byType map[models.AssetType]*typeTotals
}

func (t *portfolioTotals) typeValue(assetType models.AssetType) decimal.Decimal {
	if bucket, ok := t.byType[assetType]; ok {
		return bucket.value
	}
	return decimal.Zero
}

// aggregate converts every live asset into displayCurrency and sums the results. Any
// missing rate aborts the whole aggregation.
func (s *PortfolioService) aggregate(ctx context.Context, userID int, displayCurrency string) (*portfolioTotals, error) {
	valuations, err := s.assets.ListAssetsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing assets for user %d: %w", userID, err)
	}

	totals := &portfolioTotals{
		value:  decimal.Zero,
		cost:   decimal.Zero,
		byType: map[models.AssetType]*typeTotals{},
	}
	for _, v := range valuations {
		rate := decimal.NewFromInt(1)
		if !utils.SameCurrency(v.Currency, displayCurrency) {
			rate, err = s.rates.GetRate(ctx, v.Currency, displayCurrency)
			if err != nil {
				return nil, err
			}
		}
		value := v.Value.Mul(rate)
		cost := v.Cost.Mul(rate)

		totals.value = totals.value.Add(value)
		totals.cost = totals.cost.Add(cost)
		totals.count++

		bucket, ok := totals.byType[v.Type]
		if !ok {
			bucket = &typeTotals{value: decimal.Zero, cost: decimal.Zero}
			totals.byType[v.Type] = bucket
		}
		bucket.value = bucket.value.Add(value)
		bucket.cost = bucket.cost.Add(cost)
		bucket.count++
	}
	return totals, nil
}

// percentOf returns part/whole*100 rounded to 2 places, or 0 when whole is 0.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).RoundBank(2)
}

// ComputeSummary has no side effects.
func (s *PortfolioService) ComputeSummary(ctx context.Context, userID int, displayCurrency string) (*schemas.PortfolioSummary, error) {
	displayCurrency = utils.NormalizeCurrency(displayCurrency)

	totals, err := s.aggregate(ctx, userID, displayCurrency)
	if err != nil {
		return nil, err
	}

	byType := make([]schemas.TypeBreakdown, 0, len(totals.byType))
	for assetType, bucket := range totals.byType {
		gainLoss := bucket.value.Sub(bucket.cost)
		byType = append(byType, schemas.TypeBreakdown{
			Type:              assetType,
			Value:             bucket.value,
			Cost:              bucket.cost,
			GainLoss:          gainLoss,
			GainLossPercent:   percentOf(gainLoss, bucket.cost),
			AllocationPercent: percentOf(bucket.value, totals.value),
			Count:             bucket.count,
		})
	}
	sort.Slice(byType, func(i, j int) bool {
		if c := byType[i].Value.Cmp(byType[j].Value); c != 0 {
			return c > 0
		}
		return byType[i].Type < byType[j].Type
	})

	gainLoss := totals.value.Sub(totals.cost)
	return &schemas.PortfolioSummary{
		TotalValue:           totals.value,
		TotalCost:            totals.cost,
		TotalGainLoss:        gainLoss,
		TotalGainLossPercent: percentOf(gainLoss, totals.cost),
		AssetCount:           totals.count,
		DisplayCurrency:      displayCurrency,
		ByType:               byType,
	}, nil
}

// EnsureTodaySnapshot stores today's (UTC) snapshot unless one already exists. Losing an
// insert race to a concurrent caller counts as success.
func (s *PortfolioService) EnsureTodaySnapshot(ctx context.Context, userID int, displayCurrency string) error {
	_, err := s.ensureTodaySnapshot(ctx, userID, displayCurrency)
	return err
}

// ensureTodaySnapshot reports whether this call wrote the row.
func (s *PortfolioService) ensureTodaySnapshot(ctx context.Context, userID int, displayCurrency string) (bool, error) {
	logger := utils.LoggerFromContext(ctx).WithField("user_id", userID)
	displayCurrency = utils.NormalizeCurrency(displayCurrency)
	today := utils.TruncateToDay(s.now())

	exists, err := s.snapshots.Exists(ctx, userID, today)
	if err != nil {
		return false, fmt.Errorf("checking snapshot for user %d: %w", userID, err)
	}
	if exists {
		return false, nil
	}

	totals, err := s.aggregate(ctx, userID, displayCurrency)
	if err != nil {
		return false, err
	}

	snapshot := &models.PortfolioSnapshot{
		UserID:          userID,
		SnapshotDate:    today,
		TotalValue:      totals.value,
		TotalCost:       totals.cost,
		CryptoValue:     totals.typeValue(models.AssetTypeCrypto),
		StockValue:      totals.typeValue(models.AssetTypeStock),
		RealEstateValue: totals.typeValue(models.AssetTypeRealEstate),
		DisplayCurrency: displayCurrency,
	}
	if err := s.snapshots.Insert(ctx, snapshot); err != nil {
		if errors.Is(err, ErrDuplicateSnapshot) {
			logger.Warn("snapshot already written by a concurrent request")
			return false, nil
		}
		return false, fmt.Errorf("inserting snapshot for user %d: %w", userID, err)
	}

	logger.WithField("snapshot_date", today.Format(utils.ShortDashDateLayout)).Info("portfolio snapshot created")
	return true, nil
}

// GetHistory returns the snapshots dated on or after since, oldest first.
func (s *PortfolioService) GetHistory(ctx context.Context, userID int, since time.Time) ([]schemas.DailySnapshot, error) {
	rows, err := s.snapshots.Query(ctx, userID, utils.TruncateToDay(since))
	if err != nil {
		return nil, fmt.Errorf("querying history for user %d: %w", userID, err)
	}

	history := make([]schemas.DailySnapshot, 0, len(rows))
	for _, row := range rows {
		history = append(history, schemas.DailySnapshot{
			Date:            schemas.Date(row.SnapshotDate),
			TotalValue:      row.TotalValue,
			TotalCost:       row.TotalCost,
			GainLoss:        row.TotalValue.Sub(row.TotalCost),
			CryptoValue:     row.CryptoValue,
			StockValue:      row.StockValue,
			RealEstateValue: row.RealEstateValue,
			DisplayCurrency: row.DisplayCurrency,
		})
	}
	return history, nil
}

// GetHistoryDays returns the last days calendar days of history, days clamped to [1, 365].
func (s *PortfolioService) GetHistoryDays(ctx context.Context, userID int, days int) ([]schemas.DailySnapshot, error) {
	return s.GetHistory(ctx, userID, utils.DaysBefore(s.now(), utils.ClampHistoryDays(days)))
}
