package controllers

import (
	"context"

	"assetmanager/src/schemas"

	"github.com/xuri/excelize/v2"
)

// GetPortfolio makes sure today's snapshot exists before answering, so opening the
// dashboard is enough to record the day.
func (c *Controller) GetPortfolio(ctx context.Context, userID int) (*schemas.PortfolioSummary, error) {
	currency, err := c.Users.PreferredCurrency(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.Portfolio.EnsureTodaySnapshot(ctx, userID, currency); err != nil {
		return nil, err
	}
	return c.Portfolio.ComputeSummary(ctx, userID, currency)
}

func (c *Controller) GetPerformance(ctx context.Context, userID int) (*schemas.PortfolioPerformance, error) {
	currency, err := c.Users.PreferredCurrency(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := c.Portfolio.ComputeSummary(ctx, userID, currency)
	if err != nil {
		return nil, err
	}
	return &schemas.PortfolioPerformance{
		TotalGainLoss:        summary.TotalGainLoss,
		TotalGainLossPercent: summary.TotalGainLossPercent,
		DisplayCurrency:      summary.DisplayCurrency,
		Allocation:           summary.ByType,
	}, nil
}

func (c *Controller) GetHistory(ctx context.Context, userID, days int) ([]schemas.DailySnapshot, error) {
	return c.Portfolio.GetHistoryDays(ctx, userID, days)
}

func (c *Controller) ExportPortfolio(ctx context.Context, userID int) (*excelize.File, error) {
	currency, err := c.Users.PreferredCurrency(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.Export.BuildWorkbook(ctx, userID, currency)
}
