package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot records a user's portfolio totals for one UTC day. Rows are never
// updated once written.
type PortfolioSnapshot struct {
	ID              int
	UserID          int
	SnapshotDate    time.Time
	TotalValue      decimal.Decimal
	TotalCost       decimal.Decimal
	CryptoValue     decimal.Decimal
	StockValue      decimal.Decimal
	RealEstateValue decimal.Decimal
	DisplayCurrency string
	CreatedAt       time.Time
}
