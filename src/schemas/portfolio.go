package schemas

import (
	"time"

	"assetmanager/src/models"

	"github.com/shopspring/decimal"
)

type PortfolioSummary struct {
	TotalValue           decimal.Decimal `json:"totalValue"`
	TotalCost            decimal.Decimal `json:"totalCost"`
	TotalGainLoss        decimal.Decimal `json:"totalGainLoss"`
	TotalGainLossPercent decimal.Decimal `json:"totalGainLossPercent"`
	AssetCount           int             `json:"assetCount"`
	DisplayCurrency      string          `json:"displayCurrency"`
	ByType               []TypeBreakdown `json:"byType"`
}

type TypeBreakdown struct {
	Type              models.AssetType `json:"type"`
	Value             decimal.Decimal  `json:"value"`
	Cost              decimal.Decimal  `json:"cost"`
	GainLoss          decimal.Decimal  `json:"gainLoss"`
	GainLossPercent   decimal.Decimal  `json:"gainLossPercent"`
	AllocationPercent decimal.Decimal  `json:"allocationPercent"`
	Count             int              `json:"count"`
}

type PortfolioPerformance struct {
	TotalGainLoss        decimal.Decimal `json:"totalGainLoss"`
	TotalGainLossPercent decimal.Decimal `json:"totalGainLossPercent"`
	DisplayCurrency      string          `json:"displayCurrency"`
	Allocation           []TypeBreakdown `json:"allocation"`
}

type DailySnapshot struct {
	Date            Date            `json:"date"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	TotalCost       decimal.Decimal `json:"totalCost"`
	GainLoss        decimal.Decimal `json:"gainLoss"`
	CryptoValue     decimal.Decimal `json:"cryptoValue"`
	StockValue      decimal.Decimal `json:"stockValue"`
	RealEstateValue decimal.Decimal `json:"realEstateValue"`
	DisplayCurrency string          `json:"displayCurrency"`
}

// Date is a calendar day serialized as YYYY-MM-DD.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

type SnapshotRunResult struct {
	Users   int `json:"users"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
