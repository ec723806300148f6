package schemas

import (
	"time"

	"assetmanager/src/models"

	"github.com/shopspring/decimal"
)

type CryptoDetails struct {
	Symbol        string  `json:"symbol"`
	Network       *string `json:"network,omitempty"`
	WalletAddress *string `json:"walletAddress,omitempty"`
	Exchange      *string `json:"exchange,omitempty"`
	Staking       bool    `json:"staking"`
}

type StockDetails struct {
	Symbol        string           `json:"symbol"`
	Exchange      *string          `json:"exchange,omitempty"`
	Sector        *string          `json:"sector,omitempty"`
	DividendYield *decimal.Decimal `json:"dividendYield,omitempty"`
}

type RealEstateDetails struct {
	PropertyType    models.PropertyType `json:"propertyType"`
	Address         string              `json:"address"`
	City            string              `json:"city"`
	State           string              `json:"state"`
	ZipCode         *string             `json:"zipCode,omitempty"`
	Country         *string             `json:"country,omitempty"`
	PurchasePrice   decimal.Decimal     `json:"purchasePrice"`
	CurrentValue    *decimal.Decimal    `json:"currentValue,omitempty"`
	MortgageBalance *decimal.Decimal    `json:"mortgageBalance,omitempty"`
	MonthlyRent     *decimal.Decimal    `json:"monthlyRent,omitempty"`
	MonthlyExpenses *decimal.Decimal    `json:"monthlyExpenses,omitempty"`
	SquareFeet      *int                `json:"squareFeet,omitempty"`
	Bedrooms        *int                `json:"bedrooms,omitempty"`
	Bathrooms       *decimal.Decimal    `json:"bathrooms,omitempty"`
	YearBuilt       *int                `json:"yearBuilt,omitempty"`
}

type CreateAssetRequest struct {
	Name              string             `json:"name"`
	Type              models.AssetType   `json:"type"`
	Quantity          decimal.Decimal    `json:"quantity"`
	CostBasis         decimal.Decimal    `json:"costBasis"`
	CurrentPrice      decimal.Decimal    `json:"currentPrice"`
	Currency          string             `json:"currency,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	CryptoDetails     *CryptoDetails     `json:"cryptoDetails,omitempty"`
	StockDetails      *StockDetails      `json:"stockDetails,omitempty"`
	RealEstateDetails *RealEstateDetails `json:"realEstateDetails,omitempty"`
}

// UpdateAssetRequest is a partial update: nil fields are left unchanged.
type UpdateAssetRequest struct {
	Name              *string            `json:"name,omitempty"`
	Quantity          *decimal.Decimal   `json:"quantity,omitempty"`
	CostBasis         *decimal.Decimal   `json:"costBasis,omitempty"`
	CurrentPrice      *decimal.Decimal   `json:"currentPrice,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	CryptoDetails     *CryptoDetails     `json:"cryptoDetails,omitempty"`
	StockDetails      *StockDetails      `json:"stockDetails,omitempty"`
	RealEstateDetails *RealEstateDetails `json:"realEstateDetails,omitempty"`
}

type AssetResponse struct {
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	Type              models.AssetType   `json:"type"`
	Quantity          decimal.Decimal    `json:"quantity"`
	CostBasis         decimal.Decimal    `json:"costBasis"`
	CurrentPrice      decimal.Decimal    `json:"currentPrice"`
	Currency          string             `json:"currency"`
	TotalValue        decimal.Decimal    `json:"totalValue"`
	TotalCost         decimal.Decimal    `json:"totalCost"`
	GainLoss          decimal.Decimal    `json:"gainLoss"`
	GainLossPercent   decimal.Decimal    `json:"gainLossPercent"`
	Notes             *string            `json:"notes,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	CryptoDetails     *CryptoDetails     `json:"cryptoDetails,omitempty"`
	StockDetails      *StockDetails      `json:"stockDetails,omitempty"`
	RealEstateDetails *RealEstateDetails `json:"realEstateDetails,omitempty"`
}

type AssetListQuery struct {
	Type     models.AssetType
	Search   string
	Sort     string
	Page     int
	PageSize int
}

type AssetListResponse struct {
	Items    []AssetResponse `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
	HasMore  bool            `json:"hasMore"`
}

type ValidateSymbolRequest struct {
	Type     models.AssetType `json:"type"`
	Symbol   string           `json:"symbol"`
	Exchange string           `json:"exchange,omitempty"`
}

type ValidateSymbolResponse struct {
	Valid        bool             `json:"valid"`
	Name         string           `json:"name,omitempty"`
	CurrentPrice *decimal.Decimal `json:"currentPrice,omitempty"`
	Currency     string           `json:"currency,omitempty"`
	Exchange     string           `json:"exchange,omitempty"`
}

// PriceQuote is a resolved market price for a crypto or stock symbol.
type PriceQuote struct {
	Symbol   string
	Name     string
	Price    decimal.Decimal
	Currency string
	Exchange string
}
