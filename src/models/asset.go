package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetType string

const (
	AssetTypeCrypto     AssetType = "Crypto"
	AssetTypeStock      AssetType = "Stock"
	AssetTypeRealEstate AssetType = "RealEstate"
)

func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeCrypto, AssetTypeStock, AssetTypeRealEstate:
		return true
	}
	return false
}

type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "House"
	PropertyTypeApartment  PropertyType = "Apartment"
	PropertyTypeCommercial PropertyType = "Commercial"
	PropertyTypeLand       PropertyType = "Land"
)

func (p PropertyType) Valid() bool {
	switch p {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeCommercial, PropertyTypeLand:
		return true
	}
	return false
}

// Asset is a holding owned by a user. Exactly one of the detail pointers is set and it
// matches Type. CostBasis and CurrentPrice are per unit in Currency.
type Asset struct {
	ID           int
	UserID       int
	Name         string
	Type         AssetType
	Quantity     decimal.Decimal
	CostBasis    decimal.Decimal
	CurrentPrice decimal.Decimal
	Currency     string
	Notes        *string
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	CryptoDetails     *CryptoDetails
	StockDetails      *StockDetails
	RealEstateDetails *RealEstateDetails
}

func (a *Asset) TotalValue() decimal.Decimal {
	return a.Quantity.Mul(a.CurrentPrice)
}

func (a *Asset) TotalCost() decimal.Decimal {
	return a.Quantity.Mul(a.CostBasis)
}

type CryptoDetails struct {
	Symbol        string
	Network       *string
	WalletAddress *string
	Exchange      *string
	Staking       bool
}

type StockDetails struct {
	Symbol        string
	Exchange      *string
	Sector        *string
	DividendYield decimal.NullDecimal
}

type RealEstateDetails struct {
	PropertyType    PropertyType
	SquareFeet      *int
	Bedrooms        *int
	Bathrooms       decimal.NullDecimal
	YearBuilt       *int
	Address         string
	City            string
	State           string
	ZipCode         *string
	Country         *string
	PurchasePrice   decimal.Decimal
	CurrentValue    decimal.NullDecimal
	MortgageBalance decimal.NullDecimal
	MonthlyRent     decimal.NullDecimal
	MonthlyExpenses decimal.NullDecimal
}

// AssetValuation is the slice of an asset the portfolio aggregation needs: its totals in
// the asset's own currency.
type AssetValuation struct {
	Type     AssetType
	Currency string
	Value    decimal.Decimal
	Cost     decimal.Decimal
}
