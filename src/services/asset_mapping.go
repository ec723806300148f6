package services

import (
	"strings"

	"assetmanager/src/models"
	"assetmanager/src/schemas"

	"github.com/shopspring/decimal"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func cryptoDetailsFromRequest(d *schemas.CryptoDetails) *models.CryptoDetails {
	return &models.CryptoDetails{
		Symbol:        strings.ToUpper(strings.TrimSpace(d.Symbol)),
		Network:       d.Network,
		WalletAddress: d.WalletAddress,
		Exchange:      d.Exchange,
		Staking:       d.Staking,
	}
}

func stockDetailsFromRequest(d *schemas.StockDetails) *models.StockDetails {
	return &models.StockDetails{
		Symbol:        strings.ToUpper(strings.TrimSpace(d.Symbol)),
		Exchange:      d.Exchange,
		Sector:        d.Sector,
		DividendYield: toNullDecimal(d.DividendYield),
	}
}

func realEstateDetailsFromRequest(d *schemas.RealEstateDetails) *models.RealEstateDetails {
	country := d.Country
	if country == nil {
		us := "US"
		country = &us
	}
	return &models.RealEstateDetails{
		PropertyType:    d.PropertyType,
		SquareFeet:      d.SquareFeet,
		Bedrooms:        d.Bedrooms,
		Bathrooms:       toNullDecimal(d.Bathrooms),
		YearBuilt:       d.YearBuilt,
		Address:         strings.TrimSpace(d.Address),
		City:            strings.TrimSpace(d.City),
		State:           strings.TrimSpace(d.State),
		ZipCode:         d.ZipCode,
		Country:         country,
		PurchasePrice:   d.PurchasePrice,
		CurrentValue:    toNullDecimal(d.CurrentValue),
		MortgageBalance: toNullDecimal(d.MortgageBalance),
		MonthlyRent:     toNullDecimal(d.MonthlyRent),
		MonthlyExpenses: toNullDecimal(d.MonthlyExpenses),
	}
}

func toAssetResponse(a *models.Asset) schemas.AssetResponse {
	totalValue := a.TotalValue()
	totalCost := a.TotalCost()
	gainLoss := totalValue.Sub(totalCost)

	response := schemas.AssetResponse{
		ID:              a.ID,
		Name:            a.Name,
		Type:            a.Type,
		Quantity:        a.Quantity,
		CostBasis:       a.CostBasis,
		CurrentPrice:    a.CurrentPrice,
		Currency:        a.Currency,
		TotalValue:      totalValue,
		TotalCost:       totalCost,
		GainLoss:        gainLoss,
		GainLossPercent: percentOf(gainLoss, totalCost),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if d := a.CryptoDetails; d != nil {
		response.CryptoDetails = &schemas.CryptoDetails{
			Symbol:        d.Symbol,
			Network:       d.Network,
			WalletAddress: d.WalletAddress,
			Exchange:      d.Exchange,
			Staking:       d.Staking,
		}
	}
	if d := a.StockDetails; d != nil {
		response.StockDetails = &schemas.StockDetails{
			Symbol:        d.Symbol,
			Exchange:      d.Exchange,
			Sector:        d.Sector,
			DividendYield: fromNullDecimal(d.DividendYield),
		}
	}
	if d := a.RealEstateDetails; d != nil {
		response.RealEstateDetails = &schemas.RealEstateDetails{
			PropertyType:    d.PropertyType,
			Address:         d.Address,
			City:            d.City,
			State:           d.State,
			ZipCode:         d.ZipCode,
			Country:         d.Country,
			PurchasePrice:   d.PurchasePrice,
			CurrentValue:    fromNullDecimal(d.CurrentValue),
			MortgageBalance: fromNullDecimal(d.MortgageBalance),
			MonthlyRent:     fromNullDecimal(d.MonthlyRent),
			MonthlyExpenses: fromNullDecimal(d.MonthlyExpenses),
			SquareFeet:      d.SquareFeet,
			Bedrooms:        d.Bedrooms,
			Bathrooms:       fromNullDecimal(d.Bathrooms),
			YearBuilt:       d.YearBuilt,
		}
	}
	return response
}
