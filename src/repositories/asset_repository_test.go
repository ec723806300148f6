package repositories_test

import (
	"context"
	"testing"

	"assetmanager/src/models"
	"assetmanager/src/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAssetRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewAssetRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "google-assets")

	btc := &models.Asset{
		UserID: user.ID, Name: "Bitcoin", Type: models.AssetTypeCrypto,
		Quantity: decimal.RequireFromString("0.5"), CostBasis: decimal.NewFromInt(40000),
		CurrentPrice: decimal.NewFromInt(50000), Currency: "USD",
		CryptoDetails: &models.CryptoDetails{Symbol: "BTC", Network: strPtr("bitcoin"), Staking: true},
	}
	sap := &models.Asset{
		UserID: user.ID, Name: "SAP", Type: models.AssetTypeStock,
		Quantity: decimal.NewFromInt(10), CostBasis: decimal.NewFromInt(100),
		CurrentPrice: decimal.NewFromInt(120), Currency: "EUR",
		StockDetails: &models.StockDetails{Symbol: "SAP", Exchange: strPtr("XETRA"),
			DividendYield: decimal.NewNullDecimal(decimal.RequireFromString("3.456"))},
	}
	flat := &models.Asset{
		UserID: user.ID, Name: "Tel Aviv flat", Type: models.AssetTypeRealEstate,
		Quantity: decimal.NewFromInt(1), CostBasis: decimal.NewFromInt(2000000),
		CurrentPrice: decimal.NewFromInt(2500000), Currency: "ILS",
		RealEstateDetails: &models.RealEstateDetails{
			PropertyType: models.PropertyTypeApartment, Address: "Dizengoff 1", City: "Tel Aviv",
			State: "TA", Country: strPtr("Israel"), PurchasePrice: decimal.NewFromInt(2000000),
		},
	}

	t.Run("Create and GetByID", func(t *testing.T) {
		for _, asset := range []*models.Asset{btc, sap, flat} {
			require.NoError(t, repo.Create(ctx, asset))
			assert.NotZero(t, asset.ID)
		}

		got, err := repo.GetByID(ctx, user.ID, btc.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CryptoDetails)
		assert.Nil(t, got.StockDetails)
		assert.Equal(t, "BTC", got.CryptoDetails.Symbol)
		assert.True(t, got.CryptoDetails.Staking)
		assert.True(t, btc.Quantity.Equal(got.Quantity))

		got, err = repo.GetByID(ctx, user.ID, sap.ID)
		require.NoError(t, err)
		require.NotNil(t, got.StockDetails)
		assert.True(t, got.StockDetails.DividendYield.Valid)
		assert.True(t, decimal.RequireFromString("3.456").Equal(got.StockDetails.DividendYield.Decimal),
			got.StockDetails.DividendYield.Decimal.String())

		got, err = repo.GetByID(ctx, user.ID, flat.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RealEstateDetails)
		assert.Equal(t, "Tel Aviv", got.RealEstateDetails.City)
		assert.True(t, decimal.NewFromInt(2000000).Equal(got.RealEstateDetails.PurchasePrice))
		assert.False(t, got.RealEstateDetails.CurrentValue.Valid)
	})

	t.Run("GetByID of another user is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, user.ID+1000, btc.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("ListAssetsForUser projects native totals", func(t *testing.T) {
		valuations, err := repo.ListAssetsForUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, valuations, 3)
		assert.Equal(t, models.AssetTypeCrypto, valuations[0].Type)
		assert.True(t, decimal.NewFromInt(25000).Equal(valuations[0].Value))
		assert.True(t, decimal.NewFromInt(20000).Equal(valuations[0].Cost))
		assert.Equal(t, "EUR", valuations[1].Currency)
	})

	t.Run("List filters sorts and pages", func(t *testing.T) {
		items, total, err := repo.List(ctx, repositories.AssetFilter{
			UserID: user.ID, SortBy: repositories.SortByValue, SortDesc: true, Limit: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, items, 2)
		assert.Equal(t, flat.ID, items[0].ID)

		items, total, err = repo.List(ctx, repositories.AssetFilter{
			UserID: user.ID, Type: models.AssetTypeStock, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "SAP", items[0].Name)

		_, total, err = repo.List(ctx, repositories.AssetFilter{UserID: user.ID, Search: "bit", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		for _, search := range []string{"%", "_", `\`} {
			_, total, err = repo.List(ctx, repositories.AssetFilter{UserID: user.ID, Search: search, Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, 0, total, "search %q", search)
		}
	})

	t.Run("Update changes asset and details", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID, sap.ID)
		require.NoError(t, err)
		got.Name = "SAP SE"
		got.CurrentPrice = decimal.NewFromInt(130)
		got.StockDetails.Sector = strPtr("Technology")

		require.NoError(t, repo.Update(ctx, got))

		updated, err := repo.GetByID(ctx, user.ID, sap.ID)
		require.NoError(t, err)
		assert.Equal(t, "SAP SE", updated.Name)
		assert.Equal(t, "Technology", *updated.StockDetails.Sector)
	})

	t.Run("SoftDelete hides the asset everywhere", func(t *testing.T) {
		require.NoError(t, repo.SoftDelete(ctx, user.ID, btc.ID))

		_, err := repo.GetByID(ctx, user.ID, btc.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		valuations, err := repo.ListAssetsForUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, valuations, 2)

		assert.ErrorIs(t, repo.SoftDelete(ctx, user.ID, btc.ID), repositories.ErrNotFound)
	})
}
