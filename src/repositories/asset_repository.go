package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assetmanager/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type AssetSortField string

const (
	SortByDate  AssetSortField = "date"
	SortByName  AssetSortField = "name"
	SortByValue AssetSortField = "value"
	SortByType  AssetSortField = "type"
)

var assetSortColumns = map[AssetSortField]string{
	SortByDate:  "a.created_at",
	SortByName:  "a.name",
	SortByValue: "(a.quantity * a.current_price)",
	SortByType:  "a.type",
}

func (f AssetSortField) Valid() bool {
	_, ok := assetSortColumns[f]
	return ok
}

type AssetFilter struct {
	UserID   int
	Type     models.AssetType
	Search   string
	SortBy   AssetSortField
	SortDesc bool
	Limit    int
	Offset   int
}

// AssetRepository never returns soft-deleted assets from any read.
type AssetRepository interface {
	ListAssetsForUser(ctx context.Context, userID int) ([]models.AssetValuation, error)
	List(ctx context.Context, filter AssetFilter) ([]models.Asset, int, error)
	GetByID(ctx context.Context, userID, id int) (*models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) error
	Update(ctx context.Context, asset *models.Asset) error
	SoftDelete(ctx context.Context, userID, id int) error
}

type assetRepo struct {
	db *pgxpool.Pool
}

func NewAssetRepository(db *pgxpool.Pool) AssetRepository {
	return &assetRepo{db: db}
}

const assetSelect = `
SELECT a.id, a.user_id, a.name, a.type, a.quantity, a.cost_basis, a.current_price, a.currency,
       a.notes, a.is_deleted, a.created_at, a.updated_at,
       c.symbol, c.network, c.wallet_address, c.exchange, c.staking,
       s.symbol, s.exchange, s.sector, s.dividend_yield,
       r.property_type, r.square_feet, r.bedrooms, r.bathrooms, r.year_built, r.address, r.city,
       r.state, r.zip_code, r.country, r.purchase_price, r.current_value, r.mortgage_balance,
       r.monthly_rent, r.monthly_expenses
FROM assets a
LEFT JOIN crypto_details c ON c.asset_id = a.id
LEFT JOIN stock_details s ON s.asset_id = a.id
LEFT JOIN real_estate_details r ON r.asset_id = a.id`

func scanAsset(row pgx.Row) (*models.Asset, error) {
	var (
		asset models.Asset

		cryptoSymbol, cryptoNetwork, cryptoWallet, cryptoExchange *string
		cryptoStaking                                             *bool

		stock       models.StockDetails
		stockSymbol *string

		re                   models.RealEstateDetails
		propertyType         *string
		address, city, state *string
		purchasePrice        decimal.NullDecimal
	)

	err := row.Scan(
		&asset.ID, &asset.UserID, &asset.Name, &asset.Type, &asset.Quantity, &asset.CostBasis,
		&asset.CurrentPrice, &asset.Currency, &asset.Notes, &asset.IsDeleted, &asset.CreatedAt, &asset.UpdatedAt,
		&cryptoSymbol, &cryptoNetwork, &cryptoWallet, &cryptoExchange, &cryptoStaking,
		&stockSymbol, &stock.Exchange, &stock.Sector, &stock.DividendYield,
		&propertyType, &re.SquareFeet, &re.Bedrooms, &re.Bathrooms, &re.YearBuilt, &address, &city,
		&state, &re.ZipCode, &re.Country, &purchasePrice, &re.CurrentValue, &re.MortgageBalance,
		&re.MonthlyRent, &re.MonthlyExpenses,
	)
	if err != nil {
		return nil, err
	}
	asset.Currency = strings.TrimSpace(asset.Currency)

	switch asset.Type {
	case models.AssetTypeCrypto:
		if cryptoSymbol != nil {
			asset.CryptoDetails = &models.CryptoDetails{
				Symbol:        *cryptoSymbol,
				Network:       cryptoNetwork,
				WalletAddress: cryptoWallet,
				Exchange:      cryptoExchange,
				Staking:       cryptoStaking != nil && *cryptoStaking,
			}
		}
	case models.AssetTypeStock:
		if stockSymbol != nil {
			stock.Symbol = *stockSymbol
			asset.StockDetails = &stock
		}
	case models.AssetTypeRealEstate:
		if propertyType != nil {
			re.PropertyType = models.PropertyType(*propertyType)
			re.Address = deref(address)
			re.City = deref(city)
			re.State = deref(state)
			re.PurchasePrice = purchasePrice.Decimal
			asset.RealEstateDetails = &re
		}
	}
	return &asset, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListAssetsForUser projects every live asset of userID to its native-currency totals.
func (r *assetRepo) ListAssetsForUser(ctx context.Context, userID int) ([]models.AssetValuation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT type, currency, quantity * current_price, quantity * cost_basis
		 FROM assets
		 WHERE user_id = $1 AND is_deleted = FALSE
		 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var valuations []models.AssetValuation
	for rows.Next() {
		var v models.AssetValuation
		if err := rows.Scan(&v.Type, &v.Currency, &v.Value, &v.Cost); err != nil {
			return nil, err
		}
		v.Currency = strings.TrimSpace(v.Currency)
		valuations = append(valuations, v)
	}
	return valuations, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *assetRepo) List(ctx context.Context, filter AssetFilter) ([]models.Asset, int, error) {
	where := []string{"a.user_id = $1", "a.is_deleted = FALSE"}
	args := []interface{}{filter.UserID}

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where = append(where, fmt.Sprintf("a.type = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		where = append(where, fmt.Sprintf(`a.name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM assets a"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, ok := assetSortColumns[filter.SortBy]
	if !ok {
		column = assetSortColumns[SortByDate]
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("%s%s ORDER BY %s %s, a.id %s LIMIT $%d OFFSET $%d",
		assetSelect, whereClause, column, direction, direction, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, *asset)
	}
	return assets, total, rows.Err()
}

func (r *assetRepo) GetByID(ctx context.Context, userID, id int) (*models.Asset, error) {
	row := r.db.QueryRow(ctx, assetSelect+" WHERE a.id = $1 AND a.user_id = $2 AND a.is_deleted = FALSE", id, userID)
	asset, err := scanAsset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return asset, err
}

// Create inserts the asset and the detail record matching its type in one transaction.
func (r *assetRepo) Create(ctx context.Context, asset *models.Asset) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO assets (user_id, name, type, quantity, cost_basis, current_price, currency, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		asset.UserID, asset.Name, string(asset.Type), asset.Quantity, asset.CostBasis,
		asset.CurrentPrice, asset.Currency, asset.Notes,
	).Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertDetails(ctx, tx, asset); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertDetails(ctx context.Context, tx pgx.Tx, asset *models.Asset) error {
	var err error
	switch {
	case asset.Type == models.AssetTypeCrypto && asset.CryptoDetails != nil:
		d := asset.CryptoDetails
		_, err = tx.Exec(ctx,
			`INSERT INTO crypto_details (asset_id, symbol, network, wallet_address, exchange, staking)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			asset.ID, d.Symbol, d.Network, d.WalletAddress, d.Exchange, d.Staking)
	case asset.Type == models.AssetTypeStock && asset.StockDetails != nil:
		d := asset.StockDetails
		_, err = tx.Exec(ctx,
			`INSERT INTO stock_details (asset_id, symbol, exchange, sector, dividend_yield)
			 VALUES ($1, $2, $3, $4, $5)`,
			asset.ID, d.Symbol, d.Exchange, d.Sector, d.DividendYield)
	case asset.Type == models.AssetTypeRealEstate && asset.RealEstateDetails != nil:
		d := asset.RealEstateDetails
		_, err = tx.Exec(ctx,
			`INSERT INTO real_estate_details (asset_id, property_type, square_feet, bedrooms, bathrooms,
			   year_built, address, city, state, zip_code, country, purchase_price, current_value,
			   mortgage_balance, monthly_rent, monthly_expenses)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			asset.ID, string(d.PropertyType), d.SquareFeet, d.Bedrooms, d.Bathrooms, d.YearBuilt,
			d.Address, d.City, d.State, d.ZipCode, d.Country, d.PurchasePrice, d.CurrentValue,
			d.MortgageBalance, d.MonthlyRent, d.MonthlyExpenses)
	}
	return err
}

// Update writes the asset row and its existing detail record.
func (r *assetRepo) Update(ctx context.Context, asset *models.Asset) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`UPDATE assets
		 SET name = $1, quantity = $2, cost_basis = $3, current_price = $4, currency = $5,
		     notes = $6, updated_at = NOW()
		 WHERE id = $7 AND user_id = $8 AND is_deleted = FALSE
		 RETURNING updated_at`,
		asset.Name, asset.Quantity, asset.CostBasis, asset.CurrentPrice, asset.Currency,
		asset.Notes, asset.ID, asset.UserID,
	).Scan(&asset.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	switch {
	case asset.CryptoDetails != nil:
		d := asset.CryptoDetails
		_, err = tx.Exec(ctx,
			`UPDATE crypto_details SET symbol = $1, network = $2, wallet_address = $3, exchange = $4, staking = $5
			 WHERE asset_id = $6`,
			d.Symbol, d.Network, d.WalletAddress, d.Exchange, d.Staking, asset.ID)
	case asset.StockDetails != nil:
		d := asset.StockDetails
		_, err = tx.Exec(ctx,
			`UPDATE stock_details SET symbol = $1, exchange = $2, sector = $3, dividend_yield = $4
			 WHERE asset_id = $5`,
			d.Symbol, d.Exchange, d.Sector, d.DividendYield, asset.ID)
	case asset.RealEstateDetails != nil:
		d := asset.RealEstateDetails
		_, err = tx.Exec(ctx,
			`UPDATE real_estate_details
			 SET property_type = $1, square_feet = $2, bedrooms = $3, bathrooms = $4, year_built = $5,
			     address = $6, city = $7, state = $8, zip_code = $9, country = $10, purchase_price = $11,
			     current_value = $12, mortgage_balance = $13, monthly_rent = $14, monthly_expenses = $15
			 WHERE asset_id = $16`,
			string(d.PropertyType), d.SquareFeet, d.Bedrooms, d.Bathrooms, d.YearBuilt, d.Address,
			d.City, d.State, d.ZipCode, d.Country, d.PurchasePrice, d.CurrentValue, d.MortgageBalance,
			d.MonthlyRent, d.MonthlyExpenses, asset.ID)
	}
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *assetRepo) SoftDelete(ctx context.Context, userID, id int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE assets SET is_deleted = TRUE, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
