package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"assetmanager/src/models"
	"assetmanager/src/repositories"
	"assetmanager/src/schemas"
	"assetmanager/src/utils"

	"github.com/shopspring/decimal"
)

const maxAssetNameLength = 100

var israelCountries = map[string]bool{"Israel": true, "IL": true}

type AssetService struct {
	repo   repositories.AssetRepository
	prices PriceLookup
}

func NewAssetService(repo repositories.AssetRepository, prices PriceLookup) *AssetService {
	return &AssetService{repo: repo, prices: prices}
}

func validateCreate(req *schemas.CreateAssetRequest) error {
	v := NewValidationError()

	if strings.TrimSpace(req.Name) == "" {
		v.Add("name", "Name is required.")
	} else if utf8.RuneCountInString(req.Name) > maxAssetNameLength {
		v.Add("name", fmt.Sprintf("Name must be at most %d characters.", maxAssetNameLength))
	}
	if !req.Quantity.IsPositive() {
		v.Add("quantity", "Quantity must be greater than 0.")
	}
	if req.CostBasis.IsNegative() {
		v.Add("costBasis", "Cost basis must be >= 0.")
	}
	if req.CurrentPrice.IsNegative() {
		v.Add("currentPrice", "Current price must be >= 0.")
	}
	if req.Currency != "" && !utils.IsKnownCurrency(req.Currency) {
		v.Add("currency", "Currency must be an ISO 4217 code.")
	}

	switch req.Type {
	case models.AssetTypeCrypto:
		if req.CryptoDetails == nil || strings.TrimSpace(req.CryptoDetails.Symbol) == "" {
			v.Add("cryptoDetails.symbol", "Symbol is required for crypto assets.")
		}
	case models.AssetTypeStock:
		if req.StockDetails == nil || strings.TrimSpace(req.StockDetails.Symbol) == "" {
			v.Add("stockDetails.symbol", "Symbol is required for stock assets.")
		}
		if req.StockDetails != nil && req.StockDetails.DividendYield != nil && req.StockDetails.DividendYield.IsNegative() {
			v.Add("stockDetails.dividendYield", "Dividend yield must be >= 0.")
		}
	case models.AssetTypeRealEstate:
		d := req.RealEstateDetails
		if d == nil {
			v.Add("realEstateDetails", "Real estate details are required.")
			break
		}
		if !d.PropertyType.Valid() {
			v.Add("realEstateDetails.propertyType", "Property type must be House, Apartment, Commercial or Land.")
		}
		if strings.TrimSpace(d.Address) == "" {
			v.Add("realEstateDetails.address", "Address is required.")
		}
		if strings.TrimSpace(d.City) == "" {
			v.Add("realEstateDetails.city", "City is required.")
		}
		if strings.TrimSpace(d.State) == "" {
			v.Add("realEstateDetails.state", "State is required.")
		}
		if !d.PurchasePrice.IsPositive() {
			v.Add("realEstateDetails.purchasePrice", "Purchase price must be > 0.")
		}
	default:
		v.Add("type", "Type must be Crypto, Stock or RealEstate.")
	}
	return v.Err()
}

// Create validates the request, fills in a market price and currency where the request
// leaves them out, and stores the asset.
func (s *AssetService) Create(ctx context.Context, userID int, req *schemas.CreateAssetRequest) (*schemas.AssetResponse, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	logger := utils.LoggerFromContext(ctx).WithField("user_id", userID)

	currentPrice := req.CurrentPrice
	currency := utils.DefaultCurrency
	if req.Currency != "" {
		currency = utils.NormalizeCurrency(req.Currency)
	}

	switch {
	case currentPrice.IsZero() && req.Type == models.AssetTypeCrypto:
		quote, err := s.prices.LookupCrypto(ctx, req.CryptoDetails.Symbol)
		if err != nil {
			logger.WithError(err).Warn("crypto price lookup failed")
		} else if quote != nil {
			currentPrice = quote.Price
			currency = quote.Currency
		}
	case currentPrice.IsZero() && req.Type == models.AssetTypeStock:
		quote, err := s.prices.LookupStock(ctx, req.StockDetails.Symbol, deref(req.StockDetails.Exchange))
		if err != nil {
			logger.WithError(err).Warn("stock price lookup failed")
		} else if quote != nil {
			currentPrice = quote.Price
			currency = quote.Currency
		}
	case req.Type == models.AssetTypeStock && req.Currency == "":
		quote, err := s.prices.LookupStock(ctx, req.StockDetails.Symbol, deref(req.StockDetails.Exchange))
		if err != nil {
			logger.WithError(err).Warn("stock currency lookup failed")
		} else if quote != nil {
			currency = quote.Currency
		}
	}

	quantity := req.Quantity
	if req.Type == models.AssetTypeRealEstate {
		quantity = decimal.NewFromInt(1)
		if req.Currency == "" {
			currency = realEstateCurrency(req.RealEstateDetails.Country)
		}
	}

	asset := &models.Asset{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Type:         req.Type,
		Quantity:     quantity,
		CostBasis:    req.CostBasis,
		CurrentPrice: currentPrice,
		Currency:     currency,
		Notes:        req.Notes,
	}
	switch req.Type {
	case models.AssetTypeCrypto:
		asset.CryptoDetails = cryptoDetailsFromRequest(req.CryptoDetails)
	case models.AssetTypeStock:
		asset.StockDetails = stockDetailsFromRequest(req.StockDetails)
	case models.AssetTypeRealEstate:
		asset.RealEstateDetails = realEstateDetailsFromRequest(req.RealEstateDetails)
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}
	logger.WithField("asset_id", asset.ID).Info("asset created")

	response := toAssetResponse(asset)
	return &response, nil
}

func realEstateCurrency(country *string) string {
	if country != nil && israelCountries[strings.TrimSpace(*country)] {
		return "ILS"
	}
	return utils.DefaultCurrency
}

// parseSort reads "field:dir". Direction defaults to descending, and an unknown field
// falls back to newest first regardless of the requested direction.
func parseSort(sort string) (repositories.AssetSortField, bool) {
	field, dir, _ := strings.Cut(sort, ":")
	sortBy := repositories.AssetSortField(strings.ToLower(strings.TrimSpace(field)))
	if !sortBy.Valid() {
		return repositories.SortByDate, true
	}
	return sortBy, !strings.EqualFold(strings.TrimSpace(dir), "asc")
}

func (s *AssetService) List(ctx context.Context, userID int, query schemas.AssetListQuery) (*schemas.AssetListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = utils.DefaultPageSize
	}
	if pageSize > utils.MaxPageSize {
		pageSize = utils.MaxPageSize
	}
	if query.Type != "" && !query.Type.Valid() {
		v := NewValidationError()
		v.Add("type", "Type must be Crypto, Stock or RealEstate.")
		return nil, v
	}

	sortBy, desc := parseSort(query.Sort)
	assets, total, err := s.repo.List(ctx, repositories.AssetFilter{
		UserID:   userID,
		Type:     query.Type,
		Search:   strings.TrimSpace(query.Search),
		SortBy:   sortBy,
		SortDesc: desc,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}

	items := make([]schemas.AssetResponse, 0, len(assets))
	for i := range assets {
		items = append(items, toAssetResponse(&assets[i]))
	}
	return &schemas.AssetListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  page*pageSize < total,
	}, nil
}

func (s *AssetService) get(ctx context.Context, userID, id int) (*models.Asset, error) {
	asset, err := s.repo.GetByID(ctx, userID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrAssetNotFound, id)
	}
	return asset, err
}

func (s *AssetService) Get(ctx context.Context, userID, id int) (*schemas.AssetResponse, error) {
	asset, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	response := toAssetResponse(asset)
	return &response, nil
}

// Update applies the non-nil fields of req. Quantity is ignored for real estate and
// details only apply when they match the asset's existing detail kind.
func (s *AssetService) Update(ctx context.Context, userID, id int, req *schemas.UpdateAssetRequest) (*schemas.AssetResponse, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}
	asset, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		asset.Name = strings.TrimSpace(*req.Name)
	}
	if req.Quantity != nil && asset.Type != models.AssetTypeRealEstate {
		asset.Quantity = *req.Quantity
	}
	if req.CostBasis != nil {
		asset.CostBasis = *req.CostBasis
	}
	if req.CurrentPrice != nil {
		asset.CurrentPrice = *req.CurrentPrice
	}
	if req.Notes != nil {
		asset.Notes = req.Notes
	}
	if req.CryptoDetails != nil && asset.CryptoDetails != nil {
		asset.CryptoDetails = cryptoDetailsFromRequest(req.CryptoDetails)
	}
	if req.StockDetails != nil && asset.StockDetails != nil {
		asset.StockDetails = stockDetailsFromRequest(req.StockDetails)
	}
	if req.RealEstateDetails != nil && asset.RealEstateDetails != nil {
		asset.RealEstateDetails = realEstateDetailsFromRequest(req.RealEstateDetails)
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrAssetNotFound, id)
		}
		return nil, fmt.Errorf("updating asset %d: %w", id, err)
	}
	response := toAssetResponse(asset)
	return &response, nil
}

func validateUpdate(req *schemas.UpdateAssetRequest) error {
	v := NewValidationError()
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			v.Add("name", "Name is required.")
		} else if utf8.RuneCountInString(name) > maxAssetNameLength {
			v.Add("name", fmt.Sprintf("Name must be at most %d characters.", maxAssetNameLength))
		}
	}
	if req.Quantity != nil && !req.Quantity.IsPositive() {
		v.Add("quantity", "Quantity must be greater than 0.")
	}
	if req.CostBasis != nil && req.CostBasis.IsNegative() {
		v.Add("costBasis", "Cost basis must be >= 0.")
	}
	if req.CurrentPrice != nil && req.CurrentPrice.IsNegative() {
		v.Add("currentPrice", "Current price must be >= 0.")
	}
	if req.CryptoDetails != nil && strings.TrimSpace(req.CryptoDetails.Symbol) == "" {
		v.Add("cryptoDetails.symbol", "Symbol is required for crypto assets.")
	}
	if req.StockDetails != nil && strings.TrimSpace(req.StockDetails.Symbol) == "" {
		v.Add("stockDetails.symbol", "Symbol is required for stock assets.")
	}
	return v.Err()
}

func (s *AssetService) Delete(ctx context.Context, userID, id int) error {
	err := s.repo.SoftDelete(ctx, userID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrAssetNotFound, id)
	}
	return err
}

// ValidateSymbol checks a symbol against the market data providers. Provider failures
// are reported as an invalid symbol.
func (s *AssetService) ValidateSymbol(ctx context.Context, req *schemas.ValidateSymbolRequest) (*schemas.ValidateSymbolResponse, error) {
	invalid := &schemas.ValidateSymbolResponse{Valid: false}
	if strings.TrimSpace(req.Symbol) == "" {
		return invalid, nil
	}

	var (
		quote *schemas.PriceQuote
		err   error
	)
	switch req.Type {
	case models.AssetTypeCrypto:
		quote, err = s.prices.LookupCrypto(ctx, req.Symbol)
	case models.AssetTypeStock:
		quote, err = s.prices.LookupStock(ctx, req.Symbol, req.Exchange)
	default:
		return invalid, nil
	}
	if err != nil {
		utils.LoggerFromContext(ctx).WithError(err).WithField("symbol", req.Symbol).Warn("symbol lookup failed")
		return invalid, nil
	}
	if quote == nil {
		return invalid, nil
	}

	price := quote.Price
	return &schemas.ValidateSymbolResponse{
		Valid:        true,
		Name:         quote.Name,
		CurrentPrice: &price,
		Currency:     quote.Currency,
		Exchange:     quote.Exchange,
	}, nil
}
