package controllers

import (
	"context"

	"assetmanager/src/schemas"
	"assetmanager/src/services"

	"github.com/xuri/excelize/v2"
)

type IController interface {
	CreateAsset(ctx context.Context, userID int, req *schemas.CreateAssetRequest) (*schemas.AssetResponse, error)
	ListAssets(ctx context.Context, userID int, query schemas.AssetListQuery) (*schemas.AssetListResponse, error)
	GetAsset(ctx context.Context, userID, id int) (*schemas.AssetResponse, error)
	UpdateAsset(ctx context.Context, userID, id int, req *schemas.UpdateAssetRequest) (*schemas.AssetResponse, error)
	DeleteAsset(ctx context.Context, userID, id int) error
	ValidateSymbol(ctx context.Context, req *schemas.ValidateSymbolRequest) (*schemas.ValidateSymbolResponse, error)

	GetPortfolio(ctx context.Context, userID int) (*schemas.PortfolioSummary, error)
	GetPerformance(ctx context.Context, userID int) (*schemas.PortfolioPerformance, error)
	GetHistory(ctx context.Context, userID, days int) ([]schemas.DailySnapshot, error)
	ExportPortfolio(ctx context.Context, userID int) (*excelize.File, error)

	GetSettings(ctx context.Context, userID int) (*schemas.UserSettingsResponse, error)
	UpdateSettings(ctx context.Context, userID int, req *schemas.UpdateUserSettingsRequest) (*schemas.UserSettingsResponse, error)
	GetProfile(ctx context.Context, userID int) (*schemas.ProfileResponse, error)
	DevLogin(ctx context.Context, req *schemas.DevLoginRequest) (*schemas.TokenResponse, error)
}

type Controller struct {
	Assets    *services.AssetService
	Portfolio *services.PortfolioService
	Users     *services.UserService
	Tokens    *services.TokenService
	Export    *services.ExportService
}

func NewController(
	assets *services.AssetService,
	portfolio *services.PortfolioService,
	users *services.UserService,
	tokens *services.TokenService,
	export *services.ExportService,
) *Controller {
	return &Controller{Assets: assets, Portfolio: portfolio, Users: users, Tokens: tokens, Export: export}
}
