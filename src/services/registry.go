package services

import (
	"assetmanager/src/clients/coingecko"
	"assetmanager/src/clients/exchangerate"
	"assetmanager/src/clients/yahoo"
	"assetmanager/src/config"
	"assetmanager/src/repositories"
	"assetmanager/src/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Registry holds the services shared by the API and the worker.
type Registry struct {
	Assets      *AssetService
	Portfolio   *PortfolioService
	Users       *UserService
	Tokens      *TokenService
	Export      *ExportService
	Rates       *ExchangeRateService
	SnapshotJob *SnapshotJob
}

func NewRegistry(cfg *config.Config, db *pgxpool.Pool, cache utils.CacheHandlerI) *Registry {
	assetRepo := repositories.NewAssetRepository(db)
	snapshotRepo := repositories.NewSnapshotRepository(db)
	userRepo := repositories.NewUserRepository(db)

	rates := NewExchangeRateService(exchangerate.NewClient(cfg), cache, cfg.Cache.RateTTL)
	prices := NewPriceService(coingecko.NewClient(cfg), yahoo.NewClient(cfg))
	portfolio := NewPortfolioService(assetRepo, snapshotRepo, rates)
	users := NewUserService(userRepo)

	return &Registry{
		Assets:      NewAssetService(assetRepo, prices),
		Portfolio:   portfolio,
		Users:       users,
		Tokens:      NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Export:      NewExportService(assetRepo, portfolio),
		Rates:       rates,
		SnapshotJob: NewSnapshotJob(users, portfolio),
	}
}
