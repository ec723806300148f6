package controllers

import (
	"context"

	"assetmanager/src/schemas"
)

func (c *Controller) CreateAsset(ctx context.Context, userID int, req *schemas.CreateAssetRequest) (*schemas.AssetResponse, error) {
	return c.Assets.Create(ctx, userID, req)
}

func (c *Controller) ListAssets(ctx context.Context, userID int, query schemas.AssetListQuery) (*schemas.AssetListResponse, error) {
	return c.Assets.List(ctx, userID, query)
}

func (c *Controller) GetAsset(ctx context.Context, userID, id int) (*schemas.AssetResponse, error) {
	return c.Assets.Get(ctx, userID, id)
}

func (c *Controller) UpdateAsset(ctx context.Context, userID, id int, req *schemas.UpdateAssetRequest) (*schemas.AssetResponse, error) {
	return c.Assets.Update(ctx, userID, id, req)
}

func (c *Controller) DeleteAsset(ctx context.Context, userID, id int) error {
	return c.Assets.Delete(ctx, userID, id)
}

func (c *Controller) ValidateSymbol(ctx context.Context, req *schemas.ValidateSymbolRequest) (*schemas.ValidateSymbolResponse, error) {
	return c.Assets.ValidateSymbol(ctx, req)
}
