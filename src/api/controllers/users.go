package controllers

import (
	"context"

	"assetmanager/src/schemas"
)

func (c *Controller) GetSettings(ctx context.Context, userID int) (*schemas.UserSettingsResponse, error) {
	return c.Users.GetSettings(ctx, userID)
}

func (c *Controller) UpdateSettings(ctx context.Context, userID int, req *schemas.UpdateUserSettingsRequest) (*schemas.UserSettingsResponse, error) {
	return c.Users.UpdateSettings(ctx, userID, req)
}

func (c *Controller) GetProfile(ctx context.Context, userID int) (*schemas.ProfileResponse, error) {
	return c.Users.GetProfile(ctx, userID)
}

func (c *Controller) DevLogin(ctx context.Context, req *schemas.DevLoginRequest) (*schemas.TokenResponse, error) {
	user, err := c.Users.DevLogin(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.Tokens.Issue(user.ID)
}
