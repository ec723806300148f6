package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assetmanager/src/models"
	"assetmanager/src/repositories"
	"assetmanager/src/schemas"
	"assetmanager/src/utils"
)

const (
	devUserEmail = "dev@localhost"
	devUserName  = "Developer"
)

type UserService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) get(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", userID, err)
	}
	return user, nil
}

// PreferredCurrency returns the user's display currency, USD when none is stored.
func (s *UserService) PreferredCurrency(ctx context.Context, userID int) (string, error) {
	user, err := s.get(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.PreferredCurrency == "" {
		return utils.DefaultCurrency, nil
	}
	return utils.NormalizeCurrency(user.PreferredCurrency), nil
}

func (s *UserService) GetSettings(ctx context.Context, userID int) (*schemas.UserSettingsResponse, error) {
	currency, err := s.PreferredCurrency(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &schemas.UserSettingsResponse{PreferredCurrency: currency}, nil
}

func (s *UserService) UpdateSettings(ctx context.Context, userID int, req *schemas.UpdateUserSettingsRequest) (*schemas.UserSettingsResponse, error) {
	if !utils.IsSupportedDisplayCurrency(req.PreferredCurrency) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, req.PreferredCurrency)
	}
	currency := utils.NormalizeCurrency(req.PreferredCurrency)

	err := s.repo.UpdatePreferredCurrency(ctx, userID, currency)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("updating settings for user %d: %w", userID, err)
	}

	utils.LoggerFromContext(ctx).WithField("user_id", userID).WithField("currency", currency).Info("preferred currency updated")
	return &schemas.UserSettingsResponse{PreferredCurrency: currency}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int) (*schemas.ProfileResponse, error) {
	user, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	currency := user.PreferredCurrency
	if currency == "" {
		currency = utils.DefaultCurrency
	}
	return &schemas.ProfileResponse{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		PictureURL:        user.PictureURL,
		PreferredCurrency: currency,
	}, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// DevLogin creates or refreshes a local user keyed by email, for environments without
// an identity provider.
func (s *UserService) DevLogin(ctx context.Context, req *schemas.DevLoginRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		email = devUserEmail
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = devUserName
	}

	user := &models.User{
		GoogleID: "dev:" + email,
		Email:    &email,
		Name:     &name,
	}
	if err := s.repo.UpsertByGoogleID(ctx, user); err != nil {
		return nil, fmt.Errorf("upserting dev user: %w", err)
	}
	return user, nil
}
