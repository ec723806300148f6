package config

import (
	"context"
	"encoding/json"
	"fmt"
)

// SecretFetcher returns the raw string value of a secret.
type SecretFetcher interface {
	GetSecretValue(ctx context.Context, secretID string) (string, error)
}

type secretOverlay struct {
	JWTSecret  string `json:"jwtSecret"`
	DBPassword string `json:"dbPassword"`
}

// ApplySecrets overrides the jwt secret and database password with the values stored in
// cfg.AWS.SecretID. It is a no-op when no secret id is configured.
func ApplySecrets(ctx context.Context, cfg *Config, fetcher SecretFetcher) error {
	if cfg.AWS.SecretID == "" {
		return nil
	}
	raw, err := fetcher.GetSecretValue(ctx, cfg.AWS.SecretID)
	if err != nil {
		return fmt.Errorf("fetching secret %s: %w", cfg.AWS.SecretID, err)
	}

	var overlay secretOverlay
	if err := json.Unmarshal([]byte(raw), &overlay); err != nil {
		return fmt.Errorf("parsing secret %s: %w", cfg.AWS.SecretID, err)
	}
	if overlay.JWTSecret != "" {
		cfg.Auth.JWTSecret = overlay.JWTSecret
	}
	if overlay.DBPassword != "" {
		cfg.Databases.SQL.Password = overlay.DBPassword
	}
	return nil
}
