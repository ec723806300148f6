package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"assetmanager/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseSettings = `
service:
  type: API
  port: "9000"
databases:
  sql:
    host: localhost
    port: "5432"
    username: postgres
    password: postgres
    database: assets
auth:
  jwtSecret: base-secret
cache:
  rateTTL: 30m
`

const testingSettings = `
databases:
  sql:
    database: assets_test
service:
  devLogin: true
`

func writeSettings(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads base settings and fills defaults", func(t *testing.T) {
		dir := writeSettings(t, map[string]string{"appsettings.yaml": baseSettings})

		cfg, err := config.LoadConfig(dir, "")
		require.NoError(t, err)

		assert.Equal(t, config.API, cfg.Service.Type)
		assert.Equal(t, "9000", cfg.Service.Port)
		assert.Equal(t, "assets", cfg.Databases.SQL.Database)
		assert.Equal(t, 30*time.Minute, cfg.Cache.RateTTL)
		assert.Equal(t, "5 0 * * *", cfg.Worker.SnapshotCron)
		assert.Equal(t, "https://api.exchangerate-api.com/v4", cfg.ExternalClients.ExchangeRate.BaseURL)
		assert.False(t, cfg.Databases.Redis.Enabled())
	})

	t.Run("overlays the environment file", func(t *testing.T) {
		dir := writeSettings(t, map[string]string{
			"appsettings.yaml":         baseSettings,
			"appsettings.TESTING.yaml": testingSettings,
		})

		cfg, err := config.LoadConfig(dir, "TESTING")
		require.NoError(t, err)

		assert.Equal(t, "assets_test", cfg.Databases.SQL.Database)
		assert.Equal(t, "localhost", cfg.Databases.SQL.Host)
		assert.True(t, cfg.Service.DevLogin)
	})

	t.Run("missing environment file is ignored", func(t *testing.T) {
		dir := writeSettings(t, map[string]string{"appsettings.yaml": baseSettings})

		cfg, err := config.LoadConfig(dir, "STAGING")
		require.NoError(t, err)
		assert.Equal(t, "assets", cfg.Databases.SQL.Database)
	})

	t.Run("missing base file fails", func(t *testing.T) {
		_, err := config.LoadConfig(t.TempDir(), "")
		assert.Error(t, err)
	})

	t.Run("environment variables win", func(t *testing.T) {
		dir := writeSettings(t, map[string]string{"appsettings.yaml": baseSettings})
		t.Setenv("APP_AUTH_JWTSECRET", "from-env")

		cfg, err := config.LoadConfig(dir, "")
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	})
}

func TestSQLConfigDSN(t *testing.T) {
	c := config.SQLConfig{Host: "db", Port: "5432", Username: "u", Password: "p", Database: "d"}
	assert.Equal(t, "host=db user=u password=p dbname=d port=5432 sslmode=disable", c.DSN())

	c.ConnectionString = "postgres://x"
	assert.Equal(t, "postgres://x", c.DSN())
}

type fakeSecrets struct {
	value string
	err   error
	asked string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, id string) (string, error) {
	f.asked = id
	return f.value, f.err
}

func TestApplySecrets(t *testing.T) {
	t.Run("no secret id leaves config untouched", func(t *testing.T) {
		cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "keep"}}
		fetcher := &fakeSecrets{}

		require.NoError(t, config.ApplySecrets(context.Background(), cfg, fetcher))
		assert.Equal(t, "keep", cfg.Auth.JWTSecret)
		assert.Empty(t, fetcher.asked)
	})

	t.Run("overrides jwt secret and db password", func(t *testing.T) {
		cfg := &config.Config{AWS: config.AWSConfig{SecretID: "assets/prod"}}
		fetcher := &fakeSecrets{value: `{"jwtSecret":"s3cr3t","dbPassword":"pw"}`}

		require.NoError(t, config.ApplySecrets(context.Background(), cfg, fetcher))
		assert.Equal(t, "assets/prod", fetcher.asked)
		assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
		assert.Equal(t, "pw", cfg.Databases.SQL.Password)
	})

	t.Run("fetch failure is returned", func(t *testing.T) {
		cfg := &config.Config{AWS: config.AWSConfig{SecretID: "assets/prod"}}
		fetcher := &fakeSecrets{err: errors.New("denied")}

		err := config.ApplySecrets(context.Background(), cfg, fetcher)
		assert.ErrorContains(t, err, "denied")
	})

	t.Run("invalid json is rejected", func(t *testing.T) {
		cfg := &config.Config{AWS: config.AWSConfig{SecretID: "assets/prod"}}
		err := config.ApplySecrets(context.Background(), cfg, &fakeSecrets{value: "nope"})
		assert.Error(t, err)
	})
}
