package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	Auth            AuthConfig           `mapstructure:"auth"`
	CORS            CORSConfig           `mapstructure:"cors"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	Cache           CacheConfig          `mapstructure:"cache"`
	Worker          WorkerConfig         `mapstructure:"worker"`
	Logging         LoggingConfig        `mapstructure:"logging"`
	AWS             AWSConfig            `mapstructure:"aws"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type     ServiceType `mapstructure:"type"`
	Port     string      `mapstructure:"port"`
	DevLogin bool        `mapstructure:"devLogin"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
	MaxConns         int32  `mapstructure:"maxConns"`
}

// DSN builds the postgres connection string, preferring an explicit connection_string.
func (c SQLConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.Username, c.Password, c.Database, c.Port)
}

// RedisConfig is optional. When Host is empty the rate cache stays in memory.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TLS      bool   `mapstructure:"tls"`
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwtSecret"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type ExternalClientConfig struct {
	CoinGecko    ClientConfig `mapstructure:"coingecko"`
	ExchangeRate ClientConfig `mapstructure:"exchangerate"`
	Yahoo        ClientConfig `mapstructure:"yahoo"`
}

type ClientConfig struct {
	BaseURL   string        `mapstructure:"baseUrl"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"userAgent"`
}

type CacheConfig struct {
	RateTTL time.Duration `mapstructure:"rateTTL"`
}

type WorkerConfig struct {
	SnapshotCron string `mapstructure:"snapshotCron"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region"`
	SecretID string `mapstructure:"secretId"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.type", string(API))
	v.SetDefault("service.port", "8000")
	v.SetDefault("databases.sql.maxConns", 10)
	v.SetDefault("auth.tokenTTL", 7*24*time.Hour)
	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:5173"})
	v.SetDefault("externalClients.coingecko.baseUrl", "https://api.coingecko.com/api/v3")
	v.SetDefault("externalClients.coingecko.timeout", 10*time.Second)
	v.SetDefault("externalClients.exchangerate.baseUrl", "https://api.exchangerate-api.com/v4")
	v.SetDefault("externalClients.exchangerate.timeout", 10*time.Second)
	v.SetDefault("externalClients.yahoo.timeout", 10*time.Second)
	v.SetDefault("cache.rateTTL", time.Hour)
	v.SetDefault("worker.snapshotCron", "5 0 * * *")
	v.SetDefault("logging.level", "info")
}

// LoadConfig reads appsettings.yaml from path, overlays appsettings.<env>.yaml when env is
// set, and finally APP_ prefixed environment variables.
func LoadConfig(path string, env string) (*Config, error) {
	var cfg Config

	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	if env != "" {
		v.SetConfigName("appsettings." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
