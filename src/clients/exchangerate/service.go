package exchangerate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assetmanager/src/config"
	"assetmanager/src/utils/requests"

	"github.com/shopspring/decimal"
)

// ErrRateNotFound is returned when the provider answers but has no rate for the pair.
var ErrRateNotFound = errors.New("exchange rate not found")

type ExchangeRateServiceClientI interface {
	GetLatestRates(ctx context.Context, base string) (*LatestRatesResponse, error)
	GetRate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

type ExchangeRateServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
}

func NewClient(cfg *config.Config) *ExchangeRateServiceClient {
	clientCfg := cfg.ExternalClients.ExchangeRate
	return &ExchangeRateServiceClient{
		API:     requests.NewExternalAPIService(clientCfg.Timeout, clientCfg.UserAgent),
		BaseURL: strings.TrimSuffix(clientCfg.BaseURL, "/"),
	}
}

// GetLatestRates fetches every rate quoted against base.
func (c *ExchangeRateServiceClient) GetLatestRates(ctx context.Context, base string) (*LatestRatesResponse, error) {
	endpoint := fmt.Sprintf("%s/latest/%s", c.BaseURL, strings.ToUpper(base))

	var response LatestRatesResponse
	if err := c.API.GetJSON(ctx, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetRate returns how many units of to one unit of from buys.
func (c *ExchangeRateServiceClient) GetRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	latest, err := c.GetLatestRates(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := latest.Rates[strings.ToUpper(to)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrRateNotFound, strings.ToUpper(from), strings.ToUpper(to))
	}
	return rate, nil
}
