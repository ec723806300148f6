package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"assetmanager/src/config"
	"assetmanager/src/utils/requests"

	"github.com/shopspring/decimal"
)

type CoinGeckoServiceClientI interface {
	Search(ctx context.Context, query string) (*SearchResponse, error)
	GetSimplePrice(ctx context.Context, coinID, vsCurrency string) (decimal.Decimal, bool, error)
}

type CoinGeckoServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
}

func NewClient(cfg *config.Config) *CoinGeckoServiceClient {
	clientCfg := cfg.ExternalClients.CoinGecko
	return &CoinGeckoServiceClient{
		API:     requests.NewExternalAPIService(clientCfg.Timeout, clientCfg.UserAgent),
		BaseURL: strings.TrimSuffix(clientCfg.BaseURL, "/"),
	}
}

func (c *CoinGeckoServiceClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	params := url.Values{}
	params.Add("query", query)

	var response SearchResponse
	if err := c.API.GetJSON(ctx, c.BaseURL+"/search", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetSimplePrice returns the price of coinID in vsCurrency. The bool is false when the
// provider has no quote for the pair.
func (c *CoinGeckoServiceClient) GetSimplePrice(ctx context.Context, coinID, vsCurrency string) (decimal.Decimal, bool, error) {
	vs := strings.ToLower(vsCurrency)
	params := url.Values{}
	params.Add("ids", coinID)
	params.Add("vs_currencies", vs)

	var response SimplePriceResponse
	if err := c.API.GetJSON(ctx, c.BaseURL+"/simple/price", params, &response); err != nil {
		return decimal.Zero, false, fmt.Errorf("coingecko price for %s: %w", coinID, err)
	}

	price, ok := response[coinID][vs]
	return price, ok, nil
}

// FindBySymbol returns the first search hit whose symbol matches exactly, ignoring case.
func FindBySymbol(coins []Coin, symbol string) (Coin, bool) {
	for _, coin := range coins {
		if strings.EqualFold(coin.Symbol, symbol) {
			return coin, true
		}
	}
	return Coin{}, false
}
