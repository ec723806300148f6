package services

import (
	"context"
	"errors"
	"strings"

	"assetmanager/src/clients/coingecko"
	"assetmanager/src/clients/yahoo"
	"assetmanager/src/schemas"
)

// CoinGecko quotes are always requested in this currency.
const cryptoQuoteCurrency = "USD"

type PriceLookup interface {
	LookupCrypto(ctx context.Context, symbol string) (*schemas.PriceQuote, error)
	LookupStock(ctx context.Context, symbol, exchange string) (*schemas.PriceQuote, error)
}

type PriceService struct {
	coingecko coingecko.CoinGeckoServiceClientI
	yahoo     yahoo.YahooServiceClientI
}

func NewPriceService(coingeckoClient coingecko.CoinGeckoServiceClientI, yahooClient yahoo.YahooServiceClientI) *PriceService {
	return &PriceService{coingecko: coingeckoClient, yahoo: yahooClient}
}

// LookupCrypto resolves symbol to a CoinGecko coin by exact symbol match. It returns nil
// without error when no coin matches. A matched coin without a quote is priced at 0.
func (s *PriceService) LookupCrypto(ctx context.Context, symbol string) (*schemas.PriceQuote, error) {
	symbol = strings.TrimSpace(symbol)
	search, err := s.coingecko.Search(ctx, symbol)
	if err != nil {
		return nil, err
	}

	coin, ok := coingecko.FindBySymbol(search.Coins, symbol)
	if !ok {
		return nil, nil
	}

	price, _, err := s.coingecko.GetSimplePrice(ctx, coin.ID, cryptoQuoteCurrency)
	if err != nil {
		return nil, err
	}
	return &schemas.PriceQuote{
		Symbol:   strings.ToUpper(coin.Symbol),
		Name:     coin.Name,
		Price:    price,
		Currency: cryptoQuoteCurrency,
	}, nil
}

// LookupStock returns nil without error when Yahoo has no price for the listing.
func (s *PriceService) LookupStock(ctx context.Context, symbol, exchange string) (*schemas.PriceQuote, error) {
	quote, err := s.yahoo.GetQuote(ctx, symbol, exchange)
	if errors.Is(err, yahoo.ErrNoPrice) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &schemas.PriceQuote{
		Symbol:   quote.Symbol,
		Name:     quote.Name,
		Price:    quote.Price,
		Currency: quote.Currency,
		Exchange: quote.Exchange,
	}, nil
}
