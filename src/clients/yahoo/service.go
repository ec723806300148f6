package yahoo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"assetmanager/src/config"

	"github.com/shopspring/decimal"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

var ErrNoPrice = errors.New("no price available")

type Quote struct {
	Symbol   string
	Name     string
	Exchange string
	Currency string
	Price    decimal.Decimal
}

type YahooServiceClientI interface {
	GetQuote(ctx context.Context, symbol, exchange string) (*Quote, error)
}

type YahooServiceClient struct {
	Timeout time.Duration
}

func NewClient(cfg *config.Config) *YahooServiceClient {
	return &YahooServiceClient{Timeout: cfg.ExternalClients.Yahoo.Timeout}
}

type quoteResult struct {
	quote *Quote
	err   error
}

// GetQuote resolves symbol on exchange and returns its latest price. The underlying
// library has no context support, so a cancelled ctx abandons the lookup instead of
// waiting for it.
func (c *YahooServiceClient) GetQuote(ctx context.Context, symbol, exchange string) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	yahooSymbol := BuildSymbol(symbol, exchange)

	ch := make(chan quoteResult, 1)
	go func() {
		quote, err := fetchQuote(yahooSymbol)
		ch <- quoteResult{quote: quote, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.quote, res.err
	}
}

func fetchQuote(yahooSymbol string) (*Quote, error) {
	t, err := ticker.New(yahooSymbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker %s: %w", yahooSymbol, err)
	}
	defer t.Close()

	var quote *models.Quote
	if q, err := t.Quote(); err == nil {
		quote = q
	}
	var info *models.Info
	if i, err := t.Info(); err == nil {
		info = i
	}
	return quoteFromTicker(yahooSymbol, quote, info)
}

// quoteFromTicker merges the quote and info payloads. Either may be nil. The currency
// reported by the provider wins; the listing suffix is only a fallback.
func quoteFromTicker(yahooSymbol string, quote *models.Quote, info *models.Info) (*Quote, error) {
	result := &Quote{Symbol: yahooSymbol}

	var price float64
	if quote != nil {
		switch {
		case quote.RegularMarketPrice > 0:
			price = quote.RegularMarketPrice
		case quote.PreMarketPrice > 0:
			price = quote.PreMarketPrice
		case quote.PostMarketPrice > 0:
			price = quote.PostMarketPrice
		}
		result.Currency = quote.Currency
		result.Name = quote.ShortName
		if result.Name == "" {
			result.Name = quote.LongName
		}
		result.Exchange = quote.Exchange
	}

	if info != nil {
		if result.Name == "" {
			result.Name = info.ShortName
		}
		if result.Name == "" {
			result.Name = info.LongName
		}
		if result.Exchange == "" {
			result.Exchange = info.Exchange
		}
		if result.Currency == "" {
			result.Currency = info.Currency
		}
		if price <= 0 {
			if info.CurrentPrice > 0 {
				price = info.CurrentPrice
			} else if info.RegularMarketPreviousClose > 0 {
				price = info.RegularMarketPreviousClose
			}
		}
	}

	if price <= 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoPrice, yahooSymbol)
	}
	result.Price = decimal.NewFromFloat(price)
	result.Currency = strings.TrimSpace(result.Currency)
	if major, ok := minorUnitCurrencies[result.Currency]; ok {
		result.Currency = major
		result.Price = result.Price.Div(decimal.NewFromInt(100))
	}
	result.Currency = strings.ToUpper(result.Currency)
	if result.Currency == "" {
		result.Currency = CurrencyForSymbol(yahooSymbol)
	}
	if result.Name == "" {
		result.Name = yahooSymbol
	}
	return result, nil
}
