package coingecko

import "github.com/shopspring/decimal"

type SearchResponse struct {
	Coins []Coin `json:"coins"`
}

type Coin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank *int   `json:"market_cap_rank"`
}

// SimplePriceResponse maps coin id -> vs currency -> price.
type SimplePriceResponse map[string]map[string]decimal.Decimal
