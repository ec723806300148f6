package exchangerate

import "github.com/shopspring/decimal"

type LatestRatesResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}
