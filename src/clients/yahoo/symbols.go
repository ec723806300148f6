package yahoo

import "strings"

var exchangeSuffixes = map[string]string{
	"TASE":      ".TA",
	"LSE":       ".L",
	"LONDON":    ".L",
	"TSX":       ".TO",
	"TORONTO":   ".TO",
	"ASX":       ".AX",
	"SYDNEY":    ".AX",
	"XETRA":     ".DE",
	"FRANKFURT": ".DE",
}

var suffixCurrencies = map[string]string{
	".TA": "ILS",
	".L":  "GBP",
	".TO": "CAD",
	".AX": "AUD",
	".DE": "EUR",
}

// Yahoo quotes some listings in the minor unit (pence, agorot, cents).
var minorUnitCurrencies = map[string]string{
	"GBp": "GBP",
	"GBX": "GBP",
	"ILA": "ILS",
	"ZAc": "ZAR",
	"ZAC": "ZAR",
}

// BuildSymbol appends the Yahoo listing suffix for exchange. US exchanges and unknown
// names have no suffix, and a symbol that already carries one is returned unchanged.
func BuildSymbol(symbol, exchange string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(symbol, ".") {
		return symbol
	}
	suffix, ok := exchangeSuffixes[strings.ToUpper(strings.TrimSpace(exchange))]
	if !ok {
		return symbol
	}
	return symbol + suffix
}

// CurrencyForSymbol infers the trading currency from the listing suffix, USD otherwise.
// Only used when the provider does not report a currency.
func CurrencyForSymbol(yahooSymbol string) string {
	if i := strings.LastIndex(yahooSymbol, "."); i >= 0 {
		if currency, ok := suffixCurrencies[strings.ToUpper(yahooSymbol[i:])]; ok {
			return currency
		}
	}
	return "USD"
}
