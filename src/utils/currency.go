package utils

import (
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
)

// NormalizeCurrency upper-cases code and resolves known aliases such as NIS.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if alias, ok := currencyAliases[code]; ok {
		return alias
	}
	return code
}

// IsKnownCurrency reports whether code is an ISO 4217 currency.
func IsKnownCurrency(code string) bool {
	return money.GetCurrency(NormalizeCurrency(code)) != nil
}

func IsSupportedDisplayCurrency(code string) bool {
	return slices.Contains(SupportedDisplayCurrencies, NormalizeCurrency(code))
}

// SameCurrency compares two codes case-insensitively after alias resolution.
func SameCurrency(a, b string) bool {
	return NormalizeCurrency(a) == NormalizeCurrency(b)
}

// MoneyNumFmt returns a spreadsheet number format showing the currency's symbol and
// minor-unit precision, e.g. `"$"#,##0.00` for USD. Unknown codes get the code as suffix.
func MoneyNumFmt(code string) string {
	code = NormalizeCurrency(code)
	currency := money.GetCurrency(code)
	if currency == nil {
		return `#,##0.00 "` + code + `"`
	}
	number := "#,##0"
	if currency.Fraction > 0 {
		number += "." + strings.Repeat("0", currency.Fraction)
	}
	return strings.NewReplacer("$", `"`+currency.Grapheme+`"`, "1", number).Replace(currency.Template)
}
