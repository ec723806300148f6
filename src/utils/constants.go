package utils

const ShortDashDateLayout = "2006-01-02"

const DefaultCurrency = "USD"

// SupportedDisplayCurrencies are the currencies a user may pick for the portfolio view.
var SupportedDisplayCurrencies = []string{"USD", "ILS", "EUR", "GBP", "CAD"}

// currencyAliases maps legacy codes to their ISO 4217 form.
var currencyAliases = map[string]string{
	"NIS": "ILS",
}

const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365

	DefaultPageSize = 20
	MaxPageSize     = 100
)
