package rates

import "strings"

// supportedCurrencies is the fixed universe the rate source quotes against
// USD. Pairs built from any two members are resolvable.
var supportedCurrencies = map[string]struct{}{
	// G10 and Scandies
	"USD": {}, "EUR": {}, "GBP": {}, "AUD": {}, "NZD": {}, "JPY": {},
	"SEK": {}, "NOK": {}, "CHF": {}, "CAD": {},
	// Middle East
	"SAR": {}, "KWD": {}, "AED": {},
	// Asia
	"INR": {}, "KRW": {}, "HKD": {}, "CNY": {}, "CNH": {}, "PHP": {},
	"MYR": {}, "SGD": {}, "IDR": {}, "TWD": {}, "THB": {},
	// Eastern Europe
	"CZK": {}, "PLN": {}, "HUF": {}, "RUB": {}, "RON": {},
	// Africa
	"ZAR": {},
	// Latin America
	"BRL": {}, "MXN": {}, "CLP": {}, "ARS": {}, "COP": {}, "PEN": {}, "VEF": {},
}

// ValidCurrency reports whether ccy is a supported 3-letter currency code.
func ValidCurrency(ccy string) bool {
	if len(ccy) != 3 {
		return false
	}
	_, ok := supportedCurrencies[strings.ToUpper(ccy)]
	return ok
}

// ValidPair reports whether pair is exactly two supported currency codes
// concatenated, e.g. "EURUSD".
func ValidPair(pair string) bool {
	return len(pair) == 6 && ValidCurrency(pair[:3]) && ValidCurrency(pair[3:])
}
