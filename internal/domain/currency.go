package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// CurrencyRate expresses one unit of the base currency in the named currency.
// Rates have no history: each upsert overwrites the previous value.
type CurrencyRate struct {
	UpdatedAt time.Time
	Code      string
	Rate      decimal.Decimal
}

// NormalizeCurrency validates a currency code and returns its canonical
// uppercase form. Lookups are case-insensitive on input.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q is not a three-letter code", ErrCurrencyNotFound, code)
	}

	for _, r := range code {
		if !unicode.IsLetter(r) {
			return "", fmt.Errorf("%w: %q is not a three-letter code", ErrCurrencyNotFound, code)
		}
	}

	return code, nil
}
