// Package money formats and parses BRL amounts held as integer centavos.
package money

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
)

const currencyPrefix = "R$ "

var (
	// 1.234,56 | 1234,56 | 12 | 0,5
	groupedPriceRe = regexp.MustCompile(`^\d{1,3}(\.\d{3})+(,\d{1,2})?$`)
	plainPriceRe   = regexp.MustCompile(`^\d+(,\d{1,2})?$`)

	hundred = decimal.NewFromInt(100)
	// price_cents is a Postgres integer column.
	maxCents = decimal.NewFromInt(math.MaxInt32)

	// Groups integers with the pt-BR thousands separator.
	brPrinter = message.NewPrinter(language.BrazilianPortuguese)
)

// FormatBRL renders centavos as a pt-BR currency string, e.g. 123456 -> "R$ 1.234,56".
func FormatBRL(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + currencyPrefix + brPrinter.Sprintf("%d", cents/100) + "," + fmt.Sprintf("%02d", cents%100)
}

// FormatCentsInput renders centavos for an editable price field, e.g. 8950 -> "89,50".
func FormatCentsInput(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d,%02d", sign, cents/100, cents%100)
}

// ParsePriceCents converts a pt-BR decimal string into centavos. Only
// digits, optional dot-grouped thousands and an optional comma followed by
// one or two decimals are accepted; anything else is a validation error.
func ParsePriceCents(value string) (int, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 0, invalidPrice(value, "price is required")
	}
	if !groupedPriceRe.MatchString(raw) && !plainPriceRe.MatchString(raw) {
		return 0, invalidPrice(value, "price must look like 1.234,56")
	}

	normalized := strings.ReplaceAll(raw, ".", "")
	normalized = strings.Replace(normalized, ",", ".", 1)

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, invalidPrice(value, "price is not a number")
	}
	cents := amount.Mul(hundred)
	if cents.GreaterThan(maxCents) {
		return 0, invalidPrice(value, "price is too large")
	}
	return int(cents.IntPart()), nil
}

// ParseReais reads a loose filter bound such as "89,5" or "89.5" and returns
// it in centavos. ok is false for empty or unparsable input.
func ParseReais(value string) (cents int, ok bool) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 0, false
	}
	amount, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return 0, false
	}
	return int(amount.Mul(hundred).Round(0).IntPart()), true
}

func invalidPrice(value, reason string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, reason).
		WithDetails(map[string]any{"field": "price", "value": value})
}
