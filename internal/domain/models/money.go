package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the code prefixed to every displayed amount.
const DefaultCurrency = "KES"

// ErrNegativeAmount rejects money values below zero.
var ErrNegativeAmount = errors.New("amount must not be negative")

// ProfitFormula selects how the daily profit figure is computed.
type ProfitFormula string

const (
	// ProfitFromSales is sales amount minus expenses minus money paid.
	ProfitFromSales ProfitFormula = "sales"
	// ProfitFromCash is money paid minus money invested.
	ProfitFromCash ProfitFormula = "cash"
)

// ParseProfitFormula accepts "sales" or "cash"; blank means sales.
func ParseProfitFormula(value string) (ProfitFormula, error) {
	switch f := ProfitFormula(strings.ToLower(strings.TrimSpace(value))); f {
	case "", ProfitFromSales:
		return ProfitFromSales, nil
	case ProfitFromCash:
		return ProfitFromCash, nil
	default:
		return "", fmt.Errorf("unknown profit formula %q", value)
	}
}

// FormatCurrency renders an amount as "KES 1,234.50".
func FormatCurrency(code string, amount decimal.Decimal) string {
	if code == "" {
		code = DefaultCurrency
	}
	rounded := amount.Round(2)
	abs := rounded.Abs()
	fixed := abs.StringFixed(2)
	whole := humanize.BigComma(abs.Truncate(0).BigInt())

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return code + " " + sign + whole + fixed[strings.IndexByte(fixed, '.'):]
}

// ValidateAmount rejects negative money values.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeAmount, amount.String())
	}
	return nil
}
