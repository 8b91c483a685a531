// Package metrics holds the derived-metric arithmetic shared by the transformers
// All money and rate math is exact decimal; nothing here returns a non-finite value
package metrics

import (
	"strconv"
	"strings"

	perr "marketingetl/internal/platform/errors"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SafeDiv returns num / den, or zero when den is not positive
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.Sign() <= 0 {
		return decimal.Zero
	}
	return num.Div(den)
}

// Revenue is spend × roas; a zero or missing roas yields zero
func Revenue(spend, roas decimal.Decimal) decimal.Decimal {
	return spend.Mul(roas)
}

// CostPerResult is spend / conversions, zero when there were no conversions
func CostPerResult(spend, conversions decimal.Decimal) decimal.Decimal {
	return SafeDiv(spend, conversions)
}

// ROAS is conversion value / cost, zero when nothing was spent
func ROAS(value, cost decimal.Decimal) decimal.Decimal {
	return SafeDiv(value, cost)
}

// FromMinor converts a minor-unit amount (cents) to major units
func FromMinor(v decimal.Decimal) decimal.Decimal { return v.Div(hundred) }

// NonNegative clamps v at zero
func NonNegative(v decimal.Decimal) decimal.Decimal {
	if v.Sign() < 0 {
		return decimal.Zero
	}
	return v
}

// ParseAmount parses a decimal string, stripping thousands separators;
// blank input is zero
func ParseAmount(s string) (decimal.Decimal, error) {
	s = cleanNumber(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, perr.Wrapf(err, perr.ErrorCodeValidation, "invalid amount %q", s)
	}
	return d, nil
}

// ParseMicros parses a micro-unit amount ("1500000" or 1234567.8) into major units
func ParseMicros(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Shift(-6), nil
}

// ParsePercent parses "3.5%" (or "3.5") into the fraction 0.035
func ParsePercent(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Div(hundred), nil
}

// ParseCount parses an integer count with optional thousands separators;
// blank input is zero
func ParseCount(s string) (int64, error) {
	s = cleanNumber(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeValidation, "invalid count %q", s)
	}
	return n, nil
}

// WholeCount truncates a decimal count (Meta action values arrive as "3" or "3.0")
func WholeCount(d decimal.Decimal) int64 {
	return NonNegative(d).IntPart()
}

func cleanNumber(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}
