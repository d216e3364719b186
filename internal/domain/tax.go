package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Supported VAT rates, in percentage points.
var (
	TaxRateExempt  = decimal.Zero
	TaxRateReduced = decimal.RequireFromString("10.5")
	TaxRateGeneral = decimal.NewFromInt(21)
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// MoneyPlaces is the currency precision used by every rounding step.
const MoneyPlaces = 2

// Round2 rounds to currency precision, half away from zero.
// It is the only rounding rule used for money.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// MonetaryLine is a tax-inclusive line total with its VAT rate.
type MonetaryLine struct {
	GrossAmount decimal.Decimal
	TaxRate     decimal.Decimal
}

// TaxSplit is the net/tax decomposition of a tax-inclusive amount.
type TaxSplit struct {
	Net decimal.Decimal
	Tax decimal.Decimal
}

// RateSubtotal accumulates net and tax for one VAT rate.
type RateSubtotal struct {
	Rate decimal.Decimal
	Net  decimal.Decimal
	Tax  decimal.Decimal
}

// InvoiceTotals are derived from lines and never stored on their own.
type InvoiceTotals struct {
	Net    decimal.Decimal
	Tax    decimal.Decimal
	Gross  decimal.Decimal
	ByRate []RateSubtotal
}

// ValidateTaxRate checks rate against the supported set.
func ValidateTaxRate(rate decimal.Decimal) error {
	switch {
	case rate.Equal(TaxRateExempt), rate.Equal(TaxRateReduced), rate.Equal(TaxRateGeneral):
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTaxRate, rate.String())
	}
}

// Decompose derives net and tax from a tax-inclusive amount.
func Decompose(gross, rate decimal.Decimal) (TaxSplit, error) {
	if gross.IsNegative() {
		return TaxSplit{}, fmt.Errorf("%w: %s", ErrNegativeAmount, gross.String())
	}

	if err := ValidateTaxRate(rate); err != nil {
		return TaxSplit{}, err
	}

	if rate.IsZero() {
		return TaxSplit{Net: Round2(gross), Tax: decimal.Zero}, nil
	}

	divisor := one.Add(rate.Div(hundred))
	net := gross.DivRound(divisor, MoneyPlaces)

	return TaxSplit{
		Net: net,
		Tax: Round2(gross.Sub(net)),
	}, nil
}

// Aggregate decomposes every line and sums the parts. Gross is derived from
// the summed parts, not from the summed line grosses; the two can differ by
// accumulated rounding.
func Aggregate(lines []MonetaryLine) (InvoiceTotals, error) {
	totals := InvoiceTotals{
		Net:   decimal.Zero,
		Tax:   decimal.Zero,
		Gross: decimal.Zero,
	}

	byRate := make(map[string]*RateSubtotal)

	for i, line := range lines {
		split, err := Decompose(line.GrossAmount, line.TaxRate)
		if err != nil {
			return InvoiceTotals{}, fmt.Errorf("line %d: %w", i+1, err)
		}

		totals.Net = totals.Net.Add(split.Net)
		totals.Tax = totals.Tax.Add(split.Tax)

		key := line.TaxRate.StringFixed(MoneyPlaces)
		sub, ok := byRate[key]
		if !ok {
			sub = &RateSubtotal{Rate: line.TaxRate, Net: decimal.Zero, Tax: decimal.Zero}
			byRate[key] = sub
		}
		sub.Net = sub.Net.Add(split.Net)
		sub.Tax = sub.Tax.Add(split.Tax)
	}

	totals.Gross = Round2(totals.Net.Add(totals.Tax))

	totals.ByRate = make([]RateSubtotal, 0, len(byRate))
	for _, sub := range byRate {
		totals.ByRate = append(totals.ByRate, *sub)
	}
	sort.Slice(totals.ByRate, func(i, j int) bool {
		return totals.ByRate[i].Rate.LessThan(totals.ByRate[j].Rate)
	})

	return totals, nil
}
