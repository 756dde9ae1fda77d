package tax

import "github.com/shopspring/decimal"

// GST decomposition for tax-inclusive prices (domain service, pure).
// Given a list price that already contains GST, the taxable base is
// implied: taxable = total / (1 + rate/100). The tax is split evenly
// into its central and state halves (CGST/SGST).
//
// The functions here perform no validation; callers reject non-positive
// quantities and prices before reaching this package.

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)
var two = decimal.NewFromInt(2)

// Line is the tax decomposition of one invoice line.
type Line struct {
	TaxableValue decimal.Decimal
	TaxAmount    decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	LineTotal    decimal.Decimal
}

// Totals are invoice-level aggregates. They are sums of per-line values,
// never a single tax computed on the aggregate: summing per line avoids
// rounding drift across heterogeneous tax rates.
type Totals struct {
	Subtotal    decimal.Decimal // sum of taxable values
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal // sum of tax-inclusive line totals
}

// ComputeLine decomposes a tax-inclusive unit price into taxable value
// and split tax for the given quantity. A zero rate yields
// TaxableValue == LineTotal and zero tax.
func ComputeLine(unitPrice, taxRatePercent, quantity decimal.Decimal) Line {
	lineTotal := quantity.Mul(unitPrice)
	divisor := one.Add(taxRatePercent.Div(hundred))
	taxable := lineTotal.Div(divisor)
	taxAmount := lineTotal.Sub(taxable)
	half := taxAmount.Div(two)
	return Line{
		TaxableValue: taxable,
		TaxAmount:    taxAmount,
		CGST:         half,
		SGST:         half,
		LineTotal:    lineTotal,
	}
}

// SumLines aggregates per-line decompositions into invoice totals.
func SumLines(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.TaxableValue)
		t.TaxAmount = t.TaxAmount.Add(l.TaxAmount)
		t.TotalAmount = t.TotalAmount.Add(l.LineTotal)
	}
	return t
}
