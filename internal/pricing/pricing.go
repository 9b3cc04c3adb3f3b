package pricing

import (
	"math"
	"strings"
)

// Config carries the pricing knobs for an order: GST rate and enabled
// flag, the per-unit packaging charge, and the seller's home state used
// to split GST into CGST+SGST (intra-state) or IGST (inter-state).
type Config struct {
	TaxEnabled       bool
	TaxRate          float64 // e.g. 0.05 for 5% GST
	PackagingPerUnit float64
	HomeState        string
}

// Line is the minimal shape pricing needs from a cart line.
type Line struct {
	Price    float64
	Quantity int
}

// TaxSplit is the GST breakdown for an order. CGST+SGST and IGST are
// mutually exclusive.
type TaxSplit struct {
	CGST  float64
	SGST  float64
	IGST  float64
	Total float64
}

// Totals is the full priced breakdown of a cart.
type Totals struct {
	Subtotal  float64
	Packaging float64
	Tax       TaxSplit
	Total     float64
}

// Subtotal is the sum of price times quantity over all lines.
func Subtotal(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Price * float64(l.Quantity)
	}
	return round2(sum)
}

// TotalQuantity is the number of units across all lines.
func TotalQuantity(lines []Line) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// PackagingCharge is the per-unit packaging fee applied to every unit.
func (c Config) PackagingCharge(lines []Line) float64 {
	return round2(c.PackagingPerUnit * float64(TotalQuantity(lines)))
}

// Tax computes GST on the subtotal. Returns a zero split when tax is
// disabled. Intra-state orders (customer state equals home state) split
// the tax evenly into CGST+SGST; everything else is IGST.
func (c Config) Tax(subtotal float64, customerState string) TaxSplit {
	if !c.TaxEnabled || c.TaxRate <= 0 {
		return TaxSplit{}
	}

	total := round2(subtotal * c.TaxRate)
	if sameState(customerState, c.HomeState) {
		half := round2(total / 2)
		return TaxSplit{CGST: half, SGST: round2(total - half), Total: total}
	}
	return TaxSplit{IGST: total, Total: total}
}

// Compute prices a full cart: subtotal, packaging, tax, and grand total.
func (c Config) Compute(lines []Line, customerState string) Totals {
	subtotal := Subtotal(lines)
	packaging := c.PackagingCharge(lines)
	tax := c.Tax(subtotal, customerState)
	return Totals{
		Subtotal:  subtotal,
		Packaging: packaging,
		Tax:       tax,
		Total:     round2(subtotal + packaging + tax.Total),
	}
}

func sameState(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
