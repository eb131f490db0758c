package estimate

import (
	"github.com/Simplici0/bidcost/internal/constants"
	"github.com/Simplici0/bidcost/internal/numeric"
	"github.com/Simplici0/bidcost/internal/pricing"
)

// ChartSlice is one category's share of the subtotal.
type ChartSlice struct {
	CategoryID pricing.Category `json:"categoryId"`
	Label      string           `json:"label"`
	Value      float64          `json:"value"`
	Color      string           `json:"color"`
}

// Summary is the roll-up of an estimate.
type Summary struct {
	Slices         []ChartSlice                 `json:"slices"`
	CategoryTotals map[pricing.Category]float64 `json:"categoryTotals"`
	SubTotal       float64                      `json:"subTotal"`
	MarkupPercent  float64                      `json:"markupPercent"`
	MarkupAmount   float64                      `json:"markupAmount"`
	GrandTotal     float64                      `json:"grandTotal"`
}

// Aggregate sums every line item's total per category, then applies the
// estimate's markup. Slices cover the non-zero categories and their values
// add up to SubTotal exactly, since both come from the same category sums
// in the same order.
func Aggregate(est *Estimate, table constants.Table) Summary {
	ctx := est.PricingContext(table)
	s := Summary{CategoryTotals: make(map[pricing.Category]float64, len(pricing.Categories))}

	for _, c := range pricing.Categories {
		var categoryTotal float64
		for _, rec := range est.LineItems[c] {
			categoryTotal += pricing.RecordTotal(rec, ctx)
		}
		categoryTotal = numeric.Finite(categoryTotal)

		s.CategoryTotals[c] = categoryTotal
		s.SubTotal += categoryTotal
		if categoryTotal != 0 {
			s.Slices = append(s.Slices, ChartSlice{
				CategoryID: c,
				Label:      string(c),
				Value:      categoryTotal,
				Color:      constants.ResolveColor(string(c), table),
			})
		}
	}

	s.SubTotal = numeric.Finite(s.SubTotal)
	s.MarkupPercent = numeric.Finite(est.MarkupPercent)
	s.MarkupAmount = numeric.Finite(s.SubTotal * (s.MarkupPercent / 100))
	s.GrandTotal = numeric.Finite(s.SubTotal + s.MarkupAmount)
	return s
}

// Row is a line item with its computed total.
type Row struct {
	pricing.Record
	Total float64 `json:"total"`
}

// Rows returns every line item of est with its total, in display order.
func Rows(est *Estimate, table constants.Table) []Row {
	ctx := est.PricingContext(table)
	items := est.Items()
	rows := make([]Row, 0, len(items))
	for _, rec := range items {
		rows = append(rows, Row{Record: rec, Total: pricing.RecordTotal(rec, ctx)})
	}
	return rows
}
