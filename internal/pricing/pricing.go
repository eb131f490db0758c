// Package pricing implements the estimate costing engine: typed line items
// per category and the deterministic formulas that turn them into burdened
// dollar totals. Every function here is pure and total: malformed input
// degrades to zero, never to an error or NaN.
package pricing

import (
	"github.com/Simplici0/bidcost/internal/constants"
	"github.com/Simplici0/bidcost/internal/numeric"
)

// Context carries the estimate-level inputs a line total depends on.
type Context struct {
	// Fringe is the estimate's global fringe selection, used when a labor
	// line names none of its own.
	Fringe    string
	Constants constants.Table
}

// Total computes the total of any line item.
func Total(item LineItem, ctx Context) float64 {
	var total float64
	switch it := item.(type) {
	case LaborItem:
		total = CalculateLabor(it, ctx).Total
	case EquipmentItem:
		total = EquipmentTotal(it)
	case MaterialItem:
		total = MaterialTotal(it)
	case DisposalItem:
		total = DisposalTotal(it)
	case OverheadItem:
		total = OverheadTotal(it)
	case FlatItem:
		total = FlatTotal(it)
	}
	return numeric.Finite(total)
}

// RecordTotal decodes r and computes its total.
func RecordTotal(r Record, ctx Context) float64 {
	return Total(Decode(r), ctx)
}
