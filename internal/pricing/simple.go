package pricing

import "github.com/Simplici0/bidcost/internal/numeric"

// MaterialTotal taxes the purchase price only; delivery is added untaxed.
func MaterialTotal(m MaterialItem) float64 {
	base := m.Quantity * m.Cost
	return numeric.Finite(base*(1+m.TaxesPercent/100) + m.DeliveryPickup)
}

// DisposalTotal is quantity × cost. Disposal has no days term.
func DisposalTotal(d DisposalItem) float64 {
	return numeric.Finite(d.Quantity * d.Cost)
}

// OverheadTotal is days × daily rate.
func OverheadTotal(o OverheadItem) float64 {
	return numeric.Finite(o.Days * o.DailyRate)
}

// FlatTotal is quantity × days × cost.
func FlatTotal(f FlatItem) float64 {
	return numeric.Finite(f.Quantity * f.Days * f.Cost)
}
