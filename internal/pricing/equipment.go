package pricing

import "github.com/Simplici0/bidcost/internal/numeric"

// RateFor returns the cost field an equipment line bills against. Any
// unit other than Weekly or Monthly bills the daily cost.
func (e EquipmentItem) RateFor() float64 {
	switch e.UOM {
	case Weekly:
		return e.WeeklyCost
	case Monthly:
		return e.MonthlyCost
	default:
		return e.DailyCost
	}
}

// EquipmentTotal bills the rental rate per unit per repeat. Fuel additive
// and delivery/pickup are charged once per unit regardless of Times.
func EquipmentTotal(e EquipmentItem) float64 {
	rental := e.RateFor() * e.Quantity * e.Times
	fuel := e.FuelAdditiveCost * e.Quantity
	delivery := e.DeliveryPickup * e.Quantity
	return numeric.Finite(rental + fuel + delivery)
}
