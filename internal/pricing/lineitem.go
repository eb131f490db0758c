package pricing

import "strings"

// Category tags a line item with the cost bucket it belongs to.
type Category string

const (
	Labor         Category = "Labor"
	Equipment     Category = "Equipment"
	Material      Category = "Material"
	Tools         Category = "Tools"
	Overhead      Category = "Overhead"
	Subcontractor Category = "Subcontractor"
	Disposal      Category = "Disposal"
	Miscellaneous Category = "Miscellaneous"
)

// Categories lists every category in display order. Aggregation walks this
// order so sums are reproducible.
var Categories = []Category{
	Labor, Equipment, Material, Tools, Overhead, Subcontractor, Disposal, Miscellaneous,
}

// ParseCategory matches a category name case-insensitively. The legacy
// singular "tool" maps to Tools.
func ParseCategory(s string) (Category, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "tool" {
		return Tools, true
	}
	for _, c := range Categories {
		if strings.ToLower(string(c)) == name {
			return c, true
		}
	}
	return "", false
}

// UOM is the unit of measure an equipment line bills against.
type UOM string

const (
	Daily   UOM = "Daily"
	Weekly  UOM = "Weekly"
	Monthly UOM = "Monthly"
)

// ParseUOM matches a unit of measure case-insensitively. Blank and
// unrecognized values are Daily.
func ParseUOM(s string) UOM {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly":
		return Weekly
	case "monthly":
		return Monthly
	default:
		return Daily
	}
}

// LineItem is one costed row of an estimate. The concrete types are
// LaborItem, EquipmentItem, MaterialItem, DisposalItem, OverheadItem and
// FlatItem; nothing outside this package implements it.
type LineItem interface {
	Category() Category
	Base() Common
	lineItem()
}

// Common holds the fields every category shares.
type Common struct {
	ID                string  `json:"id"`
	Quantity          float64 `json:"quantity"`
	Classification    string  `json:"classification,omitempty"`
	SubClassification string  `json:"subClassification,omitempty"`
	Description       string  `json:"description,omitempty"`
}

// Base returns the shared fields.
func (c Common) Base() Common { return c }

// LaborItem is a crew line billed by the hour.
type LaborItem struct {
	Common
	BasePay             float64 `json:"basePay"`
	Days                float64 `json:"days"`
	OTPerDay            float64 `json:"otPd"`
	DTPerDay            float64 `json:"dtPd"`
	WCompPercent        float64 `json:"wCompPercent"`
	PayrollTaxesPercent float64 `json:"payrollTaxesPercent"`
	Fringe              string  `json:"fringe,omitempty"`
}

// EquipmentItem is a rental billed per day, week or month.
type EquipmentItem struct {
	Common
	Times            float64 `json:"times"`
	UOM              UOM     `json:"uom"`
	DailyCost        float64 `json:"dailyCost"`
	WeeklyCost       float64 `json:"weeklyCost"`
	MonthlyCost      float64 `json:"monthlyCost"`
	FuelAdditiveCost float64 `json:"fuelAdditiveCost"`
	DeliveryPickup   float64 `json:"deliveryPickup"`
}

// MaterialItem is a taxed purchase plus delivery.
type MaterialItem struct {
	Common
	Cost           float64 `json:"cost"`
	TaxesPercent   float64 `json:"taxes"`
	DeliveryPickup float64 `json:"deliveryPickup"`
}

// DisposalItem is a haul-off or dump fee.
type DisposalItem struct {
	Common
	Cost float64 `json:"cost"`
}

// OverheadItem is a daily site cost.
type OverheadItem struct {
	Common
	Days      float64 `json:"days"`
	DailyRate float64 `json:"dailyRate"`
}

// FlatItem is a single cost per unit per day, used by Tools,
// Subcontractor and Miscellaneous.
type FlatItem struct {
	Common
	Kind Category `json:"kind"`
	Days float64  `json:"days"`
	Cost float64  `json:"cost"`
}

func (LaborItem) Category() Category     { return Labor }
func (EquipmentItem) Category() Category { return Equipment }
func (MaterialItem) Category() Category  { return Material }
func (DisposalItem) Category() Category  { return Disposal }
func (OverheadItem) Category() Category  { return Overhead }

// Category returns Kind when it is one of the flat categories and
// Miscellaneous otherwise.
func (f FlatItem) Category() Category {
	switch f.Kind {
	case Tools, Subcontractor, Miscellaneous:
		return f.Kind
	default:
		return Miscellaneous
	}
}

func (LaborItem) lineItem()     {}
func (EquipmentItem) lineItem() {}
func (MaterialItem) lineItem()  {}
func (DisposalItem) lineItem()  {}
func (OverheadItem) lineItem()  {}
func (FlatItem) lineItem()      {}
