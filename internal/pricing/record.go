package pricing

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Simplici0/bidcost/internal/numeric"
)

// Field keys, as stored and as edited.
const (
	FieldQuantity            = "quantity"
	FieldClassification      = "classification"
	FieldSubClassification   = "subClassification"
	FieldDescription         = "description"
	FieldBasePay             = "basePay"
	FieldDays                = "days"
	FieldOTPerDay            = "otPd"
	FieldDTPerDay            = "dtPd"
	FieldWCompPercent        = "wCompPercent"
	FieldPayrollTaxesPercent = "payrollTaxesPercent"
	FieldFringe              = "fringe"
	FieldTimes               = "times"
	FieldUOM                 = "uom"
	FieldDailyCost           = "dailyCost"
	FieldWeeklyCost          = "weeklyCost"
	FieldMonthlyCost         = "monthlyCost"
	FieldFuelAdditiveCost    = "fuelAdditiveCost"
	FieldDeliveryPickup      = "deliveryPickup"
	FieldCost                = "cost"
	FieldTaxes               = "taxes"
	FieldDailyRate           = "dailyRate"
)

var sharedFields = []string{FieldQuantity, FieldClassification, FieldSubClassification, FieldDescription}

var categoryFields = map[Category][]string{
	Labor: {
		FieldBasePay, FieldDays, FieldOTPerDay, FieldDTPerDay,
		FieldWCompPercent, FieldPayrollTaxesPercent, FieldFringe,
	},
	Equipment: {
		FieldTimes, FieldUOM, FieldDailyCost, FieldWeeklyCost, FieldMonthlyCost,
		FieldFuelAdditiveCost, FieldDeliveryPickup,
	},
	Material:      {FieldCost, FieldTaxes, FieldDeliveryPickup},
	Disposal:      {FieldCost},
	Overhead:      {FieldDays, FieldDailyRate},
	Tools:         {FieldDays, FieldCost},
	Subcontractor: {FieldDays, FieldCost},
	Miscellaneous: {FieldDays, FieldCost},
}

// Fields returns the editable field keys of a category.
func Fields(c Category) []string {
	out := slices.Clone(sharedFields)
	return append(out, categoryFields[c]...)
}

// IsField reports whether key is an editable field of category c.
func IsField(c Category, key string) bool {
	return slices.Contains(Fields(c), key)
}

// Record is a line item as persisted: a category tag and the raw values
// the user typed. Totals are never stored on it.
type Record struct {
	ID         string         `json:"id"`
	EstimateID string         `json:"estimateId"`
	Category   Category       `json:"category"`
	Position   int            `json:"position"`
	Fields     map[string]any `json:"fields"`
}

// With returns a copy of r with one field replaced. r is not modified.
func (r Record) With(field string, value any) Record {
	out := r
	out.Fields = make(map[string]any, len(r.Fields)+1)
	maps.Copy(out.Fields, r.Fields)
	out.Fields[field] = value
	return out
}

// Decode builds the typed line item for a record, coercing every numeric
// field. Equipment times, Overhead days, and Disposal/Tools/Subcontractor/
// Miscellaneous quantity and days default to 1 when blank.
func Decode(r Record) LineItem {
	f := r.Fields
	common := Common{
		ID:                r.ID,
		Quantity:          numeric.ToNumber(f[FieldQuantity]),
		Classification:    text(f[FieldClassification]),
		SubClassification: text(f[FieldSubClassification]),
		Description:       text(f[FieldDescription]),
	}

	switch r.Category {
	case Labor:
		return LaborItem{
			Common:              common,
			BasePay:             numeric.ToNumber(f[FieldBasePay]),
			Days:                numeric.ToNumber(f[FieldDays]),
			OTPerDay:            numeric.ToNumber(f[FieldOTPerDay]),
			DTPerDay:            numeric.ToNumber(f[FieldDTPerDay]),
			WCompPercent:        numeric.ToNumber(f[FieldWCompPercent]),
			PayrollTaxesPercent: numeric.ToNumber(f[FieldPayrollTaxesPercent]),
			Fringe:              text(f[FieldFringe]),
		}
	case Equipment:
		return EquipmentItem{
			Common:           common,
			Times:            numeric.OrDefault(f[FieldTimes], 1),
			UOM:              ParseUOM(text(f[FieldUOM])),
			DailyCost:        numeric.ToNumber(f[FieldDailyCost]),
			WeeklyCost:       numeric.ToNumber(f[FieldWeeklyCost]),
			MonthlyCost:      numeric.ToNumber(f[FieldMonthlyCost]),
			FuelAdditiveCost: numeric.ToNumber(f[FieldFuelAdditiveCost]),
			DeliveryPickup:   numeric.ToNumber(f[FieldDeliveryPickup]),
		}
	case Material:
		return MaterialItem{
			Common:         common,
			Cost:           numeric.ToNumber(f[FieldCost]),
			TaxesPercent:   numeric.ToNumber(f[FieldTaxes]),
			DeliveryPickup: numeric.ToNumber(f[FieldDeliveryPickup]),
		}
	case Disposal:
		common.Quantity = numeric.OrDefault(f[FieldQuantity], 1)
		return DisposalItem{Common: common, Cost: numeric.ToNumber(f[FieldCost])}
	case Overhead:
		return OverheadItem{
			Common:    common,
			Days:      numeric.OrDefault(f[FieldDays], 1),
			DailyRate: numeric.ToNumber(f[FieldDailyRate]),
		}
	default:
		common.Quantity = numeric.OrDefault(f[FieldQuantity], 1)
		return FlatItem{
			Common: common,
			Kind:   r.Category,
			Days:   numeric.OrDefault(f[FieldDays], 1),
			Cost:   numeric.ToNumber(f[FieldCost]),
		}
	}
}

func text(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
