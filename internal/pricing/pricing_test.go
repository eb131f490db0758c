package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/bidcost/internal/constants"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	assert.InDelta(t, want, got, 1e-9, name)
}

func fringeTable() constants.Table {
	return constants.Table{
		{Type: constants.TypeFringe, Description: "Local 3", Value: "8.50"},
		{Type: constants.TypeFringe, Description: "Local 12", Value: "12"},
	}
}

func TestCalculateLabor_Burdened(t *testing.T) {
	item := LaborItem{
		Common:              Common{Quantity: 2},
		BasePay:             30,
		Days:                5,
		OTPerDay:            2,
		DTPerDay:            0,
		WCompPercent:        5,
		PayrollTaxesPercent: 10,
		Fringe:              "Local 3",
	}

	b := CalculateLabor(item, Context{Constants: fringeTable()})

	assert.False(t, b.PerDiem)
	nearlyEqual(t, "totalHours", b.TotalHours, 80)
	nearlyEqual(t, "totalOtHours", b.TotalOTHours, 20)
	nearlyEqual(t, "totalDtHours", b.TotalDTHours, 0)
	nearlyEqual(t, "fringe", b.FringeAmount, 8.5)
	nearlyEqual(t, "baseRate", b.BaseRate, 43)
	nearlyEqual(t, "otRate", b.OTRate, 60.25)
	nearlyEqual(t, "dtRate", b.DTRate, 77.5)
	nearlyEqual(t, "total", b.Total, 4645)
}

func TestCalculateLabor_DoubleTime(t *testing.T) {
	item := LaborItem{
		Common:   Common{Quantity: 1},
		BasePay:  20,
		Days:     1,
		DTPerDay: 2,
	}

	b := CalculateLabor(item, Context{})

	// 8h × 20 + 2h × 40
	nearlyEqual(t, "total", b.Total, 240)
}

func TestCalculateLabor_PerDiem(t *testing.T) {
	for _, sub := range []string{"Per Diem", "per diem", " HOTEL "} {
		t.Run(sub, func(t *testing.T) {
			item := LaborItem{
				Common:              Common{Quantity: 3, SubClassification: sub},
				BasePay:             75,
				Days:                4,
				OTPerDay:            2,
				WCompPercent:        10,
				PayrollTaxesPercent: 10,
				Fringe:              "Local 3",
			}

			b := CalculateLabor(item, Context{Constants: fringeTable()})

			assert.True(t, b.PerDiem)
			nearlyEqual(t, "total", b.Total, 900)
			nearlyEqual(t, "fringe not applied", b.FringeAmount, 0)
		})
	}
}

func TestCalculateLabor_FringePrecedence(t *testing.T) {
	base := LaborItem{Common: Common{Quantity: 1}, Days: 1}

	tests := []struct {
		name       string
		itemFringe string
		estFringe  string
		want       float64
	}{
		{"item fringe wins", "Local 12", "Local 3", 12 * 8},
		{"falls back to estimate fringe", "", "Local 3", 8.5 * 8},
		{"unknown item fringe resolves to zero", "Local 99", "Local 3", 0},
		{"no fringe anywhere", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := base
			item.Fringe = tt.itemFringe
			got := LaborTotal(item, Context{Fringe: tt.estFringe, Constants: fringeTable()})
			nearlyEqual(t, "total", got, tt.want)
		})
	}
}

func TestEquipmentTotal(t *testing.T) {
	base := EquipmentItem{
		Common:           Common{Quantity: 2},
		Times:            3,
		DailyCost:        200,
		WeeklyCost:       900,
		MonthlyCost:      3000,
		FuelAdditiveCost: 20,
		DeliveryPickup:   50,
	}

	tests := []struct {
		name string
		uom  UOM
		want float64
	}{
		{"daily", Daily, 200*2*3 + 20*2 + 50*2},
		{"weekly", Weekly, 900*2*3 + 20*2 + 50*2},
		{"monthly", Monthly, 3000*2*3 + 20*2 + 50*2},
		{"unknown falls back to daily", UOM("Hourly"), 1340},
		{"blank falls back to daily", UOM(""), 1340},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := base
			item.UOM = tt.uom
			nearlyEqual(t, "total", EquipmentTotal(item), tt.want)
		})
	}
}

func TestMaterialTotal(t *testing.T) {
	item := MaterialItem{
		Common:         Common{Quantity: 10},
		Cost:           5,
		TaxesPercent:   8,
		DeliveryPickup: 15,
	}
	nearlyEqual(t, "total", MaterialTotal(item), 69)
}

func TestDisposalTotal(t *testing.T) {
	item := DisposalItem{Common: Common{Quantity: 3}, Cost: 40}
	nearlyEqual(t, "total", DisposalTotal(item), 120)
}

func TestOverheadAndFlatTotals(t *testing.T) {
	nearlyEqual(t, "overhead", OverheadTotal(OverheadItem{Days: 12, DailyRate: 150}), 1800)
	nearlyEqual(t, "flat", FlatTotal(FlatItem{Common: Common{Quantity: 2}, Kind: Tools, Days: 3, Cost: 25}), 150)
}

func TestTotal_DispatchesEveryCategory(t *testing.T) {
	ctx := Context{Constants: fringeTable()}

	tests := []struct {
		rec  Record
		want float64
	}{
		{Record{Category: Labor, Fields: map[string]any{
			"basePay": "30", "quantity": 2, "days": 5, "otPd": 2, "dtPd": 0,
			"wCompPercent": 5, "payrollTaxesPercent": 10, "fringe": "Local 3",
		}}, 4645},
		{Record{Category: Labor, Fields: map[string]any{
			"subClassification": "Per Diem", "basePay": 75, "quantity": 3, "days": 4,
		}}, 900},
		{Record{Category: Equipment, Fields: map[string]any{
			"uom": "Daily", "dailyCost": 200, "quantity": 2, "times": 3,
			"fuelAdditiveCost": 20, "deliveryPickup": 50,
		}}, 1340},
		{Record{Category: Material, Fields: map[string]any{
			"quantity": 10, "cost": 5, "taxes": 8, "deliveryPickup": 15,
		}}, 69},
		{Record{Category: Disposal, Fields: map[string]any{"quantity": 3, "cost": 40}}, 120},
		{Record{Category: Overhead, Fields: map[string]any{"days": 4, "dailyRate": "$250.00"}}, 1000},
		{Record{Category: Tools, Fields: map[string]any{"quantity": 2, "days": 2, "cost": 10}}, 40},
		{Record{Category: Subcontractor, Fields: map[string]any{"cost": "5,000"}}, 5000},
		{Record{Category: Miscellaneous, Fields: map[string]any{"quantity": "", "cost": 75}}, 75},
	}

	for _, tt := range tests {
		t.Run(string(tt.rec.Category), func(t *testing.T) {
			item := Decode(tt.rec)
			assert.Equal(t, tt.rec.Category, item.Category())
			nearlyEqual(t, "total", Total(item, ctx), tt.want)
			nearlyEqual(t, "record total", RecordTotal(tt.rec, ctx), tt.want)
		})
	}
}

func TestTotal_Deterministic(t *testing.T) {
	rec := Record{Category: Labor, Fields: map[string]any{
		"basePay": 31.37, "quantity": 3, "days": 7, "otPd": 1.5, "dtPd": 0.5,
		"wCompPercent": 7.3, "payrollTaxesPercent": 11.1, "fringe": "Local 12",
	}}
	ctx := Context{Constants: fringeTable()}

	first := RecordTotal(rec, ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RecordTotal(rec, ctx))
	}

	// re-applying an unchanged value is idempotent
	assert.Equal(t, first, RecordTotal(rec.With("basePay", 31.37), ctx))
}

func TestTotal_NonNegative(t *testing.T) {
	values := []any{0, 0.5, 1, 7, 100, "", nil}
	ctx := Context{Constants: fringeTable(), Fringe: "Local 3"}

	for _, c := range Categories {
		for _, v := range values {
			fields := map[string]any{}
			for _, key := range Fields(c) {
				fields[key] = v
			}
			got := RecordTotal(Record{Category: c, Fields: fields}, ctx)
			assert.GreaterOrEqual(t, got, 0.0, "category %s value %v", c, v)
		}
	}
}

func TestDecode_MalformedInput(t *testing.T) {
	for _, raw := range []any{"", nil, "abc", "$1,234.56", "NaN", struct{}{}} {
		for _, c := range Categories {
			fields := map[string]any{}
			for _, key := range Fields(c) {
				fields[key] = raw
			}
			require.NotPanics(t, func() {
				_ = RecordTotal(Record{Category: c, Fields: fields}, Context{})
			})
		}
	}

	item := Decode(Record{Category: Material, Fields: map[string]any{"cost": "$1,234.56", "quantity": "abc"}})
	m, ok := item.(MaterialItem)
	require.True(t, ok)
	assert.Equal(t, 1234.56, m.Cost)
	assert.Equal(t, 0.0, m.Quantity)
}

func TestDecode_Defaults(t *testing.T) {
	eq := Decode(Record{Category: Equipment, Fields: map[string]any{"uom": "weekly"}}).(EquipmentItem)
	assert.Equal(t, 1.0, eq.Times)
	assert.Equal(t, Weekly, eq.UOM)

	d := Decode(Record{Category: Disposal, Fields: map[string]any{"cost": 40}}).(DisposalItem)
	assert.Equal(t, 1.0, d.Quantity)

	o := Decode(Record{Category: Overhead, Fields: map[string]any{"dailyRate": 40}}).(OverheadItem)
	assert.Equal(t, 1.0, o.Days)

	f := Decode(Record{Category: Subcontractor, Fields: map[string]any{"quantity": "0", "cost": 40}}).(FlatItem)
	assert.Equal(t, 0.0, f.Quantity)
	assert.Equal(t, 1.0, f.Days)

	unknown := Decode(Record{Category: Category("Permits"), Fields: map[string]any{"cost": 40}})
	assert.Equal(t, Miscellaneous, unknown.Category())
}

func TestRecordWith_DoesNotMutate(t *testing.T) {
	rec := Record{ID: "a", Category: Disposal, Fields: map[string]any{"cost": 1}}
	next := rec.With("cost", 2)

	assert.Equal(t, 1, rec.Fields["cost"])
	assert.Equal(t, 2, next.Fields["cost"])
	assert.Equal(t, "a", next.ID)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" tool ")
	assert.True(t, ok)
	assert.Equal(t, Tools, c)

	c, ok = ParseCategory("LABOR")
	assert.True(t, ok)
	assert.Equal(t, Labor, c)

	_, ok = ParseCategory("permits")
	assert.False(t, ok)
}

func TestFields(t *testing.T) {
	assert.True(t, IsField(Labor, FieldBasePay))
	assert.True(t, IsField(Disposal, FieldQuantity))
	assert.False(t, IsField(Disposal, FieldDays))
	assert.False(t, IsField(Overhead, FieldCost))
}
