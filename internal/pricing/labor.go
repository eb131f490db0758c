package pricing

import (
	"strings"

	"github.com/Simplici0/bidcost/internal/constants"
	"github.com/Simplici0/bidcost/internal/numeric"
)

const (
	straightHoursPerDay = 8.0
	otMultiplier        = 1.5
	dtMultiplier        = 2.0
)

// LaborBreakdown contains the intermediate amounts of a labor total.
type LaborBreakdown struct {
	// PerDiem is set for per-diem and hotel lines, which bill
	// basePay × quantity × days with no burden.
	PerDiem bool

	TotalHours   float64
	TotalOTHours float64
	TotalDTHours float64

	WCompTax     float64
	OTWCompTax   float64
	DTWCompTax   float64
	PayrollTax   float64
	OTPayrollTax float64
	DTPayrollTax float64
	FringeAmount float64

	BaseRate float64
	OTRate   float64
	DTRate   float64

	Total float64
}

// CalculateLabor burdens a labor line: straight, overtime and double-time
// hours are each billed at base pay (scaled 1×, 1.5×, 2×) plus workers'
// comp and payroll tax on that scaled pay, plus the flat fringe rate.
func CalculateLabor(item LaborItem, ctx Context) LaborBreakdown {
	basePay := item.BasePay
	quantity := item.Quantity
	days := item.Days

	if isPerDiem(item.SubClassification) {
		return LaborBreakdown{
			PerDiem: true,
			Total:   numeric.Finite(basePay * quantity * days),
		}
	}

	var b LaborBreakdown
	b.TotalHours = quantity * days * straightHoursPerDay
	b.TotalOTHours = quantity * days * item.OTPerDay
	b.TotalDTHours = quantity * days * item.DTPerDay

	otPay := basePay * otMultiplier
	dtPay := basePay * dtMultiplier

	b.WCompTax = basePay * (item.WCompPercent / 100)
	b.OTWCompTax = otPay * (item.WCompPercent / 100)
	b.DTWCompTax = dtPay * (item.WCompPercent / 100)

	b.PayrollTax = basePay * (item.PayrollTaxesPercent / 100)
	b.OTPayrollTax = otPay * (item.PayrollTaxesPercent / 100)
	b.DTPayrollTax = dtPay * (item.PayrollTaxesPercent / 100)

	b.FringeAmount = constants.FringeRate(fringeName(item, ctx), ctx.Constants)

	b.BaseRate = basePay + b.WCompTax + b.PayrollTax + b.FringeAmount
	b.OTRate = otPay + b.OTWCompTax + b.OTPayrollTax + b.FringeAmount
	b.DTRate = dtPay + b.DTWCompTax + b.DTPayrollTax + b.FringeAmount

	b.Total = numeric.Finite(b.TotalHours*b.BaseRate + b.TotalOTHours*b.OTRate + b.TotalDTHours*b.DTRate)
	return b
}

// LaborTotal is CalculateLabor(item, ctx).Total.
func LaborTotal(item LaborItem, ctx Context) float64 {
	return CalculateLabor(item, ctx).Total
}

func fringeName(item LaborItem, ctx Context) string {
	if item.Fringe != "" {
		return item.Fringe
	}
	return ctx.Fringe
}

func isPerDiem(subClassification string) bool {
	switch strings.ToLower(strings.TrimSpace(subClassification)) {
	case "per diem", "hotel":
		return true
	}
	return false
}
