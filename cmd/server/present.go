package main

import (
	"github.com/Simplici0/bidcost/internal/estimate"
	"github.com/Simplici0/bidcost/internal/format"
	"github.com/Simplici0/bidcost/internal/ledger"
)

type rowResponse struct {
	estimate.Row
	TotalFormatted string `json:"totalFormatted"`
}

type sliceResponse struct {
	estimate.ChartSlice
	ValueFormatted string `json:"valueFormatted"`
}

type summaryResponse struct {
	estimate.Summary
	Slices                []sliceResponse `json:"slices"`
	SubTotalFormatted     string          `json:"subTotalFormatted"`
	MarkupFormatted       string          `json:"markupFormatted"`
	MarkupAmountFormatted string          `json:"markupAmountFormatted"`
	GrandTotalFormatted   string          `json:"grandTotalFormatted"`
}

type sheetResponse struct {
	Estimate *estimate.Estimate `json:"estimate"`
	Rows     []rowResponse      `json:"rows"`
	Summary  summaryResponse    `json:"summary"`
}

type versionResponse struct {
	ledger.EstimateVersion
	TotalFormatted string `json:"totalFormatted"`
}

type ledgerResponse struct {
	ProposalNo                 string            `json:"proposalNo"`
	Versions                   []versionResponse `json:"versions"`
	NextVersionNumber          int               `json:"nextVersionNumber"`
	OriginalContract           float64           `json:"originalContract"`
	ChangeOrdersTotal          float64           `json:"changeOrdersTotal"`
	ContractTotal              float64           `json:"contractTotal"`
	OriginalContractFormatted  string            `json:"originalContractFormatted"`
	ChangeOrdersTotalFormatted string            `json:"changeOrdersTotalFormatted"`
	ContractTotalFormatted     string            `json:"contractTotalFormatted"`
}

func presentRow(row estimate.Row) rowResponse {
	return rowResponse{Row: row, TotalFormatted: format.Currency(row.Total)}
}

func presentSummary(s estimate.Summary) summaryResponse {
	slices := make([]sliceResponse, 0, len(s.Slices))
	for _, slice := range s.Slices {
		slices = append(slices, sliceResponse{ChartSlice: slice, ValueFormatted: format.Currency(slice.Value)})
	}
	return summaryResponse{
		Summary:               s,
		Slices:                slices,
		SubTotalFormatted:     format.Currency(s.SubTotal),
		MarkupFormatted:       format.Percent(s.MarkupPercent),
		MarkupAmountFormatted: format.Currency(s.MarkupAmount),
		GrandTotalFormatted:   format.Currency(s.GrandTotal),
	}
}

func presentSheet(sheet *estimate.Sheet) sheetResponse {
	rows := make([]rowResponse, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, presentRow(row))
	}
	return sheetResponse{
		Estimate: sheet.Estimate,
		Rows:     rows,
		Summary:  presentSummary(sheet.Summary),
	}
}

func presentLedger(l *ledger.Ledger) ledgerResponse {
	versions := l.Versions()
	out := make([]versionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, versionResponse{EstimateVersion: v, TotalFormatted: format.Currency(v.TotalAmount)})
	}
	rec := l.Reconciliation()
	return ledgerResponse{
		ProposalNo:                 rec.ProposalNo,
		Versions:                   out,
		NextVersionNumber:          l.NextVersionNumber(),
		OriginalContract:           rec.OriginalContract,
		ChangeOrdersTotal:          rec.ChangeOrdersTotal,
		ContractTotal:              rec.ContractTotal,
		OriginalContractFormatted:  format.Currency(rec.OriginalContract),
		ChangeOrdersTotalFormatted: format.Currency(rec.ChangeOrdersTotal),
		ContractTotalFormatted:     format.Currency(rec.ContractTotal),
	}
}
