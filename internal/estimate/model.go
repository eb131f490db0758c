// Package estimate owns the estimate document: its line items by category,
// the aggregation into subtotal, markup and grand total, and the service
// that edits and versions estimates through a repository.
package estimate

import (
	"time"

	"github.com/Simplici0/bidcost/internal/constants"
	"github.com/Simplici0/bidcost/internal/pricing"
)

// Status is the editing status of an estimate.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
)

// Outcome is the commercial result of a proposal version.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomePending   Outcome = "pending"
	OutcomeWon       Outcome = "won"
	OutcomeLost      Outcome = "lost"
	OutcomeCompleted Outcome = "completed"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeNone, OutcomePending, OutcomeWon, OutcomeLost, OutcomeCompleted:
		return true
	}
	return false
}

// Estimate is one version of a bid.
type Estimate struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customerId"`
	ProposalNo    string    `json:"proposalNo"`
	VersionNumber int       `json:"versionNumber"`
	IsChangeOrder bool      `json:"isChangeOrder"`
	MarkupPercent float64   `json:"markupPercent"`
	Fringe        string    `json:"fringe,omitempty"`
	Status        Status    `json:"status"`
	Outcome       Outcome   `json:"outcome,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	LineItems map[pricing.Category][]pricing.Record `json:"lineItems"`
}

// Items returns the line items of every category, in category display
// order and then position order.
func (e *Estimate) Items() []pricing.Record {
	var out []pricing.Record
	for _, c := range pricing.Categories {
		out = append(out, e.LineItems[c]...)
	}
	return out
}

// Item looks up a line item by id.
func (e *Estimate) Item(id string) (pricing.Record, bool) {
	for _, items := range e.LineItems {
		for _, rec := range items {
			if rec.ID == id {
				return rec, true
			}
		}
	}
	return pricing.Record{}, false
}

// PricingContext returns the context the estimate's line items are
// computed in.
func (e *Estimate) PricingContext(table constants.Table) pricing.Context {
	return pricing.Context{Fringe: e.Fringe, Constants: table}
}
