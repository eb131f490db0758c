package estimate

import (
	"context"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Simplici0/bidcost/internal/constants"
	"github.com/Simplici0/bidcost/internal/editing"
	"github.com/Simplici0/bidcost/internal/ledger"
	"github.com/Simplici0/bidcost/internal/numeric"
	"github.com/Simplici0/bidcost/internal/pricing"
)

// Repository is the persistence collaborator. Implementations return
// errors wrapping ErrNotFound for missing estimates and line items.
type Repository interface {
	CreateEstimate(ctx context.Context, est *Estimate) error
	// CreateVersion stores est and all of its line items atomically.
	CreateVersion(ctx context.Context, est *Estimate) error
	GetEstimate(ctx context.Context, id string) (*Estimate, error)
	UpdateEstimate(ctx context.Context, est *Estimate) error
	ListByProposal(ctx context.Context, proposalNo string) ([]Estimate, error)

	AppendLineItem(ctx context.Context, rec pricing.Record) (pricing.Record, error)
	UpdateLineItemField(ctx context.Context, estimateID, lineItemID, field string, value any) (pricing.Record, error)
	DeleteLineItem(ctx context.Context, estimateID, lineItemID string) error

	ListConstants(ctx context.Context) (constants.Table, error)
}

// Service handles estimate operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new estimate service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// CreateRequest describes a new estimate. MarkupPercent accepts whatever
// the client typed and is coerced.
type CreateRequest struct {
	CustomerID    string `json:"customerId"`
	ProposalNo    string `json:"proposalNo"`
	MarkupPercent any    `json:"markupPercent"`
	Fringe        string `json:"fringe"`
}

// Sheet is an estimate with its row totals and roll-up.
type Sheet struct {
	Estimate *Estimate `json:"estimate"`
	Rows     []Row     `json:"rows"`
	Summary  Summary   `json:"summary"`
}

// Create stores a new draft estimate as version 1 of its proposal.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Estimate, error) {
	proposalNo := strings.TrimSpace(req.ProposalNo)
	if proposalNo == "" {
		return nil, eris.Wrap(ErrInvalidInput, "estimate: proposal number is required")
	}

	existing, err := s.repo.ListByProposal(ctx, proposalNo)
	if err != nil {
		return nil, eris.Wrapf(err, "estimate: list proposal %s", proposalNo)
	}
	if len(existing) > 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "estimate: proposal %s already exists; create a new version instead", proposalNo)
	}

	now := s.now()
	est := &Estimate{
		ID:            uuid.New().String(),
		CustomerID:    strings.TrimSpace(req.CustomerID),
		ProposalNo:    proposalNo,
		VersionNumber: 1,
		MarkupPercent: numeric.ToNumber(req.MarkupPercent),
		Fringe:        strings.TrimSpace(req.Fringe),
		Status:        StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
		LineItems:     map[pricing.Category][]pricing.Record{},
	}
	if err := s.repo.CreateEstimate(ctx, est); err != nil {
		return nil, eris.Wrap(err, "estimate: create")
	}

	zap.L().Info("estimate: created",
		zap.String("estimate_id", est.ID),
		zap.String("proposal_no", est.ProposalNo),
	)
	return est, nil
}

// Get loads an estimate with its line items.
func (s *Service) Get(ctx context.Context, id string) (*Estimate, error) {
	est, err := s.repo.GetEstimate(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "estimate: get %s", id)
	}
	return est, nil
}

// Summary loads an estimate and computes its rows and roll-up against the
// current constants table.
func (s *Service) Summary(ctx context.Context, id string) (*Sheet, error) {
	est, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	table, err := s.constants(ctx)
	if err != nil {
		return nil, err
	}
	return &Sheet{
		Estimate: est,
		Rows:     Rows(est, table),
		Summary:  Aggregate(est, table),
	}, nil
}

// Preview computes the total of an unsaved line item as it would appear on
// the estimate.
func (s *Service) Preview(ctx context.Context, id, category string, fields map[string]any) (float64, error) {
	cat, ok := pricing.ParseCategory(category)
	if !ok {
		return 0, eris.Wrapf(ErrInvalidInput, "estimate: unknown category %q", category)
	}
	est, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	table, err := s.constants(ctx)
	if err != nil {
		return 0, err
	}
	return pricing.RecordTotal(pricing.Record{Category: cat, Fields: fields}, est.PricingContext(table)), nil
}

// AppendLineItem adds a line item at the end of its category.
func (s *Service) AppendLineItem(ctx context.Context, id, category string, fields map[string]any) (*Row, error) {
	cat, ok := pricing.ParseCategory(category)
	if !ok {
		return nil, eris.Wrapf(ErrInvalidInput, "estimate: unknown category %q", category)
	}
	for key := range fields {
		if !pricing.IsField(cat, key) {
			return nil, eris.Wrapf(ErrInvalidInput, "estimate: %s is not a %s field", key, cat)
		}
	}

	est, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields == nil {
		fields = map[string]any{}
	}
	rec, err := s.repo.AppendLineItem(ctx, pricing.Record{
		ID:         uuid.New().String(),
		EstimateID: est.ID,
		Category:   cat,
		Position:   len(est.LineItems[cat]),
		Fields:     fields,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "estimate: append %s line item to %s", cat, id)
	}

	return s.row(ctx, est, rec)
}

// UpdateField commits one field of a line item. It reports whether a write
// happened; setting a field to the value it already has writes nothing.
// The editing session lives for this call only, so its preview and revert
// paths are left to clients that keep a session open across edits.
func (s *Service) UpdateField(ctx context.Context, id, itemID, field string, value any) (*Row, bool, error) {
	est, err := s.editable(ctx, id)
	if err != nil {
		return nil, false, err
	}
	rec, ok := est.Item(itemID)
	if !ok {
		return nil, false, eris.Wrapf(ErrNotFound, "estimate: line item %s on %s", itemID, id)
	}

	session := editing.NewSession(rec, s.repo)
	if err := session.Set(field, value); err != nil {
		return nil, false, eris.Wrap(ErrInvalidInput, err.Error())
	}
	wrote, err := session.Commit(ctx, field)
	if err != nil {
		return nil, false, err
	}
	if wrote {
		zap.L().Info("estimate: line item field committed",
			zap.String("estimate_id", id),
			zap.String("line_item_id", itemID),
			zap.String("field", field),
		)
	}

	row, err := s.row(ctx, est, session.Committed())
	if err != nil {
		return nil, false, err
	}
	return row, wrote, nil
}

// DeleteLineItem removes a line item from its estimate.
func (s *Service) DeleteLineItem(ctx context.Context, id, itemID string) error {
	if _, err := s.editable(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteLineItem(ctx, id, itemID); err != nil {
		return eris.Wrapf(err, "estimate: delete line item %s from %s", itemID, id)
	}
	return nil
}

// UpdateTerms changes the markup and the global fringe selection of a
// draft estimate.
func (s *Service) UpdateTerms(ctx context.Context, id string, markupPercent any, fringe string) (*Estimate, error) {
	est, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	est.MarkupPercent = numeric.ToNumber(markupPercent)
	est.Fringe = strings.TrimSpace(fringe)
	est.UpdatedAt = s.now()
	if err := s.repo.UpdateEstimate(ctx, est); err != nil {
		return nil, eris.Wrapf(err, "estimate: update terms of %s", id)
	}
	return est, nil
}

// Confirm locks a draft estimate.
func (s *Service) Confirm(ctx context.Context, id string) (*Estimate, error) {
	est, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if est.Status == StatusConfirmed {
		return est, nil
	}
	est.Status = StatusConfirmed
	est.UpdatedAt = s.now()
	if err := s.repo.UpdateEstimate(ctx, est); err != nil {
		return nil, eris.Wrapf(err, "estimate: confirm %s", id)
	}
	return est, nil
}

// SetOutcome records the commercial outcome of an estimate version.
func (s *Service) SetOutcome(ctx context.Context, id string, outcome Outcome) (*Estimate, error) {
	outcome = Outcome(strings.ToLower(strings.TrimSpace(string(outcome))))
	if !outcome.Valid() {
		return nil, eris.Wrapf(ErrInvalidInput, "estimate: unknown outcome %q", outcome)
	}
	est, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	est.Outcome = outcome
	est.UpdatedAt = s.now()
	if err := s.repo.UpdateEstimate(ctx, est); err != nil {
		return nil, eris.Wrapf(err, "estimate: set outcome of %s", id)
	}
	return est, nil
}

// NewVersion copies an estimate and its line items into a new draft
// document with the same proposal number and the next version number. The
// source version is left untouched.
func (s *Service) NewVersion(ctx context.Context, id string, changeOrder bool) (*Estimate, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	chain, err := s.chain(ctx, src.ProposalNo, nil, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	next := &Estimate{
		ID:            uuid.New().String(),
		CustomerID:    src.CustomerID,
		ProposalNo:    src.ProposalNo,
		VersionNumber: chain.NextVersionNumber(),
		IsChangeOrder: changeOrder,
		MarkupPercent: src.MarkupPercent,
		Fringe:        src.Fringe,
		Status:        StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
		LineItems:     map[pricing.Category][]pricing.Record{},
	}
	for _, rec := range src.Items() {
		cp := rec
		cp.Fields = maps.Clone(rec.Fields)
		cp.ID = uuid.New().String()
		cp.EstimateID = next.ID
		next.LineItems[cp.Category] = append(next.LineItems[cp.Category], cp)
	}
	if err := s.repo.CreateVersion(ctx, next); err != nil {
		return nil, eris.Wrapf(err, "estimate: create version %d of %s", next.VersionNumber, next.ProposalNo)
	}

	zap.L().Info("estimate: new version",
		zap.String("estimate_id", next.ID),
		zap.String("proposal_no", next.ProposalNo),
		zap.Int("version_number", next.VersionNumber),
		zap.Bool("change_order", changeOrder),
	)
	return next, nil
}

// Ledger builds the version ledger of a proposal. Each version's total is
// its grand total under the current constants table.
func (s *Service) Ledger(ctx context.Context, proposalNo string) (*ledger.Ledger, error) {
	table, err := s.constants(ctx)
	if err != nil {
		return nil, err
	}
	return s.chain(ctx, proposalNo, table, true)
}

func (s *Service) chain(ctx context.Context, proposalNo string, table constants.Table, withTotals bool) (*ledger.Ledger, error) {
	ests, err := s.repo.ListByProposal(ctx, proposalNo)
	if err != nil {
		return nil, eris.Wrapf(err, "estimate: list proposal %s", proposalNo)
	}
	if len(ests) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "estimate: proposal %s", proposalNo)
	}

	l, err := ledger.New(proposalNo)
	if err != nil {
		return nil, err
	}
	for i := range ests {
		est := &ests[i]
		v := ledger.EstimateVersion{
			ID:            est.ID,
			ProposalNo:    est.ProposalNo,
			VersionNumber: est.VersionNumber,
			Date:          est.CreatedAt,
			IsChangeOrder: est.IsChangeOrder,
			Status:        string(est.Outcome),
		}
		if withTotals {
			v.TotalAmount = Aggregate(est, table).GrandTotal
		}
		if err := l.Add(v); err != nil {
			return nil, eris.Wrapf(err, "estimate: ledger for %s", proposalNo)
		}
	}
	return l, nil
}

func (s *Service) editable(ctx context.Context, id string) (*Estimate, error) {
	est, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if est.Status == StatusConfirmed {
		return nil, eris.Wrapf(ErrLocked, "estimate: %s", id)
	}
	return est, nil
}

func (s *Service) row(ctx context.Context, est *Estimate, rec pricing.Record) (*Row, error) {
	table, err := s.constants(ctx)
	if err != nil {
		return nil, err
	}
	return &Row{Record: rec, Total: pricing.RecordTotal(rec, est.PricingContext(table))}, nil
}

func (s *Service) constants(ctx context.Context) (constants.Table, error) {
	table, err := s.repo.ListConstants(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "estimate: load constants")
	}
	return table, nil
}
