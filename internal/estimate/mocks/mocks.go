package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Simplici0/bidcost/internal/constants"
	"github.com/Simplici0/bidcost/internal/estimate"
	"github.com/Simplici0/bidcost/internal/pricing"
)

// Repository is a mock for estimate.Repository.
type Repository struct {
	mock.Mock
}

func (m *Repository) CreateEstimate(ctx context.Context, est *estimate.Estimate) error {
	args := m.Called(ctx, est)
	return args.Error(0)
}

func (m *Repository) CreateVersion(ctx context.Context, est *estimate.Estimate) error {
	args := m.Called(ctx, est)
	return args.Error(0)
}

func (m *Repository) GetEstimate(ctx context.Context, id string) (*estimate.Estimate, error) {
	args := m.Called(ctx, id)
	if est, ok := args.Get(0).(*estimate.Estimate); ok {
		return est, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Repository) UpdateEstimate(ctx context.Context, est *estimate.Estimate) error {
	args := m.Called(ctx, est)
	return args.Error(0)
}

func (m *Repository) ListByProposal(ctx context.Context, proposalNo string) ([]estimate.Estimate, error) {
	args := m.Called(ctx, proposalNo)
	if list, ok := args.Get(0).([]estimate.Estimate); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// AppendLineItem accepts either a pricing.Record or a
// func(context.Context, pricing.Record) pricing.Record as its first return.
func (m *Repository) AppendLineItem(ctx context.Context, rec pricing.Record) (pricing.Record, error) {
	args := m.Called(ctx, rec)
	if fn, ok := args.Get(0).(func(context.Context, pricing.Record) pricing.Record); ok {
		return fn(ctx, rec), args.Error(1)
	}
	if out, ok := args.Get(0).(pricing.Record); ok {
		return out, args.Error(1)
	}
	return pricing.Record{}, args.Error(1)
}

func (m *Repository) UpdateLineItemField(ctx context.Context, estimateID, lineItemID, field string, value any) (pricing.Record, error) {
	args := m.Called(ctx, estimateID, lineItemID, field, value)
	if out, ok := args.Get(0).(pricing.Record); ok {
		return out, args.Error(1)
	}
	return pricing.Record{}, args.Error(1)
}

func (m *Repository) DeleteLineItem(ctx context.Context, estimateID, lineItemID string) error {
	args := m.Called(ctx, estimateID, lineItemID)
	return args.Error(0)
}

func (m *Repository) ListConstants(ctx context.Context) (constants.Table, error) {
	args := m.Called(ctx)
	if table, ok := args.Get(0).(constants.Table); ok {
		return table, args.Error(1)
	}
	return nil, args.Error(1)
}
