package service

import (
	"context"
	"testing"

	"estateagent/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProcessDeal(t *testing.T) {
	property := testProperty(1, nil)
	svc := NewClosingService(newFakeCatalog(property), nil, zap.NewNop())

	result, err := svc.ProcessDeal(context.Background(), 1, map[string]any{"financing": "conventional"})
	require.NoError(t, err)

	assert.Equal(t, "initiated", result.Status)
	assert.Len(t, result.Plan.Phases, 5)
	assert.NotEmpty(t, result.Plan.CriticalMilestones)
	assert.NotEmpty(t, result.ImmediateSteps)
	assert.NotEmpty(t, result.TeamContacts)
	assert.Contains(t, result.Timeline.Windows, "closing_day")
	assert.NotEmpty(t, result.Message)
}

func TestProcessDealUnavailableProperty(t *testing.T) {
	sold := testProperty(1, func(p *model.Property) { p.IsAvailable = false })
	svc := NewClosingService(newFakeCatalog(sold), nil, zap.NewNop())

	_, err := svc.ProcessDeal(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrPropertyUnavailable)
}

func TestProcessDealUnknownProperty(t *testing.T) {
	svc := NewClosingService(newFakeCatalog(), nil, zap.NewNop())
	_, err := svc.ProcessDeal(context.Background(), 42, nil)
	assert.ErrorAs(t, err, &ErrPropertyNotFound{})
}

func TestEstimateClosingCosts(t *testing.T) {
	costs := estimateClosingCosts(500000, "NY")

	var sum float64
	for _, total := range costs.CategoryTotals {
		sum += total
	}
	assert.InDelta(t, costs.EstimatedTotal, sum, 1.0)
	assert.InDelta(t, costs.EstimatedTotal/500000*100, costs.PercentageOfPrice, 0.01)
	assert.InDelta(t, costs.EstimatedTotal+100000, costs.CashNeeded, 0.01)

	// NY transfer tax applies
	assert.Equal(t, 2000.0, costs.DetailedCosts["government_fees"]["transfer_tax"])
	assert.Equal(t, 200.0, costs.DetailedCosts["government_fees"]["recording_fee"])
}

func TestEstimateClosingCostsStateFallback(t *testing.T) {
	// unknown states use the CA schedule
	costs := estimateClosingCosts(500000, "WA")
	assert.Equal(t, 550.0, costs.DetailedCosts["government_fees"]["transfer_tax"])
	assert.Equal(t, 150.0, costs.DetailedCosts["government_fees"]["recording_fee"])

	texas := estimateClosingCosts(500000, "TX")
	assert.Equal(t, 0.0, texas.DetailedCosts["government_fees"]["transfer_tax"])
}

func TestFinalizeDeal(t *testing.T) {
	property := testProperty(1, nil)
	catalog := newFakeCatalog(property)
	svc := NewClosingService(catalog, nil, zap.NewNop())

	result, err := svc.FinalizeDeal(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "completed", result.Status)
	assert.True(t, result.DatabaseUpdated)
	assert.NotEmpty(t, result.CompletionDate)
	assert.NotEmpty(t, result.CompletionDocs)
	assert.NotEmpty(t, result.PostClosingSteps)
	assert.False(t, catalog.availability[1])
}

func TestFinalizeDealUnknownProperty(t *testing.T) {
	svc := NewClosingService(newFakeCatalog(), nil, zap.NewNop())
	result, err := svc.FinalizeDeal(context.Background(), 404)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.DatabaseUpdated)
}
