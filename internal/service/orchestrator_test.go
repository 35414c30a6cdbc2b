package service

import (
	"context"
	"testing"

	"estateagent/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOrchestrator(catalog *fakeCatalog) *Orchestrator {
	logger := zap.NewNop()
	return NewOrchestrator(
		catalog,
		NewSearchService(catalog, nil, logger, 50, 10),
		NewAmenitiesService(catalog, nil, logger),
		NewNegotiationService(catalog, nil, logger),
		NewClosingService(catalog, nil, logger),
		logger,
	)
}

func TestHandleQuerySearch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searchResults = []model.Property{
		*testProperty(1, nil),
		*testProperty(2, nil),
	}
	orch := newTestOrchestrator(catalog)

	envelope := orch.HandleQuery(context.Background(), "find apartments in San Francisco")

	assert.Equal(t, model.StatusSuccess, envelope.Status)
	assert.Contains(t, envelope.Message, "Found 2 properties")
	assert.NotEmpty(t, envelope.Timestamp)
	assert.Contains(t, envelope.Data, "properties")
}

func TestHandleQuerySearchNoResults(t *testing.T) {
	orch := newTestOrchestrator(newFakeCatalog())

	envelope := orch.HandleQuery(context.Background(), "find apartments in San Francisco")

	assert.Equal(t, model.StatusSuccess, envelope.Status)
	assert.Contains(t, envelope.Message, "couldn't find properties")
}

func TestHandleQueryAmenitiesNeedsPropertyID(t *testing.T) {
	orch := newTestOrchestrator(newFakeCatalog())

	envelope := orch.HandleQuery(context.Background(), "tell me about amenities")

	assert.Equal(t, model.StatusInfo, envelope.Status)
	assert.Contains(t, envelope.Message, "property ID")
	assert.NotNil(t, envelope.Data)
}

func TestHandleQueryAmenities(t *testing.T) {
	orch := newTestOrchestrator(newFakeCatalog(testProperty(3, nil)))

	envelope := orch.HandleQuery(context.Background(), "show amenities for property 3")

	assert.Equal(t, model.StatusSuccess, envelope.Status)
	assert.Contains(t, envelope.Data, "amenities")
	assert.Contains(t, envelope.Data, "amenity_count")
}

func TestHandleQueryNegotiationNeedsBothFields(t *testing.T) {
	orch := newTestOrchestrator(newFakeCatalog())

	// intent is negotiation but the offer amount is missing
	envelope := orch.HandleQuery(context.Background(), "I want to negotiate on property 5")

	assert.Equal(t, model.StatusInfo, envelope.Status)
	assert.Contains(t, envelope.Message, "offer amount")
}

func TestHandleQueryNegotiation(t *testing.T) {
	property := testProperty(1, func(p *model.Property) { p.Price = 500000 })
	orch := newTestOrchestrator(newFakeCatalog(property))

	envelope := orch.HandleQuery(context.Background(), "I want to offer $480,000 for property 1")

	assert.Equal(t, model.StatusSuccess, envelope.Status)
	// 4% below asking gets the competitive annotation
	assert.Contains(t, envelope.Message, "very competitive")
	assert.Contains(t, envelope.Data, "seller_response")
	assert.Contains(t, envelope.Data, "offer_analysis")
}

func TestHandleQueryNegotiationLowballAnnotation(t *testing.T) {
	property := testProperty(1, func(p *model.Property) { p.Price = 500000 })
	orch := newTestOrchestrator(newFakeCatalog(property))

	envelope := orch.HandleQuery(context.Background(), "offer $400,000 for property 1")

	require.Equal(t, model.StatusSuccess, envelope.Status)
	assert.Contains(t, envelope.Message, "below asking price")
}

func TestHandleQueryClosing(t *testing.T) {
	property := testProperty(7, nil)
	catalog := newFakeCatalog(property)
	orch := newTestOrchestrator(catalog)

	envelope := orch.HandleQuery(context.Background(), "start the closing paperwork for property 7")

	assert.Equal(t, model.StatusSuccess, envelope.Status)
	assert.Equal(t, true, envelope.Data["database_updated"])
	assert.False(t, catalog.availability[7])
}

func TestHandleQueryClosingNeedsPropertyID(t *testing.T) {
	orch := newTestOrchestrator(newFakeCatalog())

	envelope := orch.HandleQuery(context.Background(), "let's start the closing paperwork")

	assert.Equal(t, model.StatusInfo, envelope.Status)
}

func TestNegotiateUnknownPropertyEnvelope(t *testing.T) {
	orch := newTestOrchestrator(newFakeCatalog())

	envelope := orch.Negotiate(context.Background(), 42, 400000)

	assert.Equal(t, model.StatusError, envelope.Status)
	assert.Contains(t, envelope.Message, "Property 42 not found")
}

func TestCloseDealUnavailableEnvelope(t *testing.T) {
	sold := testProperty(1, func(p *model.Property) { p.IsAvailable = false })
	orch := newTestOrchestrator(newFakeCatalog(sold))

	envelope := orch.CloseDeal(context.Background(), 1, nil)

	assert.Equal(t, model.StatusError, envelope.Status)
	assert.Contains(t, envelope.Message, "no longer available")
}

func TestPropertyEnvelope(t *testing.T) {
	orch := newTestOrchestrator(newFakeCatalog(testProperty(1, nil)))

	found := orch.Property(context.Background(), 1)
	assert.Equal(t, model.StatusSuccess, found.Status)
	assert.Contains(t, found.Data, "property")

	missing := orch.Property(context.Background(), 2)
	assert.Equal(t, model.StatusError, missing.Status)
}

func TestFinalizeDealEnvelope(t *testing.T) {
	catalog := newFakeCatalog(testProperty(1, nil))
	orch := newTestOrchestrator(catalog)

	envelope := orch.FinalizeDeal(context.Background(), 1)

	assert.Equal(t, model.StatusSuccess, envelope.Status)
	assert.Equal(t, true, envelope.Data["database_updated"])
	assert.False(t, catalog.availability[1])
}
