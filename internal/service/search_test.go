package service

import (
	"context"
	"testing"

	"estateagent/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMatchScore(t *testing.T) {
	base := testProperty(1, nil)

	tests := []struct {
		name     string
		criteria *model.SearchCriteria
		want     int
	}{
		{"nil criteria", nil, 0},
		{"empty criteria", &model.SearchCriteria{}, 0},
		{"within budget", &model.SearchCriteria{MaxPrice: floatPtr(600000)}, 20},
		{"over budget", &model.SearchCriteria{MaxPrice: floatPtr(400000)}, -10},
		{"exact bedrooms", &model.SearchCriteria{Bedrooms: intPtr(2)}, 15},
		{"more bedrooms than asked", &model.SearchCriteria{Bedrooms: intPtr(1)}, 10},
		{"fewer bedrooms than asked", &model.SearchCriteria{Bedrooms: intPtr(3)}, 0},
		{"pet friendly wanted", &model.SearchCriteria{PetFriendly: boolPtr(true)}, 10},
		{"city match", &model.SearchCriteria{City: strPtr("San Francisco")}, 15},
		{"city mismatch", &model.SearchCriteria{City: strPtr("Austin")}, 0},
		{
			"one of two facilities present",
			&model.SearchCriteria{RequiredFacilities: []string{"gym", "vet"}},
			5,
		},
		{
			"all constraints hit",
			&model.SearchCriteria{
				MaxPrice:           floatPtr(600000),
				Bedrooms:           intPtr(2),
				PetFriendly:        boolPtr(true),
				City:               strPtr("San Francisco"),
				RequiredFacilities: []string{"gym", "school"},
			},
			70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchScore(*base, tt.criteria))
		})
	}
}

func TestRankPropertiesOrdering(t *testing.T) {
	cheap := *testProperty(1, func(p *model.Property) { p.Price = 400000 })
	expensive := *testProperty(2, func(p *model.Property) { p.Price = 900000 })
	overBudget := *testProperty(3, func(p *model.Property) { p.Price = 1200000 })

	criteria := &model.SearchCriteria{MaxPrice: floatPtr(1000000)}
	ranked := RankProperties([]model.Property{overBudget, expensive, cheap}, criteria)

	require.Len(t, ranked, 3)
	// equal scores break ties by price ascending
	assert.Equal(t, int64(1), ranked[0].ID)
	assert.Equal(t, int64(2), ranked[1].ID)
	assert.Equal(t, int64(3), ranked[2].ID)
	assert.Greater(t, ranked[0].MatchScore, ranked[2].MatchScore)
}

func TestRankPropertiesStableOnFullTies(t *testing.T) {
	a := *testProperty(10, nil)
	b := *testProperty(11, nil)
	c := *testProperty(12, nil)

	ranked := RankProperties([]model.Property{a, b, c}, &model.SearchCriteria{})

	require.Len(t, ranked, 3)
	assert.Equal(t, int64(10), ranked[0].ID)
	assert.Equal(t, int64(11), ranked[1].ID)
	assert.Equal(t, int64(12), ranked[2].ID)
}

func TestNormalizeCriteria(t *testing.T) {
	c := &model.SearchCriteria{
		City:               strPtr("nyc"),
		State:              strPtr("ny"),
		RequiredFacilities: []string{"GYM", "spa", "school"},
	}
	normalizeCriteria(c)

	assert.Equal(t, "New York City", *c.City)
	assert.Equal(t, "NY", *c.State)
	assert.Equal(t, model.DefaultPropertyTypes, c.PropertyTypes)
	// unknown facility categories are dropped, known ones lowercased
	assert.Equal(t, []string{"gym", "school"}, c.RequiredFacilities)
}

func TestNormalizeCriteriaTitleCasesUnknownCity(t *testing.T) {
	c := &model.SearchCriteria{City: strPtr("  san diego ")}
	normalizeCriteria(c)
	assert.Equal(t, "San Diego", *c.City)
}

func TestExtractCriteriaFallsBackToDefaults(t *testing.T) {
	svc := NewSearchService(newFakeCatalog(), &stubGenerator{reply: "no json here"}, zap.NewNop(), 50, 10)

	criteria := svc.ExtractCriteria(context.Background(), "find me a home")

	require.NotNil(t, criteria)
	assert.Equal(t, model.DefaultPropertyTypes, criteria.PropertyTypes)
	assert.Nil(t, criteria.MaxPrice)
}

func TestExtractCriteriaParsesGeneratedReply(t *testing.T) {
	reply := `{"bedrooms": 2, "max_price": 500000, "city": "sf", "required_facilities": ["gym"]}`
	svc := NewSearchService(newFakeCatalog(), &stubGenerator{reply: reply}, zap.NewNop(), 50, 10)

	criteria := svc.ExtractCriteria(context.Background(), "2BHK in SF under 500k with a gym")

	require.NotNil(t, criteria.Bedrooms)
	assert.Equal(t, 2, *criteria.Bedrooms)
	assert.Equal(t, 500000.0, *criteria.MaxPrice)
	assert.Equal(t, "San Francisco", *criteria.City)
	assert.Equal(t, []string{"gym"}, criteria.RequiredFacilities)
	// absent fields keep defaults
	assert.Equal(t, model.DefaultPropertyTypes, criteria.PropertyTypes)
}

func TestSearchTruncatesToDisplayLimit(t *testing.T) {
	catalog := newFakeCatalog()
	for i := int64(1); i <= 5; i++ {
		catalog.searchResults = append(catalog.searchResults, *testProperty(i, nil))
	}

	svc := NewSearchService(catalog, nil, zap.NewNop(), 50, 3)
	result, err := svc.Search(context.Background(), "find apartments")
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalFound)
	assert.Equal(t, 3, result.TotalDisplayed)
	assert.Len(t, result.Properties, 3)
	// price range covers the full ranked set, not just the displayed slice
	assert.Equal(t, 500000.0, result.PriceRange.Min)
	assert.Equal(t, 1, result.Locations.TotalCities)
}

func TestSearchNoResultsSuggestions(t *testing.T) {
	catalog := newFakeCatalog() // empty searchResults
	reply := `{"bedrooms": 3, "max_price": 300000, "city": "San Francisco", "required_facilities": ["gym"]}`

	svc := NewSearchService(catalog, &stubGenerator{reply: reply}, zap.NewNop(), 50, 10)
	result, err := svc.Search(context.Background(), "3BHK in SF under 300k with a gym")
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalFound)
	assert.Empty(t, result.Properties)
	// capped at three suggestions even though four constraints applied
	assert.Len(t, result.Suggestions, 3)
	assert.Contains(t, result.Suggestions[0], "budget")
}
