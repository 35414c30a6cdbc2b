package service

import (
	"context"
	"testing"

	"estateagent/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLuxuryTier(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		city  string
		want  string
	}{
		// 1.2M / 1.5 = 800k, premium despite the headline price
		{"expensive SF is only premium", 1200000, "San Francisco", model.TierPremium},
		{"same price in Miami is luxury", 1200000, "Miami", model.TierLuxury},
		{"ultra luxury", 2400000, "San Francisco", model.TierUltraLuxury},
		// 350k / 0.7 = 500k
		{"cheap Houston adjusts upward", 350000, "Houston", model.TierStandardPlus},
		{"unknown city uses low multiplier", 300000, "Boise", model.TierStandard},
		{"unknown city premium", 500000, "Boise", model.TierPremium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LuxuryTier(tt.price, tt.city))
		})
	}
}

func TestDefaultAmenityBundleTiersAreSupersets(t *testing.T) {
	property := testProperty(1, nil)
	tiers := []string{
		model.TierStandard, model.TierStandardPlus, model.TierPremium,
		model.TierLuxury, model.TierUltraLuxury,
	}

	var prevBuilding, prevSecurity int
	for _, tier := range tiers {
		bundle := DefaultAmenityBundle(property, tier)
		assert.GreaterOrEqual(t, len(bundle.Building), prevBuilding, "tier %s", tier)
		assert.GreaterOrEqual(t, len(bundle.Security), prevSecurity, "tier %s", tier)
		prevBuilding = len(bundle.Building)
		prevSecurity = len(bundle.Security)
	}

	standard := DefaultAmenityBundle(property, model.TierStandard)
	assert.Empty(t, standard.Luxury)
	assert.NotEmpty(t, DefaultAmenityBundle(property, model.TierPremium).Luxury)
}

func TestDefaultAmenityBundlePropertyTraits(t *testing.T) {
	townhouse := testProperty(1, func(p *model.Property) { p.PropertyType = "Townhouse - End Unit" })
	bundle := DefaultAmenityBundle(townhouse, model.TierStandard)
	assert.Contains(t, bundle.Outdoor, "Private Yard")

	studio := testProperty(2, func(p *model.Property) { p.Bedrooms = 0 })
	bundle = DefaultAmenityBundle(studio, model.TierStandard)
	assert.NotContains(t, bundle.Unit, "Guest Bedroom")

	modern := testProperty(3, func(p *model.Property) { p.YearBuilt = 2020 })
	bundle = DefaultAmenityBundle(modern, model.TierStandard)
	assert.Contains(t, bundle.Technology, "Smart Home Pre-wiring")
}

func TestScoreAmenities(t *testing.T) {
	entries := func(n int, categories ...string) []model.AmenityEntry {
		out := make([]model.AmenityEntry, n)
		for i := range out {
			out[i] = model.AmenityEntry{
				Name:     "a",
				Category: categories[i%len(categories)],
			}
		}
		return out
	}

	t.Run("score formula", func(t *testing.T) {
		// 10 entries over 3 categories, premium tier:
		// base 20 + tier 10 + diversity 6 = 36, rating 1.8
		score := ScoreAmenities(entries(10, "A", "B", "C"), model.TierPremium)
		assert.Equal(t, 36, score.TotalScore)
		assert.Equal(t, 1.8, score.Rating)
		assert.Equal(t, 10, score.TotalAmenities)
		assert.Equal(t, 3, score.UniqueCategories)
	})

	t.Run("quantity caps at 50 points", func(t *testing.T) {
		score := ScoreAmenities(entries(100, "A"), model.TierStandard)
		assert.Equal(t, 52, score.TotalScore)
	})

	t.Run("rating never exceeds five stars", func(t *testing.T) {
		score := ScoreAmenities(
			entries(100, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"),
			model.TierUltraLuxury)
		assert.Equal(t, 5.0, score.Rating)
	})

	t.Run("empty list", func(t *testing.T) {
		score := ScoreAmenities(nil, model.TierStandard)
		assert.Equal(t, 0, score.TotalScore)
		assert.Equal(t, 0.0, score.Rating)
	})
}

func TestPropertyAmenities(t *testing.T) {
	property := testProperty(1, func(p *model.Property) { p.Price = 900000 })
	svc := NewAmenitiesService(newFakeCatalog(property), nil, zap.NewNop())

	result, err := svc.PropertyAmenities(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.PropertyID)
	assert.Equal(t, property.Address, result.PropertyInfo.Address)
	assert.Equal(t, len(result.Report.AllAmenities), result.AmenityCount)

	// catalog facilities ride along with their distances
	var catalogEntries int
	for _, entry := range result.Report.AllAmenities {
		if entry.Source == model.AmenitySourceCatalog {
			catalogEntries++
			assert.Greater(t, entry.DistanceMiles, 0.0)
		}
	}
	assert.Equal(t, len(property.Facilities), catalogEntries)

	// nearby facilities come back sorted by distance
	require.Len(t, result.Nearby, 2)
	assert.LessOrEqual(t, result.Nearby[0].Distance, result.Nearby[1].Distance)

	assert.GreaterOrEqual(t, result.Report.Score.Rating, 0.0)
	assert.LessOrEqual(t, result.Report.Score.Rating, 5.0)
}

func TestPropertyAmenitiesUnknownProperty(t *testing.T) {
	svc := NewAmenitiesService(newFakeCatalog(), nil, zap.NewNop())
	_, err := svc.PropertyAmenities(context.Background(), 404)
	assert.ErrorAs(t, err, &ErrPropertyNotFound{})
}

func TestPropertyAmenitiesMergesGeneratedBundle(t *testing.T) {
	property := testProperty(1, nil)
	gen := &stubGenerator{reply: `{"building_amenities": ["Helipad"], "luxury_features": []}`}
	svc := NewAmenitiesService(newFakeCatalog(property), gen, zap.NewNop())

	result, err := svc.PropertyAmenities(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"Helipad"}, result.Report.Bundle.Building)
	// fields absent from the reply keep the tier defaults
	assert.NotEmpty(t, result.Report.Bundle.Unit)
}
