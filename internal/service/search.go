package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"estateagent/internal/genai"
	"estateagent/internal/model"

	"go.uber.org/zap"
)

// SearchService extracts search criteria from natural language and ranks
// matching properties from the catalog
type SearchService struct {
	catalog      Catalog
	gen          genai.Generator
	logger       *zap.Logger
	resultCap    int
	displayLimit int
}

// NewSearchService creates a new search service
func NewSearchService(catalog Catalog, gen genai.Generator, logger *zap.Logger, resultCap, displayLimit int) *SearchService {
	return &SearchService{
		catalog:      catalog,
		gen:          gen,
		logger:       logger,
		resultCap:    resultCap,
		displayLimit: displayLimit,
	}
}

// SearchResult is the outcome of one search request
type SearchResult struct {
	Properties       []model.RankedProperty `json:"properties"`
	TotalFound       int                    `json:"total_found"`
	TotalDisplayed   int                    `json:"total_displayed"`
	Criteria         *model.SearchCriteria  `json:"search_criteria"`
	PriceRange       model.PriceRange       `json:"price_range"`
	Locations        model.LocationSummary  `json:"locations"`
	Suggestions      []string               `json:"suggestions,omitempty"`
	AlternativeCount int                    `json:"alternative_count,omitempty"`
}

// Search processes a natural language search query end to end
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	criteria := s.ExtractCriteria(ctx, query)
	s.logger.Info("extracted search criteria",
		zap.Any("criteria", criteria),
		zap.String("query", query))

	properties, err := s.catalog.SearchProperties(ctx, criteria, s.resultCap)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}

	if len(properties) == 0 {
		return s.noResults(ctx, criteria)
	}

	ranked := RankProperties(properties, criteria)

	displayed := ranked
	if len(displayed) > s.displayLimit {
		displayed = displayed[:s.displayLimit]
	}

	return &SearchResult{
		Properties:     displayed,
		TotalFound:     len(properties),
		TotalDisplayed: len(displayed),
		Criteria:       criteria,
		PriceRange:     priceRange(ranked),
		Locations:      locationSummary(ranked),
	}, nil
}

// ExtractCriteria extracts structured search criteria from the query text via
// the generation resilience layer and normalizes the result. On generation
// failure the criteria default to the full property-type set.
func (s *SearchService) ExtractCriteria(ctx context.Context, query string) *model.SearchCriteria {
	prompt := fmt.Sprintf(`Analyze this real estate search query and extract precise criteria: %q

Return ONLY valid JSON with these optional fields:
{
  "bedrooms": number (exact number from 2BHK, 3BR, etc.),
  "bathrooms": number,
  "min_price": number (in dollars),
  "max_price": number (in dollars from budget/under statements),
  "property_type": ["Apartment", "Condo", "House", "Townhouse"] (array),
  "city": "exact city name",
  "state": "2-letter state code",
  "pet_friendly": boolean (if pet-friendly mentioned),
  "max_facility_distance": number (in miles if distance mentioned),
  "required_facilities": ["gym", "hospital", "vet", "school", "university", "shopping"]
}

City name rules:
- "New York", "New York City" or "NYC" -> "city": "New York City", "state": "NY"
- "SF" or "San Francisco" -> "city": "San Francisco", "state": "CA"
- "LA" or "Los Angeles" -> "city": "Los Angeles", "state": "CA"
- Handle "near [city]", "in [city]" and "around [city]" patterns

Price rules:
- Convert "500k" to 500000
- "under/below/less than X" -> "max_price": X
- "above/more than/over X" -> "min_price": X
- "between X and Y" -> set both min_price and max_price

Special cases:
- Default property_type to all four types if no type specified
- Include max_facility_distance=5 if facilities are mentioned without distance`, query)

	defaults := model.SearchCriteria{PropertyTypes: model.DefaultPropertyTypes}
	outcome := genai.GenerateStructured(ctx, s.gen, prompt, defaults)
	if outcome.Fallback {
		s.logger.Warn("criteria extraction fell back to defaults", zap.String("query", query))
	}

	criteria := outcome.Value
	normalizeCriteria(&criteria)
	return &criteria
}

// cityAliases maps common shorthand to canonical city names
var cityAliases = map[string]string{
	"nyc":      "New York City",
	"new york": "New York City",
	"sf":       "San Francisco",
	"la":       "Los Angeles",
}

// validFacilityCategories is the fixed catalog facility taxonomy
var validFacilityCategories = map[string]bool{
	"gym": true, "hospital": true, "vet": true,
	"school": true, "university": true, "shopping": true,
}

func normalizeCriteria(c *model.SearchCriteria) {
	if c.City != nil {
		city := strings.ToLower(strings.TrimSpace(*c.City))
		if canonical, ok := cityAliases[city]; ok {
			c.City = &canonical
		} else {
			titled := titleCase(city)
			c.City = &titled
		}
	}

	if c.State != nil {
		state := strings.ToUpper(strings.TrimSpace(*c.State))
		c.State = &state
	}

	if len(c.PropertyTypes) == 0 {
		c.PropertyTypes = model.DefaultPropertyTypes
	}

	if len(c.RequiredFacilities) > 0 {
		kept := c.RequiredFacilities[:0]
		for _, f := range c.RequiredFacilities {
			if validFacilityCategories[strings.ToLower(f)] {
				kept = append(kept, strings.ToLower(f))
			}
		}
		c.RequiredFacilities = kept
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// RankProperties scores candidates against the criteria and sorts them by
// (score descending, price ascending). The sort is stable: candidates with
// equal score and price keep their repository order. Scoring is a pure
// function of (property, criteria).
func RankProperties(properties []model.Property, criteria *model.SearchCriteria) []model.RankedProperty {
	ranked := make([]model.RankedProperty, 0, len(properties))
	for _, p := range properties {
		ranked = append(ranked, model.RankedProperty{
			Property:   p,
			MatchScore: matchScore(p, criteria),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MatchScore != ranked[j].MatchScore {
			return ranked[i].MatchScore > ranked[j].MatchScore
		}
		return ranked[i].Price < ranked[j].Price
	})

	return ranked
}

func matchScore(p model.Property, criteria *model.SearchCriteria) int {
	if criteria == nil {
		return 0
	}

	score := 0

	if criteria.MaxPrice != nil {
		if p.Price <= *criteria.MaxPrice {
			score += 20
		} else {
			score -= 10
		}
	}

	if criteria.Bedrooms != nil {
		if p.Bedrooms == *criteria.Bedrooms {
			score += 15
		} else if p.Bedrooms >= *criteria.Bedrooms {
			score += 10
		}
	}

	if criteria.PetFriendly != nil && *criteria.PetFriendly && p.IsPetFriendly {
		score += 10
	}

	if len(criteria.RequiredFacilities) > 0 {
		available := make(map[string]bool, len(p.Facilities))
		for _, f := range p.Facilities {
			available[f.Category] = true
		}
		for _, required := range criteria.RequiredFacilities {
			if available[required] {
				score += 5
			}
		}
	}

	if criteria.City != nil && strings.Contains(strings.ToLower(p.City), strings.ToLower(*criteria.City)) {
		score += 15
	}

	return score
}

// noResults performs a relaxed re-query dropping price and bedroom
// constraints so the caller always gets actionable suggestions.
func (s *SearchService) noResults(ctx context.Context, criteria *model.SearchCriteria) (*SearchResult, error) {
	var suggestions []string

	if criteria.MaxPrice != nil {
		suggestions = append(suggestions,
			fmt.Sprintf("Consider increasing your budget above $%.0f", *criteria.MaxPrice))
	}
	if criteria.Bedrooms != nil && *criteria.Bedrooms > 2 {
		suggestions = append(suggestions,
			fmt.Sprintf("Try looking for %d-bedroom options", *criteria.Bedrooms-1))
	}
	if criteria.City != nil {
		suggestions = append(suggestions,
			fmt.Sprintf("Expand your search to nearby areas around %s", *criteria.City))
	}
	if len(criteria.RequiredFacilities) > 0 {
		suggestions = append(suggestions, "Consider prioritizing the most important facilities")
	}

	relaxed := *criteria
	relaxed.MaxPrice = nil
	relaxed.Bedrooms = nil

	alternatives, err := s.catalog.SearchProperties(ctx, &relaxed, s.resultCap)
	if err != nil {
		return nil, fmt.Errorf("relaxed catalog search failed: %w", err)
	}

	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}

	return &SearchResult{
		Properties:       []model.RankedProperty{},
		TotalFound:       0,
		Criteria:         criteria,
		Suggestions:      suggestions,
		AlternativeCount: len(alternatives),
	}, nil
}

func priceRange(ranked []model.RankedProperty) model.PriceRange {
	if len(ranked) == 0 {
		return model.PriceRange{}
	}

	pr := model.PriceRange{Min: ranked[0].Price, Max: ranked[0].Price}
	sum := 0.0
	for _, p := range ranked {
		if p.Price < pr.Min {
			pr.Min = p.Price
		}
		if p.Price > pr.Max {
			pr.Max = p.Price
		}
		sum += p.Price
	}
	pr.Average = sum / float64(len(ranked))
	return pr
}

func locationSummary(ranked []model.RankedProperty) model.LocationSummary {
	summary := model.LocationSummary{
		Cities: map[string]int{},
		States: map[string]int{},
	}
	for _, p := range ranked {
		summary.Cities[p.City]++
		summary.States[p.State]++
	}
	summary.TotalCities = len(summary.Cities)
	summary.TotalStates = len(summary.States)
	return summary
}
