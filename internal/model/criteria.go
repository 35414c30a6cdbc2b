package model

// DefaultPropertyTypes is the full catalog category set, used when a query
// does not narrow the property type.
var DefaultPropertyTypes = []string{"Apartment", "Condo", "House", "Townhouse"}

// SearchCriteria represents structured search filters extracted from a query.
// Every consumer sees the full optional-field set; nil means unconstrained.
type SearchCriteria struct {
	Bedrooms            *int     `json:"bedrooms,omitempty"`
	Bathrooms           *float64 `json:"bathrooms,omitempty"`
	MinPrice            *float64 `json:"min_price,omitempty"`
	MaxPrice            *float64 `json:"max_price,omitempty"`
	PropertyTypes       []string `json:"property_type,omitempty"`
	City                *string  `json:"city,omitempty"`
	State               *string  `json:"state,omitempty"`
	PetFriendly         *bool    `json:"pet_friendly,omitempty"`
	RequiredFacilities  []string `json:"required_facilities,omitempty"`
	MaxFacilityDistance *float64 `json:"max_facility_distance,omitempty"`
}

// PriceRange summarizes prices over a result set
type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// LocationSummary summarizes result locations
type LocationSummary struct {
	Cities      map[string]int `json:"cities"`
	States      map[string]int `json:"states"`
	TotalCities int            `json:"total_cities"`
	TotalStates int            `json:"total_states"`
}
