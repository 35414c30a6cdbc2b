package model

// Luxury tiers derived from location-adjusted price
const (
	TierStandard     = "standard"
	TierStandardPlus = "standard_plus"
	TierPremium      = "premium"
	TierLuxury       = "luxury"
	TierUltraLuxury  = "ultra_luxury"
)

// Amenity entry sources
const (
	AmenitySourceGenerated = "generated"
	AmenitySourceCatalog   = "catalog"
)

// AmenityBundle groups amenities into the seven fixed categories
type AmenityBundle struct {
	Building    []string `json:"building_amenities"`
	Unit        []string `json:"unit_features"`
	Luxury      []string `json:"luxury_features"`
	Outdoor     []string `json:"outdoor_spaces"`
	Technology  []string `json:"technology"`
	Security    []string `json:"safety_security"`
	Convenience []string `json:"convenience"`
}

// AmenityEntry is one named amenity with its category and provenance
type AmenityEntry struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	DistanceMiles float64 `json:"distance,omitempty"`
	Source        string  `json:"source"`
}

// AmenityScore rates the amenity richness of a property
type AmenityScore struct {
	TotalScore       int     `json:"total_score"`
	Rating           float64 `json:"rating"` // 0.0 .. 5.0
	TotalAmenities   int     `json:"total_amenities"`
	UniqueCategories int     `json:"unique_categories"`
	LuxuryTier       string  `json:"luxury_tier"`
}

// AmenityReport is the full synthesized amenity view of a property
type AmenityReport struct {
	Bundle       AmenityBundle  `json:"amenities"`
	AllAmenities []AmenityEntry `json:"all_amenities"`
	Score        AmenityScore   `json:"amenity_score"`
}
