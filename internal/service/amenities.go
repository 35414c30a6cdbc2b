package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"estateagent/internal/genai"
	"estateagent/internal/model"

	"go.uber.org/zap"
)

// AmenitiesService synthesizes a full amenity profile for a property from
// its price tier, its catalog facilities, and the generation layer.
type AmenitiesService struct {
	catalog Catalog
	gen     genai.Generator
	logger  *zap.Logger
}

// NewAmenitiesService creates a new amenities service
func NewAmenitiesService(catalog Catalog, gen genai.Generator, logger *zap.Logger) *AmenitiesService {
	return &AmenitiesService{catalog: catalog, gen: gen, logger: logger}
}

// AmenitiesResult carries the amenity report together with property context
type AmenitiesResult struct {
	PropertyID   int64                `json:"property_id"`
	PropertyInfo PropertyInfo         `json:"property_info"`
	Report       model.AmenityReport  `json:"amenities"`
	AmenityCount int                  `json:"amenity_count"`
	Nearby       []NearbyFacilityView `json:"nearby_facilities"`
}

// PropertyInfo is the abbreviated property context for amenity responses
type PropertyInfo struct {
	Address string  `json:"address"`
	Type    string  `json:"type"`
	Price   float64 `json:"price"`
}

// NearbyFacilityView is one nearby facility formatted for display
type NearbyFacilityView struct {
	Category     string  `json:"category"`
	Name         string  `json:"name"`
	Distance     float64 `json:"distance"`
	DistanceText string  `json:"distance_text"`
}

// PropertyAmenities builds the full amenity report for a property
func (s *AmenitiesService) PropertyAmenities(ctx context.Context, propertyID int64) (*AmenitiesResult, error) {
	s.logger.Info("building amenity report", zap.Int64("property_id", propertyID))

	property, err := s.catalog.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound{PropertyID: propertyID}
	}

	tier := LuxuryTier(property.Price, property.City)
	bundle := s.generateBundle(ctx, property, tier)
	all := collectAmenities(bundle, property.Facilities)

	report := model.AmenityReport{
		Bundle:       bundle,
		AllAmenities: all,
		Score:        ScoreAmenities(all, tier),
	}

	return &AmenitiesResult{
		PropertyID: propertyID,
		PropertyInfo: PropertyInfo{
			Address: property.Address,
			Type:    property.PropertyType,
			Price:   property.Price,
		},
		Report:       report,
		AmenityCount: len(all),
		Nearby:       formatNearby(property.NearbyFacilities),
	}, nil
}

// cityPriceMultipliers adjust luxury thresholds by market; unknown cities
// use the low-cost default.
var cityPriceMultipliers = map[string]float64{
	"San Francisco": 1.5,
	"New York City": 1.4,
	"Los Angeles":   1.2,
	"Seattle":       1.1,
	"Miami":         1.0,
	"Chicago":       0.9,
	"Austin":        0.8,
	"Houston":       0.7,
}

// LuxuryTier classifies a property by its location-adjusted price
func LuxuryTier(price float64, city string) string {
	multiplier, ok := cityPriceMultipliers[city]
	if !ok {
		multiplier = 0.8
	}
	adjusted := price / multiplier

	switch {
	case adjusted >= 1500000:
		return model.TierUltraLuxury
	case adjusted >= 1000000:
		return model.TierLuxury
	case adjusted >= 600000:
		return model.TierPremium
	case adjusted >= 400000:
		return model.TierStandardPlus
	default:
		return model.TierStandard
	}
}

func (s *AmenitiesService) generateBundle(ctx context.Context, property *model.Property, tier string) model.AmenityBundle {
	existing := make([]string, 0, len(property.Facilities))
	for _, f := range property.Facilities {
		existing = append(existing, f.Name)
	}
	nearbyCategories := make([]string, 0, len(property.NearbyFacilities))
	for category := range property.NearbyFacilities {
		nearbyCategories = append(nearbyCategories, category)
	}
	sort.Strings(nearbyCategories)

	prompt := fmt.Sprintf(`Generate detailed amenities for this property:

Property Details:
- Type: %s
- Price: $%.2f
- Bedrooms: %d
- Size: %.0f sq ft
- Year Built: %d
- Location: %s
- Luxury Level: %s

Existing Amenities: %s
Nearby Facilities: %s

Return JSON with:
{
  "building_amenities": ["list of building amenities"],
  "unit_features": ["list of in-unit features"],
  "luxury_features": ["list of premium features if applicable"],
  "outdoor_spaces": ["list of outdoor amenities"],
  "technology": ["list of tech features"],
  "safety_security": ["list of security features"],
  "convenience": ["list of convenience features"]
}

Base amenities on the price point and property type. Higher priced properties should have more luxury amenities.`,
		property.PropertyType, property.Price, property.Bedrooms, property.SquareFeet,
		property.YearBuilt, property.City, tier,
		strings.Join(existing, ", "), strings.Join(nearbyCategories, ", "))

	defaults := DefaultAmenityBundle(property, tier)
	outcome := genai.GenerateStructured(ctx, s.gen, prompt, defaults)
	if outcome.Fallback {
		s.logger.Warn("amenity bundle fell back to tier defaults",
			zap.Int64("property_id", property.ID),
			zap.String("tier", tier))
	}
	return outcome.Value
}

func atLeast(tier string, floor string) bool {
	rank := map[string]int{
		model.TierStandard:     0,
		model.TierStandardPlus: 1,
		model.TierPremium:      2,
		model.TierLuxury:       3,
		model.TierUltraLuxury:  4,
	}
	return rank[tier] >= rank[floor]
}

// DefaultAmenityBundle builds the canonical bundle for a property's tier.
// Higher tiers strictly extend the lists of lower tiers.
func DefaultAmenityBundle(property *model.Property, tier string) model.AmenityBundle {
	building := []string{"Elevator", "Lobby", "Mail Room", "Trash Collection"}
	if atLeast(tier, model.TierStandardPlus) {
		building = append(building, "Fitness Center", "Resident Lounge", "Package Room")
	}
	if atLeast(tier, model.TierPremium) {
		building = append(building, "Swimming Pool", "Rooftop Deck", "Business Center", "Guest Parking")
	}
	if atLeast(tier, model.TierLuxury) {
		building = append(building, "Concierge Service", "Valet Parking", "Wine Storage", "Private Theater")
	}
	if tier == model.TierUltraLuxury {
		building = append(building, "Spa", "Private Chef Kitchen", "Golf Simulator", "Car Charging Stations")
	}

	unit := []string{"Kitchen", "Bathroom", "Living Room", "Windows", "Closets"}
	if property.Bedrooms >= 2 {
		unit = append(unit, "Master Bedroom", "Guest Bedroom")
	}
	if atLeast(tier, model.TierPremium) {
		unit = append(unit, "Hardwood Floors", "Granite Countertops", "Stainless Steel Appliances", "In-Unit Laundry")
	}
	if atLeast(tier, model.TierLuxury) {
		unit = append(unit, "Walk-in Closets", "Marble Bathrooms", "High Ceilings", "Floor-to-Ceiling Windows")
	}

	var luxury []string
	switch tier {
	case model.TierUltraLuxury:
		luxury = []string{"Private Balcony", "Smart Home Technology", "Premium Finishes", "Butler Service", "Private Elevator"}
	case model.TierLuxury:
		luxury = []string{"Private Balcony", "Smart Home Technology", "Premium Finishes", "Doorman Service"}
	case model.TierPremium:
		luxury = []string{"Balcony/Patio", "Smart Thermostat", "Premium Appliances"}
	}

	outdoor := []string{"Courtyard", "Landscaping"}
	if strings.Contains(property.PropertyType, "Townhouse") {
		outdoor = append(outdoor, "Private Yard", "Patio", "Garden Space")
	} else {
		outdoor = append(outdoor, "Shared Garden", "BBQ Area", "Outdoor Seating")
	}

	tech := []string{"High-Speed Internet Ready", "Cable Ready"}
	if property.YearBuilt >= 2015 {
		tech = append(tech, "Smart Home Pre-wiring", "USB Outlets")
	}
	if atLeast(tier, model.TierPremium) {
		tech = append(tech, "Smart Thermostat", "Keyless Entry", "Smart Lighting")
	}
	if atLeast(tier, model.TierLuxury) {
		tech = append(tech, "Home Automation System", "Security Cameras", "Smart Appliances")
	}

	security := []string{"Secure Entry", "Locks on All Doors"}
	if atLeast(tier, model.TierStandardPlus) {
		security = append(security, "Security System", "Emergency Lighting")
	}
	if atLeast(tier, model.TierPremium) {
		security = append(security, "24/7 Security", "Video Surveillance", "Controlled Access")
	}
	if atLeast(tier, model.TierLuxury) {
		security = append(security, "Personal Security", "Biometric Access", "Panic Rooms")
	}

	convenience := []string{"On-site Maintenance", "Online Rent Payment"}
	if atLeast(tier, model.TierStandardPlus) {
		convenience = append(convenience, "Package Acceptance", "Dry Cleaning Service")
	}
	if atLeast(tier, model.TierPremium) {
		convenience = append(convenience, "Grocery Delivery", "Pet Services", "Housekeeping Available")
	}
	if atLeast(tier, model.TierLuxury) {
		convenience = append(convenience, "Personal Assistant", "Event Planning", "Travel Services")
	}

	return model.AmenityBundle{
		Building:    building,
		Unit:        unit,
		Luxury:      luxury,
		Outdoor:     outdoor,
		Technology:  tech,
		Security:    security,
		Convenience: convenience,
	}
}

// collectAmenities flattens the bundle into entries and appends the
// property's catalog facilities with their distances.
func collectAmenities(bundle model.AmenityBundle, facilities []model.Facility) []model.AmenityEntry {
	all := make([]model.AmenityEntry, 0, 48)

	appendCategory := func(names []string, category string) {
		for _, name := range names {
			all = append(all, model.AmenityEntry{
				Name:     name,
				Category: category,
				Source:   model.AmenitySourceGenerated,
			})
		}
	}

	appendCategory(bundle.Building, "Building Amenities")
	appendCategory(bundle.Unit, "Unit Features")
	appendCategory(bundle.Luxury, "Luxury Features")
	appendCategory(bundle.Outdoor, "Outdoor Spaces")
	appendCategory(bundle.Technology, "Technology")
	appendCategory(bundle.Security, "Safety Security")
	appendCategory(bundle.Convenience, "Convenience")

	for _, f := range facilities {
		all = append(all, model.AmenityEntry{
			Name:          f.Name,
			Category:      titleCase(f.Category),
			DistanceMiles: f.DistanceMiles,
			Source:        model.AmenitySourceCatalog,
		})
	}

	return all
}

// ScoreAmenities rates a flattened amenity list. Quantity caps at 50 points,
// the tier bonus and category diversity add on top, and the star rating
// caps at 5.0.
func ScoreAmenities(amenities []model.AmenityEntry, tier string) model.AmenityScore {
	base := len(amenities) * 2
	if base > 50 {
		base = 50
	}

	tierBonus := map[string]int{
		model.TierStandard:     0,
		model.TierStandardPlus: 5,
		model.TierPremium:      10,
		model.TierLuxury:       20,
		model.TierUltraLuxury:  30,
	}[tier]

	categories := make(map[string]struct{})
	for _, a := range amenities {
		categories[a.Category] = struct{}{}
	}

	total := base + tierBonus + len(categories)*2
	rating := math.Min(float64(total)/20, 5.0)

	return model.AmenityScore{
		TotalScore:       total,
		Rating:           math.Round(rating*10) / 10,
		TotalAmenities:   len(amenities),
		UniqueCategories: len(categories),
		LuxuryTier:       tier,
	}
}

func formatNearby(nearby model.NearbyMap) []NearbyFacilityView {
	views := make([]NearbyFacilityView, 0, len(nearby))
	for category, info := range nearby {
		views = append(views, NearbyFacilityView{
			Category:     titleCase(category),
			Name:         info.Name,
			Distance:     info.DistanceMiles,
			DistanceText: fmt.Sprintf("%g miles away", info.DistanceMiles),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Distance < views[j].Distance })
	return views
}
