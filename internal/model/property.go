package model

import (
	"database/sql/driver"
	"encoding/json"
)

// Property represents a catalog listing
type Property struct {
	ID               int64      `json:"id" db:"id"`
	Address          string     `json:"address" db:"address"`
	City             string     `json:"city" db:"city"`
	State            string     `json:"state" db:"state"`
	ZipCode          string     `json:"zip_code" db:"zip_code"`
	Price            float64    `json:"price" db:"price"`
	Bedrooms         int        `json:"bedrooms" db:"bedrooms"`
	Bathrooms        float64    `json:"bathrooms" db:"bathrooms"`
	SquareFeet       float64    `json:"square_feet" db:"square_feet"`
	LotSize          float64    `json:"lot_size" db:"lot_size"`
	YearBuilt        int        `json:"year_built" db:"year_built"`
	PropertyType     string     `json:"property_type" db:"property_type"`
	IsAvailable      bool       `json:"is_available" db:"is_available"`
	IsPetFriendly    bool       `json:"is_pet_friendly" db:"is_pet_friendly"`
	NearbyFacilities NearbyMap  `json:"nearby_facilities" db:"nearby_facilities"`
	Facilities       []Facility `json:"facilities,omitempty" db:"-"`
}

// Facility represents a facility record attached to a property
type Facility struct {
	ID            int64   `json:"id,omitempty" db:"id"`
	Name          string  `json:"name" db:"name"`
	Category      string  `json:"category" db:"category"`
	DistanceMiles float64 `json:"distance" db:"distance"`
}

// NearbyFacility is one entry in a property's nearby-facility mapping
type NearbyFacility struct {
	Name          string  `json:"name"`
	DistanceMiles float64 `json:"distance"`
}

// NearbyMap maps facility category to the nearest facility of that category.
// Stored as JSONB.
type NearbyMap map[string]NearbyFacility

// Value implements driver.Valuer interface
func (m NearbyMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface
func (m *NearbyMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), m)
	}
	return json.Unmarshal(bytes, m)
}

// RankedProperty is a property plus its match score against the search criteria.
// The score is a pure function of (Property, SearchCriteria).
type RankedProperty struct {
	Property
	MatchScore int `json:"match_score"`
}
