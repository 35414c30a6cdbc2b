package service

import (
	"context"
	"errors"

	"estateagent/internal/model"
)

// fakeCatalog is an in-memory Catalog for tests
type fakeCatalog struct {
	properties    map[int64]*model.Property
	searchResults []model.Property
	searchErr     error
	availability  map[int64]bool
}

func newFakeCatalog(properties ...*model.Property) *fakeCatalog {
	f := &fakeCatalog{
		properties:   map[int64]*model.Property{},
		availability: map[int64]bool{},
	}
	for _, p := range properties {
		f.properties[p.ID] = p
		f.availability[p.ID] = p.IsAvailable
	}
	return f
}

func (f *fakeCatalog) GetProperty(_ context.Context, propertyID int64) (*model.Property, error) {
	p, ok := f.properties[propertyID]
	if !ok {
		return nil, nil
	}
	copied := *p
	copied.IsAvailable = f.availability[propertyID]
	return &copied, nil
}

func (f *fakeCatalog) SearchProperties(_ context.Context, _ *model.SearchCriteria, limit int) ([]model.Property, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	results := f.searchResults
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (f *fakeCatalog) GetFacilities(_ context.Context, propertyID int64) ([]model.Facility, error) {
	p, ok := f.properties[propertyID]
	if !ok {
		return nil, errors.New("no such property")
	}
	return p.Facilities, nil
}

func (f *fakeCatalog) UpdateAvailability(_ context.Context, propertyID int64, available bool) (bool, error) {
	if _, ok := f.properties[propertyID]; !ok {
		return false, nil
	}
	f.availability[propertyID] = available
	return true, nil
}

// stubGenerator returns a canned reply or error
type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) Generate(context.Context, string) (string, error) {
	return s.reply, s.err
}

func testProperty(id int64, overrides func(*model.Property)) *model.Property {
	p := &model.Property{
		ID:            id,
		Address:       "123 Main St, Mission District",
		City:          "San Francisco",
		State:         "CA",
		ZipCode:       "94110",
		Price:         500000,
		Bedrooms:      2,
		Bathrooms:     2.5,
		SquareFeet:    1200,
		LotSize:       0.2,
		YearBuilt:     2010,
		PropertyType:  "Apartment - 2BHK",
		IsAvailable:   true,
		IsPetFriendly: true,
		NearbyFacilities: model.NearbyMap{
			"gym":      {Name: "24 Hour Fitness", DistanceMiles: 0.5},
			"hospital": {Name: "General Hospital", DistanceMiles: 2.1},
		},
		Facilities: []model.Facility{
			{ID: 1, Name: "24 Hour Fitness", Category: "gym", DistanceMiles: 0.5},
			{ID: 2, Name: "Elementary School", Category: "school", DistanceMiles: 1.0},
		},
	}
	if overrides != nil {
		overrides(p)
	}
	return p
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }
