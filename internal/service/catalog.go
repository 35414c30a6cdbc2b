package service

import (
	"context"

	"estateagent/internal/model"
)

// Catalog is the interface the engines consume for property storage.
// Implemented by repository.PostgresCatalog; read-heavy, externally
// synchronized, with a single availability-update write path.
type Catalog interface {
	// GetProperty returns (nil, nil) when the property does not exist
	GetProperty(ctx context.Context, propertyID int64) (*model.Property, error)
	// SearchProperties returns available properties only, capped at limit
	SearchProperties(ctx context.Context, criteria *model.SearchCriteria, limit int) ([]model.Property, error)
	GetFacilities(ctx context.Context, propertyID int64) ([]model.Facility, error)
	// UpdateAvailability returns false when the property does not exist
	UpdateAvailability(ctx context.Context, propertyID int64, available bool) (bool, error)
}
