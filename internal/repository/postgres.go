package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"estateagent/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresCatalog handles catalog database operations
type PostgresCatalog struct {
	db *sqlx.DB
}

// NewPostgresCatalog creates a new PostgreSQL catalog repository
func NewPostgresCatalog(dsn string, maxConn, maxIdleConn int) (*PostgresCatalog, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresCatalog{db: db}, nil
}

// Close closes the database connection
func (r *PostgresCatalog) Close() error {
	return r.db.Close()
}

const propertyColumns = `
	id, address, city, state, zip_code, price, bedrooms, bathrooms,
	square_feet, lot_size, year_built, property_type, is_available,
	is_pet_friendly, nearby_facilities`

// GetProperty retrieves a single property by ID with its facility records.
// Returns (nil, nil) when the property does not exist.
func (r *PostgresCatalog) GetProperty(ctx context.Context, propertyID int64) (*model.Property, error) {
	var property model.Property
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE id = $1`, propertyColumns)

	err := r.db.GetContext(ctx, &property, query, propertyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	facilities, err := r.GetFacilities(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	property.Facilities = facilities

	return &property, nil
}

// SearchProperties performs a filtered search over available properties.
// Results carry their facility records and are capped at limit.
func (r *PostgresCatalog) SearchProperties(ctx context.Context, criteria *model.SearchCriteria, limit int) ([]model.Property, error) {
	whereClauses := []string{"is_available = true"}
	args := []interface{}{}
	argIndex := 1

	if criteria != nil {
		if criteria.MinPrice != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("price >= $%d", argIndex))
			args = append(args, *criteria.MinPrice)
			argIndex++
		}
		if criteria.MaxPrice != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("price <= $%d", argIndex))
			args = append(args, *criteria.MaxPrice)
			argIndex++
		}
		if criteria.Bedrooms != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("bedrooms >= $%d", argIndex))
			args = append(args, *criteria.Bedrooms)
			argIndex++
		}
		if criteria.Bathrooms != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("bathrooms >= $%d", argIndex))
			args = append(args, *criteria.Bathrooms)
			argIndex++
		}
		if len(criteria.PropertyTypes) > 0 {
			// Seeded property types are "Apartment - 2BHK" style, so match on prefix
			typeConds := make([]string, 0, len(criteria.PropertyTypes))
			for _, pt := range criteria.PropertyTypes {
				typeConds = append(typeConds, fmt.Sprintf("property_type ILIKE $%d", argIndex))
				args = append(args, pt+"%")
				argIndex++
			}
			whereClauses = append(whereClauses, "("+strings.Join(typeConds, " OR ")+")")
		}
		if criteria.City != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("city ILIKE $%d", argIndex))
			args = append(args, "%"+*criteria.City+"%")
			argIndex++
		}
		if criteria.State != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("state = $%d", argIndex))
			args = append(args, *criteria.State)
			argIndex++
		}
		if criteria.PetFriendly != nil && *criteria.PetFriendly {
			whereClauses = append(whereClauses, "is_pet_friendly = true")
		}
		for _, category := range criteria.RequiredFacilities {
			whereClauses = append(whereClauses, fmt.Sprintf(`EXISTS (
				SELECT 1 FROM property_facilities pf
				JOIN facilities f ON f.id = pf.facility_id
				WHERE pf.property_id = properties.id AND f.category = $%d
			)`, argIndex))
			args = append(args, category)
			argIndex++

			if criteria.MaxFacilityDistance != nil {
				whereClauses = append(whereClauses, fmt.Sprintf(
					"(nearby_facilities -> $%d ->> 'distance')::float <= $%d", argIndex, argIndex+1))
				args = append(args, category, *criteria.MaxFacilityDistance)
				argIndex += 2
			}
		}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE %s
		ORDER BY price ASC
		LIMIT $%d
	`, propertyColumns, strings.Join(whereClauses, " AND "), argIndex)
	args = append(args, limit)

	var properties []model.Property
	if err := r.db.SelectContext(ctx, &properties, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}

	if err := r.attachFacilities(ctx, properties); err != nil {
		return nil, err
	}

	return properties, nil
}

// GetFacilities retrieves the facility records attached to a property
func (r *PostgresCatalog) GetFacilities(ctx context.Context, propertyID int64) ([]model.Facility, error) {
	var facilities []model.Facility
	query := `
		SELECT f.id, f.name, f.category, f.distance
		FROM facilities f
		JOIN property_facilities pf ON pf.facility_id = f.id
		WHERE pf.property_id = $1
		ORDER BY f.distance ASC
	`
	if err := r.db.SelectContext(ctx, &facilities, query, propertyID); err != nil {
		return nil, fmt.Errorf("failed to get facilities: %w", err)
	}
	return facilities, nil
}

// UpdateAvailability sets a property's availability flag. The single UPDATE
// statement serializes concurrent writes to the same row; last writer wins.
// Returns false when the property does not exist.
func (r *PostgresCatalog) UpdateAvailability(ctx context.Context, propertyID int64, available bool) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE properties SET is_available = $2 WHERE id = $1`, propertyID, available)
	if err != nil {
		return false, fmt.Errorf("failed to update availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return rows > 0, nil
}

// attachFacilities loads facility records for a batch of properties in one query
func (r *PostgresCatalog) attachFacilities(ctx context.Context, properties []model.Property) error {
	if len(properties) == 0 {
		return nil
	}

	ids := make([]int64, len(properties))
	for i, p := range properties {
		ids[i] = p.ID
	}

	var rows []struct {
		PropertyID int64 `db:"property_id"`
		model.Facility
	}
	query := `
		SELECT pf.property_id, f.id, f.name, f.category, f.distance
		FROM facilities f
		JOIN property_facilities pf ON pf.facility_id = f.id
		WHERE pf.property_id = ANY($1)
	`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load facilities: %w", err)
	}

	byProperty := make(map[int64][]model.Facility, len(properties))
	for _, row := range rows {
		byProperty[row.PropertyID] = append(byProperty[row.PropertyID], row.Facility)
	}
	for i := range properties {
		properties[i].Facilities = byProperty[properties[i].ID]
	}

	return nil
}
