package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"estateagent/internal/config"
	"estateagent/internal/model"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS properties (
	id                SERIAL PRIMARY KEY,
	address           TEXT NOT NULL,
	city              TEXT NOT NULL,
	state             TEXT NOT NULL,
	zip_code          TEXT NOT NULL,
	price             DOUBLE PRECISION NOT NULL,
	bedrooms          INTEGER NOT NULL,
	bathrooms         DOUBLE PRECISION NOT NULL,
	square_feet       INTEGER NOT NULL,
	lot_size          DOUBLE PRECISION NOT NULL,
	year_built        INTEGER NOT NULL,
	property_type     TEXT NOT NULL,
	is_available      BOOLEAN NOT NULL DEFAULT TRUE,
	is_pet_friendly   BOOLEAN NOT NULL DEFAULT FALSE,
	nearby_facilities JSONB NOT NULL DEFAULT '{}'::jsonb
);

CREATE TABLE IF NOT EXISTS facilities (
	id       SERIAL PRIMARY KEY,
	name     TEXT NOT NULL,
	category TEXT NOT NULL,
	distance DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS property_facilities (
	property_id INTEGER NOT NULL REFERENCES properties(id),
	facility_id INTEGER NOT NULL REFERENCES facilities(id),
	PRIMARY KEY (property_id, facility_id)
);

CREATE INDEX IF NOT EXISTS idx_properties_city ON properties (city);
CREATE INDEX IF NOT EXISTS idx_properties_price ON properties (price);
CREATE INDEX IF NOT EXISTS idx_properties_available ON properties (is_available);
`

var states = map[string]map[string][]string{
	"CA": {
		"San Francisco": {"Mission District", "Pacific Heights", "Marina District", "Nob Hill", "SoMa"},
		"Los Angeles":   {"Downtown", "Hollywood", "Santa Monica", "Venice"},
		"San Diego":     {"Downtown", "La Jolla", "Pacific Beach"},
		"San Jose":      {"Downtown", "Willow Glen", "North San Jose"},
	},
	"NY": {"New York City": {"Manhattan", "Brooklyn", "Queens"}},
	"TX": {"Austin": {"Downtown", "South Congress"}, "Houston": {"Downtown", "Midtown"}},
	"FL": {"Miami": {"Downtown", "South Beach"}, "Orlando": {"Downtown", "Winter Park"}},
	"IL": {"Chicago": {"Loop", "River North", "Lincoln Park"}},
}

var propertyTypes = map[string][]string{
	"Apartment": {"Studio", "1BHK", "2BHK", "3BHK", "Penthouse"},
	"Condo":     {"Standard", "Luxury", "Waterfront"},
	"Townhouse": {"Standard", "End Unit", "Corner Unit"},
}

var facilityCatalog = map[string][]string{
	"gym":        {"24 Hour Fitness", "LA Fitness", "Planet Fitness"},
	"hospital":   {"General Hospital", "Medical Center", "Community Hospital"},
	"vet":        {"PetCare Clinic", "VCA Animal Hospital", "Pet Emergency Center"},
	"school":     {"Elementary School", "Middle School", "High School"},
	"university": {"State University", "Community College", "Technical Institute"},
	"shopping":   {"Shopping Mall", "Grocery Store", "Shopping Center"},
}

func main() {
	count := flag.Int("count", 1000, "number of properties to generate")
	force := flag.Bool("force", false, "seed even when properties already exist")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.GetPostgreSQLDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	var existing int
	if err := db.Get(&existing, `SELECT COUNT(*) FROM properties`); err != nil {
		log.Fatalf("Failed to count properties: %v", err)
	}
	if existing > 0 && !*force {
		log.Printf("Database already has %d properties, nothing to do (use -force to reseed)", existing)
		return
	}

	facilityIDs, err := seedFacilities(db)
	if err != nil {
		log.Fatalf("Failed to seed facilities: %v", err)
	}
	log.Printf("Seeded %d facilities", len(facilityIDs))

	if err := seedProperties(db, facilityIDs, *count); err != nil {
		log.Fatalf("Failed to seed properties: %v", err)
	}
	log.Printf("Seeded %d properties", *count)
}

func seedFacilities(db *sqlx.DB) ([]int64, error) {
	var ids []int64
	for category, names := range facilityCatalog {
		for _, name := range names {
			var id int64
			err := db.QueryRow(
				`INSERT INTO facilities (name, category, distance) VALUES ($1, $2, $3) RETURNING id`,
				name, category, roundTenth(0.1+rand.Float64()*4.9),
			).Scan(&id)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func seedProperties(db *sqlx.DB, facilityIDs []int64, count int) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := 0; i < count; i++ {
		p := randomProperty()

		var propertyID int64
		err := tx.QueryRow(`
			INSERT INTO properties (
				address, city, state, zip_code, price, bedrooms, bathrooms,
				square_feet, lot_size, year_built, property_type,
				is_available, is_pet_friendly, nearby_facilities
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			RETURNING id`,
			p.Address, p.City, p.State, p.ZipCode, p.Price, p.Bedrooms, p.Bathrooms,
			p.SquareFeet, p.LotSize, p.YearBuilt, p.PropertyType,
			p.IsAvailable, p.IsPetFriendly, p.NearbyFacilities,
		).Scan(&propertyID)
		if err != nil {
			return err
		}

		for _, fid := range sampleFacilities(facilityIDs) {
			if _, err := tx.Exec(
				`INSERT INTO property_facilities (property_id, facility_id) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				propertyID, fid,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func randomProperty() model.Property {
	state := randKey(states)
	city := randKey(states[state])
	neighborhood := pick(states[state][city])

	mainType := randKey(propertyTypes)
	subType := pick(propertyTypes[mainType])

	price := basePrice(state, city) * typeMultiplier(subType)
	bedrooms := bedroomsFor(subType)

	bathrooms := 1.0
	if bedrooms > 0 {
		bathrooms = float64(bedrooms) + 0.5
	}

	return model.Property{
		Address:          fmt.Sprintf("%s %s, %s", gofakeit.StreetNumber(), gofakeit.StreetName(), neighborhood),
		City:             city,
		State:            state,
		ZipCode:          gofakeit.Zip(),
		Price:            roundCents(price),
		Bedrooms:         bedrooms,
		Bathrooms:        bathrooms,
		SquareFeet:       float64(600 + bedrooms*300 + rand.Intn(200+bedrooms*100)),
		LotSize:          roundCents(0.1 + rand.Float64()*0.4),
		YearBuilt:        1980 + rand.Intn(44),
		PropertyType:     fmt.Sprintf("%s - %s", mainType, subType),
		IsAvailable:      true,
		IsPetFriendly:    rand.Float64() < 0.6,
		NearbyFacilities: nearbyFor(city),
	}
}

func basePrice(state, city string) float64 {
	lo, hi := 300000.0, 800000.0
	switch state {
	case "CA":
		switch city {
		case "San Francisco":
			lo, hi = 800000, 2000000
		case "Los Angeles":
			lo, hi = 600000, 1500000
		default:
			lo, hi = 400000, 1000000
		}
	case "NY":
		lo, hi = 700000, 1800000
	case "TX":
		lo, hi = 300000, 800000
	case "FL":
		lo, hi = 350000, 900000
	case "IL":
		lo, hi = 400000, 1000000
	}
	return lo + rand.Float64()*(hi-lo)
}

func typeMultiplier(subType string) float64 {
	switch subType {
	case "2BHK":
		return 1.2
	case "3BHK":
		return 1.5
	case "Luxury", "Penthouse":
		return 2.0
	default:
		return 1.0
	}
}

func bedroomsFor(subType string) int {
	switch subType {
	case "Studio":
		return 0
	case "1BHK":
		return 1
	case "2BHK":
		return 2
	case "3BHK":
		return 3
	case "Penthouse":
		return 2 + rand.Intn(3)
	default:
		return 1 + rand.Intn(4)
	}
}

// nearbyFor gives every property one facility per category; dense cities
// keep everything within 3 miles.
func nearbyFor(city string) model.NearbyMap {
	maxDistance := 5.0
	switch city {
	case "San Francisco", "New York City", "Chicago":
		maxDistance = 3.0
	}

	nearby := make(model.NearbyMap, len(facilityCatalog))
	for category, names := range facilityCatalog {
		nearby[category] = model.NearbyFacility{
			Name:          pick(names),
			DistanceMiles: roundTenth(0.1 + rand.Float64()*(maxDistance-0.1)),
		}
	}
	return nearby
}

func sampleFacilities(ids []int64) []int64 {
	n := 3 + rand.Intn(len(ids)-2)
	perm := rand.Perm(len(ids))
	out := make([]int64, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, ids[idx])
	}
	return out
}

func randKey[M ~map[string]V, V any](m M) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys[rand.Intn(len(keys))]
}

func pick[T any](items []T) T {
	return items[rand.Intn(len(items))]
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
