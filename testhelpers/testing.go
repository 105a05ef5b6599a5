package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"stockledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to the database named by TEST_DATABASE_URL and
// installs the schema. Tests calling this are skipped when the variable
// is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if _, err := pool.Exec(context.Background(), schemaDDL); err != nil {
		pool.Close()
		t.Fatalf("Failed to install schema: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			_, err := pool.Exec(context.Background(),
				`TRUNCATE stock_movements, stock_items, products, locations, users`)
			pool.Close()
			return err
		},
	}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS products (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	sku TEXT UNIQUE,
	category TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS locations (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	type TEXT NOT NULL DEFAULT 'internal',
	address TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS stock_items (
	id UUID PRIMARY KEY,
	product_id UUID NOT NULL REFERENCES products(id),
	location_id UUID NOT NULL REFERENCES locations(id),
	quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (product_id, location_id)
);
CREATE TABLE IF NOT EXISTS stock_movements (
	id UUID PRIMARY KEY,
	type TEXT NOT NULL,
	product_id UUID NOT NULL REFERENCES products(id),
	quantity BIGINT NOT NULL CHECK (quantity > 0),
	from_location_id UUID REFERENCES locations(id),
	to_location_id UUID REFERENCES locations(id),
	reference TEXT,
	partner TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// SetupTestProduct creates a product row for testing
func SetupTestProduct(t *testing.T, db *TestDB, name, sku string) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	query := `
		INSERT INTO products (id, name, sku, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`
	_, err := db.Pool.Exec(context.Background(), query, productID, name, sku, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}

	return productID
}

// SetupTestLocation creates a location row for testing
func SetupTestLocation(t *testing.T, db *TestDB, name, locType string) uuid.UUID {
	t.Helper()

	if locType == "" {
		locType = models.LocationTypeInternal
	}
	locationID := uuid.New()
	query := `
		INSERT INTO locations (id, name, type, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := db.Pool.Exec(context.Background(), query, locationID, name, locType, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test location: %v", err)
	}

	return locationID
}
