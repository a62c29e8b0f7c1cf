package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		tax_id VARCHAR(32),
		address TEXT,
		phone VARCHAR(32)
	);`,
	`CREATE TABLE IF NOT EXISTS cities (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		state VARCHAR(8) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		plate VARCHAR(16) NOT NULL,
		class VARCHAR(32) NOT NULL,
		body_type VARCHAR(32) NOT NULL,
		capacity_kg NUMERIC(12,2) NOT NULL,
		capacity_m3 NUMERIC(12,2) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'AVAILABLE'
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_vehicles_plate ON vehicles (plate);`,
	`CREATE TABLE IF NOT EXISTS loads (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_id UUID REFERENCES clients(id),
		client_name VARCHAR(255),
		origin VARCHAR(128) NOT NULL,
		destination VARCHAR(128),
		weight_kg NUMERIC(12,2),
		volume_m3 NUMERIC(12,2),
		segment VARCHAR(32),
		priority VARCHAR(16) NOT NULL DEFAULT 'NORMAL',
		exclusive BOOLEAN NOT NULL DEFAULT FALSE,
		collection_date DATE,
		status VARCHAR(32) NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_loads_status ON loads (status);`,
	`CREATE TABLE IF NOT EXISTS trips (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		driver VARCHAR(128) NOT NULL DEFAULT 'TO_BE_DEFINED',
		vehicle_id UUID REFERENCES vehicles(id),
		plate VARCHAR(16),
		status VARCHAR(32) NOT NULL DEFAULT 'PLANNED',
		start_at TIMESTAMPTZ,
		estimated_delivery_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_status ON trips (status);`,
	`CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		doc_type VARCHAR(16) NOT NULL,
		number VARCHAR(64) NOT NULL,
		covering_waybill VARCHAR(64),
		access_key VARCHAR(64),
		referenced_keys TEXT,
		subcontracted BOOLEAN NOT NULL DEFAULT FALSE,
		value NUMERIC(18,2),
		weight_kg NUMERIC(12,2)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_access_key ON documents (access_key) WHERE access_key IS NOT NULL;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
