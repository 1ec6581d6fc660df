package database

import (
	"context"
	"fmt"
)

func (d *DB) initializeSchema(ctx context.Context) error {
	switch d.driver {
	case "sqlite3":
		return d.initializeSQLiteSchema(ctx)
	case "postgres":
		return d.initializePostgresSchema(ctx)
	default:
		return fmt.Errorf("no schema for driver: %s", d.driver)
	}
}

func (d *DB) initializeSQLiteSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS trucks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			vin TEXT UNIQUE NOT NULL,
			make TEXT NOT NULL,
			model TEXT NOT NULL,
			year INTEGER NOT NULL,
			current_mileage REAL DEFAULT 0,
			fuel_efficiency REAL DEFAULT 0,
			engine_hours REAL DEFAULT 0,
			last_oil_change TIMESTAMP,
			last_inspection TIMESTAMP,
			health_score INTEGER DEFAULT 100,
			risk_level TEXT DEFAULT 'LOW',
			status TEXT DEFAULT 'ACTIVE',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			deleted_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS maintenance_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			truck_id INTEGER NOT NULL,
			service_type TEXT NOT NULL,
			date_performed TIMESTAMP NOT NULL,
			parts_cost REAL DEFAULT 0,
			labor_cost REAL DEFAULT 0,
			total_cost REAL DEFAULT 0,
			downtime_hours REAL DEFAULT 0,
			was_predicted BOOLEAN DEFAULT 0,
			failure_mode TEXT,
			status TEXT DEFAULT 'COMPLETED',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			deleted_at TIMESTAMP,
			FOREIGN KEY (truck_id) REFERENCES trucks(id)
		)`,

		`CREATE TABLE IF NOT EXISTS sensor_readings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			truck_id INTEGER NOT NULL,
			sensor_type TEXT NOT NULL,
			value REAL NOT NULL,
			unit TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			is_anomaly BOOLEAN DEFAULT 0,
			confidence REAL,
			FOREIGN KEY (truck_id) REFERENCES trucks(id)
		)`,

		`CREATE TABLE IF NOT EXISTS predictive_alerts (
			id TEXT PRIMARY KEY,
			truck_id INTEGER NOT NULL,
			alert_type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			severity TEXT NOT NULL,
			confidence REAL NOT NULL,
			predicted_failure_at TIMESTAMP NOT NULL,
			recommended_action TEXT NOT NULL,
			cost_impact REAL DEFAULT 0,
			probability REAL NOT NULL,
			is_resolved BOOLEAN DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (truck_id) REFERENCES trucks(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_maintenance_truck_date
			ON maintenance_records(truck_id, date_performed DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sensor_truck_type_time
			ON sensor_readings(truck_id, sensor_type, timestamp DESC)`,

		// Dedup guarantee: one unresolved alert per (truck, type).
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_unresolved
			ON predictive_alerts(truck_id, alert_type) WHERE is_resolved = 0`,
	}

	return d.execSchema(ctx, schema)
}

func (d *DB) initializePostgresSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS trucks (
			id BIGSERIAL PRIMARY KEY,
			vin TEXT UNIQUE NOT NULL,
			make TEXT NOT NULL,
			model TEXT NOT NULL,
			year INTEGER NOT NULL,
			current_mileage DOUBLE PRECISION DEFAULT 0,
			fuel_efficiency DOUBLE PRECISION DEFAULT 0,
			engine_hours DOUBLE PRECISION DEFAULT 0,
			last_oil_change TIMESTAMPTZ,
			last_inspection TIMESTAMPTZ,
			health_score INTEGER DEFAULT 100,
			risk_level TEXT DEFAULT 'LOW',
			status TEXT DEFAULT 'ACTIVE',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS maintenance_records (
			id BIGSERIAL PRIMARY KEY,
			truck_id BIGINT NOT NULL REFERENCES trucks(id),
			service_type TEXT NOT NULL,
			date_performed TIMESTAMPTZ NOT NULL,
			parts_cost DOUBLE PRECISION DEFAULT 0,
			labor_cost DOUBLE PRECISION DEFAULT 0,
			total_cost DOUBLE PRECISION DEFAULT 0,
			downtime_hours DOUBLE PRECISION DEFAULT 0,
			was_predicted BOOLEAN DEFAULT FALSE,
			failure_mode TEXT,
			status TEXT DEFAULT 'COMPLETED',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS sensor_readings (
			id BIGSERIAL PRIMARY KEY,
			truck_id BIGINT NOT NULL REFERENCES trucks(id),
			sensor_type TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			unit TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			is_anomaly BOOLEAN DEFAULT FALSE,
			confidence DOUBLE PRECISION
		)`,

		`CREATE TABLE IF NOT EXISTS predictive_alerts (
			id TEXT PRIMARY KEY,
			truck_id BIGINT NOT NULL REFERENCES trucks(id),
			alert_type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			severity TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			predicted_failure_at TIMESTAMPTZ NOT NULL,
			recommended_action TEXT NOT NULL,
			cost_impact DOUBLE PRECISION DEFAULT 0,
			probability DOUBLE PRECISION NOT NULL,
			is_resolved BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_maintenance_truck_date
			ON maintenance_records(truck_id, date_performed DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sensor_truck_type_time
			ON sensor_readings(truck_id, sensor_type, timestamp DESC)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_unresolved
			ON predictive_alerts(truck_id, alert_type) WHERE is_resolved = FALSE`,
	}

	return d.execSchema(ctx, schema)
}

func (d *DB) execSchema(ctx context.Context, statements []string) error {
	for _, stmt := range statements {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
