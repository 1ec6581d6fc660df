package database

import (
	"context"
	"fmt"
	"time"
)

// SQLSensorRepository implements SensorRepository over database/sql
type SQLSensorRepository struct {
	db *DB
}

// NewSensorRepository creates a sensor reading repository
func NewSensorRepository(db *DB) *SQLSensorRepository {
	return &SQLSensorRepository{db: db}
}

const sensorColumns = `id, truck_id, sensor_type, value, unit, timestamp, is_anomaly, confidence`

func (r *SQLSensorRepository) Insert(ctx context.Context, reading *SensorReading) error {
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now().UTC()
	}

	query := r.db.rebind(`INSERT INTO sensor_readings
		(truck_id, sensor_type, value, unit, timestamp, is_anomaly, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	if r.db.driver == "postgres" {
		query += " RETURNING id"
		return r.db.db.QueryRowContext(ctx, query,
			reading.TruckID, reading.SensorType, reading.Value, reading.Unit,
			reading.Timestamp, reading.IsAnomaly, reading.Confidence,
		).Scan(&reading.ID)
	}

	res, err := r.db.db.ExecContext(ctx, query,
		reading.TruckID, reading.SensorType, reading.Value, reading.Unit,
		reading.Timestamp, reading.IsAnomaly, reading.Confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sensor reading: %w", err)
	}

	reading.ID, err = res.LastInsertId()
	return err
}

func (r *SQLSensorRepository) ListRecent(ctx context.Context, truckID int64, sensorType SensorType, since time.Time, limit int) ([]*SensorReading, error) {
	query := r.db.rebind(`SELECT ` + sensorColumns + `
		FROM sensor_readings
		WHERE truck_id = ? AND sensor_type = ? AND timestamp >= ?
		ORDER BY timestamp DESC
		LIMIT ?`)

	return r.list(ctx, query, truckID, string(sensorType), since, limit)
}

func (r *SQLSensorRepository) ListByTruck(ctx context.Context, truckID int64, limit int) ([]*SensorReading, error) {
	query := r.db.rebind(`SELECT ` + sensorColumns + `
		FROM sensor_readings
		WHERE truck_id = ?
		ORDER BY timestamp DESC
		LIMIT ?`)

	return r.list(ctx, query, truckID, limit)
}

func (r *SQLSensorRepository) list(ctx context.Context, query string, args ...interface{}) ([]*SensorReading, error) {
	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sensor readings: %w", err)
	}
	defer rows.Close()

	readings := make([]*SensorReading, 0)
	for rows.Next() {
		var sr SensorReading
		if err := rows.Scan(
			&sr.ID, &sr.TruckID, &sr.SensorType, &sr.Value, &sr.Unit,
			&sr.Timestamp, &sr.IsAnomaly, &sr.Confidence,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sensor reading: %w", err)
		}
		readings = append(readings, &sr)
	}
	return readings, rows.Err()
}
