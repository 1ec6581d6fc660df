package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/fleetsight/fleetsight/internal/errors"
)

// SQLTruckRepository implements TruckRepository over database/sql
type SQLTruckRepository struct {
	db *DB
}

// NewTruckRepository creates a truck repository
func NewTruckRepository(db *DB) *SQLTruckRepository {
	return &SQLTruckRepository{db: db}
}

const truckColumns = `id, vin, make, model, year, current_mileage, fuel_efficiency,
	engine_hours, last_oil_change, last_inspection, health_score, risk_level,
	status, created_at, updated_at`

func (r *SQLTruckRepository) Create(ctx context.Context, truck *Truck) error {
	now := time.Now().UTC()
	truck.CreatedAt = now
	truck.UpdatedAt = now
	if truck.RiskLevel == "" {
		truck.RiskLevel = RiskLow
	}
	if truck.Status == "" {
		truck.Status = TruckStatusActive
	}
	if truck.HealthScore == 0 {
		truck.HealthScore = 100
	}

	query := r.db.rebind(`INSERT INTO trucks
		(vin, make, model, year, current_mileage, fuel_efficiency, engine_hours,
		 last_oil_change, last_inspection, health_score, risk_level, status,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	if r.db.driver == "postgres" {
		query += " RETURNING id"
		return r.db.db.QueryRowContext(ctx, query,
			truck.VIN, truck.Make, truck.Model, truck.Year, truck.CurrentMileage,
			truck.FuelEfficiency, truck.EngineHours, truck.LastOilChange,
			truck.LastInspection, truck.HealthScore, truck.RiskLevel, truck.Status,
			truck.CreatedAt, truck.UpdatedAt,
		).Scan(&truck.ID)
	}

	res, err := r.db.db.ExecContext(ctx, query,
		truck.VIN, truck.Make, truck.Model, truck.Year, truck.CurrentMileage,
		truck.FuelEfficiency, truck.EngineHours, truck.LastOilChange,
		truck.LastInspection, truck.HealthScore, truck.RiskLevel, truck.Status,
		truck.CreatedAt, truck.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create truck: %w", err)
	}

	truck.ID, err = res.LastInsertId()
	return err
}

func (r *SQLTruckRepository) GetByID(ctx context.Context, id int64) (*Truck, error) {
	query := r.db.rebind(`SELECT ` + truckColumns + `
		FROM trucks WHERE id = ? AND deleted_at IS NULL`)

	truck, err := scanTruck(r.db.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("TRUCK_NOT_FOUND",
			fmt.Sprintf("truck %d does not exist", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get truck %d: %w", id, err)
	}
	return truck, nil
}

func (r *SQLTruckRepository) ListActive(ctx context.Context) ([]*Truck, error) {
	return r.list(ctx, r.db.rebind(`SELECT `+truckColumns+`
		FROM trucks WHERE deleted_at IS NULL AND status = ? ORDER BY id`),
		string(TruckStatusActive))
}

func (r *SQLTruckRepository) ListAll(ctx context.Context) ([]*Truck, error) {
	return r.list(ctx, `SELECT `+truckColumns+`
		FROM trucks WHERE deleted_at IS NULL ORDER BY id`)
}

func (r *SQLTruckRepository) list(ctx context.Context, query string, args ...interface{}) ([]*Truck, error) {
	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trucks: %w", err)
	}
	defer rows.Close()

	trucks := make([]*Truck, 0)
	for rows.Next() {
		truck, err := scanTruck(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan truck: %w", err)
		}
		trucks = append(trucks, truck)
	}
	return trucks, rows.Err()
}

func (r *SQLTruckRepository) UpdateHealth(ctx context.Context, id int64, score int, risk RiskLevel) error {
	query := r.db.rebind(`UPDATE trucks
		SET health_score = ?, risk_level = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`)

	res, err := r.db.db.ExecContext(ctx, query, score, string(risk), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update truck %d health: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return apperrors.NotFound("TRUCK_NOT_FOUND",
			fmt.Sprintf("truck %d does not exist", id))
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTruck(row rowScanner) (*Truck, error) {
	var t Truck
	err := row.Scan(
		&t.ID, &t.VIN, &t.Make, &t.Model, &t.Year, &t.CurrentMileage,
		&t.FuelEfficiency, &t.EngineHours, &t.LastOilChange, &t.LastInspection,
		&t.HealthScore, &t.RiskLevel, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
