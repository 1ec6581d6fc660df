package database

import (
	"context"
	"fmt"
	"time"
)

// SQLMaintenanceRepository implements MaintenanceRepository over database/sql
type SQLMaintenanceRepository struct {
	db *DB
}

// NewMaintenanceRepository creates a maintenance record repository
func NewMaintenanceRepository(db *DB) *SQLMaintenanceRepository {
	return &SQLMaintenanceRepository{db: db}
}

const maintenanceColumns = `id, truck_id, service_type, date_performed, parts_cost,
	labor_cost, total_cost, downtime_hours, was_predicted, failure_mode, status, created_at`

func (r *SQLMaintenanceRepository) Create(ctx context.Context, rec *MaintenanceRecord) error {
	rec.CreatedAt = time.Now().UTC()
	// totalCost is derived, never trusted from the caller
	rec.TotalCost = rec.PartsCost + rec.LaborCost
	if rec.Status == "" {
		rec.Status = MaintenanceCompleted
	}

	query := r.db.rebind(`INSERT INTO maintenance_records
		(truck_id, service_type, date_performed, parts_cost, labor_cost,
		 total_cost, downtime_hours, was_predicted, failure_mode, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	if r.db.driver == "postgres" {
		query += " RETURNING id"
		return r.db.db.QueryRowContext(ctx, query,
			rec.TruckID, rec.ServiceType, rec.DatePerformed, rec.PartsCost,
			rec.LaborCost, rec.TotalCost, rec.DowntimeHours, rec.WasPredicted,
			rec.FailureMode, rec.Status, rec.CreatedAt,
		).Scan(&rec.ID)
	}

	res, err := r.db.db.ExecContext(ctx, query,
		rec.TruckID, rec.ServiceType, rec.DatePerformed, rec.PartsCost,
		rec.LaborCost, rec.TotalCost, rec.DowntimeHours, rec.WasPredicted,
		rec.FailureMode, rec.Status, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create maintenance record: %w", err)
	}

	rec.ID, err = res.LastInsertId()
	return err
}

func (r *SQLMaintenanceRepository) ListByTruck(ctx context.Context, truckID int64, limit int) ([]*MaintenanceRecord, error) {
	query := r.db.rebind(`SELECT ` + maintenanceColumns + `
		FROM maintenance_records
		WHERE truck_id = ? AND deleted_at IS NULL
		ORDER BY date_performed DESC
		LIMIT ?`)

	return r.list(ctx, query, truckID, limit)
}

func (r *SQLMaintenanceRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*MaintenanceRecord, error) {
	query := `SELECT ` + maintenanceColumns + `
		FROM maintenance_records
		WHERE deleted_at IS NULL`
	args := make([]interface{}, 0, 2)

	if !start.IsZero() {
		query += ` AND date_performed >= ?`
		args = append(args, start)
	}
	if !end.IsZero() {
		query += ` AND date_performed <= ?`
		args = append(args, end)
	}
	query += ` ORDER BY date_performed DESC`

	return r.list(ctx, r.db.rebind(query), args...)
}

func (r *SQLMaintenanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]*MaintenanceRecord, error) {
	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance records: %w", err)
	}
	defer rows.Close()

	records := make([]*MaintenanceRecord, 0)
	for rows.Next() {
		var rec MaintenanceRecord
		if err := rows.Scan(
			&rec.ID, &rec.TruckID, &rec.ServiceType, &rec.DatePerformed,
			&rec.PartsCost, &rec.LaborCost, &rec.TotalCost, &rec.DowntimeHours,
			&rec.WasPredicted, &rec.FailureMode, &rec.Status, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan maintenance record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
