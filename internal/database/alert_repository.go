package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQLAlertRepository implements AlertRepository over database/sql
type SQLAlertRepository struct {
	db *DB
}

// NewAlertRepository creates a predictive alert repository
func NewAlertRepository(db *DB) *SQLAlertRepository {
	return &SQLAlertRepository{db: db}
}

const alertColumns = `id, truck_id, alert_type, title, description, severity,
	confidence, predicted_failure_at, recommended_action, cost_impact,
	probability, is_resolved, created_at`

// CreateIfAbsent relies on the partial unique index on
// (truck_id, alert_type) WHERE is_resolved = false. A constraint violation
// means another unresolved alert already exists and is not an error.
func (r *SQLAlertRepository) CreateIfAbsent(ctx context.Context, alert *PredictiveAlert) (bool, error) {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	query := r.db.rebind(`INSERT INTO predictive_alerts
		(id, truck_id, alert_type, title, description, severity, confidence,
		 predicted_failure_at, recommended_action, cost_impact, probability,
		 is_resolved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.db.ExecContext(ctx, query,
		alert.ID, alert.TruckID, alert.AlertType, alert.Title, alert.Description,
		alert.Severity, alert.Confidence, alert.PredictedFailureAt,
		alert.RecommendedAction, alert.CostImpact, alert.Probability,
		alert.IsResolved, alert.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create alert: %w", err)
	}
	return true, nil
}

func (r *SQLAlertRepository) UnresolvedExists(ctx context.Context, truckID int64, alertType string) (bool, error) {
	query := r.db.rebind(`SELECT COUNT(1) FROM predictive_alerts
		WHERE truck_id = ? AND alert_type = ? AND is_resolved = ?`)

	var count int
	if err := r.db.db.QueryRowContext(ctx, query, truckID, alertType, false).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check unresolved alerts: %w", err)
	}
	return count > 0, nil
}

func (r *SQLAlertRepository) ListUnresolved(ctx context.Context) ([]*PredictiveAlert, error) {
	query := r.db.rebind(`SELECT ` + alertColumns + `
		FROM predictive_alerts
		WHERE is_resolved = ?
		ORDER BY created_at DESC`)

	rows, err := r.db.db.QueryContext(ctx, query, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*PredictiveAlert, 0)
	for rows.Next() {
		var a PredictiveAlert
		if err := rows.Scan(
			&a.ID, &a.TruckID, &a.AlertType, &a.Title, &a.Description,
			&a.Severity, &a.Confidence, &a.PredictedFailureAt,
			&a.RecommendedAction, &a.CostImpact, &a.Probability,
			&a.IsResolved, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, &a)
	}
	return alerts, rows.Err()
}

func (r *SQLAlertRepository) Resolve(ctx context.Context, id string) error {
	query := r.db.rebind(`UPDATE predictive_alerts SET is_resolved = ? WHERE id = ?`)
	_, err := r.db.db.ExecContext(ctx, query, true, id)
	if err != nil {
		return fmt.Errorf("failed to resolve alert %s: %w", id, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite3
		strings.Contains(msg, "duplicate key value") // postgres
}
