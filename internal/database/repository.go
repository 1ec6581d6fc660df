package database

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// TruckRepository defines truck storage operations
type TruckRepository interface {
	// Create inserts a new truck and sets its ID
	Create(ctx context.Context, truck *Truck) error

	// GetByID retrieves a non-deleted truck by its ID
	GetByID(ctx context.Context, id int64) (*Truck, error)

	// ListActive retrieves all non-deleted trucks with ACTIVE status
	ListActive(ctx context.Context) ([]*Truck, error)

	// ListAll retrieves all non-deleted trucks regardless of status
	ListAll(ctx context.Context) ([]*Truck, error)

	// UpdateHealth overwrites a truck's health score and risk level
	UpdateHealth(ctx context.Context, id int64, score int, risk RiskLevel) error
}

// MaintenanceRepository defines maintenance record storage operations
type MaintenanceRepository interface {
	// Create inserts a new maintenance record and sets its ID
	Create(ctx context.Context, rec *MaintenanceRecord) error

	// ListByTruck retrieves up to limit most-recent records for a truck
	ListByTruck(ctx context.Context, truckID int64, limit int) ([]*MaintenanceRecord, error)

	// ListByDateRange retrieves records performed within [start, end].
	// Zero times disable the corresponding bound.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*MaintenanceRecord, error)
}

// SensorRepository defines sensor reading storage operations
type SensorRepository interface {
	// Insert appends a reading to a truck's time series and sets its ID
	Insert(ctx context.Context, reading *SensorReading) error

	// ListRecent retrieves up to limit most-recent readings for one
	// (truck, sensorType) stream taken at or after since
	ListRecent(ctx context.Context, truckID int64, sensorType SensorType, since time.Time, limit int) ([]*SensorReading, error)

	// ListByTruck retrieves up to limit most-recent readings across all
	// sensor types for a truck
	ListByTruck(ctx context.Context, truckID int64, limit int) ([]*SensorReading, error)
}

// AlertRepository defines predictive alert storage operations
type AlertRepository interface {
	// CreateIfAbsent inserts the alert unless an unresolved alert of the
	// same type already exists for the truck. Returns true when the alert
	// was created.
	CreateIfAbsent(ctx context.Context, alert *PredictiveAlert) (bool, error)

	// UnresolvedExists reports whether an unresolved alert of alertType
	// exists for the truck
	UnresolvedExists(ctx context.Context, truckID int64, alertType string) (bool, error)

	// ListUnresolved retrieves all unresolved alerts, newest first
	ListUnresolved(ctx context.Context) ([]*PredictiveAlert, error)

	// Resolve marks an alert resolved
	Resolve(ctx context.Context, id string) error
}

// rebind converts ? placeholders to $n for the postgres driver
func (d *DB) rebind(query string) string {
	if d.driver != "postgres" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
