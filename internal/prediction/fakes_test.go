package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetsight/fleetsight/internal/database"
	apperrors "github.com/fleetsight/fleetsight/internal/errors"
)

// In-memory repository fakes shared by the tests in this package.

type fakeTruckRepo struct {
	trucks        map[int64]*database.Truck
	healthUpdates map[int64]database.RiskLevel
}

func newFakeTruckRepo(trucks ...*database.Truck) *fakeTruckRepo {
	repo := &fakeTruckRepo{
		trucks:        make(map[int64]*database.Truck),
		healthUpdates: make(map[int64]database.RiskLevel),
	}
	for _, t := range trucks {
		repo.trucks[t.ID] = t
	}
	return repo
}

func (r *fakeTruckRepo) Create(_ context.Context, truck *database.Truck) error {
	r.trucks[truck.ID] = truck
	return nil
}

func (r *fakeTruckRepo) GetByID(_ context.Context, id int64) (*database.Truck, error) {
	truck, ok := r.trucks[id]
	if !ok {
		return nil, apperrors.NotFound("TRUCK_NOT_FOUND", fmt.Sprintf("truck %d does not exist", id))
	}
	return truck, nil
}

func (r *fakeTruckRepo) ListActive(_ context.Context) ([]*database.Truck, error) {
	active := make([]*database.Truck, 0)
	for _, t := range r.trucks {
		if t.Status == database.TruckStatusActive {
			active = append(active, t)
		}
	}
	return active, nil
}

func (r *fakeTruckRepo) ListAll(_ context.Context) ([]*database.Truck, error) {
	all := make([]*database.Truck, 0, len(r.trucks))
	for _, t := range r.trucks {
		all = append(all, t)
	}
	return all, nil
}

func (r *fakeTruckRepo) UpdateHealth(_ context.Context, id int64, score int, risk database.RiskLevel) error {
	truck, ok := r.trucks[id]
	if !ok {
		return apperrors.NotFound("TRUCK_NOT_FOUND", fmt.Sprintf("truck %d does not exist", id))
	}
	truck.HealthScore = score
	truck.RiskLevel = risk
	r.healthUpdates[id] = risk
	return nil
}

type fakeMaintenanceRepo struct {
	records []*database.MaintenanceRecord
}

func (r *fakeMaintenanceRepo) Create(_ context.Context, rec *database.MaintenanceRecord) error {
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeMaintenanceRepo) ListByTruck(_ context.Context, truckID int64, limit int) ([]*database.MaintenanceRecord, error) {
	out := make([]*database.MaintenanceRecord, 0)
	for _, rec := range r.records {
		if rec.TruckID == truckID && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeMaintenanceRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]*database.MaintenanceRecord, error) {
	out := make([]*database.MaintenanceRecord, 0)
	for _, rec := range r.records {
		if !start.IsZero() && rec.DatePerformed.Before(start) {
			continue
		}
		if !end.IsZero() && rec.DatePerformed.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

type fakeSensorRepo struct {
	readings []*database.SensorReading
	inserted []*database.SensorReading
}

func (r *fakeSensorRepo) Insert(_ context.Context, reading *database.SensorReading) error {
	reading.ID = int64(len(r.inserted) + 1)
	r.inserted = append(r.inserted, reading)
	r.readings = append(r.readings, reading)
	return nil
}

func (r *fakeSensorRepo) ListRecent(_ context.Context, truckID int64, sensorType database.SensorType, since time.Time, limit int) ([]*database.SensorReading, error) {
	out := make([]*database.SensorReading, 0)
	for _, sr := range r.readings {
		if sr.TruckID == truckID && sr.SensorType == sensorType && !sr.Timestamp.Before(since) && len(out) < limit {
			out = append(out, sr)
		}
	}
	return out, nil
}

func (r *fakeSensorRepo) ListByTruck(_ context.Context, truckID int64, limit int) ([]*database.SensorReading, error) {
	out := make([]*database.SensorReading, 0)
	for _, sr := range r.readings {
		if sr.TruckID == truckID && len(out) < limit {
			out = append(out, sr)
		}
	}
	return out, nil
}

type fakeAlertRepo struct {
	alerts []*database.PredictiveAlert
}

func (r *fakeAlertRepo) CreateIfAbsent(ctx context.Context, alert *database.PredictiveAlert) (bool, error) {
	exists, _ := r.UnresolvedExists(ctx, alert.TruckID, alert.AlertType)
	if exists {
		return false, nil
	}
	if alert.ID == "" {
		alert.ID = fmt.Sprintf("alert-%d", len(r.alerts)+1)
	}
	r.alerts = append(r.alerts, alert)
	return true, nil
}

func (r *fakeAlertRepo) UnresolvedExists(_ context.Context, truckID int64, alertType string) (bool, error) {
	for _, a := range r.alerts {
		if a.TruckID == truckID && a.AlertType == alertType && !a.IsResolved {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAlertRepo) ListUnresolved(_ context.Context) ([]*database.PredictiveAlert, error) {
	out := make([]*database.PredictiveAlert, 0)
	for _, a := range r.alerts {
		if !a.IsResolved {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) Resolve(_ context.Context, id string) error {
	for _, a := range r.alerts {
		if a.ID == id {
			a.IsResolved = true
		}
	}
	return nil
}

// fixedCost pins cost estimates for deterministic assertions
type fixedCost struct{ value float64 }

func (f fixedCost) Estimate(string, float64, float64) float64 { return f.value }
