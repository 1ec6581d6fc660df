package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetsight/fleetsight/internal/database"
	apperrors "github.com/fleetsight/fleetsight/internal/errors"
)

type fakeTruckRepo struct {
	trucks []*database.Truck
}

func (r *fakeTruckRepo) Create(_ context.Context, truck *database.Truck) error {
	r.trucks = append(r.trucks, truck)
	return nil
}

func (r *fakeTruckRepo) GetByID(_ context.Context, id int64) (*database.Truck, error) {
	for _, t := range r.trucks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, apperrors.NotFound("TRUCK_NOT_FOUND", fmt.Sprintf("truck %d does not exist", id))
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
	return r.trucks, nil
}

func (r *fakeTruckRepo) UpdateHealth(_ context.Context, id int64, score int, risk database.RiskLevel) error {
	truck, err := r.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	truck.HealthScore = score
	truck.RiskLevel = risk
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
