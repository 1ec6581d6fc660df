package prediction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/database"
)

func newSweepFixture(trucks ...*database.Truck) (*FleetAlertGenerator, *fakeTruckRepo, *fakeAlertRepo) {
	truckRepo := newFakeTruckRepo(trucks...)
	alertRepo := &fakeAlertRepo{}

	analyzer := NewTruckHealthAnalyzer(zap.NewNop(),
		truckRepo, &fakeMaintenanceRepo{}, &fakeSensorRepo{}, fixedCost{3000})

	gen := NewFleetAlertGenerator(zap.NewNop(), truckRepo, alertRepo, analyzer, nil)
	return gen, truckRepo, alertRepo
}

func TestGenerateFleetWideAlerts(t *testing.T) {
	now := time.Now().UTC()
	ctx := context.Background()

	t.Run("NeglectedTruckGetsAlert", func(t *testing.T) {
		truck := &database.Truck{
			ID: 1, Year: now.Year() - 12, CurrentMileage: 180000,
			Status: database.TruckStatusActive,
		}
		gen, truckRepo, alertRepo := newSweepFixture(truck)

		created, err := gen.GenerateFleetWideAlerts(ctx)
		require.NoError(t, err)
		require.Len(t, created, 1, "one alert per truck despite several risky components")

		alert := created[0]
		assert.Equal(t, database.AlertTypePredictiveFailure, alert.AlertType)
		assert.Equal(t, "CRITICAL", alert.Severity, "engine probability 0.91 is above 0.8")
		assert.InDelta(t, 0.91, alert.Probability, 0.0001)
		assert.Equal(t, 3000.0, alert.CostImpact)
		assert.False(t, alert.IsResolved)
		assert.WithinDuration(t, now.AddDate(0, 0, 15), alert.PredictedFailureAt, time.Minute)

		// Health fields written back unconditionally.
		assert.Equal(t, database.RiskCritical, truckRepo.healthUpdates[1])
		assert.Equal(t, 43, truck.HealthScore)

		require.Len(t, alertRepo.alerts, 1)
	})

	t.Run("SecondSweepCreatesNothing", func(t *testing.T) {
		truck := &database.Truck{
			ID: 1, Year: now.Year() - 12, CurrentMileage: 180000,
			Status: database.TruckStatusActive,
		}
		gen, _, alertRepo := newSweepFixture(truck)

		first, err := gen.GenerateFleetWideAlerts(ctx)
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := gen.GenerateFleetWideAlerts(ctx)
		require.NoError(t, err)
		assert.Empty(t, second, "dedup: an unresolved alert already exists")
		assert.Len(t, alertRepo.alerts, 1)
	})

	t.Run("ResolvedAlertAllowsNewOne", func(t *testing.T) {
		truck := &database.Truck{
			ID: 1, Year: now.Year() - 12, CurrentMileage: 180000,
			Status: database.TruckStatusActive,
		}
		gen, _, alertRepo := newSweepFixture(truck)

		first, err := gen.GenerateFleetWideAlerts(ctx)
		require.NoError(t, err)
		require.Len(t, first, 1)

		require.NoError(t, alertRepo.Resolve(ctx, first[0].ID))

		second, err := gen.GenerateFleetWideAlerts(ctx)
		require.NoError(t, err)
		assert.Len(t, second, 1)
	})

	t.Run("HealthyTruckNoAlertButHealthWritten", func(t *testing.T) {
		lastOil := now.AddDate(0, -1, 0)
		truck := &database.Truck{
			ID: 2, Year: now.Year() - 1, CurrentMileage: 20000,
			FuelEfficiency: 22, LastOilChange: &lastOil,
			Status: database.TruckStatusActive,
		}
		gen, truckRepo, _ := newSweepFixture(truck)

		created, err := gen.GenerateFleetWideAlerts(ctx)
		require.NoError(t, err)
		assert.Empty(t, created)
		assert.Contains(t, truckRepo.healthUpdates, int64(2))
	})

	t.Run("InactiveTrucksSkipped", func(t *testing.T) {
		truck := &database.Truck{
			ID: 3, Year: now.Year() - 12, CurrentMileage: 180000,
			Status: database.TruckStatusInactive,
		}
		gen, truckRepo, _ := newSweepFixture(truck)

		created, err := gen.GenerateFleetWideAlerts(ctx)
		require.NoError(t, err)
		assert.Empty(t, created)
		assert.NotContains(t, truckRepo.healthUpdates, int64(3))
	})

	t.Run("NotifierReceivesNewAlerts", func(t *testing.T) {
		truck := &database.Truck{
			ID: 1, Year: now.Year() - 12, CurrentMileage: 180000,
			Status: database.TruckStatusActive,
		}
		truckRepo := newFakeTruckRepo(truck)
		alertRepo := &fakeAlertRepo{}
		analyzer := NewTruckHealthAnalyzer(zap.NewNop(),
			truckRepo, &fakeMaintenanceRepo{}, &fakeSensorRepo{}, fixedCost{3000})

		var notified []*database.PredictiveAlert
		gen := NewFleetAlertGenerator(zap.NewNop(), truckRepo, alertRepo, analyzer,
			func(a *database.PredictiveAlert) { notified = append(notified, a) })

		created, err := gen.GenerateFleetWideAlerts(ctx)
		require.NoError(t, err)
		assert.Equal(t, created, notified)
	})
}

func TestSeverityForProbability(t *testing.T) {
	assert.Equal(t, "CRITICAL", severityForProbability(0.85))
	assert.Equal(t, "HIGH", severityForProbability(0.75))
	assert.Equal(t, "MEDIUM", severityForProbability(0.65))
}
