package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetsight/fleetsight/internal/database"
)

func TestMaintenanceScheduler(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	scheduler := NewMaintenanceScheduler()

	t.Run("NoHistoryYieldsNearTermDefaults", func(t *testing.T) {
		truck := &database.Truck{}

		next := scheduler.Next(truck, nil, now)

		require.NotNil(t, next.OilChange)
		assert.Equal(t, now.AddDate(0, 0, 30), *next.OilChange)

		require.NotNil(t, next.Inspection)
		assert.Equal(t, now.AddDate(0, 0, 90), *next.Inspection)

		require.NotNil(t, next.TireRotation)
		assert.Equal(t, now.AddDate(0, 0, 60), *next.TireRotation)
	})

	t.Run("FreshServiceSchedulesNothing", func(t *testing.T) {
		lastOil := now.AddDate(0, -1, 0)
		lastInspection := now.AddDate(0, -2, 0)
		truck := &database.Truck{LastOilChange: &lastOil, LastInspection: &lastInspection}
		records := []*database.MaintenanceRecord{{
			ServiceType:   "tire rotation",
			DatePerformed: now.AddDate(0, -1, 0),
		}}

		next := scheduler.Next(truck, records, now)
		assert.Nil(t, next.OilChange)
		assert.Nil(t, next.Inspection)
		assert.Nil(t, next.TireRotation)
	})

	t.Run("ElapsedCadenceSchedulesRemainder", func(t *testing.T) {
		lastOil := now.AddDate(0, 0, -4*30) // 4 months by 30-day months
		truck := &database.Truck{LastOilChange: &lastOil}

		next := scheduler.Next(truck, nil, now)
		require.NotNil(t, next.OilChange)
		// 6-month cadence minus 4 elapsed: due 2 months out
		assert.Equal(t, now.AddDate(0, 2, 0), *next.OilChange)
	})

	t.Run("OverdueServiceYieldsPastDueDate", func(t *testing.T) {
		lastOil := now.AddDate(0, 0, -9*30)
		truck := &database.Truck{LastOilChange: &lastOil}

		next := scheduler.Next(truck, nil, now)
		require.NotNil(t, next.OilChange)
		assert.True(t, next.OilChange.Before(now), "badly overdue service dates land in the past")
	})

	t.Run("RotationUsesTaggedRecords", func(t *testing.T) {
		truck := &database.Truck{}
		records := []*database.MaintenanceRecord{{
			ServiceType:   "Tire Rotation",
			DatePerformed: now.AddDate(0, 0, -5*30),
		}}

		next := scheduler.Next(truck, records, now)
		require.NotNil(t, next.TireRotation)
		assert.Equal(t, now.AddDate(0, 1, 0), *next.TireRotation)
	})
}
