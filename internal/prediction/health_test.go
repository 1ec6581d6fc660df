package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fleetsight/fleetsight/internal/database"
)

func TestHealthScorer(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := NewHealthScorer()

	completedRecord := func(daysAgo int) *database.MaintenanceRecord {
		return &database.MaintenanceRecord{
			Status:        database.MaintenanceCompleted,
			DatePerformed: now.AddDate(0, 0, -daysAgo),
		}
	}

	t.Run("NewTruckWithRecentMaintenance", func(t *testing.T) {
		truck := &database.Truck{Year: now.Year(), FuelEfficiency: 20}
		records := []*database.MaintenanceRecord{completedRecord(30), completedRecord(90)}

		score := scorer.Score(truck, records, nil, now)
		assert.Equal(t, 100, score)
	})

	t.Run("PathologicalInputsStayInRange", func(t *testing.T) {
		cases := []struct {
			name  string
			truck *database.Truck
		}{
			{"zero everything", &database.Truck{}},
			{"ancient high mileage", &database.Truck{Year: 1970, CurrentMileage: 2_000_000, FuelEfficiency: 5}},
			{"future model year", &database.Truck{Year: now.Year() + 2}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				score := scorer.Score(tc.truck, nil, nil, now)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			})
		}
	})

	t.Run("AgeDeductionCapped", func(t *testing.T) {
		young := &database.Truck{Year: now.Year() - 5, FuelEfficiency: 20}
		old := &database.Truck{Year: now.Year() - 40, FuelEfficiency: 20}
		records := []*database.MaintenanceRecord{completedRecord(30), completedRecord(90)}

		assert.Equal(t, 90, scorer.Score(young, records, nil, now))
		assert.Equal(t, 70, scorer.Score(old, records, nil, now), "age deduction caps at 30")
	})

	t.Run("AnomalyDeductionCapped", func(t *testing.T) {
		truck := &database.Truck{Year: now.Year(), FuelEfficiency: 20}
		records := []*database.MaintenanceRecord{completedRecord(30), completedRecord(90)}

		readings := make([]*database.SensorReading, 10)
		for i := range readings {
			readings[i] = &database.SensorReading{IsAnomaly: true}
		}

		// 10 anomalies would be 50 uncapped
		assert.Equal(t, 80, scorer.Score(truck, records, readings, now))
	})

	t.Run("MissingFuelDataIsNotPenalized", func(t *testing.T) {
		noData := &database.Truck{Year: now.Year(), FuelEfficiency: 0}
		poor := &database.Truck{Year: now.Year(), FuelEfficiency: 10}
		records := []*database.MaintenanceRecord{completedRecord(30), completedRecord(90)}

		assert.Equal(t, 100, scorer.Score(noData, records, nil, now))
		assert.Equal(t, 90, scorer.Score(poor, records, nil, now))
	})

	t.Run("NeglectedMaintenanceDeduction", func(t *testing.T) {
		truck := &database.Truck{Year: now.Year(), FuelEfficiency: 20}

		stale := []*database.MaintenanceRecord{completedRecord(250), completedRecord(300)}
		assert.Equal(t, 85, scorer.Score(truck, stale, nil, now))

		scheduled := []*database.MaintenanceRecord{
			{Status: database.MaintenanceScheduled, DatePerformed: now.AddDate(0, 0, -10)},
			{Status: database.MaintenanceScheduled, DatePerformed: now.AddDate(0, 0, -20)},
		}
		assert.Equal(t, 85, scorer.Score(truck, scheduled, nil, now),
			"only COMPLETED records count toward recent maintenance")
	})
}
