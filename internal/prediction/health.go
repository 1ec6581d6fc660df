package prediction

import (
	"math"
	"time"

	"github.com/fleetsight/fleetsight/internal/database"
)

// HealthScorer computes a 0-100 composite condition score for a truck
type HealthScorer struct{}

// NewHealthScorer creates a health scorer
func NewHealthScorer() *HealthScorer {
	return &HealthScorer{}
}

// Score starts from 100 and applies independent additive deductions for
// age, mileage, maintenance neglect, sensor anomalies and poor fuel
// economy. The result is rounded and clamped once, at the end.
func (s *HealthScorer) Score(truck *database.Truck, records []*database.MaintenanceRecord, readings []*database.SensorReading, now time.Time) int {
	var deductions float64

	age := float64(truck.AgeYears(now))
	deductions += math.Min(age*2, 30)

	deductions += math.Min(truck.CurrentMileage/10000, 25)

	if recentCompletedCount(records, now.AddDate(0, -6, 0)) < 2 {
		deductions += 15
	}

	anomalies := 0
	for _, r := range readings {
		if r.IsAnomaly {
			anomalies++
		}
	}
	deductions += math.Min(float64(anomalies)*5, 20)

	// A zero fuel-efficiency figure means no data, not terrible economy.
	if truck.FuelEfficiency > 0 && truck.FuelEfficiency < 15 {
		deductions += 10
	}

	score := int(math.Round(100 - deductions))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func recentCompletedCount(records []*database.MaintenanceRecord, cutoff time.Time) int {
	count := 0
	for _, rec := range records {
		if rec.Status == database.MaintenanceCompleted && rec.DatePerformed.After(cutoff) {
			count++
		}
	}
	return count
}
