package analytics

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/database"
)

// Aggregator computes read-only maintenance, fleet and financial analytics
// over the storage collaborator. It holds no state between calls and is
// safe to run concurrently with the prediction pipeline.
type Aggregator struct {
	logger      *zap.Logger
	trucks      database.TruckRepository
	maintenance database.MaintenanceRepository
}

// NewAggregator creates an analytics aggregator
func NewAggregator(logger *zap.Logger, trucks database.TruckRepository, maintenance database.MaintenanceRepository) *Aggregator {
	return &Aggregator{
		logger:      logger,
		trucks:      trucks,
		maintenance: maintenance,
	}
}

// MonthlyCost is one bucket of a monthly cost time series
type MonthlyCost struct {
	Month string  `json:"month"` // formatted 2006-01
	Cost  float64 `json:"cost"`
}

// monthlySeries buckets record costs by calendar month, ascending
func monthlySeries(records []*database.MaintenanceRecord) []MonthlyCost {
	buckets := make(map[string]float64)
	for _, rec := range records {
		key := rec.DatePerformed.Format("2006-01")
		buckets[key] += rec.TotalCost
	}

	series := make([]MonthlyCost, 0, len(buckets))
	for month, cost := range buckets {
		series = append(series, MonthlyCost{Month: month, Cost: cost})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})
	return series
}

// safeDiv guards every ratio in this package: an empty denominator yields
// 0, never NaN or Inf
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Period describes the analytics window. Zero times disable a bound.
type Period struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}
