package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetsight/fleetsight/internal/database"
)

// HealthDistribution is a four-bucket histogram of fleet health scores
type HealthDistribution struct {
	Excellent int `json:"excellent"` // >= 80
	Good      int `json:"good"`      // 60-79
	Fair      int `json:"fair"`      // 40-59
	Poor      int `json:"poor"`      // < 40
}

// FleetAnalytics summarizes the current condition of the whole fleet
type FleetAnalytics struct {
	TruckCount         int                        `json:"truckCount"`
	ActiveTruckCount   int                        `json:"activeTruckCount"`
	AverageHealthScore float64                    `json:"averageHealthScore"`
	HealthDistribution HealthDistribution         `json:"healthDistribution"`
	RiskDistribution   map[database.RiskLevel]int `json:"riskDistribution"`
	UtilizationRate    float64                    `json:"utilizationRate"`
	TotalMileage       float64                    `json:"totalMileage"`
	CostPerMile        float64                    `json:"costPerMile"`
}

// FleetAnalytics computes fleet-wide condition statistics from current
// truck state and lifetime maintenance cost.
//
// UtilizationRate is the share of non-deleted trucks in ACTIVE status. The
// source system had no real usage telemetry; this estimate is derived from
// fleet status rather than simulated.
func (a *Aggregator) FleetAnalytics(ctx context.Context) (*FleetAnalytics, error) {
	trucks, err := a.trucks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trucks: %w", err)
	}

	records, err := a.maintenance.ListByDateRange(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance records: %w", err)
	}

	result := &FleetAnalytics{
		TruckCount:       len(trucks),
		RiskDistribution: make(map[database.RiskLevel]int),
	}

	var healthSum float64
	for _, truck := range trucks {
		healthSum += float64(truck.HealthScore)
		result.TotalMileage += truck.CurrentMileage
		result.RiskDistribution[truck.RiskLevel]++

		if truck.Status == database.TruckStatusActive {
			result.ActiveTruckCount++
		}

		switch {
		case truck.HealthScore >= 80:
			result.HealthDistribution.Excellent++
		case truck.HealthScore >= 60:
			result.HealthDistribution.Good++
		case truck.HealthScore >= 40:
			result.HealthDistribution.Fair++
		default:
			result.HealthDistribution.Poor++
		}
	}

	var totalCost float64
	for _, rec := range records {
		totalCost += rec.TotalCost
	}

	result.AverageHealthScore = safeDiv(healthSum, float64(len(trucks)))
	result.UtilizationRate = safeDiv(float64(result.ActiveTruckCount), float64(len(trucks)))
	result.CostPerMile = safeDiv(totalCost, result.TotalMileage)

	return result, nil
}
