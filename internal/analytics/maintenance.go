package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetsight/fleetsight/internal/database"
)

// accurateDowntimeHours is the downtime below which a predicted repair is
// counted as an accurate prediction. A coarse proxy for ground-truth
// outcome labels, preserved from the source system.
const accurateDowntimeHours = 4.0

// PredictiveAccuracy summarizes how well predicted maintenance avoided
// long downtime
type PredictiveAccuracy struct {
	PredictedCount int     `json:"predictedCount"`
	AccurateCount  int     `json:"accurateCount"`
	AccuracyRate   float64 `json:"accuracyRate"`
}

// MaintenanceAnalytics aggregates maintenance costs and downtime over a
// date range
type MaintenanceAnalytics struct {
	Period                Period             `json:"period"`
	RecordCount           int                `json:"recordCount"`
	TotalCost             float64            `json:"totalCost"`
	AverageCost           float64            `json:"averageCost"`
	CostByServiceType     map[string]float64 `json:"costByServiceType"`
	MonthlyCosts          []MonthlyCost      `json:"monthlyCosts"`
	TotalDowntimeHours    float64            `json:"totalDowntimeHours"`
	DowntimeByFailureMode map[string]float64 `json:"downtimeByFailureMode"`
	PredictiveAccuracy    PredictiveAccuracy `json:"predictiveAccuracy"`
}

// MaintenanceAnalytics computes cost, downtime and predictive-accuracy
// statistics over [start, end]. Zero times disable the bound.
func (a *Aggregator) MaintenanceAnalytics(ctx context.Context, start, end time.Time) (*MaintenanceAnalytics, error) {
	records, err := a.maintenance.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance records: %w", err)
	}

	result := &MaintenanceAnalytics{
		Period:                Period{Start: start, End: end},
		RecordCount:           len(records),
		CostByServiceType:     make(map[string]float64),
		DowntimeByFailureMode: make(map[string]float64),
		MonthlyCosts:          monthlySeries(records),
	}

	for _, rec := range records {
		result.TotalCost += rec.TotalCost
		result.CostByServiceType[rec.ServiceType] += rec.TotalCost
		result.TotalDowntimeHours += rec.DowntimeHours

		if rec.FailureMode != nil && *rec.FailureMode != "" {
			result.DowntimeByFailureMode[*rec.FailureMode] += rec.DowntimeHours
		}

		if rec.WasPredicted && rec.Status == database.MaintenanceCompleted {
			result.PredictiveAccuracy.PredictedCount++
			if rec.DowntimeHours < accurateDowntimeHours {
				result.PredictiveAccuracy.AccurateCount++
			}
		}
	}

	result.AverageCost = safeDiv(result.TotalCost, float64(len(records)))
	result.PredictiveAccuracy.AccuracyRate = safeDiv(
		float64(result.PredictiveAccuracy.AccurateCount),
		float64(result.PredictiveAccuracy.PredictedCount),
	)

	return result, nil
}
