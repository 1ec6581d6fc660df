package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetsight/fleetsight/internal/database"
)

const (
	// budgetBuffer is the assumed planning headroom over actual spend
	budgetBuffer = 0.10

	// fuelPricePerGallon backs the estimated fuel cost figure
	fuelPricePerGallon = 3.50

	// emergencyRepairCost is the assumed cost of one unprevented
	// breakdown, used by the ROI estimate
	emergencyRepairCost = 5000.0
)

// CostBreakdown splits fleet spend into its major buckets
type CostBreakdown struct {
	Parts         float64 `json:"parts"`
	Labor         float64 `json:"labor"`
	Maintenance   float64 `json:"maintenance"`
	EstimatedFuel float64 `json:"estimatedFuel"`
}

// BudgetVariance compares actual spend to a buffered budget
type BudgetVariance struct {
	Budget      float64 `json:"budget"`
	Actual      float64 `json:"actual"`
	Variance    float64 `json:"variance"`
	VariancePct float64 `json:"variancePct"`
}

// FinancialAnalytics aggregates fleet economics over a date range
type FinancialAnalytics struct {
	Period         Period         `json:"period"`
	CostBreakdown  CostBreakdown  `json:"costBreakdown"`
	CostPerTruck   float64        `json:"costPerTruck"`
	CostPerMile    float64        `json:"costPerMile"`
	MonthlyTrend   []MonthlyCost  `json:"monthlyTrend"`
	BudgetVariance BudgetVariance `json:"budgetVariance"`
	EstimatedROI   float64        `json:"estimatedRoi"`
}

// FinancialAnalytics computes cost breakdowns, the monthly trend, budget
// variance against an assumed 10% buffer, and an ROI estimate where
// prevented breakdowns reuse the predictive-accuracy downtime proxy.
func (a *Aggregator) FinancialAnalytics(ctx context.Context, start, end time.Time) (*FinancialAnalytics, error) {
	records, err := a.maintenance.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance records: %w", err)
	}

	trucks, err := a.trucks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trucks: %w", err)
	}

	result := &FinancialAnalytics{
		Period:       Period{Start: start, End: end},
		MonthlyTrend: monthlySeries(records),
	}

	preventedBreakdowns := 0
	for _, rec := range records {
		result.CostBreakdown.Parts += rec.PartsCost
		result.CostBreakdown.Labor += rec.LaborCost
		result.CostBreakdown.Maintenance += rec.TotalCost

		if rec.WasPredicted && rec.Status == database.MaintenanceCompleted &&
			rec.DowntimeHours < accurateDowntimeHours {
			preventedBreakdowns++
		}
	}

	var totalMileage float64
	for _, truck := range trucks {
		totalMileage += truck.CurrentMileage
		if truck.FuelEfficiency > 0 {
			result.CostBreakdown.EstimatedFuel += truck.CurrentMileage / truck.FuelEfficiency * fuelPricePerGallon
		}
	}

	investment := result.CostBreakdown.Maintenance
	result.CostPerTruck = safeDiv(investment, float64(len(trucks)))
	result.CostPerMile = safeDiv(investment, totalMileage)

	budget := investment * (1 + budgetBuffer)
	result.BudgetVariance = BudgetVariance{
		Budget:      budget,
		Actual:      investment,
		Variance:    budget - investment,
		VariancePct: safeDiv(budget-investment, budget),
	}

	savings := float64(preventedBreakdowns) * emergencyRepairCost
	result.EstimatedROI = safeDiv(savings-investment, investment)

	return result, nil
}
