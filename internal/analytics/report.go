package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// InsightType categorizes a report insight
type InsightType string

const (
	InsightPositive       InsightType = "positive"
	InsightNegative       InsightType = "negative"
	InsightRecommendation InsightType = "recommendation"
)

// Insight is one threshold-triggered observation in a report
type Insight struct {
	Type    InsightType `json:"type"`
	Message string      `json:"message"`
}

// ComprehensiveReport combines the three analytics views with derived KPIs
// and rule-based insights
type ComprehensiveReport struct {
	GeneratedAt      time.Time             `json:"generatedAt"`
	Period           Period                `json:"period"`
	Maintenance      *MaintenanceAnalytics `json:"maintenance"`
	Fleet            *FleetAnalytics       `json:"fleet"`
	Financial        *FinancialAnalytics   `json:"financial"`
	KPIs             map[string]float64    `json:"kpis"`
	Insights         []Insight             `json:"insights"`
	ExecutiveSummary string                `json:"executiveSummary"`
}

// ComprehensiveReport runs all three aggregations over the window and
// derives KPIs and insights from the combined result
func (a *Aggregator) ComprehensiveReport(ctx context.Context, start, end time.Time) (*ComprehensiveReport, error) {
	maintenance, err := a.MaintenanceAnalytics(ctx, start, end)
	if err != nil {
		return nil, err
	}

	fleet, err := a.FleetAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	financial, err := a.FinancialAnalytics(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &ComprehensiveReport{
		GeneratedAt: time.Now().UTC(),
		Period:      Period{Start: start, End: end},
		Maintenance: maintenance,
		Fleet:       fleet,
		Financial:   financial,
		KPIs: map[string]float64{
			"average_health_score": fleet.AverageHealthScore,
			"utilization_rate":     fleet.UtilizationRate,
			"cost_per_mile":        fleet.CostPerMile,
			"cost_per_truck":       financial.CostPerTruck,
			"total_maintenance":    maintenance.TotalCost,
			"total_downtime_hours": maintenance.TotalDowntimeHours,
			"predictive_accuracy":  maintenance.PredictiveAccuracy.AccuracyRate,
			"estimated_roi":        financial.EstimatedROI,
		},
	}

	report.Insights = buildInsights(maintenance, fleet, financial)
	report.ExecutiveSummary = buildExecutiveSummary(maintenance, fleet, financial)

	return report, nil
}

func buildInsights(m *MaintenanceAnalytics, f *FleetAnalytics, fin *FinancialAnalytics) []Insight {
	insights := make([]Insight, 0, 6)

	if f.AverageHealthScore > 80 {
		insights = append(insights, Insight{InsightPositive,
			"Fleet health is strong: the average health score is above 80."})
	} else if f.AverageHealthScore > 0 && f.AverageHealthScore < 60 {
		insights = append(insights, Insight{InsightNegative,
			"Fleet health is degraded: the average health score is below 60."})
	}

	if f.CostPerMile > 0.50 {
		insights = append(insights, Insight{InsightNegative,
			fmt.Sprintf("Maintenance cost per mile is $%.2f, above the $0.50 benchmark.", f.CostPerMile)})
	}

	if m.PredictiveAccuracy.PredictedCount > 0 {
		if m.PredictiveAccuracy.AccuracyRate >= 0.7 {
			insights = append(insights, Insight{InsightPositive,
				fmt.Sprintf("Predictive maintenance is working: %.0f%% of predicted repairs avoided long downtime.",
					m.PredictiveAccuracy.AccuracyRate*100)})
		} else {
			insights = append(insights, Insight{InsightRecommendation,
				"Predictive accuracy is below 70%; review prediction thresholds and sensor coverage."})
		}
	}

	if critical := f.RiskDistribution["CRITICAL"]; critical > 0 {
		insights = append(insights, Insight{InsightRecommendation,
			fmt.Sprintf("%d truck(s) are at CRITICAL risk; schedule immediate maintenance.", critical)})
	}

	if f.TruckCount > 0 && f.UtilizationRate < 0.5 {
		insights = append(insights, Insight{InsightRecommendation,
			"Less than half the fleet is active; consider rebalancing or downsizing."})
	}

	if fin.EstimatedROI > 0 {
		insights = append(insights, Insight{InsightPositive,
			fmt.Sprintf("Estimated maintenance ROI is %.0f%%.", fin.EstimatedROI*100)})
	}

	return insights
}

func buildExecutiveSummary(m *MaintenanceAnalytics, f *FleetAnalytics, fin *FinancialAnalytics) string {
	return fmt.Sprintf(
		"Fleet of %s trucks averaging a health score of %.0f. "+
			"Maintenance spend of $%s across %s records with %s hours of downtime. "+
			"Cost per mile $%.2f; estimated ROI on predictive maintenance %.0f%%.",
		humanize.Comma(int64(f.TruckCount)),
		f.AverageHealthScore,
		humanize.CommafWithDigits(m.TotalCost, 2),
		humanize.Comma(int64(m.RecordCount)),
		humanize.CommafWithDigits(m.TotalDowntimeHours, 1),
		f.CostPerMile,
		fin.EstimatedROI*100,
	)
}
