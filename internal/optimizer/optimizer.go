package optimizer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/database"
)

// RecommendationType is the category of an optimization recommendation
type RecommendationType string

const (
	TypeMaintenanceScheduling RecommendationType = "MAINTENANCE_SCHEDULING"
	TypeRouteOptimization     RecommendationType = "ROUTE_OPTIMIZATION"
	TypeFleetBalancing        RecommendationType = "FLEET_BALANCING"
	TypeCostOptimization      RecommendationType = "COST_OPTIMIZATION"
)

// Priority orders recommendations for operators
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

func priorityRank(p Priority) int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Impact quantifies the expected benefit of a recommendation
type Impact struct {
	CostSavings           float64 `json:"costSavings"`
	DowntimeReduction     float64 `json:"downtimeReduction"`     // hours
	EfficiencyImprovement float64 `json:"efficiencyImprovement"` // percent
}

// Recommendation is one prioritized fleet improvement suggestion.
// Ephemeral: returned to the caller, never persisted.
type Recommendation struct {
	Type                RecommendationType `json:"type"`
	Title               string             `json:"title"`
	Description         string             `json:"description"`
	Impact              Impact             `json:"impact"`
	Priority            Priority           `json:"priority"`
	ImplementationSteps []string           `json:"implementationSteps"`
}

// Constraints narrows an optimization run
type Constraints struct {
	// Categories restricts output to the listed types; empty means all
	Categories []RecommendationType `json:"categories,omitempty"`

	// MaxRecommendations caps the returned list after sorting; zero
	// means unlimited
	MaxRecommendations int `json:"maxRecommendations,omitempty"`
}

// Summary aggregates the impact of all returned recommendations
type Summary struct {
	RecommendationCount        int     `json:"recommendationCount"`
	TotalCostSavings           float64 `json:"totalCostSavings"`
	TotalDowntimeReduction     float64 `json:"totalDowntimeReduction"`
	TotalEfficiencyImprovement float64 `json:"totalEfficiencyImprovement"`
	ImplementationComplexity   string  `json:"implementationComplexity"` // LOW, MEDIUM, HIGH
}

// Result is the output of one optimization run
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Summary         Summary          `json:"summary"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

// FleetOptimizer generates ranked improvement recommendations from current
// fleet and maintenance state
type FleetOptimizer struct {
	logger      *zap.Logger
	trucks      database.TruckRepository
	maintenance database.MaintenanceRepository
}

// NewFleetOptimizer creates a fleet optimizer
func NewFleetOptimizer(logger *zap.Logger, trucks database.TruckRepository, maintenance database.MaintenanceRepository) *FleetOptimizer {
	return &FleetOptimizer{
		logger:      logger,
		trucks:      trucks,
		maintenance: maintenance,
	}
}

// Optimize runs all four recommendation categories, merges and sorts the
// result by priority rank then cost savings (both descending, stable), and
// summarizes aggregate impact.
func (o *FleetOptimizer) Optimize(ctx context.Context, constraints Constraints) (*Result, error) {
	trucks, err := o.trucks.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active trucks: %w", err)
	}

	records, err := o.maintenance.ListByDateRange(ctx, time.Now().UTC().AddDate(-1, 0, 0), time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance records: %w", err)
	}

	now := time.Now().UTC()

	recommendations := make([]Recommendation, 0)
	recommendations = append(recommendations, o.maintenanceScheduling(trucks)...)
	recommendations = append(recommendations, o.routeOptimization(trucks)...)
	recommendations = append(recommendations, o.fleetBalancing(trucks, now)...)
	recommendations = append(recommendations, o.costOptimization(trucks, records)...)

	recommendations = filterCategories(recommendations, constraints.Categories)

	sort.SliceStable(recommendations, func(i, j int) bool {
		ri, rj := priorityRank(recommendations[i].Priority), priorityRank(recommendations[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return recommendations[i].Impact.CostSavings > recommendations[j].Impact.CostSavings
	})

	if constraints.MaxRecommendations > 0 && len(recommendations) > constraints.MaxRecommendations {
		recommendations = recommendations[:constraints.MaxRecommendations]
	}

	result := &Result{
		Recommendations: recommendations,
		Summary:         summarize(recommendations),
		GeneratedAt:     now,
	}

	o.logger.Info("Fleet optimization complete",
		zap.Int("recommendations", len(recommendations)),
		zap.Float64("total_cost_savings", result.Summary.TotalCostSavings),
	)

	return result, nil
}

func (o *FleetOptimizer) maintenanceScheduling(trucks []*database.Truck) []Recommendation {
	critical := 0
	highRisk := 0
	for _, t := range trucks {
		switch {
		case t.RiskLevel == database.RiskCritical || t.HealthScore < 40:
			critical++
		case t.RiskLevel == database.RiskHigh || t.HealthScore < 60:
			highRisk++
		}
	}

	recs := make([]Recommendation, 0, 2)

	if critical > 0 {
		recs = append(recs, Recommendation{
			Type:        TypeMaintenanceScheduling,
			Title:       "Critical maintenance scheduling",
			Description: fmt.Sprintf("%d truck(s) are at critical risk or below a health score of 40 and need immediate service.", critical),
			Impact: Impact{
				CostSavings:           float64(critical) * 2500,
				DowntimeReduction:     float64(critical) * 24,
				EfficiencyImprovement: float64(critical) * 2,
			},
			Priority: PriorityCritical,
			ImplementationSteps: []string{
				"Pull the critical trucks from active routes",
				"Book service bays within 48 hours",
				"Order predicted replacement parts in advance",
				"Reassign loads to healthy trucks",
				"Re-run the health analysis after service",
			},
		})
	}

	if highRisk > 0 {
		recs = append(recs, Recommendation{
			Type:        TypeMaintenanceScheduling,
			Title:       "Preventive maintenance scheduling",
			Description: fmt.Sprintf("%d truck(s) are at elevated risk; preventive service now avoids unplanned downtime later.", highRisk),
			Impact: Impact{
				CostSavings:       float64(highRisk) * 1200,
				DowntimeReduction: float64(highRisk) * 12,
			},
			Priority: PriorityHigh,
			ImplementationSteps: []string{
				"Schedule preventive service within two weeks",
				"Align service dates with routing gaps",
				"Record completed work against each truck",
			},
		})
	}

	return recs
}

func (o *FleetOptimizer) routeOptimization(trucks []*database.Truck) []Recommendation {
	inefficient := 0
	for _, t := range trucks {
		if t.FuelEfficiency > 0 && t.FuelEfficiency < 15 {
			inefficient++
		}
	}
	if inefficient == 0 {
		return nil
	}

	priority := PriorityMedium
	if len(trucks) > 0 && float64(inefficient)/float64(len(trucks)) > 0.25 {
		priority = PriorityHigh
	}

	return []Recommendation{{
		Type:        TypeRouteOptimization,
		Title:       "Fuel efficiency improvement",
		Description: fmt.Sprintf("%d truck(s) run below 15 MPG; shorter routes and driver coaching reduce fuel spend.", inefficient),
		Impact: Impact{
			CostSavings:           float64(inefficient) * 1800,
			EfficiencyImprovement: float64(inefficient) * 1.5,
		},
		Priority: priority,
		ImplementationSteps: []string{
			"Assign the least efficient trucks to shortest routes",
			"Enable idle-time monitoring",
			"Schedule engine tuning for the worst performers",
			"Review tire pressure maintenance cadence",
		},
	}}
}

func (o *FleetOptimizer) fleetBalancing(trucks []*database.Truck, now time.Time) []Recommendation {
	aging := 0
	for _, t := range trucks {
		if t.AgeYears(now) > 10 {
			aging++
		}
	}

	recs := make([]Recommendation, 0, 1)
	if aging > 0 {
		recs = append(recs, Recommendation{
			Type:        TypeFleetBalancing,
			Title:       "Fleet renewal planning",
			Description: fmt.Sprintf("%d truck(s) are older than 10 years; staged replacement lowers maintenance burden.", aging),
			Impact: Impact{
				CostSavings:           float64(aging) * 3000,
				DowntimeReduction:     float64(aging) * 8,
				EfficiencyImprovement: float64(aging) * 1,
			},
			Priority: PriorityMedium,
			ImplementationSteps: []string{
				"Rank aging trucks by maintenance cost per mile",
				"Budget replacements over the next four quarters",
				"Shift aging trucks to low-mileage duties meanwhile",
			},
		})
	}

	return recs
}

func (o *FleetOptimizer) costOptimization(trucks []*database.Truck, records []*database.MaintenanceRecord) []Recommendation {
	if len(records) == 0 {
		return nil
	}

	costByTruck := make(map[int64]float64)
	var totalCost float64
	predicted := 0
	completed := 0
	for _, rec := range records {
		costByTruck[rec.TruckID] += rec.TotalCost
		totalCost += rec.TotalCost
		if rec.Status == database.MaintenanceCompleted {
			completed++
			if rec.WasPredicted {
				predicted++
			}
		}
	}

	recs := make([]Recommendation, 0, 2)

	if len(costByTruck) > 0 {
		average := totalCost / float64(len(costByTruck))
		outliers := 0
		for _, cost := range costByTruck {
			if cost > average*1.5 {
				outliers++
			}
		}
		if outliers > 0 {
			recs = append(recs, Recommendation{
				Type:        TypeCostOptimization,
				Title:       "High-cost truck review",
				Description: fmt.Sprintf("%d truck(s) cost more than 1.5x the fleet average to maintain over the last year.", outliers),
				Impact: Impact{
					CostSavings: float64(outliers) * average * 0.3,
				},
				Priority: PriorityHigh,
				ImplementationSteps: []string{
					"Audit repair history of the outlier trucks",
					"Compare repair spend against replacement cost",
					"Negotiate parts pricing for recurring repairs",
				},
			})
		}
	}

	if completed >= 10 && float64(predicted)/float64(completed) < 0.3 {
		recs = append(recs, Recommendation{
			Type:        TypeCostOptimization,
			Title:       "Expand predictive maintenance coverage",
			Description: "Less than 30% of completed repairs were predicted; broader sensor coverage converts emergency repairs into planned service.",
			Impact: Impact{
				CostSavings:       totalCost * 0.15,
				DowntimeReduction: float64(completed) * 2,
			},
			Priority: PriorityMedium,
			ImplementationSteps: []string{
				"Fit remaining trucks with the standard sensor package",
				"Raise the fleet sweep frequency",
				"Track prediction accuracy monthly",
			},
		})
	}

	return recs
}

func filterCategories(recs []Recommendation, categories []RecommendationType) []Recommendation {
	if len(categories) == 0 {
		return recs
	}

	allowed := make(map[RecommendationType]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	filtered := recs[:0]
	for _, rec := range recs {
		if allowed[rec.Type] {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func summarize(recs []Recommendation) Summary {
	summary := Summary{RecommendationCount: len(recs)}

	complex := 0
	for _, rec := range recs {
		summary.TotalCostSavings += rec.Impact.CostSavings
		summary.TotalDowntimeReduction += rec.Impact.DowntimeReduction
		summary.TotalEfficiencyImprovement += rec.Impact.EfficiencyImprovement
		if len(rec.ImplementationSteps) > 4 {
			complex++
		}
	}

	switch {
	case len(recs) > 0 && float64(complex)/float64(len(recs)) > 0.5:
		summary.ImplementationComplexity = "HIGH"
	case len(recs) > 0 && float64(complex)/float64(len(recs)) > 0.25:
		summary.ImplementationComplexity = "MEDIUM"
	default:
		summary.ImplementationComplexity = "LOW"
	}

	return summary
}
