package prediction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/database"
)

// alertThreshold is the minimum probability for a surfaced prediction to
// produce a persisted alert
const alertThreshold = 0.6

// AlertNotifier receives every newly created alert. Used to fan out to the
// websocket hub and metrics without coupling the sweep to either.
type AlertNotifier func(*database.PredictiveAlert)

// FleetAlertGenerator runs the analyzer across the active fleet, persists
// alerts for high-probability predictions and writes back health fields
type FleetAlertGenerator struct {
	logger   *zap.Logger
	trucks   database.TruckRepository
	alerts   database.AlertRepository
	analyzer *TruckHealthAnalyzer
	notify   AlertNotifier
}

// NewFleetAlertGenerator creates a fleet alert generator
func NewFleetAlertGenerator(
	logger *zap.Logger,
	trucks database.TruckRepository,
	alerts database.AlertRepository,
	analyzer *TruckHealthAnalyzer,
	notify AlertNotifier,
) *FleetAlertGenerator {
	return &FleetAlertGenerator{
		logger:   logger,
		trucks:   trucks,
		alerts:   alerts,
		analyzer: analyzer,
		notify:   notify,
	}
}

// GenerateFleetWideAlerts analyzes every active truck. For each surfaced
// prediction above the alert threshold it creates an unresolved
// PREDICTIVE_FAILURE alert unless one already exists; the storage layer's
// unique index closes the check-then-create race. Each truck's health
// score and risk level are written back unconditionally. The returned
// slice contains only alerts created by this run.
func (g *FleetAlertGenerator) GenerateFleetWideAlerts(ctx context.Context) ([]*database.PredictiveAlert, error) {
	trucks, err := g.trucks.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active trucks: %w", err)
	}

	created := make([]*database.PredictiveAlert, 0)

	for _, truck := range trucks {
		result, err := g.analyzer.Analyze(ctx, truck.ID)
		if err != nil {
			g.logger.Error("Failed to analyze truck during sweep",
				zap.Int64("truck_id", truck.ID),
				zap.Error(err),
			)
			continue
		}

		for _, pred := range result.Predictions {
			if pred.Probability <= alertThreshold {
				continue
			}

			alert, err := g.createAlert(ctx, truck.ID, pred)
			if err != nil {
				g.logger.Error("Failed to create alert",
					zap.Int64("truck_id", truck.ID),
					zap.String("component", pred.Type),
					zap.Error(err),
				)
				continue
			}
			if alert != nil {
				created = append(created, alert)
				if g.notify != nil {
					g.notify(alert)
				}
			}
		}

		if err := g.trucks.UpdateHealth(ctx, truck.ID, result.HealthScore, result.RiskLevel); err != nil {
			g.logger.Error("Failed to persist truck health",
				zap.Int64("truck_id", truck.ID),
				zap.Error(err),
			)
		}
	}

	g.logger.Info("Fleet alert sweep complete",
		zap.Int("trucks_analyzed", len(trucks)),
		zap.Int("alerts_created", len(created)),
	)

	return created, nil
}

func (g *FleetAlertGenerator) createAlert(ctx context.Context, truckID int64, pred Prediction) (*database.PredictiveAlert, error) {
	// Cheap pre-check; the unique index is the real guarantee.
	exists, err := g.alerts.UnresolvedExists(ctx, truckID, database.AlertTypePredictiveFailure)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	now := time.Now().UTC()
	alert := &database.PredictiveAlert{
		TruckID:            truckID,
		AlertType:          database.AlertTypePredictiveFailure,
		Title:              fmt.Sprintf("Predicted %s failure", pred.Type),
		Description:        fmt.Sprintf("%s failure predicted with %.0f%% probability. %s.", pred.Type, pred.Probability*100, pred.Timeframe),
		Severity:           severityForProbability(pred.Probability),
		Confidence:         pred.Probability,
		PredictedFailureAt: now.AddDate(0, 0, DaysForTimeframe(pred.Timeframe)),
		RecommendedAction:  pred.RecommendedAction,
		CostImpact:         pred.CostImpact,
		Probability:        pred.Probability,
		IsResolved:         false,
		CreatedAt:          now,
	}

	wasCreated, err := g.alerts.CreateIfAbsent(ctx, alert)
	if err != nil {
		return nil, err
	}
	if !wasCreated {
		return nil, nil
	}
	return alert, nil
}

func severityForProbability(prob float64) string {
	switch {
	case prob > 0.8:
		return "CRITICAL"
	case prob > 0.7:
		return "HIGH"
	default:
		return "MEDIUM"
	}
}
