package prediction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/database"
)

const (
	maintenanceHistoryLimit = 50
	sensorHistoryLimit      = 100
)

// PredictionResult is the composed per-truck analysis
type PredictionResult struct {
	TruckID         int64              `json:"truckId"`
	RiskLevel       database.RiskLevel `json:"riskLevel"`
	HealthScore     int                `json:"healthScore"`
	Predictions     []Prediction       `json:"predictions"`
	NextMaintenance NextMaintenance    `json:"nextMaintenance"`
	AnalyzedAt      time.Time          `json:"analyzedAt"`
}

// TruckHealthAnalyzer orchestrates scoring, failure prediction, risk
// classification and maintenance scheduling for a single truck. It only
// reads; persisting results is the fleet sweep's job.
type TruckHealthAnalyzer struct {
	logger      *zap.Logger
	trucks      database.TruckRepository
	maintenance database.MaintenanceRepository
	sensors     database.SensorRepository

	scorer    *HealthScorer
	predictor *FailurePredictor
	scheduler *MaintenanceScheduler
}

// NewTruckHealthAnalyzer creates an analyzer. A nil estimator selects the
// deterministic cost model.
func NewTruckHealthAnalyzer(
	logger *zap.Logger,
	trucks database.TruckRepository,
	maintenance database.MaintenanceRepository,
	sensors database.SensorRepository,
	costs CostEstimator,
) *TruckHealthAnalyzer {
	return &TruckHealthAnalyzer{
		logger:      logger,
		trucks:      trucks,
		maintenance: maintenance,
		sensors:     sensors,
		scorer:      NewHealthScorer(),
		predictor:   NewFailurePredictor(costs),
		scheduler:   NewMaintenanceScheduler(),
	}
}

// Analyze loads the truck with its recent history and computes the full
// prediction result. Returns a not-found error for unknown trucks.
func (a *TruckHealthAnalyzer) Analyze(ctx context.Context, truckID int64) (*PredictionResult, error) {
	truck, err := a.trucks.GetByID(ctx, truckID)
	if err != nil {
		return nil, err
	}

	records, err := a.maintenance.ListByTruck(ctx, truckID, maintenanceHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance history: %w", err)
	}

	readings, err := a.sensors.ListByTruck(ctx, truckID, sensorHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load sensor history: %w", err)
	}

	now := time.Now().UTC()

	score := a.scorer.Score(truck, records, readings, now)
	predictions := a.predictor.PredictAll(truck, records, readings, now)
	risk := ClassifyRisk(score, predictions)
	next := a.scheduler.Next(truck, records, now)

	a.logger.Debug("Truck analyzed",
		zap.Int64("truck_id", truckID),
		zap.Int("health_score", score),
		zap.String("risk_level", string(risk)),
		zap.Int("predictions", len(predictions)),
	)

	return &PredictionResult{
		TruckID:         truckID,
		RiskLevel:       risk,
		HealthScore:     score,
		Predictions:     predictions,
		NextMaintenance: next,
		AnalyzedAt:      now,
	}, nil
}
