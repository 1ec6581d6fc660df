package prediction

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/fleetsight/fleetsight/internal/database"
)

const (
	// anomalyWindow is the trailing history window consulted per stream
	anomalyWindow = 7 * 24 * time.Hour

	// anomalyHistoryLimit caps how many historical points are pulled
	anomalyHistoryLimit = 100

	// anomalyMinSamples is the minimum history needed for a verdict
	anomalyMinSamples = 10

	// anomalyZThreshold is the z-score above which a reading is anomalous
	anomalyZThreshold = 2.0
)

// AnomalyVerdict is the outcome of a single anomaly check
type AnomalyVerdict struct {
	IsAnomaly  bool
	ZScore     float64
	Mean       float64
	StdDev     float64
	Confidence *float64
}

// AnomalyDetector flags sensor readings that deviate from their recent
// historical distribution
type AnomalyDetector struct {
	logger  *zap.Logger
	sensors database.SensorRepository
}

// NewAnomalyDetector creates an anomaly detector
func NewAnomalyDetector(logger *zap.Logger, sensors database.SensorRepository) *AnomalyDetector {
	return &AnomalyDetector{logger: logger, sensors: sensors}
}

// Check evaluates value against the trailing window of the truck's stream
// for sensorType. Fewer than anomalyMinSamples historical points, or a
// constant history, yields a non-anomalous verdict rather than an error.
func (d *AnomalyDetector) Check(ctx context.Context, truckID int64, sensorType database.SensorType, value float64) (AnomalyVerdict, error) {
	since := time.Now().UTC().Add(-anomalyWindow)

	history, err := d.sensors.ListRecent(ctx, truckID, sensorType, since, anomalyHistoryLimit)
	if err != nil {
		return AnomalyVerdict{}, fmt.Errorf("failed to load sensor history: %w", err)
	}

	if len(history) < anomalyMinSamples {
		return AnomalyVerdict{}, nil
	}

	values := make([]float64, len(history))
	for i, r := range history {
		values[i] = r.Value
	}

	mean := stat.Mean(values, nil)
	stddev := popStdDev(values, mean)

	verdict := AnomalyVerdict{Mean: mean, StdDev: stddev}
	if stddev == 0 {
		return verdict, nil
	}

	verdict.ZScore = math.Abs(value-mean) / stddev
	verdict.IsAnomaly = verdict.ZScore > anomalyZThreshold

	confidence := math.Min(verdict.ZScore/(2*anomalyZThreshold), 1.0)
	verdict.Confidence = &confidence

	return verdict, nil
}

// RecordReading runs the anomaly check for a new reading and persists it
// with the resulting flag
func (d *AnomalyDetector) RecordReading(ctx context.Context, truckID int64, sensorType database.SensorType, value float64, unit string) (*database.SensorReading, error) {
	verdict, err := d.Check(ctx, truckID, sensorType, value)
	if err != nil {
		return nil, err
	}

	reading := &database.SensorReading{
		TruckID:    truckID,
		SensorType: sensorType,
		Value:      value,
		Unit:       unit,
		Timestamp:  time.Now().UTC(),
		IsAnomaly:  verdict.IsAnomaly,
		Confidence: verdict.Confidence,
	}

	if err := d.sensors.Insert(ctx, reading); err != nil {
		return nil, fmt.Errorf("failed to persist sensor reading: %w", err)
	}

	if verdict.IsAnomaly {
		d.logger.Warn("Sensor anomaly detected",
			zap.Int64("truck_id", truckID),
			zap.String("sensor_type", string(sensorType)),
			zap.Float64("value", value),
			zap.Float64("z_score", verdict.ZScore),
		)
	}

	return reading, nil
}

// popStdDev is the population standard deviation; the detector compares a
// single point against the whole observed window, not a sample estimate
func popStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
