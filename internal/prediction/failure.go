package prediction

import (
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/fleetsight/fleetsight/internal/database"
)

// Prediction is a single subsystem failure forecast
type Prediction struct {
	Type              string  `json:"type"`
	Probability       float64 `json:"probability"`
	Timeframe         string  `json:"timeframe"`
	RecommendedAction string  `json:"recommendedAction"`
	CostImpact        float64 `json:"costImpact"`
}

// Subsystem identifiers used as prediction types
const (
	ComponentEngine       = "engine"
	ComponentTransmission = "transmission"
	ComponentBrakes       = "brakes"
	ComponentTires        = "tires"
	ComponentBattery      = "battery"
)

// Timeframe labels, ordered by urgency
const (
	TimeframeImmediate = "Immediate (0-30 days)"
	TimeframeShort     = "Short-term (1-3 months)"
	TimeframeMedium    = "Medium-term (3-6 months)"
	TimeframeLong      = "Long-term (6+ months)"
)

// surfaceThreshold is the minimum probability for a prediction to be
// reported by the analyzer
const surfaceThreshold = 0.30

// FailurePredictor runs five independent per-subsystem heuristic models
type FailurePredictor struct {
	costs CostEstimator
}

// NewFailurePredictor creates a failure predictor. A nil estimator falls
// back to the deterministic midpoint model.
func NewFailurePredictor(costs CostEstimator) *FailurePredictor {
	if costs == nil {
		costs = MidpointCostEstimator{}
	}
	return &FailurePredictor{costs: costs}
}

// PredictAll runs every subsystem model, drops predictions at or below the
// surfacing threshold and sorts the rest by descending probability.
func (p *FailurePredictor) PredictAll(truck *database.Truck, records []*database.MaintenanceRecord, readings []*database.SensorReading, now time.Time) []Prediction {
	all := []Prediction{
		p.PredictEngine(truck, records, readings, now),
		p.PredictTransmission(truck, records, now),
		p.PredictBrakes(truck, records, readings, now),
		p.PredictTires(truck, records, readings, now),
		p.PredictBattery(truck, readings, now),
	}

	surfaced := make([]Prediction, 0, len(all))
	for _, pred := range all {
		if pred.Probability > surfaceThreshold {
			surfaced = append(surfaced, pred)
		}
	}

	sort.SliceStable(surfaced, func(i, j int) bool {
		return surfaced[i].Probability > surfaced[j].Probability
	})

	return surfaced
}

// PredictEngine scores engine failure risk from age, mileage, oil change
// history and engine temperature readings
func (p *FailurePredictor) PredictEngine(truck *database.Truck, records []*database.MaintenanceRecord, readings []*database.SensorReading, now time.Time) Prediction {
	age := float64(truck.AgeYears(now))

	prob := 0.10
	prob += age * 0.02
	prob += (truck.CurrentMileage / 100000) * 0.15

	lastOil, hasOil := lastServiceDate(records, "oil")
	if !hasOil {
		prob += 0.30
	} else if now.Sub(lastOil) > 6*30*24*time.Hour {
		prob += 0.20
	}

	if mean, ok := meanReading(readings, database.SensorEngineTemperature); ok && mean > 220 {
		prob += 0.25
	}

	return Prediction{
		Type:              ComponentEngine,
		Probability:       math.Min(prob, 0.95),
		Timeframe:         TimeframeForProbability(math.Min(prob, 0.95)),
		RecommendedAction: "Schedule engine inspection and oil change",
		CostImpact:        p.costs.Estimate(ComponentEngine, 2500, 5500),
	}
}

// PredictTransmission scores transmission failure risk from mileage, age
// and fluid service history
func (p *FailurePredictor) PredictTransmission(truck *database.Truck, records []*database.MaintenanceRecord, now time.Time) Prediction {
	age := float64(truck.AgeYears(now))

	prob := 0.05
	prob += (truck.CurrentMileage / 150000) * 0.25
	prob += age * 0.01

	if _, ok := lastServiceDate(records, "transmission", "fluid"); !ok {
		prob += 0.20
	}

	return Prediction{
		Type:              ComponentTransmission,
		Probability:       math.Min(prob, 0.80),
		Timeframe:         TimeframeForProbability(math.Min(prob, 0.80)),
		RecommendedAction: "Schedule transmission fluid service and inspection",
		CostImpact:        p.costs.Estimate(ComponentTransmission, 1800, 4000),
	}
}

// PredictBrakes scores brake failure risk from mileage, pad service
// history and brake wear readings
func (p *FailurePredictor) PredictBrakes(truck *database.Truck, records []*database.MaintenanceRecord, readings []*database.SensorReading, now time.Time) Prediction {
	prob := 0.08
	prob += (truck.CurrentMileage / 50000) * 0.15

	lastBrake, hasBrake := lastServiceDate(records, "brake", "pad")
	if !hasBrake {
		prob += 0.30
	} else if now.Sub(lastBrake) > 12*30*24*time.Hour {
		prob += 0.25
	}

	if mean, ok := meanReading(readings, database.SensorBrakeWear); ok && mean > 70 {
		prob += 0.30
	}

	return Prediction{
		Type:              ComponentBrakes,
		Probability:       math.Min(prob, 0.90),
		Timeframe:         TimeframeForProbability(math.Min(prob, 0.90)),
		RecommendedAction: "Inspect brake pads and rotors, replace as needed",
		CostImpact:        p.costs.Estimate(ComponentBrakes, 800, 2000),
	}
}

// PredictTires scores tire failure risk from mileage, age, rotation
// history and tire pressure readings
func (p *FailurePredictor) PredictTires(truck *database.Truck, records []*database.MaintenanceRecord, readings []*database.SensorReading, now time.Time) Prediction {
	age := float64(truck.AgeYears(now))

	prob := 0.06
	prob += (truck.CurrentMileage / 40000) * 0.20
	prob += age * 0.015

	if _, ok := lastServiceDate(records, "tire", "rotation"); !ok {
		prob += 0.25
	}

	if frac, ok := fractionBelow(readings, database.SensorTirePressure, 30); ok && frac >= 0.30 {
		prob += 0.20
	}

	return Prediction{
		Type:              ComponentTires,
		Probability:       math.Min(prob, 0.85),
		Timeframe:         TimeframeForProbability(math.Min(prob, 0.85)),
		RecommendedAction: "Rotate tires and check pressure and tread depth",
		CostImpact:        p.costs.Estimate(ComponentTires, 400, 1200),
	}
}

// PredictBattery scores battery failure risk from age and voltage readings
func (p *FailurePredictor) PredictBattery(truck *database.Truck, readings []*database.SensorReading, now time.Time) Prediction {
	age := float64(truck.AgeYears(now))

	prob := 0.04
	if age > 3 {
		prob += (age - 3) * 0.15
	}

	if mean, ok := meanReading(readings, database.SensorBatteryVoltage); ok && mean < 12.2 {
		prob += 0.30
	}

	return Prediction{
		Type:              ComponentBattery,
		Probability:       math.Min(prob, 0.70),
		Timeframe:         TimeframeForProbability(math.Min(prob, 0.70)),
		RecommendedAction: "Test battery and charging system, replace if weak",
		CostImpact:        p.costs.Estimate(ComponentBattery, 200, 500),
	}
}

// TimeframeForProbability maps a probability to its urgency label
func TimeframeForProbability(prob float64) string {
	switch {
	case prob > 0.8:
		return TimeframeImmediate
	case prob > 0.6:
		return TimeframeShort
	case prob > 0.4:
		return TimeframeMedium
	default:
		return TimeframeLong
	}
}

// DaysForTimeframe converts an urgency label back to a concrete horizon.
// Must stay in sync with TimeframeForProbability.
func DaysForTimeframe(timeframe string) int {
	switch timeframe {
	case TimeframeImmediate:
		return 15
	case TimeframeShort:
		return 60
	case TimeframeMedium:
		return 135
	default:
		return 180
	}
}

// lastServiceDate returns the most recent DatePerformed among records whose
// serviceType contains any of the given substrings (case-insensitive)
func lastServiceDate(records []*database.MaintenanceRecord, substrings ...string) (time.Time, bool) {
	var latest time.Time
	found := false

	for _, rec := range records {
		service := strings.ToLower(rec.ServiceType)
		for _, sub := range substrings {
			if strings.Contains(service, sub) {
				if !found || rec.DatePerformed.After(latest) {
					latest = rec.DatePerformed
					found = true
				}
				break
			}
		}
	}
	return latest, found
}

func meanReading(readings []*database.SensorReading, sensorType database.SensorType) (float64, bool) {
	values := make([]float64, 0, len(readings))
	for _, r := range readings {
		if r.SensorType == sensorType {
			values = append(values, r.Value)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

func fractionBelow(readings []*database.SensorReading, sensorType database.SensorType, threshold float64) (float64, bool) {
	total, below := 0, 0
	for _, r := range readings {
		if r.SensorType != sensorType {
			continue
		}
		total++
		if r.Value < threshold {
			below++
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(below) / float64(total), true
}
