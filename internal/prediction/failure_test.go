package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetsight/fleetsight/internal/database"
)

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestPredictEngine(t *testing.T) {
	predictor := NewFailurePredictor(fixedCost{4000})

	t.Run("AgedTruckWithoutOilHistory", func(t *testing.T) {
		truck := &database.Truck{Year: testNow.Year() - 12, CurrentMileage: 180000}

		pred := predictor.PredictEngine(truck, nil, nil, testNow)
		// 0.10 base + 0.24 age + 0.27 mileage + 0.30 no oil record
		assert.InDelta(t, 0.91, pred.Probability, 0.0001)
		assert.Equal(t, TimeframeImmediate, pred.Timeframe)
		assert.Equal(t, 4000.0, pred.CostImpact)
	})

	t.Run("RecentOilChangeReducesProbability", func(t *testing.T) {
		truck := &database.Truck{Year: testNow.Year() - 12, CurrentMileage: 180000}
		records := []*database.MaintenanceRecord{{
			ServiceType:   "Oil Change",
			DatePerformed: testNow.AddDate(0, -1, 0),
		}}

		pred := predictor.PredictEngine(truck, records, nil, testNow)
		assert.InDelta(t, 0.61, pred.Probability, 0.0001)
	})

	t.Run("StaleOilChangeAddsPartialRisk", func(t *testing.T) {
		truck := &database.Truck{Year: testNow.Year() - 12, CurrentMileage: 180000}
		records := []*database.MaintenanceRecord{{
			ServiceType:   "oil and filter service",
			DatePerformed: testNow.AddDate(0, -8, 0),
		}}

		pred := predictor.PredictEngine(truck, records, nil, testNow)
		assert.InDelta(t, 0.81, pred.Probability, 0.0001)
	})

	t.Run("HotEngineReadingsAddRisk", func(t *testing.T) {
		truck := &database.Truck{Year: testNow.Year(), CurrentMileage: 0}
		records := []*database.MaintenanceRecord{{
			ServiceType:   "oil change",
			DatePerformed: testNow.AddDate(0, -1, 0),
		}}
		readings := []*database.SensorReading{
			{SensorType: database.SensorEngineTemperature, Value: 230},
			{SensorType: database.SensorEngineTemperature, Value: 240},
		}

		pred := predictor.PredictEngine(truck, records, readings, testNow)
		assert.InDelta(t, 0.35, pred.Probability, 0.0001)
	})

	t.Run("CeilingApplies", func(t *testing.T) {
		truck := &database.Truck{Year: testNow.Year() - 30, CurrentMileage: 900000}
		readings := []*database.SensorReading{
			{SensorType: database.SensorEngineTemperature, Value: 260},
		}

		pred := predictor.PredictEngine(truck, nil, readings, testNow)
		assert.Equal(t, 0.95, pred.Probability)
	})
}

func TestPredictBattery(t *testing.T) {
	predictor := NewFailurePredictor(fixedCost{350})

	t.Run("YoungBatteryNoAgeContribution", func(t *testing.T) {
		truck := &database.Truck{Year: testNow.Year() - 2}
		pred := predictor.PredictBattery(truck, nil, testNow)
		assert.InDelta(t, 0.04, pred.Probability, 0.0001)
	})

	t.Run("LowVoltageAddsRisk", func(t *testing.T) {
		truck := &database.Truck{Year: testNow.Year() - 5}
		readings := []*database.SensorReading{
			{SensorType: database.SensorBatteryVoltage, Value: 11.8},
			{SensorType: database.SensorBatteryVoltage, Value: 12.0},
		}

		pred := predictor.PredictBattery(truck, readings, testNow)
		// 0.04 + 2*0.15 + 0.30
		assert.InDelta(t, 0.64, pred.Probability, 0.0001)
		assert.Equal(t, TimeframeShort, pred.Timeframe)
	})

	t.Run("CeilingApplies", func(t *testing.T) {
		truck := &database.Truck{Year: testNow.Year() - 20}
		readings := []*database.SensorReading{
			{SensorType: database.SensorBatteryVoltage, Value: 11.0},
		}

		pred := predictor.PredictBattery(truck, readings, testNow)
		assert.Equal(t, 0.70, pred.Probability)
	})
}

func TestPredictTires(t *testing.T) {
	predictor := NewFailurePredictor(fixedCost{800})

	t.Run("LowPressureShareTriggers", func(t *testing.T) {
		truck := &database.Truck{Year: testNow.Year(), CurrentMileage: 0}
		records := []*database.MaintenanceRecord{{
			ServiceType:   "Tire Rotation",
			DatePerformed: testNow.AddDate(0, -1, 0),
		}}
		readings := []*database.SensorReading{
			{SensorType: database.SensorTirePressure, Value: 28},
			{SensorType: database.SensorTirePressure, Value: 29},
			{SensorType: database.SensorTirePressure, Value: 35},
			{SensorType: database.SensorTirePressure, Value: 35},
			{SensorType: database.SensorTirePressure, Value: 35},
			{SensorType: database.SensorTirePressure, Value: 35},
		}

		// 2 of 6 low is 33%, at or past the 30% trigger
		pred := predictor.PredictTires(truck, records, readings, testNow)
		assert.InDelta(t, 0.26, pred.Probability, 0.0001)
	})

	t.Run("LowPressureBelowShareDoesNot", func(t *testing.T) {
		truck := &database.Truck{Year: testNow.Year(), CurrentMileage: 0}
		records := []*database.MaintenanceRecord{{
			ServiceType:   "tire rotation",
			DatePerformed: testNow.AddDate(0, -1, 0),
		}}
		readings := []*database.SensorReading{
			{SensorType: database.SensorTirePressure, Value: 28},
			{SensorType: database.SensorTirePressure, Value: 35},
			{SensorType: database.SensorTirePressure, Value: 35},
			{SensorType: database.SensorTirePressure, Value: 35},
			{SensorType: database.SensorTirePressure, Value: 35},
		}

		pred := predictor.PredictTires(truck, records, readings, testNow)
		assert.InDelta(t, 0.06, pred.Probability, 0.0001)
	})
}

func TestPredictAllFiltersAndSorts(t *testing.T) {
	predictor := NewFailurePredictor(fixedCost{1000})

	// Old, high-mileage truck with no history: everything risky.
	truck := &database.Truck{Year: testNow.Year() - 12, CurrentMileage: 180000}

	predictions := predictor.PredictAll(truck, nil, nil, testNow)
	require.NotEmpty(t, predictions)

	for _, pred := range predictions {
		assert.Greater(t, pred.Probability, surfaceThreshold)
	}
	for i := 1; i < len(predictions); i++ {
		assert.GreaterOrEqual(t, predictions[i-1].Probability, predictions[i].Probability,
			"predictions must be sorted by descending probability")
	}
}

func TestPredictAllHealthyTruckSurfacesNothing(t *testing.T) {
	predictor := NewFailurePredictor(fixedCost{1000})
	truck := &database.Truck{Year: testNow.Year(), CurrentMileage: 5000}
	records := []*database.MaintenanceRecord{
		{ServiceType: "oil change", DatePerformed: testNow.AddDate(0, -1, 0)},
		{ServiceType: "brake pad replacement", DatePerformed: testNow.AddDate(0, -2, 0)},
		{ServiceType: "tire rotation", DatePerformed: testNow.AddDate(0, -1, 0)},
		{ServiceType: "transmission fluid service", DatePerformed: testNow.AddDate(0, -3, 0)},
	}

	predictions := predictor.PredictAll(truck, records, nil, testNow)
	assert.Empty(t, predictions)
}

func TestTimeframeMapping(t *testing.T) {
	cases := []struct {
		prob      float64
		timeframe string
		days      int
	}{
		{0.85, TimeframeImmediate, 15},
		{0.7, TimeframeShort, 60},
		{0.5, TimeframeMedium, 135},
		{0.2, TimeframeLong, 180},
	}

	for _, tc := range cases {
		label := TimeframeForProbability(tc.prob)
		assert.Equal(t, tc.timeframe, label)
		assert.Equal(t, tc.days, DaysForTimeframe(label),
			"label-to-days mapping must stay in sync")
	}
}
