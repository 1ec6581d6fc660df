package prediction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/database"
)

func seedReadings(repo *fakeSensorRepo, truckID int64, sensorType database.SensorType, values ...float64) {
	now := time.Now().UTC()
	for i, v := range values {
		repo.readings = append(repo.readings, &database.SensorReading{
			TruckID:    truckID,
			SensorType: sensorType,
			Value:      v,
			Timestamp:  now.Add(-time.Duration(i+1) * time.Hour),
		})
	}
}

func TestAnomalyDetectorCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("InsufficientHistory", func(t *testing.T) {
		repo := &fakeSensorRepo{}
		seedReadings(repo, 1, database.SensorEngineTemperature, 200, 201, 199)

		detector := NewAnomalyDetector(zap.NewNop(), repo)
		verdict, err := detector.Check(ctx, 1, database.SensorEngineTemperature, 500)
		require.NoError(t, err)
		assert.False(t, verdict.IsAnomaly, "fewer than 10 points must never flag")
	})

	t.Run("ConstantHistory", func(t *testing.T) {
		repo := &fakeSensorRepo{}
		seedReadings(repo, 1, database.SensorOilPressure,
			50, 50, 50, 50, 50, 50, 50, 50, 50, 50)

		detector := NewAnomalyDetector(zap.NewNop(), repo)
		verdict, err := detector.Check(ctx, 1, database.SensorOilPressure, 50)
		require.NoError(t, err)
		assert.False(t, verdict.IsAnomaly)
		assert.Zero(t, verdict.StdDev)
	})

	t.Run("ThreeSigmaOutlier", func(t *testing.T) {
		repo := &fakeSensorRepo{}
		// mean 50, population stddev 5
		seedReadings(repo, 1, database.SensorTirePressure,
			45, 45, 45, 45, 45, 55, 55, 55, 55, 55)

		detector := NewAnomalyDetector(zap.NewNop(), repo)
		verdict, err := detector.Check(ctx, 1, database.SensorTirePressure, 65)
		require.NoError(t, err)
		assert.True(t, verdict.IsAnomaly)
		assert.InDelta(t, 3.0, verdict.ZScore, 0.001)
	})

	t.Run("WithinTwoSigma", func(t *testing.T) {
		repo := &fakeSensorRepo{}
		seedReadings(repo, 1, database.SensorTirePressure,
			45, 45, 45, 45, 45, 55, 55, 55, 55, 55)

		detector := NewAnomalyDetector(zap.NewNop(), repo)
		verdict, err := detector.Check(ctx, 1, database.SensorTirePressure, 58)
		require.NoError(t, err)
		assert.False(t, verdict.IsAnomaly, "z=1.6 is inside the threshold")
	})
}

func TestAnomalyDetectorRecordReading(t *testing.T) {
	ctx := context.Background()
	repo := &fakeSensorRepo{}
	seedReadings(repo, 7, database.SensorBatteryVoltage,
		12.0, 12.1, 12.2, 12.0, 12.1, 12.2, 12.0, 12.1, 12.2, 12.1)

	detector := NewAnomalyDetector(zap.NewNop(), repo)

	reading, err := detector.RecordReading(ctx, 7, database.SensorBatteryVoltage, 9.0, "V")
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)

	assert.True(t, reading.IsAnomaly)
	assert.Equal(t, int64(7), reading.TruckID)
	require.NotNil(t, reading.Confidence)
	assert.Equal(t, 1.0, *reading.Confidence, "far outliers saturate confidence")
}
