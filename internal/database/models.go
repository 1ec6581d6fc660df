package database

import "time"

// TruckStatus is the operational state of a truck
type TruckStatus string

const (
	TruckStatusActive      TruckStatus = "ACTIVE"
	TruckStatusInactive    TruckStatus = "INACTIVE"
	TruckStatusMaintenance TruckStatus = "MAINTENANCE"
)

// RiskLevel is the four-tier failure-risk classification
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// SensorType identifies a sensor stream on a truck
type SensorType string

const (
	SensorEngineTemperature SensorType = "ENGINE_TEMPERATURE"
	SensorOilPressure       SensorType = "OIL_PRESSURE"
	SensorBrakeWear         SensorType = "BRAKE_WEAR"
	SensorTirePressure      SensorType = "TIRE_PRESSURE"
	SensorBatteryVoltage    SensorType = "BATTERY_VOLTAGE"
)

// MaintenanceStatus is the lifecycle state of a maintenance record
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "SCHEDULED"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceCancelled  MaintenanceStatus = "CANCELLED"
)

// AlertTypePredictiveFailure is the alert type written by the fleet sweep
const AlertTypePredictiveFailure = "PREDICTIVE_FAILURE"

// Truck represents a fleet vehicle
type Truck struct {
	ID             int64       `db:"id" json:"id"`
	VIN            string      `db:"vin" json:"vin"`
	Make           string      `db:"make" json:"make"`
	Model          string      `db:"model" json:"model"`
	Year           int         `db:"year" json:"year"`
	CurrentMileage float64     `db:"current_mileage" json:"currentMileage"`
	FuelEfficiency float64     `db:"fuel_efficiency" json:"fuelEfficiency"`
	EngineHours    float64     `db:"engine_hours" json:"engineHours"`
	LastOilChange  *time.Time  `db:"last_oil_change" json:"lastOilChange,omitempty"`
	LastInspection *time.Time  `db:"last_inspection" json:"lastInspection,omitempty"`
	HealthScore    int         `db:"health_score" json:"healthScore"`
	RiskLevel      RiskLevel   `db:"risk_level" json:"riskLevel"`
	Status         TruckStatus `db:"status" json:"status"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updatedAt"`
	DeletedAt      *time.Time  `db:"deleted_at" json:"-"`
}

// AgeYears returns the truck's age relative to now
func (t *Truck) AgeYears(now time.Time) int {
	age := now.Year() - t.Year
	if age < 0 {
		return 0
	}
	return age
}

// MaintenanceRecord represents one service event on a truck
type MaintenanceRecord struct {
	ID            int64             `db:"id" json:"id"`
	TruckID       int64             `db:"truck_id" json:"truckId"`
	ServiceType   string            `db:"service_type" json:"serviceType"`
	DatePerformed time.Time         `db:"date_performed" json:"datePerformed"`
	PartsCost     float64           `db:"parts_cost" json:"partsCost"`
	LaborCost     float64           `db:"labor_cost" json:"laborCost"`
	TotalCost     float64           `db:"total_cost" json:"totalCost"`
	DowntimeHours float64           `db:"downtime_hours" json:"downtimeHours"`
	WasPredicted  bool              `db:"was_predicted" json:"wasPredicted"`
	FailureMode   *string           `db:"failure_mode" json:"failureMode,omitempty"`
	Status        MaintenanceStatus `db:"status" json:"status"`
	CreatedAt     time.Time         `db:"created_at" json:"createdAt"`
	DeletedAt     *time.Time        `db:"deleted_at" json:"-"`
}

// SensorReading is one point in a truck's sensor time series
type SensorReading struct {
	ID         int64      `db:"id" json:"id"`
	TruckID    int64      `db:"truck_id" json:"truckId"`
	SensorType SensorType `db:"sensor_type" json:"sensorType"`
	Value      float64    `db:"value" json:"value"`
	Unit       string     `db:"unit" json:"unit"`
	Timestamp  time.Time  `db:"timestamp" json:"timestamp"`
	IsAnomaly  bool       `db:"is_anomaly" json:"isAnomaly"`
	Confidence *float64   `db:"confidence" json:"confidence,omitempty"`
}

// PredictiveAlert is a persisted high-probability failure notification
type PredictiveAlert struct {
	ID                 string    `db:"id" json:"id"`
	TruckID            int64     `db:"truck_id" json:"truckId"`
	AlertType          string    `db:"alert_type" json:"alertType"`
	Title              string    `db:"title" json:"title"`
	Description        string    `db:"description" json:"description"`
	Severity           string    `db:"severity" json:"severity"`
	Confidence         float64   `db:"confidence" json:"confidence"`
	PredictedFailureAt time.Time `db:"predicted_failure_at" json:"predictedFailureDate"`
	RecommendedAction  string    `db:"recommended_action" json:"recommendedAction"`
	CostImpact         float64   `db:"cost_impact" json:"costImpact"`
	Probability        float64   `db:"probability" json:"probability"`
	IsResolved         bool      `db:"is_resolved" json:"isResolved"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
}
