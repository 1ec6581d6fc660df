package prediction

import (
	"time"

	"github.com/fleetsight/fleetsight/internal/database"
)

// NextMaintenance holds due dates for recurring services. A nil field
// means the service is not yet due for scheduling.
type NextMaintenance struct {
	OilChange    *time.Time `json:"oilChange,omitempty"`
	Inspection   *time.Time `json:"inspection,omitempty"`
	TireRotation *time.Time `json:"tireRotation,omitempty"`
}

// MaintenanceScheduler derives recurring service due dates from history.
// Missing history produces a near-term default rather than omitting the
// service.
type MaintenanceScheduler struct{}

// NewMaintenanceScheduler creates a maintenance scheduler
func NewMaintenanceScheduler() *MaintenanceScheduler {
	return &MaintenanceScheduler{}
}

// Next computes the three due dates independently:
//   - oil change: 6-month cadence, due once 3 months have elapsed, default
//     30 days out without history
//   - inspection: 12-month cadence, due once 10 months have elapsed,
//     default 90 days out
//   - tire rotation: 6-month cadence off the latest rotation-tagged record,
//     due once 5 months have elapsed, default 60 days out
func (s *MaintenanceScheduler) Next(truck *database.Truck, records []*database.MaintenanceRecord, now time.Time) NextMaintenance {
	var next NextMaintenance

	next.OilChange = cadenceDue(truck.LastOilChange, now, 3, 6, 30)
	next.Inspection = cadenceDue(truck.LastInspection, now, 10, 12, 90)

	var lastRotation *time.Time
	if date, ok := lastServiceDate(records, "rotation", "tire"); ok {
		lastRotation = &date
	}
	next.TireRotation = cadenceDue(lastRotation, now, 5, 6, 60)

	return next
}

// cadenceDue schedules the next occurrence of a recurring service. With no
// prior date on record, the service is due defaultDays out. With a prior
// date, nothing is scheduled until minMonths have elapsed; after that the
// next occurrence lands (cadenceMonths - elapsed) months out, which goes
// negative for badly overdue services and yields a past-due date on purpose.
func cadenceDue(last *time.Time, now time.Time, minMonths, cadenceMonths, defaultDays int) *time.Time {
	if last == nil {
		due := now.AddDate(0, 0, defaultDays)
		return &due
	}

	elapsed := monthsBetween(*last, now)
	if elapsed < minMonths {
		return nil
	}

	due := now.AddDate(0, cadenceMonths-elapsed, 0)
	return &due
}

func monthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / (24 * 30))
}
