package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/database"
	apperrors "github.com/fleetsight/fleetsight/internal/errors"
	"github.com/fleetsight/fleetsight/internal/optimizer"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTruckHealth(w http.ResponseWriter, r *http.Request) {
	truckID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid truck id")
		return
	}

	start := time.Now()
	result, err := s.analyzer.Analyze(r.Context(), truckID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("Analysis failed", zap.Int64("truck_id", truckID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	if s.metrics != nil {
		s.metrics.AnalysesTotal.Inc()
		s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}

	s.writeJSON(w, http.StatusOK, result)
}

type readingRequest struct {
	SensorType string  `json:"sensorType"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
}

func (s *Server) handleRecordReading(w http.ResponseWriter, r *http.Request) {
	truckID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid truck id")
		return
	}

	var req readingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SensorType == "" {
		s.writeError(w, http.StatusBadRequest, "sensorType is required")
		return
	}

	reading, err := s.detector.RecordReading(r.Context(), truckID,
		database.SensorType(req.SensorType), req.Value, req.Unit)
	if err != nil {
		s.logger.Error("Failed to record reading", zap.Int64("truck_id", truckID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to record reading")
		return
	}

	if s.metrics != nil && reading.IsAnomaly {
		s.metrics.AnomaliesFlagged.WithLabelValues(req.SensorType).Inc()
	}

	s.writeJSON(w, http.StatusCreated, reading)
}

func (s *Server) handleGenerateAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.alertGen.GenerateFleetWideAlerts(r.Context())
	if err != nil {
		s.logger.Error("Fleet sweep failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "fleet sweep failed")
		return
	}

	if s.metrics != nil {
		s.metrics.SweepsTotal.Inc()
	}

	s.writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleMaintenanceAnalytics(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.aggregator.MaintenanceAnalytics(r.Context(), start, end)
	if err != nil {
		s.logger.Error("Maintenance analytics failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "analytics failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFleetAnalytics(w http.ResponseWriter, r *http.Request) {
	result, err := s.aggregator.FleetAnalytics(r.Context())
	if err != nil {
		s.logger.Error("Fleet analytics failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "analytics failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFinancialAnalytics(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.aggregator.FinancialAnalytics(r.Context(), start, end)
	if err != nil {
		s.logger.Error("Financial analytics failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "analytics failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleComprehensiveReport(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.aggregator.ComprehensiveReport(r.Context(), start, end)
	if err != nil {
		s.logger.Error("Report generation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var constraints optimizer.Constraints
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&constraints); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid constraints")
			return
		}
	}

	result, err := s.fleetOpt.Optimize(r.Context(), constraints)
	if err != nil {
		s.logger.Error("Optimization failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "optimization failed")
		return
	}

	if s.metrics != nil {
		s.metrics.OptimizationRuns.Inc()
	}

	s.writeJSON(w, http.StatusOK, result)
}

// parseDateRange reads optional start/end query parameters in RFC 3339 or
// plain date form
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if v := r.URL.Query().Get("start"); v != "" {
		start, err = parseDate(v)
		if err != nil {
			return start, end, err
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		end, err = parseDate(v)
		if err != nil {
			return start, end, err
		}
	}
	return start, end, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
