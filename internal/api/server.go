package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/analytics"
	"github.com/fleetsight/fleetsight/internal/config"
	"github.com/fleetsight/fleetsight/internal/monitoring"
	"github.com/fleetsight/fleetsight/internal/optimizer"
	"github.com/fleetsight/fleetsight/internal/prediction"
)

// Server exposes the analysis engine over HTTP and WebSocket
type Server struct {
	logger     *zap.Logger
	config     config.APIConfig
	metricsCfg config.MetricsConfig
	router     *mux.Router
	server     *http.Server
	hub        *AlertHub

	analyzer   *prediction.TruckHealthAnalyzer
	alertGen   *prediction.FleetAlertGenerator
	detector   *prediction.AnomalyDetector
	aggregator *analytics.Aggregator
	fleetOpt   *optimizer.FleetOptimizer
	metrics    *monitoring.Metrics
}

// Response is the uniform JSON envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Time    time.Time   `json:"time"`
}

// NewServer wires the engine components into an HTTP server
func NewServer(
	logger *zap.Logger,
	cfg config.APIConfig,
	metricsCfg config.MetricsConfig,
	analyzer *prediction.TruckHealthAnalyzer,
	alertGen *prediction.FleetAlertGenerator,
	detector *prediction.AnomalyDetector,
	aggregator *analytics.Aggregator,
	fleetOpt *optimizer.FleetOptimizer,
	metrics *monitoring.Metrics,
) *Server {
	s := &Server{
		logger:     logger,
		config:     cfg,
		metricsCfg: metricsCfg,
		router:     mux.NewRouter(),
		hub:        NewAlertHub(logger),
		analyzer:   analyzer,
		alertGen:   alertGen,
		detector:   detector,
		aggregator: aggregator,
		fleetOpt:   fleetOpt,
		metrics:    metrics,
	}

	s.routes()

	s.server = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.handleHealthz).Methods(http.MethodGet)
	api.HandleFunc("/trucks/{id:[0-9]+}/health", s.handleTruckHealth).Methods(http.MethodGet)
	api.HandleFunc("/trucks/{id:[0-9]+}/readings", s.handleRecordReading).Methods(http.MethodPost)
	api.HandleFunc("/alerts/generate", s.handleGenerateAlerts).Methods(http.MethodPost)
	api.HandleFunc("/analytics/maintenance", s.handleMaintenanceAnalytics).Methods(http.MethodGet)
	api.HandleFunc("/analytics/fleet", s.handleFleetAnalytics).Methods(http.MethodGet)
	api.HandleFunc("/analytics/financial", s.handleFinancialAnalytics).Methods(http.MethodGet)
	api.HandleFunc("/reports/comprehensive", s.handleComprehensiveReport).Methods(http.MethodGet)
	api.HandleFunc("/optimize", s.handleOptimize).Methods(http.MethodPost)
	api.HandleFunc("/ws/alerts", s.handleAlertStream).Methods(http.MethodGet)

	if s.metrics != nil && s.metricsCfg.Enabled {
		path := s.metricsCfg.Path
		if path == "" {
			path = "/metrics"
		}
		s.router.Handle(path, s.metrics.Handler()).Methods(http.MethodGet)
	}
}

// Hub returns the alert broadcast hub so the sweep can feed it
func (s *Server) Hub() *AlertHub {
	return s.hub
}

// SetAlertGenerator injects the fleet alert generator. The generator is
// wired after the server because its notifier feeds the server's hub.
func (s *Server) SetAlertGenerator(gen *prediction.FleetAlertGenerator) {
	s.alertGen = gen
}

// Start begins serving. Blocks until the listener fails or is closed.
func (s *Server) Start() error {
	s.logger.Info("API server listening", zap.String("addr", s.config.ListenAddr))
	go s.hub.Run()

	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the hub
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	return s.server.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{
		Success: status < http.StatusBadRequest,
		Data:    data,
		Time:    time.Now().UTC(),
	}); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{
		Success: false,
		Error:   message,
		Time:    time.Now().UTC(),
	}); err != nil {
		s.logger.Error("Failed to encode error response", zap.Error(err))
	}
}
