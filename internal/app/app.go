package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/analytics"
	"github.com/fleetsight/fleetsight/internal/api"
	"github.com/fleetsight/fleetsight/internal/config"
	"github.com/fleetsight/fleetsight/internal/database"
	"github.com/fleetsight/fleetsight/internal/monitoring"
	"github.com/fleetsight/fleetsight/internal/optimizer"
	"github.com/fleetsight/fleetsight/internal/prediction"
)

// Application assembles the engine and runs its lifecycle
type Application struct {
	logger *zap.Logger
	cfg    *config.Config
	db     *database.DB

	Trucks      database.TruckRepository
	Maintenance database.MaintenanceRepository
	Sensors     database.SensorRepository
	Alerts      database.AlertRepository

	Analyzer   *prediction.TruckHealthAnalyzer
	AlertGen   *prediction.FleetAlertGenerator
	Detector   *prediction.AnomalyDetector
	Aggregator *analytics.Aggregator
	Optimizer  *optimizer.FleetOptimizer
	Metrics    *monitoring.Metrics

	server *api.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds the application from configuration
func New(logger *zap.Logger, cfg *config.Config) (*Application, error) {
	db, err := database.New(logger, cfg.Database)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		logger: logger,
		cfg:    cfg,
		db:     db,
		ctx:    ctx,
		cancel: cancel,
	}

	a.Trucks = database.NewTruckRepository(db)
	a.Maintenance = database.NewMaintenanceRepository(db)
	a.Sensors = database.NewSensorRepository(db)
	a.Alerts = database.NewAlertRepository(db)

	a.Metrics = monitoring.NewMetrics()
	a.Detector = prediction.NewAnomalyDetector(logger, a.Sensors)
	a.Analyzer = prediction.NewTruckHealthAnalyzer(logger, a.Trucks, a.Maintenance, a.Sensors, nil)
	a.Aggregator = analytics.NewAggregator(logger, a.Trucks, a.Maintenance)
	a.Optimizer = optimizer.NewFleetOptimizer(logger, a.Trucks, a.Maintenance)

	if cfg.API.Enabled {
		// Server is created before the alert generator so new alerts can
		// flow into the websocket hub.
		a.server = api.NewServer(logger, cfg.API, cfg.Metrics, a.Analyzer, nil, a.Detector,
			a.Aggregator, a.Optimizer, a.Metrics)
	}

	notify := func(alert *database.PredictiveAlert) {
		a.Metrics.AlertsCreated.WithLabelValues(alert.Severity).Inc()
		if a.server != nil {
			a.server.Hub().Publish(alert)
		}
	}
	a.AlertGen = prediction.NewFleetAlertGenerator(logger, a.Trucks, a.Alerts, a.Analyzer, notify)

	if a.server != nil {
		a.server.SetAlertGenerator(a.AlertGen)
	}

	return a, nil
}

// Start launches the API server and the periodic fleet sweep
func (a *Application) Start() error {
	if a.server != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.server.Start(); err != nil {
				a.logger.Error("API server stopped", zap.Error(err))
			}
		}()
	}

	if a.cfg.Sweep.Enabled {
		a.wg.Add(1)
		go a.sweepLoop()
	}

	a.logger.Info("FleetSight started",
		zap.Bool("api", a.cfg.API.Enabled),
		zap.Bool("sweep", a.cfg.Sweep.Enabled),
		zap.Duration("sweep_interval", a.cfg.Sweep.Interval),
	)

	return nil
}

func (a *Application) sweepLoop() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.cfg.Sweep.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := a.AlertGen.GenerateFleetWideAlerts(a.ctx); err != nil {
				a.logger.Error("Scheduled fleet sweep failed", zap.Error(err))
				continue
			}
			a.Metrics.SweepsTotal.Inc()

		case <-a.ctx.Done():
			return
		}
	}
}

// WaitForShutdown blocks until SIGINT or SIGTERM
func (a *Application) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	a.logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
}

// Shutdown stops background work and closes resources
func (a *Application) Shutdown() error {
	a.cancel()

	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Error("API shutdown error", zap.Error(err))
		}
	}

	a.wg.Wait()
	return a.db.Close()
}
