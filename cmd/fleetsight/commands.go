package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fleetsight/fleetsight/internal/app"
	"github.com/fleetsight/fleetsight/internal/config"
	"github.com/fleetsight/fleetsight/internal/optimizer"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "fleetsight",
		Short: "Fleet predictive maintenance and optimization engine",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "fleetsight.yaml", "path to configuration file")

	root.AddCommand(
		newServeCmd(&configPath),
		newAnalyzeCmd(&configPath),
		newAlertsCmd(&configPath),
		newReportCmd(&configPath),
		newOptimizeCmd(&configPath),
		newVersionCmd(),
	)

	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and periodic fleet sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, logLevel, err := buildLogger(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if listenAddr != "" {
				cfg.API.ListenAddr = listenAddr
			}

			application, err := app.New(logger, cfg)
			if err != nil {
				return err
			}

			// Hot-reload safe settings from the config file while serving.
			// Only the log level is applied live; everything else needs a
			// restart.
			watcher, err := config.NewWatcher(logger, *configPath, cfg, func(next *config.Config) {
				lvl, err := zapcore.ParseLevel(next.Logging.Level)
				if err != nil {
					logger.Warn("Ignoring invalid log level in reloaded config",
						zap.String("level", next.Logging.Level))
					return
				}
				logLevel.SetLevel(lvl)
			})
			if err != nil {
				logger.Warn("Config hot reload disabled", zap.Error(err))
			} else {
				defer watcher.Close()
			}

			if err := application.Start(); err != nil {
				return err
			}

			application.WaitForShutdown()
			if err := application.Shutdown(); err != nil {
				logger.Error("Error during shutdown", zap.Error(err))
			}

			logger.Info("FleetSight stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "override API listen address")
	return cmd
}

func newAnalyzeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <truck-id>",
		Short: "Analyze a single truck's health",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			truckID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid truck id %q", args[0])
			}

			return withApp(*configPath, func(ctx context.Context, a *app.Application) error {
				result, err := a.Analyzer.Analyze(ctx, truckID)
				if err != nil {
					return err
				}
				return printJSON(result)
			})
		},
	}
}

func newAlertsCmd(configPath *string) *cobra.Command {
	alerts := &cobra.Command{
		Use:   "alerts",
		Short: "Predictive alert operations",
	}

	alerts.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Run a fleet-wide alert sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(ctx context.Context, a *app.Application) error {
				created, err := a.AlertGen.GenerateFleetWideAlerts(ctx)
				if err != nil {
					return err
				}
				return printJSON(created)
			})
		},
	})

	return alerts
}

func newReportCmd(configPath *string) *cobra.Command {
	var startStr, endStr string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the comprehensive fleet report",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseWindow(startStr, endStr)
			if err != nil {
				return err
			}

			return withApp(*configPath, func(ctx context.Context, a *app.Application) error {
				report, err := a.Aggregator.ComprehensiveReport(ctx, start, end)
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "window end (YYYY-MM-DD)")
	return cmd
}

func newOptimizeCmd(configPath *string) *cobra.Command {
	var maxRecs int

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Generate fleet optimization recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(ctx context.Context, a *app.Application) error {
				result, err := a.Optimizer.Optimize(ctx, optimizer.Constraints{
					MaxRecommendations: maxRecs,
				})
				if err != nil {
					return err
				}
				return printJSON(result)
			})
		},
	}

	cmd.Flags().IntVar(&maxRecs, "max", 0, "maximum recommendations to return (0 = unlimited)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fleetsight %s\n", version)
		},
	}
}

// withApp builds the application without starting its servers, runs fn,
// and tears everything down
func withApp(configPath string, fn func(context.Context, *app.Application) error) error {
	cfg, logger, _, err := buildLogger(configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// One-shot commands need neither the API server nor the sweep.
	cfg.API.Enabled = false
	cfg.Sweep.Enabled = false

	application, err := app.New(logger, cfg)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return fn(ctx, application)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseWindow(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date %q", startStr)
		}
	}
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date %q", endStr)
		}
	}
	return start, end, nil
}
