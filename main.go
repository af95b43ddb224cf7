package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"occupancy-modeler/api"
	"occupancy-modeler/config"
	"occupancy-modeler/formatter"
	"occupancy-modeler/logger"
	"occupancy-modeler/metrics"
	"occupancy-modeler/models"
	"occupancy-modeler/parser"
	"occupancy-modeler/simulation"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

func main() {
	// Define flags
	scenario := flag.String("config", "", "Scenario YAML file (optional)")
	volumeFile := flag.String("volume", "", "Volume CSV file: day, interval, volume (overrides the scenario)")
	ahtFile := flag.String("aht", "", "AHT CSV file: day, interval, seconds (optional)")
	rosterFile := flag.String("roster", "", "Roster CSV file: interval, headcount[, shiftLength] (optional)")
	format := flag.String("format", "text", "Output format: text|json|csv")
	chart := flag.Bool("chart", false, "Print an ASCII chart of SLA and occupancy by interval")
	serve := flag.String("serve", "", "Serve the HTTP API on this address instead of running once (e.g., :8080)")
	metricsAddr := flag.String("metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	pushGateway := flag.String("push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flag.Bool("wait", false, "Keep process running after completion to allow for metric scraping")
	logLevel := flag.String("log-level", "", "Log level: debug|info|warn|error (overrides LOG_LEVEL)")

	// Parse command-line flags
	flag.Parse()

	cfg, err := config.Load(*scenario)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	logger.Setup(os.Stderr, cfg.LogLevel, "text")

	if *serve != "" {
		runServer(*serve, cfg)
		return
	}

	// Start metrics server if address provided
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			fmt.Printf("Metrics server listening on %s/metrics\n", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				fmt.Printf("Metrics server error: %v\n", err)
			}
		}()
	}

	// Validate format enum
	if !slices.Contains(formatter.Formats, *format) {
		fmt.Printf("Error: format must be one of: text, json, csv (got: %s)\n", *format)
		os.Exit(1)
	}

	// Flags override the scenario's input files
	if *volumeFile != "" {
		cfg.VolumeFile = *volumeFile
	}
	if *ahtFile != "" {
		cfg.AHTFile = *ahtFile
	}
	if *rosterFile != "" {
		cfg.RosterFile = *rosterFile
	}

	// Validate required input
	if cfg.VolumeFile == "" {
		fmt.Println("Error: a volume file is required (-volume or volume_file in -config)")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := loadInputs(cfg)
	if err != nil {
		fmt.Printf("Error parsing file: %v\n", err)
		os.Exit(1)
	}

	summary, err := simulation.Simulate(context.Background(), data)
	if err != nil {
		fmt.Printf("Error running simulation: %v\n", err)
		os.Exit(1)
	}

	// Output based on format
	output, err := formatter.Format(summary, *format)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(output)
	if *chart && *format == "text" {
		fmt.Println()
		fmt.Println(formatter.FormatChart(summary, 12, 96))
	}

	// Handle metrics pushing or waiting
	if *pushGateway != "" {
		jobName := "occupancy_modeler"
		if err := push.New(*pushGateway, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			fmt.Fprintf(os.Stderr, "Error pushing to Pushgateway: %v\n", err)
		} else {
			fmt.Println("\nMetrics successfully pushed to Pushgateway")
		}
	}

	if *wait && *metricsAddr != "" {
		fmt.Println("\nProcess kept alive for metric scraping. Press Ctrl+C to exit.")
		// Wait for interrupt signal
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		fmt.Println("\nExiting...")
	} else if *metricsAddr != "" && *pushGateway == "" {
		// Small delay to allow final scrape if not waiting explicitly
		time.Sleep(100 * time.Millisecond)
	}
}

// loadInputs parses the configured CSV files into an engine input.
func loadInputs(cfg *config.Config) (models.ConfigurationData, error) {
	volume, err := parseFile(cfg.VolumeFile, func(f io.Reader) (models.VolumeMatrix, error) {
		return parser.ParseVolume(f, cfg.Days())
	})
	if err != nil {
		return models.ConfigurationData{}, err
	}

	var aht models.AHTMatrix
	if cfg.AHTFile != "" {
		aht, err = parseFile(cfg.AHTFile, func(f io.Reader) (models.AHTMatrix, error) {
			return parser.ParseAHT(f, cfg.Days())
		})
		if err != nil {
			return models.ConfigurationData{}, err
		}
	}

	var anchors []models.ShiftAnchor
	if cfg.RosterFile != "" {
		anchors, err = parseFile(cfg.RosterFile, parser.ParseRoster)
		if err != nil {
			return models.ConfigurationData{}, err
		}
	}

	return cfg.ConfigurationData(volume, aht, anchors), nil
}

func parseFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	file, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()
	return parse(file)
}

// runServer serves the HTTP API until SIGINT/SIGTERM, then drains requests.
func runServer(addr string, cfg *config.Config) {
	server := api.NewServer(addr, api.NewRouter(api.NewHandler(cfg)))

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
