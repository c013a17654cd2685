// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command ontolens starts the ontology lineage API server.
//
// The server exposes the enterprise ontology catalog (perspectives,
// systems, entities, observations, measures, metrics, processes, and
// semantic mappings) together with the lineage query endpoints.
//
// Usage:
//
//	ontolens serve
//	ontolens serve --port 9090 --store /var/lib/ontolens
//	ontolens serve --scenario-dir ./scenarios --seed ./scenarios/baseline.json
//	ontolens validate ./scenarios/baseline.json
//
// Configuration is read from ~/.ontolens/ontolens.yaml (created on
// first run); command-line flags override the file.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lumenforge/ontolens/cmd/ontolens/config"
	"github.com/lumenforge/ontolens/pkg/logging"
	"github.com/lumenforge/ontolens/services/ontology"
	"github.com/lumenforge/ontolens/services/ontology/store"
)

var (
	flagPort        int
	flagStore       string
	flagScenarioDir string
	flagSeed        string
	flagOTel        string
	flagMetrics     bool
	flagGinMode     string
	flagLogLevel    string
	flagLogDir      string

	rootCmd = &cobra.Command{
		Use:   "ontolens",
		Short: "Ontology lineage graph engine",
		Long: `Ontolens serves an enterprise ontology catalog and answers
lineage questions over it: which observations feed a metric, which
metrics an observation affects, where a process crystallizes data,
and where manual effort is wasted.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the ontology API server",
		RunE:  runServe,
	}

	validateCmd = &cobra.Command{
		Use:   "validate [dataset file]",
		Short: "Parse a scenario dataset file and report its record counts",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the ontolens version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ontolens", ontology.ServiceVersion)
		},
	}
)

func init() {
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "HTTP port (overrides config)")
	serveCmd.Flags().StringVar(&flagStore, "store", "", "Badger store directory; empty keeps the catalog in memory")
	serveCmd.Flags().StringVar(&flagScenarioDir, "scenario-dir", "", "directory of scenario dataset files")
	serveCmd.Flags().StringVar(&flagSeed, "seed", "", "dataset file loaded into the catalog on startup")
	serveCmd.Flags().StringVar(&flagOTel, "otel-endpoint", "", "OpenTelemetry collector endpoint")
	serveCmd.Flags().BoolVar(&flagMetrics, "metrics", false, "enable the Prometheus /metrics endpoint")
	serveCmd.Flags().StringVar(&flagGinMode, "gin-mode", "", "gin mode: debug, release, or test")
	serveCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, or error")
	serveCmd.Flags().StringVar(&flagLogDir, "log-dir", "", "directory for JSON log files")

	rootCmd.AddCommand(serveCmd, validateCmd, versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Global

	// Flags win over the config file.
	if flagPort != 0 {
		cfg.Server.Port = flagPort
	}
	if cmd.Flags().Changed("store") {
		cfg.Server.StorePath = flagStore
	}
	if flagScenarioDir != "" {
		cfg.Scenarios.Dir = flagScenarioDir
	}
	if flagSeed != "" {
		cfg.Scenarios.Seed = flagSeed
	}
	if flagOTel != "" {
		cfg.Observability.OTelEndpoint = flagOTel
	}
	if cmd.Flags().Changed("metrics") {
		cfg.Observability.EnableMetrics = flagMetrics
	}
	if flagGinMode != "" {
		cfg.Server.GinMode = flagGinMode
	}
	if flagLogLevel != "" {
		cfg.Observability.LogLevel = flagLogLevel
	}
	if flagLogDir != "" {
		cfg.Observability.LogDir = flagLogDir
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Observability.LogLevel),
		LogDir:  cfg.Observability.LogDir,
		Service: "ontology",
	})
	defer func() { _ = logger.Close() }()
	slog.SetDefault(logger.Slog())

	srv, err := ontology.NewServer(ontology.Config{
		Port:          cfg.Server.Port,
		StorePath:     expandHome(cfg.Server.StorePath),
		ScenarioDir:   expandHome(cfg.Scenarios.Dir),
		SeedDataset:   expandHome(cfg.Scenarios.Seed),
		OTelEndpoint:  cfg.Observability.OTelEndpoint,
		EnableMetrics: cfg.Observability.EnableMetrics,
		GinMode:       cfg.Server.GinMode,
	})
	if err != nil {
		return fmt.Errorf("assembling server: %w", err)
	}

	return srv.Run()
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading dataset: %w", err)
	}

	ds, err := store.ParseDataset(data)
	if err != nil {
		return fmt.Errorf("parsing dataset: %w", err)
	}

	if ds.Scenario != nil {
		fmt.Printf("scenario: %s (%s)\n", ds.Scenario.ID, ds.Scenario.Name)
	}
	counts := ds.Counts()
	total := 0
	for _, kind := range store.Kinds() {
		fmt.Printf("%-18s %d\n", kind, counts[kind])
		total += counts[kind]
	}
	fmt.Printf("%-18s %d\n", "total", total)
	return nil
}

// expandHome expands a leading ~ so config paths like
// "~/.ontolens/catalog" work.
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
