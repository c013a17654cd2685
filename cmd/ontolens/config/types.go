// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

// OntolensConfig is the on-disk configuration for the ontolens server,
// stored at ~/.ontolens/ontolens.yaml.
type OntolensConfig struct {
	// Server controls the HTTP listener and catalog storage.
	Server ServerConfig `yaml:"server"`

	// Scenarios points at the dataset library loaded on startup.
	Scenarios ScenarioConfig `yaml:"scenarios"`

	// Observability toggles metrics, tracing, and logging.
	Observability ObservabilityConfig `yaml:"observability"`
}

type ServerConfig struct {
	Port      int    `yaml:"port"`       // e.g. 12310
	StorePath string `yaml:"store_path"` // Badger directory; empty means in-memory
	GinMode   string `yaml:"gin_mode"`   // "debug", "release", or "test"
}

type ScenarioConfig struct {
	Dir  string `yaml:"dir"`  // directory of scenario dataset JSON files
	Seed string `yaml:"seed"` // dataset file loaded into the catalog on startup
}

type ObservabilityConfig struct {
	EnableMetrics bool   `yaml:"enable_metrics"`
	OTelEndpoint  string `yaml:"otel_endpoint,omitempty"`
	LogLevel      string `yaml:"log_level"` // "debug", "info", "warn", "error"
	LogDir        string `yaml:"log_dir,omitempty"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() OntolensConfig {
	return OntolensConfig{
		Server: ServerConfig{
			Port:      12310,
			StorePath: "~/.ontolens/catalog",
			GinMode:   "release",
		},
		Scenarios: ScenarioConfig{},
		Observability: ObservabilityConfig{
			EnableMetrics: true,
			LogLevel:      "info",
		},
	}
}
