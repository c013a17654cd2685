// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ontology

import (
	"github.com/lumenforge/ontolens/services/ontology/store"
)

// ServiceVersion is the ontology service version.
const ServiceVersion = "0.1.0"

// ErrorResponse is the wire format for error responses.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`

	// Details provides additional error context (optional).
	Details string `json:"details,omitempty"`
}

// ScenarioInfo describes one registered scenario dataset.
type ScenarioInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ScenarioStatus lists the registered scenarios and which one is active.
type ScenarioStatus struct {
	Scenarios []ScenarioInfo `json:"scenarios"`

	// Active is the ID of the loaded scenario, empty when the catalog
	// was seeded outside the scenario registry.
	Active string `json:"active,omitempty"`
}

// ActivateScenarioResponse reports a completed scenario activation.
type ActivateScenarioResponse struct {
	ScenarioID   string             `json:"scenario_id"`
	Name         string             `json:"name"`
	RecordCounts map[store.Kind]int `json:"record_counts"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
