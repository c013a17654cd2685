// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the ontology
// service: lineage query counters and latency, catalog write counters,
// and scenario activations.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics.
const metricsNamespace = "ontolens"

// Subsystem for ontology service metrics.
const ontologySubsystem = "ontology"

// Query names a lineage query for metrics labeling.
type Query string

// Lineage queries.
const (
	QueryTraceMetric     Query = "trace_metric"
	QueryImpact          Query = "impact"
	QueryMeasureUsage    Query = "measure_usage"
	QueryPerspective     Query = "perspective_view"
	QueryEntityDetail    Query = "entity_detail"
	QueryProcessFlow     Query = "process_flow"
	QueryCrystallization Query = "crystallization"
	QueryStepLineage     Query = "step_lineage"
)

// Metrics holds all Prometheus metrics for the ontology service.
//
// A nil *Metrics is valid and records nothing, so wiring metrics stays
// optional in tests and embedded use.
type Metrics struct {
	// QueriesTotal counts lineage queries by query name and status.
	// Labels: query, status (success, error)
	QueriesTotal *prometheus.CounterVec

	// QueryDurationSeconds measures lineage query latency.
	// Labels: query
	QueryDurationSeconds *prometheus.HistogramVec

	// CatalogWritesTotal counts record writes by kind and operation.
	// Labels: kind, op (create, update, delete)
	CatalogWritesTotal *prometheus.CounterVec

	// ScenarioActivationsTotal counts scenario dataset activations.
	// Labels: scenario
	ScenarioActivationsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on the default registry.
// Call once at startup; a second call panics on duplicate registration.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates metrics on a specific registerer. Tests use a
// private registry to avoid cross-test duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: ontologySubsystem,
				Name:      "queries_total",
				Help:      "Total lineage queries by query name and status",
			},
			[]string{"query", "status"},
		),

		QueryDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: ontologySubsystem,
				Name:      "query_duration_seconds",
				Help:      "Lineage query latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"query"},
		),

		CatalogWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: ontologySubsystem,
				Name:      "catalog_writes_total",
				Help:      "Total catalog record writes by kind and operation",
			},
			[]string{"kind", "op"},
		),

		ScenarioActivationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: ontologySubsystem,
				Name:      "scenario_activations_total",
				Help:      "Total scenario dataset activations",
			},
			[]string{"scenario"},
		),
	}
}

// RecordQuery records a completed lineage query with its latency.
func (m *Metrics) RecordQuery(q Query, d time.Duration, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.QueriesTotal.WithLabelValues(string(q), status).Inc()
	m.QueryDurationSeconds.WithLabelValues(string(q)).Observe(d.Seconds())
}

// RecordWrite records a catalog record write.
func (m *Metrics) RecordWrite(kind, op string) {
	if m == nil {
		return
	}
	m.CatalogWritesTotal.WithLabelValues(kind, op).Inc()
}

// RecordScenarioActivation records a scenario dataset activation.
func (m *Metrics) RecordScenarioActivation(scenario string) {
	if m == nil {
		return
	}
	m.ScenarioActivationsTotal.WithLabelValues(scenario).Inc()
}
