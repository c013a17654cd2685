// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"context"
	"fmt"

	"github.com/lumenforge/ontolens/services/ontology/model"
)

// view is an immutable snapshot of the catalog for one query: primary
// indexes by ID, list order preserved for deterministic scans, and the
// reverse indexes the hop queries need.
type view struct {
	perspectives map[string]model.Perspective
	systems      map[string]model.System
	entities     map[string]model.Entity
	observations map[string]model.Observation
	measures     map[string]model.Measure
	metrics      map[string]model.Metric
	processes    map[string]model.Process

	observationList []model.Observation
	measureList     []model.Measure
	metricList      []model.Metric
	processList     []model.Process

	// Reverse indexes, keyed by referenced ID. Value slices preserve the
	// referencing collection's list order.
	measuresByObservation  map[string][]string // measure.input_observation_ids
	measuresByInputMeasure map[string][]string // measure.input_measure_ids
	metricsByMeasure       map[string][]string // metric.calculated_by_measure_ids
	observationsByEntity   map[string][]string // observation.entity_id

	steps map[string]stepRef
}

// stepRef locates a process step together with its owning process.
type stepRef struct {
	process model.Process
	step    model.ProcessStep
}

// reverseRelation identifies a (kind, relation) pair a reverse index
// exists for.
type reverseRelation struct {
	kind     string
	relation string
}

// Declared reverse relations. Any other pair passed to reverseIndex is a
// programming error and panics.
var (
	relMeasureObservations = reverseRelation{"measure", "input_observation_ids"}
	relMeasureMeasures     = reverseRelation{"measure", "input_measure_ids"}
	relMetricMeasures      = reverseRelation{"metric", "calculated_by_measure_ids"}
	relObservationEntity   = reverseRelation{"observation", "entity_id"}
)

// newView builds a snapshot by reading every collection once.
func newView(ctx context.Context, src Source) (*view, error) {
	perspectives, err := src.Perspectives(ctx)
	if err != nil {
		return nil, fmt.Errorf("load perspectives: %w", err)
	}
	systems, err := src.Systems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load systems: %w", err)
	}
	entities, err := src.Entities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entities: %w", err)
	}
	observations, err := src.Observations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}
	measures, err := src.Measures(ctx)
	if err != nil {
		return nil, fmt.Errorf("load measures: %w", err)
	}
	metrics, err := src.Metrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	processes, err := src.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load processes: %w", err)
	}

	v := &view{
		perspectives: make(map[string]model.Perspective, len(perspectives)),
		systems:      make(map[string]model.System, len(systems)),
		entities:     make(map[string]model.Entity, len(entities)),
		observations: make(map[string]model.Observation, len(observations)),
		measures:     make(map[string]model.Measure, len(measures)),
		metrics:      make(map[string]model.Metric, len(metrics)),
		processes:    make(map[string]model.Process, len(processes)),

		observationList: observations,
		measureList:     measures,
		metricList:      metrics,
		processList:     processes,

		measuresByObservation:  make(map[string][]string),
		measuresByInputMeasure: make(map[string][]string),
		metricsByMeasure:       make(map[string][]string),
		observationsByEntity:   make(map[string][]string),

		steps: make(map[string]stepRef),
	}

	for _, p := range perspectives {
		v.perspectives[p.ID] = p
	}
	for _, s := range systems {
		v.systems[s.ID] = s
	}
	for _, e := range entities {
		v.entities[e.ID] = e
	}
	for _, o := range observations {
		v.observations[o.ID] = o
		v.observationsByEntity[o.EntityID] = append(v.observationsByEntity[o.EntityID], o.ID)
	}
	for _, m := range measures {
		v.measures[m.ID] = m
		for _, obsID := range m.InputObservationIDs {
			v.measuresByObservation[obsID] = append(v.measuresByObservation[obsID], m.ID)
		}
		for _, msrID := range m.InputMeasureIDs {
			v.measuresByInputMeasure[msrID] = append(v.measuresByInputMeasure[msrID], m.ID)
		}
	}
	for _, m := range metrics {
		v.metrics[m.ID] = m
		for _, msrID := range m.CalculatedByMeasureIDs {
			v.metricsByMeasure[msrID] = append(v.metricsByMeasure[msrID], m.ID)
		}
	}
	for _, p := range processes {
		v.processes[p.ID] = p
		for _, s := range p.Steps {
			v.steps[s.ID] = stepRef{process: p, step: s}
		}
	}

	return v, nil
}

// reverseIndex returns the index for a declared relation. Asking for an
// undeclared relation panics: it means a query was written against an
// index nobody built, which must fail in development, not degrade at
// runtime.
func (v *view) reverseIndex(rel reverseRelation) map[string][]string {
	switch rel {
	case relMeasureObservations:
		return v.measuresByObservation
	case relMeasureMeasures:
		return v.measuresByInputMeasure
	case relMetricMeasures:
		return v.metricsByMeasure
	case relObservationEntity:
		return v.observationsByEntity
	default:
		panic(fmt.Sprintf("graph: no reverse index declared for %s.%s", rel.kind, rel.relation))
	}
}
