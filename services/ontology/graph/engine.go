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

// seen tracks IDs already collected so every result list deduplicates on
// first encounter.
type seen map[string]struct{}

func (s seen) add(id string) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// TraceMetric walks a metric's lineage forward to its sources.
//
// Description:
//
//	Expands the metric's measures, follows measure-to-measure inputs one
//	level deep, resolves every input observation, and surfaces the
//	systems and entities those observations belong to. All lists are
//	deduplicated in first-encounter order.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	metricID - The metric to trace. Must exist.
//
// Outputs:
//
//	*MetricTrace - The resolved lineage.
//	error - ErrNotFound if the metric does not exist.
func (e *Engine) TraceMetric(ctx context.Context, metricID string) (*MetricTrace, error) {
	v, err := newView(ctx, e.src)
	if err != nil {
		return nil, err
	}
	metric, ok := v.metrics[metricID]
	if !ok {
		return nil, fmt.Errorf("metric %s: %w", metricID, ErrNotFound)
	}

	trace := &MetricTrace{
		Metric:       metric,
		Measures:     []model.Measure{},
		Observations: []model.Observation{},
		Systems:      []model.System{},
		Entities:     []model.Entity{},
	}

	seenMeasures := seen{}
	seenObs := seen{}
	var obsIDs []string

	collect := func(m model.Measure) {
		if !seenMeasures.add(m.ID) {
			return
		}
		trace.Measures = append(trace.Measures, m)
		for _, obsID := range m.InputObservationIDs {
			if seenObs.add(obsID) {
				obsIDs = append(obsIDs, obsID)
			}
		}
	}

	for _, msrID := range metric.CalculatedByMeasureIDs {
		m, ok := v.measures[msrID]
		if !ok {
			continue
		}
		collect(m)
		// One level of measure chaining: a measure built from other
		// measures pulls those in, but their own chains stay folded.
		for _, chainedID := range m.InputMeasureIDs {
			if chained, ok := v.measures[chainedID]; ok {
				collect(chained)
			}
		}
	}

	seenSystems := seen{}
	seenEntities := seen{}
	for _, obsID := range obsIDs {
		obs, ok := v.observations[obsID]
		if !ok {
			continue
		}
		trace.Observations = append(trace.Observations, obs)
		if sys, ok := v.systems[obs.SystemID]; ok && seenSystems.add(sys.ID) {
			trace.Systems = append(trace.Systems, sys)
		}
		if ent, ok := v.entities[obs.EntityID]; ok && seenEntities.add(ent.ID) {
			trace.Entities = append(trace.Entities, ent)
		}
	}

	return trace, nil
}

// AnalyzeImpact walks an observation's lineage in reverse: the measures
// that read it and the metrics calculated from those measures.
//
// Unlike TraceMetric, impact does not expand measure chains. The result
// is the set of directly exposed calculations, one hop per tier.
func (e *Engine) AnalyzeImpact(ctx context.Context, observationID string) (*ImpactAnalysis, error) {
	v, err := newView(ctx, e.src)
	if err != nil {
		return nil, err
	}
	obs, ok := v.observations[observationID]
	if !ok {
		return nil, fmt.Errorf("observation %s: %w", observationID, ErrNotFound)
	}

	res := &ImpactAnalysis{
		Observation:      obs,
		AffectedMeasures: []model.Measure{},
		AffectedMetrics:  []model.Metric{},
	}

	seenMeasures := seen{}
	seenMetrics := seen{}
	for _, msrID := range v.reverseIndex(relMeasureObservations)[observationID] {
		if !seenMeasures.add(msrID) {
			continue
		}
		res.AffectedMeasures = append(res.AffectedMeasures, v.measures[msrID])
		for _, metID := range v.reverseIndex(relMetricMeasures)[msrID] {
			if seenMetrics.add(metID) {
				res.AffectedMetrics = append(res.AffectedMetrics, v.metrics[metID])
			}
		}
	}

	return res, nil
}

// MeasureUsage reports both directions around a measure: the metrics and
// measures consuming it, and the observations and measures it consumes.
// Every hop is exactly one edge.
func (e *Engine) MeasureUsage(ctx context.Context, measureID string) (*MeasureUsage, error) {
	v, err := newView(ctx, e.src)
	if err != nil {
		return nil, err
	}
	measure, ok := v.measures[measureID]
	if !ok {
		return nil, fmt.Errorf("measure %s: %w", measureID, ErrNotFound)
	}

	usage := &MeasureUsage{
		Measure:               measure,
		UsedInMetrics:         []model.Metric{},
		UsedInMeasures:        []model.Measure{},
		DependsOnObservations: []model.Observation{},
		DependsOnMeasures:     []model.Measure{},
	}

	seenIDs := seen{}
	for _, metID := range v.reverseIndex(relMetricMeasures)[measureID] {
		if seenIDs.add(metID) {
			usage.UsedInMetrics = append(usage.UsedInMetrics, v.metrics[metID])
		}
	}
	seenIDs = seen{}
	for _, msrID := range v.reverseIndex(relMeasureMeasures)[measureID] {
		if seenIDs.add(msrID) {
			usage.UsedInMeasures = append(usage.UsedInMeasures, v.measures[msrID])
		}
	}
	seenIDs = seen{}
	for _, obsID := range measure.InputObservationIDs {
		if obs, ok := v.observations[obsID]; ok && seenIDs.add(obsID) {
			usage.DependsOnObservations = append(usage.DependsOnObservations, obs)
		}
	}
	seenIDs = seen{}
	for _, msrID := range measure.InputMeasureIDs {
		if m, ok := v.measures[msrID]; ok && seenIDs.add(msrID) {
			usage.DependsOnMeasures = append(usage.DependsOnMeasures, m)
		}
	}

	return usage, nil
}

// PerspectiveView slices the whole catalog down to one stakeholder lens:
// the metrics and measures tagged with the perspective, the observations
// and entities behind those measures, and every process step assigned to
// the perspective across all processes.
func (e *Engine) PerspectiveView(ctx context.Context, perspectiveID string) (*PerspectiveView, error) {
	v, err := newView(ctx, e.src)
	if err != nil {
		return nil, err
	}
	persp, ok := v.perspectives[perspectiveID]
	if !ok {
		return nil, fmt.Errorf("perspective %s: %w", perspectiveID, ErrNotFound)
	}

	res := &PerspectiveView{
		Perspective:  persp,
		Metrics:      []model.Metric{},
		Measures:     []model.Measure{},
		Observations: []model.Observation{},
		Entities:     []model.Entity{},
		ProcessSteps: []PerspectiveStep{},
	}

	for _, m := range v.metricList {
		if containsID(m.PerspectiveIDs, perspectiveID) {
			res.Metrics = append(res.Metrics, m)
		}
	}

	seenObs := seen{}
	for _, m := range v.measureList {
		if !containsID(m.PerspectiveIDs, perspectiveID) {
			continue
		}
		res.Measures = append(res.Measures, m)
		for _, obsID := range m.InputObservationIDs {
			if obs, ok := v.observations[obsID]; ok && seenObs.add(obsID) {
				res.Observations = append(res.Observations, obs)
			}
		}
	}

	seenEntities := seen{}
	for _, obs := range res.Observations {
		if ent, ok := v.entities[obs.EntityID]; ok && seenEntities.add(ent.ID) {
			res.Entities = append(res.Entities, ent)
		}
	}

	for _, p := range v.processList {
		for _, s := range p.Steps {
			if s.PerspectiveID == perspectiveID {
				res.ProcessSteps = append(res.ProcessSteps, PerspectiveStep{
					ProcessStep: s,
					ProcessID:   p.ID,
					ProcessName: p.Name,
				})
			}
		}
	}

	return res, nil
}

// EntityDetail returns an entity with its observations and the systems
// those observations are captured in.
func (e *Engine) EntityDetail(ctx context.Context, entityID string) (*EntityDetail, error) {
	v, err := newView(ctx, e.src)
	if err != nil {
		return nil, err
	}
	ent, ok := v.entities[entityID]
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", entityID, ErrNotFound)
	}

	res := &EntityDetail{
		Entity:       ent,
		Observations: []model.Observation{},
		Systems:      []model.System{},
	}

	seenSystems := seen{}
	for _, obsID := range v.reverseIndex(relObservationEntity)[entityID] {
		obs := v.observations[obsID]
		res.Observations = append(res.Observations, obs)
		if sys, ok := v.systems[obs.SystemID]; ok && seenSystems.add(sys.ID) {
			res.Systems = append(res.Systems, sys)
		}
	}

	return res, nil
}

// ProcessFlow renders one tier of a process as diagram nodes and
// dependency edges.
//
// Description:
//
//	Exactly one filter applies, in precedence order: parentStepID
//	selects a step's children; otherwise level selects top-level steps
//	of that perspective tier; otherwise all top-level steps are
//	included. Every declared dependency of an included step becomes an
//	edge, even when the dependency itself falls outside the filter, so
//	cross-tier links stay visible. Callers must tolerate edge endpoints
//	that have no matching node.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	processID - The process to render. Must exist.
//	level - Optional perspective tier filter. Ignored when parentStepID is set.
//	parentStepID - Optional parent step whose children to render.
//
// Outputs:
//
//	*ProcessFlow - Nodes in the process's step order, edges per declared
//	dependency.
//	error - ErrNotFound if the process does not exist.
func (e *Engine) ProcessFlow(ctx context.Context, processID string, level model.PerspectiveLevel, parentStepID string) (*ProcessFlow, error) {
	v, err := newView(ctx, e.src)
	if err != nil {
		return nil, err
	}
	proc, ok := v.processes[processID]
	if !ok {
		return nil, fmt.Errorf("process %s: %w", processID, ErrNotFound)
	}

	var steps []model.ProcessStep
	switch {
	case parentStepID != "":
		for _, s := range proc.Steps {
			if s.ParentStepID == parentStepID {
				steps = append(steps, s)
			}
		}
	case level != "":
		for _, s := range proc.Steps {
			if s.ParentStepID == "" && s.Level() == level {
				steps = append(steps, s)
			}
		}
	default:
		for _, s := range proc.Steps {
			if s.ParentStepID == "" {
				steps = append(steps, s)
			}
		}
	}

	flow := &ProcessFlow{
		Process: ProcessSummary{ID: proc.ID, Name: proc.Name, Description: proc.Description},
		Nodes:   make([]FlowNode, 0, len(steps)),
		Edges:   []FlowEdge{},
	}

	for _, s := range steps {
		flow.Nodes = append(flow.Nodes, FlowNode{
			ID:               s.ID,
			Label:            s.Name,
			Sequence:         s.Sequence,
			PerspectiveID:    s.PerspectiveID,
			Actor:            s.Actor,
			HasSubSteps:      s.HasSubSteps,
			PerspectiveLevel: s.Level(),
		})
	}
	for _, s := range steps {
		for _, depID := range s.DependsOnStepIDs {
			flow.Edges = append(flow.Edges, FlowEdge{Source: depID, Target: s.ID})
		}
	}

	return flow, nil
}

// CrystallizationPoints lists the steps of a process that turn transient
// data into durable records, in step order.
func (e *Engine) CrystallizationPoints(ctx context.Context, processID string) (*CrystallizationReport, error) {
	v, err := newView(ctx, e.src)
	if err != nil {
		return nil, err
	}
	proc, ok := v.processes[processID]
	if !ok {
		return nil, fmt.Errorf("process %s: %w", processID, ErrNotFound)
	}

	report := &CrystallizationReport{
		ProcessID:             proc.ID,
		ProcessName:           proc.Name,
		CrystallizationPoints: []CrystallizationPoint{},
	}

	for _, s := range proc.Steps {
		if len(s.CrystallizesIDs) == 0 {
			continue
		}
		point := CrystallizationPoint{
			StepID:                   s.ID,
			StepName:                 s.Name,
			StepSequence:             s.Sequence,
			CrystallizedObservations: []model.Observation{},
		}
		seenObs := seen{}
		for _, obsID := range s.CrystallizesIDs {
			if obs, ok := v.observations[obsID]; ok && seenObs.add(obsID) {
				point.CrystallizedObservations = append(point.CrystallizedObservations, obs)
			}
		}
		report.CrystallizationPoints = append(report.CrystallizationPoints, point)
	}

	return report, nil
}

// StepLineage assembles the full data neighborhood of one process step:
// the observations it touches, the measures those observations feed, the
// metrics behind those measures, the systems the step uses, and its
// waste profile.
func (e *Engine) StepLineage(ctx context.Context, stepID string) (*StepLineage, error) {
	v, err := newView(ctx, e.src)
	if err != nil {
		return nil, err
	}
	ref, ok := v.steps[stepID]
	if !ok {
		return nil, fmt.Errorf("process step %s: %w", stepID, ErrNotFound)
	}
	step := ref.step

	res := &StepLineage{
		Step: step,
		Process: ProcessSummary{
			ID:          ref.process.ID,
			Name:        ref.process.Name,
			Description: ref.process.Description,
		},
		ConsumesObservations:     resolveObservations(v, step.ConsumesObservationIDs),
		ProducesObservations:     resolveObservations(v, step.ProducesObservationIDs),
		CrystallizesObservations: resolveObservations(v, step.CrystallizesIDs),
		ObservationsFeedMeasures: []model.Measure{},
		MeasuresCalculateMetrics: []model.Metric{},
		SystemsUsed:              []model.System{},
		WasteAnalysis:            analyzeWaste(step),
	}

	// Downstream lineage starts from what the step emits: produced and
	// crystallized observations, in that order.
	seenObs := seen{}
	var emittedObs []string
	for _, obsID := range step.ProducesObservationIDs {
		if seenObs.add(obsID) {
			emittedObs = append(emittedObs, obsID)
		}
	}
	for _, obsID := range step.CrystallizesIDs {
		if seenObs.add(obsID) {
			emittedObs = append(emittedObs, obsID)
		}
	}

	seenMeasures := seen{}
	var measureIDs []string
	for _, obsID := range emittedObs {
		for _, msrID := range v.reverseIndex(relMeasureObservations)[obsID] {
			if seenMeasures.add(msrID) {
				measureIDs = append(measureIDs, msrID)
				res.ObservationsFeedMeasures = append(res.ObservationsFeedMeasures, v.measures[msrID])
			}
		}
	}

	seenMetrics := seen{}
	for _, msrID := range measureIDs {
		for _, metID := range v.reverseIndex(relMetricMeasures)[msrID] {
			if seenMetrics.add(metID) {
				res.MeasuresCalculateMetrics = append(res.MeasuresCalculateMetrics, v.metrics[metID])
			}
		}
	}

	seenSystems := seen{}
	for _, sysID := range step.SystemsUsedIDs {
		if sys, ok := v.systems[sysID]; ok && seenSystems.add(sysID) {
			res.SystemsUsed = append(res.SystemsUsed, sys)
		}
	}

	return res, nil
}

func resolveObservations(v *view, ids []string) []model.Observation {
	out := make([]model.Observation, 0, len(ids))
	seenObs := seen{}
	for _, id := range ids {
		if obs, ok := v.observations[id]; ok && seenObs.add(id) {
			out = append(out, obs)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
