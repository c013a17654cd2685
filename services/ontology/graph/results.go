// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"github.com/lumenforge/ontolens/services/ontology/model"
)

// Result types for the lineage queries. List fields are always non-nil
// so callers and wire encodings see empty arrays, never null.

// MetricTrace is the forward lineage of a metric down to the systems and
// entities its numbers ultimately come from.
type MetricTrace struct {
	Metric       model.Metric        `json:"metric"`
	Measures     []model.Measure     `json:"measures"`
	Observations []model.Observation `json:"observations"`
	Systems      []model.System      `json:"systems"`
	Entities     []model.Entity      `json:"entities"`
}

// ImpactAnalysis is the reverse lineage of an observation: the measures
// that read it and the metrics calculated from those measures.
//
// Impact is deliberately one calculation hop deep. A forward trace
// expands measure-to-measure chains; impact does not, so the result
// names the measures directly exposed to a change rather than every
// transitive consumer.
type ImpactAnalysis struct {
	Observation      model.Observation `json:"observation"`
	AffectedMeasures []model.Measure   `json:"affected_measures"`
	AffectedMetrics  []model.Metric    `json:"affected_metrics"`
}

// MeasureUsage shows both directions around a single measure: what uses
// it and what it depends on. Every hop is exactly one edge.
type MeasureUsage struct {
	Measure               model.Measure       `json:"measure"`
	UsedInMetrics         []model.Metric      `json:"used_in_metrics"`
	UsedInMeasures        []model.Measure     `json:"used_in_measures"`
	DependsOnObservations []model.Observation `json:"depends_on_observations"`
	DependsOnMeasures     []model.Measure     `json:"depends_on_measures"`
}

// PerspectiveStep is a process step annotated with its owning process,
// for perspective views that cut across processes.
type PerspectiveStep struct {
	model.ProcessStep
	ProcessID   string `json:"process_id"`
	ProcessName string `json:"process_name"`
}

// PerspectiveView is everything visible through one stakeholder lens.
type PerspectiveView struct {
	Perspective  model.Perspective   `json:"perspective"`
	Metrics      []model.Metric      `json:"metrics"`
	Measures     []model.Measure     `json:"measures"`
	Observations []model.Observation `json:"observations"`
	Entities     []model.Entity      `json:"entities"`
	ProcessSteps []PerspectiveStep   `json:"process_steps"`
}

// EntityDetail is an entity with its observations and the systems those
// observations live in.
type EntityDetail struct {
	Entity       model.Entity        `json:"entity"`
	Observations []model.Observation `json:"observations"`
	Systems      []model.System      `json:"systems"`
}

// ProcessSummary identifies a process without dragging its steps along.
type ProcessSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FlowNode is one step rendered for a process flow diagram.
type FlowNode struct {
	ID               string                 `json:"id"`
	Label            string                 `json:"label"`
	Sequence         int                    `json:"sequence"`
	PerspectiveID    string                 `json:"perspective_id,omitempty"`
	Actor            string                 `json:"actor,omitempty"`
	HasSubSteps      bool                   `json:"has_sub_steps"`
	PerspectiveLevel model.PerspectiveLevel `json:"perspective_level"`
}

// FlowEdge is a dependency between two steps in a flow diagram. Source
// must be completed before Target can run.
type FlowEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ProcessFlow is a process rendered as nodes and dependency edges,
// filtered to one tier of the step hierarchy.
type ProcessFlow struct {
	Process ProcessSummary `json:"process"`
	Nodes   []FlowNode     `json:"nodes"`
	Edges   []FlowEdge     `json:"edges"`
}

// CrystallizationPoint is a step that turns transient data into durable
// records, with the observations it crystallizes.
type CrystallizationPoint struct {
	StepID                   string              `json:"step_id"`
	StepName                 string              `json:"step_name"`
	StepSequence             int                 `json:"step_sequence"`
	CrystallizedObservations []model.Observation `json:"crystallized_observations"`
}

// CrystallizationReport lists a process's crystallization points in step
// order.
type CrystallizationReport struct {
	ProcessID             string                 `json:"process_id"`
	ProcessName           string                 `json:"process_name"`
	CrystallizationPoints []CrystallizationPoint `json:"crystallization_points"`
}

// WasteAnalysis quantifies the manual waste in a step. Present only when
// the step declares an estimated duration.
type WasteAnalysis struct {
	TaskDurationMinutes         int                       `json:"task_duration_minutes"`
	AutomationPotential         model.AutomationPotential `json:"automation_potential,omitempty"`
	WasteCategory               string                    `json:"waste_category,omitempty"`
	ManualEffortPercentage      *int                      `json:"manual_effort_percentage,omitempty"`
	IsWasteful                  bool                      `json:"is_wasteful"`
	PotentialTimeSavingsMinutes *int                      `json:"potential_time_savings_minutes,omitempty"`
}

// StepLineage is the full data neighborhood of one process step.
type StepLineage struct {
	Step                     model.ProcessStep   `json:"step"`
	Process                  ProcessSummary      `json:"process"`
	ConsumesObservations     []model.Observation `json:"consumes_observations"`
	ProducesObservations     []model.Observation `json:"produces_observations"`
	CrystallizesObservations []model.Observation `json:"crystallizes_observations"`
	ObservationsFeedMeasures []model.Measure     `json:"observations_feed_measures"`
	MeasuresCalculateMetrics []model.Metric      `json:"measures_calculate_metrics"`
	SystemsUsed              []model.System      `json:"systems_used"`
	WasteAnalysis            *WasteAnalysis      `json:"waste_analysis,omitempty"`
}
