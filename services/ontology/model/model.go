// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package model defines the ontology record types that the lineage graph
// is built from: perspectives, systems, entities, observations, measures,
// metrics, processes, and semantic mappings.
//
// Records reference each other only by ID. Resolution of those references
// into an in-memory graph happens in services/ontology/graph; the model
// layer stays a plain, JSON-serializable vocabulary.
package model

// Perspective is a stakeholder lens on the business, such as the financial,
// management, or operational view. Metrics and measures declare which
// perspectives they matter to, and perspectives declare which other
// perspectives they exchange data with.
type Perspective struct {
	ID             string   `json:"id" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description,omitempty"`
	Purpose        string   `json:"purpose,omitempty"`
	PrimaryConcern string   `json:"primary_concern,omitempty"`
	TypicalActors  []string `json:"typical_actors,omitempty"`
	ConsumesFrom   []string `json:"consumes_from,omitempty"`
	Feeds          []string `json:"feeds,omitempty"`
}

// RecordID returns the perspective's unique identifier.
func (p Perspective) RecordID() string { return p.ID }

// System is a concrete place where observations live: an ERP, an MES, a
// spreadsheet, or a person's head.
type System struct {
	ID                string            `json:"id" validate:"required"`
	Name              string            `json:"name" validate:"required"`
	Type              SystemType        `json:"type" validate:"required,oneof=ERP MES WMS CMMS QMS Spreadsheet Manual BI Other"`
	Description       string            `json:"description,omitempty"`
	Vendor            string            `json:"vendor,omitempty"`
	Reliability       ReliabilityLevel  `json:"reliability_default,omitempty" validate:"omitempty,oneof=High Medium Low"`
	IntegrationStatus IntegrationStatus `json:"integration_status,omitempty" validate:"omitempty,oneof=Connected Planned 'Manual Extract' None"`
	Notes             string            `json:"notes,omitempty"`
}

// RecordID returns the system's unique identifier.
func (s System) RecordID() string { return s.ID }

// CoreAttribute is an entity attribute that means the same thing in every
// perspective.
type CoreAttribute struct {
	Name        string `json:"name" validate:"required"`
	DataType    string `json:"data_type,omitempty" validate:"omitempty,oneof=string number date datetime boolean"`
	Description string `json:"description,omitempty"`
}

// DerivedAttribute is an attribute that only exists inside one
// perspective's reading of an entity, possibly calculated from others.
type DerivedAttribute struct {
	Name        string `json:"name" validate:"required"`
	DataType    string `json:"data_type,omitempty"`
	Description string `json:"description,omitempty"`
	Derivation  string `json:"derivation,omitempty"`
}

// EntityLens is one perspective's interpretation of an entity: what the
// thing means there, plus the attributes that only make sense there.
type EntityLens struct {
	PerspectiveID     string             `json:"perspective_id" validate:"required"`
	Interpretation    string             `json:"interpretation,omitempty"`
	DerivedAttributes []DerivedAttribute `json:"derived_attributes,omitempty" validate:"omitempty,dive"`
}

// Entity is a business thing the ontology tracks: a work order, a material,
// a customer. Observations attach to exactly one entity; lenses give each
// perspective its own reading of the same object.
type Entity struct {
	ID             string          `json:"id" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description,omitempty"`
	Synonyms       []string        `json:"synonyms,omitempty"`
	Domain         string          `json:"domain,omitempty"`
	CoreAttributes []CoreAttribute `json:"core_attributes,omitempty" validate:"omitempty,dive"`
	Lenses         []EntityLens    `json:"lenses,omitempty" validate:"omitempty,dive"`
}

// RecordID returns the entity's unique identifier.
func (e Entity) RecordID() string { return e.ID }

// Observation is a raw captured fact about an entity, recorded in a
// system. Observations are the leaves of every lineage trace.
type Observation struct {
	ID          string           `json:"id" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description,omitempty"`
	EntityID    string           `json:"entity_id" validate:"required"`
	SystemID    string           `json:"system_id" validate:"required"`
	FieldName   string           `json:"field_name,omitempty"`
	DataType    string           `json:"data_type,omitempty"`
	SourceActor string           `json:"source_actor,omitempty"`
	Volatility  Volatility       `json:"volatility,omitempty" validate:"omitempty,oneof=Point-in-time Accumulating Continuous"`
	Reliability ReliabilityLevel `json:"reliability,omitempty" validate:"omitempty,oneof=High Medium Low"`
	Notes       string           `json:"notes,omitempty"`
}

// RecordID returns the observation's unique identifier.
func (o Observation) RecordID() string { return o.ID }

// Measure is a computation over observations and, possibly, other
// measures. The optional measure-to-measure inputs form calculation
// chains that forward traces walk one level deep.
type Measure struct {
	ID                  string   `json:"id" validate:"required"`
	Name                string   `json:"name" validate:"required"`
	Description         string   `json:"description,omitempty"`
	Logic               string   `json:"logic,omitempty"`
	Formula             string   `json:"formula,omitempty"`
	InputObservationIDs []string `json:"input_observation_ids,omitempty"`
	InputMeasureIDs     []string `json:"input_measure_ids,omitempty"`
	Unit                string   `json:"unit,omitempty"`
	PerspectiveIDs      []string `json:"perspective_ids,omitempty"`
	Owner               string   `json:"owner,omitempty"`
}

// RecordID returns the measure's unique identifier.
func (m Measure) RecordID() string { return m.ID }

// Metric is a business-facing indicator calculated from one or more
// measures. Metrics are the usual entry points for forward traces.
type Metric struct {
	ID                     string   `json:"id" validate:"required"`
	Name                   string   `json:"name" validate:"required"`
	Description            string   `json:"description,omitempty"`
	BusinessQuestion       string   `json:"business_question,omitempty"`
	CalculatedByMeasureIDs []string `json:"calculated_by_measure_ids,omitempty"`
	PerspectiveIDs         []string `json:"perspective_ids,omitempty"`
	Target                 string   `json:"target,omitempty"`
	Frequency              string   `json:"frequency,omitempty"`
	Owner                  string   `json:"owner,omitempty"`
}

// RecordID returns the metric's unique identifier.
func (m Metric) RecordID() string { return m.ID }

// ProcessStep is one step inside a process. Steps consume and produce
// observations, use metrics, crystallize observations into durable
// records, and may nest beneath a parent step.
type ProcessStep struct {
	ID                       string              `json:"id" validate:"required"`
	Name                     string              `json:"name" validate:"required"`
	Description              string              `json:"description,omitempty"`
	Sequence                 int                 `json:"sequence"`
	PerspectiveID            string              `json:"perspective_id,omitempty"`
	Actor                    string              `json:"actor,omitempty"`
	ConsumesObservationIDs   []string            `json:"consumes_observation_ids,omitempty"`
	ProducesObservationIDs   []string            `json:"produces_observation_ids,omitempty"`
	UsesMetricIDs            []string            `json:"uses_metric_ids,omitempty"`
	CrystallizesIDs          []string            `json:"crystallizes_observation_ids,omitempty"`
	DependsOnStepIDs         []string            `json:"depends_on_step_ids,omitempty"`
	ParentStepID             string              `json:"parent_step_id,omitempty"`
	HasSubSteps              bool                `json:"has_sub_steps"`
	PerspectiveLevel         PerspectiveLevel    `json:"perspective_level,omitempty" validate:"omitempty,oneof=financial management operational"`
	EstimatedDurationMinutes *int                `json:"estimated_duration_minutes,omitempty"`
	AutomationPotential      AutomationPotential `json:"automation_potential,omitempty" validate:"omitempty,oneof=High Medium Low None"`
	SystemsUsedIDs           []string            `json:"systems_used_ids,omitempty"`
	WasteCategory            string              `json:"waste_category,omitempty"`
	ManualEffortPercentage   *int                `json:"manual_effort_percentage,omitempty"`
}

// Level returns the step's perspective level, defaulting to the financial
// tier when the step does not declare one.
func (s ProcessStep) Level() PerspectiveLevel {
	if s.PerspectiveLevel == "" {
		return LevelFinancial
	}
	return s.PerspectiveLevel
}

// Process is an ordered collection of steps describing how work flows
// through the business.
type Process struct {
	ID          string        `json:"id" validate:"required"`
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description,omitempty"`
	Domain      string        `json:"domain,omitempty"`
	Steps       []ProcessStep `json:"steps,omitempty" validate:"omitempty,dive"`
}

// RecordID returns the process's unique identifier.
func (p Process) RecordID() string { return p.ID }

// StepByID returns the step with the given ID, searching top-level and
// nested steps alike.
func (p Process) StepByID(stepID string) (ProcessStep, bool) {
	for _, s := range p.Steps {
		if s.ID == stepID {
			return s, true
		}
	}
	return ProcessStep{}, false
}

// SemanticMapping links an ontology element to an object in a downstream
// semantic model, tracking rollout coverage and gaps.
type SemanticMapping struct {
	ID             string        `json:"id" validate:"required"`
	OntologyType   OntologyType  `json:"ontology_type" validate:"required,oneof=entity observation measure"`
	OntologyID     string        `json:"ontology_id" validate:"required"`
	SemanticModel  string        `json:"semantic_model,omitempty"`
	SemanticObject string        `json:"semantic_object,omitempty"`
	SemanticType   SemanticType  `json:"semantic_type,omitempty" validate:"omitempty,oneof=table column measure"`
	Status         MappingStatus `json:"status,omitempty" validate:"omitempty,oneof=mapped partial gap"`
	Notes          string        `json:"notes,omitempty"`
}

// RecordID returns the mapping's unique identifier.
func (m SemanticMapping) RecordID() string { return m.ID }
