// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package model

import (
	"errors"
	"fmt"
)

// Patch validation errors.
var (
	// ErrEmptyPatch is returned when a patch sets no fields at all.
	ErrEmptyPatch = errors.New("patch sets no fields")

	// ErrInvalidPatch is returned when a patch carries a value outside
	// its allowed range or enumeration.
	ErrInvalidPatch = errors.New("invalid patch value")
)

// StepPatch is a partial update to a ProcessStep. Nil fields are left
// untouched; slice fields replace the step's slice wholesale. The ID and
// parent linkage of an existing step are not patchable; moving a step is
// a delete-and-recreate operation.
type StepPatch struct {
	Name                     *string              `json:"name,omitempty"`
	Description              *string              `json:"description,omitempty"`
	Sequence                 *int                 `json:"sequence,omitempty"`
	PerspectiveID            *string              `json:"perspective_id,omitempty"`
	Actor                    *string              `json:"actor,omitempty"`
	ConsumesObservationIDs   *[]string            `json:"consumes_observation_ids,omitempty"`
	ProducesObservationIDs   *[]string            `json:"produces_observation_ids,omitempty"`
	UsesMetricIDs            *[]string            `json:"uses_metric_ids,omitempty"`
	CrystallizesIDs          *[]string            `json:"crystallizes_observation_ids,omitempty"`
	DependsOnStepIDs         *[]string            `json:"depends_on_step_ids,omitempty"`
	PerspectiveLevel         *PerspectiveLevel    `json:"perspective_level,omitempty"`
	EstimatedDurationMinutes *int                 `json:"estimated_duration_minutes,omitempty"`
	AutomationPotential      *AutomationPotential `json:"automation_potential,omitempty"`
	SystemsUsedIDs           *[]string            `json:"systems_used_ids,omitempty"`
	WasteCategory            *string              `json:"waste_category,omitempty"`
	ManualEffortPercentage   *int                 `json:"manual_effort_percentage,omitempty"`
}

// IsZero reports whether the patch sets no fields.
func (p StepPatch) IsZero() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Sequence == nil &&
		p.PerspectiveID == nil &&
		p.Actor == nil &&
		p.ConsumesObservationIDs == nil &&
		p.ProducesObservationIDs == nil &&
		p.UsesMetricIDs == nil &&
		p.CrystallizesIDs == nil &&
		p.DependsOnStepIDs == nil &&
		p.PerspectiveLevel == nil &&
		p.EstimatedDurationMinutes == nil &&
		p.AutomationPotential == nil &&
		p.SystemsUsedIDs == nil &&
		p.WasteCategory == nil &&
		p.ManualEffortPercentage == nil
}

// Validate checks the patch's values before any merge happens. An invalid
// patch must never partially mutate a step.
func (p StepPatch) Validate() error {
	if p.IsZero() {
		return ErrEmptyPatch
	}
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("%w: name cannot be blank", ErrInvalidPatch)
	}
	if p.Sequence != nil && *p.Sequence < 0 {
		return fmt.Errorf("%w: sequence %d is negative", ErrInvalidPatch, *p.Sequence)
	}
	if p.EstimatedDurationMinutes != nil && *p.EstimatedDurationMinutes < 0 {
		return fmt.Errorf("%w: estimated_duration_minutes %d is negative", ErrInvalidPatch, *p.EstimatedDurationMinutes)
	}
	if p.ManualEffortPercentage != nil {
		if pct := *p.ManualEffortPercentage; pct < 0 || pct > 100 {
			return fmt.Errorf("%w: manual_effort_percentage %d is outside [0,100]", ErrInvalidPatch, pct)
		}
	}
	if p.PerspectiveLevel != nil {
		switch *p.PerspectiveLevel {
		case LevelFinancial, LevelManagement, LevelOperational:
		default:
			return fmt.Errorf("%w: unknown perspective_level %q", ErrInvalidPatch, *p.PerspectiveLevel)
		}
	}
	if p.AutomationPotential != nil {
		switch *p.AutomationPotential {
		case AutomationHigh, AutomationMedium, AutomationLow, AutomationNone:
		default:
			return fmt.Errorf("%w: unknown automation_potential %q", ErrInvalidPatch, *p.AutomationPotential)
		}
	}
	return nil
}

// Apply merges the patch into a copy of the step and returns the result.
// Callers must Validate first; Apply performs no checking of its own.
func (p StepPatch) Apply(step ProcessStep) ProcessStep {
	out := step
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Sequence != nil {
		out.Sequence = *p.Sequence
	}
	if p.PerspectiveID != nil {
		out.PerspectiveID = *p.PerspectiveID
	}
	if p.Actor != nil {
		out.Actor = *p.Actor
	}
	if p.ConsumesObservationIDs != nil {
		out.ConsumesObservationIDs = append([]string(nil), *p.ConsumesObservationIDs...)
	}
	if p.ProducesObservationIDs != nil {
		out.ProducesObservationIDs = append([]string(nil), *p.ProducesObservationIDs...)
	}
	if p.UsesMetricIDs != nil {
		out.UsesMetricIDs = append([]string(nil), *p.UsesMetricIDs...)
	}
	if p.CrystallizesIDs != nil {
		out.CrystallizesIDs = append([]string(nil), *p.CrystallizesIDs...)
	}
	if p.DependsOnStepIDs != nil {
		out.DependsOnStepIDs = append([]string(nil), *p.DependsOnStepIDs...)
	}
	if p.PerspectiveLevel != nil {
		out.PerspectiveLevel = *p.PerspectiveLevel
	}
	if p.EstimatedDurationMinutes != nil {
		v := *p.EstimatedDurationMinutes
		out.EstimatedDurationMinutes = &v
	}
	if p.AutomationPotential != nil {
		out.AutomationPotential = *p.AutomationPotential
	}
	if p.SystemsUsedIDs != nil {
		out.SystemsUsedIDs = append([]string(nil), *p.SystemsUsedIDs...)
	}
	if p.WasteCategory != nil {
		out.WasteCategory = *p.WasteCategory
	}
	if p.ManualEffortPercentage != nil {
		v := *p.ManualEffortPercentage
		out.ManualEffortPercentage = &v
	}
	return out
}
