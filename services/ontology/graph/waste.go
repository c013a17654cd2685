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

// analyzeWaste computes the waste profile of a step, or nil when the
// step has no estimated duration to reason about.
//
// A step counts as wasteful when its automation potential is High or
// Medium. Potential savings are the manual share of the duration,
// rounded down to whole minutes, and only reported when the step
// declares a manual effort percentage.
func analyzeWaste(step model.ProcessStep) *WasteAnalysis {
	if step.EstimatedDurationMinutes == nil {
		return nil
	}
	duration := *step.EstimatedDurationMinutes

	wa := &WasteAnalysis{
		TaskDurationMinutes:    duration,
		AutomationPotential:    step.AutomationPotential,
		WasteCategory:          step.WasteCategory,
		ManualEffortPercentage: step.ManualEffortPercentage,
		IsWasteful: step.AutomationPotential == model.AutomationHigh ||
			step.AutomationPotential == model.AutomationMedium,
	}
	if step.ManualEffortPercentage != nil {
		savings := duration * *step.ManualEffortPercentage / 100
		wa.PotentialTimeSavingsMinutes = &savings
	}
	return wa
}
