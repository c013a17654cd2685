// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ontology

import "errors"

// Sentinel errors for the ontology service.
var (
	// ErrAlreadyExists indicates a create collided with an existing record ID.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrScenarioNotFound indicates the requested scenario is not registered.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrStepNotFound indicates the process exists but has no such step.
	ErrStepNotFound = errors.New("process step not found")

	// ErrValidation indicates a record failed schema validation.
	ErrValidation = errors.New("record validation failed")
)
