// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"

	"github.com/lumenforge/ontolens/services/ontology/model"
)

// Catalog is the typed read facade over a Store. It satisfies the
// graph engine's Source interface, so a Catalog is what turns persisted
// records into traversable lineage.
type Catalog struct {
	s Store
}

// NewCatalog wraps a store in a typed reader.
func NewCatalog(s Store) *Catalog {
	return &Catalog{s: s}
}

// Perspectives lists all perspectives, sorted by ID.
func (c *Catalog) Perspectives(ctx context.Context) ([]model.Perspective, error) {
	return ListAs[model.Perspective](ctx, c.s, KindPerspective)
}

// Systems lists all systems, sorted by ID.
func (c *Catalog) Systems(ctx context.Context) ([]model.System, error) {
	return ListAs[model.System](ctx, c.s, KindSystem)
}

// Entities lists all entities, sorted by ID.
func (c *Catalog) Entities(ctx context.Context) ([]model.Entity, error) {
	return ListAs[model.Entity](ctx, c.s, KindEntity)
}

// Observations lists all observations, sorted by ID.
func (c *Catalog) Observations(ctx context.Context) ([]model.Observation, error) {
	return ListAs[model.Observation](ctx, c.s, KindObservation)
}

// Measures lists all measures, sorted by ID.
func (c *Catalog) Measures(ctx context.Context) ([]model.Measure, error) {
	return ListAs[model.Measure](ctx, c.s, KindMeasure)
}

// Metrics lists all metrics, sorted by ID.
func (c *Catalog) Metrics(ctx context.Context) ([]model.Metric, error) {
	return ListAs[model.Metric](ctx, c.s, KindMetric)
}

// Processes lists all processes, sorted by ID.
func (c *Catalog) Processes(ctx context.Context) ([]model.Process, error) {
	return ListAs[model.Process](ctx, c.s, KindProcess)
}

// SemanticMappings lists all semantic mappings, sorted by ID.
func (c *Catalog) SemanticMappings(ctx context.Context) ([]model.SemanticMapping, error) {
	return ListAs[model.SemanticMapping](ctx, c.s, KindSemanticMapping)
}
