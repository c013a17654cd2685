// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package graph answers lineage questions over the ontology: where a
// metric's numbers come from, what breaks when an observation changes,
// how work flows through a process, and where data crystallizes.
//
// The engine never persists anything. Each query builds a read-only view
// of the catalog, walks ID references hop by hop, and returns fully
// resolved records. Dangling references are skipped silently; only a
// missing query root is an error.
package graph

import (
	"context"
	"errors"

	"github.com/lumenforge/ontolens/services/ontology/model"
)

// ErrNotFound is returned when the record a query starts from does not
// exist. Dangling references encountered mid-traversal never produce
// this error; they are omitted from results instead.
var ErrNotFound = errors.New("graph: record not found")

// Source provides the record collections a view is built from. The
// store's Catalog satisfies it; tests use an in-memory fixture.
//
// Implementations must return each collection in a stable order, because
// scan-based queries inherit that order.
type Source interface {
	Perspectives(ctx context.Context) ([]model.Perspective, error)
	Systems(ctx context.Context) ([]model.System, error)
	Entities(ctx context.Context) ([]model.Entity, error)
	Observations(ctx context.Context) ([]model.Observation, error)
	Measures(ctx context.Context) ([]model.Measure, error)
	Metrics(ctx context.Context) ([]model.Metric, error)
	Processes(ctx context.Context) ([]model.Process, error)
}

// Engine executes lineage queries against a Source.
//
// Thread Safety: Engine is stateless; all methods are safe for
// concurrent use.
type Engine struct {
	src Source
}

// NewEngine creates a query engine over the given source.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}
