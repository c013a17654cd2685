// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store persists ontology records as JSON documents keyed by
// (kind, id). Two backends implement the Store interface: an in-memory
// map for tests and scenario sandboxes, and Badger for durable catalogs.
//
// The interface deals in raw bytes so backends stay oblivious to the
// record vocabulary; the generic helpers (GetAs, ListAs, PutRecord) and
// the Catalog facade layer the typed view on top.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind names a record collection. Kinds are stable wire identifiers and
// double as key prefixes in the Badger backend, so they must never be
// renamed once data exists.
type Kind string

// Record collections.
const (
	KindPerspective     Kind = "perspectives"
	KindSystem          Kind = "systems"
	KindEntity          Kind = "entities"
	KindObservation     Kind = "observations"
	KindMeasure         Kind = "measures"
	KindMetric          Kind = "metrics"
	KindProcess         Kind = "processes"
	KindSemanticMapping Kind = "semantic_mappings"
)

// Kinds returns all record collections in load order. Referenced kinds
// come before referencing ones so a sequential load never sees a record
// whose targets cannot exist yet.
func Kinds() []Kind {
	return []Kind{
		KindPerspective,
		KindSystem,
		KindEntity,
		KindObservation,
		KindMeasure,
		KindMetric,
		KindProcess,
		KindSemanticMapping,
	}
}

// Store errors.
var (
	// ErrNotFound is returned when no record exists for a (kind, id) pair.
	ErrNotFound = errors.New("record not found")

	// ErrClosed is returned when a store is used after Close.
	ErrClosed = errors.New("store is closed")
)

// Record is implemented by every model type the store can persist.
type Record interface {
	RecordID() string
}

// Store is a keyed document store for ontology records.
//
// # Description
// Get, Put, and Delete address a single record by (kind, id). List
// returns every record of a kind ordered by ID so that scans are
// deterministic across backends. Clear drops a whole kind, which is how
// scenario loads replace a dataset atomically enough for this domain.
//
// # Thread Safety
// All implementations are safe for concurrent use.
type Store interface {
	// Get returns the raw JSON document for id, or ErrNotFound.
	Get(ctx context.Context, kind Kind, id string) ([]byte, error)

	// List returns all documents of a kind, sorted by ID.
	List(ctx context.Context, kind Kind) ([][]byte, error)

	// Put writes a document, replacing any existing one for id.
	Put(ctx context.Context, kind Kind, id string, data []byte) error

	// Delete removes the document for id, or returns ErrNotFound.
	Delete(ctx context.Context, kind Kind, id string) error

	// Clear removes every document of a kind.
	Clear(ctx context.Context, kind Kind) error

	// Close releases backend resources. The store is unusable afterwards.
	Close() error
}

// GetAs fetches and unmarshals a single record.
func GetAs[T any](ctx context.Context, s Store, kind Kind, id string) (T, error) {
	var out T
	data, err := s.Get(ctx, kind, id)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode %s/%s: %w", kind, id, err)
	}
	return out, nil
}

// ListAs fetches and unmarshals every record of a kind, preserving the
// store's ID order.
func ListAs[T any](ctx context.Context, s Store, kind Kind) ([]T, error) {
	docs, err := s.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, data := range docs {
		var rec T
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", kind, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// PutRecord marshals and writes a record under its own ID.
func PutRecord[T Record](ctx context.Context, s Store, kind Kind, rec T) error {
	id := rec.RecordID()
	if id == "" {
		return fmt.Errorf("put %s: record has no id", kind)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", kind, id, err)
	}
	return s.Put(ctx, kind, id, data)
}
