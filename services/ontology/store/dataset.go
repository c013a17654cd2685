// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/lumenforge/ontolens/services/ontology/model"
)

// ScenarioMeta describes a scenario dataset for listings. Optional; a
// dataset without it is still loadable.
type ScenarioMeta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Dataset is the on-disk shape of a scenario file: one JSON document
// holding every record collection. Absent collections load as empty.
type Dataset struct {
	Scenario         *ScenarioMeta           `json:"scenario,omitempty"`
	Perspectives     []model.Perspective     `json:"perspectives"`
	Systems          []model.System          `json:"systems"`
	Entities         []model.Entity          `json:"entities"`
	Observations     []model.Observation     `json:"observations"`
	Measures         []model.Measure         `json:"measures"`
	Metrics          []model.Metric          `json:"metrics"`
	Processes        []model.Process         `json:"processes"`
	SemanticMappings []model.SemanticMapping `json:"semantic_mappings"`
}

// ParseDataset decodes a scenario document. Unknown top-level fields are
// rejected so a misspelled collection name fails loudly instead of
// silently loading an empty catalog.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return &ds, nil
}

// Counts returns the number of records per kind, for logging and the
// scenario-activation response.
func (ds *Dataset) Counts() map[Kind]int {
	return map[Kind]int{
		KindPerspective:     len(ds.Perspectives),
		KindSystem:          len(ds.Systems),
		KindEntity:          len(ds.Entities),
		KindObservation:     len(ds.Observations),
		KindMeasure:         len(ds.Measures),
		KindMetric:          len(ds.Metrics),
		KindProcess:         len(ds.Processes),
		KindSemanticMapping: len(ds.SemanticMappings),
	}
}

// Load replaces the store's contents with the dataset's records. Every
// kind is cleared first, including kinds the dataset leaves empty, so a
// load never mixes records from two scenarios.
func (ds *Dataset) Load(ctx context.Context, s Store) error {
	for _, kind := range Kinds() {
		if err := s.Clear(ctx, kind); err != nil {
			return fmt.Errorf("clear %s: %w", kind, err)
		}
	}
	if err := putAll(ctx, s, KindPerspective, ds.Perspectives); err != nil {
		return err
	}
	if err := putAll(ctx, s, KindSystem, ds.Systems); err != nil {
		return err
	}
	if err := putAll(ctx, s, KindEntity, ds.Entities); err != nil {
		return err
	}
	if err := putAll(ctx, s, KindObservation, ds.Observations); err != nil {
		return err
	}
	if err := putAll(ctx, s, KindMeasure, ds.Measures); err != nil {
		return err
	}
	if err := putAll(ctx, s, KindMetric, ds.Metrics); err != nil {
		return err
	}
	if err := putAll(ctx, s, KindProcess, ds.Processes); err != nil {
		return err
	}
	return putAll(ctx, s, KindSemanticMapping, ds.SemanticMappings)
}

func putAll[T Record](ctx context.Context, s Store, kind Kind, recs []T) error {
	for _, rec := range recs {
		if err := PutRecord(ctx, s, kind, rec); err != nil {
			return err
		}
	}
	return nil
}
