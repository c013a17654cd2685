// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ontology is the service layer of the lineage engine: catalog
// CRUD, scenario dataset management, and the HTTP surface over the graph
// queries.
package ontology

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lumenforge/ontolens/services/ontology/graph"
	"github.com/lumenforge/ontolens/services/ontology/model"
	"github.com/lumenforge/ontolens/services/ontology/observability"
	"github.com/lumenforge/ontolens/services/ontology/store"
)

// The catalog facade must keep satisfying the graph engine's Source.
var _ graph.Source = (*store.Catalog)(nil)

// scenarioEntry pairs a scenario's listing info with the dataset file it
// loads from.
type scenarioEntry struct {
	info ScenarioInfo
	path string
}

// Service coordinates the catalog store, scenario datasets, and the
// lineage query engine.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Queries take a read lock for
// their full duration so a scenario activation can never expose a
// half-loaded catalog.
type Service struct {
	log      *slog.Logger
	validate *validator.Validate
	metrics  *observability.Metrics

	mu              sync.RWMutex
	store           store.Store
	scenarios       map[string]scenarioEntry
	scenarioOrder   []string
	currentScenario string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics wires Prometheus metrics. Nil metrics record nothing.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a service over the given store. The service does
// not own the store's contents; call LoadDatasetFile or ActivateScenario
// to populate it.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		log:       slog.Default(),
		validate:  validator.New(),
		store:     st,
		scenarios: make(map[string]scenarioEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the underlying store.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}

// ============================================================================
// Lineage queries
// ============================================================================

// runQuery executes a lineage query against a consistent catalog
// snapshot and records its metrics.
func runQuery[T any](s *Service, q observability.Query, fn func(*graph.Engine) (T, error)) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	res, err := fn(graph.NewEngine(store.NewCatalog(s.store)))
	s.metrics.RecordQuery(q, time.Since(start), err == nil)
	return res, err
}

// TraceMetric walks a metric's lineage forward to its source systems and
// entities.
func (s *Service) TraceMetric(ctx context.Context, metricID string) (*graph.MetricTrace, error) {
	return runQuery(s, observability.QueryTraceMetric, func(e *graph.Engine) (*graph.MetricTrace, error) {
		return e.TraceMetric(ctx, metricID)
	})
}

// AnalyzeImpact reports the measures and metrics directly exposed to a
// change in an observation.
func (s *Service) AnalyzeImpact(ctx context.Context, observationID string) (*graph.ImpactAnalysis, error) {
	return runQuery(s, observability.QueryImpact, func(e *graph.Engine) (*graph.ImpactAnalysis, error) {
		return e.AnalyzeImpact(ctx, observationID)
	})
}

// MeasureUsage reports what uses a measure and what it depends on.
func (s *Service) MeasureUsage(ctx context.Context, measureID string) (*graph.MeasureUsage, error) {
	return runQuery(s, observability.QueryMeasureUsage, func(e *graph.Engine) (*graph.MeasureUsage, error) {
		return e.MeasureUsage(ctx, measureID)
	})
}

// PerspectiveView slices the catalog down to one stakeholder lens.
func (s *Service) PerspectiveView(ctx context.Context, perspectiveID string) (*graph.PerspectiveView, error) {
	return runQuery(s, observability.QueryPerspective, func(e *graph.Engine) (*graph.PerspectiveView, error) {
		return e.PerspectiveView(ctx, perspectiveID)
	})
}

// EntityDetail returns an entity with its observations and systems.
func (s *Service) EntityDetail(ctx context.Context, entityID string) (*graph.EntityDetail, error) {
	return runQuery(s, observability.QueryEntityDetail, func(e *graph.Engine) (*graph.EntityDetail, error) {
		return e.EntityDetail(ctx, entityID)
	})
}

// ProcessFlow renders one tier of a process as nodes and edges.
func (s *Service) ProcessFlow(ctx context.Context, processID string, level model.PerspectiveLevel, parentStepID string) (*graph.ProcessFlow, error) {
	return runQuery(s, observability.QueryProcessFlow, func(e *graph.Engine) (*graph.ProcessFlow, error) {
		return e.ProcessFlow(ctx, processID, level, parentStepID)
	})
}

// CrystallizationPoints lists where a process turns transient data into
// durable records.
func (s *Service) CrystallizationPoints(ctx context.Context, processID string) (*graph.CrystallizationReport, error) {
	return runQuery(s, observability.QueryCrystallization, func(e *graph.Engine) (*graph.CrystallizationReport, error) {
		return e.CrystallizationPoints(ctx, processID)
	})
}

// StepLineage assembles the full data neighborhood of one process step.
func (s *Service) StepLineage(ctx context.Context, stepID string) (*graph.StepLineage, error) {
	return runQuery(s, observability.QueryStepLineage, func(e *graph.Engine) (*graph.StepLineage, error) {
		return e.StepLineage(ctx, stepID)
	})
}

// ============================================================================
// Catalog CRUD
// ============================================================================

func listRecords[T any](ctx context.Context, s *Service, kind store.Kind) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.ListAs[T](ctx, s.store, kind)
}

func getRecord[T any](ctx context.Context, s *Service, kind store.Kind, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.GetAs[T](ctx, s.store, kind, id)
}

func createRecord[T store.Record](ctx context.Context, s *Service, kind store.Kind, rec T) error {
	if err := s.validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.RecordID()
	_, err := s.store.Get(ctx, kind, id)
	if err == nil {
		return fmt.Errorf("%s %s: %w", kind, id, ErrAlreadyExists)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err := store.PutRecord(ctx, s.store, kind, rec); err != nil {
		return err
	}
	s.metrics.RecordWrite(string(kind), "create")
	return nil
}

func updateRecord[T store.Record](ctx context.Context, s *Service, kind store.Kind, rec T) error {
	if err := s.validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(ctx, kind, rec.RecordID()); err != nil {
		return err
	}
	if err := store.PutRecord(ctx, s.store, kind, rec); err != nil {
		return err
	}
	s.metrics.RecordWrite(string(kind), "update")
	return nil
}

func (s *Service) deleteRecord(ctx context.Context, kind store.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.metrics.RecordWrite(string(kind), "delete")
	return nil
}

// ============================================================================
// Process steps
// ============================================================================

// AddProcessStep appends a step to a process. A blank step ID is
// assigned a fresh UUID.
func (s *Service) AddProcessStep(ctx context.Context, processID string, step model.ProcessStep) (model.ProcessStep, error) {
	if step.ID == "" {
		step.ID = uuid.NewString()
	}
	if err := s.validate.Struct(step); err != nil {
		return model.ProcessStep{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proc, err := store.GetAs[model.Process](ctx, s.store, store.KindProcess, processID)
	if err != nil {
		return model.ProcessStep{}, err
	}
	if _, exists := proc.StepByID(step.ID); exists {
		return model.ProcessStep{}, fmt.Errorf("step %s: %w", step.ID, ErrAlreadyExists)
	}

	proc.Steps = append(proc.Steps, step)
	if err := store.PutRecord(ctx, s.store, store.KindProcess, proc); err != nil {
		return model.ProcessStep{}, err
	}
	s.metrics.RecordWrite(string(store.KindProcess), "update")
	s.log.Info("process step added", "process_id", processID, "step_id", step.ID)
	return step, nil
}

// PatchProcessStep applies a validated partial update to a step and
// returns the merged result. An invalid patch changes nothing.
func (s *Service) PatchProcessStep(ctx context.Context, processID, stepID string, patch model.StepPatch) (model.ProcessStep, error) {
	if err := patch.Validate(); err != nil {
		return model.ProcessStep{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proc, err := store.GetAs[model.Process](ctx, s.store, store.KindProcess, processID)
	if err != nil {
		return model.ProcessStep{}, err
	}

	idx := -1
	for i := range proc.Steps {
		if proc.Steps[i].ID == stepID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.ProcessStep{}, fmt.Errorf("step %s in process %s: %w", stepID, processID, ErrStepNotFound)
	}

	proc.Steps[idx] = patch.Apply(proc.Steps[idx])
	if err := store.PutRecord(ctx, s.store, store.KindProcess, proc); err != nil {
		return model.ProcessStep{}, err
	}
	s.metrics.RecordWrite(string(store.KindProcess), "update")
	s.log.Info("process step patched", "process_id", processID, "step_id", stepID)
	return proc.Steps[idx], nil
}

// DeleteProcessStep removes a step from a process. References from other
// steps are left alone; queries tolerate dangling IDs.
func (s *Service) DeleteProcessStep(ctx context.Context, processID, stepID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proc, err := store.GetAs[model.Process](ctx, s.store, store.KindProcess, processID)
	if err != nil {
		return err
	}

	kept := proc.Steps[:0]
	found := false
	for _, st := range proc.Steps {
		if st.ID == stepID {
			found = true
			continue
		}
		kept = append(kept, st)
	}
	if !found {
		return fmt.Errorf("step %s in process %s: %w", stepID, processID, ErrStepNotFound)
	}

	proc.Steps = kept
	if err := store.PutRecord(ctx, s.store, store.KindProcess, proc); err != nil {
		return err
	}
	s.metrics.RecordWrite(string(store.KindProcess), "update")
	return nil
}

// ============================================================================
// Semantic mappings
// ============================================================================

// SemanticGaps lists mappings whose rollout is incomplete: everything
// not yet in the mapped state.
func (s *Service) SemanticGaps(ctx context.Context) ([]model.SemanticMapping, error) {
	all, err := listRecords[model.SemanticMapping](ctx, s, store.KindSemanticMapping)
	if err != nil {
		return nil, err
	}
	gaps := make([]model.SemanticMapping, 0)
	for _, m := range all {
		if m.Status != model.MappingMapped {
			gaps = append(gaps, m)
		}
	}
	return gaps, nil
}

// SemanticMappingsForOntology lists mappings pointing at one ontology
// element.
func (s *Service) SemanticMappingsForOntology(ctx context.Context, ontologyID string) ([]model.SemanticMapping, error) {
	all, err := listRecords[model.SemanticMapping](ctx, s, store.KindSemanticMapping)
	if err != nil {
		return nil, err
	}
	out := make([]model.SemanticMapping, 0)
	for _, m := range all {
		if m.OntologyID == ontologyID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ============================================================================
// Scenarios and dataset loading
// ============================================================================

// RegisterScenario adds a scenario dataset file to the registry.
func (s *Service) RegisterScenario(info ScenarioInfo, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.scenarios[info.ID]; !exists {
		s.scenarioOrder = append(s.scenarioOrder, info.ID)
	}
	s.scenarios[info.ID] = scenarioEntry{info: info, path: path}
}

// LoadScenarioDir registers every .json dataset in a directory. Files
// without scenario metadata are registered under their base filename.
// Unreadable files are logged and skipped so one broken dataset doesn't
// take the service down.
func (s *Service) LoadScenarioDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read scenario dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	registered := 0
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("skipping unreadable scenario file", "path", path, "error", err)
			continue
		}
		ds, err := store.ParseDataset(data)
		if err != nil {
			s.log.Warn("skipping malformed scenario file", "path", path, "error", err)
			continue
		}

		info := ScenarioInfo{ID: strings.TrimSuffix(name, ".json")}
		if ds.Scenario != nil {
			if ds.Scenario.ID != "" {
				info.ID = ds.Scenario.ID
			}
			info.Name = ds.Scenario.Name
			info.Description = ds.Scenario.Description
		}
		if info.Name == "" {
			info.Name = info.ID
		}
		s.RegisterScenario(info, path)
		registered++
	}

	s.log.Info("scenario registry loaded", "dir", dir, "scenarios", registered)
	return nil
}

// Scenarios returns the registry in registration order plus the active
// scenario ID.
func (s *Service) Scenarios() ScenarioStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := ScenarioStatus{
		Scenarios: make([]ScenarioInfo, 0, len(s.scenarioOrder)),
		Active:    s.currentScenario,
	}
	for _, id := range s.scenarioOrder {
		status.Scenarios = append(status.Scenarios, s.scenarios[id].info)
	}
	return status
}

// ActivateScenario replaces the catalog with a registered scenario's
// dataset. The write lock spans the whole load, so concurrent queries
// see either the old catalog or the new one, never a mixture.
func (s *Service) ActivateScenario(ctx context.Context, scenarioID string) (*ActivateScenarioResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.scenarios[scenarioID]
	if !ok {
		return nil, fmt.Errorf("scenario %s: %w", scenarioID, ErrScenarioNotFound)
	}

	data, err := os.ReadFile(entry.path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", scenarioID, err)
	}
	ds, err := store.ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenarioID, err)
	}
	if err := ds.Load(ctx, s.store); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", scenarioID, err)
	}

	s.currentScenario = scenarioID
	s.metrics.RecordScenarioActivation(scenarioID)
	counts := ds.Counts()
	s.log.Info("scenario activated",
		"scenario_id", scenarioID,
		"observations", counts[store.KindObservation],
		"measures", counts[store.KindMeasure],
		"metrics", counts[store.KindMetric],
		"processes", counts[store.KindProcess])

	return &ActivateScenarioResponse{
		ScenarioID:   scenarioID,
		Name:         entry.info.Name,
		RecordCounts: counts,
	}, nil
}

// LoadDatasetFile seeds the catalog from a dataset file outside the
// scenario registry, e.g. from the seed command.
func (s *Service) LoadDatasetFile(ctx context.Context, path string) (map[store.Kind]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	ds, err := store.ParseDataset(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ds.Load(ctx, s.store); err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	s.currentScenario = ""
	if ds.Scenario != nil {
		s.currentScenario = ds.Scenario.ID
	}
	return ds.Counts(), nil
}
