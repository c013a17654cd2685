// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ontology

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenforge/ontolens/services/ontology/graph"
	"github.com/lumenforge/ontolens/services/ontology/model"
	"github.com/lumenforge/ontolens/services/ontology/store"
)

// newTestService returns a service over an in-memory catalog populated
// with a small order-to-cash slice.
func newTestService(t *testing.T) *Service {
	t.Helper()

	st := store.NewMemory()
	t.Cleanup(func() { _ = st.Close() })
	svc := NewService(st)

	ctx := context.Background()
	dur := 60
	pct := 50

	require.NoError(t, store.PutRecord(ctx, st, store.KindPerspective,
		model.Perspective{ID: "persp-fin", Name: "Financial"}))
	require.NoError(t, store.PutRecord(ctx, st, store.KindSystem,
		model.System{ID: "sys-erp", Name: "SAP ECC", Type: model.SystemTypeERP}))
	require.NoError(t, store.PutRecord(ctx, st, store.KindEntity,
		model.Entity{ID: "ent-material", Name: "Material"}))
	require.NoError(t, store.PutRecord(ctx, st, store.KindObservation,
		model.Observation{ID: "obs-goods-issue", Name: "Goods Issue", EntityID: "ent-material", SystemID: "sys-erp"}))
	require.NoError(t, store.PutRecord(ctx, st, store.KindMeasure,
		model.Measure{
			ID: "msr-material-cost", Name: "Material Cost Consumed",
			InputObservationIDs: []string{"obs-goods-issue"},
			PerspectiveIDs:      []string{"persp-fin"},
		}))
	require.NoError(t, store.PutRecord(ctx, st, store.KindMetric,
		model.Metric{
			ID: "met-cogs", Name: "Cost of Goods Sold",
			CalculatedByMeasureIDs: []string{"msr-material-cost"},
			PerspectiveIDs:         []string{"persp-fin"},
		}))
	require.NoError(t, store.PutRecord(ctx, st, store.KindProcess,
		model.Process{
			ID: "proc-o2c", Name: "Order to Cash",
			Steps: []model.ProcessStep{
				{ID: "step-order", Name: "Capture Order", Sequence: 1},
				{
					ID: "step-ship", Name: "Ship Goods", Sequence: 2,
					DependsOnStepIDs:         []string{"step-order"},
					ProducesObservationIDs:   []string{"obs-goods-issue"},
					CrystallizesIDs:          []string{"obs-goods-issue"},
					SystemsUsedIDs:           []string{"sys-erp"},
					EstimatedDurationMinutes: &dur,
					ManualEffortPercentage:   &pct,
					AutomationPotential:      model.AutomationHigh,
				},
			},
		}))
	require.NoError(t, store.PutRecord(ctx, st, store.KindSemanticMapping,
		model.SemanticMapping{
			ID: "map-gi", OntologyType: model.OntologyTypeObservation, OntologyID: "obs-goods-issue",
			SemanticModel: "finance", SemanticObject: "fact_goods_movements", Status: model.MappingMapped,
		}))
	require.NoError(t, store.PutRecord(ctx, st, store.KindSemanticMapping,
		model.SemanticMapping{
			ID: "map-gap", OntologyType: model.OntologyTypeMeasure, OntologyID: "msr-material-cost",
			Status: model.MappingGap,
		}))

	return svc
}

func TestServiceTraceMetric(t *testing.T) {
	svc := newTestService(t)

	trace, err := svc.TraceMetric(context.Background(), "met-cogs")
	require.NoError(t, err)
	assert.Equal(t, "Cost of Goods Sold", trace.Metric.Name)
	require.Len(t, trace.Systems, 1)
	assert.Equal(t, "sys-erp", trace.Systems[0].ID)

	_, err = svc.TraceMetric(context.Background(), "met-missing")
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestServiceStepLineageWaste(t *testing.T) {
	svc := newTestService(t)

	lineage, err := svc.StepLineage(context.Background(), "step-ship")
	require.NoError(t, err)
	require.NotNil(t, lineage.WasteAnalysis)
	assert.True(t, lineage.WasteAnalysis.IsWasteful)
	require.NotNil(t, lineage.WasteAnalysis.PotentialTimeSavingsMinutes)
	assert.Equal(t, 30, *lineage.WasteAnalysis.PotentialTimeSavingsMinutes)
}

func TestCreateRecordRejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := createRecord(ctx, svc, store.KindEntity, model.Entity{ID: "ent-material", Name: "Material"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	err = createRecord(ctx, svc, store.KindEntity, model.Entity{ID: "ent-order", Name: "Sales Order"})
	require.NoError(t, err)

	got, err := getRecord[model.Entity](ctx, svc, store.KindEntity, "ent-order")
	require.NoError(t, err)
	assert.Equal(t, "Sales Order", got.Name)
}

func TestCreateRecordValidates(t *testing.T) {
	svc := newTestService(t)

	// Name is required.
	err := createRecord(context.Background(), svc, store.KindEntity, model.Entity{ID: "ent-x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateRecordRejectsUnknownEnumValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := createRecord(ctx, svc, store.KindSystem,
		model.System{ID: "sys-x", Name: "Mystery Box", Type: "Blockchain"})
	assert.ErrorIs(t, err, ErrValidation)

	err = createRecord(ctx, svc, store.KindSystem,
		model.System{ID: "sys-x", Name: "Mystery Box", Type: model.SystemTypeERP, Reliability: "Perfect"})
	assert.ErrorIs(t, err, ErrValidation)

	err = createRecord(ctx, svc, store.KindObservation,
		model.Observation{ID: "obs-x", Name: "Odd", EntityID: "ent-material", SystemID: "sys-erp", Volatility: "Sometimes"})
	assert.ErrorIs(t, err, ErrValidation)

	err = createRecord(ctx, svc, store.KindSemanticMapping,
		model.SemanticMapping{ID: "map-x", OntologyType: "universe", OntologyID: "ent-material"})
	assert.ErrorIs(t, err, ErrValidation)

	// Spaced enum values are still accepted.
	err = createRecord(ctx, svc, store.KindSystem,
		model.System{ID: "sys-x", Name: "Costing Workbook", Type: model.SystemTypeSpreadsheet, IntegrationStatus: model.IntegrationManualExtract})
	require.NoError(t, err)

	// Step enums are checked through the process too.
	_, err = svc.AddProcessStep(ctx, "proc-o2c", model.ProcessStep{Name: "Guess", AutomationPotential: "Total"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateRecordRequiresExisting(t *testing.T) {
	svc := newTestService(t)

	err := updateRecord(context.Background(), svc, store.KindSystem,
		model.System{ID: "sys-ghost", Name: "Ghost", Type: model.SystemTypeOther})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddProcessStep(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	step, err := svc.AddProcessStep(ctx, "proc-o2c", model.ProcessStep{Name: "Invoice Customer", Sequence: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, step.ID, "blank IDs get a generated UUID")

	proc, err := getRecord[model.Process](ctx, svc, store.KindProcess, "proc-o2c")
	require.NoError(t, err)
	assert.Len(t, proc.Steps, 3)

	// Duplicate step IDs are rejected.
	_, err = svc.AddProcessStep(ctx, "proc-o2c", model.ProcessStep{ID: "step-order", Name: "Duplicate"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Unknown process.
	_, err = svc.AddProcessStep(ctx, "proc-ghost", model.ProcessStep{Name: "Nowhere"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPatchProcessStep(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	name := "Ship and Post Goods Issue"
	step, err := svc.PatchProcessStep(ctx, "proc-o2c", "step-ship", model.StepPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, step.Name)

	// The merge persisted.
	proc, err := getRecord[model.Process](ctx, svc, store.KindProcess, "proc-o2c")
	require.NoError(t, err)
	got, ok := proc.StepByID("step-ship")
	require.True(t, ok)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, model.AutomationHigh, got.AutomationPotential, "unpatched fields survive")
}

func TestPatchProcessStepInvalidPatchChangesNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.PatchProcessStep(ctx, "proc-o2c", "step-ship", model.StepPatch{})
	assert.ErrorIs(t, err, model.ErrEmptyPatch)

	bad := -5
	_, err = svc.PatchProcessStep(ctx, "proc-o2c", "step-ship", model.StepPatch{Sequence: &bad})
	assert.ErrorIs(t, err, model.ErrInvalidPatch)

	proc, err := getRecord[model.Process](ctx, svc, store.KindProcess, "proc-o2c")
	require.NoError(t, err)
	got, ok := proc.StepByID("step-ship")
	require.True(t, ok)
	assert.Equal(t, "Ship Goods", got.Name)
	assert.Equal(t, 2, got.Sequence)
}

func TestPatchProcessStepNotFound(t *testing.T) {
	svc := newTestService(t)
	name := "x"

	_, err := svc.PatchProcessStep(context.Background(), "proc-o2c", "step-ghost", model.StepPatch{Name: &name})
	assert.ErrorIs(t, err, ErrStepNotFound)
}

func TestDeleteProcessStep(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteProcessStep(ctx, "proc-o2c", "step-order"))

	proc, err := getRecord[model.Process](ctx, svc, store.KindProcess, "proc-o2c")
	require.NoError(t, err)
	require.Len(t, proc.Steps, 1)
	assert.Equal(t, "step-ship", proc.Steps[0].ID)

	err = svc.DeleteProcessStep(ctx, "proc-o2c", "step-order")
	assert.ErrorIs(t, err, ErrStepNotFound)
}

func TestSemanticGapsAndLookups(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	gaps, err := svc.SemanticGaps(ctx)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, "map-gap", gaps[0].ID)

	byOnt, err := svc.SemanticMappingsForOntology(ctx, "obs-goods-issue")
	require.NoError(t, err)
	require.Len(t, byOnt, 1)
	assert.Equal(t, "map-gi", byOnt[0].ID)

	none, err := svc.SemanticMappingsForOntology(ctx, "obs-unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

const baselineScenario = `{
	"scenario": {"id": "baseline", "name": "Baseline", "description": "Happy path"},
	"entities": [{"id": "ent-wo", "name": "Work Order"}],
	"systems": [{"id": "sys-mes", "name": "MES", "type": "MES"}],
	"observations": [
		{"id": "obs-conf", "name": "Confirmation", "entity_id": "ent-wo", "system_id": "sys-mes"}
	]
}`

const degradedScenario = `{
	"scenario": {"id": "degraded", "name": "Degraded"},
	"entities": [{"id": "ent-wo", "name": "Work Order"}]
}`

func writeScenarioDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "baseline.json"), []byte(baselineScenario), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "degraded.json"), []byte(degradedScenario), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{nope`), 0o600))
	return dir
}

func TestScenarioRegistryAndActivation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.LoadScenarioDir(writeScenarioDir(t)))

	status := svc.Scenarios()
	require.Len(t, status.Scenarios, 2, "the malformed file is skipped")
	assert.Equal(t, "baseline", status.Scenarios[0].ID)
	assert.Equal(t, "degraded", status.Scenarios[1].ID)
	assert.Empty(t, status.Active)

	resp, err := svc.ActivateScenario(ctx, "baseline")
	require.NoError(t, err)
	assert.Equal(t, "baseline", resp.ScenarioID)
	assert.Equal(t, 1, resp.RecordCounts[store.KindObservation])

	// Activation replaced the whole catalog.
	ents, err := listRecords[model.Entity](ctx, svc, store.KindEntity)
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, "ent-wo", ents[0].ID)

	metrics, err := listRecords[model.Metric](ctx, svc, store.KindMetric)
	require.NoError(t, err)
	assert.Empty(t, metrics)

	assert.Equal(t, "baseline", svc.Scenarios().Active)

	_, err = svc.ActivateScenario(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrScenarioNotFound)
	assert.Equal(t, "baseline", svc.Scenarios().Active, "a failed activation leaves the active scenario alone")
}

func TestLoadDatasetFile(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(baselineScenario), 0o600))

	counts, err := svc.LoadDatasetFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[store.KindEntity])
	assert.Equal(t, "baseline", svc.Scenarios().Active)
}
