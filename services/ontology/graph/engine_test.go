// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenforge/ontolens/services/ontology/model"
)

// catalogFixture is an in-memory Source. Collections are returned in
// declaration order, which the fixtures keep ID-sorted to match the
// store's contract.
type catalogFixture struct {
	perspectives []model.Perspective
	systems      []model.System
	entities     []model.Entity
	observations []model.Observation
	measures     []model.Measure
	metrics      []model.Metric
	processes    []model.Process
}

func (f *catalogFixture) Perspectives(context.Context) ([]model.Perspective, error) {
	return f.perspectives, nil
}
func (f *catalogFixture) Systems(context.Context) ([]model.System, error) {
	return f.systems, nil
}
func (f *catalogFixture) Entities(context.Context) ([]model.Entity, error) {
	return f.entities, nil
}
func (f *catalogFixture) Observations(context.Context) ([]model.Observation, error) {
	return f.observations, nil
}
func (f *catalogFixture) Measures(context.Context) ([]model.Measure, error) {
	return f.measures, nil
}
func (f *catalogFixture) Metrics(context.Context) ([]model.Metric, error) {
	return f.metrics, nil
}
func (f *catalogFixture) Processes(context.Context) ([]model.Process, error) {
	return f.processes, nil
}

// orderToCashFixture models a small order-to-cash slice: material costs
// flowing from ERP goods issues into a COGS metric, a warehouse pick
// rate, and one process with nested fulfillment steps. It deliberately
// contains dangling references (obs-ghost, msr-missing) that traversals
// must skip.
func orderToCashFixture() *catalogFixture {
	dur := 60
	pct := 50
	return &catalogFixture{
		perspectives: []model.Perspective{
			{
				ID: "persp-fin", Name: "Financial",
				Purpose:        "Track cost and margin",
				PrimaryConcern: "What did it cost?",
				TypicalActors:  []string{"CFO"},
				ConsumesFrom:   []string{"persp-ops"},
			},
			{
				ID: "persp-ops", Name: "Operational",
				Purpose:        "Execute and record work",
				PrimaryConcern: "What happened on the floor?",
				TypicalActors:  []string{"COO"},
				Feeds:          []string{"persp-fin"},
			},
		},
		systems: []model.System{
			{ID: "sys-erp", Name: "SAP ECC", Type: model.SystemTypeERP},
			{ID: "sys-sheet", Name: "Costing Workbook", Type: model.SystemTypeSpreadsheet},
			{ID: "sys-wms", Name: "Warehouse Manager", Type: model.SystemTypeWMS},
		},
		entities: []model.Entity{
			{
				ID: "ent-material", Name: "Material",
				CoreAttributes: []model.CoreAttribute{
					{Name: "Material Number", DataType: "string"},
				},
				Lenses: []model.EntityLens{
					{
						PerspectiveID:  "persp-fin",
						Interpretation: "Cost object valued at standard cost",
						DerivedAttributes: []model.DerivedAttribute{
							{Name: "Consumption Value", DataType: "number", Derivation: "qty * std_cost"},
						},
					},
				},
			},
			{ID: "ent-order", Name: "Sales Order"},
		},
		observations: []model.Observation{
			{ID: "obs-goods-issue", Name: "Goods Issue", EntityID: "ent-material", SystemID: "sys-erp"},
			{ID: "obs-manual-count", Name: "Manual Stock Count", EntityID: "ent-material", SystemID: "sys-sheet"},
			{ID: "obs-pick-confirm", Name: "Pick Confirmation", EntityID: "ent-order", SystemID: "sys-wms"},
			{ID: "obs-po-price", Name: "PO Price", EntityID: "ent-material", SystemID: "sys-erp"},
		},
		measures: []model.Measure{
			{
				ID:                  "msr-cogs-total",
				Name:                "COGS Total",
				InputObservationIDs: []string{"obs-manual-count"},
				InputMeasureIDs:     []string{"msr-material-cost"},
				PerspectiveIDs:      []string{"persp-fin"},
			},
			{
				ID:                  "msr-ghostly",
				Name:                "Ghostly Measure",
				InputObservationIDs: []string{"obs-ghost", "obs-goods-issue"},
			},
			{
				ID:                  "msr-material-cost",
				Name:                "Material Cost Consumed",
				InputObservationIDs: []string{"obs-goods-issue", "obs-po-price"},
				PerspectiveIDs:      []string{"persp-fin"},
			},
			{
				ID:                  "msr-pick-rate",
				Name:                "Pick Rate",
				InputObservationIDs: []string{"obs-pick-confirm"},
				PerspectiveIDs:      []string{"persp-ops"},
			},
		},
		metrics: []model.Metric{
			{
				ID:                     "met-cogs",
				Name:                   "Cost of Goods Sold",
				CalculatedByMeasureIDs: []string{"msr-cogs-total"},
				PerspectiveIDs:         []string{"persp-fin"},
			},
			{
				ID:                     "met-ghost-input",
				Name:                   "Ghost Input Metric",
				CalculatedByMeasureIDs: []string{"msr-ghostly", "msr-missing"},
			},
			{
				ID:                     "met-otif",
				Name:                   "On Time In Full",
				CalculatedByMeasureIDs: []string{"msr-pick-rate"},
				PerspectiveIDs:         []string{"persp-ops"},
			},
		},
		processes: []model.Process{
			{
				ID:   "proc-o2c",
				Name: "Order to Cash",
				Steps: []model.ProcessStep{
					{
						ID: "step-order", Name: "Capture Order", Sequence: 1,
						PerspectiveID:    "persp-fin",
						PerspectiveLevel: model.LevelFinancial,
						HasSubSteps:      false,
					},
					{
						ID: "step-fulfill", Name: "Fulfill Order", Sequence: 2,
						PerspectiveLevel: model.LevelManagement,
						DependsOnStepIDs: []string{"step-order"},
						HasSubSteps:      true,
					},
					{
						ID: "step-invoice", Name: "Invoice Customer", Sequence: 3,
						PerspectiveLevel: model.LevelFinancial,
						DependsOnStepIDs: []string{"step-fulfill", "step-order"},
					},
					{
						ID: "step-pick", Name: "Pick Materials", Sequence: 1,
						ParentStepID:     "step-fulfill",
						PerspectiveLevel: model.LevelOperational,
						DependsOnStepIDs: []string{"step-order"},
					},
					{
						ID: "step-ship", Name: "Ship and Post Goods Issue", Sequence: 2,
						ParentStepID:             "step-fulfill",
						PerspectiveID:            "persp-ops",
						PerspectiveLevel:         model.LevelOperational,
						DependsOnStepIDs:         []string{"step-pick"},
						ConsumesObservationIDs:   []string{"obs-pick-confirm"},
						ProducesObservationIDs:   []string{"obs-goods-issue"},
						CrystallizesIDs:          []string{"obs-goods-issue", "obs-ghost"},
						SystemsUsedIDs:           []string{"sys-erp", "sys-wms"},
						EstimatedDurationMinutes: &dur,
						ManualEffortPercentage:   &pct,
						AutomationPotential:      model.AutomationHigh,
						WasteCategory:            "Overprocessing",
					},
				},
			},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(orderToCashFixture())
}

func observationIDs(obs []model.Observation) []string {
	ids := make([]string, len(obs))
	for i, o := range obs {
		ids[i] = o.ID
	}
	return ids
}

func measureIDs(ms []model.Measure) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

func metricIDs(ms []model.Metric) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

func systemIDs(ss []model.System) []string {
	ids := make([]string, len(ss))
	for i, s := range ss {
		ids[i] = s.ID
	}
	return ids
}

// ============================================================================
// TraceMetric
// ============================================================================

func TestTraceMetricWalksChainToSources(t *testing.T) {
	e := newTestEngine(t)

	trace, err := e.TraceMetric(context.Background(), "met-cogs")
	require.NoError(t, err)

	assert.Equal(t, "Cost of Goods Sold", trace.Metric.Name)

	// Direct measure first, then its one-level chain input.
	assert.Equal(t, []string{"msr-cogs-total", "msr-material-cost"}, measureIDs(trace.Measures))

	// Observations in first-encounter order: the direct measure's own
	// inputs, then the chained measure's.
	assert.Equal(t,
		[]string{"obs-manual-count", "obs-goods-issue", "obs-po-price"},
		observationIDs(trace.Observations))

	assert.Equal(t, []string{"sys-sheet", "sys-erp"}, systemIDs(trace.Systems))

	require.Len(t, trace.Entities, 1)
	assert.Equal(t, "ent-material", trace.Entities[0].ID)
}

func TestTraceMetricSkipsDanglingReferences(t *testing.T) {
	e := newTestEngine(t)

	trace, err := e.TraceMetric(context.Background(), "met-ghost-input")
	require.NoError(t, err)

	// msr-missing and obs-ghost are silently omitted.
	assert.Equal(t, []string{"msr-ghostly"}, measureIDs(trace.Measures))
	assert.Equal(t, []string{"obs-goods-issue"}, observationIDs(trace.Observations))
	assert.Equal(t, []string{"sys-erp"}, systemIDs(trace.Systems))
}

func TestTraceMetricNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.TraceMetric(context.Background(), "met-nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTraceMetricIsIdempotent(t *testing.T) {
	e := newTestEngine(t)

	first, err := e.TraceMetric(context.Background(), "met-cogs")
	require.NoError(t, err)
	second, err := e.TraceMetric(context.Background(), "met-cogs")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// ============================================================================
// AnalyzeImpact
// ============================================================================

func TestAnalyzeImpactFindsDirectConsumers(t *testing.T) {
	e := newTestEngine(t)

	impact, err := e.AnalyzeImpact(context.Background(), "obs-goods-issue")
	require.NoError(t, err)

	assert.Equal(t, "Goods Issue", impact.Observation.Name)
	assert.Equal(t, []string{"msr-ghostly", "msr-material-cost"}, measureIDs(impact.AffectedMeasures))

	// met-cogs consumes obs-goods-issue only through the msr-cogs-total
	// chain; impact stays one hop deep and must not report it.
	assert.Equal(t, []string{"met-ghost-input"}, metricIDs(impact.AffectedMetrics))
}

func TestAnalyzeImpactUnreferencedObservation(t *testing.T) {
	e := newTestEngine(t)

	impact, err := e.AnalyzeImpact(context.Background(), "obs-pick-confirm")
	require.NoError(t, err)

	assert.Equal(t, []string{"msr-pick-rate"}, measureIDs(impact.AffectedMeasures))
	assert.Equal(t, []string{"met-otif"}, metricIDs(impact.AffectedMetrics))
}

func TestAnalyzeImpactNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.AnalyzeImpact(context.Background(), "obs-nope")
	require.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// MeasureUsage
// ============================================================================

func TestMeasureUsageBothDirections(t *testing.T) {
	e := newTestEngine(t)

	usage, err := e.MeasureUsage(context.Background(), "msr-material-cost")
	require.NoError(t, err)

	// Nothing uses it directly as a metric input, but the COGS rollup
	// chains it in.
	assert.Empty(t, usage.UsedInMetrics)
	assert.Equal(t, []string{"msr-cogs-total"}, measureIDs(usage.UsedInMeasures))
	assert.Equal(t, []string{"obs-goods-issue", "obs-po-price"}, observationIDs(usage.DependsOnObservations))
	assert.Empty(t, usage.DependsOnMeasures)
}

func TestMeasureUsageOfRollup(t *testing.T) {
	e := newTestEngine(t)

	usage, err := e.MeasureUsage(context.Background(), "msr-cogs-total")
	require.NoError(t, err)

	assert.Equal(t, []string{"met-cogs"}, metricIDs(usage.UsedInMetrics))
	assert.Empty(t, usage.UsedInMeasures)
	assert.Equal(t, []string{"obs-manual-count"}, observationIDs(usage.DependsOnObservations))
	assert.Equal(t, []string{"msr-material-cost"}, measureIDs(usage.DependsOnMeasures))
}

func TestMeasureUsageNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.MeasureUsage(context.Background(), "msr-nope")
	require.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// PerspectiveView
// ============================================================================

func TestPerspectiveViewSlicesCatalog(t *testing.T) {
	e := newTestEngine(t)

	view, err := e.PerspectiveView(context.Background(), "persp-fin")
	require.NoError(t, err)

	assert.Equal(t, "Financial", view.Perspective.Name)
	assert.Equal(t, []string{"met-cogs"}, metricIDs(view.Metrics))
	assert.Equal(t, []string{"msr-cogs-total", "msr-material-cost"}, measureIDs(view.Measures))
	assert.Equal(t,
		[]string{"obs-manual-count", "obs-goods-issue", "obs-po-price"},
		observationIDs(view.Observations))

	require.Len(t, view.Entities, 1)
	assert.Equal(t, "ent-material", view.Entities[0].ID)

	require.Len(t, view.ProcessSteps, 1)
	assert.Equal(t, "step-order", view.ProcessSteps[0].ID)
	assert.Equal(t, "proc-o2c", view.ProcessSteps[0].ProcessID)
	assert.Equal(t, "Order to Cash", view.ProcessSteps[0].ProcessName)
}

func TestPerspectiveViewNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.PerspectiveView(context.Background(), "persp-nope")
	require.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// EntityDetail
// ============================================================================

func TestEntityDetailCollectsObservationsAndSystems(t *testing.T) {
	e := newTestEngine(t)

	detail, err := e.EntityDetail(context.Background(), "ent-material")
	require.NoError(t, err)

	assert.Equal(t, "Material", detail.Entity.Name)
	// The full entity rides along, lenses included.
	require.Len(t, detail.Entity.Lenses, 1)
	assert.Equal(t, "persp-fin", detail.Entity.Lenses[0].PerspectiveID)
	assert.Equal(t,
		[]string{"obs-goods-issue", "obs-manual-count", "obs-po-price"},
		observationIDs(detail.Observations))
	assert.Equal(t, []string{"sys-erp", "sys-sheet"}, systemIDs(detail.Systems))
}

func TestEntityDetailNoObservations(t *testing.T) {
	fixture := orderToCashFixture()
	fixture.entities = append(fixture.entities, model.Entity{ID: "ent-lonely", Name: "Lonely"})
	e := NewEngine(fixture)

	detail, err := e.EntityDetail(context.Background(), "ent-lonely")
	require.NoError(t, err)

	assert.NotNil(t, detail.Observations)
	assert.Empty(t, detail.Observations)
	assert.Empty(t, detail.Systems)
}

func TestEntityDetailNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.EntityDetail(context.Background(), "ent-nope")
	require.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// ProcessFlow
// ============================================================================

func TestProcessFlowTopLevelDefault(t *testing.T) {
	e := newTestEngine(t)

	flow, err := e.ProcessFlow(context.Background(), "proc-o2c", "", "")
	require.NoError(t, err)

	assert.Equal(t, "Order to Cash", flow.Process.Name)
	require.Len(t, flow.Nodes, 3)
	assert.Equal(t, "step-order", flow.Nodes[0].ID)
	assert.Equal(t, "step-fulfill", flow.Nodes[1].ID)
	assert.Equal(t, "step-invoice", flow.Nodes[2].ID)
	assert.True(t, flow.Nodes[1].HasSubSteps)

	assert.Equal(t, []FlowEdge{
		{Source: "step-order", Target: "step-fulfill"},
		{Source: "step-fulfill", Target: "step-invoice"},
		{Source: "step-order", Target: "step-invoice"},
	}, flow.Edges)
}

func TestProcessFlowLevelFilterKeepsCrossTierEdges(t *testing.T) {
	e := newTestEngine(t)

	flow, err := e.ProcessFlow(context.Background(), "proc-o2c", model.LevelFinancial, "")
	require.NoError(t, err)

	require.Len(t, flow.Nodes, 2)
	assert.Equal(t, "step-order", flow.Nodes[0].ID)
	assert.Equal(t, "step-invoice", flow.Nodes[1].ID)

	// step-fulfill is filtered out as a node, but step-invoice's
	// dependency on it still shows up as an edge.
	assert.Equal(t, []FlowEdge{
		{Source: "step-fulfill", Target: "step-invoice"},
		{Source: "step-order", Target: "step-invoice"},
	}, flow.Edges)
}

func TestProcessFlowParentFilterWinsOverLevel(t *testing.T) {
	e := newTestEngine(t)

	flow, err := e.ProcessFlow(context.Background(), "proc-o2c", model.LevelFinancial, "step-fulfill")
	require.NoError(t, err)

	require.Len(t, flow.Nodes, 2)
	assert.Equal(t, "step-pick", flow.Nodes[0].ID)
	assert.Equal(t, "step-ship", flow.Nodes[1].ID)

	// step-pick's dependency on step-order points outside the subtree
	// but is still emitted as an edge.
	assert.Equal(t, []FlowEdge{
		{Source: "step-order", Target: "step-pick"},
		{Source: "step-pick", Target: "step-ship"},
	}, flow.Edges)
}

func TestProcessFlowNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ProcessFlow(context.Background(), "proc-nope", "", "")
	require.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// CrystallizationPoints
// ============================================================================

func TestCrystallizationPoints(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.CrystallizationPoints(context.Background(), "proc-o2c")
	require.NoError(t, err)

	assert.Equal(t, "proc-o2c", report.ProcessID)
	require.Len(t, report.CrystallizationPoints, 1)

	point := report.CrystallizationPoints[0]
	assert.Equal(t, "step-ship", point.StepID)
	assert.Equal(t, 2, point.StepSequence)
	// obs-ghost dangles and is omitted.
	assert.Equal(t, []string{"obs-goods-issue"}, observationIDs(point.CrystallizedObservations))
}

func TestCrystallizationPointsNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CrystallizationPoints(context.Background(), "proc-nope")
	require.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// StepLineage
// ============================================================================

func TestStepLineageFullNeighborhood(t *testing.T) {
	e := newTestEngine(t)

	lineage, err := e.StepLineage(context.Background(), "step-ship")
	require.NoError(t, err)

	assert.Equal(t, "Ship and Post Goods Issue", lineage.Step.Name)
	assert.Equal(t, "proc-o2c", lineage.Process.ID)

	assert.Equal(t, []string{"obs-pick-confirm"}, observationIDs(lineage.ConsumesObservations))
	assert.Equal(t, []string{"obs-goods-issue"}, observationIDs(lineage.ProducesObservations))
	assert.Equal(t, []string{"obs-goods-issue"}, observationIDs(lineage.CrystallizesObservations))

	// Emitted observations feed measures, which feed metrics.
	assert.Equal(t, []string{"msr-ghostly", "msr-material-cost"}, measureIDs(lineage.ObservationsFeedMeasures))
	assert.Equal(t, []string{"met-ghost-input"}, metricIDs(lineage.MeasuresCalculateMetrics))

	assert.Equal(t, []string{"sys-erp", "sys-wms"}, systemIDs(lineage.SystemsUsed))

	require.NotNil(t, lineage.WasteAnalysis)
	assert.Equal(t, 60, lineage.WasteAnalysis.TaskDurationMinutes)
	assert.True(t, lineage.WasteAnalysis.IsWasteful)
	require.NotNil(t, lineage.WasteAnalysis.PotentialTimeSavingsMinutes)
	assert.Equal(t, 30, *lineage.WasteAnalysis.PotentialTimeSavingsMinutes)
}

func TestStepLineageWithoutDuration(t *testing.T) {
	e := newTestEngine(t)

	lineage, err := e.StepLineage(context.Background(), "step-order")
	require.NoError(t, err)

	assert.Nil(t, lineage.WasteAnalysis)
	assert.Empty(t, lineage.ConsumesObservations)
	assert.NotNil(t, lineage.ObservationsFeedMeasures)
	assert.Empty(t, lineage.ObservationsFeedMeasures)
}

func TestStepLineageNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.StepLineage(context.Background(), "step-nope")
	require.ErrorIs(t, err, ErrNotFound)
}
