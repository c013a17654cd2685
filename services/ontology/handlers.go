// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ontology

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumenforge/ontolens/services/ontology/graph"
	"github.com/lumenforge/ontolens/services/ontology/model"
)

// Handlers contains the HTTP handlers for the ontology service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

// respondGraphError maps a lineage query error to an HTTP response.
func respondGraphError(c *gin.Context, logger *slog.Logger, err error) {
	if errors.Is(err, graph.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  "NOT_FOUND",
		})
		return
	}
	logger.Error("Query failed", "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: err.Error(),
		Code:  "QUERY_FAILED",
	})
}

// HandleTraceMetric handles GET /api/graph/trace-metric/:metricID.
//
// Response:
//
//	200 OK: graph.MetricTrace
//	404 Not Found: Unknown metric
func (h *Handlers) HandleTraceMetric(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleTraceMetric")

	metricID := c.Param("metricID")
	trace, err := h.svc.TraceMetric(c.Request.Context(), metricID)
	if err != nil {
		respondGraphError(c, logger, err)
		return
	}

	logger.Info("Metric traced",
		"metric_id", metricID,
		"measures", len(trace.Measures),
		"observations", len(trace.Observations))
	c.JSON(http.StatusOK, trace)
}

// HandleImpact handles GET /api/graph/impact/:observationID.
//
// Response:
//
//	200 OK: graph.ImpactAnalysis
//	404 Not Found: Unknown observation
func (h *Handlers) HandleImpact(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleImpact")

	observationID := c.Param("observationID")
	impact, err := h.svc.AnalyzeImpact(c.Request.Context(), observationID)
	if err != nil {
		respondGraphError(c, logger, err)
		return
	}

	logger.Info("Impact analyzed",
		"observation_id", observationID,
		"affected_measures", len(impact.AffectedMeasures),
		"affected_metrics", len(impact.AffectedMetrics))
	c.JSON(http.StatusOK, impact)
}

// HandleMeasureUsage handles GET /api/graph/measure/:measureID/usage.
func (h *Handlers) HandleMeasureUsage(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleMeasureUsage")

	usage, err := h.svc.MeasureUsage(c.Request.Context(), c.Param("measureID"))
	if err != nil {
		respondGraphError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// HandlePerspectiveView handles GET /api/graph/perspective/:perspectiveID.
func (h *Handlers) HandlePerspectiveView(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandlePerspectiveView")

	view, err := h.svc.PerspectiveView(c.Request.Context(), c.Param("perspectiveID"))
	if err != nil {
		respondGraphError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleEntityDetail handles GET /api/graph/entity/:entityID/full.
func (h *Handlers) HandleEntityDetail(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleEntityDetail")

	detail, err := h.svc.EntityDetail(c.Request.Context(), c.Param("entityID"))
	if err != nil {
		respondGraphError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// HandleProcessFlow handles GET /api/graph/process/:processID/flow.
//
// Query Parameters:
//
//	perspective_level - Optional tier filter (financial, management, operational).
//	parent_step_id - Optional parent whose children to render. Wins over
//	perspective_level when both are present.
//
// Response:
//
//	200 OK: graph.ProcessFlow
//	400 Bad Request: Unknown perspective_level
//	404 Not Found: Unknown process
func (h *Handlers) HandleProcessFlow(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleProcessFlow")

	level := model.PerspectiveLevel(c.Query("perspective_level"))
	switch level {
	case "", model.LevelFinancial, model.LevelManagement, model.LevelOperational:
	default:
		logger.Warn("Invalid perspective level", "perspective_level", level)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "unknown perspective_level " + string(level),
			Code:  "INVALID_LEVEL",
		})
		return
	}

	flow, err := h.svc.ProcessFlow(c.Request.Context(), c.Param("processID"), level, c.Query("parent_step_id"))
	if err != nil {
		respondGraphError(c, logger, err)
		return
	}

	logger.Info("Process flow rendered",
		"process_id", c.Param("processID"),
		"nodes", len(flow.Nodes),
		"edges", len(flow.Edges))
	c.JSON(http.StatusOK, flow)
}

// HandleCrystallization handles GET /api/graph/process/:processID/crystallization.
func (h *Handlers) HandleCrystallization(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCrystallization")

	report, err := h.svc.CrystallizationPoints(c.Request.Context(), c.Param("processID"))
	if err != nil {
		respondGraphError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleStepLineage handles GET /api/graph/step/:stepID/full-lineage.
func (h *Handlers) HandleStepLineage(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleStepLineage")

	lineage, err := h.svc.StepLineage(c.Request.Context(), c.Param("stepID"))
	if err != nil {
		respondGraphError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, lineage)
}

// HandleListScenarios handles GET /api/scenarios.
func (h *Handlers) HandleListScenarios(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Scenarios())
}

// HandleActivateScenario handles POST /api/scenarios/:scenarioID/activate.
//
// Response:
//
//	200 OK: ActivateScenarioResponse
//	404 Not Found: Unknown scenario
//	500 Internal Server Error: Dataset load failure
func (h *Handlers) HandleActivateScenario(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleActivateScenario")

	scenarioID := c.Param("scenarioID")
	resp, err := h.svc.ActivateScenario(c.Request.Context(), scenarioID)
	if err != nil {
		if errors.Is(err, ErrScenarioNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: err.Error(),
				Code:  "SCENARIO_NOT_FOUND",
			})
			return
		}
		logger.Error("Scenario activation failed", "scenario_id", scenarioID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "ACTIVATION_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "ontolens",
		Version: ServiceVersion,
	})
}
