// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ontology

import (
	"github.com/gin-gonic/gin"

	"github.com/lumenforge/ontolens/services/ontology/model"
	"github.com/lumenforge/ontolens/services/ontology/store"
)

// RegisterRoutes mounts the ontology service's routes on a router.
//
// Route map:
//
//	GET  /health
//
//	GET  /api/graph/trace-metric/:metricID
//	GET  /api/graph/impact/:observationID
//	GET  /api/graph/measure/:measureID/usage
//	GET  /api/graph/perspective/:perspectiveID
//	GET  /api/graph/entity/:entityID/full
//	GET  /api/graph/process/:processID/flow
//	GET  /api/graph/process/:processID/crystallization
//	GET  /api/graph/step/:stepID/full-lineage
//
//	GET  /api/scenarios
//	POST /api/scenarios/:scenarioID/activate
//
//	CRUD under /api/ontology/{perspectives,systems,entities,observations,
//	measures,metrics,processes} plus step routes under processes/:id/steps.
//
//	CRUD under /api/semantic/mappings plus gap and by-ontology listings.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/health", h.HandleHealth)

	g := r.Group("/api/graph")
	{
		g.GET("/trace-metric/:metricID", h.HandleTraceMetric)
		g.GET("/impact/:observationID", h.HandleImpact)
		g.GET("/measure/:measureID/usage", h.HandleMeasureUsage)
		g.GET("/perspective/:perspectiveID", h.HandlePerspectiveView)
		g.GET("/entity/:entityID/full", h.HandleEntityDetail)
		g.GET("/process/:processID/flow", h.HandleProcessFlow)
		g.GET("/process/:processID/crystallization", h.HandleCrystallization)
		g.GET("/step/:stepID/full-lineage", h.HandleStepLineage)
	}

	sc := r.Group("/api/scenarios")
	{
		sc.GET("", h.HandleListScenarios)
		sc.POST("/:scenarioID/activate", h.HandleActivateScenario)
	}

	api := r.Group("/api/ontology")
	{
		registerCRUD(api.Group("/perspectives"), h.svc, store.KindPerspective,
			func(p *model.Perspective, id string) { p.ID = id })
		registerCRUD(api.Group("/systems"), h.svc, store.KindSystem,
			func(s *model.System, id string) { s.ID = id })
		registerCRUD(api.Group("/entities"), h.svc, store.KindEntity,
			func(e *model.Entity, id string) { e.ID = id })
		registerCRUD(api.Group("/observations"), h.svc, store.KindObservation,
			func(o *model.Observation, id string) { o.ID = id })
		registerCRUD(api.Group("/measures"), h.svc, store.KindMeasure,
			func(m *model.Measure, id string) { m.ID = id })
		registerCRUD(api.Group("/metrics"), h.svc, store.KindMetric,
			func(m *model.Metric, id string) { m.ID = id })
		registerCRUD(api.Group("/processes"), h.svc, store.KindProcess,
			func(p *model.Process, id string) { p.ID = id })

		api.POST("/processes/:id/steps", h.HandleAddStep)
		api.PATCH("/processes/:id/steps/:stepID", h.HandlePatchStep)
		api.DELETE("/processes/:id/steps/:stepID", h.HandleDeleteStep)
	}

	sem := r.Group("/api/semantic")
	{
		sem.GET("/mappings/gaps", h.HandleSemanticGaps)
		sem.GET("/mappings/by-ontology/:ontologyID", h.HandleSemanticByOntology)
		registerCRUD(sem.Group("/mappings"), h.svc, store.KindSemanticMapping,
			func(m *model.SemanticMapping, id string) { m.ID = id })
	}
}
