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

	"github.com/lumenforge/ontolens/services/ontology/model"
	"github.com/lumenforge/ontolens/services/ontology/store"
)

// respondStoreError maps a catalog CRUD error to an HTTP response.
func respondStoreError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"})
	case errors.Is(err, ErrAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "ALREADY_EXISTS"})
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"})
	default:
		logger.Error("Catalog operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "STORE_FAILED"})
	}
}

// registerCRUD wires the standard list/get/create/update/delete routes
// for one record kind onto a router group.
//
// Description:
//
//	GET    ""      - list all records of the kind
//	GET    "/:id"  - fetch one record
//	POST   ""      - create; a blank record ID gets a fresh UUID
//	PUT    "/:id"  - update; the path ID always wins over the body ID
//	DELETE "/:id"  - delete
//
// Inputs:
//
//	rg - The router group mounted at the collection path.
//	svc - The service executing the operations.
//	kind - The record collection.
//	setID - Assigns an ID to a decoded record before create/update.
func registerCRUD[T store.Record](rg *gin.RouterGroup, svc *Service, kind store.Kind, setID func(*T, string)) {
	rg.GET("", func(c *gin.Context) {
		requestID := getOrCreateRequestID(c)
		logger := slog.With("request_id", requestID, "kind", string(kind))

		items, err := listRecords[T](c.Request.Context(), svc, kind)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, items)
	})

	rg.GET("/:id", func(c *gin.Context) {
		requestID := getOrCreateRequestID(c)
		logger := slog.With("request_id", requestID, "kind", string(kind))

		item, err := getRecord[T](c.Request.Context(), svc, kind, c.Param("id"))
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, item)
	})

	rg.POST("", func(c *gin.Context) {
		requestID := getOrCreateRequestID(c)
		logger := slog.With("request_id", requestID, "kind", string(kind))

		var rec T
		if err := c.ShouldBindJSON(&rec); err != nil {
			logger.Warn("Invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
			return
		}
		if rec.RecordID() == "" {
			setID(&rec, uuid.NewString())
		}
		if err := createRecord(c.Request.Context(), svc, kind, rec); err != nil {
			respondStoreError(c, logger, err)
			return
		}
		logger.Info("Record created", "id", rec.RecordID())
		c.JSON(http.StatusCreated, rec)
	})

	rg.PUT("/:id", func(c *gin.Context) {
		requestID := getOrCreateRequestID(c)
		logger := slog.With("request_id", requestID, "kind", string(kind))

		var rec T
		if err := c.ShouldBindJSON(&rec); err != nil {
			logger.Warn("Invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
			return
		}
		setID(&rec, c.Param("id"))
		if err := updateRecord(c.Request.Context(), svc, kind, rec); err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		requestID := getOrCreateRequestID(c)
		logger := slog.With("request_id", requestID, "kind", string(kind))

		if err := svc.deleteRecord(c.Request.Context(), kind, c.Param("id")); err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

// HandleAddStep handles POST /api/ontology/processes/:id/steps.
//
// Response:
//
//	201 Created: model.ProcessStep
//	400 Bad Request: Invalid body or validation failure
//	404 Not Found: Unknown process
//	409 Conflict: Duplicate step ID
func (h *Handlers) HandleAddStep(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleAddStep")

	var step model.ProcessStep
	if err := c.ShouldBindJSON(&step); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	created, err := h.svc.AddProcessStep(c.Request.Context(), c.Param("id"), step)
	if err != nil {
		respondStoreError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// HandlePatchStep handles PATCH /api/ontology/processes/:id/steps/:stepID.
//
// Response:
//
//	200 OK: The merged model.ProcessStep
//	400 Bad Request: Empty or invalid patch
//	404 Not Found: Unknown process or step
func (h *Handlers) HandlePatchStep(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandlePatchStep")

	var patch model.StepPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	updated, err := h.svc.PatchProcessStep(c.Request.Context(), c.Param("id"), c.Param("stepID"), patch)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyPatch), errors.Is(err, model.ErrInvalidPatch):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_PATCH"})
		case errors.Is(err, ErrStepNotFound), errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"})
		default:
			logger.Error("Step patch failed", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "STORE_FAILED"})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// HandleDeleteStep handles DELETE /api/ontology/processes/:id/steps/:stepID.
func (h *Handlers) HandleDeleteStep(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDeleteStep")

	err := h.svc.DeleteProcessStep(c.Request.Context(), c.Param("id"), c.Param("stepID"))
	if err != nil {
		if errors.Is(err, ErrStepNotFound) || errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"})
			return
		}
		logger.Error("Step delete failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "STORE_FAILED"})
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleSemanticGaps handles GET /api/semantic/mappings/gaps.
func (h *Handlers) HandleSemanticGaps(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSemanticGaps")

	gaps, err := h.svc.SemanticGaps(c.Request.Context())
	if err != nil {
		respondStoreError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gaps)
}

// HandleSemanticByOntology handles GET /api/semantic/mappings/by-ontology/:ontologyID.
func (h *Handlers) HandleSemanticByOntology(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSemanticByOntology")

	mappings, err := h.svc.SemanticMappingsForOntology(c.Request.Context(), c.Param("ontologyID"))
	if err != nil {
		respondStoreError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, mappings)
}
