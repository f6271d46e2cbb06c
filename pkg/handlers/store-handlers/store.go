/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package storehandlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kshitizz36/Urumi-AI/pkg/audit"
	dbclient "github.com/kshitizz36/Urumi-AI/pkg/database/client"
	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
	"github.com/kshitizz36/Urumi-AI/pkg/provisioner"
	"github.com/kshitizz36/Urumi-AI/pkg/stringutil"
)

// StoreHandler serves the store admission surface.
type StoreHandler struct {
	orchestrator *provisioner.Orchestrator
	dbClient     *dbclient.Client
	recorder     *audit.Recorder
}

// NewStoreHandler creates a StoreHandler over the shared components.
func NewStoreHandler(o *provisioner.Orchestrator, dbClient *dbclient.Client, recorder *audit.Recorder) *StoreHandler {
	return &StoreHandler{
		orchestrator: o,
		dbClient:     dbClient,
		recorder:     recorder,
	}
}

// createStore admits a provisioning request and returns 202 with the
// reserved record. The pipeline itself runs in the background.
func (h *StoreHandler) createStore(c *gin.Context) (interface{}, error) {
	request := &CreateStoreRequest{}
	if err := c.ShouldBindJSON(request); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	if !stringutil.IsValidStoreName(request.Name) {
		return nil, commonerrors.NewBadRequest(
			"store name must be 3-50 characters of lowercase letters, digits, and hyphens")
	}
	sourceIp := c.ClientIP()
	h.recorder.RecordQuietly(c.Request.Context(), audit.Entry{
		Action:    audit.ActionStoreCreateRequested,
		StoreName: request.Name,
		Engine:    request.Engine,
		SourceIp:  sourceIp,
	})
	store, err := h.orchestrator.CreateStore(
		c.Request.Context(), request.Name, provisioner.Engine(request.Engine), sourceIp)
	if err != nil {
		return nil, err
	}
	return &CreateStoreResponse{
		Store:   toStoreView(store),
		Message: "Store provisioning started",
	}, nil
}

// listStores returns every non-deleted store, newest first.
func (h *StoreHandler) listStores(c *gin.Context) (interface{}, error) {
	stores, err := h.dbClient.SelectStores(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return toStoreViews(stores), nil
}

// getStore returns one store by id. Soft-deleted records answer 404.
func (h *StoreHandler) getStore(c *gin.Context) (interface{}, error) {
	id := c.Param("id")
	store, err := h.dbClient.SelectStoreById(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if store.Status == string(provisioner.StatusDeleted) {
		return nil, commonerrors.NewStoreNotFound(id)
	}
	return toStoreView(store), nil
}

// deleteStore tears down a store synchronously and returns the final record.
func (h *StoreHandler) deleteStore(c *gin.Context) (interface{}, error) {
	id := c.Param("id")
	sourceIp := c.ClientIP()
	h.recorder.RecordQuietly(c.Request.Context(), audit.Entry{
		Action:   audit.ActionStoreDeleteRequested,
		StoreId:  id,
		SourceIp: sourceIp,
	})
	if err := h.orchestrator.DeleteStore(c.Request.Context(), id, sourceIp); err != nil {
		return nil, err
	}
	return gin.H{"id": id, "status": string(provisioner.StatusDeleted)}, nil
}

// listAudit returns audit entries, optionally filtered by store and action.
func (h *StoreHandler) listAudit(c *gin.Context) (interface{}, error) {
	limit := audit.DefaultQueryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, commonerrors.NewBadRequest("limit must be a positive integer")
		}
		limit = parsed
	}
	rows, err := h.recorder.Query(c.Request.Context(), c.Query("storeId"), c.Query("action"), limit)
	if err != nil {
		return nil, err
	}
	return toAuditViews(rows), nil
}
