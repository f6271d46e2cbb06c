/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package storehandlers

import (
	"time"

	dbclient "github.com/kshitizz36/Urumi-AI/pkg/database/client"
)

// CreateStoreRequest is the admission payload.
type CreateStoreRequest struct {
	Name   string `json:"name"`
	Engine string `json:"engine"`
}

// CreateStoreResponse acknowledges an accepted provisioning request.
type CreateStoreResponse struct {
	Store   *StoreView `json:"store"`
	Message string     `json:"message"`
}

// StoreView is the wire shape of a store record. Credentials never appear
// here; they live only in cluster secrets.
type StoreView struct {
	Id                     string     `json:"id"`
	Name                   string     `json:"name"`
	Namespace              string     `json:"namespace"`
	Engine                 string     `json:"engine"`
	Status                 string     `json:"status"`
	Phase                  string     `json:"phase,omitempty"`
	Url                    string     `json:"url,omitempty"`
	AdminUrl               string     `json:"adminUrl,omitempty"`
	DBReady                bool       `json:"dbReady"`
	AppReady               bool       `json:"appReady"`
	ErrorMessage           string     `json:"errorMessage,omitempty"`
	ErrorPhase             string     `json:"errorPhase,omitempty"`
	CreatedAt              *time.Time `json:"createdAt,omitempty"`
	UpdatedAt              *time.Time `json:"updatedAt,omitempty"`
	ReadyAt                *time.Time `json:"readyAt,omitempty"`
	ProvisioningDurationMs *int64     `json:"provisioningDurationMs,omitempty"`
}

// AuditView is the wire shape of one audit entry.
type AuditView struct {
	Id         int64      `json:"id"`
	Action     string     `json:"action"`
	StoreId    string     `json:"storeId,omitempty"`
	StoreName  string     `json:"storeName,omitempty"`
	Engine     string     `json:"engine,omitempty"`
	SourceIp   string     `json:"sourceIp,omitempty"`
	Details    string     `json:"details,omitempty"`
	DurationMs *int64     `json:"durationMs,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

func toStoreView(store *dbclient.Store) *StoreView {
	view := &StoreView{
		Id:           store.Id,
		Name:         store.Name,
		Namespace:    store.Namespace,
		Engine:       store.Engine,
		Status:       store.Status,
		Phase:        store.Phase.String,
		Url:          store.Url.String,
		AdminUrl:     store.AdminUrl.String,
		DBReady:      store.DBReady,
		AppReady:     store.AppReady,
		ErrorMessage: store.ErrorMessage.String,
		ErrorPhase:   store.ErrorPhase.String,
	}
	if store.CreatedAt.Valid {
		view.CreatedAt = &store.CreatedAt.Time
	}
	if store.UpdatedAt.Valid {
		view.UpdatedAt = &store.UpdatedAt.Time
	}
	if store.ReadyAt.Valid {
		view.ReadyAt = &store.ReadyAt.Time
	}
	if store.ProvisioningDurationMs.Valid {
		view.ProvisioningDurationMs = &store.ProvisioningDurationMs.Int64
	}
	return view
}

func toStoreViews(stores []*dbclient.Store) []*StoreView {
	views := make([]*StoreView, 0, len(stores))
	for _, store := range stores {
		views = append(views, toStoreView(store))
	}
	return views
}

func toAuditView(row *dbclient.AuditLog) *AuditView {
	view := &AuditView{
		Id:        row.Id,
		Action:    row.Action,
		StoreId:   row.StoreId.String,
		StoreName: row.StoreName.String,
		Engine:    row.Engine.String,
		SourceIp:  row.SourceIp.String,
		Details:   row.Details.String,
	}
	if row.DurationMs.Valid {
		view.DurationMs = &row.DurationMs.Int64
	}
	if row.CreatedAt.Valid {
		view.CreatedAt = &row.CreatedAt.Time
	}
	return view
}

func toAuditViews(rows []*dbclient.AuditLog) []*AuditView {
	views := make([]*AuditView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toAuditView(row))
	}
	return views
}
