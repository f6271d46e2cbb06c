/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package audit

import (
	"context"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"k8s.io/klog/v2"

	dbclient "github.com/kshitizz36/Urumi-AI/pkg/database/client"
	dbutils "github.com/kshitizz36/Urumi-AI/pkg/database/utils"
	"github.com/kshitizz36/Urumi-AI/pkg/stringutil"
)

// Action tags recorded by the control plane.
const (
	ActionStoreCreateRequested = "store.create.requested"
	ActionStoreCreateStarted   = "store.create.started"
	ActionStoreCreateSucceeded = "store.create.succeeded"
	ActionStoreCreateFailed    = "store.create.failed"
	ActionStoreDeleteRequested = "store.delete.requested"
	ActionStoreDeleteSucceeded = "store.delete.succeeded"
	ActionStoreDeleteFailed    = "store.delete.failed"

	DefaultQueryLimit = 50
)

// Entry is one who-did-what-when record.
type Entry struct {
	Action    string
	StoreId   string
	StoreName string
	Engine    string
	SourceIp  string
	Details   string
	Duration  time.Duration
}

// Recorder appends audit entries to the durable log and echoes them to the
// structured log pipeline with sensitive values redacted.
type Recorder struct {
	dbClient *dbclient.Client
}

// NewRecorder creates a Recorder over the shared database client.
func NewRecorder(dbClient *dbclient.Client) *Recorder {
	return &Recorder{dbClient: dbClient}
}

// Record appends one entry. The database assigns the monotonic id and the
// wall-clock timestamp is taken here.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	row := &dbclient.AuditLog{
		Action:     entry.Action,
		StoreId:    dbutils.NullString(entry.StoreId),
		StoreName:  dbutils.NullString(entry.StoreName),
		Engine:     dbutils.NullString(entry.Engine),
		SourceIp:   dbutils.NullString(entry.SourceIp),
		Details:    dbutils.NullString(entry.Details),
		DurationMs: dbutils.NullInt64(entry.Duration.Milliseconds()),
		CreatedAt:  dbutils.NullTime(time.Now().UTC()),
	}
	if err := r.dbClient.InsertAuditLog(ctx, row); err != nil {
		return err
	}
	details := entry.Details
	if stringutil.IsSensitiveKey(details) {
		details = "[REDACTED]"
	}
	klog.InfoS("audit",
		"action", entry.Action,
		"storeId", entry.StoreId,
		"storeName", entry.StoreName,
		"sourceIp", entry.SourceIp,
		"details", details,
		"durationMs", entry.Duration.Milliseconds())
	return nil
}

// RecordQuietly appends one entry and only logs a warning on failure. Used
// where auditing must not fail the surrounding operation.
func (r *Recorder) RecordQuietly(ctx context.Context, entry Entry) {
	if err := r.Record(ctx, entry); err != nil {
		klog.Warningf("failed to record audit entry %s: %v", entry.Action, err)
	}
}

// Query returns entries filtered by storeId and action, most recent first,
// capped by limit (DefaultQueryLimit when limit <= 0).
func (r *Recorder) Query(ctx context.Context, storeId, action string, limit int) ([]*dbclient.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	filters := sqrl.Eq{}
	if storeId != "" {
		filters["store_id"] = storeId
	}
	if action != "" {
		filters["action"] = action
	}
	var query sqrl.Sqlizer
	if len(filters) > 0 {
		query = filters
	}
	return r.dbClient.SelectAuditLogs(ctx, query, limit)
}
