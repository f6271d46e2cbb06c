/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package client

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ` + TPStore + ` (
		id                       VARCHAR(8) PRIMARY KEY,
		name                     VARCHAR(50) NOT NULL,
		namespace                VARCHAR(64) NOT NULL,
		engine                   VARCHAR(32) NOT NULL,
		status                   VARCHAR(16) NOT NULL,
		phase                    VARCHAR(16),
		url                      TEXT,
		admin_url                TEXT,
		db_ready                 BOOLEAN NOT NULL DEFAULT FALSE,
		app_ready                BOOLEAN NOT NULL DEFAULT FALSE,
		error_message            TEXT,
		error_phase              VARCHAR(16),
		created_at               TIMESTAMPTZ NOT NULL,
		updated_at               TIMESTAMPTZ NOT NULL,
		ready_at                 TIMESTAMPTZ,
		deleted_at               TIMESTAMPTZ,
		provisioning_duration_ms BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stores_status ON ` + TPStore + ` (status)`,
	`CREATE INDEX IF NOT EXISTS idx_stores_created_at ON ` + TPStore + ` (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS ` + TPAuditLog + ` (
		id          BIGSERIAL PRIMARY KEY,
		action      VARCHAR(64) NOT NULL,
		store_id    VARCHAR(8),
		store_name  VARCHAR(50),
		engine      VARCHAR(32),
		source_ip   VARCHAR(45),
		details     TEXT,
		duration_ms BIGINT,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_store_id ON ` + TPAuditLog + ` (store_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON ` + TPAuditLog + ` (action)`,
}

// InitSchema creates the tables and indexes if they do not exist yet.
func (c *Client) InitSchema(ctx context.Context) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	for _, stmt := range schemaStatements {
		if _, err = db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
