/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sqrl "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbutils "github.com/kshitizz36/Urumi-AI/pkg/database/utils"
	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
)

var auditColumns = []string{
	"id", "action", "store_id", "store_name", "engine", "source_ip",
	"details", "duration_ms", "created_at",
}

func TestInsertAuditLog(t *testing.T) {
	c, mock := newTestClient(t)

	// The serial id column is omitted from the insert.
	mock.ExpectExec(`INSERT INTO audit_logs \(action, store_id`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := c.InsertAuditLog(context.Background(), &AuditLog{
		Action:    "store.create.requested",
		StoreId:   dbutils.NullString("abc12345"),
		StoreName: dbutils.NullString("my-store"),
		CreatedAt: dbutils.NullTime(time.Now().UTC()),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertAuditLogNilInput(t *testing.T) {
	c, _ := newTestClient(t)
	err := c.InsertAuditLog(context.Background(), nil)
	assert.True(t, commonerrors.IsBadRequest(err))
}

func TestSelectAuditLogs(t *testing.T) {
	c, mock := newTestClient(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT \* FROM audit_logs WHERE store_id = \$1 ORDER BY id desc LIMIT 50`).
		WithArgs("abc12345").
		WillReturnRows(sqlmock.NewRows(auditColumns).
			AddRow(int64(2), "store.create.succeeded", "abc12345", "my-store", "woocommerce", "10.0.0.1", nil, int64(42000), now).
			AddRow(int64(1), "store.create.requested", "abc12345", "my-store", "woocommerce", "10.0.0.1", nil, nil, now))

	rows, err := c.SelectAuditLogs(context.Background(), sqrl.Eq{"store_id": "abc12345"}, 50)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].Id)
	assert.Equal(t, "store.create.succeeded", rows[0].Action)
}

func TestSelectAuditLogsNoFilter(t *testing.T) {
	c, mock := newTestClient(t)

	mock.ExpectQuery(`SELECT \* FROM audit_logs ORDER BY id desc`).
		WillReturnRows(sqlmock.NewRows(auditColumns))

	rows, err := c.SelectAuditLogs(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
