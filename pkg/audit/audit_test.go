/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbclient "github.com/kshitizz36/Urumi-AI/pkg/database/client"
	dbutils "github.com/kshitizz36/Urumi-AI/pkg/database/utils"
)

func newTestRecorder(t *testing.T) (*Recorder, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	dbc := dbclient.NewClientWithDB(sqlx.NewDb(mockDB, "postgres"), &dbutils.DBConfig{})
	return NewRecorder(dbc), mock
}

func TestRecord(t *testing.T) {
	recorder, mock := newTestRecorder(t)

	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(sqlmock.NewResult(1, 1))

	err := recorder.Record(context.Background(), Entry{
		Action:    ActionStoreCreateRequested,
		StoreId:   "abc12345",
		StoreName: "my-store",
		Engine:    "woocommerce",
		SourceIp:  "10.0.0.1",
		Duration:  1500 * time.Millisecond,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordQuietlySwallowsFailure(t *testing.T) {
	recorder, mock := newTestRecorder(t)

	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnError(assert.AnError)

	// Must not panic or propagate; auditing never fails the operation.
	recorder.RecordQuietly(context.Background(), Entry{Action: ActionStoreDeleteFailed})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryBuildsFilters(t *testing.T) {
	recorder, mock := newTestRecorder(t)

	auditColumns := []string{
		"id", "action", "store_id", "store_name", "engine", "source_ip",
		"details", "duration_ms", "created_at",
	}
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT \* FROM audit_logs WHERE action = \$1 AND store_id = \$2 ORDER BY id desc LIMIT 50`).
		WithArgs("store.create.succeeded", "abc12345").
		WillReturnRows(sqlmock.NewRows(auditColumns).
			AddRow(int64(7), "store.create.succeeded", "abc12345", "my-store", "woocommerce", "10.0.0.1", nil, int64(42000), now))

	rows, err := recorder.Query(context.Background(), "abc12345", "store.create.succeeded", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].Id)
}
