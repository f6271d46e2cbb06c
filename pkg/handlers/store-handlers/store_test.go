/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package storehandlers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/kshitizz36/Urumi-AI/pkg/audit"
	"github.com/kshitizz36/Urumi-AI/pkg/backoff"
	commonconfig "github.com/kshitizz36/Urumi-AI/pkg/config"
	dbclient "github.com/kshitizz36/Urumi-AI/pkg/database/client"
	dbutils "github.com/kshitizz36/Urumi-AI/pkg/database/utils"
	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
	"github.com/kshitizz36/Urumi-AI/pkg/gateway"
	"github.com/kshitizz36/Urumi-AI/pkg/provisioner"
	"github.com/kshitizz36/Urumi-AI/pkg/utils"
)

var storeColumns = []string{
	"id", "name", "namespace", "engine", "status", "phase", "url", "admin_url",
	"db_ready", "app_ready", "error_message", "error_phase",
	"created_at", "updated_at", "ready_at", "deleted_at", "provisioning_duration_ms",
}

func storeRow(id, status string) []driver.Value {
	now := time.Now().UTC()
	return []driver.Value{
		id, "my-store", "store-" + id, "woocommerce", status, nil, nil, nil,
		false, false, nil, nil,
		now, now, nil, nil, nil,
	}
}

type testEnv struct {
	engine *gin.Engine
	mock   sqlmock.Sqlmock
}

func newTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	dbc := dbclient.NewClientWithDB(sqlx.NewDb(mockDB, "postgres"), &dbutils.DBConfig{})

	gw := gateway.New(fake.NewSimpleClientset(), nil, backoff.Policy{
		MaxRetries:   1,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   2,
	})
	recorder := audit.NewRecorder(dbc)
	orchestrator := provisioner.New(context.Background(), dbc, gw, recorder)

	engine := gin.New()
	InitRouters(engine.Group("/api"), NewStoreHandler(orchestrator, dbc, recorder))
	return &testEnv{engine: engine, mock: mock}
}

func (e *testEnv) do(method, path, body string) (*httptest.ResponseRecorder, *utils.ApiResponse) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	e.engine.ServeHTTP(w, req)

	response := &utils.ApiResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), response)
	return w, response
}

func TestCreateStoreRejectsBadNames(t *testing.T) {
	badNames := []string{"ab", strings.Repeat("a", 51), "abc_def", "My-Store", "has space"}
	for _, name := range badNames {
		env := newTestEnv(t)
		w, response := env.do(http.MethodPost, "/api/stores",
			`{"name":"`+name+`","engine":"woocommerce"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, "name %q", name)
		assert.False(t, response.Success)
		require.NotNil(t, response.Error, "name %q", name)
		assert.Equal(t, commonerrors.BadRequest, response.Error.Code)
	}
}

func TestCreateStoreRejectsMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	w, response := env.do(http.MethodPost, "/api/stores", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, response.Success)
}

func TestCreateStoreRejectsUnsupportedEngine(t *testing.T) {
	env := newTestEnv(t)
	w, response := env.do(http.MethodPost, "/api/stores",
		`{"name":"my-store","engine":"medusa"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, commonerrors.EngineNotSupported, response.Error.Code)
}

func TestCreateStoreCapReached(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.mock.ExpectExec(`LOCK TABLE stores`).WillReturnResult(sqlmock.NewResult(0, 0))
	env.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM stores`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	env.mock.ExpectRollback()

	w, response := env.do(http.MethodPost, "/api/stores",
		`{"name":"my-store","engine":"woocommerce"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, commonerrors.StoreCapReached, response.Error.Code)
}

func TestCreateStoreAccepted(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.mock.ExpectExec(`LOCK TABLE stores`).WillReturnResult(sqlmock.NewResult(0, 0))
	env.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM stores`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	env.mock.ExpectExec(`INSERT INTO stores`).WillReturnResult(sqlmock.NewResult(1, 1))
	env.mock.ExpectCommit()
	env.mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(sqlmock.NewResult(1, 1))

	w, response := env.do(http.MethodPost, "/api/stores",
		`{"name":"my-store","engine":"woocommerce"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, response.Success)

	// The acknowledgement wraps the record next to a human-readable message.
	data := response.Data.(map[string]interface{})
	assert.Equal(t, "Store provisioning started", data["message"])
	view, ok := data["store"].(map[string]interface{})
	require.True(t, ok, "data.store should be the store record")
	assert.NotEmpty(t, view["id"])
	assert.Equal(t, "my-store", view["name"])
	assert.Equal(t, "provisioning", view["status"])
	assert.Equal(t, "namespace", view["phase"])
}

func TestGetStore(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`SELECT \* FROM stores WHERE id`).
		WithArgs("abc12345").
		WillReturnRows(sqlmock.NewRows(storeColumns).AddRow(storeRow("abc12345", "ready")...))

	w, response := env.do(http.MethodGet, "/api/stores/abc12345", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response.Success)

	view := response.Data.(map[string]interface{})
	assert.Equal(t, "abc12345", view["id"])
	assert.Equal(t, "ready", view["status"])
	assert.Equal(t, "store-abc12345", view["namespace"])
}

func TestGetStoreNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`SELECT \* FROM stores WHERE id`).
		WithArgs("missing1").
		WillReturnError(sql.ErrNoRows)

	w, response := env.do(http.MethodGet, "/api/stores/missing1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, commonerrors.StoreNotFound, response.Error.Code)
}

func TestGetDeletedStoreAnswersNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`SELECT \* FROM stores WHERE id`).
		WithArgs("abc12345").
		WillReturnRows(sqlmock.NewRows(storeColumns).AddRow(storeRow("abc12345", "deleted")...))

	w, response := env.do(http.MethodGet, "/api/stores/abc12345", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, commonerrors.StoreNotFound, response.Error.Code)
}

func TestListStores(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`SELECT \* FROM stores WHERE status`).
		WillReturnRows(sqlmock.NewRows(storeColumns).
			AddRow(storeRow("abc12345", "ready")...).
			AddRow(storeRow("def67890", "provisioning")...))

	w, response := env.do(http.MethodGet, "/api/stores", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response.Success)
	assert.Len(t, response.Data.([]interface{}), 2)
}

func TestDeleteProvisioningStoreConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`SELECT \* FROM stores WHERE id`).
		WithArgs("abc12345").
		WillReturnRows(sqlmock.NewRows(storeColumns).AddRow(storeRow("abc12345", "provisioning")...))

	w, response := env.do(http.MethodDelete, "/api/stores/abc12345", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, commonerrors.InvalidTransition, response.Error.Code)
}

func TestDeleteDeletedStoreIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`SELECT \* FROM stores WHERE id`).
		WithArgs("abc12345").
		WillReturnRows(sqlmock.NewRows(storeColumns).AddRow(storeRow("abc12345", "deleted")...))

	w, response := env.do(http.MethodDelete, "/api/stores/abc12345", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response.Success)
}

func TestListAuditRejectsBadLimit(t *testing.T) {
	env := newTestEnv(t)
	w, response := env.do(http.MethodGet, "/api/audit?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, response.Success)
}

func TestListAuditFiltersByStoreId(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()
	env.mock.ExpectQuery(`SELECT \* FROM audit_logs WHERE store_id = \$1 ORDER BY id desc LIMIT 50`).
		WithArgs("abc12345").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "action", "store_id", "store_name", "engine", "source_ip", "details", "duration_ms", "created_at",
		}).AddRow(1, "store.create.started", "abc12345", "my-store", "woocommerce", "10.0.0.1", nil, nil, now))

	w, response := env.do(http.MethodGet, "/api/audit?storeId=abc12345", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response.Success)
	require.NoError(t, env.mock.ExpectationsWereMet())

	entries := response.Data.([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.Equal(t, "abc12345", entry["storeId"])
	assert.Equal(t, "store.create.started", entry["action"])
}

func TestCreateRateLimit(t *testing.T) {
	commonconfig.SetValue("ratelimit.create_per_window", 1)
	defer commonconfig.SetValue("ratelimit.create_per_window", 5)

	env := newTestEnv(t)
	// The first request fails validation but still consumes the budget.
	w, _ := env.do(http.MethodPost, "/api/stores", `{"name":"ab","engine":"woocommerce"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, response := env.do(http.MethodPost, "/api/stores", `{"name":"ab","engine":"woocommerce"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotNil(t, response.Error)
	assert.Equal(t, commonerrors.TooManyRequests, response.Error.Code)
}
