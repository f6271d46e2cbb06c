/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"context"
	"encoding/json"
	"errors"
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

func newTestEngine(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	dbc := dbclient.NewClientWithDB(sqlx.NewDb(mockDB, "postgres"), &dbutils.DBConfig{})

	gw := gateway.New(fake.NewSimpleClientset(), nil, backoff.Policy{
		MaxRetries:   0,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   2,
	})
	recorder := audit.NewRecorder(dbc)
	orchestrator := provisioner.New(context.Background(), dbc, gw, recorder)
	return InitHttpHandlers(orchestrator, gw, dbc, recorder), mock
}

func TestHealthLive(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthReady(t *testing.T) {
	engine, mock := newTestEngine(t)
	mock.ExpectQuery(`SELECT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthReadyDatabaseDown(t *testing.T) {
	engine, mock := newTestEngine(t)
	mock.ExpectQuery(`SELECT 1`).WillReturnError(errors.New("connection refused"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "database", body["reason"])
}

func TestCORSPreflight(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/stores", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
}

func TestCORSHeadersOnPlainRequests(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

// Rate-limit buckets key on the socket address, not forwarding headers, so
// a client rotating X-Forwarded-For values still burns a single budget.
func TestForwardedForCannotDodgeRateLimit(t *testing.T) {
	commonconfig.SetValue("ratelimit.create_per_window", 1)
	defer commonconfig.SetValue("ratelimit.create_per_window", 5)

	engine, _ := newTestEngine(t)

	post := func(forwardedFor string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/stores",
			strings.NewReader(`{"name":"ab","engine":"woocommerce"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		engine.ServeHTTP(w, req)
		return w
	}

	// Both requests come from httptest's fixed remote address; the spoofed
	// header must not split them into separate buckets.
	w := post("203.0.113.7")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post("203.0.113.8")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	response := &utils.ApiResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), response))
	require.NotNil(t, response.Error)
	assert.Equal(t, commonerrors.TooManyRequests, response.Error.Code)
}
