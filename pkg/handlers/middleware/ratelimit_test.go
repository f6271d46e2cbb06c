/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFixedWindowAllow(t *testing.T) {
	limiter := newFixedWindow(2, 50*time.Millisecond)

	assert.True(t, limiter.allow("10.0.0.1"))
	assert.True(t, limiter.allow("10.0.0.1"))
	assert.False(t, limiter.allow("10.0.0.1"))

	// Another client has its own window.
	assert.True(t, limiter.allow("10.0.0.2"))

	// A fresh window resets the count.
	time.Sleep(60 * time.Millisecond)
	assert.True(t, limiter.allow("10.0.0.1"))
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/x", RateLimitByIP(1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		engine.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestGlobalWriteRateLimitIgnoresReads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GlobalWriteRateLimit(1, time.Minute))
	engine.GET("/read", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.POST("/write", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(method, path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		engine.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/write"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/write"))
	// Reads never count against the write budget.
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(http.MethodGet, "/read"))
	}
}
