/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
	"github.com/kshitizz36/Urumi-AI/pkg/utils"
)

// fixedWindow counts requests per key inside non-sliding windows. The first
// request after a window expires resets the count, so a burst straddling the
// boundary can reach at most 2x the limit. That is accepted for this surface.
type fixedWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*windowEntry
}

type windowEntry struct {
	start time.Time
	count int
}

func newFixedWindow(limit int, window time.Duration) *fixedWindow {
	return &fixedWindow{
		limit:   limit,
		window:  window,
		entries: make(map[string]*windowEntry),
	}
}

func (w *fixedWindow) allow(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	entry, ok := w.entries[key]
	if !ok || now.Sub(entry.start) >= w.window {
		if len(w.entries) > 1024 {
			w.prune(now)
		}
		w.entries[key] = &windowEntry{start: now, count: 1}
		return true
	}
	if entry.count >= w.limit {
		return false
	}
	entry.count++
	return true
}

// prune drops expired windows. Caller holds the lock.
func (w *fixedWindow) prune(now time.Time) {
	for key, entry := range w.entries {
		if now.Sub(entry.start) >= w.window {
			delete(w.entries, key)
		}
	}
}

// RateLimitByIP enforces a per-client fixed-window limit on one endpoint.
func RateLimitByIP(limit int, window time.Duration) gin.HandlerFunc {
	limiter := newFixedWindow(limit, window)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			utils.AbortWithApiError(c, commonerrors.NewTooManyRequests(
				fmt.Sprintf("Rate limit exceeded: %d requests per %s allowed.", limit, window)))
			return
		}
		c.Next()
	}
}

// GlobalWriteRateLimit enforces a per-client cap across every mutating
// request. Reads and health probes pass through untouched.
func GlobalWriteRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := newFixedWindow(limit, window)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if !limiter.allow(c.ClientIP()) {
			utils.AbortWithApiError(c, commonerrors.NewTooManyRequests(
				fmt.Sprintf("Global write rate limit exceeded: %d requests per %s allowed.", limit, window)))
			return
		}
		c.Next()
	}
}
