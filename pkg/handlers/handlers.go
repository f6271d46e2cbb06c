/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/kshitizz36/Urumi-AI/pkg/audit"
	commonconfig "github.com/kshitizz36/Urumi-AI/pkg/config"
	dbclient "github.com/kshitizz36/Urumi-AI/pkg/database/client"
	"github.com/kshitizz36/Urumi-AI/pkg/gateway"
	"github.com/kshitizz36/Urumi-AI/pkg/handlers/middleware"
	storehandlers "github.com/kshitizz36/Urumi-AI/pkg/handlers/store-handlers"
	"github.com/kshitizz36/Urumi-AI/pkg/provisioner"
)

// InitHttpHandlers builds the gin engine with the full middleware chain and
// every route registered.
func InitHttpHandlers(o *provisioner.Orchestrator, gw *gateway.Gateway, dbClient *dbclient.Client, recorder *audit.Recorder) *gin.Engine {
	if commonconfig.GetEnvironment() == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	// Forwarding headers are honored only from the configured proxy hop;
	// with none configured the socket address is the client ip, so spoofed
	// X-Forwarded-For values cannot dodge the per-ip limits.
	if err := engine.SetTrustedProxies(commonconfig.GetTrustedProxies()); err != nil {
		klog.ErrorS(err, "failed to set trusted proxies")
	}
	engine.Use(gin.Recovery())
	engine.Use(middleware.AccessLogger())
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodySizeLimit())
	engine.Use(middleware.GlobalWriteRateLimit(
		commonconfig.GetGlobalWriteRateLimit(), commonconfig.GetGlobalRateLimitWindow()))

	registerHealthRoutes(engine, gw, dbClient)

	api := engine.Group("/api")
	storehandlers.InitRouters(api, storehandlers.NewStoreHandler(o, dbClient, recorder))
	return engine
}

// registerHealthRoutes wires liveness and readiness. Liveness only proves
// the process serves requests; readiness also proves both downstreams
// answer.
func registerHealthRoutes(engine *gin.Engine, gw *gateway.Gateway, dbClient *dbclient.Client) {
	engine.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/health/ready", func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := dbClient.HealthPing(ctx); err != nil {
			klog.Warningf("readiness: database unreachable: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database"})
			return
		}
		if err := gw.HealthPing(ctx); err != nil {
			klog.Warningf("readiness: cluster unreachable: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "cluster"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
