/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package storehandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	commonconfig "github.com/kshitizz36/Urumi-AI/pkg/config"
	"github.com/kshitizz36/Urumi-AI/pkg/handlers/middleware"
	"github.com/kshitizz36/Urumi-AI/pkg/utils"
)

// InitRouters registers the store routes on the api group. Mutating
// endpoints carry their own per-client rate limits on top of the global
// write limit applied by the caller.
func InitRouters(api *gin.RouterGroup, h *StoreHandler) {
	window := commonconfig.GetRateLimitWindow()

	api.POST("/stores",
		middleware.RateLimitByIP(commonconfig.GetCreateRateLimit(), window),
		handleWithStatus(http.StatusAccepted, h.createStore))
	api.GET("/stores", handle(h.listStores))
	api.GET("/stores/:id", handle(h.getStore))
	api.DELETE("/stores/:id",
		middleware.RateLimitByIP(commonconfig.GetDeleteRateLimit(), window),
		handle(h.deleteStore))
	api.GET("/audit", handle(h.listAudit))
}

func handle(fn func(c *gin.Context) (interface{}, error)) gin.HandlerFunc {
	return handleWithStatus(http.StatusOK, fn)
}

func handleWithStatus(status int, fn func(c *gin.Context) (interface{}, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := fn(c)
		if err != nil {
			utils.AbortWithApiError(c, err)
			return
		}
		utils.SendData(c, status, data)
	}
}
