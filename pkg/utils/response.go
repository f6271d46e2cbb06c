/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
)

// ApiError is the wire shape of a failed request.
type ApiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ApiResponse is the envelope every endpoint answers with. Data is set on
// success, Error on failure, never both.
type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ApiError   `json:"error,omitempty"`
}

// SendData writes a success envelope with the given HTTP status.
func SendData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, ApiResponse{Success: true, Data: data})
}

// AbortWithApiError maps an error to the failure envelope and aborts the
// request. Errors without an Urumi reason code are masked as internal so
// driver or cluster internals never leak to callers.
func AbortWithApiError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := commonerrors.InternalError
	message := "Internal error."

	var statusErr *apierrors.StatusError
	if commonerrors.IsUrumi(err) && errors.As(err, &statusErr) {
		status = int(statusErr.ErrStatus.Code)
		code = string(statusErr.ErrStatus.Reason)
		message = statusErr.ErrStatus.Message
	}
	c.AbortWithStatusJSON(status, ApiResponse{
		Success: false,
		Error:   &ApiError{Code: code, Message: message},
	})
}
