/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package gateway

import (
	"errors"
	"net"
	"net/http"
	"syscall"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// IsRetryableClusterError reports whether a cluster API failure is worth
// another attempt: transport errors and status codes 429/500/502/503/504.
// Every other 4xx is permanent. 409 on a create is not an error at all; the
// ensure operations swallow it before the retry loop sees it.
func IsRetryableClusterError(err error) bool {
	if err == nil {
		return false
	}
	if isTransportError(err) {
		return true
	}
	if apierrors.IsTooManyRequests(err) ||
		apierrors.IsInternalError(err) ||
		apierrors.IsServiceUnavailable(err) ||
		apierrors.IsServerTimeout(err) ||
		apierrors.IsTimeout(err) ||
		apierrors.IsUnexpectedServerError(err) {
		return true
	}
	if code := statusCode(err); code != 0 {
		switch code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

func isTransportError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func statusCode(err error) int32 {
	var statusErr *apierrors.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.ErrStatus.Code
	}
	return 0
}
