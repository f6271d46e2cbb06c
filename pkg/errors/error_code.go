/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"fmt"
	"net/http"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const UrumiPrefix = "Urumi."

/*
   5-digit Error Code Convention: [xx][yyy]
   [xx] Business ID (00-99), used to distinguish errors from different business interfaces.
   00: General errors
   01: Store-related errors
   [yyy] Error code range (000-999)
*/

// public: 00xxx
const (
	InternalError         = UrumiPrefix + "00001"
	BadRequest            = UrumiPrefix + "00002"
	Forbidden             = UrumiPrefix + "00003"
	Conflict              = UrumiPrefix + "00004"
	NotFound              = UrumiPrefix + "00005"
	RequestEntityTooLarge = UrumiPrefix + "00006"
	TooManyRequests       = UrumiPrefix + "00007"
	ServiceUnavailable    = UrumiPrefix + "00008"
)

// store: 01xxx
const (
	StoreNotFound      = UrumiPrefix + "01001"
	StoreCapReached    = UrumiPrefix + "01002"
	InvalidTransition  = UrumiPrefix + "01003"
	EngineNotSupported = UrumiPrefix + "01004"
	GatewayError       = UrumiPrefix + "01005"
	DeadlineExceeded   = UrumiPrefix + "01006"
)

// IsUrumi returns true if the specified error carries an Urumi reason code.
func IsUrumi(err error) bool {
	if err == nil {
		return false
	}
	return strings.HasPrefix(string(apierrors.ReasonForError(err)), UrumiPrefix)
}

func IsBadRequest(err error) bool {
	reason := apierrors.ReasonForError(err)
	return reason == BadRequest || reason == EngineNotSupported
}

func IsConflict(err error) bool {
	reason := apierrors.ReasonForError(err)
	return reason == Conflict || reason == StoreCapReached || reason == InvalidTransition
}

func IsInternal(err error) bool {
	return apierrors.ReasonForError(err) == InternalError
}

func IsNotFound(err error) bool {
	reason := apierrors.ReasonForError(err)
	return reason == NotFound || reason == StoreNotFound
}

func IsTooManyRequests(err error) bool {
	return apierrors.ReasonForError(err) == TooManyRequests
}

func IsDeadlineExceeded(err error) bool {
	return apierrors.ReasonForError(err) == DeadlineExceeded
}

func IsGatewayError(err error) bool {
	return apierrors.ReasonForError(err) == GatewayError
}

func IgnoreNotFound(err error) error {
	if err == nil || IsNotFound(err) {
		return nil
	}
	return err
}

// GetErrorCode returns the Urumi reason code of an error, or "" for foreign errors.
func GetErrorCode(err error) string {
	if err == nil || !IsUrumi(err) {
		return ""
	}
	return string(apierrors.ReasonForError(err))
}

func NewBadRequest(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusBadRequest,
		Reason:  BadRequest,
		Message: fmt.Sprintf("Bad request. %s", message),
	}}
}

func NewInternalError(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusInternalServerError,
		Reason:  InternalError,
		Message: fmt.Sprintf("Internal error. %s", message),
	}}
}

func NewConflict(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusConflict,
		Reason:  Conflict,
		Message: message,
	}}
}

func NewForbidden(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusForbidden,
		Reason:  Forbidden,
		Message: message,
	}}
}

func NewStoreNotFound(id string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status: metav1.StatusFailure,
		Code:   http.StatusNotFound,
		Reason: StoreNotFound,
		Details: &metav1.StatusDetails{
			Kind: "Store",
			Name: id,
		},
		Message: fmt.Sprintf("Store %s not found.", id),
	}}
}

func NewNotFoundWithMessage(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusNotFound,
		Reason:  NotFound,
		Message: message,
	}}
}

func NewRequestEntityTooLargeError(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusRequestEntityTooLarge,
		Reason:  RequestEntityTooLarge,
		Message: fmt.Sprintf("Request entity is too large: %s", message),
	}}
}

func NewTooManyRequests(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusTooManyRequests,
		Reason:  TooManyRequests,
		Message: message,
	}}
}

func NewStoreCapReached(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusConflict,
		Reason:  StoreCapReached,
		Message: message,
	}}
}

func NewInvalidTransition(from, to string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusConflict,
		Reason:  InvalidTransition,
		Message: fmt.Sprintf("store status transition %s -> %s is not allowed", from, to),
	}}
}

func NewEngineNotSupported(engine string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusBadRequest,
		Reason:  EngineNotSupported,
		Message: fmt.Sprintf("engine %q is not supported", engine),
	}}
}

func NewGatewayError(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusBadGateway,
		Reason:  GatewayError,
		Message: fmt.Sprintf("Cluster gateway error. %s", message),
	}}
}

func NewDeadlineExceeded(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusGatewayTimeout,
		Reason:  DeadlineExceeded,
		Message: fmt.Sprintf("Deadline exceeded. %s", message),
	}}
}

func NewServiceUnavailable(message string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusServiceUnavailable,
		Reason:  ServiceUnavailable,
		Message: message,
	}}
}
