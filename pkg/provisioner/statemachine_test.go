/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package provisioner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusProvisioning, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusDeleting, true},
		{StatusPending, StatusReady, false},
		{StatusProvisioning, StatusReady, true},
		{StatusProvisioning, StatusFailed, true},
		{StatusProvisioning, StatusDeleting, false},
		{StatusReady, StatusDeleting, true},
		{StatusReady, StatusFailed, false},
		{StatusFailed, StatusProvisioning, true},
		{StatusFailed, StatusDeleting, true},
		{StatusDeleting, StatusDeleted, true},
		{StatusDeleting, StatusFailed, true},
		{StatusDeleting, StatusReady, false},
		{StatusDeleted, StatusProvisioning, false},
		{StatusDeleted, StatusDeleting, false},
		{StatusDeleted, StatusDeleted, false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCheckTransition(t *testing.T) {
	assert.NoError(t, CheckTransition(StatusReady, StatusDeleting))

	err := CheckTransition(StatusDeleted, StatusProvisioning)
	assert.Error(t, err)
	assert.True(t, commonerrors.IsConflict(err))
	assert.Equal(t, commonerrors.InvalidTransition, commonerrors.GetErrorCode(err))
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive(StatusPending))
	assert.True(t, IsActive(StatusProvisioning))
	assert.True(t, IsActive(StatusReady))
	assert.True(t, IsActive(StatusDeleting))
	assert.False(t, IsActive(StatusFailed))
	assert.False(t, IsActive(StatusDeleted))
}

func TestNamespaceFor(t *testing.T) {
	assert.Equal(t, "store-a1b2c3d4", NamespaceFor("a1b2c3d4"))
}
