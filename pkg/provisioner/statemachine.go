/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package provisioner

import (
	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
)

// Status is the lifecycle state of a store record.
type Status string

const (
	StatusPending      Status = "pending"
	StatusProvisioning Status = "provisioning"
	StatusReady        Status = "ready"
	StatusFailed       Status = "failed"
	StatusDeleting     Status = "deleting"
	StatusDeleted      Status = "deleted"
)

// Phase is one of the four ordered stages of the provisioning pipeline.
// It is present only while status is provisioning.
type Phase string

const (
	PhaseNamespace   Phase = "namespace"
	PhaseDatabase    Phase = "database"
	PhaseApplication Phase = "application"
	PhaseValidation  Phase = "validation"
)

// Engine tags the store software stack. Medusa is reserved and rejected at
// admission.
type Engine string

const (
	EngineWooCommerce Engine = "woocommerce"
	EngineMedusa      Engine = "medusa"
)

// allowedTransitions is the authoritative state machine. Anything not listed
// here is rejected; deleted is terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:      {StatusProvisioning, StatusFailed, StatusDeleting},
	StatusProvisioning: {StatusReady, StatusFailed},
	StatusReady:        {StatusDeleting},
	StatusFailed:       {StatusProvisioning, StatusDeleting},
	StatusDeleting:     {StatusFailed, StatusDeleted},
	StatusDeleted:      {},
}

// CanTransition reports whether from -> to is permitted.
func CanTransition(from, to Status) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a conflict error for a disallowed transition.
func CheckTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return commonerrors.NewInvalidTransition(string(from), string(to))
	}
	return nil
}

// IsActive reports whether a status counts against the active-store cap.
func IsActive(status Status) bool {
	return status != StatusFailed && status != StatusDeleted
}

// NamespaceFor derives the tenant namespace. It is fixed at creation and
// never mutated afterwards.
func NamespaceFor(id string) string {
	return "store-" + id
}
