/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package provisioner

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	commonconfig "github.com/kshitizz36/Urumi-AI/pkg/config"
)

// Reaper sweeps for stores stuck in provisioning past the pipeline deadline.
// A worker that died with the process leaves its record in provisioning
// forever; the reaper fails those records and reclaims their namespaces.
type Reaper struct {
	orchestrator *Orchestrator
	interval     time.Duration
	grace        time.Duration
}

// NewReaper builds a Reaper over the orchestrator. The grace period on top
// of the pipeline deadline keeps it from racing a live worker that is about
// to fail the record itself.
func NewReaper(o *Orchestrator) *Reaper {
	return &Reaper{
		orchestrator: o,
		interval:     commonconfig.GetReaperInterval(),
		grace:        commonconfig.GetDeleteWaitTimeout(),
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (r *Reaper) Start(ctx context.Context) {
	klog.InfoS("reaper started", "interval", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			klog.InfoS("reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-(r.orchestrator.provisionTimeout + r.grace))
	stale, err := r.orchestrator.dbClient.SelectStaleProvisioning(ctx, cutoff)
	if err != nil {
		klog.ErrorS(err, "reaper sweep failed")
		return
	}
	for _, store := range stale {
		age := time.Since(store.CreatedAt.Time).Round(time.Second)
		klog.Warningf("reaping stale store %s (provisioning for %s)", store.Id, age)
		r.orchestrator.failProvisioning(store.Id, store.Name,
			fmt.Errorf("provisioning abandoned after %s, likely interrupted by a restart", age))
	}
}
