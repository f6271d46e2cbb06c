/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package deadline

import (
	"context"
	"fmt"
	"time"

	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
)

// Deadline is a per-run time budget shared by every phase of a provisioning
// pipeline. All wrapped operations race against the remaining time.
type Deadline struct {
	start    time.Time
	deadline time.Time
}

// New acquires a deadline with the given total budget.
func New(budget time.Duration) *Deadline {
	now := time.Now()
	return &Deadline{start: now, deadline: now.Add(budget)}
}

// Remaining returns the time left in the budget, never negative.
func (d *Deadline) Remaining() time.Duration {
	remaining := time.Until(d.deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Elapsed returns the time consumed since the deadline was acquired.
func (d *Deadline) Elapsed() time.Duration {
	return time.Since(d.start)
}

// Expired reports whether the budget is exhausted.
func (d *Deadline) Expired() bool {
	return !time.Now().Before(d.deadline)
}

// Check fails with a deadline-exceeded error when the budget is exhausted.
func (d *Deadline) Check() error {
	if d.Expired() {
		return commonerrors.NewDeadlineExceeded(
			fmt.Sprintf("budget exhausted after %s", d.Elapsed().Round(time.Millisecond)))
	}
	return nil
}

// Wrap runs op with a context bounded by the remaining budget. It returns a
// deadline-exceeded error when the budget runs out before op finishes, even
// if op itself does not honor the context.
func (d *Deadline) Wrap(ctx context.Context, name string, op func(ctx context.Context) error) error {
	if err := d.Check(); err != nil {
		return err
	}
	opCtx, cancel := context.WithDeadline(ctx, d.deadline)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(opCtx)
	}()

	select {
	case err := <-done:
		if err != nil && opCtx.Err() == context.DeadlineExceeded {
			return commonerrors.NewDeadlineExceeded(fmt.Sprintf("%s: %v", name, err))
		}
		return err
	case <-opCtx.Done():
		if opCtx.Err() == context.DeadlineExceeded {
			return commonerrors.NewDeadlineExceeded(fmt.Sprintf("%s did not finish in time", name))
		}
		return opCtx.Err()
	}
}
