/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes the delay schedule for retrying a fallible operation.
// The delay before attempt k is min(InitialDelay * Multiplier^(k-1), MaxDelay),
// multiplied by a uniform random factor in [0.75, 1.25] when Jitter is on.
type Policy struct {
	MaxRetries   uint64
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultPolicy returns the service-wide defaults: 3 retries, 1s initial,
// 30s cap, multiplier 2, jitter on.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
		Jitter:       true,
	}
}

// Retryable decides whether an error is worth another attempt.
type Retryable func(error) bool

// Retry executes op, reinvoking it up to policy.MaxRetries additional times
// while retryable reports the error as transient. Non-retryable errors
// propagate immediately; the last error is surfaced when retries are
// exhausted. Cancelling ctx stops the schedule between attempts.
func Retry(ctx context.Context, policy Policy, retryable Retryable, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialDelay
	b.MaxInterval = policy.MaxDelay
	b.Multiplier = policy.Multiplier
	// MaxElapsedTime is bounded by the caller's deadline context instead.
	b.MaxElapsedTime = 0
	if policy.Jitter {
		b.RandomizationFactor = 0.25
	} else {
		b.RandomizationFactor = 0
	}

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	err := backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(b, policy.MaxRetries), ctx))
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}
