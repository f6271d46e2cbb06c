/*
 * Copyright (C) 2025-2026, Urumi AI. All rights reserved.
 * See LICENSE for license information.
 */

package deadline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	commonerrors "github.com/kshitizz36/Urumi-AI/pkg/errors"
)

func TestRemainingAndExpired(t *testing.T) {
	d := New(time.Hour)
	assert.False(t, d.Expired())
	assert.Greater(t, d.Remaining(), 59*time.Minute)
	assert.NoError(t, d.Check())

	expired := New(-time.Second)
	assert.True(t, expired.Expired())
	assert.Equal(t, time.Duration(0), expired.Remaining())

	err := expired.Check()
	assert.Error(t, err)
	assert.True(t, commonerrors.IsDeadlineExceeded(err))
}

func TestWrapPassesThroughResult(t *testing.T) {
	d := New(time.Hour)
	assert.NoError(t, d.Wrap(context.Background(), "noop", func(ctx context.Context) error {
		return nil
	}))

	opErr := errors.New("boom")
	err := d.Wrap(context.Background(), "failing", func(ctx context.Context) error {
		return opErr
	})
	assert.ErrorIs(t, err, opErr)
}

func TestWrapTimesOutSlowOperation(t *testing.T) {
	d := New(30 * time.Millisecond)
	start := time.Now()
	err := d.Wrap(context.Background(), "slow", func(ctx context.Context) error {
		// Ignores its context on purpose.
		time.Sleep(5 * time.Second)
		return nil
	})
	assert.True(t, commonerrors.IsDeadlineExceeded(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestWrapRefusesWhenAlreadyExpired(t *testing.T) {
	d := New(-time.Second)
	called := false
	err := d.Wrap(context.Background(), "never", func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.True(t, commonerrors.IsDeadlineExceeded(err))
	assert.False(t, called)
}

func TestWrapPropagatesCancellation(t *testing.T) {
	d := New(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Wrap(ctx, "cancelled", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}
