// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schemawatch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollRendersOnceImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Poll(ctx, path, 5*time.Millisecond, func() error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestPollRerendersOnModification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Poll(ctx, path, 5*time.Millisecond, func() error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
	}()

	time.Sleep(15 * time.Millisecond)
	future := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	time.Sleep(30 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestPollMissingFileErrors(t *testing.T) {
	err := Poll(context.Background(), filepath.Join(t.TempDir(), "missing.json"), time.Millisecond, func() error {
		return nil
	})
	assert.Error(t, err)
}

func TestPollPropagatesRenderError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	err := Poll(context.Background(), path, time.Millisecond, func() error {
		return assert.AnError
	})
	assert.Error(t, err)
}
