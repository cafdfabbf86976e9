// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemawatch polls a schema file's modification time and
// re-runs a render callback whenever it changes.
package schemawatch

import (
	"context"
	"os"
	"time"
)

// Poll calls render once immediately, then again every time path's
// mtime advances, checking at the given interval, until ctx is
// cancelled. A render error stops the poll and is returned.
func Poll(ctx context.Context, path string, interval time.Duration, render func() error) error {
	last, err := modTime(path)
	if err != nil {
		return err
	}
	if err := render(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cur, err := modTime(path)
			if err != nil {
				return err
			}
			if !cur.After(last) {
				continue
			}
			last = cur
			if err := render(); err != nil {
				return err
			}
		}
	}
}

func modTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
