// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/sbegen/schema"
)

func TestGenerateLittleEndian(t *testing.T) {
	out, err := Generate("buffer", "github.com/solidcoredata/sbegen/runtimecodec", schema.LittleEndian)
	require.NoError(t, err)
	src := string(out)
	assert.Contains(t, src, "package buffer")
	assert.Contains(t, src, "binary.ByteOrder = binary.LittleEndian")
}

func TestGenerateBigEndian(t *testing.T) {
	out, err := Generate("buffer", "github.com/solidcoredata/sbegen/runtimecodec", schema.BigEndian)
	require.NoError(t, err)
	assert.Contains(t, string(out), "binary.ByteOrder = binary.BigEndian")
}
