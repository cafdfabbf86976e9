// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtimecodec

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	w := NewWriteBuffer(buf, binary.LittleEndian)
	require.NoError(t, w.PutUint32At(0, 0xDEADBEEF))
	require.NoError(t, w.PutInt16At(4, -42))
	require.NoError(t, w.PutFloat64At(8, 3.5))

	r := NewReadBuffer(buf, binary.LittleEndian)
	v32, err := r.GetUint32At(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), v32)

	v16, err := r.GetInt16At(4)
	require.NoError(t, err)
	assert.Equal(t, int16(-42), v16)

	vf, err := r.GetFloat64At(8)
	require.NoError(t, err)
	assert.Equal(t, 3.5, vf)
}

func TestOutOfBoundsReturnsSbeError(t *testing.T) {
	r := NewReadBuffer(make([]byte, 2), binary.LittleEndian)
	_, err := r.GetUint32At(0)
	require.Error(t, err)
	sbeErr, ok := err.(*SbeError)
	require.True(t, ok)
	assert.Equal(t, KindCodecOutOfBounds, sbeErr.Kind)
}

func TestSplitAt(t *testing.T) {
	r := NewReadBuffer([]byte{1, 2, 3, 4}, binary.LittleEndian)
	left, right, err := r.SplitAt(2)
	require.NoError(t, err)
	assert.Equal(t, 2, left.Len())
	assert.Equal(t, 2, right.Len())
}

func TestIsFloatNull(t *testing.T) {
	assert.True(t, IsFloatNull32(float32(math.NaN())))
	assert.False(t, IsFloatNull32(1.0))
	assert.True(t, IsFloatNull64(math.NaN()))
	assert.False(t, IsFloatNull64(0))
}

func TestBigEndianByteOrder(t *testing.T) {
	buf := make([]byte, 4)
	w := NewWriteBuffer(buf, binary.BigEndian)
	require.NoError(t, w.PutUint32At(0, 1))
	assert.Equal(t, []byte{0, 0, 0, 1}, buf)
}
