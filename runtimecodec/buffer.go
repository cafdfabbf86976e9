// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtimecodec

import (
	"encoding/binary"
	"math"
)

// ReadBuffer is a bounded, non-owning view over a byte slice. Byte
// order is fixed at construction from the schema's declared
// byteOrder; every multi-byte read honours it.
type ReadBuffer struct {
	data  []byte
	order binary.ByteOrder
}

func NewReadBuffer(data []byte, order binary.ByteOrder) *ReadBuffer {
	return &ReadBuffer{data: data, order: order}
}

func (b *ReadBuffer) Len() int { return len(b.data) }

func (b *ReadBuffer) bounds(index, size int) error {
	end := index + size
	if index < 0 || end > len(b.data) {
		return NewCodecOutOfBounds(end, len(b.data))
	}
	return nil
}

func (b *ReadBuffer) GetUint8At(index int) (uint8, error) {
	if err := b.bounds(index, 1); err != nil {
		return 0, err
	}
	return b.data[index], nil
}

func (b *ReadBuffer) GetCharAt(index int) (byte, error) {
	return b.GetUint8At(index)
}

func (b *ReadBuffer) GetInt8At(index int) (int8, error) {
	v, err := b.GetUint8At(index)
	return int8(v), err
}

func (b *ReadBuffer) GetUint16At(index int) (uint16, error) {
	if err := b.bounds(index, 2); err != nil {
		return 0, err
	}
	return b.order.Uint16(b.data[index:]), nil
}

func (b *ReadBuffer) GetInt16At(index int) (int16, error) {
	v, err := b.GetUint16At(index)
	return int16(v), err
}

func (b *ReadBuffer) GetUint32At(index int) (uint32, error) {
	if err := b.bounds(index, 4); err != nil {
		return 0, err
	}
	return b.order.Uint32(b.data[index:]), nil
}

func (b *ReadBuffer) GetInt32At(index int) (int32, error) {
	v, err := b.GetUint32At(index)
	return int32(v), err
}

func (b *ReadBuffer) GetUint64At(index int) (uint64, error) {
	if err := b.bounds(index, 8); err != nil {
		return 0, err
	}
	return b.order.Uint64(b.data[index:]), nil
}

func (b *ReadBuffer) GetInt64At(index int) (int64, error) {
	v, err := b.GetUint64At(index)
	return int64(v), err
}

func (b *ReadBuffer) GetFloat32At(index int) (float32, error) {
	v, err := b.GetUint32At(index)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (b *ReadBuffer) GetFloat64At(index int) (float64, error) {
	v, err := b.GetUint64At(index)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// GetSliceAt returns a view of n bytes starting at index, sharing the
// backing memory.
func (b *ReadBuffer) GetSliceAt(index, n int) ([]byte, error) {
	if err := b.bounds(index, n); err != nil {
		return nil, err
	}
	return b.data[index : index+n], nil
}

// SplitAt returns two independent sub-views sharing the backing
// memory, split at index.
func (b *ReadBuffer) SplitAt(index int) (*ReadBuffer, *ReadBuffer, error) {
	if err := b.bounds(index, 0); err != nil {
		return nil, nil, err
	}
	return &ReadBuffer{data: b.data[:index], order: b.order}, &ReadBuffer{data: b.data[index:], order: b.order}, nil
}

// WriteBuffer is a bounded, non-owning mutable view over a byte
// slice, mirroring ReadBuffer.
type WriteBuffer struct {
	data  []byte
	order binary.ByteOrder
}

func NewWriteBuffer(data []byte, order binary.ByteOrder) *WriteBuffer {
	return &WriteBuffer{data: data, order: order}
}

func (b *WriteBuffer) Len() int { return len(b.data) }

func (b *WriteBuffer) bounds(index, size int) error {
	end := index + size
	if index < 0 || end > len(b.data) {
		return NewCodecOutOfBounds(end, len(b.data))
	}
	return nil
}

func (b *WriteBuffer) PutUint8At(index int, v uint8) error {
	if err := b.bounds(index, 1); err != nil {
		return err
	}
	b.data[index] = v
	return nil
}

func (b *WriteBuffer) PutCharAt(index int, v byte) error {
	return b.PutUint8At(index, v)
}

func (b *WriteBuffer) PutInt8At(index int, v int8) error {
	return b.PutUint8At(index, uint8(v))
}

func (b *WriteBuffer) PutUint16At(index int, v uint16) error {
	if err := b.bounds(index, 2); err != nil {
		return err
	}
	b.order.PutUint16(b.data[index:], v)
	return nil
}

func (b *WriteBuffer) PutInt16At(index int, v int16) error {
	return b.PutUint16At(index, uint16(v))
}

func (b *WriteBuffer) PutUint32At(index int, v uint32) error {
	if err := b.bounds(index, 4); err != nil {
		return err
	}
	b.order.PutUint32(b.data[index:], v)
	return nil
}

func (b *WriteBuffer) PutInt32At(index int, v int32) error {
	return b.PutUint32At(index, uint32(v))
}

func (b *WriteBuffer) PutUint64At(index int, v uint64) error {
	if err := b.bounds(index, 8); err != nil {
		return err
	}
	b.order.PutUint64(b.data[index:], v)
	return nil
}

func (b *WriteBuffer) PutInt64At(index int, v int64) error {
	return b.PutUint64At(index, uint64(v))
}

func (b *WriteBuffer) PutFloat32At(index int, v float32) error {
	return b.PutUint32At(index, math.Float32bits(v))
}

func (b *WriteBuffer) PutFloat64At(index int, v float64) error {
	return b.PutUint64At(index, math.Float64bits(v))
}

func (b *WriteBuffer) PutSliceAt(index int, v []byte) error {
	if err := b.bounds(index, len(v)); err != nil {
		return err
	}
	copy(b.data[index:], v)
	return nil
}

// SplitAtMut returns two independent mutable sub-views sharing the
// backing memory, split at index.
func (b *WriteBuffer) SplitAtMut(index int) (*WriteBuffer, *WriteBuffer, error) {
	if err := b.bounds(index, 0); err != nil {
		return nil, nil, err
	}
	return &WriteBuffer{data: b.data[:index], order: b.order}, &WriteBuffer{data: b.data[index:], order: b.order}, nil
}

// IsFloatNull32 reports whether v is the reserved NaN null sentinel
// for an optional float field. Callers must use this instead of
// equality, since NaN never compares equal to itself.
func IsFloatNull32(v float32) bool { return math.IsNaN(float64(v)) }
func IsFloatNull64(v float64) bool { return math.IsNaN(v) }
