// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vardata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/sbegen/schema"
)

func backingComposite(elemPrim schema.Primitive) *schema.CompositeType {
	return &schema.CompositeType{
		Name: "varStringEncoding",
		Subs: []schema.Type{
			&schema.EncodedDataType{Name: "length", Primitive: schema.PrimUint8},
			&schema.EncodedDataType{Name: "varData", Primitive: elemPrim},
		},
	}
}

func TestGenerateCharVarData(t *testing.T) {
	vd := &schema.VariableDataType{Name: "manufacturer", Composite: "varStringEncoding"}
	out, err := Generate(vd, backingComposite(schema.PrimChar), "github.com/solidcoredata/sbegen/runtimecodec")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "ManufacturerLengthPrefixSize = 1")
	assert.Contains(t, src, "ManufacturerElementSize = 1")
	assert.Contains(t, src, "func (d *ManufacturerDecoder) GetSliceAt(i, n int) ([]byte, error)")
	assert.Contains(t, src, "func (e *ManufacturerEncoder) Finalize() error")
}

func TestGenerateNonByteElementHasNoSliceAccessor(t *testing.T) {
	vd := &schema.VariableDataType{Name: "samples", Composite: "varIntEncoding"}
	out, err := Generate(vd, backingComposite(schema.PrimInt32), "github.com/solidcoredata/sbegen/runtimecodec")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "GetSliceAt")
}

func TestGenerateRejectsWrongSubFieldCount(t *testing.T) {
	vd := &schema.VariableDataType{Name: "bad", Composite: "badEncoding"}
	backing := &schema.CompositeType{Name: "badEncoding", Subs: []schema.Type{
		&schema.EncodedDataType{Name: "length", Primitive: schema.PrimUint8},
	}}
	_, err := Generate(vd, backing, "github.com/solidcoredata/sbegen/runtimecodec")
	assert.Error(t, err)
}
