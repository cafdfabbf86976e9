// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFindType(t *testing.T) {
	tbl := NewTable()
	enc := &EncodedDataType{Name: "engineCapacity", Primitive: PrimUint16}
	tbl.Add(enc)

	got, ok := tbl.FindType("engineCapacity")
	require.True(t, ok)
	assert.Same(t, enc, got)

	_, ok = tbl.FindType("missing")
	assert.False(t, ok)
}

func TestTableAddCompositeRegistersSubs(t *testing.T) {
	tbl := NewTable()
	c := &CompositeType{
		Name: "point",
		Subs: []Type{
			&EncodedDataType{Name: "x", Primitive: PrimInt32},
			&EncodedDataType{Name: "y", Primitive: PrimInt32},
		},
	}
	tbl.Add(c)

	_, ok := tbl.FindType("point")
	assert.True(t, ok)
	_, ok = tbl.FindType("x")
	assert.True(t, ok)
	_, ok = tbl.FindType("y")
	assert.True(t, ok)
}

func TestTableResolveTypeFollowsChain(t *testing.T) {
	tbl := NewTable()
	tbl.Add(&EncodedDataType{Name: "engineCapacity", Primitive: PrimUint16})
	tbl.References["capacity"] = &ReferenceType{Name: "capacity", Target: "engineCapacity"}

	resolved, err := tbl.ResolveType(&ReferenceType{Name: "capacity", Target: "engineCapacity"})
	require.NoError(t, err)
	enc, ok := resolved.(*EncodedDataType)
	require.True(t, ok)
	assert.Equal(t, "engineCapacity", enc.Name)
}

func TestTableResolvedFollowsReference(t *testing.T) {
	tbl := NewTable()
	tbl.Add(&EncodedDataType{Name: "engineCapacity", Primitive: PrimUint16})

	p, err := tbl.Resolved(NativeType{Reference: "engineCapacity"})
	require.NoError(t, err)
	assert.Equal(t, PrimUint16, p)

	_, err = tbl.Resolved(NativeType{Reference: "doesNotExist"})
	assert.Error(t, err)
}

func TestTableIterValuesPreservesDeclarationOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Add(&EnumType{Name: "model", Primitive: PrimUint8})
	tbl.Add(&EncodedDataType{Name: "engineCapacity", Primitive: PrimUint16})

	var names []string
	for _, v := range tbl.IterValues() {
		names = append(names, v.TypeName())
	}
	assert.Equal(t, []string{"model", "engineCapacity"}, names)
}
