// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package composite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/sbegen/schema"
)

func TestPlanCompositeFixedBlock(t *testing.T) {
	tbl := schema.NewTable()
	c := &schema.CompositeType{
		Name: "point",
		Subs: []schema.Type{
			&schema.EncodedDataType{Name: "x", Primitive: schema.PrimInt32},
			&schema.EncodedDataType{Name: "y", Primitive: schema.PrimInt32},
		},
	}
	tbl.Add(c)

	p, err := PlanComposite(c, tbl)
	require.NoError(t, err)
	assert.Equal(t, "Point", p.Name)
	require.Len(t, p.Fields, 2)
	assert.Equal(t, 0, p.Fields[0].Offset)
	assert.Equal(t, 4, p.Fields[1].Offset)
	assert.Equal(t, 8, p.Size)
	assert.Equal(t, KindPrimitive, p.Fields[0].Kind)
}

func TestPlanFieldOptionalUnsignedNullLiteral(t *testing.T) {
	tbl := schema.NewTable()
	maxV := int64(0)
	fp, size, err := planField("n", &schema.EncodedDataType{
		Name: "n", Primitive: schema.PrimUint16, Presence: schema.Optional, MaxValue: &maxV,
	}, tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, size)
	assert.Equal(t, "65535", fp.NullLiteral)
	assert.True(t, fp.HasMax)
}

func TestPlanFieldOptionalFloatUsesNaN(t *testing.T) {
	tbl := schema.NewTable()
	fp, _, err := planField("n", &schema.EncodedDataType{
		Name: "n", Primitive: schema.PrimFloat64, Presence: schema.Optional,
	}, tbl)
	require.NoError(t, err)
	assert.Equal(t, "NaN", fp.NullLiteral)
	assert.True(t, fp.IsFloat)
}

func TestPlanFieldCharConstant(t *testing.T) {
	tbl := schema.NewTable()
	fp, size, err := planField("code", &schema.EncodedDataType{
		Name: "code", Primitive: schema.PrimChar, Presence: schema.Constant, ConstValue: "V",
	}, tbl)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
	assert.Equal(t, KindCharConstant, fp.Kind)
	assert.Equal(t, "V", fp.ConstValue)
}

func TestPlanFieldNonCharConstantRejected(t *testing.T) {
	tbl := schema.NewTable()
	_, _, err := planField("n", &schema.EncodedDataType{
		Name: "n", Primitive: schema.PrimUint32, Presence: schema.Constant,
	}, tbl)
	assert.Error(t, err)
}

func TestPlanFieldStringAndArray(t *testing.T) {
	tbl := schema.NewTable()
	fp, size, err := planField("name", &schema.EncodedDataType{
		Name: "name", Primitive: schema.PrimChar, Length: 16,
	}, tbl)
	require.NoError(t, err)
	assert.Equal(t, 16, size)
	assert.Equal(t, KindString, fp.Kind)

	fp, size, err = planField("coords", &schema.EncodedDataType{
		Name: "coords", Primitive: schema.PrimInt32, Length: 3,
	}, tbl)
	require.NoError(t, err)
	assert.Equal(t, 12, size)
	assert.Equal(t, KindArray, fp.Kind)
}

func TestPlanFieldEnumAndSetAndComposite(t *testing.T) {
	tbl := schema.NewTable()
	e := &schema.EnumType{Name: "model", Primitive: schema.PrimUint8}
	s := &schema.SetType{Name: "flags", Primitive: schema.PrimUint8}
	c := &schema.CompositeType{Name: "point", Subs: []schema.Type{
		&schema.EncodedDataType{Name: "x", Primitive: schema.PrimInt32},
	}}
	tbl.Add(c)

	fp, size, err := planField("m", e, tbl)
	require.NoError(t, err)
	assert.Equal(t, KindEnum, fp.Kind)
	assert.Equal(t, 1, size)
	assert.Equal(t, "Model", fp.EnumName)

	fp, size, err = planField("f", s, tbl)
	require.NoError(t, err)
	assert.Equal(t, KindSet, fp.Kind)
	assert.Equal(t, 1, size)

	fp, size, err = planField("p", c, tbl)
	require.NoError(t, err)
	assert.Equal(t, KindComposite, fp.Kind)
	assert.Equal(t, 4, size)
	assert.Equal(t, "Point", fp.CompositeName)
}

func TestPlanBlockFieldsPrefixSumOffsets(t *testing.T) {
	tbl := schema.NewTable()
	tbl.Add(&schema.EncodedDataType{Name: "uint8Type", Primitive: schema.PrimUint8})
	tbl.Add(&schema.EncodedDataType{Name: "uint32Type", Primitive: schema.PrimUint32})

	fields := []schema.FieldType{
		{Name: "a", TypeName: "uint8Type"},
		{Name: "b", TypeName: "uint32Type"},
	}
	plans, total, err := PlanBlockFields(fields, tbl)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, 0, plans[0].Offset)
	assert.Equal(t, 1, plans[1].Offset)
	assert.Equal(t, 5, total)
}

func TestPlanBlockFieldsConstantEnum(t *testing.T) {
	tbl := schema.NewTable()
	tbl.Add(&schema.EnumType{
		Name:      "model",
		Primitive: schema.PrimChar,
		Values:    []schema.EnumValue{{Name: "A", Literal: 65}},
	})

	fields := []schema.FieldType{
		{Name: "code", TypeName: "model", Presence: schema.Constant, ValueRef: "A"},
	}
	plans, total, err := PlanBlockFields(fields, tbl)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, KindEnumConstant, plans[0].Kind)
	assert.Equal(t, "Model", plans[0].EnumName)
	assert.Equal(t, "A", plans[0].EnumValueName)
	assert.Equal(t, 0, total)
}

func TestPlanConstantEnumFieldUnknownType(t *testing.T) {
	tbl := schema.NewTable()
	_, err := PlanConstantEnumField("code", "missing", "A", tbl)
	assert.Error(t, err)
}
