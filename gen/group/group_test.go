// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/sbegen/schema"
)

func newTestTable() *schema.Table {
	tbl := schema.NewTable()
	tbl.Add(&schema.CompositeType{
		Name: "groupSizeEncoding",
		Subs: []schema.Type{
			&schema.EncodedDataType{Name: "blockLength", Primitive: schema.PrimUint16},
			&schema.EncodedDataType{Name: "numInGroup", Primitive: schema.PrimUint16},
		},
	})
	tbl.Add(&schema.EncodedDataType{Name: "uint32Type", Primitive: schema.PrimUint32})
	tbl.Add(&schema.CompositeType{
		Name: "point",
		Subs: []schema.Type{&schema.EncodedDataType{Name: "x", Primitive: schema.PrimInt32}},
	})
	return tbl
}

func TestGenerateGroupBasic(t *testing.T) {
	tbl := newTestTable()
	g := &schema.GroupType{
		Name:   "entries",
		Fields: []schema.FieldType{{Name: "price", TypeName: "uint32Type"}},
	}

	out, err := Generate(g, tbl, "groupSizeEncoding",
		"github.com/solidcoredata/sbegen/runtimecodec", "enumsimport", "setsimport", "compositesimport", "vardataimport")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "package groups")
	assert.Contains(t, src, "func NewEntriesDecoder(buf *runtimecodec.ReadBuffer, dimOffset int) (*EntriesDecoder, error)")
	assert.Contains(t, src, "func (d *EntriesDecoder) Price() (uint32, error)")
	assert.NotContains(t, src, `"compositesimport"`)
}

func TestGenerateGroupWithCompositeFieldImportsCompositesPackage(t *testing.T) {
	tbl := newTestTable()
	point := tbl.Composites["point"]
	g := &schema.GroupType{
		Name:   "entries",
		Fields: []schema.FieldType{{Name: "location", TypeName: "point"}},
	}
	_ = point

	out, err := Generate(g, tbl, "groupSizeEncoding",
		"github.com/solidcoredata/sbegen/runtimecodec", "", "", "myproj/composites", "")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, `"myproj/composites"`)
	assert.Contains(t, src, "func(*composites.PointDecoder) error) error")
}

func TestGenerateGroupNestedGroupAndVarData(t *testing.T) {
	tbl := newTestTable()
	g := &schema.GroupType{
		Name:   "orders",
		Fields: []schema.FieldType{{Name: "qty", TypeName: "uint32Type"}},
		Groups: []*schema.GroupType{{Name: "legs"}},
		VarData: []schema.VariableDataType{{Name: "note", Composite: "varStringEncoding"}},
	}

	out, err := Generate(g, tbl, "groupSizeEncoding",
		"github.com/solidcoredata/sbegen/runtimecodec", "", "", "", "myproj/vardata")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "func (d *OrdersDecoder) Legs(fn func(*LegsDecoder) error) error")
	assert.Contains(t, src, "func (d *OrdersDecoder) Note(fn func(*vardata.NoteDecoder) error) error")
	assert.Contains(t, src, `"myproj/vardata"`)
}

func TestGenerateGroupRejectsUnknownDimension(t *testing.T) {
	tbl := schema.NewTable()
	g := &schema.GroupType{Name: "entries"}
	_, err := Generate(g, tbl, "missingDimension", "rt", "", "", "", "")
	assert.Error(t, err)
}
