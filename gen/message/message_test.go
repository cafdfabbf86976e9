// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/sbegen/schema"
)

func testHeader() *schema.CompositeType {
	return &schema.CompositeType{
		Name: "messageHeader",
		Subs: []schema.Type{
			&schema.EncodedDataType{Name: "blockLength", Primitive: schema.PrimUint16},
			&schema.EncodedDataType{Name: "templateId", Primitive: schema.PrimUint16},
			&schema.EncodedDataType{Name: "schemaId", Primitive: schema.PrimUint16},
			&schema.EncodedDataType{Name: "version", Primitive: schema.PrimUint16},
		},
	}
}

func newMessageTestTable() *schema.Table {
	tbl := schema.NewTable()
	tbl.Add(&schema.EncodedDataType{Name: "uint64Type", Primitive: schema.PrimUint64})
	tbl.Add(&schema.CompositeType{
		Name: "point",
		Subs: []schema.Type{&schema.EncodedDataType{Name: "x", Primitive: schema.PrimInt32}},
	})
	return tbl
}

func TestGenerateMessageBasic(t *testing.T) {
	tbl := newMessageTestTable()
	m := &schema.MessageType{
		Name:       "car",
		TemplateID: 1,
		Fields:     []schema.FieldType{{Name: "serialNumber", TypeName: "uint64Type"}},
	}

	out, err := Generate(m, testHeader(), tbl, "github.com/solidcoredata/sbegen/runtimecodec", "", "", "", "", "")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "package messages")
	assert.Contains(t, src, "const CarTemplateID = 1")
	assert.Contains(t, src, "func NewCarDecoder(buf *runtimecodec.ReadBuffer, msgOffset int) (*CarDecoder, error)")
	assert.Contains(t, src, "runtimecodec.NewWrongMessageType(int(tid), CarTemplateID)")
	assert.Contains(t, src, "func (d *CarDecoder) SerialNumber() (uint64, error)")
}

func TestGenerateMessageWithCompositeFieldImportsCompositesPackage(t *testing.T) {
	tbl := newMessageTestTable()
	m := &schema.MessageType{
		Name:       "car",
		TemplateID: 1,
		Fields:     []schema.FieldType{{Name: "location", TypeName: "point"}},
	}

	out, err := Generate(m, testHeader(), tbl, "github.com/solidcoredata/sbegen/runtimecodec", "", "", "myproj/composites", "", "")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, `"myproj/composites"`)
	assert.Contains(t, src, "func(*composites.PointDecoder) error) error")
}

func TestGenerateMessageWithGroupAndVarData(t *testing.T) {
	tbl := newMessageTestTable()
	m := &schema.MessageType{
		Name:       "car",
		TemplateID: 1,
		Groups:     []*schema.GroupType{{Name: "fuelFigures"}},
		VarData:    []schema.VariableDataType{{Name: "manufacturer", Composite: "varStringEncoding"}},
	}

	out, err := Generate(m, testHeader(), tbl, "github.com/solidcoredata/sbegen/runtimecodec", "", "", "", "myproj/groups", "myproj/vardata")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "func (d *CarDecoder) FuelFigures(fn func(*groups.FuelFiguresDecoder) error) error")
	assert.Contains(t, src, "func (d *CarDecoder) Manufacturer(fn func(*vardata.ManufacturerDecoder) error) error")
	assert.Contains(t, src, `"myproj/groups"`)
	assert.Contains(t, src, `"myproj/vardata"`)
}

func TestGenerateMessageRejectsShortHeader(t *testing.T) {
	tbl := newMessageTestTable()
	m := &schema.MessageType{Name: "car", TemplateID: 1}
	badHeader := &schema.CompositeType{Name: "messageHeader", Subs: []schema.Type{
		&schema.EncodedDataType{Name: "blockLength", Primitive: schema.PrimUint16},
	}}
	_, err := Generate(m, badHeader, tbl, "rt", "", "", "", "", "")
	assert.Error(t, err)
}
