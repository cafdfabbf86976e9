// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/sbegen/schema"
)

func TestGenerateRuntime(t *testing.T) {
	src := string(GenerateRuntime())
	assert.Contains(t, src, "class SbeError(Exception)")
	assert.Contains(t, src, "def is_float_null(v: float) -> bool")
}

func TestGenerateEnumPython(t *testing.T) {
	e := &schema.EnumType{
		Name:      "model",
		Primitive: schema.PrimUint8,
		Values:    []schema.EnumValue{{Name: "a", Literal: 1}},
	}
	src := string(GenerateEnum(e))
	assert.Contains(t, src, "class Model(enum.IntEnum):")
	assert.Contains(t, src, "A = 1")
	assert.Contains(t, src, "NULL_VAL = 0xFF")
}

func TestGenerateSetPython(t *testing.T) {
	s := &schema.SetType{
		Name:      "optionalExtras",
		Primitive: schema.PrimUint8,
		Choices:   []schema.Choice{{Name: "sunRoof", Bit: 0}},
	}
	src := string(GenerateSet(s))
	assert.Contains(t, src, "class OptionalExtras(enum.IntFlag):")
	assert.Contains(t, src, "SunRoof = 1 << 0")
}

func TestGenerateCompositePython(t *testing.T) {
	tbl := schema.NewTable()
	c := &schema.CompositeType{
		Name: "point",
		Subs: []schema.Type{
			&schema.EncodedDataType{Name: "x", Primitive: schema.PrimInt32},
			&schema.EncodedDataType{Name: "y", Primitive: schema.PrimInt32},
		},
	}
	tbl.Add(c)

	out, err := GenerateComposite(c, tbl, schema.LittleEndian, "enums", "sets")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "class Point:")
	assert.Contains(t, src, "def read_from(cls, buf: bytes, offset: int)")
	assert.Contains(t, src, "def write_to(self, buf: bytearray, offset: int)")
	assert.Contains(t, src, `_ORDER = "<"`)
}

func TestGenerateCompositePythonHashExcludesFloatFields(t *testing.T) {
	tbl := schema.NewTable()
	c := &schema.CompositeType{
		Name: "reading",
		Subs: []schema.Type{
			&schema.EncodedDataType{Name: "id", Primitive: schema.PrimInt32},
			&schema.EncodedDataType{Name: "value", Primitive: schema.PrimFloat64},
		},
	}
	tbl.Add(c)

	out, err := GenerateComposite(c, tbl, schema.LittleEndian, "enums", "sets")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "def __hash__(self):")
	assert.Contains(t, src, "return hash((self.id,))")
}

func TestGenerateMessagePythonWritesSchemaIDAndVersion(t *testing.T) {
	tbl := schema.NewTable()
	header := &schema.CompositeType{
		Name: "messageHeader",
		Subs: []schema.Type{
			&schema.EncodedDataType{Name: "blockLength", Primitive: schema.PrimUint16},
			&schema.EncodedDataType{Name: "templateId", Primitive: schema.PrimUint16},
			&schema.EncodedDataType{Name: "schemaId", Primitive: schema.PrimUint16},
			&schema.EncodedDataType{Name: "version", Primitive: schema.PrimUint16},
		},
	}
	tbl.Add(header)
	tbl.Add(&schema.EncodedDataType{Name: "uint64Type", Primitive: schema.PrimUint64})
	m := &schema.MessageType{
		Name:       "car",
		TemplateID: 1,
		Fields:     []schema.FieldType{{Name: "serialNumber", TypeName: "uint64Type"}},
	}

	out, err := GenerateMessage(m, header, tbl, schema.LittleEndian, 7, 3, "enums", "sets", "composites", "groups", "vardata")
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "SCHEMA_ID = 7")
	assert.Contains(t, src, "SCHEMA_VERSION = 3")
	assert.Contains(t, src, "self.TEMPLATE_ID, self.SCHEMA_ID, self.SCHEMA_VERSION)")
}
