// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSchema() *Schema {
	s := &Schema{Package: "test", Types: NewTable()}
	s.Types.Add(&CompositeType{
		Name: "messageHeader",
		Subs: []Type{
			&EncodedDataType{Name: "blockLength", Primitive: PrimUint16},
			&EncodedDataType{Name: "templateId", Primitive: PrimUint16},
			&EncodedDataType{Name: "schemaId", Primitive: PrimUint16},
			&EncodedDataType{Name: "version", Primitive: PrimUint16},
		},
	})
	s.Types.Add(&CompositeType{
		Name: "groupSizeEncoding",
		Subs: []Type{
			&EncodedDataType{Name: "blockLength", Primitive: PrimUint16},
			&EncodedDataType{Name: "numInGroup", Primitive: PrimUint16},
		},
	})
	return s
}

func TestValidateFillsHeader(t *testing.T) {
	s := baseSchema()
	require.NoError(t, Validate(s))
	assert.Equal(t, "messageHeader", s.Header.Name)
}

func TestValidateMissingHeaderFails(t *testing.T) {
	s := &Schema{Package: "test", Types: NewTable()}
	assert.Error(t, Validate(s))
}

func TestValidateRejectsSignedDimensionBlockLength(t *testing.T) {
	s := baseSchema()
	s.Types.Composites["groupSizeEncoding"].Subs[0] = &EncodedDataType{Name: "blockLength", Primitive: PrimInt16}
	s.Messages = []*MessageType{{
		Name: "m",
		Groups: []*GroupType{{
			Name: "entries",
		}},
	}}
	assert.Error(t, Validate(s))
}

func TestValidateRejectsMalformedVarData(t *testing.T) {
	s := baseSchema()
	s.Types.Add(&CompositeType{
		Name: "badVarData",
		Subs: []Type{
			&EncodedDataType{Name: "length", Primitive: PrimUint8},
		},
	})
	s.Messages = []*MessageType{{
		Name:    "m",
		VarData: []VariableDataType{{Name: "extra", Composite: "badVarData"}},
	}}
	assert.Error(t, Validate(s))
}

func TestValidateRejectsConstantNonCharNonEnum(t *testing.T) {
	s := baseSchema()
	s.Types.Add(&EncodedDataType{Name: "fixedNum", Primitive: PrimUint32, Presence: Constant})
	s.Messages = []*MessageType{{
		Name: "m",
		Fields: []FieldType{
			{Name: "n", TypeName: "fixedNum", Presence: Constant},
		},
	}}
	assert.Error(t, Validate(s))
}
