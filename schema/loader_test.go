// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const carSchemaJSON = `{
	"package": "baseline.car",
	"id": 1,
	"version": 0,
	"semanticVersion": "5.2",
	"byteOrder": "littleEndian",
	"headerType": "messageHeader",
	"types": [
		{"kind": "composite", "name": "messageHeader", "members": [
			{"name": "blockLength", "primitiveType": "uint16"},
			{"name": "templateId", "primitiveType": "uint16"},
			{"name": "schemaId", "primitiveType": "uint16"},
			{"name": "version", "primitiveType": "uint16"}
		]},
		{"kind": "composite", "name": "groupSizeEncoding", "members": [
			{"name": "blockLength", "primitiveType": "uint16"},
			{"name": "numInGroup", "primitiveType": "uint16"}
		]},
		{"kind": "composite", "name": "varStringEncoding", "members": [
			{"name": "length", "primitiveType": "uint8"},
			{"name": "varData", "primitiveType": "uint8"}
		]},
		{"kind": "enum", "name": "model", "encodingType": "char", "validValues": [
			{"name": "A", "value": 65},
			{"name": "B", "value": 66}
		]},
		{"kind": "set", "name": "optionalExtras", "encodingType": "uint8", "choices": [
			{"name": "sunRoof", "value": 0},
			{"name": "sportsPack", "value": 1},
			{"name": "cruiseControl", "value": 2}
		]}
	],
	"messages": [
		{"name": "car", "id": 1, "fields": [
			{"kind": "field", "name": "serialNumber", "id": 1, "type": "uint64"},
			{"kind": "field", "name": "modelYear", "id": 2, "type": "uint16"},
			{"kind": "field", "name": "code", "id": 3, "type": "model"},
			{"kind": "field", "name": "extras", "id": 4, "type": "optionalExtras"},
			{"kind": "data", "name": "manufacturer", "id": 5, "type": "varStringEncoding"}
		]}
	]
}`

func TestLoadJSONCarSchema(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(carSchemaJSON), &doc))

	sch, err := LoadJSON(doc)
	require.NoError(t, err)

	assert.Equal(t, "car", sch.Package)
	assert.Equal(t, 1, sch.ID)
	assert.Equal(t, "5.2.0", sch.SemanticVer)
	assert.Equal(t, LittleEndian, sch.ByteOrder)
	require.NotNil(t, sch.Header)
	assert.Equal(t, "messageHeader", sch.Header.Name)

	require.Len(t, sch.Messages, 1)
	msg := sch.Messages[0]
	assert.Equal(t, "car", msg.Name)
	assert.Equal(t, 1, msg.TemplateID)
	require.Len(t, msg.Fields, 4)
	require.Len(t, msg.VarData, 1)
	assert.Equal(t, "varStringEncoding", msg.VarData[0].Composite)

	enumType, ok := sch.Types.Enums["model"]
	require.True(t, ok)
	assert.Len(t, enumType.Values, 2)

	setType, ok := sch.Types.Sets["optionalExtras"]
	require.True(t, ok)
	assert.Len(t, setType.Choices, 3)
}

func TestLoadJSONRejectsUnknownByteOrder(t *testing.T) {
	doc := map[string]interface{}{
		"package":   "x",
		"byteOrder": "middleEndian",
	}
	_, err := LoadJSON(doc)
	assert.Error(t, err)
}

func TestLoadJSONRejectsMissingHeader(t *testing.T) {
	doc := map[string]interface{}{
		"package": "x",
	}
	_, err := LoadJSON(doc)
	assert.Error(t, err)
}
