// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package python

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solidcoredata/sbegen/schema"
)

func TestStructChar(t *testing.T) {
	assert.Equal(t, "B", structChar(schema.PrimUint8))
	assert.Equal(t, "h", structChar(schema.PrimInt16))
	assert.Equal(t, "I", structChar(schema.PrimUint32))
	assert.Equal(t, "q", structChar(schema.PrimInt64))
	assert.Equal(t, "d", structChar(schema.PrimFloat64))
}

func TestOrderPrefix(t *testing.T) {
	assert.Equal(t, "<", orderPrefix(schema.LittleEndian))
	assert.Equal(t, ">", orderPrefix(schema.BigEndian))
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "fuel_figures", snakeCase("FuelFigures"))
	assert.Equal(t, "model", snakeCase("model"))
	assert.Equal(t, "some_nested_thing", snakeCase("some-nested/thing"))
}

func TestPyNullLiteralFloat(t *testing.T) {
	fp := pyFieldPlan{IsFloat: true}
	assert.Equal(t, "float('nan')", pyNullLiteral(fp))
}

func TestPyNullLiteralNonFloat(t *testing.T) {
	fp := pyFieldPlan{NullLiteral: "255"}
	assert.Equal(t, "255", pyNullLiteral(fp))
}
