// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtimecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorConstructorsSetKindAndMessage(t *testing.T) {
	cases := []struct {
		name string
		err  *SbeError
		kind Kind
	}{
		{"InvalidStringValue", NewInvalidStringValue("bad"), KindInvalidStringValue},
		{"InvalidEnumValue", NewInvalidEnumValue("Model", 9), KindInvalidEnumValue},
		{"ValueOutOfBounds", NewValueOutOfBounds("price", "too big"), KindValueOutOfBounds},
		{"WrongSliceSize", NewWrongSliceSize("want 4, got 2"), KindWrongSliceSize},
		{"MissingGroupSize", NewMissingGroupSize("entries"), KindMissingGroupSize},
		{"MissingVarDataSize", NewMissingVarDataSize("note"), KindMissingVarDataSize},
		{"GroupOutOfBounds", NewGroupOutOfBounds("entries"), KindGroupOutOfBounds},
		{"VarDataOutOfBounds", NewVarDataOutOfBounds("note"), KindVarDataOutOfBounds},
		{"WrongMessageType", NewWrongMessageType(2, 1), KindWrongMessageType},
		{"CodecOutOfBounds", NewCodecOutOfBounds(8, 4), KindCodecOutOfBounds},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.kind, c.err.Kind)
			assert.NotEmpty(t, c.err.Error())
		})
	}
}
