// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/sbegen/schema"
)

func TestGenerateSet(t *testing.T) {
	s := &schema.SetType{
		Name:      "optionalExtras",
		Primitive: schema.PrimUint8,
		Choices: []schema.Choice{
			{Name: "sunRoof", Bit: 0},
			{Name: "sportsPack", Bit: 1},
		},
	}
	out, err := Generate(s)
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "type OptionalExtras uint8")
	assert.Contains(t, src, "OptionalExtrasBitSunRoof = 0")
	assert.Contains(t, src, "func (v OptionalExtras) GetSunRoof() bool")
	assert.Contains(t, src, "func (v OptionalExtras) SetSportsPack(on bool) OptionalExtras")
	assert.Contains(t, src, "func (v OptionalExtras) Clear() OptionalExtras")
}
