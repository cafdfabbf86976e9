// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package genutil holds the small amount of naming/formatting logic
// shared by every per-construct emitter in gen/.
package genutil

import (
	"strings"
	"unicode"

	"github.com/solidcoredata/sbegen/schema"
)

// Export turns a schema-declared lowerCamel or snake_case name into an
// exported Go identifier.
func Export(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '/':
			upperNext = true
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GoPrimitive maps a schema primitive to its Go base type.
func GoPrimitive(p schema.Primitive) string {
	switch p {
	case schema.PrimChar:
		return "byte"
	case schema.PrimUint8:
		return "uint8"
	case schema.PrimUint16:
		return "uint16"
	case schema.PrimUint32:
		return "uint32"
	case schema.PrimUint64:
		return "uint64"
	case schema.PrimInt8:
		return "int8"
	case schema.PrimInt16:
		return "int16"
	case schema.PrimInt32:
		return "int32"
	case schema.PrimInt64:
		return "int64"
	case schema.PrimFloat32:
		return "float32"
	case schema.PrimFloat64:
		return "float64"
	}
	return "byte"
}

// AccessorSuffix maps a schema primitive to the Get/Put method suffix
// used by runtimecodec's buffer primitives (GetUint32At, PutInt8At, ...).
func AccessorSuffix(p schema.Primitive) string {
	switch p {
	case schema.PrimChar:
		return "Char"
	case schema.PrimUint8:
		return "Uint8"
	case schema.PrimUint16:
		return "Uint16"
	case schema.PrimUint32:
		return "Uint32"
	case schema.PrimUint64:
		return "Uint64"
	case schema.PrimInt8:
		return "Int8"
	case schema.PrimInt16:
		return "Int16"
	case schema.PrimInt32:
		return "Int32"
	case schema.PrimInt64:
		return "Int64"
	case schema.PrimFloat32:
		return "Float32"
	case schema.PrimFloat64:
		return "Float64"
	}
	return "Uint8"
}
