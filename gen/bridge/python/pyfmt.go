// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package python is the bridged backend's wrapper emitter: for the
// bridged target, Assemble additionally invokes this package to
// produce a layer of plain-data Python objects over the native codec's
// data model.
//
// The wrapper objects serialise themselves directly with the standard
// library struct module rather than binding to the generated Go
// codec through a foreign-function boundary: FFI tooling and
// build-system glue are out of scope, so the wrapper carries its own
// compact pack/unpack logic derived from the same schema.Table the
// native backend uses, keeping the two backends bit-exact without
// inventing a binding mechanism.
package python

import (
	"github.com/solidcoredata/sbegen/gen/composite"
	"github.com/solidcoredata/sbegen/schema"
)

// pyFieldPlan is composite.FieldPlan: the bridge emitter reuses the
// exact same resolved field metadata (offsets, kinds, null literals)
// that drives the native composite/group/message emitters, so the two
// backends can never disagree about layout.
type pyFieldPlan = composite.FieldPlan

// structChar returns the Python struct module format character for a
// primitive, independent of byte order.
func structChar(p schema.Primitive) string {
	switch p {
	case schema.PrimChar, schema.PrimUint8:
		return "B"
	case schema.PrimInt8:
		return "b"
	case schema.PrimUint16:
		return "H"
	case schema.PrimInt16:
		return "h"
	case schema.PrimUint32:
		return "I"
	case schema.PrimInt32:
		return "i"
	case schema.PrimUint64:
		return "Q"
	case schema.PrimInt64:
		return "q"
	case schema.PrimFloat32:
		return "f"
	case schema.PrimFloat64:
		return "d"
	}
	return "B"
}

// orderPrefix returns the struct module byte-order prefix baked into
// every pack/unpack call emitted for a schema.
func orderPrefix(order schema.ByteOrder) string {
	if order == schema.BigEndian {
		return ">"
	}
	return "<"
}

func pyFalse(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func pyIdent(export string) string {
	return export
}

func snakeCase(name string) string {
	var out []byte
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			out = append(out, c-'A'+'a')
			continue
		}
		if c == '-' || c == '/' {
			out = append(out, '_')
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

func pyNullLiteral(fp pyFieldPlan) string {
	if fp.IsFloat {
		return "float('nan')"
	}
	return fp.NullLiteral
}
