// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sizeof is the numeric backbone of every emitter: a pure
// function over the schema model answering "what is the byte size of
// this construct" and, composed, "what is the offset of field F
// within container C".
package sizeof

import (
	"fmt"

	"github.com/solidcoredata/sbegen/schema"
)

// Size computes the encoded byte size of t.
func Size(t schema.Type, tbl *schema.Table) (int, error) {
	switch v := t.(type) {
	case *schema.EncodedDataType:
		return encodedSize(v)
	case *schema.EnumType:
		return v.Primitive.Size(), nil
	case *schema.SetType:
		return v.Primitive.Size(), nil
	case *schema.CompositeType:
		return compositeSize(v, tbl)
	case *schema.ReferenceType:
		target, err := tbl.ResolveType(v)
		if err != nil {
			return 0, err
		}
		return Size(target, tbl)
	default:
		return 0, fmt.Errorf("sizeof: unsupported type %T", t)
	}
}

func encodedSize(e *schema.EncodedDataType) (int, error) {
	if e.Presence == schema.Constant {
		return 0, nil
	}
	width := e.Primitive.Size()
	if e.Length > 0 {
		return width * e.Length, nil
	}
	if e.Primitive == schema.PrimChar && e.DefaultString != "" {
		n := len(e.DefaultString)
		if n < 1 {
			n = 1
		}
		return n, nil
	}
	return width, nil
}

func compositeSize(c *schema.CompositeType, tbl *schema.Table) (int, error) {
	total := 0
	for _, sub := range c.Subs {
		n, err := Size(sub, tbl)
		if err != nil {
			return 0, fmt.Errorf("composite %q: %w", c.Name, err)
		}
		total += n
	}
	return total, nil
}

// Offset returns the byte offset of the named sub-field within a
// composite: the prefix-sum of prior siblings' sizes.
func Offset(container *schema.CompositeType, fieldName string, tbl *schema.Table) (int, error) {
	offset := 0
	for _, sub := range container.Subs {
		if sub.TypeName() == fieldName {
			return offset, nil
		}
		n, err := Size(sub, tbl)
		if err != nil {
			return 0, err
		}
		offset += n
	}
	return 0, fmt.Errorf("sizeof: %q has no sub-field %q", container.Name, fieldName)
}

// DimensionSize returns the header overhead prepended to every group
// instance: the size of its dimension composite.
func DimensionSize(dim *schema.CompositeType, tbl *schema.Table) (int, error) {
	return compositeSize(dim, tbl)
}

// FieldOffsets returns the cumulative offset of every field in a
// message/group block, in declaration order, resolving each field's
// type through the table first.
func FieldOffsets(fields []schema.FieldType, tbl *schema.Table) ([]int, int, error) {
	offsets := make([]int, len(fields))
	offset := 0
	for i, f := range fields {
		offsets[i] = offset
		t, ok := tbl.FindType(f.TypeName)
		if !ok {
			if ref, ok := tbl.References[f.TypeName]; ok {
				resolved, err := tbl.ResolveType(ref)
				if err != nil {
					return nil, 0, err
				}
				t = resolved
			} else {
				return nil, 0, fmt.Errorf("sizeof: unknown field type %q", f.TypeName)
			}
		}
		n, err := Size(t, tbl)
		if err != nil {
			return nil, 0, err
		}
		offset += n
	}
	return offsets, offset, nil
}
