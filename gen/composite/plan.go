// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package composite

import (
	"fmt"
	"strings"

	"github.com/solidcoredata/sbegen/gen/genutil"
	"github.com/solidcoredata/sbegen/runtimecodec"
	"github.com/solidcoredata/sbegen/schema"
	"github.com/solidcoredata/sbegen/sizeof"
)

// Kind distinguishes the accessor shape emitted for one sub-field.
type Kind int

const (
	KindPrimitive Kind = iota
	KindArray
	KindString
	KindEnum
	KindEnumConstant
	KindCharConstant
	KindSet
	KindComposite
)

// FieldPlan is one fully-resolved composite sub-field, ready to drive
// the decoder/encoder templates.
type FieldPlan struct {
	RawName  string
	Name     string
	Offset   int
	Size     int
	Kind     Kind
	Presence schema.Presence

	GoPrim         string
	AccessorSuffix string
	Length         int

	HasCharEncoding bool
	ASCII           bool

	HasMin, HasMax bool
	Min, Max       int64
	MinU, MaxU     uint64
	Unsigned       bool

	NullLiteral string
	IsFloat     bool

	ConstValue string

	EnumName      string
	EnumValueName string

	SetName string

	CompositeName string
}

// Plan is a fully-resolved composite, ready to drive the decoder/
// encoder templates.
type Plan struct {
	Name   string
	Fields []FieldPlan
	Size   int
}

// PlanComposite resolves every sub-field of c (following Reference
// indirection and recursing into enum/set/composite/constant handling)
// into a FieldPlan.
func PlanComposite(c *schema.CompositeType, tbl *schema.Table) (*Plan, error) {
	p := &Plan{Name: genutil.Export(c.Name)}
	offset := 0
	for _, sub := range c.Subs {
		resolved, err := tbl.ResolveType(sub)
		if err != nil {
			return nil, fmt.Errorf("composite %q: %w", c.Name, err)
		}
		fp, size, err := planField(sub.TypeName(), resolved, tbl)
		if err != nil {
			return nil, fmt.Errorf("composite %q: %w", c.Name, err)
		}
		fp.Offset = offset
		fp.Size = size
		offset += size
		p.Fields = append(p.Fields, fp)
	}
	p.Size = offset
	return p, nil
}

func planField(rawName string, t schema.Type, tbl *schema.Table) (FieldPlan, int, error) {
	fp := FieldPlan{RawName: rawName, Name: genutil.Export(rawName)}

	switch v := t.(type) {
	case *schema.EncodedDataType:
		fp.Presence = v.Presence
		fp.GoPrim = genutil.GoPrimitive(v.Primitive)
		fp.AccessorSuffix = genutil.AccessorSuffix(v.Primitive)
		fp.IsFloat = v.Primitive.Float()
		fp.Unsigned = v.Primitive.Unsigned()
		fp.HasCharEncoding = v.HasCharEncoding
		fp.ASCII = v.CharacterEncoding == schema.EncodingASCII

		size, err := sizeof.Size(v, tbl)
		if err != nil {
			return fp, 0, err
		}

		if v.Presence == schema.Constant {
			if v.Primitive == schema.PrimChar {
				fp.Kind = KindCharConstant
				fp.ConstValue = v.ConstValue
			} else {
				return fp, 0, fmt.Errorf("field %q: constant presence only implemented for char/enum", rawName)
			}
			return fp, 0, nil
		}

		fp.Length = v.Length
		if v.Primitive == schema.PrimChar && v.Length >= 2 {
			fp.Kind = KindString
		} else if v.Length >= 2 {
			fp.Kind = KindArray
		} else {
			fp.Kind = KindPrimitive
		}

		if v.MinValue != nil {
			fp.HasMin = true
			fp.Min = *v.MinValue
			fp.MinU = uint64(*v.MinValue)
		}
		if v.MaxValue != nil {
			fp.HasMax = true
			fp.Max = *v.MaxValue
			fp.MaxU = uint64(*v.MaxValue)
		}

		if v.Presence == schema.Optional {
			if fp.IsFloat {
				fp.NullLiteral = "NaN"
			} else if fp.Unsigned {
				fp.NullLiteral = fmt.Sprintf("%d", runtimecodec.NullUint(v.Primitive.Size()))
			} else {
				fp.NullLiteral = fmt.Sprintf("%d", runtimecodec.NullInt(v.Primitive.Size()))
			}
		}
		return fp, size, nil

	case *schema.EnumType:
		fp.EnumName = genutil.Export(v.Name)
		fp.GoPrim = genutil.GoPrimitive(v.Primitive)
		fp.AccessorSuffix = genutil.AccessorSuffix(v.Primitive)
		fp.Kind = KindEnum
		size, err := sizeof.Size(v, tbl)
		return fp, size, err

	case *schema.SetType:
		fp.SetName = genutil.Export(v.Name)
		fp.GoPrim = genutil.GoPrimitive(v.Primitive)
		fp.AccessorSuffix = genutil.AccessorSuffix(v.Primitive)
		fp.Kind = KindSet
		size, err := sizeof.Size(v, tbl)
		return fp, size, err

	case *schema.CompositeType:
		fp.CompositeName = genutil.Export(v.Name)
		fp.Kind = KindComposite
		size, err := sizeof.Size(v, tbl)
		return fp, size, err

	default:
		return fp, 0, fmt.Errorf("field %q: unsupported resolved type %T", rawName, t)
	}
}

// PlanBlockFields resolves an ordered list of message/group FieldTypes
// into FieldPlans at prefix-sum offsets, the same rule used for
// composites. Constant fields whose ValueRef selects an enum value are
// resolved via PlanConstantEnumField;
// every other field is resolved by looking its declared type up in the
// table and delegating to planField.
func PlanBlockFields(fields []schema.FieldType, tbl *schema.Table) ([]FieldPlan, int, error) {
	var out []FieldPlan
	offset := 0
	for _, f := range fields {
		if f.Presence == schema.Constant && f.ValueRef != "" {
			fp, err := PlanConstantEnumField(f.Name, f.TypeName, f.ValueRef, tbl)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, fp)
			continue
		}
		t, ok := tbl.FindType(f.TypeName)
		if !ok {
			if ref, ok := tbl.References[f.TypeName]; ok {
				resolved, err := tbl.ResolveType(ref)
				if err != nil {
					return nil, 0, err
				}
				t = resolved
			} else {
				return nil, 0, fmt.Errorf("field %q: unknown type %q", f.Name, f.TypeName)
			}
		}
		fp, size, err := planField(f.Name, t, tbl)
		if err != nil {
			return nil, 0, err
		}
		fp.Offset = offset
		fp.Size = size
		offset += size
		out = append(out, fp)
	}
	return out, offset, nil
}

// PlanConstantEnumField resolves a FieldType whose Presence is
// Constant and whose ValueRef selects one declared enum value.
func PlanConstantEnumField(name string, enumTypeName, valueRef string, tbl *schema.Table) (FieldPlan, error) {
	fp := FieldPlan{RawName: name, Name: genutil.Export(name), Kind: KindEnumConstant}
	et, ok := tbl.Enums[enumTypeName]
	if !ok {
		return fp, fmt.Errorf("constant field %q: unknown enum type %q", name, enumTypeName)
	}
	fp.EnumName = genutil.Export(et.Name)
	if i := strings.LastIndexByte(valueRef, '.'); i >= 0 {
		valueRef = valueRef[i+1:]
	}
	fp.EnumValueName = genutil.Export(valueRef)
	return fp, nil
}
