// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema is the in-memory representation of a validated SBE
// schema: primitive types, encoded data types, enums, bit-sets,
// composites, references, messages, groups and variable-data fields.
package schema

// ByteOrder selects the wire byte order for every multi-byte primitive
// declared by a schema.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (b ByteOrder) String() string {
	if b == BigEndian {
		return "bigEndian"
	}
	return "littleEndian"
}

// CharacterEncoding selects how a char sequence's bytes are interpreted.
type CharacterEncoding int

const (
	EncodingASCII CharacterEncoding = iota
	EncodingUTF8
)

// Presence is the declared visibility of a field.
type Presence int

const (
	Required Presence = iota
	Optional
	Constant
)

// Primitive is one of the SBE primitive kinds.
type Primitive int

const (
	PrimChar Primitive = iota
	PrimUint8
	PrimUint16
	PrimUint32
	PrimUint64
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimFloat32
	PrimFloat64
)

// Size returns the primitive's fixed byte width.
func (p Primitive) Size() int {
	switch p {
	case PrimChar, PrimUint8, PrimInt8:
		return 1
	case PrimUint16, PrimInt16:
		return 2
	case PrimUint32, PrimInt32, PrimFloat32:
		return 4
	case PrimUint64, PrimInt64, PrimFloat64:
		return 8
	}
	return 0
}

func (p Primitive) Unsigned() bool {
	switch p {
	case PrimUint8, PrimUint16, PrimUint32, PrimUint64, PrimChar:
		return true
	}
	return false
}

func (p Primitive) Float() bool {
	return p == PrimFloat32 || p == PrimFloat64
}

// NativeType is either a concrete Primitive or an unresolved reference
// to another declared type by name.
type NativeType struct {
	Primitive Primitive
	Reference string // non-empty when this is Reference(name)
}

func (n NativeType) IsReference() bool { return n.Reference != "" }

// Type is implemented by every declared schema construct that
// participates in name lookup and size computation.
type Type interface {
	TypeName() string
}

// EncodedDataType is a leaf field encoding.
type EncodedDataType struct {
	Name              string
	Primitive         Primitive
	Length            int // 0 means unset/default
	Presence          Presence
	NullValue         *int64
	NullIsNaN         bool // explicit "NAN" literal in the schema
	MinValue          *int64
	MaxValue          *int64
	CharacterEncoding CharacterEncoding
	HasCharEncoding   bool
	ConstValue        string // literal text, when Presence == Constant
	DefaultString     string // default-value text for char primitives with no length
}

func (e *EncodedDataType) TypeName() string { return e.Name }

// EnumValue is one (name, literal) pair of an EnumType.
type EnumValue struct {
	Name    string
	Literal int64
}

type EnumType struct {
	Name      string
	Primitive Primitive // unsigned or char
	Values    []EnumValue
}

func (e *EnumType) TypeName() string { return e.Name }

// ValueByLiteral finds the declared value matching a decoded literal.
func (e *EnumType) ValueByLiteral(v int64) (EnumValue, bool) {
	for _, ev := range e.Values {
		if ev.Literal == v {
			return ev, true
		}
	}
	return EnumValue{}, false
}

// Choice is one named bit position of a SetType.
type Choice struct {
	Name string
	Bit  int
}

type SetType struct {
	Name      string
	Primitive Primitive // unsigned
	Choices   []Choice
}

func (s *SetType) TypeName() string { return s.Name }

// CompositeType is an ordered tuple of heterogeneous sub-types.
type CompositeType struct {
	Name string
	Subs []Type // EncodedDataType, EnumType, SetType, *CompositeType, or *ReferenceType
}

func (c *CompositeType) TypeName() string { return c.Name }

// ReferenceType is a pure indirection, resolved lazily through the
// type table at emission time; it is never materialised as a distinct
// runtime entity.
type ReferenceType struct {
	Name   string
	Target string
}

func (r *ReferenceType) TypeName() string { return r.Name }

// FieldType is a message/group leaf field.
type FieldType struct {
	Name     string
	ID       int
	TypeName string
	Presence Presence
	ValueRef string // "EnumName.ValueName" or bare "ValueName" for constant enum selections
}

// GroupType is a repeating block within a message.
type GroupType struct {
	Name          string
	ID            int
	DimensionType string // composite name; "" means the schema default
	Fields        []FieldType
	Groups        []*GroupType
	VarData       []VariableDataType
}

// VariableDataType is a length-prefixed variable-length tail field.
type VariableDataType struct {
	Name      string
	ID        int
	Composite string // name of the backing 2-field composite
}

// MessageType is a top-level message.
type MessageType struct {
	Name       string
	TemplateID int
	Fields     []FieldType
	Groups     []*GroupType
	VarData    []VariableDataType
}
