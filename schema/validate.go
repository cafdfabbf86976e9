// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "fmt"

// ValidationError is a fatal, generation-time-only error raised while
// turning a raw schema tree into a validated Schema. It is distinct
// from runtimecodec.SbeError, which is raised at codec runtime.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "schema: " + e.Reason }

func fatalf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks structural and type-reference invariants against an
// already-populated Schema and fills in Header. It must be called
// after every type and message has been added to s.Types and
// s.Messages. LoadJSON already calls it; calling it again on the same
// Schema repeats the same checks and leaves the Schema unchanged.
func Validate(s *Schema) error {
	if s.Package == "" {
		return fatalf("package name is empty")
	}
	if s.HeaderTypeName == "" {
		s.HeaderTypeName = "messageHeader"
	}
	header, ok := s.Types.Composites[s.HeaderTypeName]
	if !ok {
		return fatalf("missing header composite %q", s.HeaderTypeName)
	}
	s.Header = header

	for _, v := range s.Types.IterValues() {
		if err := validateType(s, v); err != nil {
			return err
		}
	}
	for _, m := range s.Messages {
		if err := validateFields(s, m.Fields); err != nil {
			return fmt.Errorf("message %q: %w", m.Name, err)
		}
		if err := validateGroups(s, m.Groups); err != nil {
			return fmt.Errorf("message %q: %w", m.Name, err)
		}
		for _, vd := range m.VarData {
			if err := validateVarData(s, vd); err != nil {
				return fmt.Errorf("message %q: %w", m.Name, err)
			}
		}
	}
	return nil
}

func validateGroups(s *Schema, groups []*GroupType) error {
	for _, g := range groups {
		dimName := g.DimensionType
		if dimName == "" {
			dimName = "groupSizeEncoding"
		}
		if dim, ok := s.Types.Composites[dimName]; ok {
			if err := validateDimension(dim); err != nil {
				return fmt.Errorf("group %q: %w", g.Name, err)
			}
		}
		if err := validateFields(s, g.Fields); err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
		if err := validateGroups(s, g.Groups); err != nil {
			return err
		}
		for _, vd := range g.VarData {
			if err := validateVarData(s, vd); err != nil {
				return fmt.Errorf("group %q: %w", g.Name, err)
			}
		}
	}
	return nil
}

// validateDimension enforces: exactly two leading encoded sub-fields,
// blockLength (unsigned) and numInGroup (unsigned).
func validateDimension(c *CompositeType) error {
	if len(c.Subs) < 2 {
		return fatalf("dimension composite %q needs at least blockLength and numInGroup", c.Name)
	}
	bl, ok := c.Subs[0].(*EncodedDataType)
	if !ok || !bl.Primitive.Unsigned() {
		return fatalf("dimension composite %q: first sub-field must be an unsigned blockLength", c.Name)
	}
	ng, ok := c.Subs[1].(*EncodedDataType)
	if !ok || !ng.Primitive.Unsigned() {
		return fatalf("dimension composite %q: second sub-field must be an unsigned numInGroup", c.Name)
	}
	return nil
}

// validateVarData enforces the variable-data rule recorded under "Open
// questions resolved" in DESIGN.md: the backing composite must have
// exactly two sub-fields, an unsigned length primitive and an element
// primitive.
func validateVarData(s *Schema, vd VariableDataType) error {
	c, ok := s.Types.Composites[vd.Composite]
	if !ok {
		return fatalf("variable-data %q: unknown composite %q", vd.Name, vd.Composite)
	}
	if len(c.Subs) != 2 {
		return fatalf("variable-data %q: backing composite %q must declare exactly two sub-fields (length, varData), has %d", vd.Name, vd.Composite, len(c.Subs))
	}
	length, ok := c.Subs[0].(*EncodedDataType)
	if !ok || !length.Primitive.Unsigned() {
		return fatalf("variable-data %q: first sub-field of %q must be an unsigned length", vd.Name, vd.Composite)
	}
	if _, ok := c.Subs[1].(*EncodedDataType); !ok {
		return fatalf("variable-data %q: second sub-field of %q must be an encoded element type", vd.Name, vd.Composite)
	}
	return nil
}

func validateFields(s *Schema, fields []FieldType) error {
	for _, f := range fields {
		t, ok := s.Types.FindType(f.TypeName)
		if !ok {
			if ref, ok := s.Types.References[f.TypeName]; ok {
				resolved, err := s.Types.ResolveType(ref)
				if err != nil {
					return err
				}
				t = resolved
			} else {
				return fatalf("field %q: unknown type %q", f.Name, f.TypeName)
			}
		}
		if f.Presence == Constant {
			switch tt := t.(type) {
			case *EnumType:
				if f.ValueRef == "" {
					return fatalf("field %q: constant enum field requires a value reference", f.Name)
				}
			case *EncodedDataType:
				if tt.Primitive != PrimChar {
					return fatalf("field %q: constant presence is only implemented for enum or char types, got primitive %v", f.Name, tt.Primitive)
				}
			default:
				return fatalf("field %q: constant presence is only implemented for enum or char types", f.Name)
			}
		}
	}
	return nil
}

// validateType enforces the per-construct invariants of each type kind.
func validateType(s *Schema, v Type) error {
	switch t := v.(type) {
	case *EncodedDataType:
		if t.HasCharEncoding && t.Primitive != PrimChar {
			return fatalf("type %q: characterEncoding only applies to char primitives", t.Name)
		}
	case *EnumType:
		if !t.Primitive.Unsigned() {
			return fatalf("enum %q: underlying encoding must be an unsigned or char primitive", t.Name)
		}
		seen := make(map[int64]bool, len(t.Values))
		for _, ev := range t.Values {
			if seen[ev.Literal] {
				return fatalf("enum %q: duplicate literal %d for value %q", t.Name, ev.Literal, ev.Name)
			}
			seen[ev.Literal] = true
		}
	case *SetType:
		if !t.Primitive.Unsigned() {
			return fatalf("set %q: underlying encoding must be unsigned", t.Name)
		}
		bits := t.Primitive.Size() * 8
		seen := make(map[int]bool, len(t.Choices))
		for _, c := range t.Choices {
			if c.Bit < 0 || c.Bit >= bits {
				return fatalf("set %q: choice %q bit %d out of range for %d-bit primitive", t.Name, c.Name, c.Bit, bits)
			}
			if seen[c.Bit] {
				return fatalf("set %q: duplicate bit position %d", t.Name, c.Bit)
			}
			seen[c.Bit] = true
		}
	case *CompositeType:
		for _, sub := range t.Subs {
			if ref, ok := sub.(*ReferenceType); ok {
				if _, err := s.Types.ResolveType(ref); err != nil {
					return fmt.Errorf("composite %q: %w", t.Name, err)
				}
			}
		}
	}
	return nil
}
