// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "fmt"

// Table is the flat, resolved type table of a schema: the four
// declared-type tables plus the reference table. Lookup order for
// FindType is encoded, set, enum, composite.
type Table struct {
	Encoded    map[string]*EncodedDataType
	Sets       map[string]*SetType
	Enums      map[string]*EnumType
	Composites map[string]*CompositeType
	References map[string]*ReferenceType

	// order preserves declaration order for IterValues.
	order []string
}

func NewTable() *Table {
	return &Table{
		Encoded:    make(map[string]*EncodedDataType),
		Sets:       make(map[string]*SetType),
		Enums:      make(map[string]*EnumType),
		Composites: make(map[string]*CompositeType),
		References: make(map[string]*ReferenceType),
	}
}

// Add registers a declared type under its name, recording declaration
// order. References are tracked separately and excluded from IterValues.
func (t *Table) Add(v Type) {
	switch x := v.(type) {
	case *EncodedDataType:
		t.Encoded[x.Name] = x
	case *SetType:
		t.Sets[x.Name] = x
	case *EnumType:
		t.Enums[x.Name] = x
	case *CompositeType:
		t.Composites[x.Name] = x
		for _, sub := range x.Subs {
			if _, ok := t.lookupDirect(sub.TypeName()); !ok {
				t.Add(sub)
			}
		}
	case *ReferenceType:
		t.References[x.Name] = x
		return
	default:
		return
	}
	t.order = append(t.order, v.TypeName())
}

func (t *Table) lookupDirect(name string) (Type, bool) {
	if v, ok := t.Encoded[name]; ok {
		return v, true
	}
	if v, ok := t.Sets[name]; ok {
		return v, true
	}
	if v, ok := t.Enums[name]; ok {
		return v, true
	}
	if v, ok := t.Composites[name]; ok {
		return v, true
	}
	return nil, false
}

// FindType searches the four flat tables in declared order: encoded,
// set, enum, composite. References are not returned by FindType; use
// ResolveType.
func (t *Table) FindType(name string) (Type, bool) {
	if v, ok := t.Encoded[name]; ok {
		return v, true
	}
	if v, ok := t.Sets[name]; ok {
		return v, true
	}
	if v, ok := t.Enums[name]; ok {
		return v, true
	}
	if v, ok := t.Composites[name]; ok {
		return v, true
	}
	return nil, false
}

// IterValues enumerates all declared types (excluding references) in
// the stable order they were added.
func (t *Table) IterValues() []Type {
	out := make([]Type, 0, len(t.order))
	seen := make(map[string]bool, len(t.order))
	for _, name := range t.order {
		if seen[name] {
			continue
		}
		seen[name] = true
		if v, ok := t.lookupDirect(name); ok {
			out = append(out, v)
		}
	}
	return out
}

// Presence returns the Presence of an EncodedDataType directly;
// follows one level of Reference and recurses; otherwise yields
// Required.
func (t *Table) Presence(name string) Presence {
	if v, ok := t.Encoded[name]; ok {
		return v.Presence
	}
	if ref, ok := t.References[name]; ok {
		return t.Presence(ref.Target)
	}
	return Required
}

// Resolved resolves a NativeType down to a concrete Primitive,
// following Reference indirection through the encoded-type table.
// It fails if the reference name is absent or resolution does not
// terminate at a concrete primitive.
func (t *Table) Resolved(n NativeType) (Primitive, error) {
	seen := make(map[string]bool)
	for n.IsReference() {
		if seen[n.Reference] {
			return 0, fmt.Errorf("schema: reference cycle resolving %q", n.Reference)
		}
		seen[n.Reference] = true
		enc, ok := t.Encoded[n.Reference]
		if !ok {
			return 0, fmt.Errorf("schema: unresolved reference %q", n.Reference)
		}
		n = NativeType{Primitive: enc.Primitive}
	}
	return n.Primitive, nil
}

// ResolveType follows a Reference type to its target, recursively,
// returning the first non-reference Type.
func (t *Table) ResolveType(v Type) (Type, error) {
	for {
		ref, ok := v.(*ReferenceType)
		if !ok {
			return v, nil
		}
		next, ok := t.FindType(ref.Target)
		if !ok {
			if r2, ok := t.References[ref.Target]; ok {
				next = r2
			} else {
				return nil, fmt.Errorf("schema: unresolved reference %q -> %q", ref.Name, ref.Target)
			}
		}
		v = next
	}
}
