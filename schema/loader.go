// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"strconv"
	"strings"
)

// LoadJSON turns a decoded, already-merged JSON document into a
// validated Schema. The document shape is a root object with
// package/id/version/semanticVersion/byteOrder/headerType and
// "types"/"messages" arrays.
func LoadJSON(doc map[string]interface{}) (*Schema, error) {
	s := &Schema{
		Types: NewTable(),
	}

	s.Package = shortenPackage(str(doc["package"]))
	s.ID = int(num(doc["id"]))
	s.Version = int(num(doc["version"]))
	s.SemanticVer = normalizeSemVer(str(doc["semanticVersion"]))
	s.Description = str(doc["description"])

	order, err := parseByteOrder(doc["byteOrder"])
	if err != nil {
		return nil, err
	}
	s.ByteOrder = order

	s.HeaderTypeName = str(doc["headerType"])
	if s.HeaderTypeName == "" {
		s.HeaderTypeName = "messageHeader"
	}

	types, _ := doc["types"].([]interface{})
	for _, raw := range types {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		t, err := loadType(m)
		if err != nil {
			return nil, err
		}
		s.Types.Add(t)
	}

	// Fields may name a primitive directly ("type": "uint64"); each
	// primitive name not declared under "types" resolves to a required
	// encoded type of that primitive.
	for _, p := range []string{"char", "uint8", "uint16", "uint32", "uint64", "int8", "int16", "int32", "int64", "float", "double"} {
		if _, ok := s.Types.FindType(p); !ok {
			prim, _ := parsePrimitive(p)
			s.Types.Add(&EncodedDataType{Name: p, Primitive: prim})
		}
	}

	msgs, _ := doc["messages"].([]interface{})
	for _, raw := range msgs {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		msg, err := loadMessage(m)
		if err != nil {
			return nil, err
		}
		s.Messages = append(s.Messages, msg)
	}

	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// shortenPackage keeps only the last dotted segment of a
// dotted-notation package name.
func shortenPackage(pkg string) string {
	if i := strings.LastIndexByte(pkg, '.'); i >= 0 {
		return pkg[i+1:]
	}
	return pkg
}

// normalizeSemVer pads/truncates to a three-part dotted form.
func normalizeSemVer(v string) string {
	if v == "" {
		return "0.0.0"
	}
	parts := strings.Split(v, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts[:3], ".")
}

func parseByteOrder(v interface{}) (ByteOrder, error) {
	s, _ := v.(string)
	switch s {
	case "", "littleEndian":
		return LittleEndian, nil
	case "bigEndian":
		return BigEndian, nil
	default:
		return 0, fatalf("invalid byteOrder %q", s)
	}
}

func parsePresence(v interface{}) (Presence, error) {
	s, _ := v.(string)
	switch s {
	case "", "required":
		return Required, nil
	case "optional":
		return Optional, nil
	case "constant":
		return Constant, nil
	default:
		return 0, fatalf("invalid presence %q", s)
	}
}

func parseCharEncoding(v interface{}) (CharacterEncoding, bool, error) {
	s, _ := v.(string)
	switch s {
	case "":
		return EncodingUTF8, false, nil
	case "ASCII":
		return EncodingASCII, true, nil
	case "UTF-8":
		return EncodingUTF8, true, nil
	default:
		return 0, false, fatalf("invalid characterEncoding %q", s)
	}
}

func parsePrimitive(v interface{}) (Primitive, error) {
	s, _ := v.(string)
	switch s {
	case "char":
		return PrimChar, nil
	case "uint8":
		return PrimUint8, nil
	case "uint16":
		return PrimUint16, nil
	case "uint32":
		return PrimUint32, nil
	case "uint64":
		return PrimUint64, nil
	case "int8":
		return PrimInt8, nil
	case "int16":
		return PrimInt16, nil
	case "int32":
		return PrimInt32, nil
	case "int64":
		return PrimInt64, nil
	case "float":
		return PrimFloat32, nil
	case "double":
		return PrimFloat64, nil
	default:
		return 0, fatalf("unknown primitive type %q", s)
	}
}

func loadType(m map[string]interface{}) (Type, error) {
	kind := str(m["kind"])
	name := str(m["name"])
	switch kind {
	case "ref":
		return &ReferenceType{Name: name, Target: str(m["target"])}, nil
	case "enum":
		prim, err := parsePrimitive(m["encodingType"])
		if err != nil {
			return nil, err
		}
		var values []EnumValue
		for _, raw := range asSlice(m["validValues"]) {
			vm, _ := raw.(map[string]interface{})
			values = append(values, EnumValue{Name: str(vm["name"]), Literal: int64(num(vm["value"]))})
		}
		return &EnumType{Name: name, Primitive: prim, Values: values}, nil
	case "set":
		prim, err := parsePrimitive(m["encodingType"])
		if err != nil {
			return nil, err
		}
		var choices []Choice
		for _, raw := range asSlice(m["choices"]) {
			cm, _ := raw.(map[string]interface{})
			choices = append(choices, Choice{Name: str(cm["name"]), Bit: int(num(cm["value"]))})
		}
		return &SetType{Name: name, Primitive: prim, Choices: choices}, nil
	case "composite":
		var subs []Type
		for _, raw := range asSlice(m["members"]) {
			mm, _ := raw.(map[string]interface{})
			sub, err := loadType(mm)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		return &CompositeType{Name: name, Subs: subs}, nil
	default:
		return loadEncodedDataType(name, m)
	}
}

func loadEncodedDataType(name string, m map[string]interface{}) (*EncodedDataType, error) {
	prim, err := parsePrimitive(m["primitiveType"])
	if err != nil {
		return nil, err
	}
	presence, err := parsePresence(m["presence"])
	if err != nil {
		return nil, err
	}
	enc, hasEnc, err := parseCharEncoding(m["characterEncoding"])
	if err != nil {
		return nil, err
	}
	e := &EncodedDataType{
		Name:              name,
		Primitive:         prim,
		Length:            int(num(m["length"])),
		Presence:          presence,
		CharacterEncoding: enc,
		HasCharEncoding:   hasEnc,
		ConstValue:        str(m["constValue"]),
		DefaultString:     str(m["defaultValue"]),
	}
	if raw, ok := m["nullValue"]; ok {
		if s, isStr := raw.(string); isStr && strings.EqualFold(s, "NAN") {
			e.NullIsNaN = true
		} else {
			n := int64(num(raw))
			e.NullValue = &n
		}
	}
	if raw, ok := m["minValue"]; ok {
		n := int64(num(raw))
		e.MinValue = &n
	}
	if raw, ok := m["maxValue"]; ok {
		n := int64(num(raw))
		e.MaxValue = &n
	}
	return e, nil
}

func loadMessage(m map[string]interface{}) (*MessageType, error) {
	msg := &MessageType{
		Name:       str(m["name"]),
		TemplateID: int(num(m["id"])),
	}
	fields, groups, varData, err := loadBlock(asSlice(m["fields"]))
	if err != nil {
		return nil, err
	}
	msg.Fields, msg.Groups, msg.VarData = fields, groups, varData
	return msg, nil
}

// loadBlock splits a mixed field/group/data children array into its
// three constituent kinds.
func loadBlock(children []interface{}) ([]FieldType, []*GroupType, []VariableDataType, error) {
	var fields []FieldType
	var groups []*GroupType
	var varData []VariableDataType
	for _, raw := range children {
		cm, _ := raw.(map[string]interface{})
		switch str(cm["kind"]) {
		case "field":
			presence, err := parsePresence(cm["presence"])
			if err != nil {
				return nil, nil, nil, err
			}
			fields = append(fields, FieldType{
				Name:     str(cm["name"]),
				ID:       int(num(cm["id"])),
				TypeName: str(cm["type"]),
				Presence: presence,
				ValueRef: str(cm["valueRef"]),
			})
		case "group":
			g := &GroupType{
				Name:          str(cm["name"]),
				ID:            int(num(cm["id"])),
				DimensionType: str(cm["dimensionType"]),
			}
			sf, sg, sv, err := loadBlock(asSlice(cm["fields"]))
			if err != nil {
				return nil, nil, nil, err
			}
			g.Fields, g.Groups, g.VarData = sf, sg, sv
			groups = append(groups, g)
		case "data":
			varData = append(varData, VariableDataType{
				Name:      str(cm["name"]),
				ID:        int(num(cm["id"])),
				Composite: str(cm["type"]),
			})
		}
	}
	return fields, groups, varData, nil
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func num(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}
