// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package python

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/solidcoredata/sbegen/gen/composite"
	"github.com/solidcoredata/sbegen/gen/genutil"
	"github.com/solidcoredata/sbegen/schema"
	"github.com/solidcoredata/sbegen/sizeof"
)

// GenerateRuntime emits the shared _sbe_runtime.py module: the error
// type and the null-sentinel/bounds helpers every other bridged module
// imports, mirroring runtimecodec on the native side.
func GenerateRuntime() []byte {
	return []byte(`# Code generated by sbegen. DO NOT EDIT.

import math


class SbeError(Exception):
    """Raised by every generated wrapper on malformed data or misuse."""


def check_ascii(data: bytes, field: str) -> None:
    for b in data:
        if b >= 0x80:
            raise SbeError(f"sbe: invalid string value for {field!r}: not ASCII")


def check_utf8(data: bytes, field: str) -> str:
    try:
        return data.decode("utf-8")
    except UnicodeDecodeError as exc:
        raise SbeError(f"sbe: invalid string value for {field!r}: {exc}") from None


def check_bounds(field: str, v, lo, hi) -> None:
    if lo is not None and v < lo:
        raise SbeError(f"sbe: {field} out of bounds: {v} < {lo} (min)")
    if hi is not None and v > hi:
        raise SbeError(f"sbe: {field} out of bounds: {v} > {hi} (max)")


def is_float_null(v: float) -> bool:
    return math.isnan(v)
`)
}

// GenerateEnum emits one Python module wrapping an SBE enum as a
// standard-library IntEnum plus the schema's NullVal member.
func GenerateEnum(e *schema.EnumType) []byte {
	name := genutil.Export(e.Name)
	var b strings.Builder
	fmt.Fprintf(&b, "# Code generated by sbegen. DO NOT EDIT.\n\nimport enum\n\n\nclass %s(enum.IntEnum):\n", name)
	for _, v := range e.Values {
		fmt.Fprintf(&b, "    %s = %d\n", genutil.Export(v.Name), v.Literal)
	}
	nullLit := nullValueFor(e.Primitive)
	fmt.Fprintf(&b, "    NULL_VAL = %s\n", nullLit)
	return []byte(b.String())
}

func nullValueFor(p schema.Primitive) string {
	switch p {
	case schema.PrimChar:
		return "0"
	case schema.PrimUint8:
		return "0xFF"
	case schema.PrimUint16:
		return "0xFFFF"
	case schema.PrimUint32:
		return "0xFFFFFFFF"
	case schema.PrimUint64:
		return "0xFFFFFFFFFFFFFFFF"
	}
	return "0"
}

// GenerateSet emits one Python module wrapping an SBE bit-set as a
// standard-library IntFlag.
func GenerateSet(s *schema.SetType) []byte {
	name := genutil.Export(s.Name)
	var b strings.Builder
	fmt.Fprintf(&b, "# Code generated by sbegen. DO NOT EDIT.\n\nimport enum\n\n\nclass %s(enum.IntFlag):\n", name)
	for _, c := range s.Choices {
		fmt.Fprintf(&b, "    %s = 1 << %d\n", genutil.Export(c.Name), c.Bit)
	}
	return []byte(b.String())
}

const compositeTmplSrc = `# Code generated by sbegen. DO NOT EDIT.

import dataclasses
import struct

from . import _sbe_runtime as _rt
{{.Imports}}

_ORDER = "{{.Order}}"


@dataclasses.dataclass{{if .Unsafe}}(eq=False){{end}}
class {{.Name}}:
{{if not .Fields}}    pass
{{end}}{{range .Fields}}{{if not .IsConstant}}    {{.PyName}}: {{.PyType}}{{if .HasDefault}} = {{.Default}}{{end}}
{{end}}{{end}}
{{range .Fields}}{{if .IsConstant}}    @property
    def {{.PyName}}(self):
        return {{.ConstExpr}}

{{end}}{{end}}    @classmethod
    def read_from(cls, buf: bytes, offset: int){{if .HasNested}}{{else}} -> "{{.Name}}"{{end}}:
        fields = {}
{{.ReadBody}}{{if .HasNested}}        return cls(**fields), offset
{{else}}        return cls(**fields)
{{end}}
    def write_to(self, buf: bytearray, offset: int){{if .HasNested}} -> int{{else}} -> None{{end}}:
{{.WriteBody}}{{if .HasNested}}        return offset
{{end}}
    BLOCK_LENGTH = {{.Size}}
{{if .NeedHash}}
    def __hash__(self):
        return hash(({{.HashTuple}}))
{{end}}`

var compositeTmpl = template.Must(template.New("pycomposite").Parse(compositeTmplSrc))

type pyFieldView struct {
	PyName     string
	PyType     string
	HasDefault bool
	Default    string
	IsConstant bool
	ConstExpr  string
}

type compositeData struct {
	Name      string
	Order     string
	Imports   string
	Size      int
	Fields    []pyFieldView
	ReadBody  string
	WriteBody string
	NeedHash  bool
	HashTuple string
	Unsafe    bool
	HasNested bool
}

// GenerateComposite emits one Python module for a composite: a
// dataclass with one attribute per non-constant sub-field, a
// classmethod reading the wire bytes, and a method writing them back,
// matching the field-by-field accessor shape of the native composite
// emitter (gen/composite) but collapsed into whole-struct pack/unpack
// calls, which is idiomatic for a Python value object.
func GenerateComposite(c *schema.CompositeType, tbl *schema.Table, order schema.ByteOrder, enumsPkg, setsPkg string) ([]byte, error) {
	plan, err := composite.PlanComposite(c, tbl)
	if err != nil {
		return nil, err
	}
	return renderFields(genutil.Export(c.Name), plan.Fields, plan.Size, order, enumsPkg, setsPkg, "", extraContent{})
}

// extraContent carries the additional dataclass attributes and
// read/write statements a group or message wrapper needs beyond its
// flat block fields: one List[...] attribute per nested group and one
// scalar/bytes/list attribute per variable-data field.
type extraContent struct {
	Nested  bool
	Fields  []pyFieldView
	Imports []string
	Read    string
	Write   string
}

// compositesPkg is the dotted path, relative to the module's own
// package, used to reach sibling composite modules: "" when the
// caller is itself generating a composite (so a plain single-dot
// sibling import suffices), or the composites package's bare name
// when the caller is a group or message module one package away.
func renderFields(name string, fields []composite.FieldPlan, size int, order schema.ByteOrder, enumsPkg, setsPkg, compositesPkg string, extra extraContent) ([]byte, error) {
	d := compositeData{Name: name, Order: orderPrefix(order), Size: size, HasNested: extra.Nested}
	var needEnums, needSets bool
	var read, write strings.Builder
	var hashParts []string
	seenComposite := map[string]bool{}
	var compositeImports []string

	for _, fp := range fields {
		pf := pyFieldView{PyName: snakeCase(fp.Name)}
		switch fp.Kind {
		case composite.KindCharConstant:
			pf.IsConstant = true
			pf.ConstExpr = fmt.Sprintf("%q", fp.ConstValue)
		case composite.KindEnumConstant:
			pf.IsConstant = true
			needEnums = true
			pf.ConstExpr = fmt.Sprintf("%s.%s.%s", enumsImportName(fp.EnumName), fp.EnumName, fp.EnumValueName)
		case composite.KindPrimitive:
			pf.PyType = pyPrimType(fp)
			if fp.Presence == schema.Optional {
				pf.PyType = "typing.Optional[" + pf.PyType + "]"
				pf.HasDefault = true
				pf.Default = "None"
			}
			renderPrimitiveRW(&read, &write, fp)
			if !fp.IsFloat {
				hashParts = append(hashParts, "self."+pf.PyName)
			}
		case composite.KindArray:
			pf.PyType = "list"
			renderArrayRW(&read, &write, fp)
		case composite.KindString:
			pf.PyType = "str"
			renderStringRW(&read, &write, fp)
			hashParts = append(hashParts, "self."+pf.PyName)
		case composite.KindEnum:
			needEnums = true
			pf.PyType = enumsImportName(fp.EnumName) + "." + fp.EnumName
			renderEnumRW(&read, &write, fp)
			hashParts = append(hashParts, "self."+pf.PyName)
		case composite.KindSet:
			needSets = true
			pf.PyType = setsImportName(fp.SetName) + "." + fp.SetName
			renderSetRW(&read, &write, fp)
			hashParts = append(hashParts, "self."+pf.PyName)
		case composite.KindComposite:
			pf.PyType = fp.CompositeName
			if !seenComposite[fp.CompositeName] {
				seenComposite[fp.CompositeName] = true
				if compositesPkg == "" {
					compositeImports = append(compositeImports, fmt.Sprintf("from .%s import %s", snakeCase(fp.CompositeName), fp.CompositeName))
				} else {
					compositeImports = append(compositeImports, fmt.Sprintf("from ..%s.%s import %s", compositesPkg, snakeCase(fp.CompositeName), fp.CompositeName))
				}
			}
			fmt.Fprintf(&read, "        fields[%q] = %s.read_from(buf, offset + %d)\n", pf.PyName, fp.CompositeName, fp.Offset)
			fmt.Fprintf(&write, "        self.%s.write_to(buf, offset + %d)\n", pf.PyName, fp.Offset)
		}
		d.Fields = append(d.Fields, pf)
	}

	d.Fields = append(d.Fields, extra.Fields...)
	read.WriteString(extra.Read)
	write.WriteString(extra.Write)

	var imports []string
	imports = append(imports, compositeImports...)
	if needEnums {
		imports = append(imports, fmt.Sprintf("from .. import %s", enumsPkg))
	}
	if needSets {
		imports = append(imports, fmt.Sprintf("from .. import %s", setsPkg))
	}
	imports = append(imports, extra.Imports...)
	imports = append([]string{"import typing"}, imports...)
	d.Imports = strings.Join(imports, "\n")
	d.ReadBody = read.String()
	d.WriteBody = write.String()
	if write.Len() == 0 {
		d.WriteBody = "        pass\n"
	}
	if read.Len() == 0 {
		d.ReadBody = ""
	}
	if len(hashParts) > 0 {
		d.NeedHash = true
		d.HashTuple = strings.Join(hashParts, ", ") + ","
	}

	var buf bytes.Buffer
	if err := compositeTmpl.Execute(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toScreamingSnake(export string) string {
	return strings.ToUpper(snakeCase(export))
}

func pyPrimType(fp composite.FieldPlan) string {
	if fp.IsFloat {
		return "float"
	}
	return "int"
}

func renderPrimitiveRW(read, write *strings.Builder, fp composite.FieldPlan) {
	ch := structChar(primitiveFromPlan(fp))
	if fp.Presence == schema.Optional {
		fmt.Fprintf(read, "        (_v,) = struct.unpack_from(_ORDER + %q, buf, offset + %d)\n", ch, fp.Offset)
		if fp.IsFloat {
			fmt.Fprintf(read, "        fields[%q] = None if _rt.is_float_null(_v) else _v\n", snakeCase(fp.Name))
		} else {
			fmt.Fprintf(read, "        fields[%q] = None if _v == %s else _v\n", snakeCase(fp.Name), fp.NullLiteral)
		}
		fmt.Fprintf(write, "        _v = %s if self.%s is None else self.%s\n", pyNullLiteral(fp), snakeCase(fp.Name), snakeCase(fp.Name))
		fmt.Fprintf(write, "        struct.pack_into(_ORDER + %q, buf, offset + %d, _v)\n", ch, fp.Offset)
		return
	}
	fmt.Fprintf(read, "        (fields[%q],) = struct.unpack_from(_ORDER + %q, buf, offset + %d)\n", snakeCase(fp.Name), ch, fp.Offset)
	if fp.HasMin || fp.HasMax {
		lo, hi := "None", "None"
		if fp.HasMin {
			lo = fmt.Sprintf("%d", fp.Min)
		}
		if fp.HasMax {
			hi = fmt.Sprintf("%d", fp.Max)
		}
		fmt.Fprintf(write, "        _rt.check_bounds(%q, self.%s, %s, %s)\n", fp.RawName, snakeCase(fp.Name), lo, hi)
	}
	fmt.Fprintf(write, "        struct.pack_into(_ORDER + %q, buf, offset + %d, self.%s)\n", ch, fp.Offset, snakeCase(fp.Name))
}

func renderArrayRW(read, write *strings.Builder, fp composite.FieldPlan) {
	ch := structChar(primitiveFromPlan(fp))
	fmt.Fprintf(read, "        fields[%q] = list(struct.unpack_from(_ORDER + %q, buf, offset + %d))\n", snakeCase(fp.Name), fmt.Sprintf("%d%s", fp.Length, ch), fp.Offset)
	fmt.Fprintf(write, "        struct.pack_into(_ORDER + %q, buf, offset + %d, *self.%s)\n", fmt.Sprintf("%d%s", fp.Length, ch), fp.Offset, snakeCase(fp.Name))
}

func renderStringRW(read, write *strings.Builder, fp composite.FieldPlan) {
	name := snakeCase(fp.Name)
	fmt.Fprintf(read, "        _raw = bytes(buf[offset + %d:offset + %d]).rstrip(b\"\\x00\")\n", fp.Offset, fp.Offset+fp.Length)
	fmt.Fprintf(read, "        fields[%q] = _rt.check_utf8(_raw, %q)\n", name, fp.RawName)
	fmt.Fprintf(write, "        _raw = self.%s.encode(\"utf-8\")\n", name)
	if fp.HasCharEncoding && fp.ASCII {
		fmt.Fprintf(write, "        _rt.check_ascii(_raw, %q)\n", fp.RawName)
	}
	fmt.Fprintf(write, "        if len(_raw) > %d:\n            raise _rt.SbeError(%q)\n", fp.Length, fmt.Sprintf("sbe: %s exceeds declared length", fp.RawName))
	fmt.Fprintf(write, "        buf[offset + %d:offset + %d] = _raw.ljust(%d, b\"\\x00\")\n", fp.Offset, fp.Offset+fp.Length, fp.Length)
}

func renderEnumRW(read, write *strings.Builder, fp composite.FieldPlan) {
	ch := structChar(primitiveFromPlan(fp))
	name := snakeCase(fp.Name)
	fmt.Fprintf(read, "        (_v,) = struct.unpack_from(_ORDER + %q, buf, offset + %d)\n", ch, fp.Offset)
	fmt.Fprintf(read, "        fields[%q] = %s.%s(_v)\n", name, enumsImportName(fp.EnumName), fp.EnumName)
	fmt.Fprintf(write, "        struct.pack_into(_ORDER + %q, buf, offset + %d, int(self.%s))\n", ch, fp.Offset, name)
}

func renderSetRW(read, write *strings.Builder, fp composite.FieldPlan) {
	ch := structChar(primitiveFromPlan(fp))
	name := snakeCase(fp.Name)
	fmt.Fprintf(read, "        (_v,) = struct.unpack_from(_ORDER + %q, buf, offset + %d)\n", ch, fp.Offset)
	fmt.Fprintf(read, "        fields[%q] = %s.%s(_v)\n", name, setsImportName(fp.SetName), fp.SetName)
	fmt.Fprintf(write, "        struct.pack_into(_ORDER + %q, buf, offset + %d, int(self.%s))\n", ch, fp.Offset, name)
}

// The emitted module imports its sibling enums/sets package and
// refers to members through it; these helpers just echo the package
// alias chosen by Generate's caller.
func enumsImportName(enumName string) string { return "enums" }
func setsImportName(setName string) string   { return "sets" }

func primitiveFromPlan(fp composite.FieldPlan) schema.Primitive {
	switch fp.GoPrim {
	case "byte", "uint8":
		if fp.Unsigned && fp.AccessorSuffix == "Char" {
			return schema.PrimChar
		}
		return schema.PrimUint8
	case "int8":
		return schema.PrimInt8
	case "uint16":
		return schema.PrimUint16
	case "int16":
		return schema.PrimInt16
	case "uint32":
		return schema.PrimUint32
	case "int32":
		return schema.PrimInt32
	case "uint64":
		return schema.PrimUint64
	case "int64":
		return schema.PrimInt64
	case "float32":
		return schema.PrimFloat32
	case "float64":
		return schema.PrimFloat64
	}
	return schema.PrimUint8
}

// nestedExtra resolves a message/group's own nested groups and
// variable-data fields into the dataclass attributes and read/write
// statements that reconstruct them, operating on the single local
// `offset` variable the surrounding read_from/write_to body already
// threads through the flat block fields. It returns the extraContent
// to splice in; every statement it emits advances `offset` in place.
func nestedExtra(blockLen int, groups []*schema.GroupType, varData []schema.VariableDataType, groupsPkg, varDataPkg string) extraContent {
	ex := extraContent{Nested: true}
	var read, write strings.Builder
	fmt.Fprintf(&read, "        offset = offset + %d\n", blockLen)
	fmt.Fprintf(&write, "        offset = offset + %d\n", blockLen)
	if len(groups) > 0 {
		ex.Imports = append(ex.Imports, fmt.Sprintf("from .. import %s", groupsPkg))
	}
	if len(varData) > 0 {
		ex.Imports = append(ex.Imports, fmt.Sprintf("from .. import %s", varDataPkg))
	}
	for _, g := range groups {
		name := snakeCase(genutil.Export(g.Name))
		cls := genutil.Export(g.Name)
		ex.Fields = append(ex.Fields, pyFieldView{
			PyName: name, PyType: fmt.Sprintf("typing.List[%q]", groupsPkg+"."+cls),
			HasDefault: true, Default: "dataclasses.field(default_factory=list)",
		})
		fmt.Fprintf(&read, "        fields[%q], offset = %s.%s.read_list(buf, offset)\n", name, groupsPkg, cls)
		fmt.Fprintf(&write, "        offset = %s.%s.write_list(self.%s, buf, offset)\n", groupsPkg, cls, name)
	}
	for _, vd := range varData {
		name := snakeCase(genutil.Export(vd.Name))
		cls := genutil.Export(vd.Name)
		ex.Fields = append(ex.Fields, pyFieldView{PyName: name, PyType: "object"})
		fmt.Fprintf(&read, "        fields[%q], offset = %s.%s.read(buf, offset)\n", name, varDataPkg, cls)
		fmt.Fprintf(&write, "        offset = %s.%s.write(self.%s, buf, offset)\n", varDataPkg, cls, name)
	}
	ex.Read, ex.Write = read.String(), write.String()
	return ex
}

// listMethodsSrc renders read_list/write_list classmethods: they wrap
// the entry class's fixed-offset read_from/write_to (inherited from
// the flat block-field rendering, extended with nestedExtra's
// statements) with the dimension header, collapsed into an eagerly
// materialised Python list rather than the native backend's streaming
// iterator, since the bridged object model is plain data end to end.
func listMethodsSrc(dimFmt string, dimSize, blockLen int) string {
	return fmt.Sprintf(`
    @classmethod
    def read_list(cls, buf: bytes, dim_offset: int):
        (_block_length, _count) = struct.unpack_from(_ORDER + %q, buf, dim_offset)
        offset = dim_offset + %d
        items = []
        for _ in range(_count):
            item, offset = cls.read_from(buf, offset)
            items.append(item)
        return items, offset

    @classmethod
    def write_list(cls, items, buf: bytearray, dim_offset: int) -> int:
        offset = dim_offset + %d
        for item in items:
            offset = item.write_to(buf, offset)
        struct.pack_into(_ORDER + %q, buf, dim_offset, %d, len(items))
        return offset
`, dimFmt, dimSize, dimSize, dimFmt, blockLen)
}

// GenerateGroupList emits one Python module whose class wraps a single
// repeated entry: a dataclass for its block fields plus its own nested
// group lists and variable-data values, and classmethods to read/write
// the whole repeating group including its dimension header, collapsed
// into plain Python containers per the bridged backend's plain-data
// object model.
func GenerateGroupList(g *schema.GroupType, tbl *schema.Table, dimensionDefault string, order schema.ByteOrder, enumsPkg, setsPkg, compositesPkg, groupsPkg, varDataPkg string) ([]byte, error) {
	dimName := g.DimensionType
	if dimName == "" {
		dimName = dimensionDefault
	}
	dim, ok := tbl.Composites[dimName]
	if !ok || len(dim.Subs) < 2 {
		return nil, fmt.Errorf("group %q: unknown or malformed dimension composite %q", g.Name, dimName)
	}
	blField := dim.Subs[0].(*schema.EncodedDataType)
	numField := dim.Subs[1].(*schema.EncodedDataType)
	dimSize, err := sizeof.Size(dim, tbl)
	if err != nil {
		return nil, err
	}

	fields, blockLen, err := composite.PlanBlockFields(g.Fields, tbl)
	if err != nil {
		return nil, err
	}
	name := genutil.Export(g.Name)
	extra := nestedExtra(blockLen, g.Groups, g.VarData, groupsPkg, varDataPkg)

	body, err := renderFields(name, fields, blockLen, order, enumsPkg, setsPkg, compositesPkg, extra)
	if err != nil {
		return nil, err
	}

	dimFmt := structChar(blField.Primitive) + structChar(numField.Primitive)
	list := listMethodsSrc(dimFmt, dimSize, blockLen)
	out := strings.TrimRight(string(body), "\n") + "\n" + list
	return []byte(out), nil
}

// GenerateVarData emits one Python module for a length-prefixed
// variable-data tail field: a class with no instance state exposing
// read/write staticmethods that mirror the native backend's
// length-prefix-then-elements layout, but materialise the whole field
// as a single bytes value (for byte elements) or a plain list (for
// anything wider) instead of the native backend's indexed accessors.
func GenerateVarData(vd *schema.VariableDataType, backing *schema.CompositeType, order schema.ByteOrder) ([]byte, error) {
	if len(backing.Subs) != 2 {
		return nil, fmt.Errorf("vardata %q: backing composite %q must have exactly 2 sub-fields", vd.Name, backing.Name)
	}
	lenField, ok := backing.Subs[0].(*schema.EncodedDataType)
	if !ok {
		return nil, fmt.Errorf("vardata %q: length sub-field must be an encoded type", vd.Name)
	}
	elemField, ok := backing.Subs[1].(*schema.EncodedDataType)
	if !ok {
		return nil, fmt.Errorf("vardata %q: element sub-field must be an encoded type", vd.Name)
	}

	name := genutil.Export(vd.Name)
	lenChar := structChar(lenField.Primitive)
	elemChar := structChar(elemField.Primitive)
	lenSize := lenField.Primitive.Size()
	elemSize := elemField.Primitive.Size()
	isByte := elemField.Primitive == schema.PrimUint8 || elemField.Primitive == schema.PrimChar
	checkAscii := elemField.Primitive == schema.PrimChar && elemField.HasCharEncoding && elemField.CharacterEncoding == schema.EncodingASCII

	var b strings.Builder
	fmt.Fprintf(&b, "# Code generated by sbegen. DO NOT EDIT.\n\nimport struct\n\nfrom . import _sbe_runtime as _rt\n\n_ORDER = %q\n\n\nclass %s:\n", orderPrefix(order), name)
	fmt.Fprintf(&b, "    LENGTH_PREFIX_SIZE = %d\n    ELEMENT_SIZE = %d\n\n", lenSize, elemSize)
	fmt.Fprintf(&b, "    @staticmethod\n    def read(buf: bytes, offset: int):\n")
	fmt.Fprintf(&b, "        (length,) = struct.unpack_from(_ORDER + %q, buf, offset)\n", lenChar)
	fmt.Fprintf(&b, "        start = offset + %s.LENGTH_PREFIX_SIZE\n", name)
	if isByte {
		fmt.Fprintf(&b, "        value = bytes(buf[start:start + length * %s.ELEMENT_SIZE])\n", name)
	} else {
		fmt.Fprintf(&b, "        if length:\n            value = list(struct.unpack_from(_ORDER + f\"{length}%s\", buf, start))\n        else:\n            value = []\n", elemChar)
	}
	fmt.Fprintf(&b, "        return value, start + length * %s.ELEMENT_SIZE\n\n", name)

	fmt.Fprintf(&b, "    @staticmethod\n    def write(value, buf: bytearray, offset: int) -> int:\n")
	fmt.Fprintf(&b, "        length = len(value)\n")
	if checkAscii {
		fmt.Fprintf(&b, "        _rt.check_ascii(bytes(value), %q)\n", vd.Name)
	}
	fmt.Fprintf(&b, "        struct.pack_into(_ORDER + %q, buf, offset, length)\n", lenChar)
	fmt.Fprintf(&b, "        start = offset + %s.LENGTH_PREFIX_SIZE\n", name)
	if isByte {
		fmt.Fprintf(&b, "        buf[start:start + length] = bytes(value)\n")
	} else {
		fmt.Fprintf(&b, "        if length:\n            struct.pack_into(_ORDER + f\"{length}%s\", buf, start, *value)\n", elemChar)
	}
	fmt.Fprintf(&b, "        return start + length * %s.ELEMENT_SIZE\n", name)

	return []byte(b.String()), nil
}

// GenerateMessage emits the message-level wrapper: a dataclass holding
// the block fields plus a plain list attribute per group and a
// bytes or list attribute per variable-data field (as GenerateVarData
// reads it; character data is returned as bytes and is not decoded to
// str), with to_bytes,
// write_to_buffer and from_bytes entry points. header is the schema's
// message-header composite: blockLength, templateId, schemaId, version
// in that order.
func GenerateMessage(m *schema.MessageType, header *schema.CompositeType, tbl *schema.Table, order schema.ByteOrder, schemaID, schemaVersion int, enumsPkg, setsPkg, compositesPkg, groupsPkg, varDataPkg string) ([]byte, error) {
	if len(header.Subs) < 4 {
		return nil, fmt.Errorf("message %q: header composite %q needs blockLength, templateId, schemaId, version", m.Name, header.Name)
	}
	var hdrChars [4]string
	hdrOffset := 0
	for i := 0; i < 4; i++ {
		enc, ok := header.Subs[i].(*schema.EncodedDataType)
		if !ok {
			return nil, fmt.Errorf("message %q: header field %d must be an encoded type", m.Name, i)
		}
		hdrChars[i] = structChar(enc.Primitive)
		size, err := sizeof.Size(enc, tbl)
		if err != nil {
			return nil, err
		}
		hdrOffset += size
	}
	headerFmt := hdrChars[0] + hdrChars[1] + hdrChars[2] + hdrChars[3]
	headerSize, err := sizeof.Size(header, tbl)
	if err != nil {
		return nil, err
	}

	fields, blockLen, err := composite.PlanBlockFields(m.Fields, tbl)
	if err != nil {
		return nil, err
	}
	name := genutil.Export(m.Name)
	extra := nestedExtra(blockLen, m.Groups, m.VarData, groupsPkg, varDataPkg)

	body, err := renderFields(name, fields, blockLen, order, enumsPkg, setsPkg, compositesPkg, extra)
	if err != nil {
		return nil, err
	}

	var tail strings.Builder
	fmt.Fprintf(&tail, "    TEMPLATE_ID = %d\n    SCHEMA_ID = %d\n    SCHEMA_VERSION = %d\n    HEADER_SIZE = %d\n", m.TemplateID, schemaID, schemaVersion, headerSize)
	fmt.Fprintf(&tail, `
    def to_bytes(self, buffer_size: int) -> bytes:
        buf = bytearray(buffer_size)
        n = self.write_to_buffer(buf)
        return bytes(buf[:n])

    def write_to_buffer(self, buf: bytearray) -> int:
        struct.pack_into(_ORDER + %q, buf, 0, %d, self.TEMPLATE_ID, self.SCHEMA_ID, self.SCHEMA_VERSION)
        end = self.write_to(buf, self.HEADER_SIZE)
        return end

    @classmethod
    def from_bytes(cls, data: bytes) -> "%s":
        buf = bytearray(data)
        (_block_length, template_id, _schema_id, _version) = struct.unpack_from(_ORDER + %q, buf, 0)
        if template_id != cls.TEMPLATE_ID:
            raise _rt.SbeError(
                f"sbe: wrong message type: got template id {template_id}, expected {cls.TEMPLATE_ID}"
            )
        instance, _ = cls.read_from(buf, cls.HEADER_SIZE)
        return instance
`, headerFmt, blockLen, name, headerFmt)

	out := strings.TrimRight(string(body), "\n") + "\n\n" + tail.String()
	return []byte(out), nil
}
