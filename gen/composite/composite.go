// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package composite emits the decoder/encoder pair for a composite:
// one read accessor and one write accessor per sub-field, at its
// computed static offset.
package composite

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/solidcoredata/sbegen/schema"
)

const fileTmplSrc = `// Code generated by sbegen. DO NOT EDIT.

package composites

import (
{{if .NeedMath}}	"math"
{{end}}	"{{.RuntimeImport}}"
{{if .NeedEnums}}
	"{{.EnumsImport}}"
{{end}}{{if .NeedSets}}
	"{{.SetsImport}}"
{{end}})

// {{.Name}}Decoder reads a {{.Name}} composite at a fixed offset within
// its parent buffer.
type {{.Name}}Decoder struct {
	Buf    *runtimecodec.ReadBuffer
	Offset int
}

// {{.Name}}EncodedSize is the on-wire size of {{.Name}}, in bytes.
const {{.Name}}EncodedSize = {{.Size}}
{{.DecoderBody}}
// {{.Name}}Encoder writes a {{.Name}} composite at a fixed offset
// within its parent buffer.
type {{.Name}}Encoder struct {
	Buf    *runtimecodec.WriteBuffer
	Offset int
}
{{.EncoderBody}}`

var fileTmpl = template.Must(template.New("composite").Parse(fileTmplSrc))

type fileData struct {
	Name          string
	Size          int
	RuntimeImport string
	EnumsImport   string
	SetsImport    string
	NeedMath      bool
	NeedEnums     bool
	NeedSets      bool
	DecoderBody   string
	EncoderBody   string
}

// Generate renders the decoder and encoder for one composite type.
// enumsImport/setsImport are the sibling packages' import paths within
// the emitted project; they are only woven into the import block when
// this composite actually uses an enum or bit-set sub-field.
func Generate(c *schema.CompositeType, tbl *schema.Table, runtimeImport, enumsImport, setsImport string) ([]byte, error) {
	plan, err := PlanComposite(c, tbl)
	if err != nil {
		return nil, err
	}

	var dec, enc strings.Builder
	d := fileData{
		Name:          plan.Name,
		Size:          plan.Size,
		RuntimeImport: runtimeImport,
		EnumsImport:   enumsImport,
		SetsImport:    setsImport,
	}
	for _, fp := range plan.Fields {
		renderDecoderField(&dec, plan.Name, fp, "")
		renderEncoderField(&enc, plan.Name, fp, "")
		if fp.Kind == KindEnum {
			d.NeedEnums = true
		}
		if fp.Kind == KindSet {
			d.NeedSets = true
		}
		if fp.Presence == schema.Optional && fp.IsFloat {
			d.NeedMath = true
		}
	}
	d.DecoderBody = dec.String()
	d.EncoderBody = enc.String()

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderDecoderField appends one decoder accessor method to b. It is
// shared by the composite, group and message emitters, since all
// three lay out a flat block of fields at prefix-sum offsets.
// compositesPkg is the package qualifier a KindComposite field's
// sub-decoder type needs: empty when the caller is itself generating a
// composite (nested composites live in the same package), or the
// composites package's bare import name when the caller is a group or
// message, which live one package away.
func RenderDecoderField(b *strings.Builder, receiver string, fp FieldPlan, compositesPkg string) {
	renderDecoderField(b, receiver, fp, compositesPkg)
}

// RenderEncoderField appends one encoder accessor method to b.
func RenderEncoderField(b *strings.Builder, receiver string, fp FieldPlan, compositesPkg string) {
	renderEncoderField(b, receiver, fp, compositesPkg)
}

func renderDecoderField(b *strings.Builder, composite string, fp FieldPlan, compositesPkg string) {
	switch fp.Kind {
	case KindEnumConstant:
		fmt.Fprintf(b, `
// %s is a constant field bound to a declared enum value; it
// contributes no bytes on-wire.
func (d *%sDecoder) %s() enums.%s {
	return enums.%s%s
}
`, fp.Name, composite, fp.Name, fp.EnumName, fp.EnumName, fp.EnumValueName)

	case KindCharConstant:
		fmt.Fprintf(b, `
// %s is a constant field; it contributes no bytes on-wire.
func (d *%sDecoder) %s() string {
	return %q
}
`, fp.Name, composite, fp.Name, fp.ConstValue)

	case KindPrimitive:
		if fp.Presence == schema.Optional {
			fmt.Fprintf(b, `
func (d *%sDecoder) %s() (%s, bool, error) {
	v, err := d.Buf.Get%sAt(d.Offset + %d)
	if err != nil {
		return 0, false, err
	}
	if %s {
		return 0, false, nil
	}
	return v, true, nil
}
`, composite, fp.Name, fp.GoPrim, fp.AccessorSuffix, fp.Offset, nullCheckExpr(fp, "v"))
		} else {
			fmt.Fprintf(b, `
func (d *%sDecoder) %s() (%s, error) {
	return d.Buf.Get%sAt(d.Offset + %d)
}
`, composite, fp.Name, fp.GoPrim, fp.AccessorSuffix, fp.Offset)
		}

	case KindArray:
		fmt.Fprintf(b, `
func (d *%sDecoder) %s() ([%d]%s, error) {
	var out [%d]%s
	for i := 0; i < %d; i++ {
		v, err := d.Buf.Get%sAt(d.Offset + %d + i*%d)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}
`, composite, fp.Name, fp.Length, fp.GoPrim, fp.Length, fp.GoPrim, fp.Length, fp.AccessorSuffix, fp.Offset, fp.Length, fp.Length)

	case KindString:
		fmt.Fprintf(b, `
func (d *%sDecoder) %s() (string, error) {
	raw, err := d.Buf.GetSliceAt(d.Offset + %d, %d)
	if err != nil {
		return "", err
	}
	trimmed := runtimecodec.TrimTrailingZeros(raw)
	if err := runtimecodec.ValidateUTF8(trimmed); err != nil {
		return "", err
	}
	return string(trimmed), nil
}
`, composite, fp.Name, fp.Offset, fp.Length)

	case KindEnum:
		fmt.Fprintf(b, `
func (d *%sDecoder) %s() (enums.%s, error) {
	v, err := d.Buf.Get%sAt(d.Offset + %d)
	if err != nil {
		return 0, err
	}
	return enums.%sFromPrimitive(v)
}
`, composite, fp.Name, fp.EnumName, fp.AccessorSuffix, fp.Offset, fp.EnumName)

	case KindSet:
		fmt.Fprintf(b, `
func (d *%sDecoder) %s() (sets.%s, error) {
	v, err := d.Buf.Get%sAt(d.Offset + %d)
	if err != nil {
		return 0, err
	}
	return sets.%sFromPrimitive(v), nil
}
`, composite, fp.Name, fp.SetName, fp.AccessorSuffix, fp.Offset, fp.SetName)

	case KindComposite:
		sub := compositeTypeRef(compositesPkg, fp.CompositeName)
		fmt.Fprintf(b, `
// %s hands the caller a sub-decoder scoped to this field's offset; the
// sub-decoder does not outlive the call.
func (d *%sDecoder) %s(fn func(*%sDecoder) error) error {
	sub := &%sDecoder{Buf: d.Buf, Offset: d.Offset + %d}
	return fn(sub)
}
`, fp.Name, composite, fp.Name, sub, sub, fp.Offset)
	}
}

// compositeTypeRef qualifies a composite type name with its package
// when the caller lives outside the composites package itself.
func compositeTypeRef(compositesPkg, name string) string {
	if compositesPkg == "" {
		return name
	}
	return compositesPkg + "." + name
}

func renderEncoderField(b *strings.Builder, composite string, fp FieldPlan, compositesPkg string) {
	switch fp.Kind {
	case KindEnumConstant:
		fmt.Fprintf(b, `
// %s is a constant field bound to a declared enum value; writing it
// is a no-op.
func (e *%sEncoder) %s() enums.%s {
	return enums.%s%s
}
`, fp.Name, composite, fp.Name, fp.EnumName, fp.EnumName, fp.EnumValueName)

	case KindCharConstant:
		fmt.Fprintf(b, `
// %s is a constant field; writing it is a no-op.
func (e *%sEncoder) %s() string {
	return %q
}
`, fp.Name, composite, fp.Name, fp.ConstValue)

	case KindPrimitive:
		if fp.Presence == schema.Optional {
			fmt.Fprintf(b, `
func (e *%sEncoder) Put%s(v %s, present bool) error {
	if !present {
		return e.Buf.Put%sAt(e.Offset+%d, %s)
	}
%s	return e.Buf.Put%sAt(e.Offset+%d, v)
}
`, composite, fp.Name, fp.GoPrim, fp.AccessorSuffix, fp.Offset, nullLiteralCast(fp), boundsCheckSnippet(fp, "v", "\t"), fp.AccessorSuffix, fp.Offset)
		} else {
			fmt.Fprintf(b, `
func (e *%sEncoder) Put%s(v %s) error {
%s	return e.Buf.Put%sAt(e.Offset+%d, v)
}
`, composite, fp.Name, fp.GoPrim, boundsCheckSnippet(fp, "v", "\t"), fp.AccessorSuffix, fp.Offset)
		}

	case KindArray:
		fmt.Fprintf(b, `
func (e *%sEncoder) Put%s(v [%d]%s) error {
	for i, x := range v {
		if err := e.Buf.Put%sAt(e.Offset+%d+i*%d, x); err != nil {
			return err
		}
	}
	return nil
}
`, composite, fp.Name, fp.Length, fp.GoPrim, fp.AccessorSuffix, fp.Offset, fp.Length)

	case KindString:
		asciiCheck := ""
		if fp.HasCharEncoding && fp.ASCII {
			asciiCheck = `	if err := runtimecodec.CheckASCII(raw); err != nil {
		return err
	}
`
		}
		fmt.Fprintf(b, `
func (e *%sEncoder) Put%s(v string) error {
	raw := []byte(v)
	if err := runtimecodec.CheckStringLength(%q, len([]rune(v)), %d); err != nil {
		return err
	}
%s	padded := runtimecodec.PadTrunc(raw, %d)
	return e.Buf.PutSliceAt(e.Offset+%d, padded)
}
`, composite, fp.Name, fp.RawName, fp.Length, asciiCheck, fp.Length, fp.Offset)

	case KindEnum:
		fmt.Fprintf(b, `
func (e *%sEncoder) Put%s(v enums.%s) error {
	return e.Buf.Put%sAt(e.Offset+%d, v.ToPrimitive())
}
`, composite, fp.Name, fp.EnumName, fp.AccessorSuffix, fp.Offset)

	case KindSet:
		fmt.Fprintf(b, `
func (e *%sEncoder) Put%s(v sets.%s) error {
	return e.Buf.Put%sAt(e.Offset+%d, v.ToPrimitive())
}
`, composite, fp.Name, fp.SetName, fp.AccessorSuffix, fp.Offset)

	case KindComposite:
		sub := compositeTypeRef(compositesPkg, fp.CompositeName)
		fmt.Fprintf(b, `
// %s hands the caller a sub-encoder scoped to this field's offset; the
// sub-encoder does not outlive the call.
func (e *%sEncoder) %s(fn func(*%sEncoder) error) error {
	sub := &%sEncoder{Buf: e.Buf, Offset: e.Offset + %d}
	return fn(sub)
}
`, fp.Name, composite, fp.Name, sub, sub, fp.Offset)
	}
}

// ImportFlags inspects a resolved field list and reports which
// optional sibling imports (math, enums, sets, composites) the
// rendered accessors reference. Shared by the group and message
// emitters.
func ImportFlags(fields []FieldPlan) (needMath, needEnums, needSets, needComposites bool) {
	for _, fp := range fields {
		switch fp.Kind {
		case KindEnum, KindEnumConstant:
			needEnums = true
		case KindSet:
			needSets = true
		case KindComposite:
			needComposites = true
		}
		if fp.Presence == schema.Optional && fp.IsFloat {
			needMath = true
		}
	}
	return
}

func nullCheckExpr(fp FieldPlan, varName string) string {
	if fp.IsFloat {
		if fp.GoPrim == "float32" {
			return fmt.Sprintf("runtimecodec.IsFloatNull32(%s)", varName)
		}
		return fmt.Sprintf("runtimecodec.IsFloatNull64(%s)", varName)
	}
	return fmt.Sprintf("%s == %s", varName, fp.NullLiteral)
}

func nullLiteralCast(fp FieldPlan) string {
	if fp.IsFloat {
		if fp.GoPrim == "float32" {
			return "float32(math.NaN())"
		}
		return "math.NaN()"
	}
	return fp.NullLiteral
}

func boundsCheckSnippet(fp FieldPlan, varName, indent string) string {
	if !fp.HasMin && !fp.HasMax {
		return ""
	}
	if fp.Unsigned {
		return fmt.Sprintf("%sif err := runtimecodec.CheckUintBounds(%q, uint64(%s), %d, %d, %v, %v); err != nil {\n%s\treturn err\n%s}\n",
			indent, fp.RawName, varName, fp.MinU, fp.MaxU, fp.HasMin, fp.HasMax, indent, indent)
	}
	return fmt.Sprintf("%sif err := runtimecodec.CheckIntBounds(%q, int64(%s), %d, %d, %v, %v); err != nil {\n%s\treturn err\n%s}\n",
		indent, fp.RawName, varName, fp.Min, fp.Max, fp.HasMin, fp.HasMax, indent, indent)
}
