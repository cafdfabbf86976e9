// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package message emits the top-level message decoder/encoder pair: a
// fixed message-header prefix (identifying the template, schema and
// version), followed by the message's own fixed block, repeating
// groups and variable-data tails, all in declaration order.
package message

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

type nested struct {
	RawName    string
	Name       string
	TypeName   string
	IsGroup    bool
	MissingErr string
}

type headerField struct {
	RawName string
	Name    string
	Suffix  string
	GoPrim  string
	Offset  int
}

const tmplSrc = `// Code generated by sbegen. DO NOT EDIT.

package messages

import (
{{if .NeedMath}}	"math"
{{end}}	"{{.RuntimeImport}}"
{{if .NeedEnums}}
	"{{.EnumsImport}}"
{{end}}{{if .NeedSets}}
	"{{.SetsImport}}"
{{end}}{{if .NeedComposites}}
	"{{.CompositesImport}}"
{{end}}{{if .NeedGroups}}
	"{{.GroupsImport}}"
{{end}}{{if .NeedVarData}}
	"{{.VarDataImport}}"
{{end}})

const {{.Name}}TemplateID = {{.TemplateID}}
const {{.Name}}BlockLength = {{.BlockLength}}
const {{.Name}}HeaderSize = {{.HeaderSize}}

// {{.Name}}Decoder reads one {{.RawName}} message: the message header,
// the fixed block, then every group and variable-data tail in
// declaration order.
type {{.Name}}Decoder struct {
	Buf    *runtimecodec.ReadBuffer
	Offset int // start of the fixed block, immediately after the header

	blockLength int
	nextOffset  int
	nestedDone  map[string]bool
	nestedSize  map[string]int
}

// New{{.Name}}Decoder reads the message header at msgOffset and
// validates its templateId. schemaId and version are exposed through
// HeaderSchemaID and HeaderVersion for callers that need compatibility
// checks beyond the identity check performed here.
func New{{.Name}}Decoder(buf *runtimecodec.ReadBuffer, msgOffset int) (*{{.Name}}Decoder, error) {
	tid, err := buf.Get{{.HdrTemplateIDSuffix}}At(msgOffset + {{.HdrTemplateIDOffset}})
	if err != nil {
		return nil, err
	}
	if int(tid) != {{.Name}}TemplateID {
		return nil, runtimecodec.NewWrongMessageType(int(tid), {{.Name}}TemplateID)
	}
	bl, err := buf.Get{{.HdrBlockLengthSuffix}}At(msgOffset + {{.HdrBlockLengthOffset}})
	if err != nil {
		return nil, err
	}
	d := &{{.Name}}Decoder{
		Buf:         buf,
		Offset:      msgOffset + {{.HeaderSize}},
		blockLength: int(bl),
		nestedDone:  make(map[string]bool, {{.NestedCount}}),
		nestedSize:  make(map[string]int, {{.NestedCount}}),
	}
	d.nextOffset = d.Offset + d.blockLength
	return d, nil
}

// HeaderSchemaID returns the schemaId field of the message header.
func (d *{{.Name}}Decoder) HeaderSchemaID() ({{.HdrSchemaIDGoPrim}}, error) {
	return d.Buf.Get{{.HdrSchemaIDSuffix}}At(d.Offset - {{.HeaderSize}} + {{.HdrSchemaIDOffset}})
}

// HeaderVersion returns the version field of the message header.
func (d *{{.Name}}Decoder) HeaderVersion() ({{.HdrVersionGoPrim}}, error) {
	return d.Buf.Get{{.HdrVersionSuffix}}At(d.Offset - {{.HeaderSize}} + {{.HdrVersionOffset}})
}
{{.DecoderFields}}
{{range .Nested}}{{if .IsGroup}}
// {{.Name}} hands the caller a sub-decoder for the {{.RawName}} group.
// It may not be invoked twice.
func (d *{{$.Name}}Decoder) {{.Name}}(fn func(*groups.{{.TypeName}}Decoder) error) error {
	sub, err := groups.New{{.TypeName}}Decoder(d.Buf, d.nextOffset)
	if err != nil {
		return err
	}
	if err := fn(sub); err != nil {
		return err
	}
	size, ok := sub.Size()
	if !ok {
		return runtimecodec.NewMissingGroupSize("{{.RawName}}")
	}
	d.nestedSize["{{.RawName}}"] = size
	d.nestedDone["{{.RawName}}"] = true
	d.nextOffset += size
	return nil
}
{{else}}
// {{.Name}} hands the caller a sub-decoder for the {{.RawName}}
// variable-data field. It may not be invoked twice.
func (d *{{$.Name}}Decoder) {{.Name}}(fn func(*vardata.{{.TypeName}}Decoder) error) error {
	sub := &vardata.{{.TypeName}}Decoder{Buf: d.Buf, Offset: d.nextOffset}
	if err := fn(sub); err != nil {
		return err
	}
	size, err := sub.Size()
	if err != nil {
		return err
	}
	d.nestedSize["{{.RawName}}"] = size
	d.nestedDone["{{.RawName}}"] = true
	d.nextOffset += size
	return nil
}
{{end}}{{end}}
// Size returns the total encoded message length, including the header,
// once every group and variable-data field has been visited.
func (d *{{.Name}}Decoder) Size() (int, bool) {
	total := {{.HeaderSize}} + d.blockLength
{{range .Nested}}	if !d.nestedDone["{{.RawName}}"] {
		return 0, false
	}
	total += d.nestedSize["{{.RawName}}"]
{{end}}	return total, true
}

// {{.Name}}Encoder writes one {{.RawName}} message.
type {{.Name}}Encoder struct {
	Buf    *runtimecodec.WriteBuffer
	Offset int // start of the fixed block, immediately after the header

	msgOffset  int
	nextOffset int
	nestedDone map[string]bool
	nestedSize map[string]int
}

// New{{.Name}}Encoder writes the message header at msgOffset (templateId,
// blockLength, schemaId, version) and positions the encoder at the
// start of the fixed block.
func New{{.Name}}Encoder(buf *runtimecodec.WriteBuffer, msgOffset int, schemaID, schemaVersion int) (*{{.Name}}Encoder, error) {
	if err := buf.Put{{.HdrBlockLengthSuffix}}At(msgOffset+{{.HdrBlockLengthOffset}}, {{.HdrBlockLengthGoPrim}}({{.Name}}BlockLength)); err != nil {
		return nil, err
	}
	if err := buf.Put{{.HdrTemplateIDSuffix}}At(msgOffset+{{.HdrTemplateIDOffset}}, {{.HdrTemplateIDGoPrim}}({{.Name}}TemplateID)); err != nil {
		return nil, err
	}
	if err := buf.Put{{.HdrSchemaIDSuffix}}At(msgOffset+{{.HdrSchemaIDOffset}}, {{.HdrSchemaIDGoPrim}}(schemaID)); err != nil {
		return nil, err
	}
	if err := buf.Put{{.HdrVersionSuffix}}At(msgOffset+{{.HdrVersionOffset}}, {{.HdrVersionGoPrim}}(schemaVersion)); err != nil {
		return nil, err
	}
	e := &{{.Name}}Encoder{
		Buf:        buf,
		Offset:     msgOffset + {{.HeaderSize}},
		msgOffset:  msgOffset,
		nestedDone: make(map[string]bool, {{.NestedCount}}),
		nestedSize: make(map[string]int, {{.NestedCount}}),
	}
	e.nextOffset = e.Offset + {{.Name}}BlockLength
	return e, nil
}
{{.EncoderFields}}
{{range .Nested}}{{if .IsGroup}}
// {{.Name}} hands the caller a sub-encoder for the {{.RawName}} group.
// It may not be invoked twice.
func (e *{{$.Name}}Encoder) {{.Name}}(fn func(*groups.{{.TypeName}}Encoder) error) error {
	sub := groups.New{{.TypeName}}Encoder(e.Buf, e.nextOffset)
	if err := fn(sub); err != nil {
		return err
	}
	if err := sub.Finalize(); err != nil {
		return err
	}
	size := sub.Size()
	e.nestedSize["{{.RawName}}"] = size
	e.nestedDone["{{.RawName}}"] = true
	e.nextOffset += size
	return nil
}
{{else}}
// {{.Name}} hands the caller a sub-encoder for the {{.RawName}}
// variable-data field. It may not be invoked twice.
func (e *{{$.Name}}Encoder) {{.Name}}(fn func(*vardata.{{.TypeName}}Encoder) error) error {
	sub := &vardata.{{.TypeName}}Encoder{Buf: e.Buf, Offset: e.nextOffset}
	if err := fn(sub); err != nil {
		return err
	}
	if err := sub.Finalize(); err != nil {
		return err
	}
	size := sub.Size()
	e.nestedSize["{{.RawName}}"] = size
	e.nestedDone["{{.RawName}}"] = true
	e.nextOffset += size
	return nil
}
{{end}}{{end}}
// Size reports the total encoded message length, including the header,
// once every group and variable-data field has been written.
func (e *{{.Name}}Encoder) Size() (int, bool) {
	total := {{.HeaderSize}} + {{.Name}}BlockLength
{{range .Nested}}	if !e.nestedDone["{{.RawName}}"] {
		return 0, false
	}
	total += e.nestedSize["{{.RawName}}"]
{{end}}	return total, true
}
`

var tmpl = template.Must(template.New("message").Parse(tmplSrc))

type data struct {
	Name          string
	RawName          string
	RuntimeImport    string
	EnumsImport      string
	SetsImport       string
	CompositesImport string
	GroupsImport     string
	VarDataImport    string
	NeedMath         bool
	NeedEnums        bool
	NeedSets         bool
	NeedComposites   bool
	NeedGroups       bool
	NeedVarData      bool

	TemplateID  int
	BlockLength int
	HeaderSize  int

	HdrBlockLengthSuffix string
	HdrBlockLengthGoPrim string
	HdrBlockLengthOffset int
	HdrTemplateIDSuffix  string
	HdrTemplateIDGoPrim  string
	HdrTemplateIDOffset  int
	HdrSchemaIDSuffix    string
	HdrSchemaIDGoPrim    string
	HdrSchemaIDOffset    int
	HdrVersionSuffix     string
	HdrVersionGoPrim     string
	HdrVersionOffset     int

	NestedCount   int
	DecoderFields string
	EncoderFields string
	Nested        []nested
}

// Generate renders the decoder and encoder for one message. header is
// the schema's message-header composite: a 4-field layout of
// blockLength, templateId, schemaId and version, in that order.
func Generate(m *schema.MessageType, header *schema.CompositeType, tbl *schema.Table, runtimeImport, enumsImport, setsImport, compositesImport, groupsImport, varDataImport string) ([]byte, error) {
	if len(header.Subs) < 4 {
		return nil, fmt.Errorf("message %q: header composite %q needs blockLength, templateId, schemaId, version", m.Name, header.Name)
	}
	hf := make([]headerField, 4)
	offset := 0
	names := []string{"blockLength", "templateId", "schemaId", "version"}
	for i := 0; i < 4; i++ {
		enc, ok := header.Subs[i].(*schema.EncodedDataType)
		if !ok {
			return nil, fmt.Errorf("message %q: header field %d must be an encoded type", m.Name, i)
		}
		size, err := sizeof.Size(enc, tbl)
		if err != nil {
			return nil, err
		}
		hf[i] = headerField{
			RawName: names[i],
			Suffix:  genutil.AccessorSuffix(enc.Primitive),
			GoPrim:  genutil.GoPrimitive(enc.Primitive),
			Offset:  offset,
		}
		offset += size
	}
	headerSize, err := sizeof.Size(header, tbl)
	if err != nil {
		return nil, err
	}

	fields, blockLen, err := composite.PlanBlockFields(m.Fields, tbl)
	if err != nil {
		return nil, fmt.Errorf("message %q: %w", m.Name, err)
	}
	needMath, needEnums, needSets, needComposites := composite.ImportFlags(fields)

	var dec, enc strings.Builder
	for _, fp := range fields {
		composite.RenderDecoderField(&dec, genutil.Export(m.Name), fp, "composites")
		composite.RenderEncoderField(&enc, genutil.Export(m.Name), fp, "composites")
	}

	d := data{
		Name:             genutil.Export(m.Name),
		RawName:          m.Name,
		RuntimeImport:    runtimeImport,
		EnumsImport:      enumsImport,
		SetsImport:       setsImport,
		CompositesImport: compositesImport,
		GroupsImport:     groupsImport,
		VarDataImport:    varDataImport,
		NeedMath:         needMath,
		NeedEnums:        needEnums,
		NeedSets:         needSets,
		NeedComposites:   needComposites,

		TemplateID:  m.TemplateID,
		BlockLength: blockLen,
		HeaderSize:  headerSize,

		HdrBlockLengthSuffix: hf[0].Suffix,
		HdrBlockLengthGoPrim: hf[0].GoPrim,
		HdrBlockLengthOffset: hf[0].Offset,
		HdrTemplateIDSuffix:  hf[1].Suffix,
		HdrTemplateIDGoPrim:  hf[1].GoPrim,
		HdrTemplateIDOffset:  hf[1].Offset,
		HdrSchemaIDSuffix:    hf[2].Suffix,
		HdrSchemaIDGoPrim:    hf[2].GoPrim,
		HdrSchemaIDOffset:    hf[2].Offset,
		HdrVersionSuffix:     hf[3].Suffix,
		HdrVersionGoPrim:     hf[3].GoPrim,
		HdrVersionOffset:     hf[3].Offset,

		DecoderFields: dec.String(),
		EncoderFields: enc.String(),
	}

	for _, sub := range m.Groups {
		d.Nested = append(d.Nested, nested{RawName: sub.Name, Name: genutil.Export(sub.Name), TypeName: genutil.Export(sub.Name), IsGroup: true, MissingErr: "NewMissingGroupSize"})
		d.NeedGroups = true
	}
	for _, vd := range m.VarData {
		d.Nested = append(d.Nested, nested{RawName: vd.Name, Name: genutil.Export(vd.Name), TypeName: genutil.Export(vd.Name), IsGroup: false, MissingErr: "NewMissingVarDataSize"})
		d.NeedVarData = true
	}
	d.NestedCount = len(d.Nested)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
