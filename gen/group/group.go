// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package group emits the repeating-group decoder/encoder pair: a
// dimension header (block-length, num-in-group) followed by
// numInGroup repetitions of a fixed-length block, followed by any
// nested groups and variable-data tails belonging to each repetition.
package group

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
	TypeName   string // exported sub-group type name, for groups
	IsGroup    bool
	MissingErr string // "NewMissingGroupSize" or "NewMissingVarDataSize"
}

const tmplSrc = `// Code generated by sbegen. DO NOT EDIT.

package groups

import (
{{if .NeedMath}}	"math"
{{end}}	"{{.RuntimeImport}}"
{{if .NeedEnums}}
	"{{.EnumsImport}}"
{{end}}{{if .NeedSets}}
	"{{.SetsImport}}"
{{end}}{{if .NeedComposites}}
	"{{.CompositesImport}}"
{{end}}{{if .NeedVarData}}
	"{{.VarDataImport}}"
{{end}})

// {{.Name}}Decoder iterates the {{.RawName}} repeating group: a
// dimension header followed by Count fixed-length blocks, each
// optionally followed by nested groups and variable-data in
// declaration order.
type {{.Name}}Decoder struct {
	Buf    *runtimecodec.ReadBuffer
	Offset int // start offset of the entry currently being read

	BlockLength int
	Count       int

	index            int
	consumed         int
	nextNestedOffset int
	nestedDone       map[string]bool
	nestedSize       map[string]int
}

func New{{.Name}}Decoder(buf *runtimecodec.ReadBuffer, dimOffset int) (*{{.Name}}Decoder, error) {
	bl, err := buf.Get{{.DimBlockSuffix}}At(dimOffset)
	if err != nil {
		return nil, err
	}
	n, err := buf.Get{{.DimNumSuffix}}At(dimOffset + {{.DimNumOffset}})
	if err != nil {
		return nil, err
	}
	d := &{{.Name}}Decoder{
		Buf:         buf,
		Offset:      dimOffset + {{.DimSize}},
		BlockLength: int(bl),
		Count:       int(n),
		nestedDone:  make(map[string]bool, {{.NestedCount}}),
		nestedSize:  make(map[string]int, {{.NestedCount}}),
	}
	d.nextNestedOffset = d.Offset + d.BlockLength
	return d, nil
}

func (d *{{.Name}}Decoder) Index() int { return d.index }

// Advance moves to the next entry. It may only be called while
// Index() < Count.
func (d *{{.Name}}Decoder) Advance() error {
	if d.index >= d.Count {
		return runtimecodec.NewGroupOutOfBounds("{{.RawName}}")
	}
	advancement := d.BlockLength
{{range .Nested}}	if !d.nestedDone["{{.RawName}}"] {
		return runtimecodec.{{.MissingErr}}("{{.RawName}}")
	}
	advancement += d.nestedSize["{{.RawName}}"]
{{end}}	d.Offset += advancement
	d.consumed += advancement
	d.index++
	for k := range d.nestedDone {
		delete(d.nestedDone, k)
	}
	d.nextNestedOffset = d.Offset + d.BlockLength
	return nil
}

// Size returns the total bytes consumed by this group, but only once
// every entry has been visited.
func (d *{{.Name}}Decoder) Size() (int, bool) {
	if d.index != d.Count {
		return 0, false
	}
	return {{.DimSize}} + d.consumed, true
}
{{.DecoderFields}}
{{range .Nested}}{{if .IsGroup}}
// {{.Name}} hands the caller a sub-decoder for the nested {{.RawName}}
// group of the current entry. It may not be invoked twice without an
// intervening Advance.
func (d *{{$.Name}}Decoder) {{.Name}}(fn func(*{{.TypeName}}Decoder) error) error {
	sub, err := New{{.TypeName}}Decoder(d.Buf, d.nextNestedOffset)
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
	d.nextNestedOffset += size
	return nil
}
{{else}}
// {{.Name}} hands the caller a sub-decoder for the nested {{.RawName}}
// variable-data field of the current entry. It may not be invoked
// twice without an intervening Advance.
func (d *{{$.Name}}Decoder) {{.Name}}(fn func(*vardata.{{.TypeName}}Decoder) error) error {
	sub := &vardata.{{.TypeName}}Decoder{Buf: d.Buf, Offset: d.nextNestedOffset}
	if err := fn(sub); err != nil {
		return err
	}
	size, err := sub.Size()
	if err != nil {
		return err
	}
	d.nestedSize["{{.RawName}}"] = size
	d.nestedDone["{{.RawName}}"] = true
	d.nextNestedOffset += size
	return nil
}
{{end}}{{end}}
// {{.Name}}Encoder writes the {{.RawName}} repeating group.
type {{.Name}}Encoder struct {
	Buf    *runtimecodec.WriteBuffer
	Offset int // start offset of the entry currently being written

	dimOffset        int
	BlockLength      int
	numInGroup       int
	consumed         int
	nextNestedOffset int
	nestedDone       map[string]bool
	nestedSize       map[string]int
}

func New{{.Name}}Encoder(buf *runtimecodec.WriteBuffer, dimOffset int) *{{.Name}}Encoder {
	e := &{{.Name}}Encoder{
		Buf:         buf,
		dimOffset:   dimOffset,
		Offset:      dimOffset + {{.DimSize}},
		BlockLength: {{.BlockLength}},
		nestedDone:  make(map[string]bool, {{.NestedCount}}),
		nestedSize:  make(map[string]int, {{.NestedCount}}),
	}
	e.nextNestedOffset = e.Offset + e.BlockLength
	return e
}
{{.EncoderFields}}
{{range .Nested}}{{if .IsGroup}}
// {{.Name}} hands the caller a sub-encoder for the nested {{.RawName}}
// group of the current entry. It may not be invoked twice without an
// intervening Advance.
func (e *{{$.Name}}Encoder) {{.Name}}(fn func(*{{.TypeName}}Encoder) error) error {
	sub := New{{.TypeName}}Encoder(e.Buf, e.nextNestedOffset)
	if err := fn(sub); err != nil {
		return err
	}
	if err := sub.Finalize(); err != nil {
		return err
	}
	size := sub.Size()
	e.nestedSize["{{.RawName}}"] = size
	e.nestedDone["{{.RawName}}"] = true
	e.nextNestedOffset += size
	return nil
}
{{else}}
// {{.Name}} hands the caller a sub-encoder for the nested {{.RawName}}
// variable-data field of the current entry. It may not be invoked
// twice without an intervening Advance.
func (e *{{$.Name}}Encoder) {{.Name}}(fn func(*vardata.{{.TypeName}}Encoder) error) error {
	sub := &vardata.{{.TypeName}}Encoder{Buf: e.Buf, Offset: e.nextNestedOffset}
	if err := fn(sub); err != nil {
		return err
	}
	if err := sub.Finalize(); err != nil {
		return err
	}
	size := sub.Size()
	e.nestedSize["{{.RawName}}"] = size
	e.nestedDone["{{.RawName}}"] = true
	e.nextNestedOffset += size
	return nil
}
{{end}}{{end}}
// Advance commits the entry currently being written: it increments
// the in-progress numInGroup and folds in the block and every nested
// construct's recorded size.
func (e *{{.Name}}Encoder) Advance() error {
	advancement := e.BlockLength
{{range .Nested}}	if !e.nestedDone["{{.RawName}}"] {
		return runtimecodec.{{.MissingErr}}("{{.RawName}}")
	}
	advancement += e.nestedSize["{{.RawName}}"]
{{end}}	if uint64(e.numInGroup+1) > runtimecodec.NullUint({{.DimNumWidth}}) {
		return runtimecodec.NewGroupOutOfBounds("numInGroup")
	}
	e.numInGroup++
	e.consumed += advancement
	e.Offset += advancement
	for k := range e.nestedDone {
		delete(e.nestedDone, k)
	}
	e.nextNestedOffset = e.Offset + e.BlockLength
	return nil
}

// Size returns the total bytes written so far, including the
// dimension header.
func (e *{{.Name}}Encoder) Size() int {
	return {{.DimSize}} + e.consumed
}

// Finalize writes the final blockLength and numInGroup into the
// dimension header. It must be called exactly once, after every entry
// has been written and advanced past.
func (e *{{.Name}}Encoder) Finalize() error {
	if err := e.Buf.Put{{.DimBlockSuffix}}At(e.dimOffset, {{.DimBlockGoPrim}}(e.BlockLength)); err != nil {
		return err
	}
	return e.Buf.Put{{.DimNumSuffix}}At(e.dimOffset+{{.DimNumOffset}}, {{.DimNumGoPrim}}(e.numInGroup))
}
`

var tmpl = template.Must(template.New("group").Parse(tmplSrc))

type data struct {
	Name          string
	RawName       string
	RuntimeImport    string
	EnumsImport      string
	SetsImport       string
	CompositesImport string
	VarDataImport    string
	NeedMath         bool
	NeedEnums        bool
	NeedSets         bool
	NeedComposites   bool
	NeedVarData      bool

	DimBlockSuffix string
	DimNumSuffix   string
	DimBlockGoPrim string
	DimNumGoPrim   string
	DimNumOffset   int
	DimNumWidth    int
	DimSize        int
	BlockLength    int
	NestedCount    int

	DecoderFields string
	EncoderFields string
	Nested        []nested
}

// Generate renders the decoder and encoder for one repeating group.
// dimensionDefault is the schema's default dimension composite name
// (schema.Schema does not carry one explicitly; "groupSizeEncoding" is
// used unless the group overrides it).
func Generate(g *schema.GroupType, tbl *schema.Table, dimensionDefault, runtimeImport, enumsImport, setsImport, compositesImport, varDataImport string) ([]byte, error) {
	dimName := g.DimensionType
	if dimName == "" {
		dimName = dimensionDefault
	}
	dim, ok := tbl.Composites[dimName]
	if !ok {
		return nil, fmt.Errorf("group %q: unknown dimension composite %q", g.Name, dimName)
	}
	if len(dim.Subs) < 2 {
		return nil, fmt.Errorf("group %q: dimension composite %q needs blockLength and numInGroup", g.Name, dimName)
	}
	blField := dim.Subs[0].(*schema.EncodedDataType)
	numField := dim.Subs[1].(*schema.EncodedDataType)
	dimSize, err := sizeof.Size(dim, tbl)
	if err != nil {
		return nil, err
	}
	numOffset, err := sizeof.Size(blField, tbl)
	if err != nil {
		return nil, err
	}

	fields, blockLen, err := composite.PlanBlockFields(g.Fields, tbl)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", g.Name, err)
	}

	needMath, needEnums, needSets, needComposites := composite.ImportFlags(fields)

	var dec, enc strings.Builder
	for _, fp := range fields {
		composite.RenderDecoderField(&dec, genutil.Export(g.Name), fp, "composites")
		composite.RenderEncoderField(&enc, genutil.Export(g.Name), fp, "composites")
	}

	d := data{
		Name:             genutil.Export(g.Name),
		RawName:          g.Name,
		RuntimeImport:    runtimeImport,
		EnumsImport:      enumsImport,
		SetsImport:       setsImport,
		CompositesImport: compositesImport,
		VarDataImport:    varDataImport,
		NeedMath:         needMath,
		NeedEnums:        needEnums,
		NeedSets:         needSets,
		NeedComposites:   needComposites,
		DimBlockSuffix: genutil.AccessorSuffix(blField.Primitive),
		DimNumSuffix:   genutil.AccessorSuffix(numField.Primitive),
		DimBlockGoPrim: genutil.GoPrimitive(blField.Primitive),
		DimNumGoPrim:   genutil.GoPrimitive(numField.Primitive),
		DimNumOffset:   numOffset,
		DimNumWidth:    numField.Primitive.Size(),
		DimSize:        dimSize,
		BlockLength:    blockLen,
		DecoderFields:  dec.String(),
		EncoderFields:  enc.String(),
	}

	for _, sub := range g.Groups {
		d.Nested = append(d.Nested, nested{RawName: sub.Name, Name: genutil.Export(sub.Name), TypeName: genutil.Export(sub.Name), IsGroup: true, MissingErr: "NewMissingGroupSize"})
	}
	for _, vd := range g.VarData {
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
