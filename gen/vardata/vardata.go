// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vardata emits the length-prefixed variable-length tail
// field codec.
package vardata

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/solidcoredata/sbegen/gen/genutil"
	"github.com/solidcoredata/sbegen/schema"
)

const tmplSrc = `// Code generated by sbegen. DO NOT EDIT.

package vardata

import (
	"{{.RuntimeImport}}"
)

const {{.Name}}LengthPrefixSize = {{.LenSize}}
const {{.Name}}ElementSize = {{.ElemSize}}

// {{.Name}}Decoder reads a length-prefixed {{.Name}} tail field:
// length({{.LenSize}} bytes) || length*{{.ElemSize}} bytes of element data.
type {{.Name}}Decoder struct {
	Buf    *runtimecodec.ReadBuffer
	Offset int
}

func (d *{{.Name}}Decoder) Length() ({{.LenGoPrim}}, error) {
	return d.Buf.Get{{.LenSuffix}}At(d.Offset)
}

func (d *{{.Name}}Decoder) Size() (int, error) {
	n, err := d.Length()
	if err != nil {
		return 0, err
	}
	return {{.Name}}LengthPrefixSize + int(n)*{{.Name}}ElementSize, nil
}

func (d *{{.Name}}Decoder) GetAt(i int) ({{.ElemGoPrim}}, error) {
	n, err := d.Length()
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= int(n) {
		return 0, runtimecodec.NewVarDataOutOfBounds("{{.RawName}}")
	}
	return d.Buf.Get{{.ElemSuffix}}At(d.Offset + {{.Name}}LengthPrefixSize + i*{{.Name}}ElementSize)
}
{{if .IsByteElement}}
// GetSliceAt returns the n bytes starting at element index i.
func (d *{{.Name}}Decoder) GetSliceAt(i, n int) ([]byte, error) {
	length, err := d.Length()
	if err != nil {
		return nil, err
	}
	if i < 0 || i+n > int(length) {
		return nil, runtimecodec.NewVarDataOutOfBounds("{{.RawName}}")
	}
	return d.Buf.GetSliceAt(d.Offset+{{.Name}}LengthPrefixSize+i*{{.Name}}ElementSize, n)
}
{{end}}
// ForEach decodes the tail end to end, stopping at the first error fn
// returns.
func (d *{{.Name}}Decoder) ForEach(fn func(i int, v {{.ElemGoPrim}}) error) error {
	n, err := d.Length()
	if err != nil {
		return err
	}
	for i := 0; i < int(n); i++ {
		v, err := d.GetAt(i)
		if err != nil {
			return err
		}
		if err := fn(i, v); err != nil {
			return err
		}
	}
	return nil
}

// {{.Name}}Encoder writes a length-prefixed {{.Name}} tail field. The
// length prefix is tracked in-progress and only committed by Finalize.
type {{.Name}}Encoder struct {
	Buf    *runtimecodec.WriteBuffer
	Offset int
	length int
}

func (e *{{.Name}}Encoder) PutAt(i int, v {{.ElemGoPrim}}) error {
	if i < 0 || uint64(i+1) > runtimecodec.NullUint({{.LenWidth}}) {
		return runtimecodec.NewVarDataOutOfBounds("{{.RawName}}")
	}
{{.ElemValidation}}	if err := e.Buf.Put{{.ElemSuffix}}At(e.Offset+{{.Name}}LengthPrefixSize+i*{{.Name}}ElementSize, v); err != nil {
		return err
	}
	if i+1 > e.length {
		e.length = i + 1
	}
	return nil
}
{{if .IsByteElement}}
// PutSliceAt writes a contiguous run of bytes starting at element
// index i.
func (e *{{.Name}}Encoder) PutSliceAt(i int, v []byte) error {
{{.SliceValidation}}	if err := e.Buf.PutSliceAt(e.Offset+{{.Name}}LengthPrefixSize+i*{{.Name}}ElementSize, v); err != nil {
		return err
	}
	if i+len(v) > e.length {
		e.length = i + len(v)
	}
	return nil
}
{{end}}
// Finalize writes the final length prefix and must be called exactly
// once, after every element has been written.
func (e *{{.Name}}Encoder) Finalize() error {
	return e.Buf.Put{{.LenSuffix}}At(e.Offset, {{.LenGoPrim}}(e.length))
}
`

var tmpl = template.Must(template.New("vardata").Parse(tmplSrc))

type data struct {
	Name            string
	RawName         string
	RuntimeImport   string
	LenGoPrim       string
	LenSuffix       string
	LenSize         int
	LenWidth        int
	ElemGoPrim      string
	ElemSuffix      string
	ElemSize        int
	IsByteElement   bool
	ElemValidation  string
	SliceValidation string
}

// Generate renders one Go source artifact for the given variable-data
// type, whose backing composite has been validated (per
// schema.validateVarData) to have exactly two sub-fields.
func Generate(vd *schema.VariableDataType, backing *schema.CompositeType, runtimeImport string) ([]byte, error) {
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

	d := data{
		Name:          genutil.Export(vd.Name),
		RawName:       vd.Name,
		RuntimeImport: runtimeImport,
		LenGoPrim:     genutil.GoPrimitive(lenField.Primitive),
		LenSuffix:     genutil.AccessorSuffix(lenField.Primitive),
		LenSize:       lenField.Primitive.Size(),
		LenWidth:      lenField.Primitive.Size(),
		ElemGoPrim:    genutil.GoPrimitive(elemField.Primitive),
		ElemSuffix:    genutil.AccessorSuffix(elemField.Primitive),
		ElemSize:      elemField.Primitive.Size(),
		IsByteElement: elemField.Primitive == schema.PrimUint8 || elemField.Primitive == schema.PrimChar,
	}

	if elemField.Primitive == schema.PrimChar && elemField.HasCharEncoding && elemField.CharacterEncoding == schema.EncodingASCII {
		d.ElemValidation = "\tif err := runtimecodec.CheckASCII([]byte{byte(v)}); err != nil {\n\t\treturn err\n\t}\n"
		d.SliceValidation = "\tif err := runtimecodec.CheckASCII(v); err != nil {\n\t\treturn err\n\t}\n"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
