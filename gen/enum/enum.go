// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package enum emits the closed tagged union codec: a
// primitive->enum conversion that is total with explicit failure for
// unknown values, and an enum->primitive conversion that is total and
// infallible.
package enum

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/solidcoredata/sbegen/gen/genutil"
	"github.com/solidcoredata/sbegen/runtimecodec"
	"github.com/solidcoredata/sbegen/schema"
)

const tmplSrc = `// Code generated by sbegen. DO NOT EDIT.

package enums

import (
	"fmt"

	"{{.RuntimeImport}}"
)

// {{.Name}} is a closed, tagged union over the values declared in the
// schema, plus a distinguished NullVal bound to the underlying
// primitive's null sentinel.
type {{.Name}} {{.GoPrim}}

const (
{{- range .Values}}
	{{$.Name}}{{.Name}} {{$.Name}} = {{.Literal}}
{{- end}}
	{{.Name}}NullVal {{.Name}} = {{.NullLiteral}}
)

// ToPrimitive is total and infallible.
func (v {{.Name}}) ToPrimitive() {{.GoPrim}} {
	return {{.GoPrim}}(v)
}

// {{.Name}}FromPrimitive is total-with-error: values outside the
// declared set (and not equal to the null sentinel) fail
// InvalidEnumValue.
func {{.Name}}FromPrimitive(p {{.GoPrim}}) ({{.Name}}, error) {
	switch p {
{{- range .Values}}
	case {{.Literal}}:
		return {{$.Name}}{{.Name}}, nil
{{- end}}
	case {{.NullLiteral}}:
		return {{.Name}}NullVal, nil
	default:
		return 0, runtimecodec.NewInvalidEnumValue("{{.Name}}", int64(p))
	}
}

// String returns the declared value name, or NULL_VAL for the null
// sentinel. Unknown values format as their numeric form.
func (v {{.Name}}) String() string {
	switch v {
{{- range .Values}}
	case {{$.Name}}{{.Name}}:
		return "{{.Name}}"
{{- end}}
	case {{.Name}}NullVal:
		return "NULL_VAL"
	default:
		return fmt.Sprintf("{{.Name}}(%d)", {{.GoPrim}}(v))
	}
}
`

var tmpl = template.Must(template.New("enum").Parse(tmplSrc))

type value struct {
	Name    string
	Literal int64
}

type data struct {
	Name          string
	GoPrim        string
	Values        []value
	NullLiteral   string
	RuntimeImport string
}

// Generate renders one Go source artifact for the given enum type.
func Generate(e *schema.EnumType, runtimeImport string) ([]byte, error) {
	d := data{
		Name:          genutil.Export(e.Name),
		GoPrim:        genutil.GoPrimitive(e.Primitive),
		RuntimeImport: runtimeImport,
	}
	for _, v := range e.Values {
		d.Values = append(d.Values, value{Name: genutil.Export(v.Name), Literal: v.Literal})
	}
	if e.Primitive == schema.PrimChar {
		d.NullLiteral = fmt.Sprintf("%d", runtimecodec.NullChar)
	} else {
		d.NullLiteral = fmt.Sprintf("%d", runtimecodec.NullUint(e.Primitive.Size()))
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
