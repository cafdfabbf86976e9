// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package set emits the bit-set codec: one integer wrapper type with a
// Get/Set pair per declared choice and a Clear operation, plus two
// infallible conversions to/from the underlying primitive.
package set

import (
	"bytes"
	"text/template"

	"github.com/solidcoredata/sbegen/gen/genutil"
	"github.com/solidcoredata/sbegen/schema"
)

const tmplSrc = `// Code generated by sbegen. DO NOT EDIT.

package sets

// {{.Name}} packs independent boolean flags into one {{.GoPrim}}.
type {{.Name}} {{.GoPrim}}

const (
{{- range .Choices}}
	{{$.Name}}Bit{{.Name}} = {{.Bit}}
{{- end}}
)

{{range .Choices}}
// Get{{.Name}} reports whether the {{.Name}} choice bit is set.
func (v {{$.Name}}) Get{{.Name}}() bool {
	return v&(1<<{{$.Name}}Bit{{.Name}}) != 0
}

// Set{{.Name}} sets or clears the {{.Name}} choice bit.
func (v {{$.Name}}) Set{{.Name}}(on bool) {{$.Name}} {
	if on {
		return v | (1 << {{$.Name}}Bit{{.Name}})
	}
	return v &^ (1 << {{$.Name}}Bit{{.Name}})
}
{{end}}
// Clear returns the zero value of {{.Name}}, with every choice unset.
func (v {{.Name}}) Clear() {{.Name}} {
	return 0
}

// ToPrimitive is total and infallible.
func (v {{.Name}}) ToPrimitive() {{.GoPrim}} {
	return {{.GoPrim}}(v)
}

// {{.Name}}FromPrimitive is total and infallible.
func {{.Name}}FromPrimitive(p {{.GoPrim}}) {{.Name}} {
	return {{.Name}}(p)
}
`

var tmpl = template.Must(template.New("set").Parse(tmplSrc))

type choice struct {
	Name string
	Bit  int
}

type data struct {
	Name    string
	GoPrim  string
	Choices []choice
}

// Generate renders one Go source artifact for the given bit-set type.
func Generate(s *schema.SetType) ([]byte, error) {
	d := data{Name: genutil.Export(s.Name), GoPrim: genutil.GoPrimitive(s.Primitive)}
	for _, c := range s.Choices {
		d.Choices = append(d.Choices, choice{Name: genutil.Export(c.Name), Bit: c.Bit})
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
