// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buffer emits the project-local byte-order shim: the bulk of
// the bounded-buffer logic lives once in runtimecodec, and this
// emitter bakes in the schema's declared byteOrder by selecting
// binary.LittleEndian or binary.BigEndian at generation time.
package buffer

import (
	"bytes"
	"text/template"

	"github.com/solidcoredata/sbegen/schema"
)

const tmplSrc = `// Code generated by sbegen. DO NOT EDIT.

package {{.Package}}

import (
	"encoding/binary"

	"{{.RuntimeImport}}"
)

// byteOrder is fixed by the schema's declared byteOrder ({{.ByteOrder}}).
var byteOrder binary.ByteOrder = {{.BinaryOrder}}

// NewReadBuffer wraps data for reading using this schema's byte order.
func NewReadBuffer(data []byte) *runtimecodec.ReadBuffer {
	return runtimecodec.NewReadBuffer(data, byteOrder)
}

// NewWriteBuffer wraps data for writing using this schema's byte order.
func NewWriteBuffer(data []byte) *runtimecodec.WriteBuffer {
	return runtimecodec.NewWriteBuffer(data, byteOrder)
}
`

var tmpl = template.Must(template.New("buffer").Parse(tmplSrc))

type data struct {
	Package       string
	RuntimeImport string
	ByteOrder     string
	BinaryOrder   string
}

// Generate renders the project's buffer.go shim.
func Generate(pkg string, runtimeImport string, order schema.ByteOrder) ([]byte, error) {
	bo := "binary.LittleEndian"
	if order == schema.BigEndian {
		bo = "binary.BigEndian"
	}
	d := data{Package: pkg, RuntimeImport: runtimeImport, ByteOrder: order.String(), BinaryOrder: bo}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
