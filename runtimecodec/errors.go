// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtimecodec is the shared runtime every emitted codec
// imports: a closed error taxonomy and the bounded buffer primitives
// that perform the only raw byte access in a generated project.
package runtimecodec

import "fmt"

// Kind is the closed set of codec-runtime error conditions.
type Kind int

const (
	KindInvalidStringValue Kind = iota
	KindInvalidEnumValue
	KindValueOutOfBounds
	KindWrongSliceSize
	KindMissingGroupSize
	KindMissingVarDataSize
	KindGroupOutOfBounds
	KindVarDataOutOfBounds
	KindWrongMessageType
	KindCodecOutOfBounds
)

// SbeError is the sum type every generated decoder/encoder raises.
// The generator never swallows or retries: invalid data surfaces
// immediately to the nearest call site.
type SbeError struct {
	Kind Kind
	msg  string
}

func (e *SbeError) Error() string { return e.msg }

func NewInvalidStringValue(text string) *SbeError {
	return &SbeError{Kind: KindInvalidStringValue, msg: fmt.Sprintf("sbe: invalid string value %q", text)}
}

func NewInvalidEnumValue(typeName string, value int64) *SbeError {
	return &SbeError{Kind: KindInvalidEnumValue, msg: fmt.Sprintf("sbe: invalid enum value %d for %s", value, typeName)}
}

func NewValueOutOfBounds(field, message string) *SbeError {
	return &SbeError{Kind: KindValueOutOfBounds, msg: fmt.Sprintf("sbe: %s out of bounds: %s", field, message)}
}

func NewWrongSliceSize(detail string) *SbeError {
	return &SbeError{Kind: KindWrongSliceSize, msg: fmt.Sprintf("sbe: wrong slice size: %s", detail)}
}

func NewMissingGroupSize(name string) *SbeError {
	return &SbeError{Kind: KindMissingGroupSize, msg: fmt.Sprintf("sbe: group %q was not iterated before its container advanced", name)}
}

func NewMissingVarDataSize(name string) *SbeError {
	return &SbeError{Kind: KindMissingVarDataSize, msg: fmt.Sprintf("sbe: variable-data %q was not iterated before its container advanced", name)}
}

func NewGroupOutOfBounds(name string) *SbeError {
	return &SbeError{Kind: KindGroupOutOfBounds, msg: fmt.Sprintf("sbe: group %q out of bounds", name)}
}

func NewVarDataOutOfBounds(name string) *SbeError {
	return &SbeError{Kind: KindVarDataOutOfBounds, msg: fmt.Sprintf("sbe: variable-data %q out of bounds", name)}
}

func NewWrongMessageType(got, expected int) *SbeError {
	return &SbeError{Kind: KindWrongMessageType, msg: fmt.Sprintf("sbe: wrong message type: got template id %d, expected %d", got, expected)}
}

func NewCodecOutOfBounds(need, have int) *SbeError {
	return &SbeError{Kind: KindCodecOutOfBounds, msg: fmt.Sprintf("sbe: codec out of bounds: need %d bytes, have %d", need, have)}
}
