// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

// Schema is a validated SBE schema: the model is immutable for the
// lifetime of generation once Validate has returned successfully.
type Schema struct {
	Package        string
	ID             int
	Version        int
	SemanticVer    string // normalised to "major.minor.patch"
	Description    string
	ByteOrder      ByteOrder
	HeaderTypeName string // default "messageHeader"

	Types    *Table
	Messages []*MessageType

	// Header is the resolved header composite, located during Validate.
	Header *CompositeType
}

// MessageByID returns the declared message with the given template id.
func (s *Schema) MessageByID(id int) (*MessageType, bool) {
	for _, m := range s.Messages {
		if m.TemplateID == id {
			return m, true
		}
	}
	return nil, false
}
