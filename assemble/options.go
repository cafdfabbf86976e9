// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assemble is the project assembler: it walks a validated
// schema and drives every per-construct emitter in gen/ to produce a
// complete, importable Go module (and, for the bridged target, a
// companion Python package) as an in-memory artifact tree.
package assemble

// TargetLanguage selects which backend Assemble renders.
type TargetLanguage string

const (
	// TargetNative renders only the streaming, closure-based Go codec.
	TargetNative TargetLanguage = "native"
	// TargetBridged renders the Go codec plus a self-contained Python
	// wrapper package that eagerly materialises plain-data objects.
	TargetBridged TargetLanguage = "bridged"
)

// Options configures one Assemble run.
type Options struct {
	// SchemaPath is the source JSON schema document's path, recorded
	// for diagnostics only; Assemble itself takes an already-loaded
	// and validated *schema.Schema.
	SchemaPath string

	// TargetLanguage selects the backend(s) to render.
	TargetLanguage TargetLanguage

	// ProjectName is the Go module import path declared in the
	// emitted go.mod (e.g. "github.com/acme/car"). Its last slash
	// segment also names the root package directory holding
	// enums/sets/composites/groups/vardata/messages/codec.
	ProjectName string

	// ProjectVersion is recorded in the emitted go.mod as a comment.
	// The bridged target's Python package does not record it.
	ProjectVersion string

	// ProjectPath is the filesystem directory the caller intends to
	// write Artifacts under. Assemble never touches the filesystem
	// itself; this field is carried through for callers (the CLI) that
	// do the actual write and want it alongside the other options.
	ProjectPath string

	// WithTestDeps adds github.com/stretchr/testify to the emitted
	// go.mod's require block, for generated projects that also want
	// their own hand-written tests against the emitted codec.
	WithTestDeps bool

	// Format requests post-emission source formatting. Invoking an
	// external formatter is out of scope; Assemble only logs that
	// formatting was requested and performs none in-process.
	Format bool
}

// Artifacts is the in-memory output of one Assemble run: generated
// source text keyed by path relative to ProjectPath.
type Artifacts map[string][]byte
