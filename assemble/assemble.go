// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	pybridge "github.com/solidcoredata/sbegen/gen/bridge/python"
	"github.com/solidcoredata/sbegen/gen/buffer"
	"github.com/solidcoredata/sbegen/gen/composite"
	"github.com/solidcoredata/sbegen/gen/enum"
	"github.com/solidcoredata/sbegen/gen/genutil"
	"github.com/solidcoredata/sbegen/gen/group"
	"github.com/solidcoredata/sbegen/gen/message"
	"github.com/solidcoredata/sbegen/gen/set"
	"github.com/solidcoredata/sbegen/gen/vardata"
	"github.com/solidcoredata/sbegen/schema"
)

// runtimeImport is the fixed shared runtime package every emitted
// project depends on directly, rather than vendoring a copy of it
// into each generated tree: the buffer primitives and the SbeError
// taxonomy change with this repo's own releases, not per schema.
const runtimeImport = "github.com/solidcoredata/sbegen/runtimecodec"

// dimensionDefault mirrors the literal schema.validateGroups bakes in
// for a group with no explicit dimensionType.
const dimensionDefault = "groupSizeEncoding"

// layout names every generated package directory, Go and Python alike.
type layout struct {
	root        string // e.g. "car"
	module      string // opts.ProjectName, the Go import path root
	enums       string
	sets        string
	composites  string
	groups      string
	vardata     string
	messages    string
	codec       string
	pyEnums     string
	pySets      string
	pyComposite string
	pyGroups    string
	pyVarData   string
	pyMessages  string
}

func newLayout(opts Options) layout {
	root := rootPackageName(opts.ProjectName)
	mod := opts.ProjectName
	return layout{
		root:        root,
		module:      mod,
		enums:       mod + "/" + root + "/enums",
		sets:        mod + "/" + root + "/sets",
		composites:  mod + "/" + root + "/composites",
		groups:      mod + "/" + root + "/groups",
		vardata:     mod + "/" + root + "/vardata",
		messages:    mod + "/" + root + "/messages",
		codec:       mod + "/" + root + "/codec",
		pyEnums:     "enums",
		pySets:      "sets",
		pyComposite: "composites",
		pyGroups:    "groups",
		pyVarData:   "vardata",
		pyMessages:  "messages",
	}
}

// rootPackageName takes the last slash-delimited segment of a Go
// module path as the directory name the generated packages nest
// under, e.g. "github.com/acme/car" -> "car".
func rootPackageName(modulePath string) string {
	if i := strings.LastIndexByte(modulePath, '/'); i >= 0 {
		return modulePath[i+1:]
	}
	return modulePath
}

// Assemble walks sch (already schema.Validate'd) and renders every
// codec artifact the schema requires: the buffer shim and go.mod
// first, then enums and bit-sets, then composites, then repeating
// groups and variable-data fields (collected recursively from every
// message, since a group's own nested groups are never declared at
// schema top level), then messages. Independent artifacts within each
// generation are fanned out over an errgroup; generations themselves
// run sequentially because composites may reference other composites,
// groups may nest groups, and messages reference both.
func Assemble(ctx context.Context, sch *schema.Schema, opts Options) (Artifacts, error) {
	if sch.Header == nil {
		return nil, fmt.Errorf("assemble: schema has no resolved header composite")
	}
	if opts.ProjectName == "" {
		return nil, fmt.Errorf("assemble: ProjectName is required")
	}

	lay := newLayout(opts)
	art := make(Artifacts)
	var mu sync.Mutex
	put := func(relPath string, content []byte) {
		mu.Lock()
		art[relPath] = content
		mu.Unlock()
	}

	slog.InfoContext(ctx, "assemble: starting", "project", opts.ProjectName, "target", opts.TargetLanguage, "package", sch.Package)
	if opts.Format {
		slog.InfoContext(ctx, "assemble: formatting requested but not performed in-process")
	}

	put("go.mod", renderGoMod(opts))

	bufSrc, err := buffer.Generate("codec", runtimeImport, sch.ByteOrder)
	if err != nil {
		return nil, fmt.Errorf("assemble: buffer: %w", err)
	}
	put(path.Join(lay.root, "codec", "buffer.go"), bufSrc)

	var enums []*schema.EnumType
	var sets []*schema.SetType
	var composites []*schema.CompositeType
	for _, t := range sch.Types.IterValues() {
		switch v := t.(type) {
		case *schema.EnumType:
			enums = append(enums, v)
		case *schema.SetType:
			sets = append(sets, v)
		case *schema.CompositeType:
			composites = append(composites, v)
		}
	}

	groups, varDatas := collectNested(sch)

	bridged := opts.TargetLanguage == TargetBridged
	if bridged {
		put(path.Join("python", lay.root, "_sbe_runtime.py"), pybridge.GenerateRuntime())
		put(path.Join("python", lay.root, lay.pyEnums, "__init__.py"), pyBarrel(enumNames(enums)))
		put(path.Join("python", lay.root, lay.pySets, "__init__.py"), pyBarrel(setNames(sets)))
		put(path.Join("python", lay.root, lay.pyComposite, "__init__.py"), pyBarrel(compositeNames(composites)))
		put(path.Join("python", lay.root, lay.pyGroups, "__init__.py"), pyBarrel(groupNames(groups)))
		put(path.Join("python", lay.root, lay.pyVarData, "__init__.py"), pyBarrel(varDataNames(varDatas)))
		put(path.Join("python", lay.root, lay.pyMessages, "__init__.py"), pyBarrel(messageNames(sch.Messages)))
	}

	if err := runPhase(ctx, enums, func(e *schema.EnumType) error {
		src, err := enum.Generate(e, runtimeImport)
		if err != nil {
			return fmt.Errorf("enum %q: %w", e.Name, err)
		}
		put(path.Join(lay.root, "enums", genutil.Export(e.Name)+".go"), src)
		if bridged {
			put(path.Join("python", lay.root, lay.pyEnums, pySnake(e.Name)+".py"), pybridge.GenerateEnum(e))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := runPhase(ctx, sets, func(s *schema.SetType) error {
		src, err := set.Generate(s)
		if err != nil {
			return fmt.Errorf("set %q: %w", s.Name, err)
		}
		put(path.Join(lay.root, "sets", genutil.Export(s.Name)+".go"), src)
		if bridged {
			put(path.Join("python", lay.root, lay.pySets, pySnake(s.Name)+".py"), pybridge.GenerateSet(s))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := runPhase(ctx, composites, func(c *schema.CompositeType) error {
		src, err := composite.Generate(c, sch.Types, runtimeImport, lay.enums, lay.sets)
		if err != nil {
			return fmt.Errorf("composite %q: %w", c.Name, err)
		}
		put(path.Join(lay.root, "composites", genutil.Export(c.Name)+".go"), src)
		if bridged {
			pySrc, err := pybridge.GenerateComposite(c, sch.Types, sch.ByteOrder, lay.pyEnums, lay.pySets)
			if err != nil {
				return fmt.Errorf("composite %q (python): %w", c.Name, err)
			}
			put(path.Join("python", lay.root, lay.pyComposite, pySnake(c.Name)+".py"), pySrc)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := runPhase(ctx, varDatas, func(vd *schema.VariableDataType) error {
		backing, ok := sch.Types.Composites[vd.Composite]
		if !ok {
			return fmt.Errorf("vardata %q: unknown backing composite %q", vd.Name, vd.Composite)
		}
		src, err := vardata.Generate(vd, backing, runtimeImport)
		if err != nil {
			return fmt.Errorf("vardata %q: %w", vd.Name, err)
		}
		put(path.Join(lay.root, "vardata", genutil.Export(vd.Name)+".go"), src)
		if bridged {
			pySrc, err := pybridge.GenerateVarData(vd, backing, sch.ByteOrder)
			if err != nil {
				return fmt.Errorf("vardata %q (python): %w", vd.Name, err)
			}
			put(path.Join("python", lay.root, lay.pyVarData, pySnake(vd.Name)+".py"), pySrc)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Groups may themselves nest groups, but the emitter resolves
	// nested group names within the same "groups" package without a
	// forward-declaration requirement (Go compiles mutually-referring
	// top-level declarations in one package regardless of file order),
	// so every group, at any nesting depth, can be rendered in one
	// concurrent phase.
	if err := runPhase(ctx, groups, func(g *schema.GroupType) error {
		src, err := group.Generate(g, sch.Types, dimensionDefault, runtimeImport, lay.enums, lay.sets, lay.composites, lay.vardata)
		if err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
		put(path.Join(lay.root, "groups", genutil.Export(g.Name)+".go"), src)
		if bridged {
			pySrc, err := pybridge.GenerateGroupList(g, sch.Types, dimensionDefault, sch.ByteOrder, lay.pyEnums, lay.pySets, lay.pyComposite, lay.pyGroups, lay.pyVarData)
			if err != nil {
				return fmt.Errorf("group %q (python): %w", g.Name, err)
			}
			put(path.Join("python", lay.root, lay.pyGroups, pySnake(g.Name)+".py"), pySrc)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := runPhase(ctx, sch.Messages, func(m *schema.MessageType) error {
		src, err := message.Generate(m, sch.Header, sch.Types, runtimeImport, lay.enums, lay.sets, lay.composites, lay.groups, lay.vardata)
		if err != nil {
			return fmt.Errorf("message %q: %w", m.Name, err)
		}
		put(path.Join(lay.root, "messages", genutil.Export(m.Name)+".go"), src)
		if bridged {
			pySrc, err := pybridge.GenerateMessage(m, sch.Header, sch.Types, sch.ByteOrder, sch.ID, sch.Version, lay.pyEnums, lay.pySets, lay.pyComposite, lay.pyGroups, lay.pyVarData)
			if err != nil {
				return fmt.Errorf("message %q (python): %w", m.Name, err)
			}
			put(path.Join("python", lay.root, lay.pyMessages, pySnake(m.Name)+".py"), pySrc)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "assemble: finished", "artifacts", len(art))
	return art, nil
}

// runPhase fans items out over an errgroup bound to ctx, waits for
// every item, and returns the first error any item's fn reports. fn
// does not receive the group's context, so an error does not stop the
// items still running.
func runPhase[T any](ctx context.Context, items []T, fn func(T) error) error {
	g, _ := errgroup.WithContext(ctx)
	for _, item := range items {
		item := item
		g.Go(func() error { return fn(item) })
	}
	return g.Wait()
}

// collectNested walks every message's groups recursively, returning
// every distinct group (by name, at any nesting depth) and every
// distinct variable-data field declared anywhere in the schema, in
// first-seen order.
func collectNested(sch *schema.Schema) ([]*schema.GroupType, []*schema.VariableDataType) {
	seenGroups := map[string]bool{}
	seenVarData := map[string]bool{}
	var groups []*schema.GroupType
	var varDatas []*schema.VariableDataType

	var walkGroups func([]*schema.GroupType)
	var walkVarData func([]schema.VariableDataType)
	walkVarData = func(vds []schema.VariableDataType) {
		for i := range vds {
			vd := vds[i]
			if seenVarData[vd.Name] {
				continue
			}
			seenVarData[vd.Name] = true
			varDatas = append(varDatas, &vd)
		}
	}
	walkGroups = func(gs []*schema.GroupType) {
		for _, g := range gs {
			if seenGroups[g.Name] {
				continue
			}
			seenGroups[g.Name] = true
			groups = append(groups, g)
			walkGroups(g.Groups)
			walkVarData(g.VarData)
		}
	}

	for _, m := range sch.Messages {
		walkGroups(m.Groups)
		walkVarData(m.VarData)
	}

	return groups, varDatas
}

// renderGoMod emits the generated project's go.mod, depending on this
// generator's own runtime package plus, optionally, testify.
func renderGoMod(opts Options) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n\n", opts.ProjectName)
	if opts.ProjectVersion != "" {
		fmt.Fprintf(&b, "// version %s\n\n", opts.ProjectVersion)
	}
	b.WriteString("go 1.21\n\n")
	b.WriteString("require github.com/solidcoredata/sbegen v0.0.0\n")
	if opts.WithTestDeps {
		b.WriteString("require github.com/stretchr/testify v1.9.0\n")
	}
	return []byte(b.String())
}

// pyBarrel builds a package __init__.py that re-exports each
// generated module's class by name, so sibling packages can reach a
// type as "groups.Entry" rather than "groups.entry.Entry".
func pyBarrel(names []string) []byte {
	var b strings.Builder
	for _, n := range names {
		fmt.Fprintf(&b, "from .%s import %s\n", pySnake(n), genutil.Export(n))
	}
	return []byte(b.String())
}

func enumNames(v []*schema.EnumType) []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = e.Name
	}
	return out
}

func setNames(v []*schema.SetType) []string {
	out := make([]string, len(v))
	for i, s := range v {
		out[i] = s.Name
	}
	return out
}

func compositeNames(v []*schema.CompositeType) []string {
	out := make([]string, len(v))
	for i, c := range v {
		out[i] = c.Name
	}
	return out
}

func groupNames(v []*schema.GroupType) []string {
	out := make([]string, len(v))
	for i, g := range v {
		out[i] = g.Name
	}
	return out
}

func varDataNames(v []*schema.VariableDataType) []string {
	out := make([]string, len(v))
	for i, vd := range v {
		out[i] = vd.Name
	}
	return out
}

func messageNames(v []*schema.MessageType) []string {
	out := make([]string, len(v))
	for i, m := range v {
		out[i] = m.Name
	}
	return out
}

func pySnake(name string) string {
	var out strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out.WriteByte('_')
			}
			out.WriteRune(r + ('a' - 'A'))
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
