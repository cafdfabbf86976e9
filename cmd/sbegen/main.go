// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sbegen renders a JSON-described binary message schema into a
// generated Go codec package, optionally paired with a bridged Python
// wrapper package.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/solidcoredata/sbegen/assemble"
	"github.com/solidcoredata/sbegen/internal/schemawatch"
	"github.com/solidcoredata/sbegen/internal/start"
	"github.com/solidcoredata/sbegen/schema"
)

var (
	flagSchema       string
	flagTarget       string
	flagOut          string
	flagProject      string
	flagVersion      string
	flagWithTestDeps bool
	flagFormat       bool
	flagWatch        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sbegen",
		Short: "Generates typed binary codec packages from a message schema",
		Long:  "sbegen turns a JSON-described binary message schema into a generated Go codec package, optionally paired with a bridged Python wrapper package.",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the generator version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("sbegen 0.1.0")
		},
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a schema into a generated codec project",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVar(&flagSchema, "schema", "", "path to the JSON schema document (required)")
	generateCmd.Flags().StringVar(&flagTarget, "target", "native", `backend to render: "native" or "bridged"`)
	generateCmd.Flags().StringVar(&flagOut, "out", "", "output directory the generated project is written under (required)")
	generateCmd.Flags().StringVar(&flagProject, "project", "", "Go module import path of the generated project (required)")
	generateCmd.Flags().StringVar(&flagVersion, "project-version", "", "version string recorded in the generated project")
	generateCmd.Flags().BoolVar(&flagWithTestDeps, "with-test-deps", false, "add testify to the generated go.mod")
	generateCmd.Flags().BoolVar(&flagFormat, "format", false, "request post-emission source formatting")
	generateCmd.Flags().BoolVar(&flagWatch, "watch", false, "re-render whenever the schema file changes, until interrupted")
	generateCmd.MarkFlagRequired("schema")
	generateCmd.MarkFlagRequired("out")
	generateCmd.MarkFlagRequired("project")

	rootCmd.AddCommand(versionCmd, generateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := assemble.Options{
		SchemaPath:     flagSchema,
		TargetLanguage: assemble.TargetLanguage(flagTarget),
		ProjectName:    flagProject,
		ProjectVersion: flagVersion,
		ProjectPath:    flagOut,
		WithTestDeps:   flagWithTestDeps,
		Format:         flagFormat,
	}
	if opts.TargetLanguage != assemble.TargetNative && opts.TargetLanguage != assemble.TargetBridged {
		return fmt.Errorf("sbegen: unknown target %q", flagTarget)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !flagWatch {
		return generateOnce(ctx, opts)
	}

	return start.Start(ctx, 5*time.Second, func(ctx context.Context) error {
		return schemawatch.Poll(ctx, flagSchema, time.Second, func() error {
			return generateOnce(ctx, opts)
		})
	})
}

func generateOnce(ctx context.Context, opts assemble.Options) error {
	raw, err := os.ReadFile(opts.SchemaPath)
	if err != nil {
		return fmt.Errorf("sbegen: reading schema: %w", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("sbegen: parsing schema: %w", err)
	}
	sch, err := schema.LoadJSON(doc)
	if err != nil {
		return fmt.Errorf("sbegen: loading schema: %w", err)
	}

	art, err := assemble.Assemble(ctx, sch, opts)
	if err != nil {
		return fmt.Errorf("sbegen: assemble: %w", err)
	}

	for relPath, content := range art {
		dest := filepath.Join(opts.ProjectPath, relPath)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("sbegen: writing %s: %w", relPath, err)
		}
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return fmt.Errorf("sbegen: writing %s: %w", relPath, err)
		}
	}

	slog.InfoContext(ctx, "sbegen: wrote project", "path", opts.ProjectPath, "files", len(art))
	return nil
}
