// Package compiler runs the tlgen pipeline: schema files are parsed in
// parallel, merged, resolved into a registry, and handed to the core and
// conversion emitters. The result is a set of file writes that the caller
// commits as one transaction or compares against disk.
package compiler

import (
	"context"
	"fmt"

	"github.com/simonhull/tlgen/internal/config"
	"github.com/simonhull/tlgen/internal/generator"
	"github.com/simonhull/tlgen/internal/generators/conversion"
	"github.com/simonhull/tlgen/internal/generators/core"
	"github.com/simonhull/tlgen/internal/generators/naming"
	"github.com/simonhull/tlgen/internal/logger"
	"github.com/simonhull/tlgen/internal/project"
	"github.com/simonhull/tlgen/internal/registry"
	"github.com/simonhull/tlgen/internal/schema"
)

// Options configures a compilation.
type Options struct {
	Manifest *config.Manifest
	Output   string // overrides the manifest output directory
	Workers  int
	Logger   logger.Logger
}

// Result is a finished compilation. Nothing has been written yet.
type Result struct {
	Schemas   []string
	Registry  *registry.Registry
	OutputDir string
	Files     []*generator.WriteFileOp
	// Unmapped lists local TypeDefs without an external counterpart.
	Unmapped []string
}

// Compile runs every stage. Any error aborts the run before output exists.
func Compile(ctx context.Context, opts Options) (*Result, error) {
	m := opts.Manifest
	if m == nil {
		return nil, fmt.Errorf("compiler: manifest is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	paths, err := project.DiscoverSchemas(m.Dir, m.Schemas)
	if err != nil {
		return nil, err
	}
	reg, err := load(ctx, m, paths, m.RegistryOptions(), opts.Workers, log)
	if err != nil {
		return nil, err
	}
	// With a separate external schema, the paths may also name one-sided
	// external fields; convert checks them once that schema is loaded.
	if m.Conversion == nil || len(m.Conversion.Schemas) == 0 {
		if err := registry.CheckFieldPaths(m.Nullable, reg); err != nil {
			return nil, err
		}
	}
	log.Info("Resolved schema",
		logger.F("files", len(paths)),
		logger.F("types", len(reg.TypeDefs)),
		logger.F("constructors", len(reg.Constructors())),
		logger.F("functions", len(reg.Functions)))

	namer := naming.New(m.NamingOptions())
	if err := namer.Check(reg); err != nil {
		return nil, err
	}

	outDir := opts.Output
	if outDir == "" {
		outDir = m.Resolve(m.Output)
	}
	result := &Result{Schemas: paths, Registry: reg, OutputDir: outDir}

	coreFiles, err := core.New(reg, namer, core.Options{
		OutputDir: outDir,
		Runtime:   m.BuiltinInclude,
	}).Generate()
	if err != nil {
		return nil, fmt.Errorf("core emitter: %w", err)
	}
	result.Files = append(result.Files, coreFiles...)

	if m.Conversion != nil {
		convFiles, unmapped, err := convert(ctx, m, reg, namer, outDir, opts.Workers, log)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, convFiles...)
		result.Unmapped = unmapped
	}

	log.Info("Generated units", logger.F("units", len(result.Files)), logger.F("output", outDir))
	return result, nil
}

func load(ctx context.Context, m *config.Manifest, paths []string, opts registry.Options, workers int, log logger.Logger) (*registry.Registry, error) {
	parseOpts := m.SchemaOptions()
	files, err := ParseFiles(ctx, m.Dir, paths, parseOpts, workers, log)
	if err != nil {
		return nil, err
	}
	return registry.Resolve(schema.Merge(files, parseOpts), opts)
}

func convert(ctx context.Context, m *config.Manifest, reg *registry.Registry, namer *naming.Namer, outDir string, workers int, log logger.Logger) ([]*generator.WriteFileOp, []string, error) {
	c := m.Conversion
	external := reg
	if len(c.Schemas) > 0 {
		paths, err := project.DiscoverSchemas(m.Dir, c.Schemas)
		if err != nil {
			return nil, nil, fmt.Errorf("external schema: %w", err)
		}
		// Nullable paths describe the local side only.
		opts := m.RegistryOptions()
		opts.Nullable = nil
		extLog := log.WithFields(logger.F("schema", "external"))
		if external, err = load(ctx, m, paths, opts, workers, extLog); err != nil {
			return nil, nil, fmt.Errorf("external schema: %w", err)
		}
		extLog.Debug("Resolved external schema", logger.F("types", len(external.TypeDefs)))
		if err := registry.CheckFieldPaths(m.Nullable, reg, external); err != nil {
			return nil, nil, err
		}
	}

	g, err := conversion.New(reg, external, namer, conversion.Options{
		OutputDir:    outDir,
		Runtime:      m.BuiltinInclude,
		External:     c.Include,
		ExternalName: c.Namespace,
		From:         c.BuiltinIncludeFrom,
		To:           c.BuiltinIncludeTo,
		Map: conversion.MapOptions{
			BuiltinAdditional: c.BuiltinAdditional,
			Rename:            c.Rename,
			Nullable:          m.Nullable,
		},
	})
	if err != nil {
		return nil, nil, err
	}
	for _, name := range g.Map().Unmapped {
		log.Debug("Type has no external counterpart", logger.F("type", name))
	}

	files, err := g.Generate()
	if err != nil {
		return nil, nil, fmt.Errorf("conversion emitter: %w", err)
	}
	return files, g.Map().Unmapped, nil
}

// Operations adapts the file writes for generator.Execute.
func (r *Result) Operations() []generator.Operation {
	ops := make([]generator.Operation, len(r.Files))
	for i, f := range r.Files {
		ops[i] = f
	}
	return ops
}

// Stale returns the files whose content on disk differs from the result.
func (r *Result) Stale() []*generator.WriteFileOp {
	var stale []*generator.WriteFileOp
	for _, f := range r.Files {
		if !f.Unchanged() {
			stale = append(stale, f)
		}
	}
	return stale
}
