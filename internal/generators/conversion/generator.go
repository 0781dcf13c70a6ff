// Package conversion emits the routines that map generated values onto the
// external API types and back. Local to external always succeeds; external
// to local fails with tl.UnsupportedVariantError for variants that have no
// local counterpart.
package conversion

import (
	"embed"
	"fmt"
	"path/filepath"

	"github.com/simonhull/tlgen/internal/generator"
	"github.com/simonhull/tlgen/internal/generators/naming"
	"github.com/simonhull/tlgen/internal/registry"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Options configures the conversion emitter.
type Options struct {
	OutputDir    string
	Runtime      string // builtinInclude
	External     string // conversion.include
	ExternalName string // conversion.namespace
	From         string // builtinIncludeFrom
	To           string // builtinIncludeTo
	Map          MapOptions
}

// Generator renders one conversion unit next to each core unit.
type Generator struct {
	reg      *registry.Registry
	external *registry.Registry
	namer    *naming.Namer
	opts     Options
	renderer *generator.Renderer
	m        *Map
}

// New builds the conversion map between reg and external. It fails with a
// MappingError before anything is rendered.
func New(reg, external *registry.Registry, namer *naming.Namer, opts Options) (*Generator, error) {
	if external == nil {
		external = reg
	}
	m, err := Build(reg, external, opts.Map)
	if err != nil {
		return nil, err
	}
	return &Generator{
		reg:      reg,
		external: external,
		namer:    namer,
		opts:     opts,
		renderer: generator.NewRenderer(nil),
		m:        m,
	}, nil
}

// Map returns the resolved conversion map.
func (g *Generator) Map() *Map {
	return g.m
}

// Generate renders the conversion units. Units with nothing to convert are
// skipped.
func (g *Generator) Generate() ([]*generator.WriteFileOp, error) {
	var ops []*generator.WriteFileOp
	for _, unit := range g.namer.Units(g.reg) {
		data, ok := g.unitData(unit)
		if !ok {
			continue
		}
		name := g.namer.ConversionFile(unit.Section)
		src, err := g.renderer.RenderFS(templatesFS, "templates/conversion.go.tmpl", data)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", name, err)
		}
		content, err := generator.FormatSource(name, src)
		if err != nil {
			return nil, err
		}
		ops = append(ops, &generator.WriteFileOp{
			Path:    filepath.Join(g.opts.OutputDir, name),
			Content: content,
			Mode:    0o644,
		})
	}
	return ops, nil
}

func (g *Generator) helpers() (to, from string, imports []Import) {
	if g.opts.From == g.opts.To {
		return "tlconv", "tlconv", []Import{{Alias: "tlconv", Path: g.opts.To}}
	}
	return "tlto", "tlfrom", []Import{
		{Alias: "tlfrom", Path: g.opts.From},
		{Alias: "tlto", Path: g.opts.To},
	}
}

func (g *Generator) unitData(u naming.Unit) (UnitData, bool) {
	to, from, imports := g.helpers()
	t := &transformer{m: g.m, namer: g.namer, ext: g.opts.ExternalName, to: to, from: from}
	data := UnitData{
		Header:   generator.GeneratedHeader,
		Package:  g.namer.Package(),
		Runtime:  g.opts.Runtime,
		External: g.opts.External,
		ExtName:  g.opts.ExternalName,
		Helpers:  imports,
	}
	for _, td := range u.TypeDefs {
		if tm, ok := g.m.Type(td.Index); ok {
			data.TypeDefs = append(data.TypeDefs, t.typeDef(tm))
		}
	}
	if len(u.Functions) > 0 {
		for _, cm := range g.m.Functions {
			data.Requests = append(data.Requests, t.request(cm))
		}
	}
	return data, len(data.TypeDefs) > 0 || len(data.Requests) > 0
}
