// Package core emits the typed data definitions and the binary encode and
// decode routines for every resolved TypeDef and function.
package core

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

// Options configures the core emitter.
type Options struct {
	OutputDir string
	Runtime   string // Go import path of the wire codec (builtinInclude)
}

// Generator renders one source unit per section.
type Generator struct {
	reg      *registry.Registry
	namer    *naming.Namer
	opts     Options
	renderer *generator.Renderer
}

// New creates a core generator.
func New(reg *registry.Registry, namer *naming.Namer, opts Options) *Generator {
	return &Generator{
		reg:      reg,
		namer:    namer,
		opts:     opts,
		renderer: generator.NewRenderer(nil),
	}
}

// Generate renders every unit and returns the file writes. Units are
// ordered: main unit, configured sections, functions.
func (g *Generator) Generate() ([]*generator.WriteFileOp, error) {
	var ops []*generator.WriteFileOp
	for _, unit := range g.Units() {
		content, err := g.render(unit)
		if err != nil {
			return nil, err
		}
		ops = append(ops, &generator.WriteFileOp{
			Path:    filepath.Join(g.opts.OutputDir, g.unitFile(unit)),
			Content: content,
			Mode:    0o644,
		})
	}
	return ops, nil
}

// Units returns the output units in emission order.
func (g *Generator) Units() []naming.Unit {
	return g.namer.Units(g.reg)
}

func (g *Generator) unitFile(u naming.Unit) string {
	return g.namer.File(u.Section)
}

func (g *Generator) render(u naming.Unit) ([]byte, error) {
	t := &transformer{reg: g.reg, namer: g.namer}
	data := UnitData{
		Header:  generator.GeneratedHeader,
		Package: g.namer.Package(),
		Runtime: g.opts.Runtime,
	}
	for _, td := range u.TypeDefs {
		data.TypeDefs = append(data.TypeDefs, t.typeDef(td))
	}
	for _, fn := range u.Functions {
		data.Functions = append(data.Functions, t.function(fn))
	}

	name := g.unitFile(u)
	src, err := g.renderer.RenderFS(templatesFS, "templates/unit.go.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return generator.FormatSource(name, src)
}
