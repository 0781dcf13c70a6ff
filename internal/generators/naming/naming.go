// Package naming derives every generated identifier and file name from the
// configured prefixes and namespaces.
package naming

import (
	"go/token"
	"strings"

	"github.com/simonhull/tlgen/internal/generator"
	"github.com/simonhull/tlgen/internal/registry"
	"github.com/simonhull/tlgen/internal/schema"
)

// GlobalNamespace is the namespaces key of the unnamed schema namespace.
const GlobalNamespace = "global"

// Prefixes are prepended to the schema name of each generated artifact.
type Prefixes struct {
	Type      string // sum type interface
	Data      string // constructor struct
	ID        string // constructor id constant
	Construct string // constructor function
}

// Section groups TypeDefs whose names start with one of Prefixes into a
// separate output unit.
type Section struct {
	Name     string
	Prefixes []string
}

// Options configures a Namer.
type Options struct {
	Namespaces map[string]string
	Prefixes   Prefixes
	Sections   []Section
}

// Namer maps schema names to Go identifiers.
type Namer struct {
	opts Options
}

// New creates a Namer.
func New(opts Options) *Namer {
	return &Namer{opts: opts}
}

// Package returns the Go package name of the generated code: the global
// namespace, lower-cased.
func (n *Namer) Package() string {
	return strings.ToLower(n.global())
}

func (n *Namer) global() string {
	if g := n.opts.Namespaces[GlobalNamespace]; g != "" {
		return g
	}
	return "tl"
}

// base turns a possibly namespaced schema name into the identifier stem:
// auth.sentCode becomes AuthSentCode, unless namespaces maps auth elsewhere.
func (n *Namer) base(name string) string {
	ns, local := schema.SplitName(name)
	stem := generator.PascalCase(local)
	if ns == "" {
		return stem
	}
	prefix, ok := n.opts.Namespaces[ns]
	if !ok {
		prefix = generator.PascalCase(strings.ReplaceAll(ns, ".", "_"))
	}
	return prefix + stem
}

// Type is the interface of a TypeDef: TLUser.
func (n *Namer) Type(typeName string) string {
	return n.opts.Prefixes.Type + n.base(typeName)
}

// Data is the struct of a constructor or function: TLDUser.
func (n *Namer) Data(ctor string) string {
	return n.opts.Prefixes.Data + n.base(ctor)
}

// ID is the id constant of a constructor or function: IDUser.
func (n *Namer) ID(ctor string) string {
	return n.opts.Prefixes.ID + n.base(ctor)
}

// Construct is the constructor function: MakeUser.
func (n *Namer) Construct(ctor string) string {
	return n.opts.Prefixes.Construct + n.base(ctor)
}

// Decode is the boxed decoder of a TypeDef: DecodeTLUser.
func (n *Namer) Decode(typeName string) string {
	return "Decode" + n.Type(typeName)
}

// Unmarshal is the byte-slice decoder of a TypeDef: UnmarshalTLUser.
func (n *Namer) Unmarshal(typeName string) string {
	return "Unmarshal" + n.Type(typeName)
}

// Sealed is the unexported marker method of a TypeDef interface.
func (n *Namer) Sealed(typeName string) string {
	return "is" + n.Type(typeName)
}

// ToExternal converts a TypeDef value outward: TLUserToExternal.
func (n *Namer) ToExternal(typeName string) string {
	return n.Type(typeName) + "ToExternal"
}

// FromExternal converts an external value back: TLUserFromExternal.
func (n *Namer) FromExternal(typeName string) string {
	return n.Type(typeName) + "FromExternal"
}

// DataFromExternal converts one external constructor back: TLDUserFromExternal.
func (n *Namer) DataFromExternal(ctor string) string {
	return n.Data(ctor) + "FromExternal"
}

// methods generated on every struct; fields may not shadow them.
var methods = map[string]bool{
	"TypeID":       true,
	"EncodeBare":   true,
	"DecodeBare":   true,
	"DecodeResult": true,
	"ToExternal":   true,
}

// Field is the struct field of a schema field.
func Field(name string) string {
	f := generator.PascalCase(name)
	if methods[f] {
		return f + "_"
	}
	return f
}

// ExternalField is the field name the external package uses.
func ExternalField(name string) string {
	return generator.PascalCase(name)
}

// ExternalStruct is the external package's struct for a constructor.
func ExternalStruct(ctor string) string {
	_, local := schema.SplitName(ctor)
	return generator.PascalCase(local)
}

// ExternalRequest is the external package's struct for a function.
func ExternalRequest(fn string) string {
	return ExternalStruct(fn) + "Request"
}

// ExternalClass is the external package's interface for a sum type with
// more than one constructor.
func ExternalClass(typeName string) string {
	_, local := schema.SplitName(typeName)
	return generator.PascalCase(local) + "Class"
}

// Param is the constructor function parameter of a schema field.
func Param(name string) string {
	p := generator.CamelCase(name)
	if token.IsKeyword(p) || p == "tl" {
		return p + "_"
	}
	return p
}

// File names the output unit of a section ("" is the main unit).
func (n *Namer) File(section string) string {
	name := n.Package() + "_tl"
	if section != "" {
		name += "_" + strings.ToLower(section)
	}
	return name + ".go"
}

// ConversionFile names the conversion unit paired with File(section).
func (n *Namer) ConversionFile(section string) string {
	return strings.TrimSuffix(n.File(section), ".go") + "_conversion.go"
}

// FunctionsSection is the section holding every function.
const FunctionsSection = "functions"

// SectionOf returns the section a TypeDef is emitted in. The first section
// with a matching prefix wins; unmatched types go to the main unit.
func (n *Namer) SectionOf(typeName string) string {
	_, local := schema.SplitName(typeName)
	lower := strings.ToLower(local)
	for _, s := range n.opts.Sections {
		for _, p := range s.Prefixes {
			if strings.HasPrefix(lower, strings.ToLower(p)) {
				return s.Name
			}
		}
	}
	return ""
}

// Sections lists section names in configured order.
func (n *Namer) Sections() []string {
	names := make([]string, len(n.opts.Sections))
	for i, s := range n.opts.Sections {
		names[i] = s.Name
	}
	return names
}

// Check verifies that no two generated package-level identifiers coincide.
func (n *Namer) Check(reg *registry.Registry) error {
	seen := make(map[string]schema.Position)
	claim := func(ident string, pos schema.Position) error {
		if first, ok := seen[ident]; ok {
			return &registry.DuplicateDefinitionError{Kind: "identifier", Name: ident, First: first, Second: pos}
		}
		seen[ident] = pos
		return nil
	}

	for _, td := range reg.TypeDefs {
		for _, ident := range []string{n.Type(td.Name), n.Decode(td.Name), n.Unmarshal(td.Name), n.ToExternal(td.Name), n.FromExternal(td.Name)} {
			if err := claim(ident, td.Pos); err != nil {
				return err
			}
		}
		for _, c := range td.Constructors {
			if err := n.checkConstructor(c, claim); err != nil {
				return err
			}
		}
	}
	for _, fn := range reg.Functions {
		if err := n.checkConstructor(fn, claim); err != nil {
			return err
		}
	}
	return nil
}

func (n *Namer) checkConstructor(c *registry.Constructor, claim func(string, schema.Position) error) error {
	for _, ident := range []string{n.Data(c.Name), n.ID(c.Name), n.Construct(c.Name), n.DataFromExternal(c.Name)} {
		if err := claim(ident, c.Pos); err != nil {
			return err
		}
	}
	fields := make(map[string]string)
	for _, f := range c.Fields {
		name := Field(f.Name)
		if other, ok := fields[name]; ok {
			return &registry.DuplicateDefinitionError{Kind: "field", Name: c.Name + "." + other + " and " + f.Name, First: c.Pos, Second: c.Pos}
		}
		fields[name] = f.Name
	}
	return nil
}
