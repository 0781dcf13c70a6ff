// Package registry resolves a parsed schema into a complete, immutable symbol
// table: every field type is bound to a builtin, a vector, a TypeDef or an
// externally satisfied name, recursion is checked, and TypeDefs are placed in
// a stable emission order.
package registry

import "github.com/simonhull/tlgen/internal/schema"

// Kind classifies a resolved type.
type Kind int

const (
	KindBuiltin Kind = iota + 1
	KindVector
	KindTypeDef
	// KindExternal is a name registered by a skip entry and backed by
	// hand-written code that follows the generated naming scheme.
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindVector:
		return "vector"
	case KindTypeDef:
		return "typedef"
	case KindExternal:
		return "external"
	}
	return "unknown"
}

// Type is a resolved type reference.
type Type struct {
	Kind    Kind
	Builtin Builtin // KindBuiltin
	Elem    *Type   // KindVector
	TypeDef int     // KindTypeDef
	Name    string  // TypeDef or external name
}

// String renders the type in schema syntax.
func (t *Type) String() string {
	switch t.Kind {
	case KindBuiltin:
		return t.Builtin.Name
	case KindVector:
		return "vector<" + t.Elem.String() + ">"
	}
	return t.Name
}

// Boxed reports whether values of this type carry a constructor id on the
// wire when embedded in another value.
func (t *Type) Boxed() bool {
	return t.Kind == KindTypeDef || t.Kind == KindExternal
}

// Field is a resolved constructor field.
type Field struct {
	Name     string
	Doc      string
	Type     *Type
	Nullable bool
}

// Constructor is a resolved constructor or function.
type Constructor struct {
	Name      string
	Namespace string
	ID        uint32
	Doc       string
	Pos       schema.Position
	TypeDef   int // schema.NoTypeDef for functions
	Fields    []Field
	Result    *Type // functions only
}

// Function reports whether c is a request rather than a TypeDef variant.
func (c *Constructor) Function() bool {
	return c.TypeDef == schema.NoTypeDef
}

// TypeDef is a resolved sum type.
type TypeDef struct {
	Index        int
	Name         string
	Namespace    string
	Doc          string
	Pos          schema.Position
	Constructors []*Constructor
}

// Registry is the resolved schema. It is never modified after Resolve returns.
type Registry struct {
	TypeDefs  []*TypeDef
	Functions []*Constructor
	// Order lists TypeDef indices so that a type follows every type it embeds
	// by value, except within a recursive group.
	Order []int
	// Skipped lists the names satisfied by skip entries, in schema order.
	Skipped []schema.SkipEntry

	byName map[string]int
}

// TypeDefByName finds a TypeDef by its schema name.
func (r *Registry) TypeDefByName(name string) (*TypeDef, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.TypeDefs[idx], true
}

// Constructors returns every TypeDef constructor in declaration order.
func (r *Registry) Constructors() []*Constructor {
	var out []*Constructor
	for _, td := range r.TypeDefs {
		out = append(out, td.Constructors...)
	}
	return out
}

// Ordered returns the TypeDefs in emission order.
func (r *Registry) Ordered() []*TypeDef {
	out := make([]*TypeDef, len(r.Order))
	for i, idx := range r.Order {
		out[i] = r.TypeDefs[idx]
	}
	return out
}

// FieldPath formats the path used by nullable and conversion entries.
func FieldPath(owner, field string) string {
	return owner + "." + field
}

// HasField reports whether path names a field as Type.field or
// constructor.field. Function parameters count under the function name.
func (r *Registry) HasField(path string) bool {
	for _, td := range r.TypeDefs {
		for _, c := range td.Constructors {
			for _, f := range c.Fields {
				if path == FieldPath(c.Name, f.Name) || path == FieldPath(td.Name, f.Name) {
					return true
				}
			}
		}
	}
	for _, fn := range r.Functions {
		for _, f := range fn.Fields {
			if path == FieldPath(fn.Name, f.Name) {
				return true
			}
		}
	}
	return false
}

// CheckFieldPaths fails with UnknownFieldPathError for every path that names
// no field in any of regs.
func CheckFieldPaths(paths []string, regs ...*Registry) error {
	var unknown []string
	for _, path := range paths {
		found := false
		for _, r := range regs {
			if r.HasField(path) {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, path)
		}
	}
	if len(unknown) > 0 {
		return &UnknownFieldPathError{Paths: unknown}
	}
	return nil
}
