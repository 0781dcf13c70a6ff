package registry

import (
	"fmt"

	"github.com/simonhull/tlgen/internal/schema"
)

// Options carries the manifest settings that affect resolution.
type Options struct {
	Builtins  []string
	Templates []string
	Nullable  []string // Type.field or constructor.field
}

type resolver struct {
	s         *schema.Schema
	builtins  map[string]Builtin
	templates map[string]bool
	aliases   map[string]*Type
	aliasPos  map[string]schema.Position
	nullable  map[string]bool
	bare      map[string]int // constructor name -> TypeDef index
}

// Resolve binds every field of s and returns the finished registry.
func Resolve(s *schema.Schema, opts Options) (*Registry, error) {
	if err := checkBuiltins(opts.Builtins, opts.Templates); err != nil {
		return nil, err
	}

	r := &resolver{
		s:         s,
		builtins:  make(map[string]Builtin),
		templates: make(map[string]bool),
		aliases:   make(map[string]*Type),
		aliasPos:  make(map[string]schema.Position),
		nullable:  make(map[string]bool),
		bare:      make(map[string]int, len(s.Constructors)),
	}
	for _, c := range s.Constructors {
		r.bare[c.Name] = c.TypeDef
	}
	for _, name := range opts.Builtins {
		r.builtins[name] = Builtins[name]
	}
	for _, name := range opts.Templates {
		r.templates[name] = true
	}
	for _, path := range opts.Nullable {
		r.nullable[path] = true
	}
	r.registerSkipped()

	if err := r.checkDuplicates(); err != nil {
		return nil, err
	}

	reg := &Registry{
		TypeDefs: make([]*TypeDef, len(s.TypeDefs)),
		Skipped:  s.Skipped,
		byName:   make(map[string]int, len(s.TypeDefs)),
	}
	for i, td := range s.TypeDefs {
		resolved := &TypeDef{
			Index:     i,
			Name:      td.Name,
			Namespace: td.Namespace,
			Doc:       td.Doc,
			Pos:       td.Pos,
		}
		for _, ci := range td.Constructors {
			c, err := r.constructor(s.Constructors[ci], td.Name)
			if err != nil {
				return nil, err
			}
			resolved.Constructors = append(resolved.Constructors, c)
		}
		reg.TypeDefs[i] = resolved
		reg.byName[td.Name] = i
	}

	for _, fn := range s.Functions {
		c, err := r.constructor(fn, "")
		if err != nil {
			return nil, err
		}
		result, err := r.ref(fn.Result, fn.Name, fn.Pos)
		if err != nil {
			return nil, err
		}
		c.Result = result
		reg.Functions = append(reg.Functions, c)
	}

	if err := checkRecursion(reg); err != nil {
		return nil, err
	}
	reg.Order = NewDependencyGraph(reg).TopologicalSort()
	return reg, nil
}

// registerSkipped makes the result names of skip entries resolvable. A skip
// entry whose constructor is a builtin or template aliases that builtin
// (int32 = Int32); anything else is satisfied by hand-written code.
func (r *resolver) registerSkipped() {
	for _, entry := range r.s.Skipped {
		var t *Type
		switch b, ok := r.builtins[entry.Constructor]; {
		case ok:
			t = &Type{Kind: KindBuiltin, Builtin: b}
		case r.templates[entry.Constructor]:
			r.templates[entry.Result] = true
			r.aliasPos[entry.Result] = entry.Pos
			continue
		default:
			t = &Type{Kind: KindExternal, Name: entry.Result}
		}
		if _, seen := r.aliases[entry.Result]; !seen {
			r.aliases[entry.Result] = t
			r.aliasPos[entry.Result] = entry.Pos
		}
	}
}

func (r *resolver) checkDuplicates() error {
	for _, td := range r.s.TypeDefs {
		if pos, ok := r.aliasPos[td.Name]; ok {
			return &DuplicateDefinitionError{Kind: "type", Name: td.Name, Namespace: td.Namespace, First: pos, Second: td.Pos}
		}
	}

	names := make(map[string]schema.Position)
	ids := make(map[uint32]*schema.Constructor)
	all := append(append([]*schema.Constructor{}, r.s.Constructors...), r.s.Functions...)
	for _, c := range all {
		if first, ok := names[c.Name]; ok {
			return &DuplicateDefinitionError{Kind: "constructor", Name: c.Name, Namespace: c.Namespace, First: first, Second: c.Pos}
		}
		names[c.Name] = c.Pos
		if other, ok := ids[c.ID]; ok {
			return &DuplicateDefinitionError{
				Kind:   "constructor id",
				Name:   fmt.Sprintf("#%08x (%s, %s)", c.ID, other.Name, c.Name),
				First:  other.Pos,
				Second: c.Pos,
			}
		}
		ids[c.ID] = c
	}
	return nil
}

func (r *resolver) constructor(c *schema.Constructor, typeName string) (*Constructor, error) {
	out := &Constructor{
		Name:      c.Name,
		Namespace: c.Namespace,
		ID:        c.ID,
		Doc:       c.Doc,
		Pos:       c.Pos,
		TypeDef:   c.TypeDef,
		Fields:    make([]Field, len(c.Fields)),
	}
	for i, f := range c.Fields {
		t, err := r.ref(f.Type, FieldPath(c.Name, f.Name), c.Pos)
		if err != nil {
			return nil, err
		}
		out.Fields[i] = Field{
			Name:     f.Name,
			Doc:      f.Doc,
			Type:     t,
			Nullable: r.nullable[FieldPath(c.Name, f.Name)] || (typeName != "" && r.nullable[FieldPath(typeName, f.Name)]),
		}
	}
	return out, nil
}

func (r *resolver) ref(ref schema.TypeRef, path string, pos schema.Position) (*Type, error) {
	name := r.s.Name(ref.Name)
	unknown := func() error {
		return &UnknownTypeError{Field: path, Type: r.s.FormatRef(ref), File: pos.File, Line: pos.Line}
	}

	if len(ref.Args) > 0 {
		if !r.templates[name] || len(ref.Args) != 1 {
			return nil, unknown()
		}
		elem, err := r.ref(ref.Args[0], path, pos)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindVector, Elem: elem}, nil
	}

	if b, ok := r.builtins[name]; ok {
		return &Type{Kind: KindBuiltin, Builtin: b}, nil
	}
	if t, ok := r.aliases[name]; ok {
		return t, nil
	}
	if td, ok := r.s.TypeDefByName(name); ok {
		return &Type{Kind: KindTypeDef, TypeDef: td.Index, Name: td.Name}, nil
	}
	// td_api style: "profile_photo:profilePhoto" names the constructor.
	if idx, ok := r.bare[name]; ok {
		td := r.s.TypeDefs[idx]
		return &Type{Kind: KindTypeDef, TypeDef: td.Index, Name: td.Name}, nil
	}
	return nil, unknown()
}
