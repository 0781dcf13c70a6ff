// Package schema parses TL schema text into an abstract Schema.
//
// Parsing is the first of two phases. Field types are kept as structural
// TypeRefs over interned Symbols and are not resolved here; the registry
// package resolves them once every file has been merged, so declarations
// may reference each other in any order.
package schema

import "strings"

// Symbol is an index into the schema's interned name table.
type Symbol int32

// NoTypeDef marks a constructor that does not belong to a TypeDef (a function).
const NoTypeDef = -1

// Position locates a declaration in its source.
type Position struct {
	File string
	Line int
}

// TypeRef is an unresolved reference to a type, e.g. vector<User>.
type TypeRef struct {
	Name Symbol
	Args []TypeRef
}

// Field is a named constructor argument.
type Field struct {
	Name string
	Type TypeRef
	Doc  string
}

// Constructor is one variant of a TypeDef, or a function when TypeDef is NoTypeDef.
type Constructor struct {
	Index     int
	Name      string
	Namespace string
	ID        uint32
	Fields    []Field
	Result    TypeRef
	TypeDef   int
	Function  bool
	Doc       string
	Pos       Position
	Signature string // normalized declaration the ID was computed from
}

// TypeDef is an abstract type: a closed sum over its constructors.
type TypeDef struct {
	Index        int
	Name         string
	Namespace    string
	Constructors []int // indices into Schema.Constructors, declaration order
	Doc          string
	Pos          Position
}

// Namespace groups the TypeDefs whose names share a prefix ("" is global).
type Namespace struct {
	Name     string
	TypeDefs []int

	byName map[string]int
}

// Lookup returns the TypeDef index for a name in this namespace.
func (ns *Namespace) Lookup(name string) (int, bool) {
	idx, ok := ns.byName[name]
	return idx, ok
}

// SkipEntry is a declaration recognized from the skip list. Its names are
// known to the registry but no code is generated for it.
type SkipEntry struct {
	Constructor string
	Result      string
	Line        string
	Pos         Position
}

// Schema is the merged result of parsing every source.
type Schema struct {
	Namespaces   []*Namespace
	TypeDefs     []*TypeDef
	Constructors []*Constructor
	Functions    []*Constructor
	Skipped      []SkipEntry

	symbols []string
	symbol  map[string]Symbol
	nsIndex map[string]int
}

func newSchema() *Schema {
	s := &Schema{
		symbol:  make(map[string]Symbol),
		nsIndex: make(map[string]int),
	}
	s.namespace("")
	return s
}

// Intern returns the symbol for name, adding it if needed.
func (s *Schema) Intern(name string) Symbol {
	if sym, ok := s.symbol[name]; ok {
		return sym
	}
	sym := Symbol(len(s.symbols))
	s.symbols = append(s.symbols, name)
	s.symbol[name] = sym
	return sym
}

// Name returns the text of a symbol.
func (s *Schema) Name(sym Symbol) string {
	return s.symbols[sym]
}

// Lookup finds a symbol without interning.
func (s *Schema) Lookup(name string) (Symbol, bool) {
	sym, ok := s.symbol[name]
	return sym, ok
}

// Namespace returns a namespace by name.
func (s *Schema) Namespace(name string) (*Namespace, bool) {
	idx, ok := s.nsIndex[name]
	if !ok {
		return nil, false
	}
	return s.Namespaces[idx], true
}

// TypeDefByName finds a TypeDef by its full (possibly namespaced) name.
func (s *Schema) TypeDefByName(name string) (*TypeDef, bool) {
	ns, _ := SplitName(name)
	n, ok := s.Namespace(ns)
	if !ok {
		return nil, false
	}
	idx, ok := n.Lookup(name)
	if !ok {
		return nil, false
	}
	return s.TypeDefs[idx], true
}

// FormatRef renders a TypeRef in schema syntax.
func (s *Schema) FormatRef(ref TypeRef) string {
	if len(ref.Args) == 0 {
		return s.Name(ref.Name)
	}
	args := make([]string, len(ref.Args))
	for i, arg := range ref.Args {
		args[i] = s.FormatRef(arg)
	}
	return s.Name(ref.Name) + "<" + strings.Join(args, ",") + ">"
}

func (s *Schema) namespace(name string) *Namespace {
	if idx, ok := s.nsIndex[name]; ok {
		return s.Namespaces[idx]
	}
	ns := &Namespace{Name: name, byName: make(map[string]int)}
	s.nsIndex[name] = len(s.Namespaces)
	s.Namespaces = append(s.Namespaces, ns)
	return ns
}

// typeDef returns the TypeDef for name, creating it on first reference.
func (s *Schema) typeDef(name string, pos Position) *TypeDef {
	nsName, _ := SplitName(name)
	ns := s.namespace(nsName)
	if idx, ok := ns.byName[name]; ok {
		return s.TypeDefs[idx]
	}
	td := &TypeDef{
		Index:     len(s.TypeDefs),
		Name:      name,
		Namespace: nsName,
		Pos:       pos,
	}
	s.TypeDefs = append(s.TypeDefs, td)
	ns.byName[name] = td.Index
	ns.TypeDefs = append(ns.TypeDefs, td.Index)
	return td
}

// SplitName separates "auth.sentCode" into ("auth", "sentCode").
func SplitName(name string) (namespace, local string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
