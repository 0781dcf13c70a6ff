package conversion

import (
	"fmt"

	"github.com/simonhull/tlgen/internal/registry"
)

// MapOptions configures how local names find their external counterparts.
type MapOptions struct {
	BuiltinAdditional []string
	Rename            map[string]string // local type, constructor or constructor.field → external name
	Nullable          []string          // Type.field or constructor.field
}

// Map associates every convertible local TypeDef, constructor and field with
// its external counterpart.
type Map struct {
	Types     []*TypeMapping // local declaration order
	Functions []*ConstructorMapping
	// Unmapped lists local TypeDefs with no external counterpart. They get
	// no conversion routines.
	Unmapped []string

	byLocal map[int]*TypeMapping
	rules   map[string]Rule // local TypeDef name → rule
}

// TypeMapping pairs a local TypeDef with the external one.
type TypeMapping struct {
	Local        *registry.TypeDef
	External     *registry.TypeDef
	Constructors []*ConstructorMapping
	// ExternalOnly constructors have no local counterpart; converting them
	// back fails with tl.UnsupportedVariantError.
	ExternalOnly []*registry.Constructor
}

// ConstructorMapping pairs a local constructor or function with the external one.
type ConstructorMapping struct {
	Local    *registry.Constructor
	External *registry.Constructor
	Fields   []FieldMapping
}

// FieldMapping pairs fields. One side is nil for a nullable field that
// exists on the other side only.
type FieldMapping struct {
	Local    *registry.Field
	External *registry.Field
}

type mapper struct {
	local, external *registry.Registry
	opts            MapOptions
	nullable        map[string]bool
	m               *Map
}

// Build creates the conversion map. Any field without a counterpart that is
// not nullable, and any type mismatch, fails with a MappingError.
func Build(local, external *registry.Registry, opts MapOptions) (*Map, error) {
	mp := &mapper{
		local:    local,
		external: external,
		opts:     opts,
		nullable: make(map[string]bool),
		m: &Map{
			byLocal: make(map[int]*TypeMapping),
			rules:   make(map[string]Rule),
		},
	}
	for _, path := range opts.Nullable {
		mp.nullable[path] = true
	}

	if err := mp.bindRules(); err != nil {
		return nil, err
	}
	mp.bindTypes()
	for _, tm := range mp.m.Types {
		if err := mp.bindConstructors(tm); err != nil {
			return nil, err
		}
	}
	for _, fn := range local.Functions {
		cm, err := mp.bindFunction(fn)
		if err != nil {
			return nil, err
		}
		mp.m.Functions = append(mp.m.Functions, cm)
	}
	return mp.m, nil
}

func (mp *mapper) rename(name string) string {
	if to, ok := mp.opts.Rename[name]; ok {
		return to
	}
	return name
}

func (mp *mapper) bindRules() error {
	for _, name := range mp.opts.BuiltinAdditional {
		rule, err := LookupRule(name)
		if err != nil {
			return err
		}
		mp.m.rules[rule.LocalType] = rule

		td, ok := mp.local.TypeDefByName(rule.LocalType)
		if !ok {
			continue
		}
		for _, want := range rule.Constructors {
			found := false
			for _, c := range td.Constructors {
				found = found || c.Name == want
			}
			if !found {
				return &MappingError{Path: rule.LocalType, Reason: fmt.Sprintf("builtinAdditional %q needs constructor %q", name, want)}
			}
		}
	}
	return nil
}

func (mp *mapper) bindTypes() {
	for _, td := range mp.local.TypeDefs {
		if _, ok := mp.m.rules[td.Name]; ok {
			continue
		}
		ext, ok := mp.external.TypeDefByName(mp.rename(td.Name))
		if !ok {
			mp.m.Unmapped = append(mp.m.Unmapped, td.Name)
			continue
		}
		tm := &TypeMapping{Local: td, External: ext}
		mp.m.Types = append(mp.m.Types, tm)
		mp.m.byLocal[td.Index] = tm
	}
}

func (mp *mapper) bindConstructors(tm *TypeMapping) error {
	matched := make(map[string]bool)
	for _, c := range tm.Local.Constructors {
		extName := mp.rename(c.Name)
		var ext *registry.Constructor
		for _, candidate := range tm.External.Constructors {
			if candidate.Name == extName {
				ext = candidate
			}
		}
		if ext == nil {
			return &MappingError{
				Path:   c.Name,
				Reason: fmt.Sprintf("constructor has no counterpart %q in external type %s", extName, tm.External.Name),
			}
		}
		if matched[ext.Name] {
			return &MappingError{Path: c.Name, Reason: fmt.Sprintf("external constructor %s is already mapped", ext.Name)}
		}
		matched[ext.Name] = true

		fields, err := mp.bindFields(tm.Local.Name, c, ext)
		if err != nil {
			return err
		}
		tm.Constructors = append(tm.Constructors, &ConstructorMapping{Local: c, External: ext, Fields: fields})
	}

	for _, ext := range tm.External.Constructors {
		if !matched[ext.Name] {
			tm.ExternalOnly = append(tm.ExternalOnly, ext)
		}
	}
	return nil
}

func (mp *mapper) bindFunction(fn *registry.Constructor) (*ConstructorMapping, error) {
	extName := mp.rename(fn.Name)
	for _, ext := range mp.external.Functions {
		if ext.Name != extName {
			continue
		}
		fields, err := mp.bindFields("", fn, ext)
		if err != nil {
			return nil, err
		}
		return &ConstructorMapping{Local: fn, External: ext, Fields: fields}, nil
	}
	return nil, &MappingError{Path: fn.Name, Reason: fmt.Sprintf("function has no counterpart %q in the external schema", extName)}
}

// bindFields pairs fields in local order, then appends external-only ones.
func (mp *mapper) bindFields(typeName string, local, ext *registry.Constructor) ([]FieldMapping, error) {
	owner := typeName
	if owner == "" {
		owner = local.Name
	}
	isNullable := func(field string) bool {
		return mp.nullable[registry.FieldPath(local.Name, field)] ||
			(typeName != "" && mp.nullable[registry.FieldPath(typeName, field)])
	}

	var out []FieldMapping
	used := make(map[string]bool)
	for i := range local.Fields {
		lf := &local.Fields[i]
		extName := mp.rename(registry.FieldPath(local.Name, lf.Name))
		if extName == registry.FieldPath(local.Name, lf.Name) {
			extName = lf.Name
		}

		var ef *registry.Field
		for j := range ext.Fields {
			if ext.Fields[j].Name == extName {
				ef = &ext.Fields[j]
			}
		}
		if ef == nil {
			if !isNullable(lf.Name) {
				return nil, &MappingError{
					Path:   registry.FieldPath(owner, lf.Name),
					Reason: fmt.Sprintf("no counterpart field %q in external %s and the field is not nullable", extName, ext.Name),
				}
			}
			out = append(out, FieldMapping{Local: lf})
			continue
		}
		if !mp.compatible(lf.Type, ef.Type) {
			return nil, &MappingError{
				Path:   registry.FieldPath(owner, lf.Name),
				Reason: fmt.Sprintf("local type %s does not match external type %s", lf.Type, ef.Type),
			}
		}
		used[ef.Name] = true
		out = append(out, FieldMapping{Local: lf, External: ef})
	}

	for j := range ext.Fields {
		ef := &ext.Fields[j]
		if used[ef.Name] {
			continue
		}
		if !isNullable(ef.Name) && !mp.nullable[registry.FieldPath(ext.Name, ef.Name)] {
			return nil, &MappingError{
				Path:   registry.FieldPath(owner, ef.Name),
				Reason: fmt.Sprintf("external field of %s has no local counterpart and is not nullable", ext.Name),
			}
		}
		out = append(out, FieldMapping{External: ef})
	}
	return out, nil
}

// compatible reports whether a local value can be converted to the external
// type and back.
func (mp *mapper) compatible(l, e *registry.Type) bool {
	switch l.Kind {
	case registry.KindBuiltin:
		return e.Kind == registry.KindBuiltin && e.Builtin.Name == l.Builtin.Name
	case registry.KindVector:
		return e.Kind == registry.KindVector && mp.compatible(l.Elem, e.Elem)
	case registry.KindTypeDef:
		if !e.Boxed() {
			return false
		}
		if _, ok := mp.m.rules[l.Name]; ok {
			return e.Name == mp.rename(l.Name)
		}
		tm, ok := mp.m.byLocal[l.TypeDef]
		return ok && tm.External.Name == e.Name
	case registry.KindExternal:
		return e.Boxed() && e.Name == mp.rename(l.Name)
	}
	return false
}

// Rule returns the builtinAdditional rule standing in for a local TypeDef.
func (m *Map) Rule(typeName string) (Rule, bool) {
	r, ok := m.rules[typeName]
	return r, ok
}

// Type returns the mapping of a local TypeDef.
func (m *Map) Type(index int) (*TypeMapping, bool) {
	tm, ok := m.byLocal[index]
	return tm, ok
}
