package conversion

import (
	"fmt"
	"strings"

	"github.com/simonhull/tlgen/internal/generators/naming"
	"github.com/simonhull/tlgen/internal/registry"
)

// UnitData is the data passed to the conversion template
type UnitData struct {
	Header   string
	Package  string
	Runtime  string
	External string // import path of the external package
	ExtName  string // its package name
	Helpers  []Import
	TypeDefs []TypeDefData
	Requests []ConstructorData
}

// Import is one conversion helper package.
type Import struct {
	Alias string
	Path  string
}

// TypeDefData describes the conversions of one sum type
type TypeDefData struct {
	Name         string
	Interface    string
	ToExternal   string
	FromExternal string
	// ExternalType is the external sum type: a Class interface, or the
	// constructor struct itself when the external type has one constructor.
	ExternalType string
	Class        bool
	// Zero is the external value a nil local value converts to.
	Zero string
	Constructors []ConstructorData
	ExternalOnly []VariantData
}

// ConstructorData describes the conversions of one constructor or function
type ConstructorData struct {
	Name         string
	Struct       string
	External     string // external struct, without package
	FromExternal string
	ToBody       string
	FromBody     string
	NeedsErr     bool
}

// VariantData is an external constructor without a local counterpart
type VariantData struct {
	Name     string
	External string
}

type transformer struct {
	m     *Map
	namer *naming.Namer
	ext   string // external package name
	to    string // helper alias for local → external
	from  string // helper alias for external → local
}

func (t *transformer) typeDef(tm *TypeMapping) TypeDefData {
	data := TypeDefData{
		Name:         tm.Local.Name,
		Interface:    t.namer.Type(tm.Local.Name),
		ToExternal:   t.namer.ToExternal(tm.Local.Name),
		FromExternal: t.namer.FromExternal(tm.Local.Name),
		ExternalType: t.externalTypeDef(tm.External),
		Class:        len(tm.External.Constructors) > 1,
	}
	if data.Class {
		data.Zero = "nil"
	} else {
		data.Zero = data.ExternalType + "{}"
	}
	for _, cm := range tm.Constructors {
		data.Constructors = append(data.Constructors, t.constructor(cm, naming.ExternalStruct(cm.External.Name)))
	}
	for _, c := range tm.ExternalOnly {
		data.ExternalOnly = append(data.ExternalOnly, VariantData{Name: c.Name, External: naming.ExternalStruct(c.Name)})
	}
	return data
}

func (t *transformer) request(cm *ConstructorMapping) ConstructorData {
	return t.constructor(cm, naming.ExternalRequest(cm.External.Name))
}

func (t *transformer) constructor(cm *ConstructorMapping, external string) ConstructorData {
	cd := ConstructorData{
		Name:         cm.Local.Name,
		Struct:       t.namer.Data(cm.Local.Name),
		External:     external,
		FromExternal: t.namer.DataFromExternal(cm.Local.Name),
	}

	var to, from strings.Builder
	for _, fm := range cm.Fields {
		if fm.Local == nil || fm.External == nil {
			// One-sided fields stay at their zero value on the other side.
			continue
		}
		local := "v." + naming.Field(fm.Local.Name)
		ext := naming.ExternalField(fm.External.Name)
		t.toField(&to, fm, local, "out."+ext)
		if t.fromField(&from, fm, "v."+ext, "x."+naming.Field(fm.Local.Name)) {
			cd.NeedsErr = true
		}
	}
	cd.ToBody = to.String()
	cd.FromBody = from.String()
	return cd
}

func (t *transformer) toField(b *strings.Builder, fm FieldMapping, local, target string) {
	typ := fm.Local.Type
	if fm.Local.Nullable && !typ.Boxed() {
		fmt.Fprintf(b, "if %s != nil {\n%s = %s\n}\n", local, target, t.toExpr(typ, "*"+local, 1))
		return
	}
	fmt.Fprintf(b, "%s = %s\n", target, t.toExpr(typ, local, 1))
}

// fromField writes the statements converting one external field back and
// reports whether they can fail.
func (t *transformer) fromField(b *strings.Builder, fm FieldMapping, ext, target string) bool {
	typ := fm.Local.Type
	call, fallible := t.fromCall(typ, ext, 1)
	if fm.Local.Nullable && !typ.Boxed() {
		if typ.Kind == registry.KindVector {
			fmt.Fprintf(b, "if %s != nil {\n", ext)
		} else {
			b.WriteString("{\n")
		}
		fmt.Fprintf(b, "var p %s\n", t.localType(typ))
		t.assign(b, "p", call, fallible)
		fmt.Fprintf(b, "%s = &p\n}\n", target)
		return fallible
	}
	if fm.Local.Nullable && fallible && t.nilable(typ) {
		fmt.Fprintf(b, "if %s != nil {\n", ext)
		t.assign(b, target, call, fallible)
		b.WriteString("}\n")
		return fallible
	}
	t.assign(b, target, call, fallible)
	return fallible
}

func (t *transformer) assign(b *strings.Builder, target, call string, fallible bool) {
	if fallible {
		fmt.Fprintf(b, "if %s, err = %s; err != nil {\nreturn nil, err\n}\n", target, call)
		return
	}
	fmt.Fprintf(b, "%s = %s\n", target, call)
}

// toExpr converts a local expression outward. It never fails.
func (t *transformer) toExpr(typ *registry.Type, expr string, depth int) string {
	switch typ.Kind {
	case registry.KindBuiltin:
		return fmt.Sprintf("%s.To%s(%s)", t.to, typ.Builtin.Conv, expr)
	case registry.KindVector:
		e := fmt.Sprintf("e%d", depth)
		return fmt.Sprintf("%s.ToVector(%s, func(%s %s) %s {\nreturn %s\n})",
			t.to, expr, e, t.localType(typ.Elem), t.externalType(typ.Elem), t.toExpr(typ.Elem, e, depth+1))
	}
	if rule, ok := t.m.Rule(typ.Name); ok {
		return rule.To(t.namer, t.to, expr)
	}
	return fmt.Sprintf("%s(%s)", t.namer.ToExternal(typ.Name), expr)
}

// fromCall converts an external expression back. Fallible calls yield a
// (value, error) pair.
func (t *transformer) fromCall(typ *registry.Type, expr string, depth int) (string, bool) {
	switch typ.Kind {
	case registry.KindBuiltin:
		return fmt.Sprintf("%s.From%s(%s)", t.from, typ.Builtin.Conv, expr), false
	case registry.KindVector:
		e := fmt.Sprintf("e%d", depth)
		call, fallible := t.fromCall(typ.Elem, e, depth+1)
		if !fallible {
			call += ", nil"
		}
		return fmt.Sprintf("%s.FromVector(%s, func(%s %s) (%s, error) {\nreturn %s\n})",
			t.from, expr, e, t.externalType(typ.Elem), t.localType(typ.Elem), call), true
	}
	if rule, ok := t.m.Rule(typ.Name); ok {
		return rule.From(t.namer, t.from, expr), false
	}
	return fmt.Sprintf("%s(%s)", t.namer.FromExternal(typ.Name), expr), true
}

func (t *transformer) localType(typ *registry.Type) string {
	switch typ.Kind {
	case registry.KindBuiltin:
		return typ.Builtin.GoType
	case registry.KindVector:
		return "[]" + t.localType(typ.Elem)
	}
	return t.namer.Type(typ.Name)
}

// externalType is the Go type the external package uses for a local type.
func (t *transformer) externalType(typ *registry.Type) string {
	switch typ.Kind {
	case registry.KindBuiltin:
		return typ.Builtin.ExternalType
	case registry.KindVector:
		return "[]" + t.externalType(typ.Elem)
	case registry.KindExternal:
		return t.ext + "." + naming.ExternalStruct(typ.Name)
	}
	if rule, ok := t.m.Rule(typ.Name); ok {
		return rule.ExternalType
	}
	tm, _ := t.m.Type(typ.TypeDef)
	return t.externalTypeDef(tm.External)
}

// externalTypeDef is a Class interface, implemented by pointers to its
// constructor structs, or the single constructor struct held by value.
func (t *transformer) externalTypeDef(td *registry.TypeDef) string {
	if len(td.Constructors) > 1 {
		return t.ext + "." + naming.ExternalClass(td.Name)
	}
	return t.ext + "." + naming.ExternalStruct(td.Constructors[0].Name)
}

// nilable reports whether the external representation of typ can be nil.
func (t *transformer) nilable(typ *registry.Type) bool {
	switch typ.Kind {
	case registry.KindVector:
		return true
	case registry.KindTypeDef:
		if _, ok := t.m.Rule(typ.Name); ok {
			return false
		}
		tm, _ := t.m.Type(typ.TypeDef)
		return len(tm.External.Constructors) > 1
	}
	return false
}
