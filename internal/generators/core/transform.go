package core

import (
	"fmt"
	"strings"

	"github.com/simonhull/tlgen/internal/generators/naming"
	"github.com/simonhull/tlgen/internal/registry"
)

// UnitData is the data passed to the unit template
type UnitData struct {
	Header    string
	Package   string
	Runtime   string // import path of the wire codec
	TypeDefs  []TypeDefData
	Functions []ConstructorData
}

// TypeDefData describes one sum type
type TypeDefData struct {
	Name         string // schema name
	Interface    string
	Sealed       string
	Decode       string
	Unmarshal    string
	Doc          string
	Constructors []ConstructorData
}

// ConstructorData describes one constructor or function
type ConstructorData struct {
	Name      string
	Signature string
	Doc       string
	Struct    string
	IDConst   string
	ID        uint32
	Construct string
	Returns   string // return type of the constructor function
	Sealed    string // marker method, empty for functions
	Fields    []FieldData
	Params    string
	Encode    string
	Decode    string

	Result       string // function result type
	ResultDecode string
}

// FieldData represents a single struct field
type FieldData struct {
	Name   string
	Param  string
	GoType string
	Doc    string
}

type transformer struct {
	reg   *registry.Registry
	namer *naming.Namer
}

func (t *transformer) typeDef(td *registry.TypeDef) TypeDefData {
	data := TypeDefData{
		Name:      td.Name,
		Interface: t.namer.Type(td.Name),
		Sealed:    t.namer.Sealed(td.Name),
		Decode:    t.namer.Decode(td.Name),
		Unmarshal: t.namer.Unmarshal(td.Name),
		Doc:       td.Doc,
	}
	for _, c := range td.Constructors {
		cd := t.constructor(c)
		cd.Returns = data.Interface
		cd.Sealed = data.Sealed
		data.Constructors = append(data.Constructors, cd)
	}
	return data
}

func (t *transformer) function(fn *registry.Constructor) ConstructorData {
	cd := t.constructor(fn)
	cd.Returns = "*" + cd.Struct
	cd.Result = t.goType(fn.Result, false)
	var b strings.Builder
	t.decode(&b, fn.Result, "r", 1, "return "+zeroValue(fn.Result)+", err")
	cd.ResultDecode = b.String()
	return cd
}

func (t *transformer) constructor(c *registry.Constructor) ConstructorData {
	cd := ConstructorData{
		Name:      c.Name,
		Signature: t.signature(c),
		Doc:       c.Doc,
		Struct:    t.namer.Data(c.Name),
		IDConst:   t.namer.ID(c.Name),
		ID:        c.ID,
		Construct: t.namer.Construct(c.Name),
	}

	params := make([]string, len(c.Fields))
	var enc, dec strings.Builder
	for i, f := range c.Fields {
		fd := FieldData{
			Name:   naming.Field(f.Name),
			Param:  naming.Param(f.Name),
			GoType: t.goType(f.Type, f.Nullable),
			Doc:    f.Doc,
		}
		cd.Fields = append(cd.Fields, fd)
		params[i] = fd.Param + " " + fd.GoType

		if f.Nullable {
			t.encodeNullable(&enc, f.Type, "v."+fd.Name)
			t.decodeNullable(&dec, f.Type, "x."+fd.Name)
		} else {
			t.encode(&enc, f.Type, "v."+fd.Name, 1)
			t.decode(&dec, f.Type, "x."+fd.Name, 1, "return err")
		}
	}
	cd.Params = strings.Join(params, ", ")
	cd.Encode = enc.String()
	cd.Decode = dec.String()
	return cd
}

// signature renders a constructor the way the schema declares it.
func (t *transformer) signature(c *registry.Constructor) string {
	var b strings.Builder
	b.WriteString(c.Name)
	for _, f := range c.Fields {
		fmt.Fprintf(&b, " %s:%s", f.Name, f.Type)
	}
	b.WriteString(" = ")
	if c.Function() {
		b.WriteString(c.Result.String())
	} else {
		b.WriteString(t.reg.TypeDefs[c.TypeDef].Name)
	}
	return b.String()
}

// goType is the Go type of a value. Nullable scalars and vectors become
// pointers; sum types are interfaces and already nilable.
func (t *transformer) goType(typ *registry.Type, nullable bool) string {
	var s string
	switch typ.Kind {
	case registry.KindBuiltin:
		s = typ.Builtin.GoType
	case registry.KindVector:
		s = "[]" + t.goType(typ.Elem, false)
	default:
		return t.namer.Type(typ.Name)
	}
	if nullable {
		return "*" + s
	}
	return s
}

func zeroValue(typ *registry.Type) string {
	if typ.Kind != registry.KindBuiltin {
		return "nil"
	}
	switch typ.Builtin.GoType {
	case "string":
		return `""`
	case "[]byte":
		return "nil"
	}
	return "0"
}

// encode writes statements that put the value of expr.
func (t *transformer) encode(b *strings.Builder, typ *registry.Type, expr string, depth int) {
	switch typ.Kind {
	case registry.KindBuiltin:
		fmt.Fprintf(b, "e.%s(%s)\n", typ.Builtin.Put, expr)
	case registry.KindVector:
		elem := fmt.Sprintf("o%d", depth)
		fmt.Fprintf(b, "e.PutVectorLen(len(%s))\n", expr)
		fmt.Fprintf(b, "for _, %s := range %s {\n", elem, expr)
		t.encode(b, typ.Elem, elem, depth+1)
		b.WriteString("}\n")
	default:
		fmt.Fprintf(b, "if err := e.PutObject(%s); err != nil {\nreturn err\n}\n", expr)
	}
}

func (t *transformer) encodeNullable(b *strings.Builder, typ *registry.Type, expr string) {
	fmt.Fprintf(b, "e.PutPresent(%s != nil)\n", expr)
	fmt.Fprintf(b, "if %s != nil {\n", expr)
	if typ.Boxed() {
		t.encode(b, typ, expr, 1)
	} else {
		t.encode(b, typ, "*"+expr, 1)
	}
	b.WriteString("}\n")
}

// decode writes statements that read a value into target. Every path
// assigns the enclosing err at least once; fail is the statement that
// propagates it.
func (t *transformer) decode(b *strings.Builder, typ *registry.Type, target string, depth int, fail string) {
	switch typ.Kind {
	case registry.KindBuiltin:
		fmt.Fprintf(b, "if %s, err = d.%s(); err != nil {\n%s\n}\n", target, typ.Builtin.Get, fail)
	case registry.KindVector:
		n, s, i := fmt.Sprintf("n%d", depth), fmt.Sprintf("s%d", depth), fmt.Sprintf("i%d", depth)
		b.WriteString("{\n")
		fmt.Fprintf(b, "var %s int\n", n)
		fmt.Fprintf(b, "if %s, err = d.VectorLen(); err != nil {\n%s\n}\n", n, fail)
		fmt.Fprintf(b, "%s := make(%s, %s)\n", s, t.goType(typ, false), n)
		fmt.Fprintf(b, "for %s := range %s {\n", i, s)
		t.decode(b, typ.Elem, fmt.Sprintf("%s[%s]", s, i), depth+1, fail)
		b.WriteString("}\n")
		fmt.Fprintf(b, "%s = %s\n", target, s)
		b.WriteString("}\n")
	default:
		fmt.Fprintf(b, "if %s, err = %s(d); err != nil {\n%s\n}\n", target, t.namer.Decode(typ.Name), fail)
	}
}

func (t *transformer) decodeNullable(b *strings.Builder, typ *registry.Type, target string) {
	b.WriteString("{\n")
	b.WriteString("var present bool\n")
	b.WriteString("if present, err = d.Present(); err != nil {\nreturn err\n}\n")
	b.WriteString("if present {\n")
	if typ.Boxed() {
		t.decode(b, typ, target, 1, "return err")
	} else {
		fmt.Fprintf(b, "var p %s\n", t.goType(typ, false))
		t.decode(b, typ, "p", 1, "return err")
		fmt.Fprintf(b, "%s = &p\n", target)
	}
	b.WriteString("}\n}\n")
}
