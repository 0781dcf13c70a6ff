package schema

// Merge combines parsed files, in order, into one Schema. TypeDefs are
// created lazily on the first constructor that returns them, so the result
// depends only on the order of files and declarations, never on how the
// files were parsed.
func Merge(files []*File, opts Options) *Schema {
	s := newSchema()
	for _, name := range opts.Builtins {
		s.Intern(name)
	}
	for _, name := range opts.Templates {
		s.Intern(name)
	}

	classDocs := make(map[string]string)
	for _, f := range files {
		for _, entry := range f.skipped {
			s.Intern(entry.Constructor)
			s.Intern(entry.Result)
			s.Skipped = append(s.Skipped, entry)
		}
		for _, cd := range f.classDocs {
			classDocs[cd.name] = cd.doc
		}
		for _, d := range f.decls {
			s.addDecl(d)
		}
	}

	for _, td := range s.TypeDefs {
		if doc, ok := classDocs[td.Name]; ok {
			td.Doc = doc
		}
	}
	return s
}

func (s *Schema) addDecl(d decl) {
	nsName, _ := SplitName(d.name)
	c := &Constructor{
		Name:      d.name,
		Namespace: nsName,
		ID:        d.id,
		Fields:    make([]Field, len(d.fields)),
		Result:    s.ref(d.result),
		TypeDef:   NoTypeDef,
		Function:  d.function,
		Doc:       d.doc,
		Pos:       d.pos,
		Signature: d.signature,
	}
	for i, f := range d.fields {
		c.Fields[i] = Field{Name: f.name, Type: s.ref(f.typ), Doc: f.doc}
	}

	if d.function {
		c.Index = len(s.Functions)
		s.Functions = append(s.Functions, c)
		return
	}

	td := s.typeDef(d.result.name, d.pos)
	c.Index = len(s.Constructors)
	c.TypeDef = td.Index
	s.Constructors = append(s.Constructors, c)
	td.Constructors = append(td.Constructors, c.Index)
	s.Intern(d.name)
}

func (s *Schema) ref(r rawRef) TypeRef {
	ref := TypeRef{Name: s.Intern(r.name)}
	if len(r.args) > 0 {
		ref.Args = make([]TypeRef, len(r.args))
		for i, arg := range r.args {
			ref.Args[i] = s.ref(arg)
		}
	}
	return ref
}
