package schema

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	sectionTypes     = "---types---"
	sectionFunctions = "---functions---"
)

// Options carries the parts of the manifest the parser needs.
type Options struct {
	Skip      []string // Literal declarations satisfied externally
	Builtins  []string // Scalar type names that need no declaration
	Templates []string // Generic type names that need no declaration
}

// Source is one schema text.
type Source struct {
	Name string
	Text []byte
}

// File is the parse result of a single source, ready to be merged.
type File struct {
	Name      string
	decls     []decl
	skipped   []SkipEntry
	classDocs []classDoc
}

type rawRef struct {
	name string
	args []rawRef
}

type rawField struct {
	name string
	typ  rawRef
	doc  string
}

type decl struct {
	name       string
	id         uint32
	fields     []rawField
	result     rawRef
	function   bool
	doc        string
	pos        Position
	signature  string
	explicitID bool
}

type classDoc struct {
	name string
	doc  string
}

// Parse parses and merges sources in order.
func Parse(sources []Source, opts Options) (*Schema, error) {
	files := make([]*File, 0, len(sources))
	for _, src := range sources {
		f, err := ParseFile(src, opts)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return Merge(files, opts), nil
}

// ParseFile parses one source. It touches no shared state and may run
// concurrently with other calls.
func ParseFile(src Source, opts Options) (*File, error) {
	skip := make(map[string]bool, len(opts.Skip))
	for _, line := range opts.Skip {
		skip[normalizeLine(line)] = true
	}

	p := &fileParser{
		file: &File{Name: src.Name},
		skip: skip,
	}

	scanner := bufio.NewScanner(bytes.NewReader(src.Text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if err := p.line(scanner.Text(), line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.Name, err)
	}
	if strings.TrimSpace(p.stmt.String()) != "" {
		return nil, syntaxErrorf(p.pos(p.stmtLine), strings.TrimSpace(p.stmt.String()), "missing ';' at end of declaration")
	}
	return p.file, nil
}

type fileParser struct {
	file      *File
	skip      map[string]bool
	functions bool
	docLines  []string
	stmt      strings.Builder
	stmtLine  int
}

func (p *fileParser) pos(line int) Position {
	return Position{File: p.file.Name, Line: line}
}

func (p *fileParser) line(text string, lineNo int) error {
	trimmed := strings.TrimSpace(text)
	if p.stmt.Len() == 0 {
		switch {
		case trimmed == "":
			p.docLines = nil
			return nil
		case strings.HasPrefix(trimmed, "//"):
			p.comment(trimmed)
			return nil
		case trimmed == sectionFunctions:
			p.functions = true
			p.docLines = nil
			return nil
		case trimmed == sectionTypes:
			p.functions = false
			p.docLines = nil
			return nil
		case strings.HasPrefix(trimmed, "---"):
			return syntaxErrorf(p.pos(lineNo), trimmed, "unknown section marker")
		}
		p.stmtLine = lineNo
	}

	if i := strings.Index(text, "//"); i >= 0 {
		text = text[:i]
	}
	p.stmt.WriteString(text)
	p.stmt.WriteByte(' ')

	for {
		buffered := p.stmt.String()
		end := strings.IndexByte(buffered, ';')
		if end < 0 {
			return nil
		}
		statement := strings.TrimSpace(buffered[:end])
		rest := buffered[end+1:]
		p.stmt.Reset()
		if strings.TrimSpace(rest) != "" {
			p.stmt.WriteString(rest)
		}
		if err := p.statement(statement, p.pos(p.stmtLine)); err != nil {
			return err
		}
		p.docLines = nil
	}
}

// comment collects TDLib-style documentation comments (//@key value and
// //-continuation lines). Other comments are ignored.
func (p *fileParser) comment(line string) {
	switch {
	case strings.HasPrefix(line, "//@"):
		p.docLines = append(p.docLines, strings.TrimPrefix(line, "//"))
	case strings.HasPrefix(line, "//-") && len(p.docLines) > 0:
		last := len(p.docLines) - 1
		p.docLines[last] += " " + strings.TrimSpace(strings.TrimPrefix(line, "//-"))
	}

	if len(p.docLines) > 0 {
		tags := parseDocTags(strings.Join(p.docLines, " "))
		if class, ok := tags.get("class"); ok {
			desc, _ := tags.get("description")
			p.file.classDocs = append(p.file.classDocs, classDoc{name: class, doc: desc})
			p.docLines = nil
		}
	}
}

func (p *fileParser) statement(text string, pos Position) error {
	if text == "" {
		return syntaxErrorf(pos, ";", "empty declaration")
	}
	if p.skip[normalizeLine(text)] {
		entry, err := skipEntry(text, pos)
		if err != nil {
			return err
		}
		p.file.skipped = append(p.file.skipped, entry)
		return nil
	}

	d, err := parseDecl(text, pos, p.functions)
	if err != nil {
		return err
	}
	if len(p.docLines) > 0 {
		tags := parseDocTags(strings.Join(p.docLines, " "))
		d.doc, _ = tags.get("description")
		for i := range d.fields {
			if doc, ok := tags.get(d.fields[i].name); ok {
				d.fields[i].doc = doc
			}
		}
	}
	p.file.decls = append(p.file.decls, d)
	return nil
}

// skipEntry extracts the constructor and result names of a skipped line such
// as "vector {t:Type} # [ t ] = Vector t".
func skipEntry(text string, pos Position) (SkipEntry, error) {
	eq := strings.LastIndexByte(text, '=')
	if eq < 0 {
		return SkipEntry{}, syntaxErrorf(pos, text, "skip entry has no '='")
	}
	head := strings.FieldsFunc(text[:eq], func(r rune) bool {
		return r == ' ' || r == '\t' || r == '{' || r == '#'
	})
	result := strings.Fields(text[eq+1:])
	if len(head) == 0 || len(result) == 0 {
		return SkipEntry{}, syntaxErrorf(pos, text, "skip entry must name a constructor and a result type")
	}
	return SkipEntry{
		Constructor: head[0],
		Result:      result[0],
		Line:        normalizeLine(text),
		Pos:         pos,
	}, nil
}

func parseDecl(text string, pos Position, function bool) (decl, error) {
	toks, err := tokenize(text)
	if err != nil {
		return decl{}, syntaxErrorf(pos, text, "%v", err)
	}
	dp := &declParser{toks: toks, text: text, pos: pos}
	return dp.parse(function)
}

type declParser struct {
	toks []token
	i    int
	text string
	pos  Position
}

func (dp *declParser) peek() token {
	if dp.i >= len(dp.toks) {
		return token{kind: tokEOF}
	}
	return dp.toks[dp.i]
}

func (dp *declParser) next() token {
	t := dp.peek()
	if t.kind != tokEOF {
		dp.i++
	}
	return t
}

func (dp *declParser) errorf(format string, args ...any) error {
	return syntaxErrorf(dp.pos, dp.text, format, args...)
}

func (dp *declParser) parse(function bool) (decl, error) {
	d := decl{function: function, pos: dp.pos}

	name := dp.next()
	if name.kind != tokWord || !isConstructorName(name.text) {
		return decl{}, dp.errorf("invalid constructor name %q", name.text)
	}
	d.name = name.text

	if dp.peek().kind == tokHash {
		dp.next()
		hex := dp.next()
		id, err := strconv.ParseUint(hex.text, 16, 32)
		if hex.kind != tokWord || err != nil {
			return decl{}, dp.errorf("invalid constructor id %q", hex.text)
		}
		d.id = uint32(id)
		d.explicitID = true
	}

	for dp.peek().kind != tokEquals {
		t := dp.next()
		switch t.kind {
		case tokEOF:
			return decl{}, dp.errorf("missing '=' before result type")
		case tokLBrace:
			return decl{}, dp.errorf("type parameters are only supported in skip entries")
		case tokWord:
		default:
			return decl{}, dp.errorf("unexpected %q in field list", t.text)
		}
		if !isFieldName(t.text) {
			return decl{}, dp.errorf("invalid field name %q", t.text)
		}
		if colon := dp.next(); colon.kind != tokColon {
			return decl{}, dp.errorf("expected ':' after field %q", t.text)
		}
		typ, err := dp.typeExpr()
		if err != nil {
			return decl{}, err
		}
		for _, f := range d.fields {
			if f.name == t.text {
				return decl{}, dp.errorf("duplicate field %q", t.text)
			}
		}
		d.fields = append(d.fields, rawField{name: t.text, typ: typ})
	}
	dp.next()

	result, err := dp.typeExpr()
	if err != nil {
		return decl{}, err
	}
	if !function && (len(result.args) > 0 || !isTypeName(result.name)) {
		return decl{}, dp.errorf("result %q must be a type name starting with an upper-case letter", dp.format(result))
	}
	if t := dp.peek(); t.kind != tokEOF {
		return decl{}, dp.errorf("unexpected %q after result type", t.text)
	}
	d.result = result

	d.signature = signature(d.name, d.fields, d.result)
	if !d.explicitID {
		d.id = ComputeID(d.signature)
	}
	return d, nil
}

func (dp *declParser) typeExpr() (rawRef, error) {
	t := dp.next()
	if t.kind != tokWord || !isReferenceName(t.text) {
		return rawRef{}, dp.errorf("invalid type %q", t.text)
	}
	ref := rawRef{name: t.text}
	if dp.peek().kind != tokLAngle {
		return ref, nil
	}
	dp.next()
	for {
		arg, err := dp.typeExpr()
		if err != nil {
			return rawRef{}, err
		}
		ref.args = append(ref.args, arg)
		switch sep := dp.next(); sep.kind {
		case tokRAngle:
			return ref, nil
		case tokComma:
		default:
			return rawRef{}, dp.errorf("expected '>' to close type arguments of %q", t.text)
		}
	}
}

func (dp *declParser) format(ref rawRef) string {
	var b strings.Builder
	b.WriteString(ref.name)
	if len(ref.args) > 0 {
		b.WriteByte('<')
		for i, arg := range ref.args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(dp.format(arg))
		}
		b.WriteByte('>')
	}
	return b.String()
}

type docTags struct {
	keys   []string
	values map[string]string
}

func (t docTags) get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// parseDocTags splits "@description A user @id Identifier" into tags.
func parseDocTags(text string) docTags {
	tags := docTags{values: make(map[string]string)}
	for _, part := range strings.Split(" "+text, " @")[1:] {
		part = strings.TrimSpace(part)
		key, value, _ := strings.Cut(part, " ")
		if key == "" {
			continue
		}
		if _, seen := tags.values[key]; !seen {
			tags.keys = append(tags.keys, key)
		}
		tags.values[key] = strings.TrimSpace(value)
	}
	return tags
}
