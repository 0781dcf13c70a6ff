package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/tlgen/internal/generators/conversion"
	"github.com/simonhull/tlgen/internal/generators/naming"
	"github.com/simonhull/tlgen/internal/registry"
	"github.com/simonhull/tlgen/internal/schema"
)

// DefaultFile is the manifest name looked up in the working directory.
const DefaultFile = "tlgen.yml"

// Manifest is the decoded tlgen.yml.
type Manifest struct {
	Schemas          []string          `yaml:"schemas"`
	Output           string            `yaml:"output"`
	Namespaces       map[string]string `yaml:"namespaces"`
	Prefixes         Prefixes          `yaml:"prefixes"`
	Types            Types             `yaml:"types"`
	Sections         []Section         `yaml:"sections"`
	Skip             []string          `yaml:"skip"`
	Builtin          []string          `yaml:"builtin"`
	BuiltinTemplates []string          `yaml:"builtinTemplates"`
	BuiltinInclude   string            `yaml:"builtinInclude"`
	Nullable         []string          `yaml:"nullable"`
	Conversion       *Conversion       `yaml:"conversion"`

	// Dir is the directory relative paths are resolved against.
	Dir   string         `yaml:"-"`
	lines map[string]int // key path → YAML line
}

// Prefixes are prepended to generated identifiers.
type Prefixes struct {
	Type      string `yaml:"type"`
	Data      string `yaml:"data"`
	ID        string `yaml:"id"`
	Construct string `yaml:"construct"`
}

// Types configures representation details.
type Types struct {
	TypeID string `yaml:"typeId"`
}

// Section groups TypeDefs whose names start with one of the prefixes into
// their own output unit.
type Section struct {
	Name     string   `yaml:"name"`
	Prefixes []string `yaml:"prefixes"`
}

// Conversion describes the external API the generated types convert to.
type Conversion struct {
	Include            string            `yaml:"include"`
	Namespace          string            `yaml:"namespace"`
	BuiltinAdditional  []string          `yaml:"builtinAdditional"`
	BuiltinIncludeFrom string            `yaml:"builtinIncludeFrom"`
	BuiltinIncludeTo   string            `yaml:"builtinIncludeTo"`
	Schemas            []string          `yaml:"schemas"`
	Rename             map[string]string `yaml:"rename"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("manifest %s not found. Are you in a tlgen project directory?", path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest directory: %w", err)
	}
	m.Dir = abs
	return m, nil
}

// ParseBytes decodes and validates a manifest. Unknown keys are errors.
func ParseBytes(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	m.lines = make(map[string]int)
	collectLines(&root, "", m.lines)

	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// collectLines records the line of every mapping key and sequence item.
func collectLines(n *yaml.Node, path string, lines map[string]int) {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			collectLines(c, path, lines)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if path != "" {
				key = path + "." + key
			}
			lines[key] = n.Content[i].Line
			collectLines(n.Content[i+1], key, lines)
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			key := fmt.Sprintf("%s[%d]", path, i)
			lines[key] = c.Line
			collectLines(c, key, lines)
		}
	}
}

func (m *Manifest) applyDefaults() {
	if len(m.Schemas) == 0 {
		m.Schemas = []string{"scheme/*.tl"}
	}
	if m.Output == "" {
		m.Output = "."
	}
	if m.Types.TypeID == "" {
		m.Types.TypeID = "uint32"
	}
	if len(m.BuiltinTemplates) == 0 {
		m.BuiltinTemplates = slices.Clone(registry.Templates)
	}
}

// Validate checks the decoded manifest and reports every problem at once.
func (m *Manifest) Validate() error {
	var errs ValidationErrors
	add := func(field, msg, suggestion string) {
		errs = append(errs, ValidationError{
			Field:      field,
			Message:    msg,
			Suggestion: suggestion,
			Line:       m.line(field),
		})
	}

	global := m.Namespaces[naming.GlobalNamespace]
	if global == "" {
		add("namespaces.global", "the global namespace is required", "set it to the generated package name, e.g. Tdb")
	} else if !token.IsIdentifier(strings.ToLower(global)) {
		add("namespaces.global", fmt.Sprintf("%q does not make a valid package name", global), "")
	}
	for key, ns := range m.Namespaces {
		if key != naming.GlobalNamespace && !token.IsIdentifier(ns) {
			add("namespaces."+key, fmt.Sprintf("%q is not a valid identifier prefix", ns), "")
		}
	}

	for _, p := range []struct{ key, value string }{
		{"type", m.Prefixes.Type},
		{"data", m.Prefixes.Data},
		{"id", m.Prefixes.ID},
		{"construct", m.Prefixes.Construct},
	} {
		field := "prefixes." + p.key
		switch {
		case p.value == "":
			add(field, "prefix is required", "")
		case !token.IsIdentifier(p.value) || !token.IsExported(p.value):
			add(field, fmt.Sprintf("%q must be an exported Go identifier", p.value), "start it with an upper-case letter")
		}
	}
	if m.Prefixes.Type != "" && m.Prefixes.Type == m.Prefixes.Data {
		add("prefixes.data", "data prefix must differ from the type prefix", "use e.g. TL and TLD")
	}

	if m.Types.TypeID != "uint32" {
		add("types.typeId", fmt.Sprintf("unsupported typeId representation %q", m.Types.TypeID), "use uint32")
	}

	seen := make(map[string]bool)
	for i, s := range m.Sections {
		field := fmt.Sprintf("sections[%d]", i)
		switch {
		case s.Name == "":
			add(field+".name", "section name is required", "")
		case !token.IsIdentifier(strings.ToLower(s.Name)):
			add(field+".name", fmt.Sprintf("%q cannot be used in a file name", s.Name), "use letters, digits and underscores")
		case seen[strings.ToLower(s.Name)]:
			add(field+".name", fmt.Sprintf("duplicate section %q", s.Name), "")
		}
		seen[strings.ToLower(s.Name)] = true
		if len(s.Prefixes) == 0 && s.Name != naming.FunctionsSection {
			add(field+".prefixes", "section needs at least one prefix", "")
		}
	}

	for i, b := range m.Builtin {
		if _, ok := registry.LookupBuiltin(b); !ok {
			add(fmt.Sprintf("builtin[%d]", i), fmt.Sprintf("unsupported builtin %q", b),
				"supported: "+strings.Join(registry.BuiltinNames(), ", "))
		}
	}
	for i, b := range m.BuiltinTemplates {
		if !slices.Contains(registry.Templates, b) {
			add(fmt.Sprintf("builtinTemplates[%d]", i), fmt.Sprintf("unsupported builtin template %q", b),
				"supported: "+strings.Join(registry.Templates, ", "))
		}
	}
	if m.BuiltinInclude == "" {
		add("builtinInclude", "import path of the runtime codec is required", "github.com/simonhull/tlgen/pkg/tl")
	}

	for i, path := range m.Nullable {
		if !isFieldPath(path) {
			add(fmt.Sprintf("nullable[%d]", i), fmt.Sprintf("%q is not a field path", path), "use Type.field or constructor.field")
		}
	}

	if c := m.Conversion; c != nil {
		if c.Include == "" {
			add("conversion.include", "import path of the external API package is required", "")
		}
		if !token.IsIdentifier(c.Namespace) {
			add("conversion.namespace", fmt.Sprintf("%q is not a valid package name", c.Namespace), "")
		}
		for i, name := range c.BuiltinAdditional {
			if _, err := conversion.LookupRule(name); err != nil {
				add(fmt.Sprintf("conversion.builtinAdditional[%d]", i), err.Error(), "")
			}
		}
		if c.BuiltinIncludeFrom == "" {
			add("conversion.builtinIncludeFrom", "import path of the conversion helpers is required", "github.com/simonhull/tlgen/pkg/tlconv")
		}
		if c.BuiltinIncludeTo == "" {
			add("conversion.builtinIncludeTo", "import path of the conversion helpers is required", "github.com/simonhull/tlgen/pkg/tlconv")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (m *Manifest) line(field string) int {
	for field != "" {
		if l, ok := m.lines[field]; ok {
			return l
		}
		i := strings.LastIndexAny(field, ".[")
		if i < 0 {
			break
		}
		field = field[:i]
	}
	return 0
}

// SchemaOptions returns the parser options.
func (m *Manifest) SchemaOptions() schema.Options {
	return schema.Options{
		Skip:      m.Skip,
		Builtins:  m.Builtin,
		Templates: m.BuiltinTemplates,
	}
}

// RegistryOptions returns the resolver options.
func (m *Manifest) RegistryOptions() registry.Options {
	return registry.Options{
		Builtins:  m.Builtin,
		Templates: m.BuiltinTemplates,
		Nullable:  m.Nullable,
	}
}

// NamingOptions returns the identifier and file naming options.
func (m *Manifest) NamingOptions() naming.Options {
	opts := naming.Options{
		Namespaces: m.Namespaces,
		Prefixes: naming.Prefixes{
			Type:      m.Prefixes.Type,
			Data:      m.Prefixes.Data,
			ID:        m.Prefixes.ID,
			Construct: m.Prefixes.Construct,
		},
	}
	for _, s := range m.Sections {
		opts.Sections = append(opts.Sections, naming.Section{Name: s.Name, Prefixes: s.Prefixes})
	}
	return opts
}

// Resolve makes a manifest-relative path absolute.
func (m *Manifest) Resolve(path string) string {
	if filepath.IsAbs(path) || m.Dir == "" {
		return path
	}
	return filepath.Join(m.Dir, path)
}

// isFieldPath accepts owner.field where the owner may carry a namespace
// (auth.codeInfo.length). Empty segments are rejected.
func isFieldPath(path string) bool {
	parts := strings.Split(path, ".")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
