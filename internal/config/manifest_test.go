package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
namespaces:
  global: Tdb
prefixes:
  type: TL
  data: TLD
  id: ID
  construct: Make
builtin: [int32, string]
builtinInclude: github.com/simonhull/tlgen/pkg/tl
`

func TestParseMinimalAppliesDefaults(t *testing.T) {
	m, err := ParseBytes([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, []string{"scheme/*.tl"}, m.Schemas)
	assert.Equal(t, ".", m.Output)
	assert.Equal(t, "uint32", m.Types.TypeID)
	assert.Equal(t, []string{"vector"}, m.BuiltinTemplates)
	assert.Nil(t, m.Conversion)
}

func TestTdbManifest(t *testing.T) {
	m := TdbManifest()

	assert.Equal(t, "Tdb", m.Namespaces["global"])
	assert.Equal(t, Prefixes{Type: "TL", Data: "TLD", ID: "ID", Construct: "Make"}, m.Prefixes)
	assert.Contains(t, m.Skip, "vector {t:Type} # [ t ] = Vector t;")
	assert.ElementsMatch(t, []string{"double", "string", "int32", "int53", "int64", "bytes"}, m.Builtin)
	require.NotNil(t, m.Conversion)
	assert.Equal(t, []string{"bool"}, m.Conversion.BuiltinAdditional)
	assert.Equal(t, "tdapi", m.Conversion.Namespace)

	opts := m.NamingOptions()
	assert.Equal(t, "TLD", opts.Prefixes.Data)
	assert.Equal(t, m.Skip, m.SchemaOptions().Skip)
	assert.Equal(t, m.Builtin, m.RegistryOptions().Builtins)
}

func TestNamespacedNullablePaths(t *testing.T) {
	m, err := ParseBytes([]byte(minimal + `
nullable:
  - auth.codeInfo.length
  - auth.CodeInfo.next_type
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"auth.codeInfo.length", "auth.CodeInfo.next_type"}, m.Nullable)
}

func TestUnknownKeysAreRejected(t *testing.T) {
	_, err := ParseBytes([]byte(minimal + "prefix:\n  type: TL\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field prefix not found")
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
		line  int
		msg   string
	}{
		{
			name: "missing global namespace",
			yaml: `
prefixes: {type: TL, data: TLD, id: ID, construct: Make}
builtinInclude: x/tl
`,
			field: "namespaces.global",
			msg:   "global namespace is required",
		},
		{
			name: "unexported prefix",
			yaml: `
namespaces: {global: Tdb}
prefixes:
  type: tl
  data: TLD
  id: ID
  construct: Make
builtinInclude: x/tl
`,
			field: "prefixes.type",
			line:  4,
			msg:   "exported Go identifier",
		},
		{
			name: "unsupported typeId",
			yaml: minimal + `
types:
  typeId: uint64
`,
			field: "types.typeId",
			line:  13,
			msg:   "unsupported typeId",
		},
		{
			name: "unknown builtin",
			yaml: `
namespaces: {global: Tdb}
prefixes: {type: TL, data: TLD, id: ID, construct: Make}
builtin:
  - int32
  - float
builtinInclude: x/tl
`,
			field: "builtin[1]",
			line:  6,
			msg:   `unsupported builtin "float"`,
		},
		{
			name: "bad nullable path",
			yaml: minimal + `
nullable:
  - userName
`,
			field: "nullable[0]",
			line:  13,
			msg:   "not a field path",
		},
		{
			name: "empty owner in nullable path",
			yaml: minimal + `
nullable:
  - .name
`,
			field: "nullable[0]",
			line:  13,
			msg:   "not a field path",
		},
		{
			name: "empty namespace part in nullable path",
			yaml: minimal + `
nullable:
  - auth..code
`,
			field: "nullable[0]",
			line:  13,
			msg:   "not a field path",
		},
		{
			name: "empty field in nullable path",
			yaml: minimal + `
nullable:
  - User.
`,
			field: "nullable[0]",
			line:  13,
			msg:   "not a field path",
		},
		{
			name: "duplicate section",
			yaml: minimal + `
sections:
  - name: users
    prefixes: [user]
  - name: Users
    prefixes: [profile]
`,
			field: "sections[1].name",
			line:  15,
			msg:   "duplicate section",
		},
		{
			name: "unknown builtinAdditional",
			yaml: minimal + `
conversion:
  include: github.com/gotd/td/tdapi
  namespace: tdapi
  builtinAdditional: [float]
  builtinIncludeFrom: x/conv
  builtinIncludeTo: x/conv
`,
			field: "conversion.builtinAdditional[0]",
			line:  15,
			msg:   "no conversion rule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.yaml))
			require.Error(t, err)

			var errs ValidationErrors
			require.True(t, errors.As(err, &errs), "got %T: %v", err, err)

			var found *ValidationError
			for i := range errs {
				if errs[i].Field == tt.field {
					found = &errs[i]
				}
			}
			require.NotNil(t, found, "no error for %s in %v", tt.field, err)
			assert.Contains(t, found.Message, tt.msg)
			if tt.line > 0 {
				assert.Equal(t, tt.line, found.Line)
			}
		})
	}
}

func TestValidationCollectsEveryError(t *testing.T) {
	_, err := ParseBytes([]byte("namespaces: {}\n"))
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.GreaterOrEqual(t, len(errs), 6)
	assert.Contains(t, err.Error(), "validation errors:")
}

func TestValidationErrorFormatting(t *testing.T) {
	e := &ValidationError{Field: "types.typeId", Message: "bad", Suggestion: "use uint32", Line: 4}
	assert.Equal(t, "validation error at types.typeId (line 4): bad. Suggestion: use uint32", e.Error())

	e = &ValidationError{Field: "builtinInclude", Message: "required"}
	assert.Equal(t, "validation error at builtinInclude: required", e.Error())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, m.Dir)
	assert.Equal(t, filepath.Join(dir, "scheme/*.tl"), m.Resolve(m.Schemas[0]))
	assert.Equal(t, "/abs/out", m.Resolve("/abs/out"))

	_, err = Load(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
