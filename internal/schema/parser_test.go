package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tdbOptions = Options{
	Skip: []string{
		"double ? = Double;",
		"string ? = String;",
		"int32 = Int32;",
		"int53 = Int53;",
		"int64 = Int64;",
		"bytes = Bytes;",
		"vector {t:Type} # [ t ] = Vector t;",
	},
	Builtins:  []string{"double", "string", "int32", "int53", "int64", "bytes"},
	Templates: []string{"vector"},
}

func parseText(t *testing.T, text string) *Schema {
	t.Helper()
	s, err := Parse([]Source{{Name: "test.tl", Text: []byte(text)}}, tdbOptions)
	require.NoError(t, err)
	return s
}

func TestParseConstructors(t *testing.T) {
	s := parseText(t, `
double ? = Double;
int32 = Int32;
vector {t:Type} # [ t ] = Vector t;

user id:int53 name:string = User;
userBot id:int53 = User;
list items:vector<int32> = List;
`)

	require.Len(t, s.TypeDefs, 2)
	require.Len(t, s.Constructors, 3)
	assert.Len(t, s.Skipped, 3)

	user := s.TypeDefs[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, []int{0, 1}, user.Constructors)

	c := s.Constructors[0]
	assert.Equal(t, "user", c.Name)
	assert.Equal(t, 0, c.TypeDef)
	require.Len(t, c.Fields, 2)
	assert.Equal(t, "id", c.Fields[0].Name)
	assert.Equal(t, "int53", s.FormatRef(c.Fields[0].Type))
	assert.Equal(t, "user id:int53 name:string = User", c.Signature)
	assert.Equal(t, ComputeID(c.Signature), c.ID)

	list := s.Constructors[2]
	assert.Equal(t, "vector<int32>", s.FormatRef(list.Fields[0].Type))
	assert.Equal(t, "list items:vector int32 = List", list.Signature)
}

func TestComputeIDMatchesTL(t *testing.T) {
	tests := []struct {
		signature string
		want      uint32
	}{
		{"boolTrue = Bool", 0x997275b5},
		{"boolFalse = Bool", 0xbc799737},
		{"null = Null", 0x56730bcc},
		{"error code:int32 message:string = Error", 0x9bdd8f1a},
		{"ok = Ok", 0xd4edbe69},
	}

	for _, tt := range tests {
		t.Run(tt.signature, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeID(tt.signature))
		})
	}
}

func TestExplicitID(t *testing.T) {
	s := parseText(t, "ok#d4edbe69 = Ok;")
	assert.Equal(t, uint32(0xd4edbe69), s.Constructors[0].ID)
}

func TestSkipRegistersNames(t *testing.T) {
	s := parseText(t, "int32 = Int32;\nvector {t:Type} # [ t ] = Vector t;\n")

	assert.Empty(t, s.TypeDefs)
	require.Len(t, s.Skipped, 2)
	assert.Equal(t, "int32", s.Skipped[0].Constructor)
	assert.Equal(t, "Int32", s.Skipped[0].Result)
	assert.Equal(t, "vector", s.Skipped[1].Constructor)
	assert.Equal(t, "Vector", s.Skipped[1].Result)

	_, ok := s.Lookup("Int32")
	assert.True(t, ok)
}

func TestSkipMatchIgnoresSpacing(t *testing.T) {
	s := parseText(t, "int32   =  Int32 ;")
	assert.Len(t, s.Skipped, 1)
}

func TestFunctions(t *testing.T) {
	s := parseText(t, `
user id:int53 = User;
---functions---
getUser user_id:int53 = User;
getUsers ids:vector<int53> = Vector<User>;
---types---
ok = Ok;
`)

	require.Len(t, s.Functions, 2)
	assert.True(t, s.Functions[0].Function)
	assert.Equal(t, NoTypeDef, s.Functions[0].TypeDef)
	assert.Equal(t, "Vector<User>", s.FormatRef(s.Functions[1].Result))
	require.Len(t, s.TypeDefs, 2)
	assert.Equal(t, "Ok", s.TypeDefs[1].Name)
}

func TestDocComments(t *testing.T) {
	s := parseText(t, `
//@class AuthorizationState @description Represents the current authorization state

//@description Represents a user @id User identifier
//-which is unique @name Display name
user id:int53 name:string = User;
authorizationStateReady = AuthorizationState;
`)

	user := s.Constructors[0]
	assert.Equal(t, "Represents a user", user.Doc)
	assert.Equal(t, "User identifier which is unique", user.Fields[0].Doc)
	assert.Equal(t, "Display name", user.Fields[1].Doc)

	state, ok := s.TypeDefByName("AuthorizationState")
	require.True(t, ok)
	assert.Equal(t, "Represents the current authorization state", state.Doc)
}

func TestNamespaces(t *testing.T) {
	s := parseText(t, "auth.sentCode phone:string = auth.SentCode;\nuser id:int53 = User;")

	require.Len(t, s.Namespaces, 2)
	assert.Equal(t, "", s.Namespaces[0].Name)
	assert.Equal(t, "auth", s.Namespaces[1].Name)

	ns, ok := s.Namespace("auth")
	require.True(t, ok)
	idx, ok := ns.Lookup("auth.SentCode")
	require.True(t, ok)
	assert.Equal(t, "auth", s.TypeDefs[idx].Namespace)
	assert.Equal(t, "auth", s.Constructors[0].Namespace)
}

func TestMultiLineDeclaration(t *testing.T) {
	s := parseText(t, "user id:int53\n  name:string = User;")
	require.Len(t, s.Constructors, 1)
	assert.Equal(t, 1, s.Constructors[0].Pos.Line)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		line    int
		message string
	}{
		{"missing semicolon", "user id:int53 = User", 1, "missing ';'"},
		{"missing equals", "user id:int53;", 1, "missing '='"},
		{"bad constructor name", "User id:int53 = User;", 1, "invalid constructor name"},
		{"lower-case result", "\nuser id:int53 = user;", 2, "must be a type name"},
		{"missing colon", "user id int53 = User;", 1, "expected ':'"},
		{"generic declaration", "box {t:Type} value:t = Box t;", 1, "type parameters"},
		{"conditional field", "user flags:# name:flags.0?string = User;", 1, "invalid type"},
		{"unclosed template", "list items:vector<int32 = List;", 1, "expected '>'"},
		{"unknown section", "---weird---", 1, "unknown section"},
		{"duplicate field", "user id:int32 id:int32 = User;", 1, "duplicate field"},
		{"bad explicit id", "user#xyz = User;", 1, "invalid constructor id"},
		{"unexpected character", "user id:int32 = User$;", 1, "unexpected character"},
		{"empty namespace", ".a = A;", 1, "invalid constructor name"},
		{"empty namespace part", "auth..code = auth.Code;", 1, "invalid constructor name"},
		{"empty namespace in field type", "a b:.B = A;", 1, "invalid type"},
		{"empty namespace in result", "a = .A;", 1, "invalid type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]Source{{Name: "bad.tl", Text: []byte(tt.text)}}, tdbOptions)
			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "expected SyntaxError, got %v", err)
			assert.Equal(t, "bad.tl", syntaxErr.File)
			assert.Equal(t, tt.line, syntaxErr.Line)
			assert.Contains(t, syntaxErr.Message, tt.message)
			assert.NotEmpty(t, syntaxErr.Excerpt)
		})
	}
}

func TestMergeOrderIsDeterministic(t *testing.T) {
	a, err := ParseFile(Source{Name: "a.tl", Text: []byte("user id:int53 = User;")}, tdbOptions)
	require.NoError(t, err)
	b, err := ParseFile(Source{Name: "b.tl", Text: []byte("chat id:int53 user:User = Chat;")}, tdbOptions)
	require.NoError(t, err)

	first := Merge([]*File{a, b}, tdbOptions)
	second := Merge([]*File{a, b}, tdbOptions)
	assert.Equal(t, first.TypeDefs[0].Name, second.TypeDefs[0].Name)
	assert.Equal(t, "User", first.TypeDefs[0].Name)
	assert.Equal(t, "Chat", first.TypeDefs[1].Name)
}
