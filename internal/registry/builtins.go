package registry

import (
	"fmt"
	"sort"
)

// Builtin describes how a scalar schema type is represented in generated code.
type Builtin struct {
	Name         string // schema name: "int53"
	GoType       string // "tl.Int53"
	Put          string // Encoder method
	Get          string // Decoder method
	Conv         string // tlconv rule suffix: ToInt53 / FromInt53
	ExternalType string // Go type of the external API counterpart
}

// Builtins contains every scalar the runtime codec supports.
var Builtins = map[string]Builtin{
	"int32": {
		Name:         "int32",
		GoType:       "int32",
		Put:          "PutInt32",
		Get:          "Int32",
		Conv:         "Int32",
		ExternalType: "int32",
	},
	// Encoded as 64 bits, safe only up to 53.
	"int53": {
		Name:         "int53",
		GoType:       "tl.Int53",
		Put:          "PutInt53",
		Get:          "Int53",
		Conv:         "Int53",
		ExternalType: "int64",
	},
	"int64": {
		Name:         "int64",
		GoType:       "int64",
		Put:          "PutInt64",
		Get:          "Int64",
		Conv:         "Int64",
		ExternalType: "int64",
	},
	"double": {
		Name:         "double",
		GoType:       "float64",
		Put:          "PutDouble",
		Get:          "Double",
		Conv:         "Double",
		ExternalType: "float64",
	},
	"string": {
		Name:         "string",
		GoType:       "string",
		Put:          "PutString",
		Get:          "String",
		Conv:         "String",
		ExternalType: "string",
	},
	"bytes": {
		Name:         "bytes",
		GoType:       "[]byte",
		Put:          "PutBytes",
		Get:          "Bytes",
		Conv:         "Bytes",
		ExternalType: "[]byte",
	},
}

// Templates lists the generic types the registry understands.
var Templates = []string{"vector"}

// LookupBuiltin retrieves a builtin by schema name.
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := Builtins[name]
	return b, ok
}

// BuiltinNames returns all supported builtin names, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(Builtins))
	for name := range Builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkBuiltins(builtins, templates []string) error {
	for _, name := range builtins {
		if _, ok := Builtins[name]; !ok {
			return fmt.Errorf("unsupported builtin %q (supported: %v)", name, BuiltinNames())
		}
	}
	for _, name := range templates {
		if name != "vector" {
			return fmt.Errorf("unsupported builtin template %q (supported: %v)", name, Templates)
		}
	}
	return nil
}
