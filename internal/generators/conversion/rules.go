package conversion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/simonhull/tlgen/internal/generators/naming"
)

// Rule converts one external-only scalar. The local side is a TypeDef whose
// constructors encode the scalar's values.
type Rule struct {
	LocalType    string   // TypeDef standing in for the scalar locally
	Constructors []string // local constructors the rule relies on
	ExternalType string   // Go type in the external package
	// To and From render conversion expressions; to/from are the aliases of
	// the builtinIncludeTo / builtinIncludeFrom packages.
	To   func(n *naming.Namer, to, expr string) string
	From func(n *naming.Namer, from, expr string) string
}

// Rules holds the hand-specified rule of every supported builtinAdditional.
var Rules = map[string]Rule{
	// bool is Bool locally: boolTrue or boolFalse.
	"bool": {
		LocalType:    "Bool",
		Constructors: []string{"boolTrue", "boolFalse"},
		ExternalType: "bool",
		To: func(_ *naming.Namer, to, expr string) string {
			return fmt.Sprintf("%s.ToBool(%s)", to, expr)
		},
		From: func(n *naming.Namer, from, expr string) string {
			return fmt.Sprintf("%s.FromBool(%s, %s(), %s())", from, expr, n.Construct("boolTrue"), n.Construct("boolFalse"))
		},
	},
}

// LookupRule finds the rule of a builtinAdditional name.
func LookupRule(name string) (Rule, error) {
	r, ok := Rules[name]
	if !ok {
		known := make([]string, 0, len(Rules))
		for k := range Rules {
			known = append(known, k)
		}
		sort.Strings(known)
		return Rule{}, fmt.Errorf("builtinAdditional %q has no conversion rule (known: %s)", name, strings.Join(known, ", "))
	}
	return r, nil
}
