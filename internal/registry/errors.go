package registry

import (
	"fmt"
	"strings"

	"github.com/simonhull/tlgen/internal/schema"
)

// UnknownTypeError reports a field whose type matches no declaration, builtin,
// template or skip entry.
type UnknownTypeError struct {
	Field string // constructor.field, or constructor for a function result
	Type  string
	File  string
	Line  int
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s:%d: unknown type %q in %s", e.File, e.Line, e.Type, e.Field)
}

// DuplicateDefinitionError reports two declarations, or two generated
// identifiers, that claim the same name.
type DuplicateDefinitionError struct {
	Kind      string // "constructor", "type", "constructor id", "identifier"
	Name      string
	Namespace string
	First     schema.Position
	Second    schema.Position
}

func (e *DuplicateDefinitionError) Error() string {
	ns := ""
	if e.Namespace != "" {
		ns = fmt.Sprintf(" in namespace %q", e.Namespace)
	}
	return fmt.Sprintf("%s:%d: duplicate %s %q%s (first defined at %s:%d)",
		e.Second.File, e.Second.Line, e.Kind, e.Name, ns, e.First.File, e.First.Line)
}

// InvalidRecursionError reports TypeDefs that can only be built from
// themselves: every constructor embeds, directly or through other types, a
// value of the same set without passing through a vector or nullable field.
type InvalidRecursionError struct {
	Types []string
}

func (e *InvalidRecursionError) Error() string {
	return fmt.Sprintf("types have no finite value (recursion must pass through vector or a nullable field): %s",
		strings.Join(e.Types, ", "))
}

// UnknownFieldPathError reports nullable entries that match no field.
type UnknownFieldPathError struct {
	Paths []string
}

func (e *UnknownFieldPathError) Error() string {
	return fmt.Sprintf("nullable entries name no field: %s", strings.Join(e.Paths, ", "))
}
