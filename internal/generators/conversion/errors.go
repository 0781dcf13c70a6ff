package conversion

import "fmt"

// MappingError reports a field, constructor or type that has no usable
// counterpart in the external schema.
type MappingError struct {
	Path   string // Type.field, Type, or constructor
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("conversion mapping for %s: %s", e.Path, e.Reason)
}
