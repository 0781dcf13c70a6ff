package generator

import (
	"fmt"

	"golang.org/x/tools/imports"
)

// FormatSource gofmts src and drops imports it does not use. Emitters always
// write every import they might need, so no package lookup happens and the
// result does not depend on the environment.
func FormatSource(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", filename, err)
	}
	return out, nil
}
