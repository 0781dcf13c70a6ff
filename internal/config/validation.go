package config

import (
	"fmt"
	"strings"
)

// ValidationError is one manifest problem, located by key path and line.
type ValidationError struct {
	Field      string // Key path (e.g., "conversion.namespace", "sections[1].name")
	Message    string
	Suggestion string // optional
	Line       int    // 0 when the key is absent from the file
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation error at ")
	b.WriteString(e.Field)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Suggestion != "" {
		b.WriteString(". Suggestion: ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

// ValidationErrors collects every problem found in one manifest.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return "validation errors"
	case 1:
		return e[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "found %d validation errors:\n", len(e))
	for i := range e {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, e[i].Error())
	}
	return b.String()
}
