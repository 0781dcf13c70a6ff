package schema

import "fmt"

const maxExcerpt = 80

// SyntaxError reports a malformed declaration.
type SyntaxError struct {
	File    string
	Line    int
	Excerpt string
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: syntax error: %s\n\t%s", e.File, e.Line, e.Message, e.Excerpt)
}

func syntaxErrorf(pos Position, text, format string, args ...any) error {
	excerpt := text
	if len(excerpt) > maxExcerpt {
		excerpt = excerpt[:maxExcerpt-3] + "..."
	}
	return &SyntaxError{
		File:    pos.File,
		Line:    pos.Line,
		Excerpt: excerpt,
		Message: fmt.Sprintf(format, args...),
	}
}
