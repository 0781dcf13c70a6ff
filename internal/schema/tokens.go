package schema

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokHash
	tokColon
	tokEquals
	tokLAngle
	tokRAngle
	tokComma
	tokLBrace
	tokRBrace
	tokOther
)

type token struct {
	kind tokenKind
	text string
}

var punct = map[rune]tokenKind{
	'#': tokHash,
	':': tokColon,
	'=': tokEquals,
	'<': tokLAngle,
	'>': tokRAngle,
	',': tokComma,
	'{': tokLBrace,
	'}': tokRBrace,
	'[': tokOther,
	']': tokOther,
	'?': tokOther,
	'!': tokOther,
	'%': tokOther,
}

func tokenize(text string) ([]token, error) {
	var toks []token
	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isWordRune(r):
			start := i
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
			toks = append(toks, token{kind: tokWord, text: string(runes[start:i])})
		default:
			kind, ok := punct[r]
			if !ok {
				return nil, fmt.Errorf("unexpected character %q", r)
			}
			toks = append(toks, token{kind: kind, text: string(r)})
			i++
		}
	}
	return toks, nil
}

func isWordRune(r rune) bool {
	return r == '_' || r == '.' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// isQualified accepts "name" and "namespace.name" where every part is an
// identifier and the last part satisfies first.
func isQualified(s string, first func(byte) bool) bool {
	ns, local := SplitName(s)
	if strings.Contains(s, ".") {
		for _, part := range strings.Split(ns, ".") {
			if !isIdent(part) {
				return false
			}
		}
	}
	return isIdent(local) && first(local[0])
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isConstructorName(s string) bool { return isQualified(s, isLower) }

func isTypeName(s string) bool { return isQualified(s, isUpper) }

func isReferenceName(s string) bool {
	return isQualified(s, func(byte) bool { return true })
}

func isFieldName(s string) bool {
	return isIdent(s) && !isUpper(s[0])
}
