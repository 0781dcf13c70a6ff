package generator

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// Renderer handles template parsing and rendering with caching
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with the built-in helpers plus extra.
func NewRenderer(extra template.FuncMap) *Renderer {
	funcs := defaultFuncMap()
	for name, fn := range extra {
		funcs[name] = fn
	}
	return &Renderer{
		funcMap: funcs,
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders a template from a string. The name is used for
// caching and error messages.
func (r *Renderer) RenderString(name, text string, data any) ([]byte, error) {
	tmpl, err := r.load("string:"+name, func() (*template.Template, error) {
		return template.New(name).Funcs(r.funcMap).Parse(text)
	})
	if err != nil {
		return nil, err
	}
	return r.execute(tmpl, data)
}

// RenderFS renders a template from an embedded filesystem. Every other
// *.tmpl file in the same directory is parsed alongside it so templates can
// share {{define}} blocks.
func (r *Renderer) RenderFS(fsys embed.FS, path string, data any) ([]byte, error) {
	tmpl, err := r.load("fs:"+path, func() (*template.Template, error) {
		text, err := fsys.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template from fs '%s': %w", path, err)
		}
		tmpl, err := template.New(path).Funcs(r.funcMap).Parse(string(text))
		if err != nil {
			return nil, err
		}
		dir := path[:strings.LastIndexByte(path, '/')+1]
		partials, err := fsys.ReadDir(strings.TrimSuffix(dir, "/"))
		if err != nil {
			return tmpl, nil
		}
		for _, entry := range partials {
			name := dir + entry.Name()
			if name == path || !strings.HasPrefix(entry.Name(), "_") {
				continue
			}
			text, err := fsys.ReadFile(name)
			if err != nil {
				return nil, err
			}
			if _, err := tmpl.New(name).Parse(string(text)); err != nil {
				return nil, err
			}
		}
		return tmpl, nil
	})
	if err != nil {
		return nil, err
	}
	return r.execute(tmpl, data)
}

func (r *Renderer) load(key string, parse func() (*template.Template, error)) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", key, err)
	}

	r.mu.Lock()
	r.cache[key] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

func (r *Renderer) execute(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"pascalCase": PascalCase, // user_name → UserName
		"camelCase":  CamelCase,  // user_name → userName
		"quote":      Quote,
		"lower":      strings.ToLower,
		"join":       strings.Join,
		"hex":        Hex,     // 1234 → 0x000004d2
		"comment":    Comment, // doc text → // lines
	}
}

// Common acronyms rendered all-caps by PascalCase.
var acronyms = map[string]string{
	"id":   "ID",
	"ids":  "IDs",
	"url":  "URL",
	"uri":  "URI",
	"http": "HTTP",
	"api":  "API",
	"json": "JSON",
	"ip":   "IP",
	"tcp":  "TCP",
	"udp":  "UDP",
	"ttl":  "TTL",
	"db":   "DB",
	"ui":   "UI",
	"os":   "OS",
}

// PascalCase converts snake_case or camelCase to PascalCase.
// Examples: user_name → UserName, userName → UserName, user_id → UserID
func PascalCase(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		b.WriteString(capitalizeWord(part))
	}
	return b.String()
}

// capitalizeWord capitalizes a word with special handling for acronyms
func capitalizeWord(s string) string {
	if acronym, ok := acronyms[strings.ToLower(s)]; ok {
		return acronym
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CamelCase converts snake_case or PascalCase to camelCase.
// Examples: user_name → userName, UserName → userName
func CamelCase(s string) string {
	p := PascalCase(s)
	if p == "" {
		return ""
	}
	runes := []rune(p)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		// Keep the last capital of a leading acronym followed by a word: IDValue → idValue.
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
		i++
	}
	return string(runes)
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Hex renders a constructor id the way TL schemas print it.
func Hex(id uint32) string {
	return fmt.Sprintf("0x%08x", id)
}

// Comment turns free text into Go line comments with the given indent,
// without a trailing newline. Empty text yields nothing.
func Comment(indent, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			lines[i] = indent + "//"
		} else {
			lines[i] = indent + "// " + line
		}
	}
	return strings.Join(lines, "\n")
}
