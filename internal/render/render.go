// Package render compiles template strings against a scaffolding context.
//
// Each Renderer carries its own helper registry, so helpers loaded for one
// run never leak into another renderer in the same process.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// escapeSentinel stands in for a back-slash-escaped opening delimiter while
// the template is parsed, so `\{{` survives rendering as literal text.
const escapeSentinel = "\x00wren-escape\x00"

// Renderer handles template parsing and rendering with caching.
type Renderer struct {
	funcs template.FuncMap
	cache map[string]*template.Template
	mu    sync.RWMutex // protects funcs and cache for concurrent renders
}

// New creates a renderer with the built-in helper functions.
func New() *Renderer {
	return &Renderer{
		funcs: defaultFuncMap(),
		cache: make(map[string]*template.Template),
	}
}

// Register adds a named helper to this renderer's registry. fn must be a
// function usable in a text/template FuncMap. Registering a helper
// invalidates the template cache, since parsed templates bind the registry
// they were parsed with.
func (r *Renderer) Register(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("helper name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("helper %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
	r.cache = make(map[string]*template.Template)
	return nil
}

// Render compiles templateStr and executes it against data. The name is used
// in error messages. A back-slash immediately before `{{` renders as the
// literal text `\{{` instead of starting a substitution.
func (r *Renderer) Render(name, templateStr string, data any) (string, error) {
	escaped := strings.ReplaceAll(templateStr, `\{{`, escapeSentinel)

	// Cache on template text, not name: dependency overrides can give two
	// renders of the same logical name different template bodies.
	cacheKey := "string:" + escaped

	r.mu.RLock()
	tmpl, ok := r.cache[cacheKey]
	r.mu.RUnlock()

	if !ok {
		var err error
		r.mu.RLock()
		tmpl, err = template.New(name).Funcs(r.funcs).Parse(escaped)
		r.mu.RUnlock()
		if err != nil {
			return "", fmt.Errorf("failed to parse template %q: %w", name, err)
		}

		r.mu.Lock()
		r.cache[cacheKey] = tmpl
		r.mu.Unlock()
	}

	out, err := executeTemplate(tmpl, data)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(out, escapeSentinel, `\{{`), nil
}

// ClearCache clears the template cache (useful for testing).
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func executeTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// defaultFuncMap returns the built-in template helpers.
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		// Case conversion
		"camelCase":  CamelCase,  // my-module_name → myModuleName
		"pascalCase": PascalCase, // my-module_name → MyModuleName
		"snakeCase":  SnakeCase,  // UserName → user_name

		// String manipulation
		"plural": Pluralize, // user → users
		"quote":  Quote,     // test → "test"
		"upper":  strings.ToUpper,
		"lower":  strings.ToLower,
		"trim":   strings.TrimSpace,

		// Deferred substitution: emits raw {{value}} syntax for a later
		// rendering pass over the generated file.
		"through": Through,
	}
}
