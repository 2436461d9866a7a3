package render

import (
	"fmt"
	"strings"
	"unicode"
)

// CamelCase removes each `-` or `_` that is immediately followed by a letter,
// upper-cases that letter, and lower-cases the first character of the result.
// Separators not followed by a letter are kept as-is.
//
// Examples: my-module_name → myModuleName, UserName → userName
func CamelCase(s string) string {
	if s == "" {
		return ""
	}

	rs := []rune(s)
	out := make([]rune, 0, len(rs))
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if (r == '-' || r == '_') && i+1 < len(rs) && unicode.IsLetter(rs[i+1]) {
			out = append(out, unicode.ToUpper(rs[i+1]))
			i++
			continue
		}
		out = append(out, r)
	}

	out[0] = unicode.ToLower(out[0])
	return string(out)
}

// PascalCase is CamelCase with the first character upper-cased.
//
// Examples: my-module_name → MyModuleName, user → User
func PascalCase(s string) string {
	c := CamelCase(s)
	if c == "" {
		return ""
	}

	rs := []rune(c)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

// SnakeCase converts PascalCase or camelCase to snake_case.
//
// Examples: UserName → user_name, HTTPServer → http_server
func SnakeCase(s string) string {
	if s == "" {
		return ""
	}

	if strings.Contains(s, "_") {
		return strings.ToLower(s)
	}

	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			// Underscore before an uppercase rune when the previous rune is
			// lowercase, or when this starts a new word after an acronym
			if i > 0 {
				prev := rune(s[i-1])
				if unicode.IsLower(prev) {
					result.WriteRune('_')
				} else if i+1 < len(s) && unicode.IsLower(rune(s[i+1])) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Through emits a literal double-delimited token. A template that generates
// another template uses it to write substitution syntax meant for a second
// rendering pass.
//
// Example: {{through "name"}} renders as {{name}}
func Through(value string) string {
	return "{{" + value + "}}"
}

// Quote wraps a string in double quotes.
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}
