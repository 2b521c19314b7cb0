package schemadsl

import (
	"strings"
	"unicode"
)

// splitName splits a string on hyphens and underscores.
func splitName(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
}

// commonAcronyms are kept fully uppercased in class names.
var commonAcronyms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uuid": "UUID",
	"api":  "API",
	"http": "HTTP",
}

// ToPascalCase transforms a kebab-case or snake_case name into the PascalCase
// class identifier used when a declaration has no class clause.
func ToPascalCase(name string) string {
	var b strings.Builder
	for _, part := range splitName(name) {
		lower := strings.ToLower(part)
		if acronym, ok := commonAcronyms[lower]; ok {
			b.WriteString(acronym)
			continue
		}
		runes := []rune(lower)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}
