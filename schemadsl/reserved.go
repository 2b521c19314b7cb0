package schemadsl

import (
	"fmt"
	"strings"
	"unicode"
)

// ReservedWords cannot be used as node, relationship or property names.
var ReservedWords = map[string]bool{
	// Declarations
	"define": true, "node": true, "relationship": true, "adjacency": true,
	"class": true, "owns": true,
	// Literals
	"true": true, "false": true,
	// Directions
	"in": true, "out": true, "both": true,
}

// IsReservedWord reports whether name is a schema keyword. The check is
// case-insensitive.
func IsReservedWord(name string) bool {
	return ReservedWords[strings.ToLower(name)]
}

// ValidateIdentifier checks that name is usable as a declaration name in the
// given context ("node", "relationship", "property" or "class").
func ValidateIdentifier(name, context string) error {
	if name == "" {
		return &InvalidIdentifierError{Name: name, Context: context, Reason: "empty"}
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return &InvalidIdentifierError{
					Name:    name,
					Context: context,
					Reason:  fmt.Sprintf("must start with a letter or underscore, got %q", r),
				}
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return &InvalidIdentifierError{
				Name:    name,
				Context: context,
				Reason:  fmt.Sprintf("invalid character %q at position %d", r, i),
			}
		}
	}
	if IsReservedWord(name) {
		return &InvalidIdentifierError{Name: name, Context: context, Reason: "reserved word"}
	}
	return nil
}

// InvalidIdentifierError is returned when a name is malformed or reserved.
type InvalidIdentifierError struct {
	Name    string
	Context string
	Reason  string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("schemadsl: invalid %s name %q: %s", e.Context, e.Name, e.Reason)
}
