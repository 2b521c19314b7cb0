package schemadoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// draft is the dialect declared by exported schemas.
const draft = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema builds a JSON Schema for objects of one class. Not-null
// properties are required; nullable ones also accept null. Properties are
// keyed by property name and unknown keys are rejected.
func JSONSchema(d *Document, class string) (*jsonschema.Schema, error) {
	m, ok := d.Model(class)
	if !ok {
		return nil, fmt.Errorf("schemadoc: class %q is not in the document", class)
	}

	s := &jsonschema.Schema{
		Schema:      draft,
		Title:       m.Class,
		Description: m.Kind + " " + m.Name,
		Type:        "object",
		Properties:  make(map[string]*jsonschema.Schema, len(m.Properties)),
		// false schema
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
	for _, p := range m.Properties {
		ps, err := propertySchema(p)
		if err != nil {
			return nil, fmt.Errorf("schemadoc: %s.%s: %w", m.Class, p.Name, err)
		}
		s.Properties[p.Name] = ps
		if !p.Nullable {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s, nil
}

func propertySchema(p PropertyDoc) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{}
	base := ""
	switch p.Type {
	case "string":
		base = "string"
		s.Pattern = p.Regex
		if p.MaxLen > 0 {
			n := p.MaxLen
			s.MaxLength = &n
		}
		for _, v := range p.Values {
			s.Enum = append(s.Enum, v)
		}
	case "integer", "double":
		base = "integer"
		if p.Type == "double" {
			base = "number"
		}
		if p.Range != "" {
			lo, hi, _ := strings.Cut(p.Range, "..")
			var err error
			if s.Minimum, err = bound(lo); err != nil {
				return nil, err
			}
			if s.Maximum, err = bound(hi); err != nil {
				return nil, err
			}
		}
	case "boolean":
		base = "boolean"
	case "datetime":
		base, s.Format = "string", "date-time"
	case "uuid":
		base, s.Format = "string", "uuid"
	case "url":
		base, s.Format = "string", "uri"
	default:
		return nil, fmt.Errorf("no JSON Schema mapping for type %q", p.Type)
	}

	if p.Nullable {
		s.Types = []string{base, "null"}
		if len(s.Enum) > 0 {
			s.Enum = append(s.Enum, nil)
		}
	} else {
		s.Type = base
	}
	return s, nil
}

func bound(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid range bound %q: %w", s, err)
	}
	return &v, nil
}
