package schemadsl

import (
	"fmt"

	"github.com/CaliLuke/go-graphschema/blueprint"
	"github.com/CaliLuke/go-graphschema/types"
)

// Schema is a loaded schema: every declared model bound into MetaData, plus
// the declared adjacencies in source order.
type Schema struct {
	MetaData    *blueprint.MetaData
	Adjacencies []*blueprint.Adjacency
}

// TypeResolver builds the value type capability for an owns clause.
type TypeResolver func(name string, c types.Constraints) (blueprint.Type, error)

type loadConfig struct {
	md      *blueprint.MetaData
	resolve TypeResolver
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

// WithMetaData loads into an existing MetaData instead of a fresh one.
func WithMetaData(md *blueprint.MetaData) LoadOption {
	return func(c *loadConfig) { c.md = md }
}

// WithTypeResolver replaces types.New as the source of value types.
func WithTypeResolver(r TypeResolver) LoadOption {
	return func(c *loadConfig) { c.resolve = r }
}

// DuplicateDeclarationError is returned when a name or class is declared twice.
type DuplicateDeclarationError struct {
	Context string
	Name    string
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("schemadsl: %s %q declared twice", e.Context, e.Name)
}

// UnknownEndpointError is returned when an adjacency names an undeclared
// node or relationship.
type UnknownEndpointError struct {
	Context string
	Name    string
}

func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf("schemadsl: adjacency references unknown %s %q", e.Context, e.Name)
}

// Load builds models from a parsed schema and binds them to their classes.
// Nothing is bound when an error is returned, unless the failure comes from
// the MetaData itself.
func Load(parsed *ParsedSchema, opts ...LoadOption) (*Schema, error) {
	cfg := loadConfig{resolve: types.New}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.md == nil {
		cfg.md = blueprint.NewMetaData()
	}

	l := &loader{
		cfg:           cfg,
		nodes:         make(map[string]*blueprint.Node),
		relationships: make(map[string]*blueprint.Relationship),
		classes:       make(map[blueprint.ClassID]bool),
	}

	type pending struct {
		class blueprint.ClassID
		model blueprint.Model
	}
	var bindings []pending

	for _, spec := range parsed.Nodes {
		if err := ValidateIdentifier(spec.Name, "node"); err != nil {
			return nil, err
		}
		if _, dup := l.nodes[spec.Name]; dup {
			return nil, &DuplicateDeclarationError{Context: "node", Name: spec.Name}
		}
		props, err := l.properties(spec)
		if err != nil {
			return nil, err
		}
		n, err := blueprint.NewNode(spec.Name, cfg.md, props...)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", spec.Name, err)
		}
		class, err := l.class(spec)
		if err != nil {
			return nil, err
		}
		l.nodes[spec.Name] = n
		bindings = append(bindings, pending{class, n})
	}

	for _, spec := range parsed.Relationships {
		if err := ValidateIdentifier(spec.Name, "relationship"); err != nil {
			return nil, err
		}
		if _, dup := l.relationships[spec.Name]; dup {
			return nil, &DuplicateDeclarationError{Context: "relationship", Name: spec.Name}
		}
		props, err := l.properties(spec)
		if err != nil {
			return nil, err
		}
		r, err := blueprint.NewRelationship(spec.Name, cfg.md, props...)
		if err != nil {
			return nil, fmt.Errorf("relationship %s: %w", spec.Name, err)
		}
		class, err := l.class(spec)
		if err != nil {
			return nil, err
		}
		l.relationships[spec.Name] = r
		bindings = append(bindings, pending{class, r})
	}

	schema := &Schema{MetaData: cfg.md}
	for _, spec := range parsed.Adjacencies {
		adj, err := l.adjacency(spec)
		if err != nil {
			return nil, err
		}
		schema.Adjacencies = append(schema.Adjacencies, adj)
	}

	for _, b := range bindings {
		if err := b.model.RegisterClass(b.class); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.class, err)
		}
	}
	return schema, nil
}

type loader struct {
	cfg           loadConfig
	nodes         map[string]*blueprint.Node
	relationships map[string]*blueprint.Relationship
	classes       map[blueprint.ClassID]bool
}

func (l *loader) class(spec ModelSpec) (blueprint.ClassID, error) {
	name := spec.Class
	if name == "" {
		name = ToPascalCase(spec.Name)
	}
	if err := ValidateIdentifier(name, "class"); err != nil {
		return "", err
	}
	class := blueprint.ClassID(name)
	if l.classes[class] {
		return "", &DuplicateDeclarationError{Context: "class", Name: name}
	}
	l.classes[class] = true
	return class, nil
}

func (l *loader) properties(spec ModelSpec) ([]*blueprint.Property, error) {
	props := make([]*blueprint.Property, 0, len(spec.Owns))
	for _, o := range spec.Owns {
		if err := ValidateIdentifier(o.Property, "property"); err != nil {
			return nil, err
		}
		typ, err := l.cfg.resolve(o.ValueType, types.Constraints{
			Regex:  o.Regex,
			Values: o.Values,
			Range:  o.Range,
			MaxLen: o.MaxLen,
		})
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", spec.Name, o.Property, err)
		}
		opts := []blueprint.PropertyOption{blueprint.Nullable(!o.NotNull)}
		if o.Indexed {
			opts = append(opts, blueprint.Indexed())
		}
		if o.DBName != "" {
			opts = append(opts, blueprint.DBName(o.DBName))
		}
		props = append(props, blueprint.NewProperty(o.Property, typ, opts...))
	}
	return props, nil
}

func (l *loader) adjacency(spec AdjacencySpec) (*blueprint.Adjacency, error) {
	n, ok := l.nodes[spec.Node]
	if !ok {
		return nil, &UnknownEndpointError{Context: "node", Name: spec.Node}
	}
	r, ok := l.relationships[spec.Relationship]
	if !ok {
		return nil, &UnknownEndpointError{Context: "relationship", Name: spec.Relationship}
	}
	var opts []blueprint.AdjacencyOption
	if spec.Direction != "" {
		d, err := blueprint.ParseDirection(spec.Direction)
		if err != nil {
			return nil, err
		}
		opts = append(opts, blueprint.WithDirection(d))
	}
	if spec.Multi != nil {
		opts = append(opts, blueprint.Multi(*spec.Multi))
	}
	if spec.Nullable != nil {
		opts = append(opts, blueprint.AdjacencyNullable(*spec.Nullable))
	}
	return blueprint.NewAdjacency(n, r, opts...)
}
