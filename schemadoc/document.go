// Package schemadoc captures a MetaData as a plain, serializable Document so
// schemas can be hashed, stored, exported as JSON Schema and compared.
package schemadoc

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/CaliLuke/go-graphschema/blueprint"
	"github.com/CaliLuke/go-graphschema/types"
)

// Document is a deterministic snapshot of a schema. Models are sorted by
// class, properties keep declaration order, adjacencies are sorted by node
// then relationship.
type Document struct {
	Bind        string         `msgpack:"bind" yaml:"bind,omitempty"`
	Schema      string         `msgpack:"schema" yaml:"schema,omitempty"`
	Models      []ModelDoc     `msgpack:"models,omitempty" yaml:"models"`
	Adjacencies []AdjacencyDoc `msgpack:"adjacencies,omitempty" yaml:"adjacencies,omitempty"`
}

// ModelDoc describes one bound model.
type ModelDoc struct {
	Class      string        `msgpack:"class" yaml:"class"`
	Kind       string        `msgpack:"kind" yaml:"kind"`
	Name       string        `msgpack:"name" yaml:"name"`
	Properties []PropertyDoc `msgpack:"properties,omitempty" yaml:"properties,omitempty"`
}

// PropertyDoc describes one property and the constraints of its type.
type PropertyDoc struct {
	Name     string   `msgpack:"name" yaml:"name"`
	DBName   string   `msgpack:"db_name" yaml:"db_name,omitempty"`
	Type     string   `msgpack:"type" yaml:"type"`
	Nullable bool     `msgpack:"nullable" yaml:"nullable"`
	Indexed  bool     `msgpack:"indexed" yaml:"indexed,omitempty"`
	Regex    string   `msgpack:"regex" yaml:"regex,omitempty"`
	Values   []string `msgpack:"values,omitempty" yaml:"values,omitempty"`
	Range    string   `msgpack:"range" yaml:"range,omitempty"`
	MaxLen   int      `msgpack:"max_len" yaml:"max_len,omitempty"`
}

// AdjacencyDoc describes one adjacency by node element type and
// relationship label.
type AdjacencyDoc struct {
	Node         string `msgpack:"node" yaml:"node"`
	Relationship string `msgpack:"relationship" yaml:"relationship"`
	Direction    string `msgpack:"direction" yaml:"direction,omitempty"`
	Multi        *bool  `msgpack:"multi,omitempty" yaml:"multi,omitempty"`
	Nullable     *bool  `msgpack:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// String renders the adjacency as "node -[relationship]".
func (a AdjacencyDoc) String() string {
	return a.Node + " -[" + a.Relationship + "]"
}

// Describe snapshots md and the given adjacencies.
func Describe(md *blueprint.MetaData, adjacencies []*blueprint.Adjacency) *Document {
	doc := &Document{Bind: md.Bind, Schema: md.Schema}

	for class, n := range md.Nodes() {
		doc.Models = append(doc.Models, describeModel(class, n))
	}
	for class, r := range md.Relationships() {
		doc.Models = append(doc.Models, describeModel(class, r))
	}
	sort.Slice(doc.Models, func(i, j int) bool { return doc.Models[i].Class < doc.Models[j].Class })

	for _, a := range adjacencies {
		ad := AdjacencyDoc{
			Node:         a.Node.ElementType,
			Relationship: a.Relationship.Label,
			Multi:        a.Multi,
			Nullable:     a.Nullable,
		}
		if a.Direction != nil {
			ad.Direction = string(*a.Direction)
		}
		doc.Adjacencies = append(doc.Adjacencies, ad)
	}
	sort.SliceStable(doc.Adjacencies, func(i, j int) bool {
		a, b := doc.Adjacencies[i], doc.Adjacencies[j]
		if a.Node != b.Node {
			return a.Node < b.Node
		}
		return a.Relationship < b.Relationship
	})
	return doc
}

func describeModel(class blueprint.ClassID, m blueprint.Model) ModelDoc {
	md := ModelDoc{Class: string(class), Kind: m.Kind().String(), Name: m.Name()}
	for _, p := range m.Properties() {
		c := types.ConstraintsOf(p.Type)
		md.Properties = append(md.Properties, PropertyDoc{
			Name:     p.Name,
			DBName:   p.DBName,
			Type:     p.Type.Name(),
			Nullable: p.Nullable,
			Indexed:  p.Indexed,
			Regex:    c.Regex,
			Values:   c.Values,
			Range:    c.Range,
			MaxLen:   c.MaxLen,
		})
	}
	return md
}

// Model looks up a model by class.
func (d *Document) Model(class string) (ModelDoc, bool) {
	for _, m := range d.Models {
		if m.Class == class {
			return m, true
		}
	}
	return ModelDoc{}, false
}

// Hash returns the hex SHA-256 of the document's msgpack encoding. Equal
// schemas hash equal regardless of declaration order.
func (d *Document) Hash() (string, error) {
	data, err := MarshalMsgpack(d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// Restore rebuilds a MetaData and adjacencies from the document, resolving
// value types through types.New.
func (d *Document) Restore() (*blueprint.MetaData, []*blueprint.Adjacency, error) {
	md := blueprint.NewMetaData(blueprint.WithBind(d.Bind), blueprint.WithSchemaName(d.Schema))
	nodes := make(map[string]*blueprint.Node)
	rels := make(map[string]*blueprint.Relationship)

	for _, m := range d.Models {
		props := make([]*blueprint.Property, 0, len(m.Properties))
		for _, p := range m.Properties {
			typ, err := types.New(p.Type, types.Constraints{
				Regex:  p.Regex,
				Values: p.Values,
				Range:  p.Range,
				MaxLen: p.MaxLen,
			})
			if err != nil {
				return nil, nil, fmt.Errorf("schemadoc: %s.%s: %w", m.Class, p.Name, err)
			}
			opts := []blueprint.PropertyOption{blueprint.Nullable(p.Nullable)}
			if p.Indexed {
				opts = append(opts, blueprint.Indexed())
			}
			if p.DBName != "" {
				opts = append(opts, blueprint.DBName(p.DBName))
			}
			props = append(props, blueprint.NewProperty(p.Name, typ, opts...))
		}

		var model blueprint.Model
		switch m.Kind {
		case blueprint.KindNode.String():
			n, err := blueprint.NewNode(m.Name, md, props...)
			if err != nil {
				return nil, nil, fmt.Errorf("schemadoc: %s: %w", m.Class, err)
			}
			nodes[m.Name] = n
			model = n
		case blueprint.KindRelationship.String():
			r, err := blueprint.NewRelationship(m.Name, md, props...)
			if err != nil {
				return nil, nil, fmt.Errorf("schemadoc: %s: %w", m.Class, err)
			}
			rels[m.Name] = r
			model = r
		default:
			return nil, nil, fmt.Errorf("schemadoc: %s: unknown kind %q", m.Class, m.Kind)
		}
		if err := model.RegisterClass(blueprint.ClassID(m.Class)); err != nil {
			return nil, nil, fmt.Errorf("schemadoc: %w", err)
		}
	}

	var adjacencies []*blueprint.Adjacency
	for _, a := range d.Adjacencies {
		var opts []blueprint.AdjacencyOption
		if a.Direction != "" {
			dir, err := blueprint.ParseDirection(a.Direction)
			if err != nil {
				return nil, nil, fmt.Errorf("schemadoc: %s: %w", a, err)
			}
			opts = append(opts, blueprint.WithDirection(dir))
		}
		if a.Multi != nil {
			opts = append(opts, blueprint.Multi(*a.Multi))
		}
		if a.Nullable != nil {
			opts = append(opts, blueprint.AdjacencyNullable(*a.Nullable))
		}
		adj, err := blueprint.NewAdjacency(nodes[a.Node], rels[a.Relationship], opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("schemadoc: %s: %w", a, err)
		}
		adjacencies = append(adjacencies, adj)
	}
	return md, adjacencies, nil
}
