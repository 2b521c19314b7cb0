package schemadoc

import (
	"fmt"
	"reflect"
	"strings"
)

// SchemaDiff represents the differences between two snapshots of a schema.
type SchemaDiff struct {
	// AddModels are classes present only in the newer snapshot.
	AddModels []ModelChange
	// RemoveModels are classes present only in the older snapshot.
	RemoveModels []ModelChange
	// AddProperties are properties added to classes present in both.
	AddProperties []PropertyChange
	// RemoveProperties are properties dropped from classes present in both.
	RemoveProperties []PropertyChange
	// ChangeProperties are properties whose declaration differs.
	ChangeProperties []PropertyChange
	// AddAdjacencies are adjacencies present only in the newer snapshot.
	AddAdjacencies []AdjacencyDoc
	// RemoveAdjacencies are adjacencies present only in the older snapshot.
	RemoveAdjacencies []AdjacencyDoc
}

// ModelChange describes a class that appeared or disappeared.
type ModelChange struct {
	Class string
	Kind  string
	Name  string
}

// PropertyChange describes a property that appeared, disappeared or changed.
// Before is nil for additions, After is nil for removals.
type PropertyChange struct {
	Class    string
	Property string
	Before   *PropertyDoc
	After    *PropertyDoc
}

// Diff compares two snapshots. A class whose kind or model name changed is
// reported as removed and added.
func Diff(older, newer *Document) *SchemaDiff {
	d := &SchemaDiff{}

	oldModels := indexModels(older)
	newModels := indexModels(newer)

	for _, m := range newer.Models {
		prev, ok := oldModels[m.Class]
		if !ok || prev.Kind != m.Kind || prev.Name != m.Name {
			d.AddModels = append(d.AddModels, ModelChange{Class: m.Class, Kind: m.Kind, Name: m.Name})
			continue
		}
		d.diffProperties(prev, m)
	}
	for _, m := range older.Models {
		next, ok := newModels[m.Class]
		if !ok || next.Kind != m.Kind || next.Name != m.Name {
			d.RemoveModels = append(d.RemoveModels, ModelChange{Class: m.Class, Kind: m.Kind, Name: m.Name})
		}
	}

	oldAdj := indexAdjacencies(older)
	newAdj := indexAdjacencies(newer)
	for _, a := range newer.Adjacencies {
		if prev, ok := oldAdj[a.String()]; !ok || !reflect.DeepEqual(prev, a) {
			d.AddAdjacencies = append(d.AddAdjacencies, a)
		}
	}
	for _, a := range older.Adjacencies {
		if next, ok := newAdj[a.String()]; !ok || !reflect.DeepEqual(next, a) {
			d.RemoveAdjacencies = append(d.RemoveAdjacencies, a)
		}
	}
	return d
}

func (d *SchemaDiff) diffProperties(older, newer ModelDoc) {
	oldProps := make(map[string]PropertyDoc, len(older.Properties))
	for _, p := range older.Properties {
		oldProps[p.Name] = p
	}
	newProps := make(map[string]bool, len(newer.Properties))
	for _, p := range newer.Properties {
		newProps[p.Name] = true
		after := p
		prev, ok := oldProps[p.Name]
		switch {
		case !ok:
			d.AddProperties = append(d.AddProperties, PropertyChange{Class: newer.Class, Property: p.Name, After: &after})
		case !propertyEqual(prev, p):
			before := prev
			d.ChangeProperties = append(d.ChangeProperties, PropertyChange{
				Class: newer.Class, Property: p.Name, Before: &before, After: &after,
			})
		}
	}
	for _, p := range older.Properties {
		if !newProps[p.Name] {
			before := p
			d.RemoveProperties = append(d.RemoveProperties, PropertyChange{Class: older.Class, Property: p.Name, Before: &before})
		}
	}
}

// propertyEqual treats nil and empty value lists as equal.
func propertyEqual(a, b PropertyDoc) bool {
	if len(a.Values) == 0 && len(b.Values) == 0 {
		a.Values, b.Values = nil, nil
	}
	return reflect.DeepEqual(a, b)
}

func indexModels(d *Document) map[string]ModelDoc {
	out := make(map[string]ModelDoc, len(d.Models))
	for _, m := range d.Models {
		out[m.Class] = m
	}
	return out
}

func indexAdjacencies(d *Document) map[string]AdjacencyDoc {
	out := make(map[string]AdjacencyDoc, len(d.Adjacencies))
	for _, a := range d.Adjacencies {
		out[a.String()] = a
	}
	return out
}

// Summary returns a human-readable description of the changes in the diff.
func (d *SchemaDiff) Summary() string {
	if d.IsEmpty() {
		return "schema is up to date"
	}
	var parts []string
	if n := len(d.AddModels); n > 0 {
		parts = append(parts, fmt.Sprintf("add %d class(es): %s", n, strings.Join(modelClasses(d.AddModels), ", ")))
	}
	if n := len(d.RemoveModels); n > 0 {
		parts = append(parts, fmt.Sprintf("remove %d class(es): %s", n, strings.Join(modelClasses(d.RemoveModels), ", ")))
	}
	if n := len(d.AddProperties); n > 0 {
		parts = append(parts, fmt.Sprintf("add %d property(ies)", n))
	}
	if n := len(d.RemoveProperties); n > 0 {
		parts = append(parts, fmt.Sprintf("remove %d property(ies)", n))
	}
	if n := len(d.ChangeProperties); n > 0 {
		parts = append(parts, fmt.Sprintf("change %d property(ies)", n))
	}
	if n := len(d.AddAdjacencies); n > 0 {
		parts = append(parts, fmt.Sprintf("add %d adjacency(ies)", n))
	}
	if n := len(d.RemoveAdjacencies); n > 0 {
		parts = append(parts, fmt.Sprintf("remove %d adjacency(ies)", n))
	}
	return strings.Join(parts, "; ")
}

// Changes lists one line per change, for display.
func (d *SchemaDiff) Changes() []string {
	var lines []string
	for _, m := range d.AddModels {
		lines = append(lines, fmt.Sprintf("+ %s %s (%s)", m.Kind, m.Name, m.Class))
	}
	for _, m := range d.RemoveModels {
		lines = append(lines, fmt.Sprintf("- %s %s (%s)", m.Kind, m.Name, m.Class))
	}
	for _, p := range d.AddProperties {
		lines = append(lines, fmt.Sprintf("+ %s.%s %s", p.Class, p.Property, p.After.Type))
	}
	for _, p := range d.RemoveProperties {
		lines = append(lines, fmt.Sprintf("- %s.%s %s", p.Class, p.Property, p.Before.Type))
	}
	for _, p := range d.ChangeProperties {
		lines = append(lines, fmt.Sprintf("~ %s.%s", p.Class, p.Property))
	}
	for _, a := range d.AddAdjacencies {
		lines = append(lines, "+ adjacency "+a.String())
	}
	for _, a := range d.RemoveAdjacencies {
		lines = append(lines, "- adjacency "+a.String())
	}
	return lines
}

// IsEmpty returns true if no differences were detected.
func (d *SchemaDiff) IsEmpty() bool {
	return len(d.AddModels) == 0 &&
		len(d.RemoveModels) == 0 &&
		len(d.AddProperties) == 0 &&
		len(d.RemoveProperties) == 0 &&
		len(d.ChangeProperties) == 0 &&
		len(d.AddAdjacencies) == 0 &&
		len(d.RemoveAdjacencies) == 0
}

func modelClasses(changes []ModelChange) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.Class
	}
	return out
}
