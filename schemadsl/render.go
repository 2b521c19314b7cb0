package schemadsl

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/CaliLuke/go-graphschema/blueprint"
	"github.com/CaliLuke/go-graphschema/types"
)

// Render writes the canonical text of a loaded schema: nodes, then
// relationships, each sorted by class, then adjacencies in declaration order.
// Parsing and loading the output yields an equivalent schema.
func Render(w io.Writer, s *Schema) error {
	_, err := io.WriteString(w, RenderString(s))
	return err
}

// RenderString returns the canonical text of a loaded schema.
func RenderString(s *Schema) string {
	var blocks []string

	nodes := s.MetaData.Nodes()
	for _, class := range sortedClasses(nodes) {
		n := nodes[class]
		blocks = append(blocks, renderModel("node", n.ElementType, class, n.Properties()))
	}
	rels := s.MetaData.Relationships()
	for _, class := range sortedClasses(rels) {
		r := rels[class]
		blocks = append(blocks, renderModel("relationship", r.Label, class, r.Properties()))
	}
	for _, a := range s.Adjacencies {
		blocks = append(blocks, renderAdjacency(a))
	}

	var b strings.Builder
	b.WriteString("define\n")
	for _, block := range blocks {
		b.WriteString("\n")
		b.WriteString(block)
		b.WriteString("\n")
	}
	return b.String()
}

func sortedClasses[M any](m map[blueprint.ClassID]M) []blueprint.ClassID {
	classes := make([]blueprint.ClassID, 0, len(m))
	for c := range m {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

func renderModel(keyword, name string, class blueprint.ClassID, props []*blueprint.Property) string {
	lines := []string{fmt.Sprintf("%s %s class %s", keyword, name, class)}
	for _, p := range props {
		owns := fmt.Sprintf("    owns %s %s", p.Name, p.Type.Name())
		if anns := propertyAnnotations(p); anns != "" {
			owns += " " + anns
		}
		lines = append(lines, owns)
	}
	return strings.Join(lines, ",\n") + ";"
}

func propertyAnnotations(p *blueprint.Property) string {
	var anns []string
	if !p.Nullable {
		anns = append(anns, "@notnull")
	}
	if p.Indexed {
		anns = append(anns, "@indexed")
	}
	if p.DBName != "" && p.DBName != p.Name {
		anns = append(anns, fmt.Sprintf("@db(%s)", quote(p.DBName)))
	}

	c := types.ConstraintsOf(p.Type)
	if c.Regex != "" {
		anns = append(anns, fmt.Sprintf("@regex(%s)", quote(c.Regex)))
	}
	if len(c.Values) > 0 {
		quoted := make([]string, len(c.Values))
		for i, v := range c.Values {
			quoted[i] = quote(v)
		}
		anns = append(anns, fmt.Sprintf("@values(%s)", strings.Join(quoted, ", ")))
	}
	if c.Range != "" {
		anns = append(anns, fmt.Sprintf("@range(%s)", c.Range))
	}
	if c.MaxLen > 0 {
		anns = append(anns, "@maxlen("+strconv.Itoa(c.MaxLen)+")")
	}
	return strings.Join(anns, " ")
}

func renderAdjacency(a *blueprint.Adjacency) string {
	parts := []string{"adjacency", a.Node.ElementType, a.Relationship.Label}
	if a.Direction != nil {
		parts = append(parts, fmt.Sprintf("@direction(%s)", *a.Direction))
	}
	if a.Multi != nil {
		parts = append(parts, flagAnnotation("@multi", *a.Multi))
	}
	if a.Nullable != nil {
		parts = append(parts, flagAnnotation("@nullable", *a.Nullable))
	}
	return strings.Join(parts, " ") + ";"
}

func flagAnnotation(name string, v bool) string {
	if v {
		return name
	}
	return name + "(false)"
}
