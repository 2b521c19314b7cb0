package schemadsl

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/CaliLuke/go-graphschema/blueprint"
	"github.com/CaliLuke/go-graphschema/types"
)

// GoConfig specifies the settings for generating Go structs from a schema.
type GoConfig struct {
	// PackageName is the name of the Go package for the generated code.
	PackageName string
	// ModulePath is the import path of this module, used to import bind.
	ModulePath string
	// Enums, if true, generates string constants from @values constraints.
	Enums bool
}

// DefaultGoConfig returns a standard GoConfig with sensible defaults.
func DefaultGoConfig() GoConfig {
	return GoConfig{
		PackageName: "models",
		ModulePath:  "github.com/CaliLuke/go-graphschema",
		Enums:       true,
	}
}

// GenerateGo writes Go source declaring one struct per model of s, tagged for
// the bind package, and a Register function binding each to its class.
func GenerateGo(w io.Writer, s *Schema, cfg GoConfig) error {
	def := DefaultGoConfig()
	if cfg.PackageName == "" {
		cfg.PackageName = def.PackageName
	}
	if cfg.ModulePath == "" {
		cfg.ModulePath = def.ModulePath
	}

	data := &goData{PackageName: cfg.PackageName, ModulePath: cfg.ModulePath}
	seen := make(map[string]blueprint.ClassID)

	add := func(kind string, class blueprint.ClassID, name string, props []*blueprint.Property) error {
		m := goModel{
			GoName:  exportedName(string(class)),
			Kind:    kind,
			Declare: "Declare" + ToPascalCase(kind),
			Name:    name,
			Class:   string(class),
		}
		if prev, dup := seen[m.GoName]; dup {
			return fmt.Errorf("schemadsl: classes %s and %s both map to Go type %s", prev, class, m.GoName)
		}
		seen[m.GoName] = class

		for _, p := range props {
			f, err := data.field(p)
			if err != nil {
				return fmt.Errorf("schemadsl: %s.%s: %w", class, p.Name, err)
			}
			m.Fields = append(m.Fields, f)
			if c := types.ConstraintsOf(p.Type); cfg.Enums && len(c.Values) > 0 {
				data.Enums = append(data.Enums, buildGoEnum(m.GoName+f.GoName, p.Name, c.Values))
			}
		}
		data.Models = append(data.Models, m)
		return nil
	}

	nodes := s.MetaData.Nodes()
	for _, class := range sortedClasses(nodes) {
		n := nodes[class]
		if err := add("node", class, n.ElementType, n.Properties()); err != nil {
			return err
		}
	}
	rels := s.MetaData.Relationships()
	for _, class := range sortedClasses(rels) {
		r := rels[class]
		if err := add("relationship", class, r.Label, r.Properties()); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := goTemplate.Execute(&buf, data); err != nil {
		return err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("schemadsl: format generated code: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// --- Template context types ---

type goData struct {
	PackageName string
	ModulePath  string
	NeedsTime   bool
	NeedsURL    bool
	NeedsUUID   bool
	Enums       []goEnum
	Models      []goModel
}

type goEnum struct {
	Property string
	Values   []goEnumValue
}

type goEnumValue struct {
	GoName string
	Value  string
}

type goModel struct {
	GoName  string
	Kind    string
	Declare string
	Name    string
	Class   string
	Fields  []goField
}

type goField struct {
	GoName  string
	GoType  string
	Tag     string
	Comment string
}

// --- Context builders ---

func (d *goData) field(p *blueprint.Property) (goField, error) {
	f := goField{GoName: exportedName(p.Name)}

	switch p.Type.Name() {
	case "string":
		f.GoType = "string"
	case "integer":
		f.GoType = "int64"
	case "double":
		f.GoType = "float64"
	case "boolean":
		f.GoType = "bool"
	case "datetime":
		f.GoType = "time.Time"
		d.NeedsTime = true
	case "uuid":
		f.GoType = "uuid.UUID"
		d.NeedsUUID = true
	case "url":
		f.GoType = "url.URL"
		d.NeedsURL = true
	default:
		return goField{}, fmt.Errorf("no Go type for value type %q", p.Type.Name())
	}
	// Nullable fields are pointers so nil reads as absent.
	if p.Nullable {
		f.GoType = "*" + f.GoType
	}

	tagParts := []string{p.Name}
	if !p.Nullable {
		tagParts = append(tagParts, "notnull")
	}
	if p.Indexed {
		tagParts = append(tagParts, "indexed")
	}
	if p.DBName != "" && p.DBName != p.Name {
		tagParts = append(tagParts, "db="+p.DBName)
	}
	c := types.ConstraintsOf(p.Type)
	if c.MaxLen > 0 {
		tagParts = append(tagParts, fmt.Sprintf("maxlen=%d", c.MaxLen))
	}
	if c.Range != "" {
		tagParts = append(tagParts, "range="+c.Range)
	}
	if len(c.Values) > 0 {
		tagParts = append(tagParts, "values="+strings.Join(c.Values, "|"))
	}
	for _, part := range tagParts {
		if strings.ContainsAny(part, ",`") {
			return goField{}, fmt.Errorf("%q cannot be expressed in a struct tag", part)
		}
	}
	for _, v := range c.Values {
		if strings.Contains(v, "|") {
			return goField{}, fmt.Errorf("value %q cannot be expressed in a struct tag", v)
		}
	}
	// The regex runs to the end of the tag, so it goes last and may hold commas.
	if c.Regex != "" {
		if strings.Contains(c.Regex, "`") {
			return goField{}, fmt.Errorf("regex %q cannot be expressed in a struct tag", c.Regex)
		}
		f.Comment = "Must match " + c.Regex
		tagParts = append(tagParts, "regex="+c.Regex)
	}

	f.Tag = "`graph:" + strconv.Quote(strings.Join(tagParts, ",")) + "`"
	return f, nil
}

func buildGoEnum(prefix, property string, values []string) goEnum {
	e := goEnum{Property: property}
	for _, v := range values {
		name := identifierPart(v)
		if name == "" {
			continue
		}
		e.Values = append(e.Values, goEnumValue{GoName: prefix + name, Value: v})
	}
	return e
}

// identifierPart turns a value into a PascalCase identifier fragment,
// dropping characters Go identifiers cannot hold.
func identifierPart(v string) string {
	return ToPascalCase(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, v))
}

// exportedName returns an exported Go identifier for a schema name. Names
// without separators keep their inner casing, so "WorksAt" stays as is.
func exportedName(name string) string {
	if acronym, ok := commonAcronyms[strings.ToLower(name)]; ok {
		return acronym
	}
	if strings.ContainsAny(name, "-_") {
		return ToPascalCase(name)
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// --- Go template ---

var goTemplate = template.Must(template.New("models").Parse(`// Code generated by graphschema. DO NOT EDIT.

package {{.PackageName}}

import (
{{- if .NeedsURL}}
	"net/url"
{{- end}}
{{- if .NeedsTime}}
	"time"
{{- end}}
{{if .NeedsUUID}}
	"github.com/google/uuid"
{{- end}}
	"{{.ModulePath}}/bind"
)
{{- if .Enums}}
{{range .Enums}}
{{- if .Values}}
// Allowed values of the "{{.Property}}" property.
const (
{{- range .Values}}
	{{.GoName}} = {{printf "%q" .Value}}
{{- end}}
)
{{end}}
{{- end}}
{{- end}}
{{range .Models}}
// {{.GoName}} is the {{.Kind}} {{.Name}}, bound to class {{.Class}}.
type {{.GoName}} struct {
{{- range .Fields}}
{{- if .Comment}}
	// {{.Comment}}
{{- end}}
	{{.GoName}} {{.GoType}} {{.Tag}}
{{- end}}
}
{{end}}
// Register declares every model and binds it to its class.
func Register(b *bind.Binder) error {
{{- range .Models}}
	if m, err := bind.{{.Declare}}[{{.GoName}}](b.MetaData(), {{printf "%q" .Name}}); err != nil {
		return err
	} else if err := bind.Register[{{.GoName}}](b, {{printf "%q" .Class}}, m); err != nil {
		return err
	}
{{- end}}
	return nil
}
`))
