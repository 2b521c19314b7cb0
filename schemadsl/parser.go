package schemadsl

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// --- Participle grammar structs ---
// These define the schema grammar using struct tags.

// File is the top-level grammar: define followed by declarations.
type File struct {
	Define       string         `parser:"'define'"`
	Declarations []*Declaration `parser:"@@*"`
}

// Declaration is one of: node, relationship or adjacency.
type Declaration struct {
	Node         *ModelDef     `parser:"  'node' @@"`
	Relationship *ModelDef     `parser:"| 'relationship' @@"`
	Adjacency    *AdjacencyDef `parser:"| 'adjacency' @@"`
}

// ModelDef parses: name [class Class] [, owns ...]* ;
type ModelDef struct {
	Name    string       `parser:"@Ident"`
	Class   *ClassClause `parser:"@@?"`
	Comma   string       `parser:"','?"`
	Clauses []*OwnsDef   `parser:"( @@ ( ',' @@ )* )? ';'"`
}

// ClassClause parses: class Name
type ClassClause struct {
	Class string `parser:"'class' @Ident"`
}

// OwnsDef parses: owns property type [@annotation ...]
type OwnsDef struct {
	Property  string        `parser:"'owns' @Ident"`
	ValueType string        `parser:"@Ident"`
	Annots    []*Annotation `parser:"@@*"`
}

// Annotation parses one property annotation.
type Annotation struct {
	NotNull bool         `parser:"  @'@notnull'"`
	Indexed bool         `parser:"| @'@indexed'"`
	DB      *DBAnnot     `parser:"| @@"`
	Regex   *RegexAnnot  `parser:"| @@"`
	Values  *ValuesAnnot `parser:"| @@"`
	Range   *RangeAnnot  `parser:"| @@"`
	MaxLen  *MaxLenAnnot `parser:"| @@"`
}

// DBAnnot parses: @db("name")
type DBAnnot struct {
	Name string `parser:"'@db' '(' @String ')'"`
}

// RegexAnnot parses: @regex("pattern")
type RegexAnnot struct {
	Pattern string `parser:"'@regex' '(' @String ')'"`
}

// ValuesAnnot parses: @values("a", "b", ...)
type ValuesAnnot struct {
	Values []string `parser:"'@values' '(' @String ( ',' @String )* ')'"`
}

// RangeAnnot parses: @range(min..max)
type RangeAnnot struct {
	Expr string `parser:"'@range' '(' @Range ')'"`
}

// MaxLenAnnot parses: @maxlen(n)
type MaxLenAnnot struct {
	N int `parser:"'@maxlen' '(' @Int ')'"`
}

// AdjacencyDef parses: node relationship [@annotation ...] ;
type AdjacencyDef struct {
	Node         string           `parser:"@Ident"`
	Relationship string           `parser:"@Ident"`
	Annots       []*AdjAnnotation `parser:"@@* ';'"`
}

// AdjAnnotation parses one adjacency annotation.
type AdjAnnotation struct {
	Direction *DirectionAnnot `parser:"  @@"`
	Multi     *MultiAnnot     `parser:"| @@"`
	Nullable  *NullableAnnot  `parser:"| @@"`
}

// DirectionAnnot parses: @direction(in|out|both)
type DirectionAnnot struct {
	Direction string `parser:"'@direction' '(' @Ident ')'"`
}

// MultiAnnot parses: @multi or @multi(true|false)
type MultiAnnot struct {
	Keyword string  `parser:"@'@multi'"`
	Value   *string `parser:"( '(' @( 'true' | 'false' ) ')' )?"`
}

// NullableAnnot parses: @nullable or @nullable(true|false)
type NullableAnnot struct {
	Keyword string  `parser:"@'@nullable'"`
	Value   *string `parser:"( '(' @( 'true' | 'false' ) ')' )?"`
}

var schemaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "AnnotKW", Pattern: `@(notnull|indexed|db|regex|values|range|maxlen|direction|multi|nullable)\b`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Range", Pattern: `-?[0-9]+(?:\.[0-9]+)?\.\.(?:-?[0-9]+(?:\.[0-9]+)?)?|\.\.-?[0-9]+(?:\.[0-9]+)?`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_-]*`},
	{Name: "Punct", Pattern: `[;,()]`},
})

var buildParser = sync.OnceValues(func() (*participle.Parser[File], error) {
	return participle.Build[File](
		participle.Lexer(schemaLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(3),
	)
})

// --- Parser construction and entry point ---

// ParseSchema parses schema text into a ParsedSchema.
func ParseSchema(input string) (*ParsedSchema, error) {
	return parse("schema.gsl", input)
}

// ParseSchemaFile reads a schema from the specified file path and parses it.
func ParseSchemaFile(path string) (*ParsedSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return parse(path, string(data))
}

func parse(filename, input string) (*ParsedSchema, error) {
	parser, err := buildParser()
	if err != nil {
		return nil, fmt.Errorf("build parser: %w", err)
	}

	ast, err := parser.ParseString(filename, input)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	return convertAST(ast)
}

// convertAST converts the participle AST to our domain model.
func convertAST(file *File) (*ParsedSchema, error) {
	schema := &ParsedSchema{}

	for _, decl := range file.Declarations {
		switch {
		case decl.Node != nil:
			schema.Nodes = append(schema.Nodes, convertModel(decl.Node))
		case decl.Relationship != nil:
			schema.Relationships = append(schema.Relationships, convertModel(decl.Relationship))
		case decl.Adjacency != nil:
			adj, err := convertAdjacency(decl.Adjacency)
			if err != nil {
				return nil, err
			}
			schema.Adjacencies = append(schema.Adjacencies, adj)
		}
	}

	return schema, nil
}

func convertModel(m *ModelDef) ModelSpec {
	spec := ModelSpec{Name: m.Name}
	if m.Class != nil {
		spec.Class = m.Class.Class
	}
	for _, o := range m.Clauses {
		spec.Owns = append(spec.Owns, convertOwns(o))
	}
	return spec
}

func convertOwns(o *OwnsDef) OwnsSpec {
	spec := OwnsSpec{Property: o.Property, ValueType: o.ValueType}
	for _, ann := range o.Annots {
		switch {
		case ann.NotNull:
			spec.NotNull = true
		case ann.Indexed:
			spec.Indexed = true
		case ann.DB != nil:
			spec.DBName = unquote(ann.DB.Name)
		case ann.Regex != nil:
			spec.Regex = unquote(ann.Regex.Pattern)
		case ann.Values != nil:
			for _, v := range ann.Values.Values {
				spec.Values = append(spec.Values, unquote(v))
			}
		case ann.Range != nil:
			spec.Range = ann.Range.Expr
		case ann.MaxLen != nil:
			spec.MaxLen = ann.MaxLen.N
		}
	}
	return spec
}

func convertAdjacency(a *AdjacencyDef) (AdjacencySpec, error) {
	spec := AdjacencySpec{Node: a.Node, Relationship: a.Relationship}
	for _, ann := range a.Annots {
		switch {
		case ann.Direction != nil:
			spec.Direction = ann.Direction.Direction
		case ann.Multi != nil:
			v, err := flagValue(ann.Multi.Value)
			if err != nil {
				return AdjacencySpec{}, err
			}
			spec.Multi = &v
		case ann.Nullable != nil:
			v, err := flagValue(ann.Nullable.Value)
			if err != nil {
				return AdjacencySpec{}, err
			}
			spec.Nullable = &v
		}
	}
	return spec, nil
}

// flagValue reads an optional (true|false) argument; a bare flag is true.
func flagValue(v *string) (bool, error) {
	if v == nil {
		return true, nil
	}
	return strconv.ParseBool(*v)
}

// unquote strips the surrounding quotes of a string literal and resolves the
// \" and \\ escapes. Other backslashes are kept so regex escapes survive.
func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// quote is the inverse of unquote.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
