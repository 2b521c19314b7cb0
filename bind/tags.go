package bind

import (
	"fmt"
	"strconv"
	"strings"
)

// TagKey is the struct tag read by this package.
const TagKey = "graph"

// FieldTag is the parsed form of a `graph` struct tag.
type FieldTag struct {
	// Name is the property name. Empty means the snake_case field name.
	Name string
	// NotNull rejects absent values.
	NotNull bool
	// Indexed marks the property as indexed.
	Indexed bool
	// DBName overrides the storage name.
	DBName string
	// Type overrides the value type inferred from the Go type.
	Type string
	// MaxLen bounds string length.
	MaxLen int
	// Range bounds numbers, as "min..max".
	Range string
	// Values restricts strings to an enumeration, written a|b|c.
	Values []string
	// Regex is a pattern strings must match. It must be the last option and
	// runs to the end of the tag, so it may contain commas.
	Regex string
	// Skip ignores the field.
	Skip bool
}

// ParseTag parses the content of a `graph` struct tag, for example
// `name,notnull,indexed,db=full_name,type=string,maxlen=64,regex=^[a-z]+$`.
func ParseTag(tag string) (FieldTag, error) {
	if tag == "" || tag == "-" {
		return FieldTag{Skip: tag == "-"}, nil
	}

	ft := FieldTag{}
	if i := regexOption(tag); i >= 0 {
		ft.Regex = tag[i+len(regexKey):]
		if ft.Regex == "" {
			return FieldTag{}, fmt.Errorf("empty regex in tag %q", tag)
		}
		tag = tag[:i]
	}
	for i, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, hasValue := strings.Cut(part, "=")
		switch {
		case part == "notnull":
			ft.NotNull = true
		case part == "indexed":
			ft.Indexed = true
		case part == "-":
			ft.Skip = true
		case hasValue && key == "db":
			ft.DBName = value
		case hasValue && key == "type":
			ft.Type = value
		case hasValue && key == "range":
			ft.Range = value
		case hasValue && key == "values":
			ft.Values = strings.Split(value, "|")
		case hasValue && key == "maxlen":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return FieldTag{}, fmt.Errorf("invalid maxlen %q", value)
			}
			ft.MaxLen = n
		case i == 0 && !hasValue:
			ft.Name = part
		default:
			return FieldTag{}, fmt.Errorf("unknown tag option: %q", part)
		}
	}
	return ft, nil
}

const regexKey = "regex="

// regexOption returns the offset of the regex option in tag, or -1.
func regexOption(tag string) int {
	for i := 0; i+len(regexKey) <= len(tag); i++ {
		if (i == 0 || tag[i-1] == ',') && strings.HasPrefix(tag[i:], regexKey) {
			return i
		}
	}
	return -1
}
